// panes/panes.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package panes holds the pieces of the sitac window: the live theater
// map and the briefing editor, plus the small amount of shared plumbing
// they need (mouse handling, keyboard focus, and scrollbars).
package panes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/math"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
)

// Panes (should) mostly operate in window coordinates: (0,0) is lower
// left, just in their own pane, oblivious to the full window size.  Higher
// level code will handle positioning the panes in the main window.
type Pane interface {
	Name() string

	// Activate is called once at startup, after the renderer and fonts
	// are ready.
	Activate(r renderer.Renderer, p platform.Platform, lg *log.Logger)
	Deactivate()

	CanTakeKeyboardFocus() bool

	Draw(ctx *Context, cb *renderer.CommandBuffer)
}

// UIDrawer is implemented by panes that have settings to show in the
// settings window.
type UIDrawer interface {
	DisplayName() string
	DrawUI(p platform.Platform, config *platform.Config)
}

type KeyboardFocus struct {
	current any
}

func (f *KeyboardFocus) Take(p any) {
	f.current = p
}

func (f *KeyboardFocus) Release() {
	f.current = nil
}

func (f *KeyboardFocus) Current() any {
	return f.current
}

var UIControlColor renderer.RGB = renderer.RGB{R: 0.2754237, G: 0.2754237, B: 0.2754237}
var UICautionColor renderer.RGB = renderer.RGBFromHex(0xB7B513)
var UITextColor renderer.RGB = renderer.RGB{R: 0.85, G: 0.85, B: 0.85}
var UITextHighlightColor renderer.RGB = renderer.RGBFromHex(0xB2B338)
var UIErrorColor renderer.RGB = renderer.RGBFromHex(0xE94242)

type Context struct {
	PaneExtent       math.Extent2D
	ParentPaneExtent math.Extent2D

	Platform  platform.Platform
	Renderer  renderer.Renderer
	Mouse     *platform.MouseState
	Keyboard  *platform.KeyboardState
	HaveFocus bool
	Now       time.Time
	Lg        *log.Logger

	MenuBarHeight float32

	KeyboardFocus *KeyboardFocus

	Controller *briefing.Controller
	Poller     *client.MapPoller

	// CoordFormat is the user's configured latitude/longitude display
	// format, used for the cursor readout.
	CoordFormat coords.Format

	// Full display size, including the menu bar.
	displaySize [2]float32
}

func (ctx *Context) InitializeMouse(p platform.Platform) {
	ctx.Mouse = p.GetMouse()

	ctx.Mouse.Pos = ctx.WindowToPane(ctx.Mouse.Pos)
	// Negate y to go to pane coordinates
	ctx.Mouse.Wheel[1] *= -1
	ctx.Mouse.DragDelta[1] *= -1
}

// Convert to pane coordinates:
// platform gives us the mouse position w.r.t. the full window, so we need
// to subtract out the pane extent's p0 to get coordinates w.r.t. the
// current pane.  Further, it has (0,0) in the upper left corner of the
// window, so we need to flip y w.r.t. the full window resolution.
func (ctx *Context) WindowToPane(p [2]float32) [2]float32 {
	return [2]float32{
		p[0] - ctx.PaneExtent.P0[0],
		ctx.displaySize[1] - 1 - ctx.PaneExtent.P0[1] - p[1],
	}
}

func (ctx *Context) SetWindowCoordinateMatrices(cb *renderer.CommandBuffer) {
	w := float32(int(ctx.PaneExtent.Width() + 0.5))
	h := float32(int(ctx.PaneExtent.Height() + 0.5))
	cb.LoadProjectionMatrix(math.Identity3x3().Ortho(0, w, 0, h))
	cb.LoadModelViewMatrix(math.Identity3x3())
}

var paneUnmarshalRegistry map[string]func([]byte) (Pane, error) = make(map[string]func([]byte) (Pane, error))

func RegisterUnmarshalPane(name string, fn func([]byte) (Pane, error)) {
	if _, ok := paneUnmarshalRegistry[name]; ok {
		panic(name + " registered multiple times")
	}
	paneUnmarshalRegistry[name] = fn
}

func UnmarshalPane(paneType string, data []byte) (Pane, error) {
	if paneType == "" {
		return nil, nil
	} else if _, name, ok := strings.Cut(paneType, "."); ok { // e.g. "*panes.MapPane"
		if fn, ok := paneUnmarshalRegistry[name]; ok {
			return fn(data)
		}
	}
	return NewEmptyPane(), fmt.Errorf("%s: Unhandled type in config file", paneType)
}

///////////////////////////////////////////////////////////////////////////
// EmptyPane

type EmptyPane struct {
	// Empty struct types may all have the same address, which breaks
	// assorted assumptions elsewhere in the system....
	Wtfgo int
}

func NewEmptyPane() *EmptyPane { return &EmptyPane{} }

func init() {
	RegisterUnmarshalPane("EmptyPane", func(d []byte) (Pane, error) {
		return &EmptyPane{}, nil // nothing to unmarshal
	})
	RegisterUnmarshalPane("MapPane", func(d []byte) (Pane, error) {
		var mp MapPane
		err := json.Unmarshal(d, &mp)
		return &mp, err
	})
}

func (ep *EmptyPane) Name() string { return "(Empty)" }

func (ep *EmptyPane) Activate(renderer.Renderer, platform.Platform, *log.Logger) {}
func (ep *EmptyPane) Deactivate()                                               {}
func (ep *EmptyPane) CanTakeKeyboardFocus() bool                                { return false }

func (ep *EmptyPane) Draw(ctx *Context, cb *renderer.CommandBuffer) {}

///////////////////////////////////////////////////////////////////////////
// imgui helpers

// If |b| is true, all following imgui elements will be disabled (and drawn
// accordingly).
func uiStartDisable(b bool) {
	if b {
		imgui.BeginDisabled()
	}
}

// Each call to uiStartDisable should have a matching call to uiEndDisable,
// with the same Boolean value passed to it.
func uiEndDisable(b bool) {
	if b {
		imgui.EndDisabled()
	}
}
