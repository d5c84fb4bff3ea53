// panes/display.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// This file handles rendering the main map pane.  The main window is
// dedicated to the theater map; the briefing editor lives in its own
// floating imgui window.

package panes

import (
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

var (
	wm struct {
		// Normally the Pane that the mouse is over gets mouse events,
		// though if the user has started a click-drag, then the Pane that
		// received the click keeps getting events until the mouse button
		// is released.  mouseConsumerOverride records such a pane.
		mouseConsumerOverride Pane

		focus KeyboardFocus
	}
)

// DrawPanes renders the map pane, which fills the entire display area
// below the menu bar.
func DrawPanes(pane Pane, p platform.Platform, r renderer.Renderer, ctrl *briefing.Controller,
	poller *client.MapPoller, coordFormat coords.Format, menuBarHeight float32,
	lg *log.Logger) renderer.RendererStats {
	if wm.focus.Current() == nil || wm.focus.Current() != pane {
		if pane.CanTakeKeyboardFocus() {
			wm.focus.Take(pane)
		}
	}

	fbSize := p.FramebufferSize()
	displaySize := p.DisplaySize()

	// Area left for actually drawing the pane
	paneDisplayExtent := math.Extent2D{
		P0: [2]float32{0, 0},
		P1: [2]float32{displaySize[0], displaySize[1] - menuBarHeight},
	}

	// Get the mouse position from imgui; convert from screen coordinates
	// to main-window-relative coordinates (with multi-viewport, MousePos
	// returns OS screen coords), then flip y to match our window coords.
	mainViewportPos := imgui.MainViewport().Pos()
	mousePos := [2]float32{
		imgui.MousePos().X - mainViewportPos.X,
		displaySize[1] - 1 - (imgui.MousePos().Y - mainViewportPos.Y),
	}

	io := imgui.CurrentIO()

	// If the user has clicked or is dragging in the pane, record it in
	// mouseConsumerOverride so that we continue to dispatch mouse
	// events until the mouse button is released.
	isDragging := imgui.IsMouseDraggingV(platform.MouseButtonPrimary, 0.) ||
		imgui.IsMouseDraggingV(platform.MouseButtonSecondary, 0.) ||
		imgui.IsMouseDraggingV(platform.MouseButtonTertiary, 0.)
	isClicked := imgui.IsMouseClickedBool(platform.MouseButtonPrimary) ||
		imgui.IsMouseClickedBool(platform.MouseButtonSecondary) ||
		imgui.IsMouseClickedBool(platform.MouseButtonTertiary)
	if !io.WantCaptureMouse() && (isDragging || isClicked) && wm.mouseConsumerOverride == nil {
		wm.mouseConsumerOverride = pane
	} else if io.WantCaptureMouse() {
		wm.mouseConsumerOverride = nil
	}

	commandBuffer := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(commandBuffer)
	commandBuffer.ClearRGB(renderer.RGB{})

	var keyboard *platform.KeyboardState
	if !io.WantCaptureKeyboard() {
		keyboard = p.GetKeyboard()
	}

	haveFocus := pane == wm.focus.Current() && !io.WantCaptureKeyboard()
	ctx := Context{
		PaneExtent:       paneDisplayExtent,
		ParentPaneExtent: paneDisplayExtent,
		Platform:         p,
		Renderer:         r,
		Keyboard:         keyboard,
		HaveFocus:        haveFocus,
		Now:              time.Now(),
		Lg:               lg,
		MenuBarHeight:    menuBarHeight,
		KeyboardFocus:    &wm.focus,
		Controller:       ctrl,
		Poller:           poller,
		CoordFormat:      coordFormat,
		displaySize:      displaySize,
	}

	ownsMouse := wm.mouseConsumerOverride == pane ||
		(wm.mouseConsumerOverride == nil &&
			!io.WantCaptureMouse() &&
			paneDisplayExtent.Inside(mousePos))
	if ownsMouse {
		ctx.InitializeMouse(p)
	}

	commandBuffer.SetDrawBounds(paneDisplayExtent, p.FramebufferSize()[1]/p.DisplaySize()[1])
	pane.Draw(&ctx, commandBuffer)
	commandBuffer.ResetState()

	if !isDragging && !isClicked {
		wm.mouseConsumerOverride = nil
	}

	if fbSize[0] > 0 && fbSize[1] > 0 {
		return r.RenderCommandBuffer(commandBuffer)
	}
	return renderer.RendererStats{}
}
