// cmd/sitac/dialogs.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/util"

	"github.com/AllenDang/cimgui-go/imgui"
)

// activeModalDialogs is drawn front to back; only the frontmost dialog
// is visible and interactive at a time.
var activeModalDialogs []*ModalDialogBox

func hasActiveModalDialogs() bool {
	return len(activeModalDialogs) > 0
}

func uiShowModalDialog(d *ModalDialogBox, atFront bool) {
	if atFront {
		activeModalDialogs = append([]*ModalDialogBox{d}, activeModalDialogs...)
	} else {
		activeModalDialogs = append(activeModalDialogs, d)
	}
}

// uiShowConfirmDialog poses a yes/no question; onOK runs only if the
// user confirms.  The briefing editor routes its delete confirmations
// through here.
func uiShowConfirmDialog(p platform.Platform, title, query string, onOK func()) {
	uiShowModalDialog(NewModalDialogBox(&YesOrNoModalClient{
		title: title,
		query: query,
		ok:    onOK,
	}, p), false)
}

func drawActiveDialogBoxes() {
	for len(activeModalDialogs) > 0 {
		d := activeModalDialogs[0]
		if !d.closed {
			d.Draw()
			break
		} else {
			activeModalDialogs = activeModalDialogs[1:]
		}
	}

	if ui.showAboutDialog {
		showAboutDialog()
	}
}

func setCursorForRightButtons(text []string) {
	style := imgui.CurrentStyle()
	width := float32(0)

	for i, t := range text {
		width += imgui.CalcTextSize(t).X + 2*style.FramePadding().X
		if i > 0 {
			// space between buttons
			width += style.ItemSpacing().X
		}
	}
	offset := imgui.ContentRegionAvail().X - width
	imgui.SetCursorPos(imgui.Vec2{offset, imgui.CursorPosY()})
}

///////////////////////////////////////////////////////////////////////////

type ModalDialogBox struct {
	closed, isOpen bool
	client         ModalDialogClient
	platform       platform.Platform
}

type ModalDialogButton struct {
	text     string
	disabled bool
	action   func() bool
}

type ModalDialogClient interface {
	Title() string
	Opening()
	Buttons() []ModalDialogButton
	Draw() int /* returns index of equivalently-clicked button; out of range if none */
}

func NewModalDialogBox(c ModalDialogClient, p platform.Platform) *ModalDialogBox {
	return &ModalDialogBox{client: c, platform: p}
}

func (m *ModalDialogBox) Draw() {
	if m.closed {
		return
	}

	title := fmt.Sprintf("%s##%p", m.client.Title(), m)
	imgui.OpenPopupStr(title)

	dpiScale := util.Select(runtime.GOOS == "windows", m.platform.DPIScale(), float32(1))
	windowSize := m.platform.WindowSize()

	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
	maxHeight := float32(windowSize[1]) * 19 / 20
	imgui.SetNextWindowSizeConstraints(imgui.Vec2{dpiScale * 500, dpiScale * 100}, imgui.Vec2{-1, maxHeight})

	// Position the window near the top of the screen to ensure it doesn't
	// extend below the bottom.
	topMargin := float32(windowSize[1]) * 0.05
	imgui.SetNextWindowPosV(imgui.Vec2{float32(windowSize[0]) / 2, topMargin}, imgui.CondAlways, imgui.Vec2{0.5, 0})

	if imgui.BeginPopupModalV(title, nil, flags) {
		if !m.isOpen {
			imgui.SetKeyboardFocusHere()
			m.client.Opening()
			m.isOpen = true
		}

		// Escape dismisses without running any button action; for a
		// yes/no dialog that means the pending callback is dropped.
		if imgui.IsKeyPressedBool(imgui.KeyEscape) {
			imgui.CloseCurrentPopup()
			m.closed = true
			m.isOpen = false
		}

		selIndex := m.client.Draw()
		imgui.Text("\n") // spacing

		buttons := m.client.Buttons()

		if len(buttons) > 0 {
			// First, figure out where to start drawing so the buttons end
			// up right-justified.
			// https://github.com/ocornut/imgui/discussions/3862
			var allButtonText []string
			for _, b := range buttons {
				allButtonText = append(allButtonText, b.text)
			}
			setCursorForRightButtons(allButtonText)
		}

		for i, b := range buttons {
			if b.disabled {
				imgui.BeginDisabled()
			}
			if i > 0 {
				imgui.SameLine()
			}
			if (imgui.Button(b.text) || i == selIndex) && !b.disabled {
				if b.action == nil || b.action() {
					imgui.CloseCurrentPopup()
					m.closed = true
					m.isOpen = false
				}
			}
			if b.disabled {
				imgui.EndDisabled()
			}
		}
		imgui.EndPopup()
	}
}

///////////////////////////////////////////////////////////////////////////

type YesOrNoModalClient struct {
	title, query string
	ok, notok    func()
}

func (yn *YesOrNoModalClient) Title() string { return yn.title }

func (yn *YesOrNoModalClient) Opening() {}

func (yn *YesOrNoModalClient) Buttons() []ModalDialogButton {
	var b []ModalDialogButton
	b = append(b, ModalDialogButton{text: "No", action: func() bool {
		if yn.notok != nil {
			yn.notok()
		}
		return true
	}})
	b = append(b, ModalDialogButton{text: "Yes", action: func() bool {
		if yn.ok != nil {
			yn.ok()
		}
		return true
	}})
	return b
}

func (yn *YesOrNoModalClient) Draw() int {
	imgui.Text(yn.query)
	return -1
}

type MessageModalClient struct {
	title   string
	message string
}

func (m *MessageModalClient) Title() string { return m.title }
func (m *MessageModalClient) Opening()      {}

func (m *MessageModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{{text: "Ok", action: func() bool { return true }}}
}

func (m *MessageModalClient) Draw() int {
	imgui.PushTextWrapPos()
	imgui.Text("\n" + m.message + "\n")
	imgui.PopTextWrapPos()
	return -1
}

type ErrorModalClient struct {
	message string
}

func (e *ErrorModalClient) Title() string { return "SITAC Error" }
func (e *ErrorModalClient) Opening()      {}

func (e *ErrorModalClient) Buttons() []ModalDialogButton {
	var b []ModalDialogButton
	b = append(b, ModalDialogButton{text: "Ok", action: func() bool {
		return true
	}})
	return b
}

func (e *ErrorModalClient) Draw() int {
	imgui.PushStyleColorVec4(imgui.ColText, imgui.Vec4{0.89, 0.23, 0.23, 1})
	imgui.Text(renderer.FontAwesomeIconExclamationTriangle)
	imgui.PopStyleColor()
	imgui.SameLine()

	imgui.PushTextWrapPos()
	imgui.Text(e.message)
	imgui.PopTextWrapPos()
	return -1
}

func ShowErrorDialog(p platform.Platform, lg *log.Logger, s string, args ...any) {
	d := NewModalDialogBox(&ErrorModalClient{message: fmt.Sprintf(s, args...)}, p)
	uiShowModalDialog(d, true)

	lg.Errorf(s, args...)
}

// ShowFatalErrorDialog takes over the event loop to display the error
// and exits once the user has acknowledged it.
func ShowFatalErrorDialog(r renderer.Renderer, p platform.Platform, lg *log.Logger, s string, args ...any) {
	lg.Errorf(s, args...)

	d := NewModalDialogBox(&ErrorModalClient{message: fmt.Sprintf(s, args...)}, p)

	for !d.closed {
		p.ProcessEvents()
		p.NewFrame()
		imgui.NewFrame()
		imgui.PushFont(&ui.font.Ifont)
		d.Draw()
		imgui.PopFont()

		imgui.Render()
		var cb renderer.CommandBuffer
		renderer.GenerateImguiCommandBuffer(&cb, p.DisplaySize(), p.FramebufferSize(), lg)
		r.RenderCommandBuffer(&cb)

		p.PostRender()
	}
	os.Exit(1)
}

///////////////////////////////////////////////////////////////////////////
// Map detail dialogs

func zoneSideName(side int) string {
	switch side {
	case briefing.SideRed:
		return "red"
	case briefing.SideBlue:
		return "blue"
	default:
		return "neutral"
	}
}

// zoneInfoModalClient is the read-only popup shown when the user clicks
// a zone on the map.
type zoneInfoModalClient struct {
	zone   briefing.MapZone
	format coords.Format
}

func (z *zoneInfoModalClient) Title() string { return "Zone" }
func (z *zoneInfoModalClient) Opening()      {}

func (z *zoneInfoModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{{text: "Ok", action: func() bool { return true }}}
}

func (z *zoneInfoModalClient) Draw() int {
	color := renderer.RGBFromHexString(z.zone.DisplayColor())
	imgui.PushStyleColorVec4(imgui.ColText, imgui.Vec4{color.R, color.G, color.B, 1})
	imgui.Text(z.zone.Name)
	imgui.PopStyleColor()
	if flavor := z.zone.FlavorFirstLine(); flavor != "" {
		imgui.Text(flavor)
	}

	imgui.Text("Coalition: " + zoneSideName(z.zone.Side))
	imgui.Text(fmt.Sprintf("Detected units: %d (level %d)", z.zone.Units, z.zone.Level))
	imgui.Text(fmt.Sprintf("Lat / Lon: %.6f, %.6f", z.zone.Lat, z.zone.Lon))
	imgui.Text(coords.FormatPointWide(z.zone.Position(), z.format))
	return -1
}

// pilotInfoModalClient shows a downed pilot's position when their map
// marker is clicked, in every coordinate format so it can be read onto
// whatever the CSAR flight is using.
type pilotInfoModalClient struct {
	pilot briefing.MapEjectedPilot
}

func (pc *pilotInfoModalClient) Title() string { return "Downed Pilot" }
func (pc *pilotInfoModalClient) Opening()      {}

func (pc *pilotInfoModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{{text: "Ok", action: func() bool { return true }}}
}

func (pc *pilotInfoModalClient) Draw() int {
	imgui.Text(renderer.FontAwesomeIconExclamationTriangle + " " + pc.pilot.PlayerName)
	imgui.Text(fmt.Sprintf("Altitude: %.0f m", pc.pilot.Altitude))
	if pc.pilot.LostCredits > 0 {
		imgui.Text(fmt.Sprintf("Lost credits: %.0f", pc.pilot.LostCredits))
	}
	imgui.Separator()
	for _, f := range []coords.Format{coords.FormatDecimal, coords.FormatDDM, coords.FormatDMS} {
		imgui.Text(f.Label() + ": " + coords.FormatPointWide(pc.pilot.Position(), f))
	}
	return -1
}
