// cmd/sitac/ui.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"context"
	"image/jpeg"
	"runtime"
	"strconv"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/ncruces/zenity"
	"github.com/pkg/browser"
)

var ui struct {
	font           *renderer.Font
	aboutFont      *renderer.Font
	aboutFontSmall *renderer.Font

	menuBarHeight float32

	showAboutDialog bool
	showSettings    bool
}

func imguiInit() *imgui.Context {
	context := imgui.CreateContext()
	imgui.CurrentIO().SetIniFilename("")

	// Disable the nav windowing popup (Ctrl+Tab/Cmd+Tab window switcher) by
	// clearing the shortcut keys that trigger it.
	context.SetConfigNavWindowingKeyNext(imgui.KeyChord(imgui.KeyNone))
	context.SetConfigNavWindowingKeyPrev(imgui.KeyChord(imgui.KeyNone))

	// General imgui styling
	style := imgui.CurrentStyle()
	style.SetFrameRounding(2.)
	style.SetWindowRounding(4.)
	style.SetPopupRounding(4.)
	style.SetScrollbarSize(6.)
	style.ScaleAllSizes(1.25)

	return context
}

func uiInit(r renderer.Renderer, p platform.Platform, config *Config, lg *log.Logger) {
	if runtime.GOOS == "windows" {
		imgui.CurrentStyle().ScaleAllSizes(p.DPIScale())
	}

	ui.font = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: config.UIFontSize})
	ui.aboutFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 18})
	ui.aboutFontSmall = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 14})

	if !config.AskedDiscordOptIn {
		uiShowDiscordOptInDialog(p, config)
	}
}

func uiDraw(config *Config, p platform.Platform, r renderer.Renderer, ctrl *briefing.Controller,
	poller *client.MapPoller, lg *log.Logger) renderer.RendererStats {
	state := ctrl.State()
	data, _, _ := poller.Snapshot()

	imgui.PushFont(&ui.font.Ifont)
	if imgui.BeginMainMenuBar() {
		imgui.PushStyleColorVec4(imgui.ColButton, imgui.CurrentStyle().Colors()[imgui.ColMenuBarBg])

		if imgui.Button(renderer.FontAwesomeIconBook) {
			config.ShowBriefingWindow = !config.ShowBriefingWindow
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Show or hide the briefing editor")
		}

		if imgui.Button(renderer.FontAwesomeIconRedo) {
			poller.RefreshNow()
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Refresh campaign data now")
		}

		exportDisabled := state.ExportBusy || state.Briefing == nil
		if exportDisabled {
			imgui.BeginDisabled()
		}
		if imgui.Button(renderer.FontAwesomeIconFileExport) {
			startExport(p, r, ctrl, lg)
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Export the briefing to PowerPoint")
		}
		if exportDisabled {
			imgui.EndDisabled()
		}

		if imgui.Button(renderer.FontAwesomeIconCog) {
			ui.showSettings = !ui.showSettings
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Open settings window")
		}

		// Right-justified icons.
		width, _ := ui.font.BoundText(renderer.FontAwesomeIconInfoCircle, 0)
		imgui.SetCursorPos(imgui.Vec2{p.DisplaySize()[0] - float32(3*width+15), 0})

		if imgui.Button(renderer.FontAwesomeIconInfoCircle) {
			ui.showAboutDialog = !ui.showAboutDialog
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Display information about sitac")
		}
		if imgui.Button(renderer.FontAwesomeIconDiscord) {
			browser.OpenURL("https://discord.gg/foothold")
		}

		if imgui.Button(util.Select(p.IsFullScreen(), renderer.FontAwesomeIconCompressAlt, renderer.FontAwesomeIconExpandAlt)) {
			p.EnableFullScreen(!p.IsFullScreen())
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip(util.Select(p.IsFullScreen(), "Exit", "Enter") + " full-screen mode")
		}

		imgui.PopStyleColor()

		imgui.EndMainMenuBar()
	}
	ui.menuBarHeight = imgui.CursorPos().Y - 1

	uiDrawSettingsWindow(config, p, lg)

	if config.ShowBriefingWindow {
		config.Briefing.DrawWindow(&config.ShowBriefingWindow, ctrl, data, p, lg)
	}

	// A rejected create or delete pops up a dialog; acknowledging it
	// refetches the briefing so the editor is back in sync with the
	// server.
	if state.MutationError != "" {
		msg := state.MutationError
		ctrl.AcknowledgeMutationError()
		uiShowModalDialog(NewModalDialogBox(&mutationErrorModalClient{ctrl: ctrl, message: msg}, p), true)
	}
	if state.ExportError != "" {
		msg := state.ExportError
		state.ExportError = ""
		ShowErrorDialog(p, lg, "Export failed: %s", msg)
	}

	drawActiveDialogBoxes()

	imgui.PopFont()

	// Finalize and submit the imgui draw lists
	imgui.Render()
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	renderer.GenerateImguiCommandBuffer(cb, p.DisplaySize(), p.FramebufferSize(), lg)
	return r.RenderCommandBuffer(cb)
}

// startExport grabs the rendered map below the menu bar, encodes it as
// JPEG, and hands it to the controller, which generates the PowerPoint
// on the server and saves it where the user chooses.
func startExport(p platform.Platform, r renderer.Renderer, ctrl *briefing.Controller, lg *log.Logger) {
	fb := p.FramebufferSize()
	scale := float32(1)
	if disp := p.DisplaySize(); disp[1] > 0 {
		scale = fb[1] / disp[1]
	}
	menuPx := int(ui.menuBarHeight*scale + 0.5)
	w, h := int(fb[0]), int(fb[1])-menuPx
	if w <= 0 || h <= 0 {
		ctrl.StartExport(nil, chooseExportPath)
		return
	}

	img := r.CapturePixels(0, 0, w, h)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}); err != nil {
		lg.Errorf("Unable to encode map capture: %v", err)
		ctrl.StartExport(nil, chooseExportPath)
		return
	}
	ctrl.StartExport(buf.Bytes(), chooseExportPath)
}

func chooseExportPath(defaultName string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save briefing"),
		zenity.Filename(defaultName),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{Name: "PowerPoint Files", Patterns: []string{"*.pptx"}}},
	)
	if err == zenity.ErrCanceled {
		return "", nil
	}
	return path, err
}

type mutationErrorModalClient struct {
	ctrl    *briefing.Controller
	message string
}

func (m *mutationErrorModalClient) Title() string { return "Change Rejected" }
func (m *mutationErrorModalClient) Opening()      {}

func (m *mutationErrorModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{{text: "Ok", action: func() bool {
		m.ctrl.Load(context.Background())
		return true
	}}}
}

func (m *mutationErrorModalClient) Draw() int {
	imgui.PushStyleColorVec4(imgui.ColText, imgui.Vec4{0.89, 0.23, 0.23, 1})
	imgui.Text(renderer.FontAwesomeIconExclamationTriangle)
	imgui.PopStyleColor()
	imgui.SameLine()

	imgui.PushTextWrapPos()
	imgui.Text("The server rejected the change: " + m.message)
	imgui.PopTextWrapPos()
	return -1
}

///////////////////////////////////////////////////////////////////////////
// "about" dialog box

func showAboutDialog() {
	flags := imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
	imgui.BeginV("About sitac...", &ui.showAboutDialog, flags)

	center := func(s string) {
		// https://stackoverflow.com/a/67855985
		ww := imgui.WindowSize().X
		tw := imgui.CalcTextSize(s).X
		imgui.SetCursorPos(imgui.Vec2{(ww - tw) * 0.5, imgui.CursorPosY()})
		imgui.Text(s)
	}

	imgui.PushFont(&ui.aboutFont.Ifont)
	center("sitac")
	center(renderer.FontAwesomeIconCopyright + "2024-2026 sitac contributors")
	center("Licensed under the GPL, Version 3")
	if imgui.IsItemHovered() && imgui.IsMouseClickedBool(imgui.MouseButton(0)) {
		browser.OpenURL("https://www.gnu.org/licenses/gpl-3.0.html")
	}
	center("Source code: " + renderer.FontAwesomeIconGithub)
	if imgui.IsItemHovered() && imgui.IsMouseClickedBool(imgui.MouseButton(0)) {
		browser.OpenURL("https://github.com/foothold/sitac")
	}
	imgui.PopFont()

	imgui.Separator()

	imgui.PushFont(&ui.aboutFontSmall.Ifont)
	imgui.PushTextWrapPos()
	imgui.Text("sitac is the mission planning and briefing companion for Foothold " +
		"persistent campaigns. Map tiles courtesy of the OpenStreetMap contributors.")
	imgui.PopTextWrapPos()
	imgui.PopFont()

	imgui.End()
}

///////////////////////////////////////////////////////////////////////////

func uiDrawSettingsWindow(config *Config, p platform.Platform, lg *log.Logger) {
	if !ui.showSettings {
		return
	}

	imgui.BeginV("Settings", &ui.showSettings, imgui.WindowFlagsAlwaysAutoResize)

	current := config.CoordFormat()
	if imgui.BeginCombo("Coordinate format", current.Label()) {
		for _, f := range []coords.Format{coords.FormatDMS, coords.FormatDDM, coords.FormatDecimal} {
			if imgui.SelectableBoolV(f.Label(), f == current, 0, imgui.Vec2{}) {
				config.SetCoordFormat(f)
			}
		}
		imgui.EndCombo()
	}

	if imgui.BeginComboV("UI Font Size", strconv.Itoa(config.UIFontSize), imgui.ComboFlagsHeightLarge) {
		sizes := renderer.AvailableFontSizes("Roboto Regular")
		for _, size := range sizes {
			if imgui.SelectableBoolV(strconv.Itoa(size), size == config.UIFontSize, 0, imgui.Vec2{}) {
				config.UIFontSize = size
				ui.font = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: config.UIFontSize})
			}
		}
		imgui.EndCombo()
	}

	update := !config.InhibitDiscordActivity.Load()
	imgui.Checkbox("Update Discord activity status", &update)
	config.InhibitDiscordActivity.Store(!update)

	imgui.Separator()

	if imgui.CollapsingHeaderBoolPtr("Display", nil) {
		if imgui.Checkbox("Enable anti-aliasing", &config.EnableMSAA) {
			uiShowModalDialog(NewModalDialogBox(
				&MessageModalClient{
					title: "Alert",
					message: "You must restart sitac for changes to the anti-aliasing " +
						"mode to take effect.",
				}, p), true)
		}

		imgui.Checkbox("Start in full-screen", &config.StartInFullScreen)

		monitorNames := p.GetAllMonitorNames()
		if imgui.BeginComboV("Monitor", monitorNames[config.FullScreenMonitor], imgui.ComboFlagsHeightLarge) {
			for index, monitor := range monitorNames {
				if imgui.SelectableBoolV(monitor, monitor == monitorNames[config.FullScreenMonitor], 0, imgui.Vec2{}) {
					config.FullScreenMonitor = index

					p.EnableFullScreen(p.IsFullScreen())
				}
			}

			imgui.EndCombo()
		}
	}

	if imgui.CollapsingHeaderBoolPtr("Servers", nil) {
		imgui.Text("Changes here take effect the next time sitac is launched.")
		imgui.Separator()

		server := config.ServerURL
		if imgui.InputTextWithHint("Campaign server", "http://host:port", &server, 0, nil) {
			config.ServerURL = server
		}
		tiles := config.TileURL
		if imgui.InputTextWithHint("Tile server", "https://host/{z}/{x}/{y}.png", &tiles, 0, nil) {
			config.TileURL = tiles
		}
	}

	imgui.End()
}

func uiShowDiscordOptInDialog(p platform.Platform, config *Config) {
	uiShowModalDialog(NewModalDialogBox(&DiscordOptInModalClient{config: config}, p), true)
}

type DiscordOptInModalClient struct {
	config *Config
}

func (d *DiscordOptInModalClient) Title() string {
	return "Discord Activity Updates"
}

func (d *DiscordOptInModalClient) Opening() {}

func (d *DiscordOptInModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{
		ModalDialogButton{
			text: "Ok",
			action: func() bool {
				d.config.AskedDiscordOptIn = true
				return true
			},
		},
	}
}

func (d *DiscordOptInModalClient) Draw() int {
	style := imgui.CurrentStyle()
	spc := style.ItemSpacing()
	spc.Y -= 4
	imgui.PushStyleVarVec2(imgui.StyleVarItemSpacing, spc)

	imgui.Text("By default, sitac will automatically update your Discord Activity to say")
	imgui.Text("that you are planning a Foothold mission. If you do not want it to do this,")
	imgui.Text("you can disable this feature using the checkbox below. You can also change")
	imgui.Text("this setting any time in the future in the settings window " + renderer.FontAwesomeIconCog + ".")

	imgui.PopStyleVar()

	imgui.Text("")

	update := !d.config.InhibitDiscordActivity.Load()
	imgui.Checkbox("Update Discord activity status", &update)
	d.config.InhibitDiscordActivity.Store(!update)

	return -1
}
