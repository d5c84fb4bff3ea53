// panes/briefingpane.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panes

import (
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/util"
)

// BriefingPane is the briefing/ATO editor, drawn in its own floating
// imgui window next to the map.  All edits go through the Controller;
// the pane itself holds no document state.
type BriefingPane struct {
	FontIdentifier renderer.FontIdentifier

	font *renderer.Font

	// ShowConfirm pops the shared confirmation dialog before destructive
	// operations; the UI layer wires it to the modal dialog stack.
	ShowConfirm func(prompt string, onOK func())
}

func NewBriefingPane() *BriefingPane {
	return &BriefingPane{
		FontIdentifier: renderer.FontIdentifier{Name: "Roboto Regular", Size: 14},
	}
}

func (bp *BriefingPane) Activate(r renderer.Renderer, p platform.Platform, lg *log.Logger) {
	if bp.font = renderer.GetFont(bp.FontIdentifier); bp.font == nil {
		bp.font = renderer.GetDefaultFont()
		bp.FontIdentifier = bp.font.Id
	}
}

func (bp *BriefingPane) confirm(prompt string, onOK func()) {
	if bp.ShowConfirm != nil {
		bp.ShowConfirm(prompt, onOK)
	} else {
		onOK()
	}
}

// DrawWindow draws the editor window.  data may be nil if no map
// snapshot is available yet.
func (bp *BriefingPane) DrawWindow(show *bool, ctrl *briefing.Controller, data *briefing.MapData,
	p platform.Platform, lg *log.Logger) {
	state := ctrl.State()
	b := state.Briefing

	imgui.SetNextWindowSizeConstraints(imgui.Vec2{X: 400, Y: 200}, imgui.Vec2{X: -1, Y: -1})
	if bp.font != nil {
		imgui.PushFont(&bp.font.Ifont)
	}
	imgui.BeginV("Briefing", show, 0)

	if b == nil {
		imgui.Text("Loading briefing...")
	} else {
		bp.drawStatusLine(state)

		uiStartDisable(!state.CanEdit)
		bp.drawBriefingFields(ctrl, b)
		bp.drawHomeplates(ctrl, b, data, state)
		bp.drawObjectives(ctrl, b, state)
		bp.drawPackages(ctrl, b, state)
		uiEndDisable(!state.CanEdit)
	}

	imgui.End()
	if bp.font != nil {
		imgui.PopFont()
	}
}

func (bp *BriefingPane) drawStatusLine(state *briefing.State) {
	if !state.CanEdit {
		imgui.Text(renderer.FontAwesomeIconLock + " Read-only; open with an edit link to make changes")
		imgui.Separator()
		return
	}

	switch {
	case state.SaveStatus == briefing.SaveError:
		imgui.PushStyleColorVec4(imgui.ColText, imgui.Vec4{X: .9, Y: .26, Z: .26, W: 1})
		imgui.Text(renderer.FontAwesomeIconExclamationTriangle + " Save failed: " + state.SaveError)
		imgui.PopStyleColor()
	case state.SaveStatus == briefing.SaveSaving || state.StructuralBusy:
		imgui.Text("Saving...")
	case state.SaveStatus == briefing.SaveSaved:
		imgui.Text("Saved")
	default:
		imgui.Text("")
	}
	imgui.Separator()
}

///////////////////////////////////////////////////////////////////////////
// Briefing text fields

func (bp *BriefingPane) drawBriefingFields(ctrl *briefing.Controller, b *briefing.Briefing) {
	edit := func(upd briefing.BriefingUpdate) {
		ctrl.Dispatch(briefing.EditBriefing{Update: upd})
	}

	title := b.Title
	if imgui.InputTextWithHint("Title", "", &title, 0, nil) {
		edit(briefing.BriefingUpdate{Title: &title})
	}

	date := b.MissionDate
	if imgui.InputTextWithHint("Mission date", "YYYY-MM-DD", &date, 0, nil) {
		edit(briefing.BriefingUpdate{MissionDate: &date})
	}
	imgui.SameLine()
	tm := b.MissionTime
	if imgui.InputTextWithHint("Time", "HH:MMZ", &tm, 0, nil) {
		edit(briefing.BriefingUpdate{MissionTime: &tm})
	}

	if imgui.CollapsingHeaderBoolPtr("Situation", nil) {
		situation := b.Situation
		if imgui.InputTextMultiline("##situation", &situation, imgui.Vec2{X: -1, Y: 80}, 0, nil) {
			edit(briefing.BriefingUpdate{Situation: &situation})
		}
	}

	if imgui.CollapsingHeaderBoolPtr("Weather / Comms / Notes", nil) {
		weather := b.Weather
		if imgui.InputTextMultiline("Weather", &weather, imgui.Vec2{X: -1, Y: 60}, 0, nil) {
			edit(briefing.BriefingUpdate{Weather: &weather})
		}
		comms := b.CommsPlan
		if imgui.InputTextMultiline("Comms plan", &comms, imgui.Vec2{X: -1, Y: 60}, 0, nil) {
			edit(briefing.BriefingUpdate{CommsPlan: &comms})
		}
		notes := b.Notes
		if imgui.InputTextMultiline("Notes", &notes, imgui.Vec2{X: -1, Y: 60}, 0, nil) {
			edit(briefing.BriefingUpdate{Notes: &notes})
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Homeplates

func (bp *BriefingPane) drawHomeplates(ctrl *briefing.Controller, b *briefing.Briefing,
	data *briefing.MapData, state *briefing.State) {
	if !imgui.CollapsingHeaderBoolPtr("Homeplates", nil) {
		return
	}

	for i := range b.Homeplates {
		h := &b.Homeplates[i]
		imgui.PushIDStr(h.ID)
		imgui.Text(renderer.FontAwesomeIconHome + " " + h.Name)
		imgui.SameLine()
		uiStartDisable(state.StructuralBusy)
		if imgui.Button(renderer.FontAwesomeIconTrash) {
			id := h.ID
			bp.confirm("Remove homeplate "+h.Name+"?", func() {
				ctrl.Dispatch(briefing.DeleteHomeplate{ID: id})
			})
		}
		uiEndDisable(state.StructuralBusy)

		bp.drawHomeplateFields(ctrl, h)
		imgui.Separator()
		imgui.PopID()
	}

	// New homeplates come from the friendly zones on the live map.
	if data == nil {
		imgui.Text("Connect to the campaign server to add homeplates")
		return
	}
	uiStartDisable(state.StructuralBusy)
	if imgui.BeginCombo("Add from zone", "") {
		for _, name := range data.BlueZoneNames() {
			zone := data.FindZone(name)
			if zone == nil {
				continue
			}
			label := name
			if flavor := zone.FlavorFirstLine(); flavor != "" {
				label = flavor + " - " + name
			}
			if imgui.SelectableBoolV(label, false, 0, imgui.Vec2{}) {
				ctrl.Dispatch(briefing.SetHomeplate{
					Update: briefing.HomeplateUpdate{
						Name:      name,
						Latitude:  zone.Lat,
						Longitude: zone.Lon,
					},
				})
			}
		}
		imgui.EndCombo()
	}
	uiEndDisable(state.StructuralBusy)
}

// drawHomeplateFields shows the editable attributes of one homeplate.
// HomeplateUpdate is a full replace, so every edit sends the complete
// attribute set with the one changed field patched in.
func (bp *BriefingPane) drawHomeplateFields(ctrl *briefing.Controller, h *briefing.Homeplate) {
	edit := func(patch func(*briefing.HomeplateUpdate)) {
		upd := briefing.HomeplateUpdate{
			Name:          h.Name,
			Latitude:      h.Latitude,
			Longitude:     h.Longitude,
			RunwayHeading: h.RunwayHeading,
			TACAN:         h.TACAN,
			Frequencies:   h.Frequencies,
		}
		patch(&upd)
		ctrl.Dispatch(briefing.EditHomeplate{ID: h.ID, Update: upd})
	}

	tacan := h.TACAN
	if imgui.InputTextWithHint("TACAN", "74X", &tacan, 0, nil) {
		edit(func(u *briefing.HomeplateUpdate) { u.TACAN = tacan })
	}
	imgui.SameLine()
	hdg := int32(h.RunwayHeading)
	if imgui.InputIntV("Runway", &hdg, 1, 10, 0) {
		edit(func(u *briefing.HomeplateUpdate) { u.RunwayHeading = int(hdg) })
	}

	freqs := strings.Join(h.Frequencies, ", ")
	if imgui.InputTextWithHint("Frequencies", "251.000, 133.500", &freqs, 0, nil) {
		edit(func(u *briefing.HomeplateUpdate) { u.Frequencies = splitFrequencies(freqs) })
	}
}

// splitFrequencies parses the comma-separated frequency list field.
func splitFrequencies(s string) []string {
	var freqs []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			freqs = append(freqs, f)
		}
	}
	return freqs
}

///////////////////////////////////////////////////////////////////////////
// Objectives

func (bp *BriefingPane) drawObjectives(ctrl *briefing.Controller, b *briefing.Briefing,
	state *briefing.State) {
	if !imgui.CollapsingHeaderBoolPtr("Objectives", nil) {
		return
	}

	for i := range b.Objectives {
		obj := &b.Objectives[i]
		imgui.PushIDStr(obj.ID)

		imgui.Text(obj.ZoneName)
		imgui.SameLine()
		uiStartDisable(state.StructuralBusy)
		if imgui.Button(renderer.FontAwesomeIconTrash) {
			id, zone := obj.ID, obj.ZoneName
			bp.confirm("Delete the objective for "+zone+"?", func() {
				ctrl.Dispatch(briefing.DeleteObjective{ID: id})
			})
		}
		uiEndDisable(state.StructuralBusy)

		pri := int32(obj.Priority)
		if imgui.InputIntV("Priority", &pri, 1, 1, 0) {
			p := int(pri)
			ctrl.Dispatch(briefing.EditObjective{ID: obj.ID,
				Update: briefing.ObjectiveUpdate{Priority: &p}})
		}

		if reqs, changed := drawMissionRequirements(obj.MissionRequirements); changed {
			ctrl.Dispatch(briefing.EditObjective{ID: obj.ID,
				Update: briefing.ObjectiveUpdate{MissionRequirements: &reqs}})
		}

		notes := obj.Notes
		if imgui.InputTextWithHint("Notes", "", &notes, 0, nil) {
			ctrl.Dispatch(briefing.EditObjective{ID: obj.ID,
				Update: briefing.ObjectiveUpdate{Notes: &notes}})
		}

		imgui.Separator()
		imgui.PopID()
	}

	// Zones that don't have an objective yet.
	available := util.FilterSlice(state.Zones,
		func(zone string) bool { return b.ObjectiveForZone(zone) == nil })
	uiStartDisable(state.StructuralBusy || len(available) == 0)
	if imgui.BeginCombo("Add objective", "") {
		for _, zone := range available {
			if imgui.SelectableBoolV(zone, false, 0, imgui.Vec2{}) {
				ctrl.Dispatch(briefing.AddObjective{Zone: zone})
			}
		}
		imgui.EndCombo()
	}
	uiEndDisable(state.StructuralBusy || len(available) == 0)
}

// drawMissionRequirements shows a combo summarizing the selected mission
// types with toggles inside; it returns the updated slice when one is
// toggled.
func drawMissionRequirements(reqs []briefing.MissionType) ([]briefing.MissionType, bool) {
	preview := "(none)"
	if len(reqs) > 0 {
		var s []string
		for _, m := range reqs {
			s = append(s, string(m))
		}
		preview = strings.Join(s, ", ")
	}

	changed := false
	result := reqs
	if imgui.BeginCombo("Missions", preview) {
		for _, mt := range briefing.MissionTypes {
			selected := false
			for _, m := range reqs {
				if m == mt {
					selected = true
					break
				}
			}
			if imgui.SelectableBoolV(string(mt), selected,
				imgui.SelectableFlagsNoAutoClosePopups, imgui.Vec2{}) {
				if selected {
					result = util.FilterSlice(reqs,
						func(m briefing.MissionType) bool { return m != mt })
				} else {
					result = append(append([]briefing.MissionType{}, reqs...), mt)
				}
				changed = true
			}
		}
		imgui.EndCombo()
	}
	return result, changed
}

///////////////////////////////////////////////////////////////////////////
// Packages and flights

func (bp *BriefingPane) drawPackages(ctrl *briefing.Controller, b *briefing.Briefing,
	state *briefing.State) {
	if !imgui.CollapsingHeaderBoolPtr("Packages", nil) {
		return
	}

	if len(b.Packages) == 0 {
		imgui.TextDisabled("No packages yet; add one to start building the ATO")
	}
	for i := range b.Packages {
		pkg := &b.Packages[i]
		imgui.PushIDStr(pkg.ID)
		bp.drawPackage(ctrl, pkg, state)
		imgui.PopID()
	}

	uiStartDisable(state.StructuralBusy)
	if imgui.Button("Add package") {
		ctrl.Dispatch(briefing.AddPackage{})
	}
	uiEndDisable(state.StructuralBusy)
}

func (bp *BriefingPane) drawPackage(ctrl *briefing.Controller, pkg *briefing.Package,
	state *briefing.State) {
	edit := func(upd briefing.PackageUpdate) {
		ctrl.Dispatch(briefing.EditPackage{ID: pkg.ID, Update: upd})
	}

	label := pkg.Name + " (" + strconv.Itoa(pkg.TotalAircraft()) + " aircraft)###pkg"
	if !imgui.TreeNodeExStr(label) {
		return
	}

	name := pkg.Name
	if imgui.InputTextWithHint("Name", "", &name, 0, nil) {
		edit(briefing.PackageUpdate{Name: &name})
	}

	if imgui.BeginCombo("Target zone", pkg.TargetZone) {
		for _, zone := range state.Zones {
			if imgui.SelectableBoolV(zone, zone == pkg.TargetZone, 0, imgui.Vec2{}) {
				z := zone
				edit(briefing.PackageUpdate{TargetZone: &z})
			}
		}
		imgui.EndCombo()
	}

	if mt, changed := drawMissionTypeCombo("Mission", pkg.MissionType); changed {
		edit(briefing.PackageUpdate{MissionType: &mt})
	}

	notes := pkg.Notes
	if imgui.InputTextWithHint("Notes", "", &notes, 0, nil) {
		edit(briefing.PackageUpdate{Notes: &notes})
	}

	for i := range pkg.Flights {
		flt := &pkg.Flights[i]
		imgui.PushIDStr(flt.ID)
		bp.drawFlight(ctrl, pkg, flt, state)
		imgui.PopID()
	}

	uiStartDisable(state.StructuralBusy)
	if imgui.Button("Add flight") {
		ctrl.Dispatch(briefing.AddFlight{PackageID: pkg.ID})
	}
	imgui.SameLine()
	if imgui.Button("Delete package") {
		id, name := pkg.ID, pkg.Name
		n := len(pkg.Flights)
		prompt := "Delete package " + name + "?"
		if n > 0 {
			prompt = "Delete package " + name + " and its " + strconv.Itoa(n) + " flights?"
		}
		bp.confirm(prompt, func() {
			ctrl.Dispatch(briefing.DeletePackage{ID: id})
		})
	}
	uiEndDisable(state.StructuralBusy)

	imgui.TreePop()
}

func (bp *BriefingPane) drawFlight(ctrl *briefing.Controller, pkg *briefing.Package,
	flt *briefing.Flight, state *briefing.State) {
	edit := func(upd briefing.FlightUpdate) {
		ctrl.Dispatch(briefing.EditFlight{PackageID: pkg.ID, FlightID: flt.ID, Update: upd})
	}

	if !imgui.TreeNodeExStr(flt.Callsign + "###flight") {
		return
	}

	callsign := flt.Callsign
	if imgui.InputTextWithHint("Callsign", "", &callsign, 0, nil) {
		edit(briefing.FlightUpdate{Callsign: &callsign})
	}

	actype := flt.AircraftType
	if imgui.InputTextWithHint("Aircraft", "", &actype, 0, nil) {
		edit(briefing.FlightUpdate{AircraftType: &actype})
	}
	imgui.SameLine()
	n := int32(flt.NumAircraft)
	if imgui.InputIntV("x", &n, 1, 1, 0) && n > 0 {
		num := int(n)
		edit(briefing.FlightUpdate{NumAircraft: &num})
	}

	if mt, changed := drawMissionTypeCombo("Mission", flt.MissionType); changed {
		edit(briefing.FlightUpdate{MissionType: &mt})
	}

	push := flt.PushTime
	if imgui.InputTextWithHint("Push", "HH:MMZ", &push, 0, nil) {
		edit(briefing.FlightUpdate{PushTime: &push})
	}
	imgui.SameLine()
	tot := flt.TOT
	if imgui.InputTextWithHint("TOT", "HH:MMZ", &tot, 0, nil) {
		edit(briefing.FlightUpdate{TOT: &tot})
	}

	notes := flt.Notes
	if imgui.InputTextWithHint("Notes", "", &notes, 0, nil) {
		edit(briefing.FlightUpdate{Notes: &notes})
	}

	uiStartDisable(state.StructuralBusy)
	if imgui.Button("Delete flight") {
		pkgID, fltID, callsign := pkg.ID, flt.ID, flt.Callsign
		bp.confirm("Delete flight "+callsign+"?", func() {
			ctrl.Dispatch(briefing.DeleteFlight{PackageID: pkgID, FlightID: fltID})
		})
	}
	uiEndDisable(state.StructuralBusy)

	imgui.TreePop()
}

func drawMissionTypeCombo(label string, current briefing.MissionType) (briefing.MissionType, bool) {
	var result briefing.MissionType
	changed := false
	if imgui.BeginCombo(label, string(current)) {
		for _, mt := range briefing.MissionTypes {
			if imgui.SelectableBoolV(string(mt), mt == current, 0, imgui.Vec2{}) && mt != current {
				result = mt
				changed = true
			}
		}
		imgui.EndCombo()
	}
	return result, changed
}
