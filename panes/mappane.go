// panes/mappane.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/client"
	"github.com/foothold/sitac/coords"
	"github.com/foothold/sitac/log"
	"github.com/foothold/sitac/math"
	"github.com/foothold/sitac/platform"
	"github.com/foothold/sitac/renderer"
	"github.com/foothold/sitac/tiles"
	"github.com/foothold/sitac/util"
)

// Zone labels get more detailed as the user zooms in; these give the
// zoom levels at which each tier kicks in.  Below labelZoomFlavor a
// zone shows only its supply icon.
const (
	labelZoomFlavor = 9  // flavor text line
	labelZoomName   = 10 // abbreviated zone name, player and pilot names
	labelZoomFull   = 11 // full zone name and garrison strength
)

// Tile textures that haven't been drawn for this many frames are
// evicted from the GPU.
const tileTextureEvictAge = 300

// MapPane draws the live theater map: raster base tiles, zone circles,
// supply connections, connected players, and downed pilots.
type MapPane struct {
	Center math.Point2LL `json:"center"`
	Zoom   int           `json:"zoom"`

	provider *tiles.Provider
	renderer renderer.Renderer

	// centered is set once the view has been initialized from the first
	// map data snapshot; a saved Center from the config also counts.
	centered bool

	labelFont  *renderer.Font
	detailFont *renderer.Font
	statusFont *renderer.Font

	tileTextures map[tiles.ID]*tileTexture
	frame        int

	// ShowZoneInfo and ShowPilotInfo are called when the user clicks a
	// zone circle or a downed pilot marker; the application wires them
	// to read-only detail dialogs.
	ShowZoneInfo  func(zone briefing.MapZone)          `json:"-"`
	ShowPilotInfo func(pilot briefing.MapEjectedPilot) `json:"-"`
}

type tileTexture struct {
	id       uint32
	lastUsed int
}

func NewMapPane() *MapPane {
	return &MapPane{Zoom: 7}
}

func (mp *MapPane) Name() string { return "Map" }

// SetTileProvider hands the pane the tile source; it must be called
// before the first Draw.
func (mp *MapPane) SetTileProvider(p *tiles.Provider) {
	mp.provider = p
}

func (mp *MapPane) Activate(r renderer.Renderer, p platform.Platform, lg *log.Logger) {
	mp.renderer = r
	mp.labelFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 13})
	mp.detailFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 11})
	mp.statusFont = renderer.GetMonoFont(12)
	if mp.tileTextures == nil {
		mp.tileTextures = make(map[tiles.ID]*tileTexture)
	}
	if mp.Zoom == 0 {
		mp.Zoom = 7
	}
	if !mp.Center.IsZero() {
		mp.centered = true
	}
}

func (mp *MapPane) Deactivate() {
	for _, tex := range mp.tileTextures {
		mp.renderer.DestroyTexture(tex.id)
	}
	mp.tileTextures = make(map[tiles.ID]*tileTexture)
}

func (mp *MapPane) CanTakeKeyboardFocus() bool { return false }

///////////////////////////////////////////////////////////////////////////
// Coordinate transforms

// mapTransform converts between window (pane) coordinates and the web
// mercator world-pixel space at the current zoom.  Window y goes up,
// world y goes down.
type mapTransform struct {
	center [2]float32 // view center in world pixels
	zoom   float32
	w, h   float32
}

func (mp *MapPane) transform(ctx *Context) mapTransform {
	return mapTransform{
		center: math.Project(mp.Center, float32(mp.Zoom)),
		zoom:   float32(mp.Zoom),
		w:      ctx.PaneExtent.Width(),
		h:      ctx.PaneExtent.Height(),
	}
}

func (t mapTransform) WindowFromWorld(p [2]float32) [2]float32 {
	return [2]float32{p[0] - t.center[0] + t.w/2, t.center[1] - p[1] + t.h/2}
}

func (t mapTransform) WindowFromLL(p math.Point2LL) [2]float32 {
	return t.WindowFromWorld(math.Project(p, t.zoom))
}

func (t mapTransform) LLFromWindow(p [2]float32) math.Point2LL {
	w := [2]float32{p[0] + t.center[0] - t.w/2, t.center[1] - p[1] + t.h/2}
	return math.Unproject(w, t.zoom)
}

///////////////////////////////////////////////////////////////////////////
// Input

func (mp *MapPane) processMouse(ctx *Context, data *briefing.MapData) {
	if ctx.Mouse == nil {
		return
	}

	if ctx.Mouse.Clicked[platform.MouseButtonPrimary] && data != nil {
		tr := mp.transform(ctx)
		if pilot := mp.pilotAt(tr, ctx.Mouse.Pos, data); pilot != nil {
			if mp.ShowPilotInfo != nil {
				mp.ShowPilotInfo(*pilot)
			}
		} else if zone := mp.zoneAt(tr, ctx.Mouse.Pos, data); zone != nil {
			if mp.ShowZoneInfo != nil {
				mp.ShowZoneInfo(*zone)
			}
		}
	}

	if ctx.Mouse.Dragging[platform.MouseButtonPrimary] {
		c := math.Project(mp.Center, float32(mp.Zoom))
		c[0] -= ctx.Mouse.DragDelta[0]
		c[1] += ctx.Mouse.DragDelta[1]
		mp.Center = math.Unproject(c, float32(mp.Zoom))
		mp.centered = true
	}

	if wy := ctx.Mouse.Wheel[1]; wy != 0 {
		// Scroll up (negative after the pane-coordinate flip) zooms in.
		dz := util.Select(wy < 0, 1, -1)
		mp.zoomAbout(ctx.Mouse.Pos, mp.Zoom+dz, ctx)
	}
}

// zoomAbout changes the zoom level while keeping the point under the
// given window position fixed on screen.
func (mp *MapPane) zoomAbout(pw [2]float32, zoom int, ctx *Context) {
	zoom = math.Clamp(zoom, tiles.MinZoom, tiles.MaxZoom)
	if zoom == mp.Zoom {
		return
	}

	tr := mp.transform(ctx)
	under := tr.LLFromWindow(pw)

	mp.Zoom = zoom
	w := math.Project(under, float32(mp.Zoom))
	c := [2]float32{
		w[0] - (pw[0] - tr.w/2),
		w[1] + (pw[1] - tr.h/2),
	}
	mp.Center = math.Unproject(c, float32(mp.Zoom))
	mp.centered = true

	mp.prefetchTiles(ctx, tr.w, tr.h)
}

// pilotAt returns the downed pilot whose marker is within a few pixels
// of the given window position, or nil.  Pilot markers are small, so
// they're tested before zone circles and a pilot inside a zone stays
// clickable.
func (mp *MapPane) pilotAt(tr mapTransform, pw [2]float32, data *briefing.MapData) *briefing.MapEjectedPilot {
	for i := range data.EjectedPilots {
		if math.Distance2f(tr.WindowFromLL(data.EjectedPilots[i].Position()), pw) < 10 {
			return &data.EjectedPilots[i]
		}
	}
	return nil
}

// zoneAt returns the zone whose circle contains the given window
// position, or nil.
func (mp *MapPane) zoneAt(tr mapTransform, pw [2]float32, data *briefing.MapData) *briefing.MapZone {
	zones := data.VisibleZones()
	for i := range zones {
		radius := zones[i].RadiusMeters() / math.MetersPerPixel(zones[i].Lat, float32(mp.Zoom))
		if math.Distance2f(tr.WindowFromLL(zones[i].Position()), pw) < radius {
			return &zones[i]
		}
	}
	return nil
}

// prefetchTiles warms the on-disk tile cache for the current view in
// the background so pans after a zoom change don't stall on fetches.
func (mp *MapPane) prefetchTiles(ctx *Context, w, h float32) {
	if mp.provider == nil {
		return
	}
	ids := tiles.VisibleTiles(mp.Center, mp.Zoom, w, h)
	lg := ctx.Lg
	go func() {
		if err := mp.provider.Prefetch(context.Background(), ids); err != nil {
			lg.Debugf("Tile prefetch: %v", err)
		}
	}()
}

///////////////////////////////////////////////////////////////////////////
// Drawing

func (mp *MapPane) Draw(ctx *Context, cb *renderer.CommandBuffer) {
	mp.frame++

	data, freshness, countdown := ctx.Poller.Snapshot()
	if data != nil && !mp.centered {
		mp.Center = data.Center()
		mp.centered = true
		mp.prefetchTiles(ctx, ctx.PaneExtent.Width(), ctx.PaneExtent.Height())
	}

	mp.processMouse(ctx, data)

	ctx.SetWindowCoordinateMatrices(cb)
	tr := mp.transform(ctx)

	mp.drawTiles(ctx, tr, cb)

	if data != nil {
		mp.drawConnections(ctx, tr, cb, data)
		mp.drawZones(ctx, tr, cb, data)
		mp.drawHomeplates(ctx, tr, cb)
		mp.drawPlayers(ctx, tr, cb, data)
		mp.drawEjectedPilots(ctx, tr, cb, data)
	}

	mp.drawStatus(ctx, cb, data, freshness, countdown)
	mp.drawCursorReadout(ctx, tr, cb)
	mp.evictStaleTiles()
}

// tileTexture returns the GPU texture for the tile, uploading it if the
// decoded image is resident; false means the tile isn't available yet.
func (mp *MapPane) tileTexture(ctx *Context, id tiles.ID) (uint32, bool) {
	if tex, ok := mp.tileTextures[id]; ok {
		tex.lastUsed = mp.frame
		return tex.id, true
	}

	img := mp.provider.Tile(context.Background(), id)
	if img == nil {
		return 0, false
	}
	texid := ctx.Renderer.CreateTextureFromImage(img, false)
	mp.tileTextures[id] = &tileTexture{id: texid, lastUsed: mp.frame}
	return texid, true
}

func (mp *MapPane) evictStaleTiles() {
	for id, tex := range mp.tileTextures {
		if mp.frame-tex.lastUsed > tileTextureEvictAge {
			mp.renderer.DestroyTexture(tex.id)
			delete(mp.tileTextures, id)
		}
	}
}

func (mp *MapPane) drawTiles(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer) {
	if mp.provider == nil {
		return
	}

	ttd := renderer.GetTexturedTrianglesDrawBuilder()
	defer renderer.ReturnTexturedTrianglesDrawBuilder(ttd)

	cb.SetRGB(renderer.RGB{R: 1, G: 1, B: 1})
	for _, id := range tiles.VisibleTiles(mp.Center, mp.Zoom, tr.w, tr.h) {
		texid, ok := mp.tileTexture(ctx, id)
		if !ok {
			continue
		}

		x0, y0 := float32(id.X*math.TileSize), float32(id.Y*math.TileSize)
		x1, y1 := x0+math.TileSize, y0+math.TileSize
		// World y grows downward, so (x0,y0) is the tile's top-left and
		// maps to the corner with the larger window y.
		tl := tr.WindowFromWorld([2]float32{x0, y0})
		tlr := tr.WindowFromWorld([2]float32{x1, y0})
		br := tr.WindowFromWorld([2]float32{x1, y1})
		bl := tr.WindowFromWorld([2]float32{x0, y1})

		ttd.Reset()
		ttd.AddQuad(tl, tlr, br, bl,
			[2]float32{0, 0}, [2]float32{1, 0}, [2]float32{1, 1}, [2]float32{0, 1})
		cb.EnableTexture(texid)
		ttd.GenerateCommands(cb)
	}
	cb.DisableTexture()
}

func (mp *MapPane) drawConnections(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer,
	data *briefing.MapData) {
	ld := renderer.GetColoredLinesDrawBuilder()
	defer renderer.ReturnColoredLinesDrawBuilder(ld)

	for _, conn := range data.Connections {
		color := renderer.RGBFromHexString(conn.Color)
		ld.AddDashedLine(tr.WindowFromLL(conn.From()), tr.WindowFromLL(conn.To()), 8, 12, color)
	}

	cb.LineWidth(3, ctx.Platform.DPIScale())
	ld.GenerateCommands(cb)
}

func (mp *MapPane) drawZones(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer,
	data *briefing.MapData) {
	fill := renderer.GetTrianglesDrawBuilder()
	defer renderer.ReturnTrianglesDrawBuilder(fill)
	outline := renderer.GetColoredLinesDrawBuilder()
	defer renderer.ReturnColoredLinesDrawBuilder(outline)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	cb.Blend()
	for _, zone := range data.VisibleZones() {
		pw := tr.WindowFromLL(zone.Position())
		radius := zone.RadiusMeters() / math.MetersPerPixel(zone.Lat, float32(mp.Zoom))
		color := renderer.RGBFromHexString(zone.DisplayColor())

		fill.Reset()
		fill.AddCircle(pw, radius, 32)
		cb.SetRGBA(color.WithAlpha(0.25))
		fill.GenerateCommands(cb)

		outline.AddCircle(pw, radius, 32, color)

		if label := mp.zoneLabel(&zone, data.ShowZoneForces); label != "" {
			td.AddTextCentered(label, pw,
				renderer.TextStyle{Font: mp.labelFont, Color: UITextColor})
		}
	}
	cb.DisableBlend()

	cb.LineWidth(2, ctx.Platform.DPIScale())
	outline.GenerateCommands(cb)
	td.GenerateCommands(cb)
}

// zoneLabel returns the zoom-appropriate label text, recomputed every
// frame so zoom changes take effect immediately: the supply icon alone
// when zoomed way out, then the flavor line, an abbreviated name, and
// finally the full name with the garrison strength.  The icon only
// appears for zones that hold units.
func (mp *MapPane) zoneLabel(zone *briefing.MapZone, showForces bool) string {
	var lines []string
	switch {
	case mp.Zoom < labelZoomFlavor:
		// icon only
	case mp.Zoom < labelZoomName:
		lines = append(lines, zone.FlavorFirstLine())
	case mp.Zoom < labelZoomFull:
		lines = append(lines, zone.ShortName(), zone.FlavorFirstLine())
	default:
		lines = append(lines, zone.Name, zone.FlavorFirstLine())
	}

	if zone.Units > 0 {
		icon := renderer.FontAwesomeIconTruck
		if mp.Zoom >= labelZoomFull && showForces {
			icon += fmt.Sprintf(" x%d", zone.Units)
		}
		lines = append(lines, icon)
	}

	return strings.Join(util.FilterSlice(lines, func(s string) bool { return s != "" }), "\n")
}

// nameLabelsVisible reports whether player, pilot, and homeplate
// markers get name labels at the current zoom; below the threshold
// they draw as bare icons.
func (mp *MapPane) nameLabelsVisible() bool {
	return mp.Zoom >= labelZoomName
}

func (mp *MapPane) drawHomeplates(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer) {
	b := ctx.Controller.State().Briefing
	if b == nil {
		return
	}

	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	iconStyle := renderer.TextStyle{Font: mp.labelFont, Color: renderer.RGBFromHex(0x1e88e5)}
	nameStyle := renderer.TextStyle{Font: mp.detailFont, Color: UITextColor}
	for _, h := range b.Homeplates {
		pw := tr.WindowFromLL(math.MakePoint2LL(h.Latitude, h.Longitude))
		td.AddTextCentered(renderer.FontAwesomeIconHome, pw, iconStyle)
		if mp.nameLabelsVisible() {
			td.AddText(h.Name, math.Add2f(pw, [2]float32{8, 14}), nameStyle)
		}
	}
	td.GenerateCommands(cb)
}

func playerColor(p *briefing.MapPlayer) renderer.RGB {
	if p.Color != "" {
		return renderer.RGBFromHexString(p.Color)
	}
	if p.Coalition == "red" {
		return renderer.RGBFromHex(0xe53935)
	}
	return renderer.RGBFromHex(0x1e88e5)
}

func (mp *MapPane) drawPlayers(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer,
	data *briefing.MapData) {
	marks := renderer.GetColoredTrianglesDrawBuilder()
	defer renderer.ReturnColoredTrianglesDrawBuilder(marks)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	for i := range data.Players {
		player := &data.Players[i]
		pw := tr.WindowFromLL(player.Position())
		marks.AddCircle(pw, 4, 12, playerColor(player))

		// Names only once zoomed past the icon-only tier.
		if mp.nameLabelsVisible() {
			label := player.PlayerName
			if player.UnitType != "" {
				label += " (" + player.UnitType + ")"
			}
			td.AddText(label, math.Add2f(pw, [2]float32{7, 5}),
				renderer.TextStyle{Font: mp.detailFont, Color: UITextColor})
		}
	}

	marks.GenerateCommands(cb)
	td.GenerateCommands(cb)
}

func (mp *MapPane) drawEjectedPilots(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer,
	data *briefing.MapData) {
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	iconStyle := renderer.TextStyle{Font: mp.labelFont, Color: UICautionColor}
	nameStyle := renderer.TextStyle{Font: mp.detailFont, Color: UICautionColor}
	for i := range data.EjectedPilots {
		pilot := &data.EjectedPilots[i]
		pw := tr.WindowFromLL(pilot.Position())
		td.AddTextCentered(renderer.FontAwesomeIconExclamationTriangle, pw, iconStyle)
		if mp.nameLabelsVisible() {
			td.AddText(pilot.PlayerName, math.Add2f(pw, [2]float32{8, 5}), nameStyle)
		}
	}
	td.GenerateCommands(cb)
}

func (mp *MapPane) drawStatus(ctx *Context, cb *renderer.CommandBuffer, data *briefing.MapData,
	freshness client.Freshness, countdown int) {
	var text string
	var color renderer.RGB
	switch freshness {
	case client.DataFresh:
		text = fmt.Sprintf("LIVE · refresh in %ds", countdown)
		color = UITextColor
	case client.DataStale:
		text = fmt.Sprintf("STALE · refresh in %ds", countdown)
		color = UICautionColor
	default:
		text = "DISCONNECTED"
		if data != nil {
			text += " · showing cached data"
		}
		color = UIErrorColor
	}

	if data != nil {
		age := time.Duration(float64(data.AgeSeconds) * float64(time.Second))
		text += fmt.Sprintf("  ·  data %s old  ·  progress %.0f%%  ·  %d missions  ·  red %s  blue %s",
			age.Round(time.Second), data.Progress, data.MissionsCount,
			formatCredits(data.RedCredits), formatCredits(data.BlueCredits))
		if data.EjectedPilotCount > 0 {
			text += fmt.Sprintf("  ·  %d down", data.EjectedPilotCount)
		}
	}

	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)
	td.AddText(text, [2]float32{4, ctx.PaneExtent.Height() - 4},
		renderer.TextStyle{Font: mp.statusFont, Color: color,
			DrawBackground: true, BackgroundColor: renderer.RGB{}})
	td.GenerateCommands(cb)
}

func formatCredits(c float32) string {
	if c >= 1000 {
		return fmt.Sprintf("%.1fk", c/1000)
	}
	return strconv.Itoa(int(c))
}

func (mp *MapPane) drawCursorReadout(ctx *Context, tr mapTransform, cb *renderer.CommandBuffer) {
	if ctx.Mouse == nil || !ctx.PaneExtent.Inside(ctx.Mouse.Pos) {
		return
	}

	p := tr.LLFromWindow(ctx.Mouse.Pos)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)
	td.AddText(coords.FormatPointWide(p, ctx.CoordFormat), [2]float32{4, 16},
		renderer.TextStyle{Font: mp.statusFont, Color: UITextColor,
			DrawBackground: true, BackgroundColor: renderer.RGB{}})
	td.GenerateCommands(cb)
}
