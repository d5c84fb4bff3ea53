// panes/mappane_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panes

import (
	"encoding/json"
	"testing"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/math"
	"github.com/foothold/sitac/renderer"
)

func makeTransform(center math.Point2LL, zoom, w, h float32) mapTransform {
	return mapTransform{
		center: math.Project(center, zoom),
		zoom:   zoom,
		w:      w,
		h:      h,
	}
}

func TestTransformCenter(t *testing.T) {
	center := math.MakePoint2LL(41, 35)
	tr := makeTransform(center, 7, 800, 600)

	p := tr.WindowFromLL(center)
	if math.Abs(p[0]-400) > 1e-2 || math.Abs(p[1]-300) > 1e-2 {
		t.Errorf("view center drawn at %v, expected (400, 300)", p)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := makeTransform(math.MakePoint2LL(41, 35), 10, 1024, 768)

	for _, p := range []math.Point2LL{
		math.MakePoint2LL(41, 35),
		math.MakePoint2LL(41.5, 35.8),
		math.MakePoint2LL(40.2, 34.1),
	} {
		q := tr.LLFromWindow(tr.WindowFromLL(p))
		if math.Abs(p[0]-q[0]) > 1e-3 || math.Abs(p[1]-q[1]) > 1e-3 {
			t.Errorf("%v round-tripped to %v", p, q)
		}
	}
}

func TestTransformYUp(t *testing.T) {
	// Window y increases upward, so a point north of the view center
	// lands above it.
	tr := makeTransform(math.MakePoint2LL(41, 35), 7, 800, 600)
	n := tr.WindowFromLL(math.MakePoint2LL(42, 35))
	s := tr.WindowFromLL(math.MakePoint2LL(40, 35))
	if n[1] <= s[1] {
		t.Errorf("northern point at y %g, southern at y %g", n[1], s[1])
	}
}

func TestZoneLabelTiers(t *testing.T) {
	zone := briefing.MapZone{
		Name:       "Quneitra",
		FlavorText: "\n  Airbase \nsecond line",
		Units:      12,
	}
	icon := renderer.FontAwesomeIconTruck

	mp := NewMapPane()
	for _, c := range []struct {
		zoom int
		want string
	}{
		{7, icon},
		{8, icon},
		{9, "Airbase\n" + icon},
		{10, "Qunei.\nAirbase\n" + icon},
		{12, "Quneitra\nAirbase\n" + icon + " x12"},
	} {
		mp.Zoom = c.zoom
		if got := mp.zoneLabel(&zone, true); got != c.want {
			t.Errorf("zoom %d: got %q, expected %q", c.zoom, got, c.want)
		}
	}

	// No units, no icon; at the lowest tier that leaves nothing at all.
	empty := briefing.MapZone{Name: "Quneitra", FlavorText: "Airbase"}
	mp.Zoom = 7
	if got := mp.zoneLabel(&empty, true); got != "" {
		t.Errorf("zoom 7 without units: got %q, expected empty", got)
	}
	mp.Zoom = 12
	if got := mp.zoneLabel(&empty, true); got != "Quneitra\nAirbase" {
		t.Errorf("zoom 12 without units: got %q", got)
	}

	// Hiding forces drops the unit count but keeps the icon.
	if got := mp.zoneLabel(&zone, false); got != "Quneitra\nAirbase\n"+icon {
		t.Errorf("forces hidden: got %q", got)
	}
}

func TestNameLabelZoom(t *testing.T) {
	mp := NewMapPane()
	for _, c := range []struct {
		zoom int
		want bool
	}{
		{7, false},
		{9, false},
		{10, true},
		{12, true},
	} {
		mp.Zoom = c.zoom
		if got := mp.nameLabelsVisible(); got != c.want {
			t.Errorf("zoom %d: name labels visible %v, expected %v", c.zoom, got, c.want)
		}
	}
}

func TestMapClickHitTesting(t *testing.T) {
	center := math.MakePoint2LL(41, 35)
	data := &briefing.MapData{
		Zones: []briefing.MapZone{
			{Name: "Hidden", Lat: 41, Lon: 35, Level: 5, Hidden: true},
			{Name: "Center", Lat: 41, Lon: 35, Level: 5},
			{Name: "Offside", Lat: 39, Lon: 31, Level: 1},
		},
		EjectedPilots: []briefing.MapEjectedPilot{{PlayerName: "Dusty", Lat: 41, Lon: 35}},
	}

	mp := NewMapPane()
	mp.Center = center
	mp.Zoom = 10
	tr := makeTransform(center, 10, 800, 600)

	// The pilot marker sits inside the center zone's circle and wins.
	if p := mp.pilotAt(tr, [2]float32{400, 300}, data); p == nil || p.PlayerName != "Dusty" {
		t.Errorf("pilot at view center: got %+v", p)
	}

	data.EjectedPilots = nil
	if z := mp.zoneAt(tr, [2]float32{400, 300}, data); z == nil || z.Name != "Center" {
		t.Errorf("zone at view center: got %+v", z)
	} else if z.Hidden {
		t.Errorf("hit testing returned a hidden zone")
	}
	if z := mp.zoneAt(tr, [2]float32{20, 580}, data); z != nil {
		t.Errorf("click far from any zone: got %+v", z)
	}
	if p := mp.pilotAt(tr, [2]float32{400, 300}, data); p != nil {
		t.Errorf("click with no pilots: got %+v", p)
	}
}

func TestFormatCredits(t *testing.T) {
	for _, c := range []struct {
		credits float32
		want    string
	}{
		{0, "0"},
		{450, "450"},
		{1000, "1.0k"},
		{5200, "5.2k"},
	} {
		if got := formatCredits(c.credits); got != c.want {
			t.Errorf("formatCredits(%g): got %q, expected %q", c.credits, got, c.want)
		}
	}
}

func TestPlayerColor(t *testing.T) {
	if c := playerColor(&briefing.MapPlayer{Color: "#ff0000"}); c != (renderer.RGB{R: 1}) {
		t.Errorf("explicit color: got %v", c)
	}
	red := playerColor(&briefing.MapPlayer{Coalition: "red"})
	blue := playerColor(&briefing.MapPlayer{Coalition: "blue"})
	if red == blue {
		t.Errorf("red and blue coalitions drawn with the same color %v", red)
	}
}

func TestUnmarshalPane(t *testing.T) {
	if p, err := UnmarshalPane("", nil); p != nil || err != nil {
		t.Errorf("empty type: got %v, %v", p, err)
	}

	mp := NewMapPane()
	mp.Zoom = 9
	data, err := json.Marshal(mp)
	if err != nil {
		t.Fatal(err)
	}
	p, err := UnmarshalPane("*panes.MapPane", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mp2, ok := p.(*MapPane); !ok {
		t.Errorf("got %T, expected *MapPane", p)
	} else if mp2.Zoom != 9 {
		t.Errorf("got zoom %d, expected 9", mp2.Zoom)
	}

	if p, err := UnmarshalPane("*panes.Bogus", nil); err == nil {
		t.Errorf("expected error for unknown pane type")
	} else if _, ok := p.(*EmptyPane); !ok {
		t.Errorf("got %T, expected *EmptyPane fallback", p)
	}
}
