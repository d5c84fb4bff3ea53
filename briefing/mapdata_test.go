// briefing/mapdata_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"slices"
	"testing"
)

func TestZoneRadius(t *testing.T) {
	for _, tc := range []struct {
		level    int
		expected float32
	}{
		{0, 2000}, // some servers report level 0 for untouched zones
		{1, 2000},
		{3, 6000},
		{10, 20000},
		{25, 20000},
	} {
		z := MapZone{Level: tc.level}
		if r := z.RadiusMeters(); r != tc.expected {
			t.Errorf("level %d: radius %v, expected %v", tc.level, r, tc.expected)
		}
	}
}

func TestZoneDisplayColor(t *testing.T) {
	z := MapZone{Color: "#123456", Side: SideRed}
	if c := z.DisplayColor(); c != "#123456" {
		t.Errorf("server color not preferred: %s", c)
	}
	for _, tc := range []struct {
		side     int
		expected string
	}{
		{SideRed, "#e53935"},
		{SideBlue, "#1e88e5"},
		{SideNeutral, "#9e9e9e"},
	} {
		z := MapZone{Side: tc.side}
		if c := z.DisplayColor(); c != tc.expected {
			t.Errorf("side %d: color %s, expected %s", tc.side, c, tc.expected)
		}
	}
}

func TestZoneShortName(t *testing.T) {
	if s := (&MapZone{Name: "Kutaisi"}).ShortName(); s != "Kutai." {
		t.Errorf("ShortName = %q", s)
	}
	if s := (&MapZone{Name: "Gori"}).ShortName(); s != "Gori" {
		t.Errorf("ShortName = %q", s)
	}
}

func TestVisibleZonesAndCenter(t *testing.T) {
	m := MapData{Zones: []MapZone{
		{Name: "A", Lat: 42, Lon: 42, Side: SideBlue},
		{Name: "B", Lat: 44, Lon: 44, Side: SideRed},
		{Name: "Secret", Lat: 0, Lon: 0, Hidden: true},
	}}

	vis := m.VisibleZones()
	if len(vis) != 2 {
		t.Fatalf("%d visible zones", len(vis))
	}

	c := m.Center()
	if c.Latitude() != 43 || c.Longitude() != 43 {
		t.Errorf("center %v", c)
	}

	// With no zones at all, center falls back to the default theater view.
	empty := MapData{}
	if c := empty.Center(); c.Latitude() != 41 || c.Longitude() != 35 {
		t.Errorf("fallback center %v", c)
	}
}

func TestBlueZoneNames(t *testing.T) {
	m := MapData{Zones: []MapZone{
		{Name: "Kutaisi", Side: SideBlue},
		{Name: "Gori", Side: SideRed},
		{Name: "Batumi", Side: SideBlue},
		{Name: "Hidden", Side: SideBlue, Hidden: true},
	}}
	names := m.BlueZoneNames()
	if !slices.Equal(names, []string{"Batumi", "Kutaisi"}) {
		t.Errorf("blue zones %v", names)
	}
}

func TestFlavorFirstLine(t *testing.T) {
	z := MapZone{FlavorText: "\n  \nAirfield with hardened shelters\nsecond line"}
	if s := z.FlavorFirstLine(); s != "Airfield with hardened shelters" {
		t.Errorf("FlavorFirstLine = %q", s)
	}
}
