// briefing/types_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"encoding/json"
	"testing"

	"github.com/foothold/sitac/util"
)

func TestSafeTitle(t *testing.T) {
	for _, tc := range []struct {
		title, expected string
	}{
		{"Alpha Strike", "Alpha_Strike"},
		{"Op: Caucasus / Day 2", "Op__Caucasus___Day_2"},
		{"plain-name_ok", "plain-name_ok"},
		{"", "briefing"},
	} {
		b := Briefing{Title: tc.title}
		if got := b.SafeTitle(); got != tc.expected {
			t.Errorf("SafeTitle(%q) = %q, expected %q", tc.title, got, tc.expected)
		}
	}
}

func TestNextPackageName(t *testing.T) {
	b := Briefing{}
	if got := b.NextPackageName(); got != "Package A" {
		t.Errorf("first package name %q", got)
	}
	b.Packages = []Package{{Name: "Package A"}, {Name: "Package B"}}
	if got := b.NextPackageName(); got != "Package C" {
		t.Errorf("third package name %q", got)
	}
}

func TestPackageTotalAircraft(t *testing.T) {
	p := Package{Flights: []Flight{{NumAircraft: 2}, {NumAircraft: 4}, {NumAircraft: 1}}}
	if n := p.TotalAircraft(); n != 7 {
		t.Errorf("TotalAircraft = %d", n)
	}
}

func TestFindFlight(t *testing.T) {
	b := Briefing{Packages: []Package{
		{ID: "p1", Flights: []Flight{{ID: "f1", Callsign: "Uzi 1"}}},
		{ID: "p2", Flights: []Flight{{ID: "f2", Callsign: "Enfield 1"}}},
	}}
	if f := b.FindFlight("p2", "f2"); f == nil || f.Callsign != "Enfield 1" {
		t.Errorf("FindFlight(p2, f2) = %+v", f)
	}
	if f := b.FindFlight("p1", "f2"); f != nil {
		t.Error("found flight under the wrong package")
	}
}

func TestValidate(t *testing.T) {
	var e util.ErrorLogger
	b := Briefing{
		Objectives: []Objective{{ZoneName: "Kutaisi"}, {ZoneName: "Kutaisi"}},
		Packages:   []Package{{Name: "Package A", Flights: []Flight{{Callsign: "Uzi 1", NumAircraft: 0}}}},
	}
	b.Validate(&e)
	if !e.HaveErrors() {
		t.Error("expected validation errors for empty title, duplicate zone, zero aircraft")
	}
}

func TestBriefingJSONRoundTrip(t *testing.T) {
	// Field names must match the server's schema exactly.
	js := `{"id":"b1","edit_token":"tok","server_name":"GAW","title":"T",
	  "objectives":[{"id":"o1","zone_name":"Kutaisi","mission_requirements":["CAP"],"priority":1}],
	  "packages":[{"id":"p1","name":"Package A","target_zone":"Kutaisi","mission_type":"Strike",
	    "flights":[{"id":"f1","callsign":"Uzi 1","aircraft_type":"F-16C","num_aircraft":2,
	      "mission_type":"SEAD","waypoints":[{"name":"WP1","latitude":42.1,"longitude":42.5,"altitude_ft":20000}]}]}]}`

	var b Briefing
	if err := json.Unmarshal([]byte(js), &b); err != nil {
		t.Fatal(err)
	}
	if b.EditToken != "tok" || b.ServerName != "GAW" {
		t.Errorf("briefing header decoded incorrectly: %+v", b)
	}
	if b.Objectives[0].ZoneName != "Kutaisi" || b.Objectives[0].MissionRequirements[0] != MissionCAP {
		t.Errorf("objective decoded incorrectly: %+v", b.Objectives[0])
	}
	f := b.Packages[0].Flights[0]
	if f.NumAircraft != 2 || f.Waypoints[0].AltitudeFt != 20000 {
		t.Errorf("flight decoded incorrectly: %+v", f)
	}
}
