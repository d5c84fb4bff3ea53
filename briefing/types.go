// briefing/types.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package briefing holds the mission briefing document model, the app
// state that the UI panes render, and the controller that applies user
// commands to it.
package briefing

import (
	"strings"
	"time"

	"github.com/foothold/sitac/util"
)

// MissionType is the tasking category for flights, packages, and
// objective requirements.
type MissionType string

const (
	MissionCAP    MissionType = "CAP"
	MissionSEAD   MissionType = "SEAD"
	MissionDEAD   MissionType = "DEAD"
	MissionCAS    MissionType = "CAS"
	MissionStrike MissionType = "Strike"
	MissionSweep  MissionType = "Sweep"
	MissionEscort MissionType = "Escort"
	MissionRecce  MissionType = "Recce"
)

// MissionTypes lists all mission types in the order they appear in
// selection widgets.
var MissionTypes = []MissionType{
	MissionCAP, MissionSEAD, MissionDEAD, MissionCAS,
	MissionStrike, MissionSweep, MissionEscort, MissionRecce,
}

// Homeplate is a home base for the mission.
type Homeplate struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Latitude      float32  `json:"latitude"`
	Longitude     float32  `json:"longitude"`
	RunwayHeading int      `json:"runway_heading,omitempty"`
	TACAN         string   `json:"tacan,omitempty"`
	Frequencies   []string `json:"frequencies"`
}

// Waypoint is one point of a flight plan.
type Waypoint struct {
	Name       string  `json:"name"`
	Latitude   float32 `json:"latitude"`
	Longitude  float32 `json:"longitude"`
	AltitudeFt int     `json:"altitude_ft,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Flight is a single flight within a package.
type Flight struct {
	ID           string      `json:"id"`
	Callsign     string      `json:"callsign"`
	AircraftType string      `json:"aircraft_type"`
	NumAircraft  int         `json:"num_aircraft"`
	MissionType  MissionType `json:"mission_type"`
	PushTime     string      `json:"push_time,omitempty"`
	TOT          string      `json:"tot,omitempty"`
	Waypoints    []Waypoint  `json:"waypoints"`
	Notes        string      `json:"notes,omitempty"`
}

// Package is a strike package containing multiple flights.
type Package struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	TargetZone  string      `json:"target_zone,omitempty"`
	MissionType MissionType `json:"mission_type,omitempty"`
	Flights     []Flight    `json:"flights"`
	Notes       string      `json:"notes,omitempty"`
}

// TotalAircraft returns the number of aircraft across all of the
// package's flights.
func (p *Package) TotalAircraft() int {
	return util.ReduceSlice(p.Flights, func(f Flight, n int) int { return n + f.NumAircraft }, 0)
}

// Objective is an objective tied to a zone on the live map.
type Objective struct {
	ID                  string        `json:"id"`
	ZoneName            string        `json:"zone_name"`
	MissionRequirements []MissionType `json:"mission_requirements"`
	Priority            int           `json:"priority"`
	Notes               string        `json:"notes,omitempty"`
}

// Briefing is the root briefing/ATO document.
type Briefing struct {
	ID         string    `json:"id"`
	EditToken  string    `json:"edit_token,omitempty"`
	ServerName string    `json:"server_name"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Homeplates []Homeplate `json:"homeplates"`

	MissionDate string `json:"mission_date,omitempty"`
	MissionTime string `json:"mission_time,omitempty"`

	Situation  string      `json:"situation,omitempty"`
	Objectives []Objective `json:"objectives"`
	Packages   []Package   `json:"packages"`

	Weather   string `json:"weather,omitempty"`
	CommsPlan string `json:"comms_plan,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ObjectiveForZone returns the briefing's objective for the given zone,
// if there is one.  Each zone has at most one objective.
func (b *Briefing) ObjectiveForZone(zone string) *Objective {
	for i := range b.Objectives {
		if b.Objectives[i].ZoneName == zone {
			return &b.Objectives[i]
		}
	}
	return nil
}

func (b *Briefing) FindPackage(id string) *Package {
	for i := range b.Packages {
		if b.Packages[i].ID == id {
			return &b.Packages[i]
		}
	}
	return nil
}

func (b *Briefing) FindFlight(packageID, flightID string) *Flight {
	if p := b.FindPackage(packageID); p != nil {
		for i := range p.Flights {
			if p.Flights[i].ID == flightID {
				return &p.Flights[i]
			}
		}
	}
	return nil
}

// SafeTitle returns the briefing title with everything other than
// letters, digits, underscores, and dashes replaced by underscores; it is
// used for the exported file name.
func (b *Briefing) SafeTitle() string {
	if b.Title == "" {
		return "briefing"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, b.Title)
}

// NextPackageName returns the default name for a newly-created package:
// Package A, Package B, ...  It runs off the end of the alphabet into
// punctuation if someone makes more than 26 packages, matching the
// server's behavior.
func (b *Briefing) NextPackageName() string {
	return "Package " + string(rune('A'+len(b.Packages)))
}

// NextObjectivePriority returns the default priority for a new
// objective, one past the number of existing objectives.
func (b *Briefing) NextObjectivePriority() int {
	return len(b.Objectives) + 1
}

// Validate accumulates structural problems in the document; the server
// shouldn't be sending us any of these but we check before rendering.
func (b *Briefing) Validate(e *util.ErrorLogger) {
	e.Push("briefing " + b.ID)
	defer e.Pop()

	if b.Title == "" {
		e.ErrorString("empty title")
	}

	zones := make(map[string]interface{})
	for _, obj := range b.Objectives {
		e.Push("objective " + obj.ID)
		if obj.ZoneName == "" {
			e.ErrorString("no zone name")
		} else if _, ok := zones[obj.ZoneName]; ok {
			e.ErrorString("duplicate objective for zone %q", obj.ZoneName)
		}
		zones[obj.ZoneName] = nil
		e.Pop()
	}

	for i := range b.Packages {
		p := &b.Packages[i]
		e.Push("package " + p.ID)
		if p.Name == "" {
			e.ErrorString("empty name")
		}
		for _, f := range p.Flights {
			if f.NumAircraft <= 0 {
				e.ErrorString("flight %s: non-positive aircraft count %d", f.ID, f.NumAircraft)
			}
		}
		e.Pop()
	}
}

// Defaults for newly-created entities; these match what the web UI
// prefills.
const (
	DefaultFlightCallsign = "Flight 1"
	DefaultAircraftType   = "F-16C"
	DefaultNumAircraft    = 2
)
