// briefing/mapdata.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"strings"
	"time"

	"github.com/foothold/sitac/math"
	"github.com/foothold/sitac/util"
)

// MapZone is a control zone on the live mission map.
type MapZone struct {
	Name       string  `json:"name"`
	Lat        float32 `json:"lat"`
	Lon        float32 `json:"lon"`
	Side       int     `json:"side"`
	Color      string  `json:"color"`
	Units      int     `json:"units"`
	Level      int     `json:"level"`
	FlavorText string  `json:"flavor_text,omitempty"`
	Hidden     bool    `json:"hidden,omitempty"`
}

const (
	SideNeutral = 0
	SideRed     = 1
	SideBlue    = 2
)

func (z *MapZone) Position() math.Point2LL {
	return math.MakePoint2LL(z.Lat, z.Lon)
}

// RadiusMeters gives the zone circle radius, scaled by the zone's level
// and clamped to [2000, 20000] meters.
func (z *MapZone) RadiusMeters() float32 {
	return math.Clamp(float32(z.Level)*2000, 2000, 20000)
}

// DisplayColor returns the zone color as "#rrggbb", preferring the color
// the server assigned and falling back to the side's color.
func (z *MapZone) DisplayColor() string {
	if z.Color != "" {
		return z.Color
	}
	switch z.Side {
	case SideRed:
		return "#e53935"
	case SideBlue:
		return "#1e88e5"
	default:
		return "#9e9e9e"
	}
}

// ShortName abbreviates the zone name to its first five characters for
// mid-zoom labels.
func (z *MapZone) ShortName() string {
	if len(z.Name) > 5 {
		return z.Name[:5] + "."
	}
	return z.Name
}

// FlavorFirstLine returns the first non-blank line of the zone's flavor
// text, trimmed.
func (z *MapZone) FlavorFirstLine() string {
	for _, line := range strings.Split(z.FlavorText, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// MapConnection is a supply link between two zones.
type MapConnection struct {
	FromZone string  `json:"from_zone"`
	ToZone   string  `json:"to_zone"`
	FromLat  float32 `json:"from_lat"`
	FromLon  float32 `json:"from_lon"`
	ToLat    float32 `json:"to_lat"`
	ToLon    float32 `json:"to_lon"`
	Color    string  `json:"color"`
}

func (c *MapConnection) From() math.Point2LL { return math.MakePoint2LL(c.FromLat, c.FromLon) }
func (c *MapConnection) To() math.Point2LL   { return math.MakePoint2LL(c.ToLat, c.ToLon) }

// MapPlayer is a connected player's aircraft.
type MapPlayer struct {
	PlayerName string  `json:"player_name"`
	Lat        float32 `json:"lat"`
	Lon        float32 `json:"lon"`
	Coalition  string  `json:"coalition"`
	UnitType   string  `json:"unit_type"`
	Color      string  `json:"color"`
}

func (p *MapPlayer) Position() math.Point2LL { return math.MakePoint2LL(p.Lat, p.Lon) }

// MapEjectedPilot is a downed pilot awaiting CSAR.
type MapEjectedPilot struct {
	PlayerName  string  `json:"player_name"`
	Lat         float32 `json:"lat"`
	Lon         float32 `json:"lon"`
	Altitude    float32 `json:"altitude"`
	LostCredits float32 `json:"lost_credits"`
}

func (p *MapEjectedPilot) Position() math.Point2LL { return math.MakePoint2LL(p.Lat, p.Lon) }

// MapData is one snapshot of the live mission state.
type MapData struct {
	UpdatedAt         time.Time         `json:"updated_at"`
	AgeSeconds        float32           `json:"age_seconds"`
	Zones             []MapZone         `json:"zones"`
	Connections       []MapConnection   `json:"connections"`
	Players           []MapPlayer       `json:"players"`
	EjectedPilots     []MapEjectedPilot `json:"ejected_pilots"`
	Progress          float32           `json:"progress"`
	MissionsCount     int               `json:"missions_count"`
	EjectedPilotCount int               `json:"ejected_pilots_count"`
	RedCredits        float32           `json:"red_credits"`
	BlueCredits       float32           `json:"blue_credits"`
	ShowZoneForces    bool              `json:"show_zone_forces"`
}

// VisibleZones returns the zones that should be drawn.
func (m *MapData) VisibleZones() []MapZone {
	return util.FilterSlice(m.Zones, func(z MapZone) bool { return !z.Hidden })
}

// Center returns the point the map should initially be centered on: the
// centroid of the visible zones, or a mid-Turkey fallback when there are
// none.
func (m *MapData) Center() math.Point2LL {
	var pts []math.Point2LL
	for _, z := range m.VisibleZones() {
		pts = append(pts, z.Position())
	}
	if len(pts) == 0 {
		return math.MakePoint2LL(41, 35)
	}
	return math.Centroid2LL(pts)
}

// BlueZoneNames returns the names of visible blue zones, sorted; these
// are the candidate zones for homeplates.
func (m *MapData) BlueZoneNames() []string {
	zones := make(map[string]interface{})
	for _, z := range m.Zones {
		if z.Side == SideBlue && !z.Hidden {
			zones[z.Name] = nil
		}
	}
	return util.SortedMapKeys(zones)
}

func (m *MapData) FindZone(name string) *MapZone {
	for i := range m.Zones {
		if m.Zones[i].Name == name {
			return &m.Zones[i]
		}
	}
	return nil
}
