// cmd/sitacserver/mapdata.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/foothold/sitac/briefing"
	"github.com/foothold/sitac/log"
)

// mapSource serves the live mission snapshot.  When a file is
// configured, the Foothold mission exporter is expected to rewrite it
// periodically and it is re-read whenever its modification time changes;
// otherwise a small built-in campaign is served so a fresh checkout has
// something to look at.
type mapSource struct {
	mu      sync.Mutex
	path    string
	modTime time.Time
	data    *briefing.MapData
	lg      *log.Logger
}

func newMapSource(path string, lg *log.Logger) *mapSource {
	return &mapSource{path: path, lg: lg}
}

func (ms *mapSource) current() *briefing.MapData {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.path == "" {
		if ms.data == nil {
			ms.data = sampleMapData()
			ms.data.UpdatedAt = time.Now().UTC()
		}
	} else if info, err := os.Stat(ms.path); err != nil {
		ms.lg.Warnf("%s: %v", ms.path, err)
	} else if !info.ModTime().Equal(ms.modTime) {
		contents, err := os.ReadFile(ms.path)
		if err != nil {
			ms.lg.Errorf("%s: %v", ms.path, err)
		} else {
			var data briefing.MapData
			if err := json.Unmarshal(contents, &data); err != nil {
				ms.lg.Errorf("%s: %v", ms.path, err)
			} else {
				if data.UpdatedAt.IsZero() {
					data.UpdatedAt = info.ModTime().UTC()
				}
				ms.data = &data
				ms.modTime = info.ModTime()
			}
		}
	}

	if ms.data == nil {
		return nil
	}

	// Hand out a copy with the age stamped so concurrent requests don't
	// race on the shared snapshot.
	data := *ms.data
	data.AgeSeconds = float32(time.Since(data.UpdatedAt).Seconds())
	if data.EjectedPilotCount == 0 {
		data.EjectedPilotCount = len(data.EjectedPilots)
	}
	return &data
}

func (ms *mapSource) zoneNames() []string {
	data := ms.current()
	if data == nil {
		return nil
	}

	var names []string
	for _, z := range data.Zones {
		if !z.Hidden {
			names = append(names, z.Name)
		}
	}
	return names
}

// sampleMapData is a cut-down Foothold Syria situation for development.
func sampleMapData() *briefing.MapData {
	return &briefing.MapData{
		Zones: []briefing.MapZone{
			{Name: "Incirlik", Lat: 37.00, Lon: 35.43, Side: briefing.SideBlue, Units: 24, Level: 5,
				FlavorText: "Main blue operating base.\nCarrier group support available."},
			{Name: "Gaziantep", Lat: 36.95, Lon: 37.48, Side: briefing.SideBlue, Units: 12, Level: 3},
			{Name: "Aleppo", Lat: 36.18, Lon: 37.22, Side: briefing.SideRed, Units: 31, Level: 7,
				FlavorText: "Heavily defended sector HQ."},
			{Name: "Hatay", Lat: 36.36, Lon: 36.28, Side: briefing.SideNeutral, Units: 0, Level: 1},
			{Name: "Abu al-Duhur", Lat: 35.73, Lon: 37.10, Side: briefing.SideRed, Units: 18, Level: 4},
			{Name: "Bassel Al-Assad", Lat: 35.40, Lon: 35.95, Side: briefing.SideRed, Units: 22, Level: 6},
		},
		Connections: []briefing.MapConnection{
			{FromZone: "Incirlik", ToZone: "Gaziantep", FromLat: 37.00, FromLon: 35.43,
				ToLat: 36.95, ToLon: 37.48, Color: "#1e88e5"},
			{FromZone: "Gaziantep", ToZone: "Aleppo", FromLat: 36.95, FromLon: 37.48,
				ToLat: 36.18, ToLon: 37.22, Color: "#9e9e9e"},
			{FromZone: "Aleppo", ToZone: "Abu al-Duhur", FromLat: 36.18, FromLon: 37.22,
				ToLat: 35.73, ToLon: 37.10, Color: "#e53935"},
			{FromZone: "Abu al-Duhur", ToZone: "Bassel Al-Assad", FromLat: 35.73, FromLon: 37.10,
				ToLat: 35.40, ToLon: 35.95, Color: "#e53935"},
		},
		Players: []briefing.MapPlayer{
			{PlayerName: "Viper 1-1", Lat: 36.70, Lon: 36.10, Coalition: "blue", UnitType: "F-16C"},
			{PlayerName: "Uzi 2-1", Lat: 36.40, Lon: 36.90, Coalition: "red", UnitType: "MiG-29A"},
		},
		EjectedPilots: []briefing.MapEjectedPilot{
			{PlayerName: "Hornet 3-2", Lat: 36.05, Lon: 36.60, Altitude: 0, LostCredits: 350},
		},
		Progress:       23,
		MissionsCount:  4,
		RedCredits:     5200,
		BlueCredits:    4100,
		ShowZoneForces: true,
	}
}
