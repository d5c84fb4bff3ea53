// cmd/sitacwatch/main_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"testing"

	"github.com/foothold/sitac/briefing"
)

func TestTitleLine(t *testing.T) {
	if s := titleLine(nil); s != " sitacwatch " {
		t.Errorf("titleLine(nil) = %q", s)
	}

	data := &briefing.MapData{AgeSeconds: 42.4, Progress: 23}
	s := titleLine(data)
	if s != " sitacwatch  mission data 42s old  blue 23% " {
		t.Errorf("titleLine = %q", s)
	}
}

func TestCreditsLine(t *testing.T) {
	data := &briefing.MapData{
		BlueCredits:       1250.5,
		RedCredits:        800,
		MissionsCount:     3,
		Players:           []briefing.MapPlayer{{PlayerName: "Viper"}},
		EjectedPilotCount: 2,
	}
	want := " blue 1250 cr │ red 800 cr │ 3 missions │ 1 players │ 2 ejected"
	if s := creditsLine(data); s != want {
		t.Errorf("creditsLine = %q, want %q", s, want)
	}
}
