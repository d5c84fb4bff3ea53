// panes/briefingpane_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panes

import (
	"slices"
	"testing"
)

func TestSplitFrequencies(t *testing.T) {
	for _, c := range []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"251.000", []string{"251.000"}},
		{"251.000, 133.500", []string{"251.000", "133.500"}},
		{" 251.000 ,, 133.500 ,", []string{"251.000", "133.500"}},
	} {
		if got := splitFrequencies(c.in); !slices.Equal(got, c.want) {
			t.Errorf("splitFrequencies(%q): got %v, expected %v", c.in, got, c.want)
		}
	}
}
