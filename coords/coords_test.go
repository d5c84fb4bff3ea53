// coords/coords_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package coords

import (
	"testing"

	"github.com/foothold/sitac/math"
)

func TestFormatLatitude(t *testing.T) {
	type testCase struct {
		lat    float32
		format Format
		want   string
	}
	for _, c := range []testCase{
		{36.75, FormatDMS, "N36°45'00.00\""},
		{36.75, FormatDDM, "N36°45.0000'"},
		{36.75, FormatDecimal, "N36.750000°"},
		{-12.25, FormatDMS, "S12°15'00.00\""},
		{-12.25, FormatDDM, "S12°15.0000'"},
		{-12.25, FormatDecimal, "S12.250000°"},
		{0, FormatDMS, "N00°00'00.00\""},
		{5.125, FormatDMS, "N05°07'30.00\""},
	} {
		if got := FormatLatitude(c.lat, c.format); got != c.want {
			t.Errorf("FormatLatitude(%v, %s) = %q, want %q", c.lat, c.format, got, c.want)
		}
	}
}

func TestFormatLongitude(t *testing.T) {
	type testCase struct {
		lon    float32
		format Format
		want   string
	}
	for _, c := range []testCase{
		{101.5, FormatDMS, "E101°30'00.00\""},
		{101.5, FormatDDM, "E101°30.0000'"},
		{101.5, FormatDecimal, "E101.500000°"},
		{-0.5, FormatDMS, "W000°30'00.00\""},
		{-0.5, FormatDDM, "W000°30.0000'"},
		{-0.5, FormatDecimal, "W000.500000°"},
		{35, FormatDMS, "E035°00'00.00\""},
	} {
		if got := FormatLongitude(c.lon, c.format); got != c.want {
			t.Errorf("FormatLongitude(%v, %s) = %q, want %q", c.lon, c.format, got, c.want)
		}
	}
}

func TestFormatPoint(t *testing.T) {
	p := math.MakePoint2LL(36.75, 35.5)
	if got, want := FormatPoint(p, FormatDMS), "N36°45'00.00\" E035°30'00.00\""; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := FormatPointWide(p, FormatDMS), "N 36° 45' 00.00\"  E 035° 30' 00.00\""; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	for _, c := range []struct {
		s    string
		want Format
	}{
		{"dms", FormatDMS},
		{"ddm", FormatDDM},
		{"decimal", FormatDecimal},
		{"", FormatDMS},
		{"bogus", FormatDMS},
	} {
		if got := ParseFormat(c.s); got != c.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", c.s, got, c.want)
		}
	}

	// Round trip through the persisted representation.
	for _, f := range []Format{FormatDMS, FormatDDM, FormatDecimal} {
		if got := ParseFormat(f.String()); got != f {
			t.Errorf("round trip of %s gave %s", f, got)
		}
	}
}
