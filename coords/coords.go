// coords/coords.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package coords formats latitude-longitude positions in the three
// formats used on the map and in the briefing editor.  The active format
// is a user preference that is persisted in the config file.
package coords

import (
	"fmt"

	"github.com/foothold/sitac/math"
)

type Format int

const (
	// DMS is the default and what unknown persisted values fall back to.
	FormatDMS Format = iota
	FormatDDM
	FormatDecimal
)

func (f Format) String() string {
	switch f {
	case FormatDDM:
		return "ddm"
	case FormatDecimal:
		return "decimal"
	default:
		return "dms"
	}
}

// ParseFormat maps a persisted format name to a Format; anything
// unrecognized gives FormatDMS.
func ParseFormat(s string) Format {
	switch s {
	case "ddm":
		return FormatDDM
	case "decimal":
		return FormatDecimal
	default:
		return FormatDMS
	}
}

// Label returns the name shown for the format in the settings menu.
func (f Format) Label() string {
	switch f {
	case FormatDDM:
		return "Degrees Decimal Minutes"
	case FormatDecimal:
		return "Decimal Degrees"
	default:
		return "Degrees Minutes Seconds"
	}
}

func hemisphere(v float32, isLatitude bool) string {
	if isLatitude {
		if v < 0 {
			return "S"
		}
		return "N"
	}
	if v < 0 {
		return "W"
	}
	return "E"
}

// degreeDigits is 2 for latitude and 3 for longitude so that, e.g., 35
// East formats as E035.
func degreeDigits(isLatitude bool) int {
	if isLatitude {
		return 2
	}
	return 3
}

func formatDecimal(v float32, isLatitude bool) string {
	dp := degreeDigits(isLatitude)
	return fmt.Sprintf("%s%0*.6f°", hemisphere(v, isLatitude), dp+7, math.Abs(v))
}

func formatDDM(v float32, isLatitude bool) string {
	abs := math.Abs(v)
	deg := int(abs)
	minutes := (abs - float32(deg)) * 60
	return fmt.Sprintf("%s%0*d°%07.4f'", hemisphere(v, isLatitude), degreeDigits(isLatitude), deg, minutes)
}

func formatDMS(v float32, isLatitude bool) string {
	abs := math.Abs(v)
	deg := int(abs)
	minf := (abs - float32(deg)) * 60
	min := int(minf)
	sec := (minf - float32(min)) * 60
	return fmt.Sprintf("%s%0*d°%02d'%05.2f\"", hemisphere(v, isLatitude), degreeDigits(isLatitude), deg, min, sec)
}

// FormatLatitude formats a latitude in the given format.
func FormatLatitude(lat float32, f Format) string {
	switch f {
	case FormatDDM:
		return formatDDM(lat, true)
	case FormatDecimal:
		return formatDecimal(lat, true)
	default:
		return formatDMS(lat, true)
	}
}

// FormatLongitude formats a longitude in the given format.
func FormatLongitude(lon float32, f Format) string {
	switch f {
	case FormatDDM:
		return formatDDM(lon, false)
	case FormatDecimal:
		return formatDecimal(lon, false)
	default:
		return formatDMS(lon, false)
	}
}

// FormatPoint formats a position as "<lat> <lon>".
func FormatPoint(p math.Point2LL, f Format) string {
	return FormatLatitude(p.Latitude(), f) + " " + FormatLongitude(p.Longitude(), f)
}

// FormatPointWide is the variant used for the live cursor readout; it puts
// a space after the hemisphere letter and pads the decimal form wider so
// the readout doesn't jitter as the mouse moves.
func FormatPointWide(p math.Point2LL, f Format) string {
	format := func(v float32, isLatitude bool) string {
		switch f {
		case FormatDDM:
			abs := math.Abs(v)
			deg := int(abs)
			minutes := (abs - float32(deg)) * 60
			return fmt.Sprintf("%s %0*d° %07.4f'", hemisphere(v, isLatitude),
				degreeDigits(isLatitude), deg, minutes)
		case FormatDecimal:
			dp := degreeDigits(isLatitude)
			return fmt.Sprintf("%s %0*.6f°", hemisphere(v, isLatitude), dp+8, math.Abs(v))
		default:
			abs := math.Abs(v)
			deg := int(abs)
			minf := (abs - float32(deg)) * 60
			min := int(minf)
			sec := (minf - float32(min)) * 60
			return fmt.Sprintf("%s %0*d° %02d' %05.2f\"", hemisphere(v, isLatitude),
				degreeDigits(isLatitude), deg, min, sec)
		}
	}
	return format(p.Latitude(), true) + "  " + format(p.Longitude(), false)
}
