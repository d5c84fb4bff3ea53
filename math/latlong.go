// math/latlong.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// Point2LL

const EarthRadiusMeters = 6371000

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float32

func MakePoint2LL(latitude, longitude float32) Point2LL {
	return Point2LL{longitude, latitude}
}

func (p Point2LL) Longitude() float32 {
	return p[0]
}

func (p Point2LL) Latitude() float32 {
	return p[1]
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// DistanceMeters returns the great-circle distance in meters between the
// two points, via the haversine formula.
func DistanceMeters(a Point2LL, b Point2LL) float32 {
	lat0, lon0 := Radians(a[1]), Radians(a[0])
	lat1, lon1 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat1-lat0, lon1-lon0

	x := Sqr(Sin(dlat/2)) + Cos(lat0)*Cos(lat1)*Sqr(Sin(dlon/2))
	return 2 * EarthRadiusMeters * SafeASin(Sqrt(x))
}

// Centroid2LL returns the average position of the given points; it is the
// zero value if no points are provided.
func Centroid2LL(pts []Point2LL) Point2LL {
	if len(pts) == 0 {
		return Point2LL{}
	}
	var sum [2]float32
	for _, p := range pts {
		sum = Add2f(sum, p)
	}
	return Scale2f(sum, 1/float32(len(pts)))
}

///////////////////////////////////////////////////////////////////////////
// Web mercator

// TileSize is the pixel resolution of the raster map tiles.
const TileSize = 256

// Project returns the web mercator world pixel coordinates of the given
// point at the given (possibly fractional) zoom level.  y increases
// southward, matching tile numbering.
func Project(p Point2LL, zoom float32) [2]float32 {
	scale := TileSize * Pow(2, zoom)
	x := (p[0] + 180) / 360 * scale

	latr := Radians(Clamp(p[1], -85.05112878, 85.05112878))
	y := (1 - Log(Tan(latr)+1/Cos(latr))/Pi()) / 2 * scale

	return [2]float32{x, y}
}

// Unproject inverts Project, returning the lat-long position of the given
// world pixel coordinates at the given zoom level.
func Unproject(xy [2]float32, zoom float32) Point2LL {
	scale := TileSize * Pow(2, zoom)
	lon := xy[0]/scale*360 - 180

	n := Pi() * (1 - 2*xy[1]/scale)
	lat := Degrees(Atan2(Sinh(n), 1))

	return Point2LL{lon, lat}
}

// MetersPerPixel returns the mercator ground resolution at the given
// latitude and zoom level.
func MetersPerPixel(latitude, zoom float32) float32 {
	return 156543.03392 * Cos(Radians(latitude)) / Pow(2, zoom)
}

func Log(x float32) float32 {
	return float32(gomath.Log(float64(x)))
}

func Sinh(x float32) float32 {
	return float32(gomath.Sinh(float64(x)))
}
