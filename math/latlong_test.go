// math/latlong_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestMakePoint2LL(t *testing.T) {
	p := MakePoint2LL(36.5, -75.25)
	if p.Latitude() != 36.5 {
		t.Errorf("got %g for latitude, expected 36.5", p.Latitude())
	}
	if p.Longitude() != -75.25 {
		t.Errorf("got %g for longitude, expected -75.25", p.Longitude())
	}
	if p[0] != -75.25 || p[1] != 36.5 {
		t.Errorf("expected longitude in [0] and latitude in [1], got %v", p)
	}
}

func TestProject(t *testing.T) {
	// The null island sits at the center of the world raster.
	xy := Project(Point2LL{0, 0}, 0)
	if Abs(xy[0]-128) > 1e-3 || Abs(xy[1]-128) > 1e-3 {
		t.Errorf("(0, 0) at zoom 0: got %v, expected (128, 128)", xy)
	}

	// The antimeridian maps to the right edge.
	xy = Project(Point2LL{180, 0}, 0)
	if Abs(xy[0]-256) > 1e-3 {
		t.Errorf("lon 180 at zoom 0: got x %g, expected 256", xy[0])
	}

	// Each zoom level doubles the world size.
	a := Project(Point2LL{35, 41}, 5)
	b := Project(Point2LL{35, 41}, 6)
	if Abs(2*a[0]-b[0]) > 1e-2 || Abs(2*a[1]-b[1]) > 1e-2 {
		t.Errorf("zoom 6 coordinates %v are not double zoom 5's %v", b, a)
	}

	// y decreases northward.
	n := Project(Point2LL{35, 42}, 5)
	s := Project(Point2LL{35, 40}, 5)
	if n[1] >= s[1] {
		t.Errorf("northern point y %g not above southern point y %g", n[1], s[1])
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	pts := []Point2LL{
		{35.5, 41.2},   // Foothold Syria-ish
		{-73.77, 40.6}, // JFK
		{151.2, -33.9}, // Sydney
		{0, 0},
	}
	for _, zoom := range []float32{3, 7, 10.5} {
		for _, p := range pts {
			q := Unproject(Project(p, zoom), zoom)
			if Abs(p[0]-q[0]) > 1e-2 || Abs(p[1]-q[1]) > 1e-2 {
				t.Errorf("zoom %g: %v round-tripped to %v", zoom, p, q)
			}
		}
	}
}

func TestMetersPerPixel(t *testing.T) {
	if m := MetersPerPixel(0, 0); Abs(m-156543.03) > 1 {
		t.Errorf("equator at zoom 0: got %g m/px, expected 156543", m)
	}
	// Halves with each zoom level and with cos(latitude).
	if m0, m1 := MetersPerPixel(0, 4), MetersPerPixel(0, 5); Abs(m0-2*m1) > 1e-2 {
		t.Errorf("zoom 4 is %g m/px but zoom 5 is %g", m0, m1)
	}
	if me, m60 := MetersPerPixel(0, 8), MetersPerPixel(60, 8); Abs(me-2*m60) > 1e-2 {
		t.Errorf("lat 60 is %g m/px but equator is %g", m60, me)
	}
}

func TestDistanceMeters(t *testing.T) {
	p := MakePoint2LL(41, 35)
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("distance from a point to itself: %g", d)
	}

	// One degree of latitude is about 111.2 km on the sphere.
	d := DistanceMeters(MakePoint2LL(40, 35), MakePoint2LL(41, 35))
	if Abs(d-111195) > 100 {
		t.Errorf("one degree of latitude: got %g m, expected ~111195", d)
	}

	if DistanceMeters(p, MakePoint2LL(41, 36)) != DistanceMeters(MakePoint2LL(41, 36), p) {
		t.Errorf("distance is not symmetric")
	}
}

func TestCentroid2LL(t *testing.T) {
	if c := Centroid2LL(nil); !c.IsZero() {
		t.Errorf("centroid of no points: %v", c)
	}

	c := Centroid2LL([]Point2LL{{34, 40}, {36, 42}})
	if Abs(c[0]-35) > 1e-5 || Abs(c[1]-41) > 1e-5 {
		t.Errorf("got centroid %v, expected (35, 41)", c)
	}
}
