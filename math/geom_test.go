// math/geom_test.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestExtent2DFromPoints(t *testing.T) {
	e := Extent2DFromPoints([][2]float32{{3, 1}, {-1, 4}, {2, 2}})
	if e.P0 != [2]float32{-1, 1} || e.P1 != [2]float32{3, 4} {
		t.Errorf("got extent %v", e)
	}
	if e.Width() != 4 || e.Height() != 3 {
		t.Errorf("got %g x %g, expected 4 x 3", e.Width(), e.Height())
	}
	if c := e.Center(); c != [2]float32{1, 2.5} {
		t.Errorf("got center %v", c)
	}
}

func TestExtent2DInside(t *testing.T) {
	e := Extent2D{P0: [2]float32{0, 0}, P1: [2]float32{10, 5}}
	for _, p := range [][2]float32{{0, 0}, {10, 5}, {5, 2}} {
		if !e.Inside(p) {
			t.Errorf("%v reported outside %v", p, e)
		}
	}
	for _, p := range [][2]float32{{-1, 2}, {11, 2}, {5, 6}} {
		if e.Inside(p) {
			t.Errorf("%v reported inside %v", p, e)
		}
	}
}

func TestOverlaps(t *testing.T) {
	a := Extent2D{P0: [2]float32{0, 0}, P1: [2]float32{4, 4}}
	b := Extent2D{P0: [2]float32{3, 3}, P1: [2]float32{6, 6}}
	c := Extent2D{P0: [2]float32{5, 5}, P1: [2]float32{8, 8}}
	if !Overlaps(a, b) || !Overlaps(b, a) {
		t.Errorf("%v and %v should overlap", a, b)
	}
	if Overlaps(a, c) {
		t.Errorf("%v and %v should not overlap", a, c)
	}
}

func TestUnion(t *testing.T) {
	e := Union(EmptyExtent2D(), [2]float32{1, 2})
	e = Union(e, [2]float32{-3, 5})
	if e.P0 != [2]float32{-3, 2} || e.P1 != [2]float32{1, 5} {
		t.Errorf("got extent %v", e)
	}
}

func TestClosestPointInBox(t *testing.T) {
	e := Extent2D{P0: [2]float32{0, 0}, P1: [2]float32{4, 4}}
	if p := e.ClosestPointInBox([2]float32{2, 2}); p != [2]float32{2, 2} {
		t.Errorf("interior point moved to %v", p)
	}
	if p := e.ClosestPointInBox([2]float32{-2, 10}); p != [2]float32{0, 4} {
		t.Errorf("got %v, expected corner (0, 4)", p)
	}
}

func TestExtent2DLerp(t *testing.T) {
	e := Extent2D{P0: [2]float32{2, 10}, P1: [2]float32{4, 20}}
	if p := e.Lerp([2]float32{0.5, 0.5}); p != [2]float32{3, 15} {
		t.Errorf("got %v, expected (3, 15)", p)
	}
}

func TestPointSegmentDistance(t *testing.T) {
	v, w := [2]float32{0, 0}, [2]float32{10, 0}
	if d := PointSegmentDistance([2]float32{5, 3}, v, w); Abs(d-3) > 1e-5 {
		t.Errorf("got %g, expected 3", d)
	}
	// Beyond the endpoint the distance is to the endpoint, not the line.
	if d := PointSegmentDistance([2]float32{13, 4}, v, w); Abs(d-5) > 1e-5 {
		t.Errorf("got %g, expected 5", d)
	}
}

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(16)
	if len(pts) != 16 {
		t.Errorf("got %d points", len(pts))
	}
	if pts[0] != [2]float32{0, 1} {
		t.Errorf("got first point %v, expected (0, 1)", pts[0])
	}
	for _, p := range pts {
		if Abs(Length2f(p)-1) > 1e-5 {
			t.Errorf("point %v is not on the unit circle", p)
		}
	}
}
