package shape

import (
	"math"
	"testing"

	"github.com/san-kum/sphlab/internal/sph"
)

func TestBoxQueries(t *testing.T) {
	b := NewBox(sph.Vecd{X: 1, Y: 2}, sph.Vecd{X: 0.5, Y: 1})

	tests := []struct {
		name   string
		p      sph.Vecd
		inside bool
		sd     float64
	}{
		{"center", sph.Vecd{X: 1, Y: 2}, true, -0.5},
		{"on right face", sph.Vecd{X: 1.5, Y: 2}, true, 0},
		{"outside right", sph.Vecd{X: 2, Y: 2}, false, 0.5},
		{"outside corner", sph.Vecd{X: 1.8, Y: 3.4}, false, math.Hypot(0.3, 0.4)},
		{"inside near top", sph.Vecd{X: 1, Y: 2.9}, true, -0.1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.p); got != tc.inside {
				t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.inside)
			}
			if got := b.SignedDistance(tc.p); math.Abs(got-tc.sd) > 1e-12 {
				t.Errorf("SignedDistance(%v) = %v, want %v", tc.p, got, tc.sd)
			}
		})
	}

	bb := b.BoundingBox()
	if bb.Lower.X != 0.5 || bb.Lower.Y != 1 || bb.Upper.X != 1.5 || bb.Upper.Y != 3 {
		t.Errorf("bounding box = %+v", bb)
	}
}

func TestBoxNormal(t *testing.T) {
	b := NewBox(sph.Vecd{}, sph.Vecd{X: 1, Y: 1, Z: 1})
	tests := []struct {
		p, want sph.Vecd
	}{
		{sph.Vecd{X: 1, Y: 0.2, Z: -0.3}, sph.Vecd{X: 1}},
		{sph.Vecd{X: -0.4, Y: -1, Z: 0.1}, sph.Vecd{Y: -1}},
		{sph.Vecd{X: 0.2, Y: 0.3, Z: 1}, sph.Vecd{Z: 1}},
	}
	for _, tc := range tests {
		n := Normal(b, tc.p, 3)
		if d := n.Sub(tc.want); math.Sqrt(d.Dot(d)) > 1e-4 {
			t.Errorf("Normal at %v = %v, want %v", tc.p, n, tc.want)
		}
	}
}

func TestClosestSurfacePoint(t *testing.T) {
	b := NewBox(sph.Vecd{}, sph.Vecd{X: 1, Y: 1})
	got := ClosestSurfacePoint(b, sph.Vecd{X: 2, Y: 0.5}, 2)
	want := sph.Vecd{X: 1, Y: 0.5}
	if d := got.Sub(want); math.Sqrt(d.Dot(d)) > 1e-4 {
		t.Errorf("projection = %v, want %v", got, want)
	}
}

func TestMultiPolygonWithHole(t *testing.T) {
	outer := []sph.Vecd{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	hole := []sph.Vecd{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}
	m := NewMultiPolygon().AddPolygon(outer, OpAdd).AddPolygon(hole, OpSubtract)

	tests := []struct {
		name   string
		p      sph.Vecd
		inside bool
	}{
		{"rim", sph.Vecd{X: 0.5, Y: 2}, true},
		{"hole", sph.Vecd{X: 2, Y: 2}, false},
		{"outside", sph.Vecd{X: 5, Y: 2}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Contains(tc.p); got != tc.inside {
				t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.inside)
			}
		})
	}

	// signed distance is to the nearest edge, negative on the rim
	if got := m.SignedDistance(sph.Vecd{X: 0.5, Y: 2}); math.Abs(got+0.5) > 1e-12 {
		t.Errorf("rim distance = %v, want -0.5", got)
	}
	if got := m.SignedDistance(sph.Vecd{X: 2, Y: 2}); math.Abs(got-1) > 1e-12 {
		t.Errorf("hole center distance = %v, want 1", got)
	}

	bb := m.BoundingBox()
	if bb.Lower.X != 0 || bb.Upper.X != 4 || bb.Lower.Y != 0 || bb.Upper.Y != 4 {
		t.Errorf("bounding box = %+v", bb)
	}
}

func TestMultiPolygonClosingPoint(t *testing.T) {
	closed := []sph.Vecd{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	m := NewMultiPolygon().AddPolygon(closed, OpAdd)
	if !m.Contains(sph.Vecd{X: 0.5, Y: 0.5}) {
		t.Error("explicitly closed polygon lost its interior")
	}
}

func TestComplexTankWall(t *testing.T) {
	// wall ring: outer box minus the inner fluid volume
	outer := NewBox(sph.Vecd{X: 0, Y: 0}, sph.Vecd{X: 2, Y: 2})
	inner := NewBox(sph.Vecd{X: 0, Y: 0}, sph.Vecd{X: 1.5, Y: 1.5})
	wall := NewComplex().Add(outer).Subtract(inner)

	tests := []struct {
		name   string
		p      sph.Vecd
		inside bool
	}{
		{"in wall", sph.Vecd{X: 1.75, Y: 0}, true},
		{"in cavity", sph.Vecd{X: 0, Y: 0}, false},
		{"outside", sph.Vecd{X: 3, Y: 0}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wall.Contains(tc.p); got != tc.inside {
				t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.inside)
			}
		})
	}

	bb := wall.BoundingBox()
	if bb.Lower.X != -2 || bb.Upper.Y != 2 {
		t.Errorf("bounding box = %+v", bb)
	}

	// inside the cavity the nearest surface is the inner box face
	if got := wall.SignedDistance(sph.Vecd{X: 1.2, Y: 0}); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("cavity distance = %v, want 0.3", got)
	}
	// the cavity-facing wall normal points back into the cavity
	n := Normal(wall, sph.Vecd{X: 1.5, Y: 0}, 2)
	if n.X > -0.9 {
		t.Errorf("cavity wall normal = %v, want -x", n)
	}
}
