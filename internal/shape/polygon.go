package shape

import (
	"math"

	"github.com/san-kum/sphlab/internal/sph"
)

// BooleanOp selects how a polygon or sub-shape combines with the ones
// registered before it.
type BooleanOp int

const (
	OpAdd BooleanOp = iota
	OpSubtract
)

type polygon struct {
	points []sph.Vecd
	op     BooleanOp
}

// MultiPolygon is a 2D region built from closed polygons combined with
// add/subtract operations in registration order.
type MultiPolygon struct {
	polygons []polygon
}

func NewMultiPolygon() *MultiPolygon {
	return &MultiPolygon{}
}

// AddPolygon registers a closed polygon. The first and last points may
// coincide; the closing edge is implied either way.
func (m *MultiPolygon) AddPolygon(points []sph.Vecd, op BooleanOp) *MultiPolygon {
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	m.polygons = append(m.polygons, polygon{points: points, op: op})
	return m
}

func (m *MultiPolygon) Contains(p sph.Vecd) bool {
	in := false
	for _, poly := range m.polygons {
		if pointInPolygon(p, poly.points) {
			in = poly.op == OpAdd
		}
	}
	return in
}

func (m *MultiPolygon) BoundingBox() sph.Bounds {
	lo := sph.Vecd{X: math.Inf(1), Y: math.Inf(1)}
	hi := sph.Vecd{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, poly := range m.polygons {
		if poly.op != OpAdd {
			continue
		}
		for _, p := range poly.points {
			lo.X = math.Min(lo.X, p.X)
			lo.Y = math.Min(lo.Y, p.Y)
			hi.X = math.Max(hi.X, p.X)
			hi.Y = math.Max(hi.Y, p.Y)
		}
	}
	return sph.Bounds{Lower: lo, Upper: hi}
}

func (m *MultiPolygon) SignedDistance(p sph.Vecd) float64 {
	d := math.Inf(1)
	for _, poly := range m.polygons {
		for i := range poly.points {
			a := poly.points[i]
			b := poly.points[(i+1)%len(poly.points)]
			d = math.Min(d, distToSegment(p, a, b))
		}
	}
	if m.Contains(p) {
		return -d
	}
	return d
}

// pointInPolygon is the even-odd ray crossing test in the XY plane.
func pointInPolygon(p sph.Vecd, points []sph.Vecd) bool {
	in := false
	n := len(points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := points[i], points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			in = !in
		}
	}
	return in
}

func distToSegment(p, a, b sph.Vecd) float64 {
	ab := b.Sub(a)
	t := p.Sub(a).Dot(ab)
	if l2 := ab.Dot(ab); l2 > 0 {
		t = math.Max(0, math.Min(1, t/l2))
	} else {
		t = 0
	}
	c := a.Add(ab.Scale(t))
	d := p.Sub(c)
	return math.Sqrt(d.Dot(d))
}
