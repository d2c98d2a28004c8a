// Package shape provides the geometric shapes consumed by body generation
// and region selection: axis-aligned boxes, 2D multi-polygons and boolean
// add/subtract compositions. Shapes answer containment, bounding box and
// signed distance queries; particle dynamics never look at geometry beyond
// this interface.
package shape

import (
	"math"

	"github.com/san-kum/sphlab/internal/sph"
)

// Shape is the geometry interface consumed by the simulation core.
type Shape interface {
	Contains(p sph.Vecd) bool
	BoundingBox() sph.Bounds
	// SignedDistance is negative inside the shape. It only needs to be
	// accurate near the surface; normals are taken from its gradient.
	SignedDistance(p sph.Vecd) float64
}

// ClosestSurfacePoint projects p onto the surface of s along the signed
// distance gradient.
func ClosestSurfacePoint(s Shape, p sph.Vecd, dim int) sph.Vecd {
	d := s.SignedDistance(p)
	n := Normal(s, p, dim)
	return p.Sub(n.Scale(d))
}

// Normal returns the outward unit normal of s at p, estimated by central
// differences of the signed distance.
func Normal(s Shape, p sph.Vecd, dim int) sph.Vecd {
	const eps = 1e-6
	g := sph.Vecd{
		X: s.SignedDistance(sph.Vecd{X: p.X + eps, Y: p.Y, Z: p.Z}) - s.SignedDistance(sph.Vecd{X: p.X - eps, Y: p.Y, Z: p.Z}),
		Y: s.SignedDistance(sph.Vecd{X: p.X, Y: p.Y + eps, Z: p.Z}) - s.SignedDistance(sph.Vecd{X: p.X, Y: p.Y - eps, Z: p.Z}),
	}
	if dim == 3 {
		g.Z = s.SignedDistance(sph.Vecd{X: p.X, Y: p.Y, Z: p.Z + eps}) - s.SignedDistance(sph.Vecd{X: p.X, Y: p.Y, Z: p.Z - eps})
	}
	n := math.Hypot(math.Hypot(g.X, g.Y), g.Z)
	if n == 0 {
		return sph.Vecd{}
	}
	return g.Scale(1 / n)
}
