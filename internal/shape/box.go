package shape

import (
	"math"

	"github.com/san-kum/sphlab/internal/sph"
)

// Box is an axis-aligned box given by a center translation and half sizes.
// In 2D the Z half size is zero and ignored.
type Box struct {
	Center   sph.Vecd
	HalfSize sph.Vecd
}

func NewBox(center, halfSize sph.Vecd) *Box {
	return &Box{Center: center, HalfSize: halfSize}
}

func (b *Box) Contains(p sph.Vecd) bool {
	d := p.Sub(b.Center)
	return math.Abs(d.X) <= b.HalfSize.X &&
		math.Abs(d.Y) <= b.HalfSize.Y &&
		math.Abs(d.Z) <= b.HalfSize.Z+1e-12
}

func (b *Box) BoundingBox() sph.Bounds {
	return sph.Bounds{
		Lower: b.Center.Sub(b.HalfSize),
		Upper: b.Center.Add(b.HalfSize),
	}
}

func (b *Box) SignedDistance(p sph.Vecd) float64 {
	d := p.Sub(b.Center)
	q := sph.Vecd{
		X: math.Abs(d.X) - b.HalfSize.X,
		Y: math.Abs(d.Y) - b.HalfSize.Y,
	}
	outside := sph.Vecd{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0)}
	inner := math.Max(q.X, q.Y)
	// a zero Z half size means a 2D box; the Z axis must not clamp the
	// interior distance to zero
	if b.HalfSize.Z > 0 {
		q.Z = math.Abs(d.Z) - b.HalfSize.Z
		outside.Z = math.Max(q.Z, 0)
		inner = math.Max(inner, q.Z)
	}
	return math.Sqrt(outside.Dot(outside)) + math.Min(inner, 0)
}
