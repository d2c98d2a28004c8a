package body

import (
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/shape"
)

// Region selects the particles of a body whose reference position lies
// inside a shape. The index list is precomputed; the owning body rebuilds
// it when a particle sort permutes the arrays, so Rebuild is only needed
// if the geometry changes.
type Region struct {
	Body    *Body
	Shape   shape.Shape
	Indices []int
}

// NewRegionByParticle builds a region from the body's reference positions
// and registers it with the body for rebuilds after particle sorts.
func NewRegionByParticle(b *Body, s shape.Shape) *Region {
	r := &Region{Body: b, Shape: s}
	r.Rebuild()
	b.regions = append(b.regions, r)
	return r
}

func (r *Region) Rebuild() {
	ref := r.Body.Particles.Vector(particles.Position0)
	r.Indices = r.Indices[:0]
	for i, p := range ref {
		if r.Shape.Contains(p) {
			r.Indices = append(r.Indices, i)
		}
	}
}

// ConstantConstraint imposes a constant value on a scalar field over a
// region. Exec is idempotent; drivers re-apply it after every integration
// stage that would drift the boundary.
type ConstantConstraint struct {
	Region *Region
	Field  string
	Value  float64
}

func NewConstantConstraint(r *Region, field string, value float64) *ConstantConstraint {
	r.Body.Particles.RegisterScalar(field)
	return &ConstantConstraint{Region: r, Field: field, Value: value}
}

func (c *ConstantConstraint) Exec() {
	f := c.Region.Body.Particles.Scalar(c.Field)
	for _, i := range c.Region.Indices {
		f[i] = c.Value
	}
}
