package shape

import "github.com/san-kum/sphlab/internal/sph"

type component struct {
	shape Shape
	op    BooleanOp
}

// Complex composes shapes with add/subtract operations applied in order,
// e.g. a wall built as an outer box minus its interior.
type Complex struct {
	components []component
}

func NewComplex() *Complex {
	return &Complex{}
}

func (c *Complex) Add(s Shape) *Complex {
	c.components = append(c.components, component{shape: s, op: OpAdd})
	return c
}

func (c *Complex) Subtract(s Shape) *Complex {
	c.components = append(c.components, component{shape: s, op: OpSubtract})
	return c
}

func (c *Complex) Contains(p sph.Vecd) bool {
	in := false
	for _, comp := range c.components {
		if comp.shape.Contains(p) {
			in = comp.op == OpAdd
		}
	}
	return in
}

func (c *Complex) BoundingBox() sph.Bounds {
	var b sph.Bounds
	first := true
	for _, comp := range c.components {
		if comp.op != OpAdd {
			continue
		}
		bb := comp.shape.BoundingBox()
		if first {
			b = bb
			first = false
			continue
		}
		b.Lower.X = min(b.Lower.X, bb.Lower.X)
		b.Lower.Y = min(b.Lower.Y, bb.Lower.Y)
		b.Lower.Z = min(b.Lower.Z, bb.Lower.Z)
		b.Upper.X = max(b.Upper.X, bb.Upper.X)
		b.Upper.Y = max(b.Upper.Y, bb.Upper.Y)
		b.Upper.Z = max(b.Upper.Z, bb.Upper.Z)
	}
	return b
}

func (c *Complex) SignedDistance(p sph.Vecd) float64 {
	// Distance of the composition is approximated from the component
	// surfaces; exact only when subtracted shapes lie inside added ones,
	// which holds for the tank and block geometries used here.
	d := 0.0
	first := true
	for _, comp := range c.components {
		sd := comp.shape.SignedDistance(p)
		if comp.op == OpSubtract {
			sd = -sd
		}
		if first {
			d = sd
			first = false
			continue
		}
		if sd > d {
			d = sd
		}
	}
	if c.Contains(p) && d > 0 {
		d = -d
	}
	return d
}
