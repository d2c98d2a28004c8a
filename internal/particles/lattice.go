package particles

import "github.com/san-kum/sphlab/internal/sph"

// Containment is the predicate a lattice fill tests candidate sites with.
type Containment interface {
	Contains(p sph.Vecd) bool
	BoundingBox() sph.Bounds
}

// LatticeFill generates particle positions on a regular lattice of spacing
// dx, keeping sites whose cell center lies inside the shape. In 2D the Z
// coordinate stays zero.
func LatticeFill(s Containment, dx float64, dim int) []sph.Vecd {
	bb := s.BoundingBox()
	var positions []sph.Vecd

	zs := []float64{0}
	if dim == 3 {
		zs = zs[:0]
		for z := bb.Lower.Z + 0.5*dx; z < bb.Upper.Z; z += dx {
			zs = append(zs, z)
		}
	}
	for _, z := range zs {
		for y := bb.Lower.Y + 0.5*dx; y < bb.Upper.Y; y += dx {
			for x := bb.Lower.X + 0.5*dx; x < bb.Upper.X; x += dx {
				p := sph.Vecd{X: x, Y: y, Z: z}
				if s.Contains(p) {
					positions = append(positions, p)
				}
			}
		}
	}
	return positions
}
