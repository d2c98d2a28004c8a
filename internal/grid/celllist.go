// Package grid implements the uniform cell-linked list used for neighbor
// searches. Cells are at least one kernel support radius wide so a
// particle's neighbors always lie within the 3^d adjacent cells.
package grid

import (
	"fmt"

	"github.com/san-kum/sphlab/internal/sph"
)

// CellList bins particle indices into a dense uniform grid. After Build,
// every live particle is in exactly one cell matching its position.
type CellList struct {
	origin     sph.Vecd
	spacing    float64
	nx, ny, nz int
	dim        int

	cells  [][]int
	cellOf []int
}

// New sizes a cell list for the given domain. The cell side equals cutoff
// (kappa*h); the origin sits one cell below the lower bound so boundary
// particles never sit on the first cell face.
func New(bounds sph.Bounds, cutoff float64, dim int) *CellList {
	span := bounds.Upper.Sub(bounds.Lower)
	nx := int(span.X/cutoff) + 3
	ny := int(span.Y/cutoff) + 3
	nz := 1
	if dim == 3 {
		nz = int(span.Z/cutoff) + 3
	}
	origin := bounds.Lower.Sub(sph.Vecd{X: cutoff, Y: cutoff, Z: cutoff})
	if dim == 2 {
		origin.Z = 0
	}
	c := &CellList{
		origin:  origin,
		spacing: cutoff,
		nx:      nx, ny: ny, nz: nz,
		dim:   dim,
		cells: make([][]int, nx*ny*nz),
	}
	return c
}

func (c *CellList) cellCoords(p sph.Vecd) (int, int, int, bool) {
	ix := int((p.X - c.origin.X) / c.spacing)
	iy := int((p.Y - c.origin.Y) / c.spacing)
	iz := 0
	if c.dim == 3 {
		iz = int((p.Z - c.origin.Z) / c.spacing)
	}
	ok := ix >= 0 && ix < c.nx && iy >= 0 && iy < c.ny && iz >= 0 && iz < c.nz &&
		p.X >= c.origin.X && p.Y >= c.origin.Y && (c.dim == 2 || p.Z >= c.origin.Z)
	return ix, iy, iz, ok
}

func (c *CellList) cellIndex(ix, iy, iz int) int {
	return (iz*c.ny+iy)*c.nx + ix
}

// Build clears and re-bins all particles. A particle outside the grid
// fails the build with sph.ErrOutOfDomain.
func (c *CellList) Build(positions []sph.Vecd) error {
	for i := range c.cells {
		c.cells[i] = c.cells[i][:0]
	}
	if cap(c.cellOf) < len(positions) {
		c.cellOf = make([]int, len(positions))
	}
	c.cellOf = c.cellOf[:len(positions)]

	for i, p := range positions {
		ix, iy, iz, ok := c.cellCoords(p)
		if !ok {
			return fmt.Errorf("particle %d at (%g, %g, %g): %w", i, p.X, p.Y, p.Z, sph.ErrOutOfDomain)
		}
		ci := c.cellIndex(ix, iy, iz)
		c.cells[ci] = append(c.cells[ci], i)
		c.cellOf[i] = ci
	}
	return nil
}

// ForEachNeighbor visits the particle indices in the 3^d cells around p,
// in cell enumeration order then source insertion order.
func (c *CellList) ForEachNeighbor(p sph.Vecd, fn func(j int)) {
	ix, iy, iz, ok := c.cellCoords(p)
	if !ok {
		return
	}
	zLo, zHi := 0, 0
	if c.dim == 3 {
		zLo, zHi = -1, 1
	}
	for dz := zLo; dz <= zHi; dz++ {
		kz := iz + dz
		if kz < 0 || kz >= c.nz {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			ky := iy + dy
			if ky < 0 || ky >= c.ny {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				kx := ix + dx
				if kx < 0 || kx >= c.nx {
					continue
				}
				for _, j := range c.cells[c.cellIndex(kx, ky, kz)] {
					fn(j)
				}
			}
		}
	}
}

// Keys returns per-particle cell indices in lexicographic cell order,
// usable as particle sort keys. Valid until the next Build.
func (c *CellList) Keys() []int {
	return c.cellOf
}
