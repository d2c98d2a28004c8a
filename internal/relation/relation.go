// Package relation builds and stores neighbor lists. An Inner relation
// pairs a body with itself (self pairs excluded); a Contact relation pairs
// a target body with one or more source bodies. Lists are rebuilt from the
// bodies' cell lists and stay consistent with them until the next rebuild.
package relation

import (
	"math"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// Neighbor is one entry of a neighbor list. E points from particle j
// toward particle i, so the kernel gradient with respect to i is DW*E.
type Neighbor struct {
	J    int
	Dist float64
	W    float64
	DW   float64
	E    sph.Vecd
}

// Inner is the self relation of a body.
type Inner struct {
	Body  *body.Body
	Lists [][]Neighbor
}

func NewInner(b *body.Body) *Inner {
	return &Inner{Body: b, Lists: make([][]Neighbor, b.Particles.N())}
}

// Update rebuilds every particle's neighbor list from the body's current
// cell list. Pair order is cell enumeration order then source insertion
// order; consumers must not rely on anything beyond that.
func (r *Inner) Update() {
	pos := r.Body.Particles.Vector(particles.Position)
	k := r.Body.Kernel
	cutoff := k.Cutoff()
	cells := r.Body.CellList()

	sph.ParallelFor(r.Body.System.Policy, len(pos), func(start, end int) {
		for i := start; i < end; i++ {
			list := r.Lists[i][:0]
			pi := pos[i]
			cells.ForEachNeighbor(pi, func(j int) {
				if j == i {
					return
				}
				d := pi.Sub(pos[j])
				dist := vecNorm(d)
				if dist > cutoff || dist < 1e-12 {
					return
				}
				list = append(list, Neighbor{
					J:    j,
					Dist: dist,
					W:    k.W(dist),
					DW:   k.DW(dist),
					E:    d.Scale(1 / dist),
				})
			})
			r.Lists[i] = list
		}
	})
}

// Contact relates a target body to source bodies; Lists[s][i] is the
// neighbor list of target particle i on source s.
type Contact struct {
	Target  *body.Body
	Sources []*body.Body
	Lists   [][][]Neighbor
}

func NewContact(target *body.Body, sources ...*body.Body) *Contact {
	c := &Contact{Target: target, Sources: sources}
	c.Lists = make([][][]Neighbor, len(sources))
	for s := range sources {
		c.Lists[s] = make([][]Neighbor, target.Particles.N())
	}
	return c
}

func (c *Contact) Update() {
	pos := c.Target.Particles.Vector(particles.Position)
	k := c.Target.Kernel
	cutoff := k.Cutoff()

	for s, src := range c.Sources {
		srcPos := src.Particles.Vector(particles.Position)
		cells := src.CellList()
		lists := c.Lists[s]
		sph.ParallelFor(c.Target.System.Policy, len(pos), func(start, end int) {
			for i := start; i < end; i++ {
				list := lists[i][:0]
				pi := pos[i]
				cells.ForEachNeighbor(pi, func(j int) {
					d := pi.Sub(srcPos[j])
					dist := vecNorm(d)
					if dist > cutoff || dist < 1e-12 {
						return
					}
					list = append(list, Neighbor{
						J:    j,
						Dist: dist,
						W:    k.W(dist),
						DW:   k.DW(dist),
						E:    d.Scale(1 / dist),
					})
				})
				lists[i] = list
			}
		})
	}
}

func vecNorm(v sph.Vecd) float64 {
	return math.Sqrt(v.Dot(v))
}
