package fluid

import (
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

// ViscousForce accumulates the viscous interaction into ForcePrior. Wall
// neighbors contribute with a mirrored velocity so the wall is no-slip.
type ViscousForce struct {
	inner    *relation.Inner
	contacts []*relation.Contact
	policy   sph.Policy
	mu       float64
	epsH2    float64 // regularization (0.01 h^2)

	vol, mass  []float64
	vel, force []sph.Vecd
}

func NewViscousForce(inner *relation.Inner, contacts ...*relation.Contact) *ViscousForce {
	b := inner.Body
	h := b.Kernel.SmoothingLength()
	return &ViscousForce{
		inner:    inner,
		contacts: contacts,
		policy:   b.System.Policy,
		mu:       b.Material.Viscosity,
		epsH2:    0.01 * h * h,
		vol:      b.Particles.Scalar(particles.Volume),
		mass:     b.Particles.Scalar(particles.Mass),
		vel:      b.Particles.Vector(particles.Velocity),
		force:    b.Particles.Vector(particles.ForcePrior),
	}
}

func (v *ViscousForce) Exec() {
	type src struct {
		vol []float64
		vel []sph.Vecd
	}
	srcs := make([][]src, len(v.contacts))
	for s, c := range v.contacts {
		srcs[s] = make([]src, len(c.Sources))
		for k, b := range c.Sources {
			srcs[s][k] = src{
				vol: b.Particles.Scalar(particles.Volume),
				vel: b.Particles.Vector(particles.Velocity),
			}
		}
	}

	sph.ParallelFor(v.policy, len(v.vel), func(start, end int) {
		for i := start; i < end; i++ {
			var f sph.Vecd
			vi := v.vel[i]
			for _, nb := range v.inner.Lists[i] {
				coeff := 2 * v.mu * v.vol[i] * v.vol[nb.J] * nb.Dist * nb.DW / (nb.Dist*nb.Dist + v.epsH2)
				f = f.Add(vi.Sub(v.vel[nb.J]).Scale(coeff))
			}
			for s, c := range v.contacts {
				for k := range c.Sources {
					sk := srcs[s][k]
					for _, nb := range c.Lists[k][i] {
						coeff := 2 * v.mu * v.vol[i] * sk.vol[nb.J] * nb.Dist * nb.DW / (nb.Dist*nb.Dist + v.epsH2)
						// mirrored wall velocity doubles the jump (no-slip)
						jump := vi.Sub(sk.vel[nb.J]).Scale(2)
						f = f.Add(jump.Scale(coeff))
					}
				}
			}
			v.force[i] = v.force[i].Add(f)
		}
	})
}
