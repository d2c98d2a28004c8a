package fluid

import (
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

type wallFields struct {
	vol []float64
	vel []sph.Vecd
}

// acousticCore carries the state shared by both acoustic half steps: field
// slices, equation-of-state constants and a scratch acceleration buffer so
// velocities are read consistently while being updated.
type acousticCore struct {
	inner    *relation.Inner
	contacts []*relation.Contact
	policy   sph.Policy
	rho0, c0 float64
	gravity  sph.Vecd

	mass, rho, p, vol []float64
	drho              []float64
	pos, vel, force   []sph.Vecd
	acc               []sph.Vecd
}

func newAcousticCore(inner *relation.Inner, gravity sph.Vecd, contacts []*relation.Contact) acousticCore {
	b := inner.Body
	n := b.Particles.N()
	return acousticCore{
		inner:    inner,
		contacts: contacts,
		policy:   b.System.Policy,
		rho0:     b.Material.Rho0,
		c0:       b.Material.SoundSpeed,
		gravity:  gravity,
		mass:     b.Particles.Scalar(particles.Mass),
		rho:      b.Particles.Scalar(particles.Density),
		p:        b.Particles.Scalar(particles.Pressure),
		vol:      b.Particles.Scalar(particles.Volume),
		drho:     b.Particles.Scalar(particles.DensityChangeRate),
		pos:      b.Particles.Vector(particles.Position),
		vel:      b.Particles.Vector(particles.Velocity),
		force:    b.Particles.Vector(particles.ForcePrior),
		acc:      make([]sph.Vecd, n),
	}
}

func (c *acousticCore) wallFields() [][]wallFields {
	out := make([][]wallFields, len(c.contacts))
	for s, ct := range c.contacts {
		out[s] = make([]wallFields, len(ct.Sources))
		for k, src := range ct.Sources {
			out[s][k] = wallFields{
				vol: src.Particles.Scalar(particles.Volume),
				vel: src.Particles.Vector(particles.Velocity),
			}
		}
	}
	return out
}

// updatePressure applies the state equation P = c0^2 (rho - rho0).
func (c *acousticCore) updatePressure() {
	sph.ParallelFor(c.policy, len(c.rho), func(start, end int) {
		for i := start; i < end; i++ {
			c.p[i] = c.c0 * c.c0 * (c.rho[i] - c.rho0)
		}
	})
}

// computeAccel fills the scratch acceleration with prior force per mass
// plus the Riemann pressure interaction. Wall neighbors carry a
// hydrostatically extrapolated pressure and a mirrored velocity.
func (c *acousticCore) computeAccel() {
	walls := c.wallFields()
	sph.ParallelFor(c.policy, len(c.acc), func(start, end int) {
		for i := start; i < end; i++ {
			a := c.force[i].Scale(1 / c.mass[i])
			vi, pi, rhoi := c.vel[i], c.p[i], c.rho[i]
			var f sph.Vecd
			for _, nb := range c.inner.Lists[i] {
				uJump := c.vel[nb.J].Sub(vi).Dot(nb.E)
				pStar := RiemannPStar(pi, c.p[nb.J], rhoi, c.rho[nb.J], uJump, c.c0)
				f = f.Add(nb.E.Scale(-2 * pStar * c.vol[i] * c.vol[nb.J] * nb.DW))
			}
			for s, ct := range c.contacts {
				for k := range ct.Sources {
					wf := walls[s][k]
					for _, nb := range ct.Lists[k][i] {
						pWall := pi - rhoi*c.gravity.Dot(nb.E)*nb.Dist
						vEff := wf.vel[nb.J].Scale(2).Sub(vi)
						uJump := vEff.Sub(vi).Dot(nb.E)
						pStar := RiemannPStar(pi, pWall, rhoi, rhoi, uJump, c.c0)
						f = f.Add(nb.E.Scale(-2 * pStar * c.vol[i] * wf.vol[nb.J] * nb.DW))
					}
				}
			}
			c.acc[i] = a.Add(f.Scale(1 / c.mass[i]))
		}
	})
}

// AcousticStep1stHalf refreshes the pressure from the state equation,
// kicks the velocity by half an acoustic step and drifts positions by
// half a step with the kicked velocity.
type AcousticStep1stHalf struct {
	acousticCore
}

func NewAcousticStep1stHalf(inner *relation.Inner, gravity sph.Vecd, contacts ...*relation.Contact) *AcousticStep1stHalf {
	return &AcousticStep1stHalf{newAcousticCore(inner, gravity, contacts)}
}

func (a *AcousticStep1stHalf) Exec(dt float64) {
	a.updatePressure()
	a.computeAccel()
	sph.ParallelFor(a.policy, len(a.vel), func(start, end int) {
		for i := start; i < end; i++ {
			a.vel[i] = a.vel[i].Add(a.acc[i].Scale(0.5 * dt))
			a.pos[i] = a.pos[i].Add(a.vel[i].Scale(0.5 * dt))
		}
	})
}

// AcousticStep2ndHalf integrates the continuity equation over the full
// acoustic step with the mid-step velocities, then kicks the velocity by
// the second half step from the updated pressure field.
type AcousticStep2ndHalf struct {
	acousticCore
}

func NewAcousticStep2ndHalf(inner *relation.Inner, gravity sph.Vecd, contacts ...*relation.Contact) *AcousticStep2ndHalf {
	return &AcousticStep2ndHalf{newAcousticCore(inner, gravity, contacts)}
}

func (a *AcousticStep2ndHalf) Exec(dt float64) {
	walls := a.wallFields()
	sph.ParallelFor(a.policy, len(a.rho), func(start, end int) {
		for i := start; i < end; i++ {
			vi := a.vel[i]
			var div float64
			for _, nb := range a.inner.Lists[i] {
				div += a.vol[nb.J] * vi.Sub(a.vel[nb.J]).Dot(nb.E) * nb.DW
			}
			for s, ct := range a.contacts {
				for k := range ct.Sources {
					wf := walls[s][k]
					for _, nb := range ct.Lists[k][i] {
						vEff := wf.vel[nb.J].Scale(2).Sub(vi)
						div += wf.vol[nb.J] * vi.Sub(vEff).Dot(nb.E) * nb.DW
					}
				}
			}
			a.drho[i] = a.rho[i] * div
		}
	})
	sph.ParallelFor(a.policy, len(a.rho), func(start, end int) {
		for i := start; i < end; i++ {
			a.rho[i] += a.drho[i] * dt
		}
	})
	a.updatePressure()
	a.computeAccel()
	sph.ParallelFor(a.policy, len(a.vel), func(start, end int) {
		for i := start; i < end; i++ {
			a.vel[i] = a.vel[i].Add(a.acc[i].Scale(0.5 * dt))
		}
	})
}
