package fluid

import (
	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// AdvectionStepSetup refreshes particle volumes and clears ForcePrior at
// the top of an advection interval; gravity and viscosity add onto it.
type AdvectionStepSetup struct {
	policy sph.Policy

	mass, rho, vol []float64
	force          []sph.Vecd
}

func NewAdvectionStepSetup(b *body.Body) *AdvectionStepSetup {
	return &AdvectionStepSetup{
		policy: b.System.Policy,
		mass:   b.Particles.Scalar(particles.Mass),
		rho:    b.Particles.Scalar(particles.Density),
		vol:    b.Particles.Scalar(particles.Volume),
		force:  b.Particles.Vector(particles.ForcePrior),
	}
}

func (a *AdvectionStepSetup) Exec() {
	sph.ParallelFor(a.policy, len(a.rho), func(start, end int) {
		for i := start; i < end; i++ {
			a.vol[i] = a.mass[i] / a.rho[i]
			a.force[i] = sph.Vecd{}
		}
	})
}

// GravityForce adds the constant body force m*g to ForcePrior.
type GravityForce struct {
	policy  sph.Policy
	gravity sph.Vecd
	mass    []float64
	force   []sph.Vecd
}

func NewGravityForce(b *body.Body, gravity sph.Vecd) *GravityForce {
	return &GravityForce{
		policy:  b.System.Policy,
		gravity: gravity,
		mass:    b.Particles.Scalar(particles.Mass),
		force:   b.Particles.Vector(particles.ForcePrior),
	}
}

func (g *GravityForce) Exec() {
	sph.ParallelFor(g.policy, len(g.mass), func(start, end int) {
		for i := start; i < end; i++ {
			g.force[i] = g.force[i].Add(g.gravity.Scale(g.mass[i]))
		}
	})
}

// UpdateParticlePosition completes the particle drift over the advection
// interval. The acoustic first half drifts positions by half the acoustic
// step; this operator supplies the matching half over the advection
// interval so the net motion per interval is dt * v.
type UpdateParticlePosition struct {
	policy sph.Policy
	pos    []sph.Vecd
	vel    []sph.Vecd
}

func NewUpdateParticlePosition(b *body.Body) *UpdateParticlePosition {
	return &UpdateParticlePosition{
		policy: b.System.Policy,
		pos:    b.Particles.Vector(particles.Position),
		vel:    b.Particles.Vector(particles.Velocity),
	}
}

func (u *UpdateParticlePosition) Exec(dt float64) {
	sph.ParallelFor(u.policy, len(u.pos), func(start, end int) {
		for i := start; i < end; i++ {
			u.pos[i] = u.pos[i].Add(u.vel[i].Scale(0.5 * dt))
		}
	})
}
