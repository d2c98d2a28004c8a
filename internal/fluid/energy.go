package fluid

import (
	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// TotalMechanicalEnergy reduces kinetic plus gravitational potential
// energy over a body, with the potential measured against the domain
// origin. Useful as a sloshing-decay observable.
type TotalMechanicalEnergy struct {
	policy  sph.Policy
	gravity sph.Vecd

	mass []float64
	pos  []sph.Vecd
	vel  []sph.Vecd
}

func NewTotalMechanicalEnergy(b *body.Body, gravity sph.Vecd) *TotalMechanicalEnergy {
	return &TotalMechanicalEnergy{
		policy:  b.System.Policy,
		gravity: gravity,
		mass:    b.Particles.Scalar(particles.Mass),
		pos:     b.Particles.Vector(particles.Position),
		vel:     b.Particles.Vector(particles.Velocity),
	}
}

func (e *TotalMechanicalEnergy) Exec() float64 {
	return sph.ReduceSum(e.policy, len(e.mass), func(i int) float64 {
		kin := 0.5 * e.mass[i] * e.vel[i].Dot(e.vel[i])
		pot := -e.mass[i] * e.gravity.Dot(e.pos[i])
		return kin + pot
	})
}
