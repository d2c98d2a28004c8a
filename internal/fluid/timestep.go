package fluid

import (
	"math"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// AcousticTimeStep is the inner (acoustic) CFL criterion
// dt = 0.6 h / (c0 + |v|max).
type AcousticTimeStep struct {
	policy sph.Policy
	h, c0  float64
	vel    []sph.Vecd
}

func NewAcousticTimeStep(b *body.Body) *AcousticTimeStep {
	return &AcousticTimeStep{
		policy: b.System.Policy,
		h:      b.Kernel.SmoothingLength(),
		c0:     b.Material.SoundSpeed,
		vel:    b.Particles.Vector(particles.Velocity),
	}
}

func (a *AcousticTimeStep) Exec() float64 {
	vmax2 := sph.ReduceMax(a.policy, len(a.vel), 0, func(i int) float64 {
		return a.vel[i].Dot(a.vel[i])
	})
	return 0.6 * a.h / (a.c0 + math.Sqrt(vmax2))
}

// AdvectionTimeStep is the outer (advection) criterion
// dt = 0.25 h / max(|v|max, U), with U a case-level reference speed such
// as the dam-break impact velocity.
type AdvectionTimeStep struct {
	policy sph.Policy
	h, ref float64
	vel    []sph.Vecd
}

func NewAdvectionTimeStep(b *body.Body, refSpeed float64) *AdvectionTimeStep {
	return &AdvectionTimeStep{
		policy: b.System.Policy,
		h:      b.Kernel.SmoothingLength(),
		ref:    refSpeed,
		vel:    b.Particles.Vector(particles.Velocity),
	}
}

func (a *AdvectionTimeStep) Exec() float64 {
	vmax2 := sph.ReduceMax(a.policy, len(a.vel), 0, func(i int) float64 {
		return a.vel[i].Dot(a.vel[i])
	})
	speed := math.Max(math.Sqrt(vmax2), a.ref)
	return 0.25 * a.h / speed
}
