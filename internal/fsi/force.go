package fsi

import (
	"github.com/san-kum/sphlab/internal/fluid"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

type fluidFields struct {
	rho0, c0, mu float64
	vol, rho, p  []float64
	vel          []sph.Vecd
}

func gatherFluids(c *relation.Contact) []fluidFields {
	out := make([]fluidFields, len(c.Sources))
	for k, src := range c.Sources {
		out[k] = fluidFields{
			rho0: src.Material.Rho0,
			c0:   src.Material.SoundSpeed,
			mu:   src.Material.Viscosity,
			vol:  src.Particles.Scalar(particles.Volume),
			rho:  src.Particles.Scalar(particles.Density),
			p:    src.Particles.Scalar(particles.Pressure),
			vel:  src.Particles.Vector(particles.Velocity),
		}
	}
	return out
}

// PressureForceOnStructure overwrites the structure's ForceFromFluid field
// with the pressure traction from its fluid neighbors. The pair pressure
// is the same Riemann intermediate state the fluid uses against walls, so
// action and reaction match.
type PressureForceOnStructure struct {
	contact *relation.Contact
	policy  sph.Policy
	gravity sph.Vecd

	vol   []float64
	vel   []sph.Vecd
	force []sph.Vecd
}

func NewPressureForceOnStructure(contact *relation.Contact, gravity sph.Vecd) *PressureForceOnStructure {
	b := contact.Target
	return &PressureForceOnStructure{
		contact: contact,
		policy:  b.System.Policy,
		gravity: gravity,
		vol:     b.Particles.Scalar(particles.Volume),
		vel:     b.Particles.Vector(particles.Velocity),
		force:   b.Particles.RegisterVector(particles.ForceFromFluid),
	}
}

func (p *PressureForceOnStructure) Exec() {
	fluids := gatherFluids(p.contact)
	sph.ParallelFor(p.policy, len(p.force), func(start, end int) {
		for i := start; i < end; i++ {
			var f sph.Vecd
			vi := p.vel[i]
			for k := range fluids {
				fl := &fluids[k]
				for _, nb := range p.contact.Lists[k][i] {
					// E points fluid -> structure; the fluid sees -E
					pj, rhoj := fl.p[nb.J], fl.rho[nb.J]
					pWall := pj + rhoj*p.gravity.Dot(nb.E)*nb.Dist
					uJump := 2 * fl.vel[nb.J].Sub(vi).Dot(nb.E)
					pStar := fluid.RiemannPStar(pj, pWall, rhoj, rhoj, uJump, fl.c0)
					f = f.Add(nb.E.Scale(-2 * pStar * p.vol[i] * fl.vol[nb.J] * nb.DW))
				}
			}
			p.force[i] = f
		}
	})
}

// ViscousForceOnStructure adds the viscous traction onto ForceFromFluid.
type ViscousForceOnStructure struct {
	contact *relation.Contact
	policy  sph.Policy
	epsH2   float64

	vol   []float64
	vel   []sph.Vecd
	force []sph.Vecd
}

func NewViscousForceOnStructure(contact *relation.Contact) *ViscousForceOnStructure {
	b := contact.Target
	h := b.Kernel.SmoothingLength()
	return &ViscousForceOnStructure{
		contact: contact,
		policy:  b.System.Policy,
		epsH2:   0.01 * h * h,
		vol:     b.Particles.Scalar(particles.Volume),
		vel:     b.Particles.Vector(particles.Velocity),
		force:   b.Particles.RegisterVector(particles.ForceFromFluid),
	}
}

func (v *ViscousForceOnStructure) Exec() {
	fluids := gatherFluids(v.contact)
	sph.ParallelFor(v.policy, len(v.force), func(start, end int) {
		for i := start; i < end; i++ {
			var f sph.Vecd
			vi := v.vel[i]
			for k := range fluids {
				fl := &fluids[k]
				for _, nb := range v.contact.Lists[k][i] {
					coeff := 2 * fl.mu * v.vol[i] * fl.vol[nb.J] * nb.Dist * nb.DW / (nb.Dist*nb.Dist + v.epsH2)
					jump := vi.Sub(fl.vel[nb.J]).Scale(2)
					f = f.Add(jump.Scale(coeff))
				}
			}
			v.force[i] = v.force[i].Add(f)
		}
	})
}
