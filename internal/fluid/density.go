package fluid

import (
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

// freeSurfaceRatio is the summed-density fraction of rho0 below which a
// particle is treated as near the free surface. Tuning it affects splash
// behavior.
const freeSurfaceRatio = 0.95

// DensityRegularization reinitializes the fluid density by kernel
// summation over inner and wall contact neighbors. Particles whose summed
// density falls below the free-surface threshold blend toward their
// current (continuity-integrated) value instead of being clamped down.
type DensityRegularization struct {
	inner    *relation.Inner
	contacts []*relation.Contact
	policy   sph.Policy
	rho0     float64
	w0       float64

	mass, rho, vol []float64
}

func NewDensityRegularization(inner *relation.Inner, contacts ...*relation.Contact) *DensityRegularization {
	b := inner.Body
	return &DensityRegularization{
		inner:    inner,
		contacts: contacts,
		policy:   b.System.Policy,
		rho0:     b.Material.Rho0,
		w0:       b.Kernel.W0(),
		mass:     b.Particles.Scalar(particles.Mass),
		rho:      b.Particles.Scalar(particles.Density),
		vol:      b.Particles.Scalar(particles.Volume),
	}
}

func (d *DensityRegularization) Exec() {
	srcVols := make([][][]float64, len(d.contacts))
	for s, c := range d.contacts {
		srcVols[s] = make([][]float64, len(c.Sources))
		for k, src := range c.Sources {
			srcVols[s][k] = src.Particles.Scalar(particles.Volume)
		}
	}

	sph.ParallelFor(d.policy, len(d.rho), func(start, end int) {
		for i := start; i < end; i++ {
			sum := d.mass[i] * d.w0
			for _, nb := range d.inner.Lists[i] {
				sum += d.mass[nb.J] * nb.W
			}
			for s, c := range d.contacts {
				for k := range c.Sources {
					srcVol := srcVols[s][k]
					for _, nb := range c.Lists[k][i] {
						sum += d.rho0 * srcVol[nb.J] * nb.W
					}
				}
			}

			if sum < freeSurfaceRatio*d.rho0 && d.rho[i] > 0 {
				// free-surface correction: keep the continuity-integrated
				// density where the kernel support is truncated
				d.rho[i] = sum + max(0, d.rho[i]-sum)*d.rho0/d.rho[i]
			} else {
				d.rho[i] = sum
			}
			d.vol[i] = d.mass[i] / d.rho[i]
		}
	})
}
