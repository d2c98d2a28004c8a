package diffusion

import (
	"math"

	"github.com/san-kum/sphlab/internal/sph"
)

// DirectionalDiffusion is the anisotropic diffusivity
// D = Iso*I + Bias*(e⊗e) with e the unit bias direction.
type DirectionalDiffusion struct {
	Iso  float64
	Bias float64
	Dir  sph.Vecd
}

// NewDirectionalDiffusion builds the material with a planar bias angle
// measured from the X axis.
func NewDirectionalDiffusion(iso, bias, angle float64) *DirectionalDiffusion {
	return &DirectionalDiffusion{
		Iso:  iso,
		Bias: bias,
		Dir:  sph.Vecd{X: math.Cos(angle), Y: math.Sin(angle)},
	}
}

// Tensor assembles D for the given dimension.
func (d *DirectionalDiffusion) Tensor(dim int) sph.Matd {
	m := sph.Identity(dim).Scale(d.Iso)
	e := d.Dir
	c := [3]float64{e.X, e.Y, e.Z}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			m[i][j] += d.Bias * c[i] * c[j]
		}
	}
	return m
}

// MaxEigenvalue of D: Iso along directions orthogonal to e, Iso+Bias
// along e.
func (d *DirectionalDiffusion) MaxEigenvalue() float64 {
	return d.Iso + math.Max(0, d.Bias)
}

// TimeStep is the explicit stability bound 0.5 h^2 / lambda_max(D).
func TimeStep(h float64, d *DirectionalDiffusion) float64 {
	return 0.5 * h * h / d.MaxEigenvalue()
}
