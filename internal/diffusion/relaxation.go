package diffusion

import (
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

// Constraint is re-imposed after every relaxation stage; body regions with
// a constant species value satisfy it.
type Constraint interface {
	Exec()
}

// RelaxationRK2 advances a species field by one two-stage Runge-Kutta
// step of the corrected diffusion operator:
//
//	phi(1)  = phi(n) + dt L(phi(n))
//	phi(n+1) = 0.5 phi(n) + 0.5 (phi(1) + dt L(phi(1)))
//
// The pairwise flux divides the species jump by the squared pair distance
// (regularized by 0.01 h^2) and projects r_ij through D and the averaged
// correction matrices of the pair.
type RelaxationRK2 struct {
	inner       *relation.Inner
	policy      sph.Policy
	tensor      sph.Matd
	epsH2       float64
	constraints []Constraint

	vol  []float64
	phi  []float64
	b    []sph.Matd
	phi0 []float64
	rate []float64
}

func NewRelaxationRK2(inner *relation.Inner, material *DirectionalDiffusion, species string, constraints ...Constraint) *RelaxationRK2 {
	b := inner.Body
	h := b.Kernel.SmoothingLength()
	n := b.Particles.N()
	return &RelaxationRK2{
		inner:       inner,
		policy:      b.System.Policy,
		tensor:      material.Tensor(b.System.Dim),
		epsH2:       0.01 * h * h,
		constraints: constraints,
		vol:         b.Particles.Scalar(particles.Volume),
		phi:         b.Particles.Scalar(species),
		b:           b.Particles.Matrix(particles.CorrectionMatrix),
		phi0:        make([]float64, n),
		rate:        make([]float64, n),
	}
}

func (r *RelaxationRK2) computeRate() {
	sph.ParallelFor(r.policy, len(r.phi), func(start, end int) {
		for i := start; i < end; i++ {
			var sum float64
			for _, nb := range r.inner.Lists[i] {
				bAvg := r.b[i].Add(r.b[nb.J]).Scale(0.5)
				gradCorr := bAvg.MulVec(nb.E.Scale(nb.DW))
				proj := nb.E.Scale(nb.Dist).Dot(r.tensor.MulVec(gradCorr))
				q := 2 * (r.phi[i] - r.phi[nb.J]) / (nb.Dist*nb.Dist + r.epsH2) * proj
				sum += r.vol[nb.J] * q
			}
			r.rate[i] = sum
		}
	})
}

func (r *RelaxationRK2) impose() {
	for _, c := range r.constraints {
		c.Exec()
	}
}

func (r *RelaxationRK2) Exec(dt float64) {
	copy(r.phi0, r.phi)

	r.computeRate()
	sph.ParallelFor(r.policy, len(r.phi), func(start, end int) {
		for i := start; i < end; i++ {
			r.phi[i] += dt * r.rate[i]
		}
	})
	r.impose()

	r.computeRate()
	sph.ParallelFor(r.policy, len(r.phi), func(start, end int) {
		for i := start; i < end; i++ {
			r.phi[i] = 0.5*r.phi0[i] + 0.5*(r.phi[i]+dt*r.rate[i])
		}
	})
	r.impose()
}
