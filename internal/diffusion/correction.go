package diffusion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/sph"
)

// LinearCorrectionMatrix computes per particle
//
//	B_i = ( Σ_j V_j (r_ji ⊗ ∇W_ij) )^-1
//
// and stores it in the CorrectionMatrix field. A particle whose moment
// matrix is not invertible falls back to the identity; the fallback is
// reported once per particle per pass and the run continues.
type LinearCorrectionMatrix struct {
	inner  *relation.Inner
	policy sph.Policy
	dim    int

	vol      []float64
	b        []sph.Matd
	singular []bool
}

func NewLinearCorrectionMatrix(inner *relation.Inner) *LinearCorrectionMatrix {
	b := inner.Body
	return &LinearCorrectionMatrix{
		inner:    inner,
		policy:   b.System.Policy,
		dim:      b.System.Dim,
		vol:      b.Particles.Scalar(particles.Volume),
		b:        b.Particles.Matrix(particles.CorrectionMatrix),
		singular: make([]bool, b.Particles.N()),
	}
}

func (l *LinearCorrectionMatrix) Exec() {
	dim := l.dim
	sph.ParallelFor(l.policy, len(l.b), func(start, end int) {
		moment := make([]float64, dim*dim)
		inv := mat.NewDense(dim, dim, nil)
		for i := start; i < end; i++ {
			for k := range moment {
				moment[k] = 0
			}
			for _, nb := range l.inner.Lists[i] {
				// r_ji ⊗ ∇W = -dist*E ⊗ DW*E
				w := -l.vol[nb.J] * nb.Dist * nb.DW
				e := [3]float64{nb.E.X, nb.E.Y, nb.E.Z}
				for r := 0; r < dim; r++ {
					for c := 0; c < dim; c++ {
						moment[r*dim+c] += w * e[r] * e[c]
					}
				}
			}
			l.singular[i] = false
			if err := inv.Inverse(mat.NewDense(dim, dim, moment)); err != nil {
				l.singular[i] = true
				l.b[i] = sph.Identity(dim)
				continue
			}
			var bm sph.Matd
			for r := 0; r < dim; r++ {
				for c := 0; c < dim; c++ {
					bm[r][c] = inv.At(r, c)
				}
			}
			l.b[i] = bm
		}
	})
	for i, s := range l.singular {
		if s {
			fmt.Printf("%v at particle %d, using identity\n", sph.ErrSingularCorrection, i)
		}
	}
}
