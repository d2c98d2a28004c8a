// Package cases holds the runnable benchmark drivers: a 2D diffusion
// regression, a 2D still floating body with two-way coupling and a 3D
// dam break. Each driver assembles bodies, relations and dynamics,
// runs the dual-time loop and checks its recorded series against the
// regression database.
package cases

import (
	"fmt"
	"sort"

	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/sph"
)

// Progress is the per-advection-step report consumed by the live view
// and the plain stdout screening log.
type Progress struct {
	Case       string
	Step       int
	Time       float64
	EndTime    float64
	AdvectionD float64
	AcousticD  float64
	Probe      float64
}

// RunFunc runs a case to completion. The progress callback may be nil.
type RunFunc func(cfg *config.Config, progress func(Progress)) error

type Registry struct {
	cases map[string]RunFunc
}

func NewRegistry() *Registry {
	r := &Registry{cases: make(map[string]RunFunc)}
	r.cases["diffusion2d"] = RunDiffusion2D
	r.cases["floating2d"] = RunFloating2D
	r.cases["dambreak3d"] = RunDamBreak3D
	return r
}

func (r *Registry) Get(name string) (RunFunc, error) {
	fn, ok := r.cases[name]
	if !ok {
		return nil, fmt.Errorf("unknown case: %s", name)
	}
	return fn, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.cases))
	for name := range r.cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// boxBetween builds an axis-aligned box shape from corner to corner.
func boxBetween(lower, upper sph.Vecd) *shape.Box {
	return shape.NewBox(
		lower.Add(upper).Scale(0.5),
		upper.Sub(lower).Scale(0.5),
	)
}

func policyOf(parallel bool) sph.Policy {
	if parallel {
		return sph.Parallel
	}
	return sph.Serial
}
