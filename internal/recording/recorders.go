package recording

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/sph"
)

// ReducedQuantity records a (t, value) series from a reduction over a
// body. Record buffers in memory; Save writes one CSV under the run dir.
type ReducedQuantity struct {
	Name   string
	time   *sph.Time
	reduce func() float64

	times  []float64
	values []float64
}

func NewReducedQuantity(name string, t *sph.Time, reduce func() float64) *ReducedQuantity {
	return &ReducedQuantity{Name: name, time: t, reduce: reduce}
}

func (r *ReducedQuantity) Record() {
	r.times = append(r.times, r.time.Value())
	r.values = append(r.values, r.reduce())
}

func (r *ReducedQuantity) Times() []float64  { return r.times }
func (r *ReducedQuantity) Values() []float64 { return r.values }

// Save writes the series CSV. Observation output, so callers treat a
// failure as non-fatal.
func (r *ReducedQuantity) Save(run *Run) error {
	rows := make([][]float64, len(r.times))
	for i := range r.times {
		rows[i] = []float64{r.times[i], r.values[i]}
	}
	return writeCSV(filepath.Join(run.Dir(), r.Name+".csv"), []string{"time", r.Name}, rows)
}

// ObservedQuantity interpolates a scalar field of the contact sources at
// each observer point:
//
//	f_i = Σ_j W_ij V_j f_j / Σ_j W_ij V_j
//
// A point with no neighbors keeps zero for that sample.
type ObservedQuantity struct {
	Name    string
	Field   string
	contact *relation.Contact
	time    *sph.Time

	times  []float64
	values [][]float64
}

func NewObservedQuantity(name, field string, observer *body.Body, sources ...*body.Body) *ObservedQuantity {
	return &ObservedQuantity{
		Name:    name,
		Field:   field,
		contact: relation.NewContact(observer, sources...),
		time:    observer.System.Time,
	}
}

// Update rebuilds the observer contact lists; call after source cell
// lists are current.
func (o *ObservedQuantity) Update() {
	o.contact.Update()
}

func (o *ObservedQuantity) Record() {
	n := o.contact.Target.Particles.N()
	sample := make([]float64, n)
	for k, src := range o.contact.Sources {
		f := src.Particles.Scalar(o.Field)
		vol := src.Particles.Scalar(particles.Volume)
		for i := 0; i < n; i++ {
			var num, den float64
			for _, nb := range o.contact.Lists[k][i] {
				w := nb.W * vol[nb.J]
				num += w * f[nb.J]
				den += w
			}
			if den > 0 {
				sample[i] += num / den
			}
		}
	}
	o.times = append(o.times, o.time.Value())
	o.values = append(o.values, sample)
}

func (o *ObservedQuantity) Times() []float64    { return o.times }
func (o *ObservedQuantity) Values() [][]float64 { return o.values }

func (o *ObservedQuantity) Save(run *Run) error {
	header := []string{"time"}
	for i := 0; i < o.contact.Target.Particles.N(); i++ {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	rows := make([][]float64, len(o.times))
	for i := range o.times {
		rows[i] = append([]float64{o.times[i]}, o.values[i]...)
	}
	return writeCSV(filepath.Join(run.Dir(), o.Name+".csv"), header, rows)
}

// UpperFrontInAxisDirection reduces a body to the largest current
// particle coordinate along an axis, restricted to particles inside the
// gauge shape when one is given. Evaluated over a thin vertical band it
// is a free-surface wave gauge.
func UpperFrontInAxisDirection(b *body.Body, gauge shape.Shape, axis int) func() float64 {
	pos := b.Particles.Vector(particles.Position)
	return func() float64 {
		front := math.Inf(-1)
		for i := range pos {
			if gauge != nil && !gauge.Contains(pos[i]) {
				continue
			}
			front = math.Max(front, sph.Component(pos[i], axis))
		}
		return front
	}
}

// RegionAverage reduces a scalar field to its mean over a region.
func RegionAverage(b *body.Body, region *body.Region, field string) func() float64 {
	return func() float64 {
		f := b.Particles.Scalar(field)
		idx := region.Indices
		if len(idx) == 0 {
			return 0
		}
		var sum float64
		for _, i := range idx {
			sum += f[i]
		}
		return sum / float64(len(idx))
	}
}
