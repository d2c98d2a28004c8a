package recording

import (
	"fmt"
	"path/filepath"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
)

// BodyStates writes per-body particle snapshots into the run directory.
// Snapshots are state output: a write failure is fatal to the run.
type BodyStates struct {
	run    *Run
	bodies []*body.Body
}

func NewBodyStates(run *Run, bodies ...*body.Body) *BodyStates {
	return &BodyStates{run: run, bodies: bodies}
}

// Write dumps position, velocity, density and pressure (where present)
// of every body at the given step.
func (s *BodyStates) Write(step int) error {
	for _, b := range s.bodies {
		pos := b.Particles.Vector(particles.Position)
		vel := b.Particles.Vector(particles.Velocity)
		rho := b.Particles.Scalar(particles.Density)

		header := []string{"x", "y", "z", "vx", "vy", "vz", "density"}
		var press []float64
		if b.Particles.HasScalar(particles.Pressure) {
			press = b.Particles.Scalar(particles.Pressure)
			header = append(header, "pressure")
		}

		rows := make([][]float64, len(pos))
		for i := range pos {
			row := []float64{pos[i].X, pos[i].Y, pos[i].Z, vel[i].X, vel[i].Y, vel[i].Z, rho[i]}
			if press != nil {
				row = append(row, press[i])
			}
			rows[i] = row
		}
		name := fmt.Sprintf("%s_%06d.csv", b.Name, step)
		if err := writeCSV(filepath.Join(s.run.Dir(), name), header, rows); err != nil {
			return err
		}
	}
	return nil
}
