package recording

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// Restart persistence: one directory per step holding a CSV per body with
// the dynamic fields needed to resume (position, velocity, density and
// any case-specific scalars). Restart files live beside the run dirs so a
// later run can pick them up.

func restartDir(baseDir, caseName string, step int) string {
	return filepath.Join(baseDir, "restart", caseName, fmt.Sprintf("%06d", step))
}

// SaveRestart writes the resume state of every body at the given step.
// State output, failures are fatal.
func SaveRestart(baseDir, caseName string, step int, bodies []*body.Body, extraScalars ...string) error {
	dir := restartDir(baseDir, caseName, step)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	for _, b := range bodies {
		pos := b.Particles.Vector(particles.Position)
		vel := b.Particles.Vector(particles.Velocity)
		rho := b.Particles.Scalar(particles.Density)

		header := []string{"x", "y", "z", "vx", "vy", "vz", "density"}
		extras := make([][]float64, 0, len(extraScalars))
		for _, name := range extraScalars {
			if b.Particles.HasScalar(name) {
				header = append(header, name)
				extras = append(extras, b.Particles.Scalar(name))
			}
		}

		rows := make([][]float64, len(pos))
		for i := range pos {
			row := []float64{pos[i].X, pos[i].Y, pos[i].Z, vel[i].X, vel[i].Y, vel[i].Z, rho[i]}
			for _, f := range extras {
				row = append(row, f[i])
			}
			rows[i] = row
		}
		if err := writeCSV(filepath.Join(dir, b.Name+".csv"), header, rows); err != nil {
			return err
		}
	}
	return nil
}

// LoadRestart reads the resume state back into the bodies. The particle
// counts must match the lattice fill of the current configuration.
func LoadRestart(baseDir, caseName string, step int, bodies []*body.Body, extraScalars ...string) error {
	dir := restartDir(baseDir, caseName, step)
	for _, b := range bodies {
		rows, err := readCSV(filepath.Join(dir, b.Name+".csv"))
		if err != nil {
			return err
		}
		pos := b.Particles.Vector(particles.Position)
		vel := b.Particles.Vector(particles.Velocity)
		rho := b.Particles.Scalar(particles.Density)
		if len(rows) != len(pos) {
			return fmt.Errorf("%w: restart state for %s has %d particles, body has %d",
				sph.ErrIOFailure, b.Name, len(rows), len(pos))
		}
		extras := make([][]float64, 0, len(extraScalars))
		for _, name := range extraScalars {
			if b.Particles.HasScalar(name) {
				extras = append(extras, b.Particles.Scalar(name))
			}
		}
		for i, row := range rows {
			if len(row) < 7+len(extras) {
				return fmt.Errorf("%w: restart row %d for %s is short", sph.ErrIOFailure, i, b.Name)
			}
			pos[i] = sph.Vecd{X: row[0], Y: row[1], Z: row[2]}
			vel[i] = sph.Vecd{X: row[3], Y: row[4], Z: row[5]}
			rho[i] = row[6]
			for k, f := range extras {
				f[i] = row[7+k]
			}
		}
	}
	return nil
}
