// Package regression checks recorded time series against a baseline
// database. Two comparators exist: ensemble statistics (per-point mean
// and variance over time, averaged into the database over generating
// runs) and dynamic time warping (shape distance of the trajectory).
// Each comparator runs in one of two modes: generate updates the
// database, test compares against it.
package regression

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/sphlab/internal/sph"
)

func dbPath(dataDir, caseName, name, kind string) string {
	return filepath.Join(dataDir, "regression", caseName, name+"."+kind+".json")
}

func readDB(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	return json.Unmarshal(data, out)
}

func writeDB(path string, in any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(in)
}

// column extracts series column p from [snapshot][point] values.
func column(values [][]float64, p int) []float64 {
	col := make([]float64, len(values))
	for i := range values {
		col[i] = values[i][p]
	}
	return col
}

// EnsembleAverage compares per-point mean and variance of a series
// against baseline statistics accumulated over generating runs.
type EnsembleAverage struct {
	Name     string
	MuTol    float64
	SigmaTol float64
	path     string
}

type ensembleDB struct {
	Runs     int       `json:"runs"`
	Mean     []float64 `json:"mean"`
	Variance []float64 `json:"variance"`
}

func NewEnsembleAverage(dataDir, caseName, name string, muTol, sigmaTol float64) *EnsembleAverage {
	return &EnsembleAverage{
		Name:     name,
		MuTol:    muTol,
		SigmaTol: sigmaTol,
		path:     dbPath(dataDir, caseName, name, "ensemble"),
	}
}

func moments(values [][]float64) (mean, variance []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	np := len(values[0])
	mean = make([]float64, np)
	variance = make([]float64, np)
	for p := 0; p < np; p++ {
		col := column(values, p)
		mean[p] = stat.Mean(col, nil)
		variance[p] = stat.Variance(col, nil)
	}
	return mean, variance
}

// Generate folds this run's statistics into the database.
func (e *EnsembleAverage) Generate(values [][]float64) error {
	mean, variance := moments(values)
	var db ensembleDB
	if err := readDB(e.path, &db); err != nil || len(db.Mean) != len(mean) {
		db = ensembleDB{}
	}
	if db.Runs == 0 {
		db = ensembleDB{Runs: 1, Mean: mean, Variance: variance}
	} else {
		w := float64(db.Runs)
		for p := range mean {
			db.Mean[p] = (db.Mean[p]*w + mean[p]) / (w + 1)
			db.Variance[p] = (db.Variance[p]*w + variance[p]) / (w + 1)
		}
		db.Runs++
	}
	return writeDB(e.path, &db)
}

// Test compares this run's statistics to the database within the
// tolerances.
func (e *EnsembleAverage) Test(values [][]float64) error {
	var db ensembleDB
	if err := readDB(e.path, &db); err != nil {
		return fmt.Errorf("%s: no baseline database: %w", e.Name, err)
	}
	mean, variance := moments(values)
	if len(mean) != len(db.Mean) {
		return fmt.Errorf("%w: %s: %d observation points, baseline has %d",
			sph.ErrRegressionMismatch, e.Name, len(mean), len(db.Mean))
	}
	for p := range mean {
		if d := mean[p] - db.Mean[p]; d > e.MuTol || d < -e.MuTol {
			return fmt.Errorf("%w: %s point %d: mean off by %g (tol %g)",
				sph.ErrRegressionMismatch, e.Name, p, d, e.MuTol)
		}
		if d := variance[p] - db.Variance[p]; d > e.SigmaTol || d < -e.SigmaTol {
			return fmt.Errorf("%w: %s point %d: variance off by %g (tol %g)",
				sph.ErrRegressionMismatch, e.Name, p, d, e.SigmaTol)
		}
	}
	fmt.Printf("regression %s: ensemble statistics within tolerance\n", e.Name)
	return nil
}

// DynamicTimeWarping compares a trajectory to the stored reference by
// normalized DTW distance, per observation point.
type DynamicTimeWarping struct {
	Name      string
	Threshold float64
	path      string
}

type dtwDB struct {
	Reference [][]float64 `json:"reference"` // [snapshot][point]
}

func NewDynamicTimeWarping(dataDir, caseName, name string, threshold float64) *DynamicTimeWarping {
	return &DynamicTimeWarping{
		Name:      name,
		Threshold: threshold,
		path:      dbPath(dataDir, caseName, name, "dtw"),
	}
}

// Generate stores this run's series as the reference trajectory.
func (d *DynamicTimeWarping) Generate(values [][]float64) error {
	return writeDB(d.path, &dtwDB{Reference: values})
}

func (d *DynamicTimeWarping) Test(values [][]float64) error {
	var db dtwDB
	if err := readDB(d.path, &db); err != nil {
		return fmt.Errorf("%s: no baseline database: %w", d.Name, err)
	}
	if len(values) == 0 || len(db.Reference) == 0 {
		return fmt.Errorf("%w: %s: empty series", sph.ErrRegressionMismatch, d.Name)
	}
	np := len(values[0])
	if np != len(db.Reference[0]) {
		return fmt.Errorf("%w: %s: %d observation points, baseline has %d",
			sph.ErrRegressionMismatch, d.Name, np, len(db.Reference[0]))
	}
	for p := 0; p < np; p++ {
		dist := Distance(column(values, p), column(db.Reference, p))
		if dist > d.Threshold {
			return fmt.Errorf("%w: %s point %d: DTW distance %g exceeds %g",
				sph.ErrRegressionMismatch, d.Name, p, dist, d.Threshold)
		}
	}
	fmt.Printf("regression %s: DTW distance within tolerance\n", d.Name)
	return nil
}
