// Package recording persists run output: a per-run directory with
// metadata.json, CSV series for observed and reduced quantities,
// per-body particle snapshots and restart files. Observation writes are
// non-fatal (reported and skipped); state writes are fatal.
package recording

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/sphlab/internal/sph"
)

type RunStore struct {
	baseDir string
}

func NewRunStore(baseDir string) *RunStore {
	return &RunStore{baseDir: baseDir}
}

func (s *RunStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *RunStore) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string    `json:"id"`
	Case      string    `json:"case"`
	Timestamp time.Time `json:"timestamp"`
	Dx        float64   `json:"dx"`
	EndTime   float64   `json:"end_time"`
	Parallel  bool      `json:"parallel"`
	Steps     int       `json:"steps"`
}

// Run is one run directory under the store.
type Run struct {
	dir  string
	meta RunMetadata
}

func (s *RunStore) CreateRun(caseName string, dx, endTime float64, parallel bool) (*Run, error) {
	runID := fmt.Sprintf("%s_%d", caseName, time.Now().Unix())
	dir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	return &Run{
		dir: dir,
		meta: RunMetadata{
			ID:        runID,
			Case:      caseName,
			Timestamp: time.Now(),
			Dx:        dx,
			EndTime:   endTime,
			Parallel:  parallel,
		},
	}, nil
}

func (r *Run) Dir() string { return r.dir }

func (r *Run) ID() string { return r.meta.ID }

// Finalize records the step count and writes metadata.json.
func (r *Run) Finalize(steps int) error {
	r.meta.Steps = steps
	f, err := os.Create(filepath.Join(r.dir, "metadata.json"))
	if err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

func (s *RunStore) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}
	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// LatestRun returns the most recent run directory for a case, or an
// error if none exists.
func (s *RunStore) LatestRun(caseName string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	best := -1
	for i, r := range runs {
		if r.Case != caseName {
			continue
		}
		if best < 0 || r.Timestamp.After(runs[best].Timestamp) {
			best = i
		}
	}
	if best < 0 {
		return "", fmt.Errorf("no recorded run for case %q under %s", caseName, s.baseDir)
	}
	return filepath.Join(s.baseDir, runs[best].ID), nil
}

// writeCSV writes a header plus rows of floats.
func writeCSV(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(header); err != nil {
		return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	rec := make([]string, 0, len(header))
	for _, row := range rows {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', 9, 64))
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
		}
	}
	return nil
}

// readCSV loads every numeric row of a file written by writeCSV,
// skipping the header.
func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	rows := make([][]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		row := make([]float64, 0, len(records[i]))
		for _, s := range records[i] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				break
			}
			row = append(row, v)
		}
		if len(row) == len(records[i]) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ReadSeries loads a CSV series written by writeCSV: first column times,
// remaining columns values.
func ReadSeries(path string) (times []float64, values [][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sph.ErrIOFailure, err)
	}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(rec)-1)
		for _, s := range rec[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				break
			}
			row = append(row, v)
		}
		if len(row) != len(rec)-1 {
			continue
		}
		times = append(times, t)
		values = append(values, row)
	}
	return times, values, nil
}
