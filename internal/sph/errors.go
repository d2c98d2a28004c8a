package sph

import (
	"errors"
	"fmt"
)

// Failure kinds raised by the simulation core.
var (
	// ErrOutOfDomain indicates a particle escaped the cell list bounds. Fatal.
	ErrOutOfDomain = errors.New("sph: particle out of domain")

	// ErrTimeStepCollapse indicates the acoustic time step fell below its floor. Fatal.
	ErrTimeStepCollapse = errors.New("sph: time step collapsed below minimum")

	// ErrSingularCorrection indicates a non-invertible correction matrix.
	// Recovered at the operator by falling back to identity; never propagated.
	ErrSingularCorrection = errors.New("sph: singular correction matrix")

	// ErrIOFailure indicates a failed output write. Non-fatal for
	// observation series, fatal for body-state snapshots.
	ErrIOFailure = errors.New("sph: output write failed")

	// ErrRegressionMismatch indicates a regression test result outside its
	// threshold. Surfaces as exit code 1 without aborting the run.
	ErrRegressionMismatch = errors.New("sph: regression test mismatch")
)

// StepError wraps a failure with the step and physical time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
