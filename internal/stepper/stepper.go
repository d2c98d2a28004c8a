// Package stepper drives the dual-time main loop: per-iteration time-step
// floors, the end-time condition and the triggers that schedule outer-loop
// work (advection intervals, one-shot physical-time events, periodic
// maintenance such as particle resorting).
package stepper

import (
	"fmt"

	"github.com/san-kum/sphlab/internal/sph"
)

// TimeStepper owns the physical time of a run and enforces the time-step
// floor. Drivers call Advance once per innermost step with the acoustic
// dt.
type TimeStepper struct {
	Time    *sph.Time
	EndTime float64
	minDt   float64
}

func New(t *sph.Time, endTime float64) *TimeStepper {
	return &TimeStepper{Time: t, EndTime: endTime, minDt: 1e-12 * endTime}
}

// Done reports whether physical time reached the end time.
func (s *TimeStepper) Done() bool { return s.Time.Value() >= s.EndTime }

// CheckFloor fails with ErrTimeStepCollapse when a stability criterion
// produced a time step below the floor. Callers check the raw criterion,
// not a value clamped to an interval remainder, which may be legitimately
// tiny.
func (s *TimeStepper) CheckFloor(dt float64) error {
	if dt >= s.minDt {
		return nil
	}
	return &sph.StepError{
		Step:    s.Time.Step(),
		Time:    s.Time.Value(),
		Wrapped: fmt.Errorf("%w: dt=%g below floor %g", sph.ErrTimeStepCollapse, dt, s.minDt),
	}
}

// Advance moves time forward by dt, clamped so the run lands exactly on
// the end time, and returns the amount actually advanced.
func (s *TimeStepper) Advance(dt float64) float64 {
	if remaining := s.EndTime - s.Time.Value(); dt > remaining {
		dt = remaining
	}
	s.Time.Advance(dt)
	return dt
}

// TriggerByInterval fires when an accumulated duration crosses the
// threshold and resets by the threshold, preserving the remainder.
type TriggerByInterval struct {
	Threshold float64
	acc       float64
}

func (t *TriggerByInterval) Accumulate(dt float64) bool {
	t.acc += dt
	if t.acc < t.Threshold {
		return false
	}
	t.acc -= t.Threshold
	return true
}

// Elapsed returns the accumulated duration since the trigger last fired.
func (t *TriggerByInterval) Elapsed() float64 { return t.acc }

// TriggerByPhysicalTime arms permanently once physical time crosses a
// point.
type TriggerByPhysicalTime struct {
	At    float64
	armed bool
}

func (t *TriggerByPhysicalTime) Armed(now float64) bool {
	if !t.armed && now >= t.At {
		t.armed = true
	}
	return t.armed
}

// TriggerEveryN fires on every n-th call.
type TriggerEveryN struct {
	N     int
	count int
}

func (t *TriggerEveryN) Fire() bool {
	t.count++
	if t.count < t.N {
		return false
	}
	t.count = 0
	return true
}
