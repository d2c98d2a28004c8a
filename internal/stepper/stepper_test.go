package stepper

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/sphlab/internal/sph"
)

func TestDoneAndAdvanceClamp(t *testing.T) {
	var tm sph.Time
	ts := New(&tm, 1.0)
	if ts.Done() {
		t.Fatal("fresh stepper reports done")
	}
	if got := ts.Advance(0.6); got != 0.6 {
		t.Errorf("Advance(0.6) = %v", got)
	}
	// the final step clamps onto the end time
	if got := ts.Advance(0.6); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("clamped advance = %v, want 0.4", got)
	}
	if !ts.Done() || tm.Value() != 1.0 {
		t.Errorf("done=%v time=%v after reaching the end", ts.Done(), tm.Value())
	}
	if tm.Step() != 2 {
		t.Errorf("step count = %d, want 2", tm.Step())
	}
}

func TestCheckFloor(t *testing.T) {
	var tm sph.Time
	ts := New(&tm, 10.0)
	if err := ts.CheckFloor(1e-3); err != nil {
		t.Errorf("healthy dt rejected: %v", err)
	}
	err := ts.CheckFloor(1e-13)
	if !errors.Is(err, sph.ErrTimeStepCollapse) {
		t.Errorf("collapsed dt = %v, want ErrTimeStepCollapse", err)
	}
	var stepErr *sph.StepError
	if !errors.As(err, &stepErr) {
		t.Error("floor failure does not carry step context")
	}
}

func TestTriggerByInterval(t *testing.T) {
	tr := TriggerByInterval{Threshold: 1.0}
	if tr.Accumulate(0.4) || tr.Accumulate(0.4) {
		t.Fatal("fired before the threshold")
	}
	if !tr.Accumulate(0.4) {
		t.Fatal("did not fire at 1.2 accumulated")
	}
	// the remainder carries over
	if math.Abs(tr.Elapsed()-0.2) > 1e-12 {
		t.Errorf("remainder = %v, want 0.2", tr.Elapsed())
	}
	if tr.Accumulate(0.7) {
		t.Error("fired at 0.9 accumulated")
	}
	if !tr.Accumulate(0.2) {
		t.Error("did not fire at 1.1 accumulated")
	}
}

func TestTriggerByPhysicalTimeIsOneWay(t *testing.T) {
	tr := TriggerByPhysicalTime{At: 1.0}
	if tr.Armed(0.5) {
		t.Fatal("armed early")
	}
	if !tr.Armed(1.0) {
		t.Fatal("did not arm at the trigger time")
	}
	// stays armed even if asked about an earlier time
	if !tr.Armed(0.1) {
		t.Error("disarmed after arming")
	}
}

func TestTriggerEveryN(t *testing.T) {
	tr := TriggerEveryN{N: 3}
	fired := 0
	for i := 0; i < 9; i++ {
		if tr.Fire() {
			fired++
			if (i+1)%3 != 0 {
				t.Errorf("fired on call %d", i+1)
			}
		}
	}
	if fired != 3 {
		t.Errorf("fired %d times in 9 calls, want 3", fired)
	}
}
