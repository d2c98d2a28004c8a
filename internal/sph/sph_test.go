package sph

import (
	"math"
	"testing"
)

func TestVecdArithmetic(t *testing.T) {
	a := Vecd{X: 1, Y: 2, Z: 3}
	b := Vecd{X: -4, Y: 0.5, Z: 2}

	if got := a.Add(b); got != (Vecd{X: -3, Y: 2.5, Z: 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vecd{X: 5, Y: 1.5, Z: 1}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vecd{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != -4+1+6 {
		t.Errorf("Dot = %v, want 3", got)
	}
	x := Vecd{X: 1}
	y := Vecd{Y: 1}
	if got := x.Cross(y); got != (Vecd{Z: 1}) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := y.Cross(x); got != (Vecd{Z: -1}) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestIdentity(t *testing.T) {
	m := Identity(2)
	v := Vecd{X: 3, Y: -2, Z: 7}
	got := m.MulVec(v)
	if got.X != 3 || got.Y != -2 || got.Z != 0 {
		t.Errorf("Identity(2).MulVec = %v, want (3, -2, 0)", got)
	}
	if got := Identity(3).MulVec(v); got != v {
		t.Errorf("Identity(3).MulVec = %v, want %v", got, v)
	}
}

func TestRotation2D(t *testing.T) {
	r := Rotation2D(math.Pi / 2)
	got := r.MulVec(Vecd{X: 1})
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 {
		t.Errorf("rotating the X axis by pi/2 gave %v, want (0, 1, 0)", got)
	}
}

func TestMatdArithmetic(t *testing.T) {
	a := Identity(3)
	b := a.Scale(2)
	sum := a.Add(b)
	for i := 0; i < 3; i++ {
		if sum[i][i] != 3 {
			t.Errorf("diagonal entry %d = %v, want 3", i, sum[i][i])
		}
	}
}

func TestComponent(t *testing.T) {
	v := Vecd{X: 1, Y: 2, Z: 3}
	for i, want := range []float64{1, 2, 3} {
		if got := Component(v, i); got != want {
			t.Errorf("Component(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Lower: Vecd{X: -1, Y: -1}, Upper: Vecd{X: 1, Y: 1}}
	tests := []struct {
		p    Vecd
		want bool
	}{
		{Vecd{}, true},
		{Vecd{X: 1, Y: 1}, true},
		{Vecd{X: -1, Y: 1}, true},
		{Vecd{X: 1.001}, false},
		{Vecd{Y: -2}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBoundsExtend(t *testing.T) {
	b := Bounds{Lower: Vecd{}, Upper: Vecd{X: 1, Y: 1, Z: 1}}
	e := b.Extend(0.5)
	if e.Lower.X != -0.5 || e.Upper.Y != 1.5 || e.Upper.Z != 1.5 {
		t.Errorf("Extend(0.5) = %+v", e)
	}
}

func TestTimeAdvanceReset(t *testing.T) {
	var tm Time
	tm.Advance(0.25)
	tm.Advance(0.25)
	if tm.Value() != 0.5 || tm.Step() != 2 {
		t.Errorf("after two advances: value=%v step=%d", tm.Value(), tm.Step())
	}
	tm.Reset(1.5, 7)
	if tm.Value() != 1.5 || tm.Step() != 7 {
		t.Errorf("after reset: value=%v step=%d", tm.Value(), tm.Step())
	}
}

func TestSystemDerivedQuantities(t *testing.T) {
	sys := NewSystem(Bounds{Upper: Vecd{X: 1, Y: 1}}, 0.1, 2)
	if got := sys.SmoothingLength(); math.Abs(got-0.13) > 1e-12 {
		t.Errorf("SmoothingLength = %v, want 0.13", got)
	}
	if got := sys.ParticleVolume(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("2D ParticleVolume = %v, want 0.01", got)
	}
	sys3 := NewSystem(Bounds{Upper: Vecd{X: 1, Y: 1, Z: 1}}, 0.1, 3)
	if got := sys3.ParticleVolume(); math.Abs(got-0.001) > 1e-12 {
		t.Errorf("3D ParticleVolume = %v, want 0.001", got)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	const n = 10000
	visited := make([]int, n)
	ParallelFor(Parallel, n, func(start, end int) {
		for i := start; i < end; i++ {
			visited[i]++
		}
	})
	for i, v := range visited {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

func TestReduceMatchesSerial(t *testing.T) {
	const n = 5000
	val := func(i int) float64 {
		return math.Sin(float64(i)) * float64(i%97)
	}

	minS := ReduceMin(Serial, n, math.Inf(1), val)
	minP := ReduceMin(Parallel, n, math.Inf(1), val)
	if minS != minP {
		t.Errorf("ReduceMin serial %v != parallel %v", minS, minP)
	}

	maxS := ReduceMax(Serial, n, math.Inf(-1), val)
	maxP := ReduceMax(Parallel, n, math.Inf(-1), val)
	if maxS != maxP {
		t.Errorf("ReduceMax serial %v != parallel %v", maxS, maxP)
	}

	sumS := ReduceSum(Serial, n, val)
	sumP := ReduceSum(Parallel, n, val)
	if math.Abs(sumS-sumP) > 1e-8*math.Abs(sumS)+1e-8 {
		t.Errorf("ReduceSum serial %v != parallel %v", sumS, sumP)
	}
}

func TestReduceSmallRunsInline(t *testing.T) {
	got := ReduceSum(Parallel, 10, func(i int) float64 { return float64(i) })
	if got != 45 {
		t.Errorf("ReduceSum over [0,10) = %v, want 45", got)
	}
}
