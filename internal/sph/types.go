package sph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vecd is the particle-space vector, a defined type over gonum's r3.Vec
// with method forms of the r3 arithmetic. Two-dimensional cases keep Z = 0
// and the system dimension controls kernel normalization, cell binning and
// lattice fill.
type Vecd r3.Vec

func (v Vecd) Add(u Vecd) Vecd      { return Vecd(r3.Add(r3.Vec(v), r3.Vec(u))) }
func (v Vecd) Sub(u Vecd) Vecd      { return Vecd(r3.Sub(r3.Vec(v), r3.Vec(u))) }
func (v Vecd) Scale(f float64) Vecd { return Vecd(r3.Scale(f, r3.Vec(v))) }
func (v Vecd) Dot(u Vecd) float64   { return r3.Dot(r3.Vec(v), r3.Vec(u)) }
func (v Vecd) Cross(u Vecd) Vecd    { return Vecd(r3.Cross(r3.Vec(v), r3.Vec(u))) }

// Matd is a small dense matrix sized for Vecd. In 2D runs only the upper
// left 2x2 block is populated.
type Matd [3][3]float64

// Identity returns the d-dimensional identity embedded in a Matd.
func Identity(dim int) Matd {
	var m Matd
	for i := 0; i < dim; i++ {
		m[i][i] = 1
	}
	return m
}

// Rotation2D returns the planar rotation by theta about the Z axis.
func Rotation2D(theta float64) Matd {
	c, s := math.Cos(theta), math.Sin(theta)
	return Matd{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

func (m Matd) MulVec(v Vecd) Vecd {
	return Vecd{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Matd) Add(o Matd) Matd {
	var r Matd
	for i := range m {
		for j := range m[i] {
			r[i][j] = m[i][j] + o[i][j]
		}
	}
	return r
}

func (m Matd) Scale(f float64) Matd {
	var r Matd
	for i := range m {
		for j := range m[i] {
			r[i][j] = f * m[i][j]
		}
	}
	return r
}

// Component returns the i-th coordinate of v.
func Component(v Vecd, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Lower, Upper Vecd
}

func (b Bounds) Contains(p Vecd) bool {
	return p.X >= b.Lower.X && p.X <= b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Upper.Y &&
		p.Z >= b.Lower.Z && p.Z <= b.Upper.Z
}

// Extend grows the bounds by pad on every side.
func (b Bounds) Extend(pad float64) Bounds {
	d := Vecd{X: pad, Y: pad, Z: pad}
	return Bounds{Lower: b.Lower.Sub(d), Upper: b.Upper.Add(d)}
}

// Time is the global physical time of a system. It is an explicit value
// advanced only by the time stepper, never a process-wide singleton.
type Time struct {
	value float64
	step  int
}

func (t *Time) Value() float64 { return t.value }
func (t *Time) Step() int      { return t.step }

// Advance moves physical time forward by dt and counts the step.
func (t *Time) Advance(dt float64) {
	t.value += dt
	t.step++
}

// Reset rewinds the clock, used when resuming from a restart file.
func (t *Time) Reset(value float64, step int) {
	t.value = value
	t.step = step
}
