// Package kernel provides radially symmetric SPH smoothing functions.
// Both kernels have compact support 2h; the gradient is assembled by the
// relation builder as DW(r) times the pair unit vector.
package kernel

import "math"

// Kernel is a smoothing function W(r) with radial derivative DW(r) = dW/dr.
type Kernel interface {
	W(r float64) float64
	DW(r float64) float64
	// W0 is the self contribution W(0).
	W0() float64
	// Cutoff is the support radius kappa*h beyond which W vanishes.
	Cutoff() float64
	// SmoothingLength returns h.
	SmoothingLength() float64
}

// WendlandC2 is the Wendland C2 kernel with support 2h.
type WendlandC2 struct {
	h     float64
	alpha float64 // dimensional normalization
}

// NewWendlandC2 builds the kernel for smoothing length h in dim dimensions.
func NewWendlandC2(h float64, dim int) *WendlandC2 {
	alpha := 7.0 / (4.0 * math.Pi * h * h)
	if dim == 3 {
		alpha = 21.0 / (16.0 * math.Pi * h * h * h)
	}
	return &WendlandC2{h: h, alpha: alpha}
}

func (k *WendlandC2) W(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	t := 1 - 0.5*q
	t2 := t * t
	return k.alpha * t2 * t2 * (2*q + 1)
}

func (k *WendlandC2) DW(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	t := 1 - 0.5*q
	return k.alpha / k.h * (-5 * q) * t * t * t
}

func (k *WendlandC2) W0() float64              { return k.alpha }
func (k *WendlandC2) Cutoff() float64          { return 2 * k.h }
func (k *WendlandC2) SmoothingLength() float64 { return k.h }

// CubicSpline is the M4 cubic B-spline kernel with support 2h.
type CubicSpline struct {
	h     float64
	sigma float64
}

func NewCubicSpline(h float64, dim int) *CubicSpline {
	sigma := 10.0 / (7.0 * math.Pi * h * h)
	if dim == 3 {
		sigma = 1.0 / (math.Pi * h * h * h)
	}
	return &CubicSpline{h: h, sigma: sigma}
}

func (k *CubicSpline) W(r float64) float64 {
	q := r / k.h
	switch {
	case q < 1:
		return k.sigma * (0.25*cube(2-q) - cube(1-q))
	case q < 2:
		return k.sigma * 0.25 * cube(2-q)
	default:
		return 0
	}
}

func (k *CubicSpline) DW(r float64) float64 {
	q := r / k.h
	switch {
	case q < 1:
		return k.sigma / k.h * (-0.75*sq(2-q) + 3*sq(1-q))
	case q < 2:
		return -k.sigma / k.h * 0.75 * sq(2-q)
	default:
		return 0
	}
}

func (k *CubicSpline) W0() float64              { return k.sigma * 1.0 }
func (k *CubicSpline) Cutoff() float64          { return 2 * k.h }
func (k *CubicSpline) SmoothingLength() float64 { return k.h }

func sq(x float64) float64   { return x * x }
func cube(x float64) float64 { return x * x * x }
