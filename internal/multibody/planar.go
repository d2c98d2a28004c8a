package multibody

import (
	"fmt"
	"math"

	"github.com/san-kum/sphlab/internal/sph"
)

// planar state layout: x, y, theta, vx, vy, omega
type planarState [6]float64

// PlanarBody is a free rigid body moving in the XY plane under gravity
// and an externally applied spatial force. The applied force is held
// constant over each StepBy interval and cleared afterwards.
type PlanarBody struct {
	props   MassProperties
	gravity sph.Vecd

	state   planarState
	applied SpatialVec
	tol     float64
	hNext   float64
}

func NewPlanarBody(props MassProperties, gravity sph.Vecd) *PlanarBody {
	return &PlanarBody{
		props:   props,
		gravity: gravity,
		state:   planarState{props.Center.X, props.Center.Y},
		tol:     1e-6,
	}
}

func (p *PlanarBody) MassProperties() MassProperties { return p.props }

func (p *PlanarBody) SetAccuracy(tol float64) { p.tol = tol }

func (p *PlanarBody) Pose() Transform {
	return Transform{
		R: sph.Rotation2D(p.state[2]),
		P: sph.Vecd{X: p.state[0], Y: p.state[1]},
	}
}

func (p *PlanarBody) Velocity() (linear, angular sph.Vecd) {
	return sph.Vecd{X: p.state[3], Y: p.state[4]}, sph.Vecd{Z: p.state[5]}
}

func (p *PlanarBody) ApplyBodyForce(f SpatialVec) { p.applied = f }

func (p *PlanarBody) derive(s planarState) planarState {
	invM := 1 / p.props.Mass
	return planarState{
		s[3],
		s[4],
		s[5],
		p.gravity.X + p.applied.Force.X*invM,
		p.gravity.Y + p.applied.Force.Y*invM,
		p.applied.Torque.Z / p.props.Inertia,
	}
}

// StepBy advances the planar state by dt with adaptive Dormand-Prince
// sub-steps, then clears the applied force.
func (p *PlanarBody) StepBy(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("multibody: non-positive step %g", dt)
	}
	remaining := dt
	h := p.hNext
	if h <= 0 || h > dt {
		h = dt
	}
	for remaining > 0 {
		if h > remaining {
			h = remaining
		}
		next, hNew, ok := rk45Step(p.state, h, p.tol, p.derive)
		if ok {
			p.state = next
			remaining -= h
		}
		if hNew < 1e-14*dt {
			return fmt.Errorf("multibody: step size collapsed at h=%g", hNew)
		}
		h = hNew
	}
	p.hNext = h
	p.applied = SpatialVec{}
	return nil
}

// Dormand-Prince coefficients
var (
	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
)

// rk45Step takes one embedded 4(5) step. It returns the candidate state,
// the suggested next step size and whether the step met the tolerance.
func rk45Step(x planarState, dt, tol float64, derive func(planarState) planarState) (planarState, float64, bool) {
	var x2, x3, x4, x5, x6, xNew planarState

	k1 := derive(x)
	for i := range x {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := derive(x2)
	for i := range x {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := derive(x3)
	for i := range x {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := derive(x4)
	for i := range x {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := derive(x5)
	for i := range x {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := derive(x6)
	for i := range x {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	k7 := derive(xNew)

	errMax := 0.0
	for i := range x {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol
	if errRatio > 1 {
		return x, dt * math.Max(minScale, safety*math.Pow(errRatio, -0.25)), false
	}
	dtNew := dt * maxScale
	if errRatio > 0 {
		dtNew = dt * math.Min(maxScale, safety*math.Pow(errRatio, -0.2))
	}
	return xNew, dtNew, true
}
