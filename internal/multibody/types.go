package multibody

import "github.com/san-kum/sphlab/internal/sph"

// SpatialVec is a torque/force pair about a body's mass center.
type SpatialVec struct {
	Torque sph.Vecd
	Force  sph.Vecd
}

// Transform is a rigid pose: rotation about the reference orientation and
// position of the mass center.
type Transform struct {
	R sph.Matd
	P sph.Vecd
}

// MassProperties of a rigid body part: total mass, initial mass center
// and the scalar inertia about the out-of-plane axis through it.
type MassProperties struct {
	Mass    float64
	Center  sph.Vecd
	Inertia float64
}

// Integrator is the facade the fluid core couples against. Implementations
// own the rigid state; the core only applies forces, steps and reads the
// resulting kinematics.
type Integrator interface {
	MassProperties() MassProperties
	Pose() Transform
	Velocity() (linear, angular sph.Vecd)
	ApplyBodyForce(f SpatialVec)
	StepBy(dt float64) error
	SetAccuracy(tol float64)
}
