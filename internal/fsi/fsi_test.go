package fsi

import (
	"math"
	"testing"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/multibody"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/sph"
)

// frozenIntegrator pins the rigid state to explicit values so constraint
// kinematics can be checked in isolation.
type frozenIntegrator struct {
	props multibody.MassProperties
	pose  multibody.Transform
	lin   sph.Vecd
	ang   sph.Vecd
}

func (f *frozenIntegrator) MassProperties() multibody.MassProperties { return f.props }
func (f *frozenIntegrator) Pose() multibody.Transform                { return f.pose }
func (f *frozenIntegrator) Velocity() (sph.Vecd, sph.Vecd)           { return f.lin, f.ang }
func (f *frozenIntegrator) ApplyBodyForce(multibody.SpatialVec)      {}
func (f *frozenIntegrator) StepBy(float64) error                     { return nil }
func (f *frozenIntegrator) SetAccuracy(float64)                      {}

func structureBody(t *testing.T) *body.Body {
	t.Helper()
	bounds := sph.Bounds{Lower: sph.Vecd{X: -2, Y: -2}, Upper: sph.Vecd{X: 3, Y: 3}}
	sys := sph.NewSystem(bounds, 0.1, 2)
	sys.Policy = sph.Serial
	cube := shape.NewBox(sph.Vecd{X: 0.5, Y: 0.5}, sph.Vecd{X: 0.25, Y: 0.25})
	return body.NewSolid(sys, "cube", cube, 700)
}

func pairwiseDistances(pos []sph.Vecd) []float64 {
	var out []float64
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			d := pos[i].Sub(pos[j])
			out = append(out, math.Sqrt(d.Dot(d)))
		}
	}
	return out
}

func TestConstrainBodyPartIsRigid(t *testing.T) {
	b := structureBody(t)
	center0 := sph.Vecd{X: 0.5, Y: 0.5}
	integ := &frozenIntegrator{
		props: multibody.MassProperties{Mass: 1, Center: center0, Inertia: 1},
		pose: multibody.Transform{
			R: sph.Rotation2D(math.Pi / 3),
			P: sph.Vecd{X: 2, Y: 1},
		},
	}
	constrain := NewConstrainBodyPart(b, integ)

	before := pairwiseDistances(b.Particles.Vector(particles.Position0))
	constrain.Exec()
	after := pairwiseDistances(b.Particles.Vector(particles.Position))

	for k := range before {
		if math.Abs(before[k]-after[k]) > 1e-10 {
			t.Fatalf("pair %d: distance changed %v -> %v", k, before[k], after[k])
		}
	}

	// the reference center maps onto the mobilizer position
	pos := b.Particles.Vector(particles.Position)
	pos0 := b.Particles.Vector(particles.Position0)
	var mean, mean0 sph.Vecd
	for i := range pos {
		mean = mean.Add(pos[i])
		mean0 = mean0.Add(pos0[i])
	}
	mean = mean.Scale(1 / float64(len(pos)))
	mean0 = mean0.Scale(1 / float64(len(pos)))
	if d := mean0.Sub(center0); math.Sqrt(d.Dot(d)) > 1e-10 {
		t.Fatalf("lattice centroid %v off the reference center", mean0)
	}
	if d := mean.Sub(integ.pose.P); math.Sqrt(d.Dot(d)) > 1e-10 {
		t.Errorf("constrained centroid %v, want %v", mean, integ.pose.P)
	}
}

func TestConstrainBodyPartVelocities(t *testing.T) {
	b := structureBody(t)
	integ := &frozenIntegrator{
		props: multibody.MassProperties{Mass: 1, Center: sph.Vecd{X: 0.5, Y: 0.5}, Inertia: 1},
		pose:  multibody.Transform{R: sph.Identity(3), P: sph.Vecd{X: 0.5, Y: 0.5}},
		lin:   sph.Vecd{X: 1},
		ang:   sph.Vecd{Z: 2},
	}
	NewConstrainBodyPart(b, integ).Exec()

	pos := b.Particles.Vector(particles.Position)
	vel := b.Particles.Vector(particles.Velocity)
	for i := range pos {
		r := pos[i].Sub(integ.pose.P)
		want := integ.lin.Add(sph.Vecd{X: -2 * r.Y, Y: 2 * r.X})
		if d := vel[i].Sub(want); math.Sqrt(d.Dot(d)) > 1e-10 {
			t.Fatalf("particle %d: velocity %v, want %v", i, vel[i], want)
		}
	}
}

func TestTotalForceOnBodyPart(t *testing.T) {
	b := structureBody(t)
	integ := &frozenIntegrator{
		props: multibody.MassProperties{Mass: 1, Center: sph.Vecd{X: 0.5, Y: 0.5}, Inertia: 1},
		pose:  multibody.Transform{R: sph.Identity(3), P: sph.Vecd{X: 0.5, Y: 0.5}},
	}
	total := NewTotalForceOnBodyPart(b, integ)

	force := b.Particles.Vector(particles.ForceFromFluid)
	pos := b.Particles.Vector(particles.Position)
	for i := range force {
		force[i] = sph.Vecd{Y: 1}
	}
	out := total.Exec()

	n := float64(len(force))
	if math.Abs(out.Force.Y-n) > 1e-9 || math.Abs(out.Force.X) > 1e-12 {
		t.Errorf("total force = %v, want (0, %v)", out.Force, n)
	}
	// uniform vertical load about the centroid carries no torque
	if math.Abs(out.Torque.Z) > 1e-9 {
		t.Errorf("uniform load torque = %v, want 0", out.Torque.Z)
	}

	// a single off-center force produces r x F
	for i := range force {
		force[i] = sph.Vecd{}
	}
	force[0] = sph.Vecd{Y: 3}
	out = total.Exec()
	r := pos[0].Sub(integ.pose.P)
	if math.Abs(out.Torque.Z-r.X*3) > 1e-12 {
		t.Errorf("torque = %v, want %v", out.Torque.Z, r.X*3)
	}
}
