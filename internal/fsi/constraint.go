package fsi

import (
	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/multibody"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/sph"
)

// TotalForceOnBodyPart reduces the per-particle fluid tractions on a
// structure into a spatial force about the current mass center.
type TotalForceOnBodyPart struct {
	integ multibody.Integrator

	pos   []sph.Vecd
	force []sph.Vecd
}

func NewTotalForceOnBodyPart(b *body.Body, integ multibody.Integrator) *TotalForceOnBodyPart {
	return &TotalForceOnBodyPart{
		integ: integ,
		pos:   b.Particles.Vector(particles.Position),
		force: b.Particles.RegisterVector(particles.ForceFromFluid),
	}
}

func (t *TotalForceOnBodyPart) Exec() multibody.SpatialVec {
	center := t.integ.Pose().P
	var out multibody.SpatialVec
	for i, f := range t.force {
		out.Force = out.Force.Add(f)
		out.Torque = out.Torque.Add(t.pos[i].Sub(center).Cross(f))
	}
	return out
}

// ConstrainBodyPart rigidly maps the structure's particles onto the
// mobilizer kinematics: positions from the pose applied to the reference
// configuration, velocities from the mass-center velocity plus the
// angular term. The fan-out is sequential; the per-particle work is
// trivial and the particle count small.
type ConstrainBodyPart struct {
	integ   multibody.Integrator
	center0 sph.Vecd

	pos0 []sph.Vecd
	pos  []sph.Vecd
	vel  []sph.Vecd
}

func NewConstrainBodyPart(b *body.Body, integ multibody.Integrator) *ConstrainBodyPart {
	return &ConstrainBodyPart{
		integ:   integ,
		center0: integ.MassProperties().Center,
		pos0:    b.Particles.Vector(particles.Position0),
		pos:     b.Particles.Vector(particles.Position),
		vel:     b.Particles.Vector(particles.Velocity),
	}
}

func (c *ConstrainBodyPart) Exec() {
	pose := c.integ.Pose()
	lin, ang := c.integ.Velocity()
	for i := range c.pos {
		c.pos[i] = pose.P.Add(pose.R.MulVec(c.pos0[i].Sub(c.center0)))
		c.vel[i] = lin.Add(ang.Cross(c.pos[i].Sub(pose.P)))
	}
}
