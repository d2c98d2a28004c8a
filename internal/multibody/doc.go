// Package multibody is the rigid-body side of fluid-structure coupling.
// The fluid core talks to any rigid-body integrator through the
// [Integrator] facade: apply a spatial force about the mass center, step,
// read back pose and velocity. [PlanarBody] is the built-in
// implementation, a free planar body (x, y, theta) under gravity advanced
// by an adaptive Dormand-Prince RK45.
package multibody
