// Package fluid implements weakly compressible SPH dynamics:
//
//   - [DensityRegularization]: density summation with free-surface correction
//   - [ViscousForce]: viscous interaction with no-slip walls
//   - [AcousticStep1stHalf], [AcousticStep2ndHalf]: dual-half acoustic
//     stepping with a low-dissipation Riemann pressure flux
//   - [AdvectionStepSetup], [GravityForce], [UpdateParticlePosition]:
//     outer-loop updates
//   - [AcousticTimeStep], [AdvectionTimeStep]: CFL time-step reducers
//   - [TotalMechanicalEnergy]: kinetic + gravitational energy reducer
//
// The state equation is P = c0^2 (rho - rho0); the sound speed is chosen
// per case so the Mach number stays at or below 0.1.
//
// Operators fetch their field slices at construction and run their
// per-particle loops under the system execution policy. An operator that
// moves particles must be followed by a cell list and relation rebuild
// before the next neighbor loop.
package fluid
