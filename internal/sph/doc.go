// Package sph provides the core primitives shared by every particle
// dynamics package in the module:
//
//   - [Vecd]: particle-space vector (2D cases keep Z = 0)
//   - [Matd]: small dense matrix for kernel corrections and rotations
//   - [System]: global simulation environment (domain, resolution, time)
//   - [Time]: explicit physical time, advanced only by the time stepper
//   - [ParallelFor]: shared-memory data parallelism over particle ranges
//
// Error kinds for the failure modes of a run are defined here as sentinel
// errors so that drivers can map them to exit codes with errors.Is.
//
// # Thread Safety
//
// A System is mutated only from the control goroutine. ParallelFor workers
// must write disjoint particle index ranges; operators that need to read
// and write the same field across neighbors double-buffer it.
package sph
