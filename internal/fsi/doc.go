// Package fsi transfers hydrodynamic tractions from fluid bodies onto a
// rigid structure and constrains the structure's particles to the rigid
// motion computed by a multibody integrator. Pressure tractions are
// exchanged every acoustic step once coupling is armed; viscous tractions
// at the advection cadence.
package fsi
