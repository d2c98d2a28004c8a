// Package diffusion implements scalar diffusion of a species field with a
// directional (anisotropic) diffusivity tensor:
//
//	D = D_iso I + D_bias e⊗e
//
// The discrete Laplacian uses a pairwise flux with a linear-correction
// matrix restoring first-order consistency near boundaries and irregular
// particle distributions. Relaxation is a two-stage Runge-Kutta; Dirichlet
// regions are re-imposed after each stage.
package diffusion
