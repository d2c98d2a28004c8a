package fluid

import "math"

// RiemannPStar is the low-dissipation Riemann intermediate pressure.
// uJump is the approach velocity (v_j - v_i) . e_ij, positive under
// compression; the dissipation term is limited so that expanding pairs see
// only the density-weighted pressure average. The structure coupling uses
// the same pair pressure so action and reaction match across the
// interface.
func RiemannPStar(pi, pj, rhoi, rhoj, uJump, c float64) float64 {
	pStar := (pi*rhoj + pj*rhoi) / (rhoi + rhoj)
	if uJump > 0 {
		rhoBar := 0.5 * (rhoi + rhoj)
		limiter := math.Min(3*uJump/c, 1)
		pStar += 0.5 * rhoBar * c * uJump * limiter
	}
	return pStar
}
