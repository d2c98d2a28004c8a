package sph

// System is the global environment of one simulation: the computational
// domain, the reference particle spacing, the spatial dimension and the
// physical time. Bodies reference the system they were created in; the
// system itself holds no back-pointers to bodies (drivers own those).
type System struct {
	Bounds     Bounds
	Resolution float64 // reference particle spacing dx
	Dim        int     // 2 or 3
	Time       *Time

	Policy Policy

	// Driver-level switches carried with the system so that recorders and
	// regression tests see consistent settings.
	GenerateRegressionData bool
	RestartStep            int
}

// NewSystem creates a system over the given domain with reference spacing dx.
func NewSystem(bounds Bounds, dx float64, dim int) *System {
	return &System{
		Bounds:     bounds,
		Resolution: dx,
		Dim:        dim,
		Time:       &Time{},
		Policy:     Parallel,
	}
}

// SmoothingLength is the kernel smoothing length for the reference
// resolution. The 1.3 ratio follows the usual weakly compressible SPH
// setting.
func (s *System) SmoothingLength() float64 {
	return 1.3 * s.Resolution
}

// ParticleVolume is the nominal lattice volume of one particle.
func (s *System) ParticleVolume() float64 {
	v := s.Resolution * s.Resolution
	if s.Dim == 3 {
		v *= s.Resolution
	}
	return v
}
