// Package particles implements the structure-of-arrays particle container.
// Fields are registered by name and co-permuted on sort, so a slice
// obtained from the store stays valid across sorts (the backing array is
// permuted in place) but not across appends.
package particles

import (
	"fmt"
	"sort"

	"github.com/san-kum/sphlab/internal/sph"
)

// Canonical field names shared across the dynamics packages.
const (
	Position          = "Position"
	Position0         = "Position0" // reference position at body initialization
	Velocity          = "Velocity"
	ForcePrior        = "ForcePrior" // gravity + viscous, accumulated per advection step
	ForceFromFluid    = "ForceFromFluid"
	Mass              = "Mass"
	Density           = "Density"
	DensityChangeRate = "DensityChangeRate"
	Pressure          = "Pressure"
	Volume            = "Volume"
	Normal            = "Normal"
	CorrectionMatrix  = "CorrectionMatrix"
)

// Store is a structure-of-arrays container. All registered arrays always
// have length N and are permuted together by SortByKeys.
type Store struct {
	n        int
	scalars  map[string][]float64
	vectors  map[string][]sph.Vecd
	matrices map[string][]sph.Matd
}

// NewStore creates a store seeded with Position and Position0 from the
// given initial positions.
func NewStore(positions []sph.Vecd) *Store {
	s := &Store{
		n:        len(positions),
		scalars:  make(map[string][]float64),
		vectors:  make(map[string][]sph.Vecd),
		matrices: make(map[string][]sph.Matd),
	}
	pos := make([]sph.Vecd, len(positions))
	ref := make([]sph.Vecd, len(positions))
	copy(pos, positions)
	copy(ref, positions)
	s.vectors[Position] = pos
	s.vectors[Position0] = ref
	return s
}

func (s *Store) N() int { return s.n }

// RegisterScalar creates (or returns) the named scalar field.
func (s *Store) RegisterScalar(name string) []float64 {
	if f, ok := s.scalars[name]; ok {
		return f
	}
	f := make([]float64, s.n)
	s.scalars[name] = f
	return f
}

// RegisterVector creates (or returns) the named vector field.
func (s *Store) RegisterVector(name string) []sph.Vecd {
	if f, ok := s.vectors[name]; ok {
		return f
	}
	f := make([]sph.Vecd, s.n)
	s.vectors[name] = f
	return f
}

// RegisterMatrix creates (or returns) the named matrix field.
func (s *Store) RegisterMatrix(name string) []sph.Matd {
	if f, ok := s.matrices[name]; ok {
		return f
	}
	f := make([]sph.Matd, s.n)
	s.matrices[name] = f
	return f
}

// Scalar returns a registered scalar field. Asking for an unregistered
// field is a programming error.
func (s *Store) Scalar(name string) []float64 {
	f, ok := s.scalars[name]
	if !ok {
		panic(fmt.Sprintf("particles: scalar field %q not registered", name))
	}
	return f
}

func (s *Store) Vector(name string) []sph.Vecd {
	f, ok := s.vectors[name]
	if !ok {
		panic(fmt.Sprintf("particles: vector field %q not registered", name))
	}
	return f
}

func (s *Store) Matrix(name string) []sph.Matd {
	f, ok := s.matrices[name]
	if !ok {
		panic(fmt.Sprintf("particles: matrix field %q not registered", name))
	}
	return f
}

// HasScalar reports whether the named scalar field exists.
func (s *Store) HasScalar(name string) bool {
	_, ok := s.scalars[name]
	return ok
}

// Append adds one particle with zero values to every registered field and
// returns its index. Slices obtained before an append are stale.
func (s *Store) Append(pos sph.Vecd) int {
	i := s.n
	s.n++
	for name, f := range s.scalars {
		s.scalars[name] = append(f, 0)
	}
	for name, f := range s.vectors {
		v := sph.Vecd{}
		if name == Position || name == Position0 {
			v = pos
		}
		s.vectors[name] = append(f, v)
	}
	for name, f := range s.matrices {
		s.matrices[name] = append(f, sph.Matd{})
	}
	return i
}

// SortByKeys stable-sorts particles by the given per-particle keys,
// co-permuting every registered field in place.
func (s *Store) SortByKeys(keys []int) {
	if len(keys) != s.n {
		panic("particles: key length does not match particle count")
	}
	idx := make([]int, s.n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	scratchF := make([]float64, s.n)
	for _, f := range s.scalars {
		for i, p := range idx {
			scratchF[i] = f[p]
		}
		copy(f, scratchF)
	}
	scratchV := make([]sph.Vecd, s.n)
	for _, f := range s.vectors {
		for i, p := range idx {
			scratchV[i] = f[p]
		}
		copy(f, scratchV)
	}
	scratchM := make([]sph.Matd, s.n)
	for _, f := range s.matrices {
		for i, p := range idx {
			scratchM[i] = f[p]
		}
		copy(f, scratchM)
	}
}
