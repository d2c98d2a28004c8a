// Package body defines named particle collections (fluid, solid, observer)
// and geometric particle regions. A body owns its particle store, its
// kernel and its cell list; relations and dynamics reference bodies but
// never own them.
package body

import (
	"fmt"

	"github.com/san-kum/sphlab/internal/grid"
	"github.com/san-kum/sphlab/internal/kernel"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/sph"
)

type Kind int

const (
	Fluid Kind = iota
	Solid
	Observer
)

// Material carries the weakly compressible fluid model parameters. Solid
// bodies only use Rho0.
type Material struct {
	Rho0       float64
	SoundSpeed float64
	Viscosity  float64
}

// Body is a named, typed particle collection. Identity is immutable after
// construction; the particle arrays mutate freely.
type Body struct {
	Name     string
	Kind     Kind
	System   *sph.System
	Material Material

	Particles *particles.Store
	Kernel    kernel.Kernel
	Shape     shape.Shape

	cells   *grid.CellList
	regions []*Region
}

func newBody(sys *sph.System, name string, kind Kind, s shape.Shape, mat Material) *Body {
	h := sys.SmoothingLength()
	k := kernel.NewWendlandC2(h, sys.Dim)
	pos := particles.LatticeFill(s, sys.Resolution, sys.Dim)
	b := &Body{
		Name:      name,
		Kind:      kind,
		System:    sys,
		Material:  mat,
		Particles: particles.NewStore(pos),
		Kernel:    k,
		Shape:     s,
		cells:     grid.New(sys.Bounds, k.Cutoff(), sys.Dim),
	}

	n := b.Particles.N()
	vol := sys.ParticleVolume()
	mass := b.Particles.RegisterScalar(particles.Mass)
	rho := b.Particles.RegisterScalar(particles.Density)
	volume := b.Particles.RegisterScalar(particles.Volume)
	b.Particles.RegisterVector(particles.Velocity)
	for i := 0; i < n; i++ {
		mass[i] = mat.Rho0 * vol
		rho[i] = mat.Rho0
		volume[i] = vol
	}
	return b
}

// NewFluid creates a weakly compressible fluid body filled from a lattice.
func NewFluid(sys *sph.System, name string, s shape.Shape, mat Material) *Body {
	b := newBody(sys, name, Fluid, s, mat)
	b.Particles.RegisterScalar(particles.Pressure)
	b.Particles.RegisterScalar(particles.DensityChangeRate)
	b.Particles.RegisterVector(particles.ForcePrior)
	return b
}

// NewSolid creates a solid (wall or structure) body.
func NewSolid(sys *sph.System, name string, s shape.Shape, rho0 float64) *Body {
	if rho0 <= 0 {
		rho0 = 1
	}
	b := newBody(sys, name, Solid, s, Material{Rho0: rho0})
	b.Particles.RegisterScalar(particles.Pressure)
	b.Particles.RegisterVector(particles.Normal)
	return b
}

// NewDiffusion creates a static body carrying diffused species fields
// and the correction matrix the diffusion operator needs.
func NewDiffusion(sys *sph.System, name string, s shape.Shape, species ...string) *Body {
	b := newBody(sys, name, Fluid, s, Material{Rho0: 1})
	b.Particles.RegisterMatrix(particles.CorrectionMatrix)
	for _, sp := range species {
		b.Particles.RegisterScalar(sp)
	}
	return b
}

// NewObserver creates an observer body at explicit probe points. Observer
// bodies carry no material and no cell list; they only serve as contact
// relation targets for interpolation.
func NewObserver(sys *sph.System, name string, points []sph.Vecd) *Body {
	return &Body{
		Name:      name,
		Kind:      Observer,
		System:    sys,
		Particles: particles.NewStore(points),
		Kernel:    kernel.NewWendlandC2(sys.SmoothingLength(), sys.Dim),
	}
}

// UpdateCellList re-bins the body's particles after motion.
func (b *Body) UpdateCellList() error {
	if b.cells == nil {
		return fmt.Errorf("body %s: %w", b.Name, errNoCellList)
	}
	return b.cells.Build(b.Particles.Vector(particles.Position))
}

// CellList exposes the body's cell list for relation rebuilds.
func (b *Body) CellList() *grid.CellList { return b.cells }

// SortParticles permutes the particle arrays into cell order and rebuilds
// the body's regions, whose index lists the permutation invalidates. The
// cell list must be rebuilt afterwards.
func (b *Body) SortParticles() {
	b.Particles.SortByKeys(b.cells.Keys())
	for _, r := range b.regions {
		r.Rebuild()
	}
}

var errNoCellList = fmt.Errorf("observer bodies carry no cell list")

// InitNormalsFromShape sets each particle's Normal field to the outward
// surface normal of the body shape at the particle.
func InitNormalsFromShape(b *Body) {
	pos := b.Particles.Vector(particles.Position)
	normal := b.Particles.Vector(particles.Normal)
	for i := range pos {
		normal[i] = shape.Normal(b.Shape, pos[i], b.System.Dim)
	}
}
