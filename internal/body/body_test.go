package body

import (
	"math"
	"testing"

	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/sph"
)

func testSystem(dx float64) *sph.System {
	bounds := sph.Bounds{Lower: sph.Vecd{X: -0.5, Y: -0.5}, Upper: sph.Vecd{X: 1.5, Y: 1.5}}
	sys := sph.NewSystem(bounds, dx, 2)
	sys.Policy = sph.Serial
	return sys
}

func unitBox() *shape.Box {
	return shape.NewBox(sph.Vecd{X: 0.5, Y: 0.5}, sph.Vecd{X: 0.5, Y: 0.5})
}

func TestFluidLatticeAndMaterial(t *testing.T) {
	sys := testSystem(0.1)
	b := NewFluid(sys, "water", unitBox(), Material{Rho0: 1000, SoundSpeed: 20})

	if got := b.Particles.N(); got != 100 {
		t.Fatalf("unit box at dx=0.1 filled %d particles, want 100", got)
	}
	mass := b.Particles.Scalar(particles.Mass)
	rho := b.Particles.Scalar(particles.Density)
	vol := b.Particles.Scalar(particles.Volume)
	for i := 0; i < b.Particles.N(); i++ {
		if math.Abs(mass[i]-1000*0.01) > 1e-9 {
			t.Fatalf("particle %d: mass %v, want 10", i, mass[i])
		}
		if rho[i] != 1000 || math.Abs(vol[i]-0.01) > 1e-12 {
			t.Fatalf("particle %d: rho %v vol %v", i, rho[i], vol[i])
		}
	}
	// fluid-only fields exist
	b.Particles.Scalar(particles.Pressure)
	b.Particles.Scalar(particles.DensityChangeRate)
	b.Particles.Vector(particles.ForcePrior)
}

func TestSolidNormals(t *testing.T) {
	sys := testSystem(0.1)
	b := NewSolid(sys, "wall", unitBox(), 1000)
	InitNormalsFromShape(b)

	pos := b.Particles.Vector(particles.Position)
	normal := b.Particles.Vector(particles.Normal)
	for i := range pos {
		if n := normal[i].Dot(normal[i]); math.Abs(n-1) > 1e-6 {
			t.Fatalf("particle %d: |normal| = %v", i, math.Sqrt(n))
		}
	}

	// the particle nearest the right face midpoint points along +X
	best, bestDist := -1, math.Inf(1)
	for i, p := range pos {
		d := p.Sub(sph.Vecd{X: 1, Y: 0.5})
		if dd := d.Dot(d); dd < bestDist {
			best, bestDist = i, dd
		}
	}
	if normal[best].X < 0.9 {
		t.Errorf("right-face normal = %v, want ~(1, 0)", normal[best])
	}
}

func TestObserverHasNoCellList(t *testing.T) {
	sys := testSystem(0.1)
	o := NewObserver(sys, "probes", []sph.Vecd{{X: 0.5, Y: 0.5}})
	if err := o.UpdateCellList(); err == nil {
		t.Error("observer UpdateCellList succeeded, want error")
	}
	if o.Particles.N() != 1 {
		t.Errorf("observer particle count %d", o.Particles.N())
	}
}

func TestDiffusionBodyFields(t *testing.T) {
	sys := testSystem(0.1)
	b := NewDiffusion(sys, "slab", unitBox(), "Phi", "Theta")
	b.Particles.Matrix(particles.CorrectionMatrix)
	b.Particles.Scalar("Phi")
	b.Particles.Scalar("Theta")
}

func TestRegionSelectsByReferencePosition(t *testing.T) {
	sys := testSystem(0.1)
	b := NewFluid(sys, "water", unitBox(), Material{Rho0: 1, SoundSpeed: 1})
	leftHalf := shape.NewBox(sph.Vecd{X: 0.25, Y: 0.5}, sph.Vecd{X: 0.25, Y: 0.5})
	r := NewRegionByParticle(b, leftHalf)

	if len(r.Indices) != 50 {
		t.Fatalf("left half selected %d particles, want 50", len(r.Indices))
	}
	ref := b.Particles.Vector(particles.Position0)
	for _, i := range r.Indices {
		if ref[i].X > 0.5 {
			t.Fatalf("particle %d at x=%v selected into the left half", i, ref[i].X)
		}
	}

	// the selection keys on reference positions, so moving particles does
	// not change it
	pos := b.Particles.Vector(particles.Position)
	for i := range pos {
		pos[i].X += 10
	}
	r.Rebuild()
	if len(r.Indices) != 50 {
		t.Errorf("region changed after motion: %d particles", len(r.Indices))
	}
}

func TestRegionSurvivesSort(t *testing.T) {
	sys := testSystem(0.1)
	b := NewFluid(sys, "water", unitBox(), Material{Rho0: 1, SoundSpeed: 1})
	leftHalf := shape.NewBox(sph.Vecd{X: 0.25, Y: 0.5}, sph.Vecd{X: 0.25, Y: 0.5})
	r := NewRegionByParticle(b, leftHalf)

	// tag the selected particles, then force a nontrivial permutation by
	// reversing the positions and sorting into cell order
	tag := b.Particles.RegisterScalar("tag")
	for _, i := range r.Indices {
		tag[i] = 1
	}
	pos := b.Particles.Vector(particles.Position)
	for i, j := 0, len(pos)-1; i < j; i, j = i+1, j-1 {
		pos[i], pos[j] = pos[j], pos[i]
	}
	if err := b.UpdateCellList(); err != nil {
		t.Fatalf("cell list: %v", err)
	}
	b.SortParticles()

	if len(r.Indices) != 50 {
		t.Fatalf("region has %d particles after sort, want 50", len(r.Indices))
	}
	tag = b.Particles.Scalar("tag")
	for _, i := range r.Indices {
		if tag[i] != 1 {
			t.Fatalf("particle %d entered the region without its tag", i)
		}
	}
}

func TestConstantConstraintIsIdempotent(t *testing.T) {
	sys := testSystem(0.1)
	b := NewDiffusion(sys, "slab", unitBox(), "Phi")
	r := NewRegionByParticle(b, shape.NewBox(sph.Vecd{X: 0.05, Y: 0.5}, sph.Vecd{X: 0.05, Y: 0.5}))
	c := NewConstantConstraint(r, "Phi", 1)

	phi := b.Particles.Scalar("Phi")
	c.Exec()
	sum := 0.0
	for _, v := range phi {
		sum += v
	}
	c.Exec()
	sum2 := 0.0
	for _, v := range phi {
		sum2 += v
	}
	if sum != sum2 {
		t.Error("re-imposing the constraint changed the field")
	}

	// values drift, the constraint restores them
	for _, i := range r.Indices {
		phi[i] = -3
	}
	c.Exec()
	for _, i := range r.Indices {
		if phi[i] != 1 {
			t.Fatalf("constraint did not restore particle %d", i)
		}
	}
}
