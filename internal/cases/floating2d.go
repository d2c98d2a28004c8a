package cases

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/fluid"
	"github.com/san-kum/sphlab/internal/fsi"
	"github.com/san-kum/sphlab/internal/multibody"
	"github.com/san-kum/sphlab/internal/recording"
	"github.com/san-kum/sphlab/internal/regression"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/stepper"
	"github.com/san-kum/sphlab/internal/sph"
)

// Still floating body: a buoyant square rests in a water tank, the
// coupling switches on after the flow settles, and the body should hold
// its hydrostatic draft. The wave gauge and the body's vertical position
// are the regression series.
const (
	stfbDL    = 3.0 // tank width
	stfbDH    = 4.0 // tank height
	stfbWH    = 2.0 // initial water depth
	stfbL     = 1.0 // structure edge length
	stfbRhoF  = 1000.0
	stfbRhoS  = 700.0
	stfbG     = 9.81
	stfbMu    = 1e-3
	stfbT     = 10.0
	stfbFSIOn = 1.0
)

func RunFloating2D(cfg *config.Config, progress func(Progress)) error {
	dx := cfg.Dx
	if dx <= 0 {
		dx = stfbL / 20
	}
	endTime := cfg.EndTime
	if endTime <= 0 {
		endTime = stfbT
	}
	if cfg.RestartStep > 0 {
		fmt.Println("floating2d does not resume the rigid-body state; restart ignored")
	}

	refSpeed := 2 * math.Sqrt(0.79*stfbG)
	soundSpeed := 10 * refSpeed
	gravity := sph.Vecd{Y: -stfbG}
	bw := 4 * dx

	lower := sph.Vecd{X: -bw, Y: -bw}
	upper := sph.Vecd{X: stfbDL + bw, Y: stfbDH + bw}
	sys := sph.NewSystem(sph.Bounds{Lower: lower, Upper: upper}, dx, 2)
	sys.Policy = policyOf(cfg.Parallel)
	sys.GenerateRegressionData = cfg.GenerateRegressionData

	// hydrostatic draft: the structure floats with rhoS/rhoF of its
	// height submerged
	draft := stfbRhoS / stfbRhoF * stfbL
	center0 := sph.Vecd{X: stfbDL / 2, Y: stfbWH - draft + stfbL/2}
	cubeShape := shape.NewBox(center0, sph.Vecd{X: stfbL / 2, Y: stfbL / 2})

	waterShape := shape.NewMultiPolygon().
		AddPolygon([]sph.Vecd{
			{X: 0, Y: 0},
			{X: stfbDL, Y: 0},
			{X: stfbDL, Y: stfbWH},
			{X: 0, Y: stfbWH},
		}, shape.OpAdd).
		AddPolygon([]sph.Vecd{
			{X: center0.X - stfbL/2, Y: center0.Y - stfbL/2},
			{X: center0.X + stfbL/2, Y: center0.Y - stfbL/2},
			{X: center0.X + stfbL/2, Y: center0.Y + stfbL/2},
			{X: center0.X - stfbL/2, Y: center0.Y + stfbL/2},
		}, shape.OpSubtract)

	wallShape := shape.NewComplex().
		Add(boxBetween(lower, upper)).
		Subtract(boxBetween(sph.Vecd{}, sph.Vecd{X: stfbDL, Y: stfbDH}))

	water := body.NewFluid(sys, "water", waterShape, body.Material{
		Rho0: stfbRhoF, SoundSpeed: soundSpeed, Viscosity: stfbMu,
	})
	wall := body.NewSolid(sys, "wall", wallShape, stfbRhoF)
	cube := body.NewSolid(sys, "structure", cubeShape, stfbRhoS)
	body.InitNormalsFromShape(wall)
	body.InitNormalsFromShape(cube)

	mass := stfbRhoS * stfbL * stfbL
	integ := multibody.NewPlanarBody(multibody.MassProperties{
		Mass:    mass,
		Center:  center0,
		Inertia: mass * stfbL * stfbL / 6,
	}, gravity)

	waterInner := relation.NewInner(water)
	waterContact := relation.NewContact(water, wall, cube)
	cubeContact := relation.NewContact(cube, water)

	densityReg := fluid.NewDensityRegularization(waterInner, waterContact)
	advSetup := fluid.NewAdvectionStepSetup(water)
	gravityForce := fluid.NewGravityForce(water, gravity)
	viscous := fluid.NewViscousForce(waterInner, waterContact)
	acoustic1 := fluid.NewAcousticStep1stHalf(waterInner, gravity, waterContact)
	acoustic2 := fluid.NewAcousticStep2ndHalf(waterInner, gravity, waterContact)
	updatePos := fluid.NewUpdateParticlePosition(water)
	acousticDt := fluid.NewAcousticTimeStep(water)
	advectionDt := fluid.NewAdvectionTimeStep(water, refSpeed)

	pressureOnCube := fsi.NewPressureForceOnStructure(cubeContact, gravity)
	viscousOnCube := fsi.NewViscousForceOnStructure(cubeContact)
	totalForce := fsi.NewTotalForceOnBodyPart(cube, integ)
	constrain := fsi.NewConstrainBodyPart(cube, integ)

	rebuild := func() error {
		if err := water.UpdateCellList(); err != nil {
			return err
		}
		if err := cube.UpdateCellList(); err != nil {
			return err
		}
		waterInner.Update()
		waterContact.Update()
		cubeContact.Update()
		return nil
	}
	if err := wall.UpdateCellList(); err != nil {
		return err
	}
	if err := rebuild(); err != nil {
		return err
	}
	densityReg.Exec()
	advSetup.Exec()
	gravityForce.Exec()
	viscous.Exec()

	gaugeX := stfbDL / 3
	gaugeShape := boxBetween(sph.Vecd{X: gaugeX - dx, Y: 0}, sph.Vecd{X: gaugeX + dx, Y: stfbDH})
	gauge := recording.NewReducedQuantity("wave_gauge", sys.Time,
		recording.UpperFrontInAxisDirection(water, gaugeShape, 1))
	structureY := recording.NewReducedQuantity("structure_y", sys.Time, func() float64 {
		return integ.Pose().P.Y
	})

	store := recording.NewRunStore(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	run, err := store.CreateRun("floating2d", dx, endTime, cfg.Parallel)
	if err != nil {
		return err
	}
	states := recording.NewBodyStates(run, water, cube)

	ts := stepper.New(sys.Time, endTime)
	fsiOn := stepper.TriggerByPhysicalTime{At: stfbFSIOn}
	recordEvery := stepper.TriggerByInterval{Threshold: endTime / 200}
	snapshots := cfg.Snapshots
	if snapshots <= 0 {
		snapshots = 100
	}
	snapshotEvery := stepper.TriggerByInterval{Threshold: endTime / float64(snapshots)}
	sortEvery := stepper.TriggerEveryN{N: 100}
	snapshotIdx := 0

	gauge.Record()
	structureY.Record()
	for !ts.Done() {
		interval := advectionDt.Exec()
		relaxed := 0.0
		for relaxed < interval && !ts.Done() {
			dt := acousticDt.Exec()
			if err := ts.CheckFloor(dt); err != nil {
				if werr := states.Write(sys.Time.Step()); werr != nil {
					return errors.Join(err, werr)
				}
				return err
			}
			dt = math.Min(dt, interval-relaxed)
			acoustic1.Exec(dt)
			if fsiOn.Armed(sys.Time.Value()) {
				pressureOnCube.Exec()
				integ.ApplyBodyForce(totalForce.Exec())
				if err := integ.StepBy(dt); err != nil {
					return err
				}
				constrain.Exec()
			}
			acoustic2.Exec(dt)
			relaxed += ts.Advance(dt)
		}

		updatePos.Exec(interval)
		if sortEvery.Fire() {
			water.SortParticles()
		}
		if err := rebuild(); err != nil {
			if werr := states.Write(sys.Time.Step()); werr != nil {
				return errors.Join(err, werr)
			}
			return err
		}
		densityReg.Exec()
		advSetup.Exec()
		gravityForce.Exec()
		viscous.Exec()
		if fsiOn.Armed(sys.Time.Value()) {
			viscousOnCube.Exec()
		}

		if recordEvery.Accumulate(interval) {
			gauge.Record()
			structureY.Record()
			if progress != nil {
				progress(Progress{
					Case:       "floating2d",
					Step:       sys.Time.Step(),
					Time:       sys.Time.Value(),
					EndTime:    endTime,
					AdvectionD: interval,
					AcousticD:  acousticDt.Exec(),
					Probe:      gauge.Values()[len(gauge.Values())-1],
				})
			}
			fmt.Printf("N=%d\tTime=%.4f\tDt=%.3g\n", sys.Time.Step(), sys.Time.Value(), interval)
		}
		if snapshotEvery.Accumulate(interval) {
			snapshotIdx++
			if err := states.Write(snapshotIdx); err != nil {
				return err
			}
		}
	}

	if err := gauge.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	if err := structureY.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	if err := run.Finalize(sys.Time.Step()); err != nil {
		return err
	}

	gaugeDTW := regression.NewDynamicTimeWarping(cfg.DataDir, "floating2d", "wave_gauge", 1e-3)
	structDTW := regression.NewDynamicTimeWarping(cfg.DataDir, "floating2d", "structure_y", 1e-3)
	gaugeSeries := singleColumn(gauge.Values())
	structSeries := singleColumn(structureY.Values())
	if cfg.GenerateRegressionData {
		return errors.Join(gaugeDTW.Generate(gaugeSeries), structDTW.Generate(structSeries))
	}
	return errors.Join(gaugeDTW.Test(gaugeSeries), structDTW.Test(structSeries))
}
