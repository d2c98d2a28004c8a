package cases

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/fluid"
	"github.com/san-kum/sphlab/internal/particles"
	"github.com/san-kum/sphlab/internal/recording"
	"github.com/san-kum/sphlab/internal/regression"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/shape"
	"github.com/san-kum/sphlab/internal/stepper"
	"github.com/san-kum/sphlab/internal/sph"
)

// 3D dam break: a water column collapses along the tank, hits the far
// wall and sloshes back. Six pressure probes on the far wall and the
// total mechanical energy are the regression series.
const (
	damDL = 5.366 // tank length
	damDH = 2.0   // tank height
	damDW = 0.5   // tank width
	damLL = 2.0   // column length
	damLH = 1.0   // column height
	damG  = 1.0
	damT  = 20.0
)

func RunDamBreak3D(cfg *config.Config, progress func(Progress)) error {
	dx := cfg.Dx
	if dx <= 0 {
		dx = 0.05
	}
	endTime := cfg.EndTime
	if endTime <= 0 {
		endTime = damT
	}

	refSpeed := 2 * math.Sqrt(damG*damLH)
	soundSpeed := 10 * refSpeed
	gravity := sph.Vecd{Y: -damG}
	bw := 4 * dx

	lower := sph.Vecd{X: -bw, Y: -bw, Z: -bw}
	upper := sph.Vecd{X: damDL + bw, Y: damDH + bw, Z: damDW + bw}
	sys := sph.NewSystem(sph.Bounds{Lower: lower, Upper: upper}, dx, 3)
	sys.Policy = policyOf(cfg.Parallel)
	sys.GenerateRegressionData = cfg.GenerateRegressionData
	sys.RestartStep = cfg.RestartStep

	columnShape := boxBetween(sph.Vecd{}, sph.Vecd{X: damLL, Y: damLH, Z: damDW})
	wallShape := shape.NewComplex().
		Add(boxBetween(lower, upper)).
		Subtract(boxBetween(sph.Vecd{}, sph.Vecd{X: damDL, Y: damDH, Z: damDW}))

	water := body.NewFluid(sys, "water", columnShape, body.Material{
		Rho0: 1, SoundSpeed: soundSpeed,
	})
	wall := body.NewSolid(sys, "wall", wallShape, 1)
	body.InitNormalsFromShape(wall)

	waterInner := relation.NewInner(water)
	waterContact := relation.NewContact(water, wall)

	densityReg := fluid.NewDensityRegularization(waterInner, waterContact)
	advSetup := fluid.NewAdvectionStepSetup(water)
	gravityForce := fluid.NewGravityForce(water, gravity)
	acoustic1 := fluid.NewAcousticStep1stHalf(waterInner, gravity, waterContact)
	acoustic2 := fluid.NewAcousticStep2ndHalf(waterInner, gravity, waterContact)
	updatePos := fluid.NewUpdateParticlePosition(water)
	acousticDt := fluid.NewAcousticTimeStep(water)
	advectionDt := fluid.NewAdvectionTimeStep(water, refSpeed)
	energy := fluid.NewTotalMechanicalEnergy(water, gravity)

	rebuild := func() error {
		if err := water.UpdateCellList(); err != nil {
			return err
		}
		waterInner.Update()
		waterContact.Update()
		return nil
	}
	if err := wall.UpdateCellList(); err != nil {
		return err
	}

	snapshots := cfg.Snapshots
	if snapshots <= 0 {
		snapshots = 100
	}
	snapshotInterval := endTime / float64(snapshots)
	if cfg.RestartStep > 0 {
		if err := recording.LoadRestart(cfg.DataDir, "dambreak3d", cfg.RestartStep, []*body.Body{water}); err != nil {
			return err
		}
		sys.Time.Reset(float64(cfg.RestartStep)*snapshotInterval, 0)
	}
	if err := rebuild(); err != nil {
		return err
	}
	densityReg.Exec()
	advSetup.Exec()
	gravityForce.Exec()

	// probes just inside the far wall, mid width
	probeHeights := []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3}
	points := make([]sph.Vecd, len(probeHeights))
	for i, h := range probeHeights {
		points[i] = sph.Vecd{X: damDL - dx/2, Y: h, Z: damDW / 2}
	}
	observer := body.NewObserver(sys, "wall_probes", points)
	pressure := recording.NewObservedQuantity("wall_pressure", particles.Pressure, observer, water)

	mechEnergy := recording.NewReducedQuantity("mechanical_energy", sys.Time, energy.Exec)

	store := recording.NewRunStore(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	run, err := store.CreateRun("dambreak3d", dx, endTime, cfg.Parallel)
	if err != nil {
		return err
	}
	states := recording.NewBodyStates(run, water)

	ts := stepper.New(sys.Time, endTime)
	recordEvery := stepper.TriggerByInterval{Threshold: endTime / 200}
	snapshotEvery := stepper.TriggerByInterval{Threshold: snapshotInterval}
	sortEvery := stepper.TriggerEveryN{N: 100}
	snapshotIdx := cfg.RestartStep

	pressure.Update()
	pressure.Record()
	mechEnergy.Record()
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

		if recordEvery.Accumulate(interval) {
			pressure.Update()
			pressure.Record()
			mechEnergy.Record()
			if progress != nil {
				progress(Progress{
					Case:       "dambreak3d",
					Step:       sys.Time.Step(),
					Time:       sys.Time.Value(),
					EndTime:    endTime,
					AdvectionD: interval,
					AcousticD:  acousticDt.Exec(),
					Probe:      mechEnergy.Values()[len(mechEnergy.Values())-1],
				})
			}
			fmt.Printf("N=%d\tTime=%.4f\tDt=%.3g\n", sys.Time.Step(), sys.Time.Value(), interval)
		}
		if snapshotEvery.Accumulate(interval) {
			snapshotIdx++
			if err := states.Write(snapshotIdx); err != nil {
				return err
			}
			if err := recording.SaveRestart(cfg.DataDir, "dambreak3d", snapshotIdx, []*body.Body{water}); err != nil {
				return err
			}
		}
	}

	if err := pressure.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	if err := mechEnergy.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	if err := run.Finalize(sys.Time.Step()); err != nil {
		return err
	}

	probeDTW := regression.NewDynamicTimeWarping(cfg.DataDir, "dambreak3d", "wall_pressure", 1e-3)
	probeEnsemble := regression.NewEnsembleAverage(cfg.DataDir, "dambreak3d", "wall_pressure", 1e-3, 1e-3)
	energyEnsemble := regression.NewEnsembleAverage(cfg.DataDir, "dambreak3d", "mechanical_energy", 1e-3, 1e-3)
	energySeries := singleColumn(mechEnergy.Values())
	if cfg.GenerateRegressionData {
		return errors.Join(
			probeDTW.Generate(pressure.Values()),
			probeEnsemble.Generate(pressure.Values()),
			energyEnsemble.Generate(energySeries),
		)
	}
	return errors.Join(
		probeDTW.Test(pressure.Values()),
		probeEnsemble.Test(pressure.Values()),
		energyEnsemble.Test(energySeries),
	)
}
