package cases

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/sphlab/internal/body"
	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/diffusion"
	"github.com/san-kum/sphlab/internal/recording"
	"github.com/san-kum/sphlab/internal/regression"
	"github.com/san-kum/sphlab/internal/relation"
	"github.com/san-kum/sphlab/internal/stepper"
	"github.com/san-kum/sphlab/internal/sph"
)

// 2D anisotropic diffusion on a unit-like square: the left edge holds
// the species at 1, the remaining edges at 0, and the interior relaxes
// toward the steady profile. Observed values on the centerline and the
// domain average feed the regression database.
const (
	diffusionL     = 0.2
	diffusionD     = 1e-3
	diffusionBias  = 0.0
	diffusionAngle = math.Pi / 4
	diffusionT     = 20.0

	speciesField = "Phi"
)

func RunDiffusion2D(cfg *config.Config, progress func(Progress)) error {
	dx := cfg.Dx
	if dx <= 0 {
		dx = diffusionL / 40
	}
	endTime := cfg.EndTime
	if endTime <= 0 {
		endTime = diffusionT
	}
	bw := 4 * dx
	lower := sph.Vecd{X: -bw, Y: -bw}
	upper := sph.Vecd{X: diffusionL + bw, Y: diffusionL + bw}

	sys := sph.NewSystem(sph.Bounds{Lower: lower, Upper: upper}, dx, 2)
	sys.Policy = policyOf(cfg.Parallel)
	sys.GenerateRegressionData = cfg.GenerateRegressionData

	domain := boxBetween(lower, upper)
	diffusionBody := body.NewDiffusion(sys, "diffusion_body", domain, speciesField)
	if err := diffusionBody.UpdateCellList(); err != nil {
		return err
	}
	inner := relation.NewInner(diffusionBody)
	inner.Update()

	// Dirichlet edge strips; the hot left edge is imposed last so the
	// shared corners stay at 1.
	mkConstraint := func(lo, hi sph.Vecd, value float64) *body.ConstantConstraint {
		region := body.NewRegionByParticle(diffusionBody, boxBetween(lo, hi))
		return body.NewConstantConstraint(region, speciesField, value)
	}
	constraints := []diffusion.Constraint{
		mkConstraint(sph.Vecd{X: -bw, Y: -bw}, sph.Vecd{X: diffusionL + bw, Y: 0}, 0),
		mkConstraint(sph.Vecd{X: -bw, Y: diffusionL}, sph.Vecd{X: diffusionL + bw, Y: diffusionL + bw}, 0),
		mkConstraint(sph.Vecd{X: diffusionL, Y: -bw}, sph.Vecd{X: diffusionL + bw, Y: diffusionL + bw}, 0),
		mkConstraint(sph.Vecd{X: -bw, Y: -bw}, sph.Vecd{X: 0, Y: diffusionL + bw}, 1),
	}

	material := diffusion.NewDirectionalDiffusion(diffusionD, diffusionBias, diffusionAngle)
	correction := diffusion.NewLinearCorrectionMatrix(inner)
	relax := diffusion.NewRelaxationRK2(inner, material, speciesField, constraints...)

	// static particle distribution: correction matrices once
	correction.Exec()
	for _, c := range constraints {
		c.Exec()
	}

	// centerline observation points
	points := make([]sph.Vecd, 11)
	for i := range points {
		points[i] = sph.Vecd{X: diffusionL / 2, Y: float64(i) * diffusionL / 10}
	}
	observer := body.NewObserver(sys, "centerline", points)
	observed := recording.NewObservedQuantity("centerline_phi", speciesField, observer, diffusionBody)
	observed.Update()

	interior := body.NewRegionByParticle(diffusionBody, boxBetween(sph.Vecd{}, sph.Vecd{X: diffusionL, Y: diffusionL}))
	averaged := recording.NewReducedQuantity("region_phi", sys.Time,
		recording.RegionAverage(diffusionBody, interior, speciesField))

	store := recording.NewRunStore(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	run, err := store.CreateRun("diffusion2d", dx, endTime, cfg.Parallel)
	if err != nil {
		return err
	}

	dt := diffusion.TimeStep(sys.SmoothingLength(), material)
	ts := stepper.New(sys.Time, endTime)
	if err := ts.CheckFloor(dt); err != nil {
		return err
	}
	recordEvery := stepper.TriggerByInterval{Threshold: endTime / 100}

	observed.Record()
	averaged.Record()
	for !ts.Done() {
		relax.Exec(dt)
		advanced := ts.Advance(dt)
		if recordEvery.Accumulate(advanced) {
			observed.Record()
			averaged.Record()
			if progress != nil {
				progress(Progress{
					Case:       "diffusion2d",
					Step:       sys.Time.Step(),
					Time:       sys.Time.Value(),
					EndTime:    endTime,
					AdvectionD: dt,
					AcousticD:  dt,
					Probe:      averaged.Values()[len(averaged.Values())-1],
				})
			}
			fmt.Printf("N=%d\tTime=%.4f\tdt=%.3g\n", sys.Time.Step(), sys.Time.Value(), dt)
		}
	}

	if err := observed.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	if err := averaged.Save(run); err != nil {
		fmt.Printf("observation output skipped: %v\n", err)
	}
	snapshots := recording.NewBodyStates(run, diffusionBody)
	if err := snapshots.Write(sys.Time.Step()); err != nil {
		return err
	}
	if err := run.Finalize(sys.Time.Step()); err != nil {
		return err
	}

	ensemble := regression.NewEnsembleAverage(cfg.DataDir, "diffusion2d", "centerline_phi", 1e-3, 1e-3)
	dtw := regression.NewDynamicTimeWarping(cfg.DataDir, "diffusion2d", "region_phi", 1e-3)
	avgSeries := singleColumn(averaged.Values())
	if cfg.GenerateRegressionData {
		return errors.Join(ensemble.Generate(observed.Values()), dtw.Generate(avgSeries))
	}
	return errors.Join(ensemble.Test(observed.Values()), dtw.Test(avgSeries))
}

func singleColumn(values []float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, v := range values {
		out[i] = []float64{v}
	}
	return out
}
