package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphlab/internal/cases"
	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/recording"
	"github.com/san-kum/sphlab/internal/sph"
	"github.com/san-kum/sphlab/internal/viz"
)

var (
	dataDir      string
	dx           float64
	endTime      float64
	parallel     bool
	generateData bool
	restartStep  int
	configFile   string
	preset       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sphlab",
		Short:         "smoothed particle hydrodynamics benchmark lab",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [case]",
		Short: "run a benchmark case",
		Args:  cobra.ExactArgs(1),
		RunE:  runCase,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [case]",
		Short: "run a case with the live terminal monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available cases and recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [case] [series]",
		Short: "plot a recorded series of the latest run",
		Args:  cobra.ExactArgs(2),
		RunE:  plotSeries,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [case]",
		Short: "list available presets for a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for case: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, sph.ErrRegressionMismatch) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dx, "dx", 0, "particle spacing (0 = case default)")
	cmd.Flags().Float64Var(&endTime, "end-time", 0, "end time (0 = case default)")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "parallel particle loops")
	cmd.Flags().BoolVar(&generateData, "generate-regression-data", false, "update the regression database instead of testing")
	cmd.Flags().IntVar(&restartStep, "restart-step", 0, "resume from this snapshot index")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers defaults, preset, config file and explicit flags.
func buildConfig(cmd *cobra.Command, caseName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Case = caseName

	if preset != "" {
		p := config.GetPreset(caseName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(caseName))
		}
		cfg.Dx = p.Dx
		cfg.EndTime = p.EndTime
		cfg.Parallel = p.Parallel
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		loaded.Case = caseName
		cfg = loaded
	}
	if cmd.Flags().Changed("dx") {
		cfg.Dx = dx
	}
	if cmd.Flags().Changed("end-time") {
		cfg.EndTime = endTime
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = parallel
	}
	if generateData {
		cfg.GenerateRegressionData = true
	}
	if restartStep > 0 {
		cfg.RestartStep = restartStep
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func runCase(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	run, err := cases.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	return run(cfg, nil)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	run, err := cases.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(args[0]))
	errCh := make(chan error, 1)
	go func() {
		err := run(cfg, func(pr cases.Progress) {
			p.Send(viz.StepMsg{
				Step:        pr.Step,
				Time:        pr.Time,
				EndTime:     pr.EndTime,
				AdvectionDt: pr.AdvectionD,
				AcousticDt:  pr.AcousticD,
				Probe:       pr.Probe,
			})
		})
		p.Send(viz.DoneMsg{Err: err})
		errCh <- err
	}()
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	// the view may be closed early; the run still finishes
	return <-errCh
}

func listRuns(cmd *cobra.Command, args []string) error {
	fmt.Println("cases:")
	for _, name := range cases.NewRegistry().List() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()

	store := recording.NewRunStore(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tDX\tEND\tSTEPS\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%d\t%s\n",
			r.ID, r.Case, r.Dx, r.EndTime, r.Steps, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotSeries(cmd *cobra.Command, args []string) error {
	caseName, series := args[0], args[1]
	store := recording.NewRunStore(dataDir)
	runDir, err := store.LatestRun(caseName)
	if err != nil {
		return err
	}
	_, values, err := recording.ReadSeries(filepath.Join(runDir, series+".csv"))
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("series %s of %s is empty", series, caseName)
	}
	col := make([]float64, len(values))
	for i := range values {
		col[i] = values[i][0]
	}
	fmt.Println(asciigraph.Plot(col, asciigraph.Height(16), asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("%s · %s", caseName, series))))
	return nil
}
