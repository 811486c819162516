package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/timeode/internal/analysis"
	"github.com/san-kum/timeode/internal/config"
	"github.com/san-kum/timeode/internal/evolve"
	"github.com/san-kum/timeode/internal/models"
	"github.com/san-kum/timeode/internal/state"
	"github.com/san-kum/timeode/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	saveRun    bool

	dt       float64
	steps    int
	t0       float64
	evolver  string
	normFlag bool
	imagTime bool
	g        float64
	gridN    int
	length   float64
	x0       float64
	sigma    float64
	k0       float64
	sample   int

	convLevels int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeode",
		Short: "fixed-step time evolution of dynamical systems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".timeode", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "evolve a model and report observables",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvolution,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	runCmd.Flags().StringVar(&preset, "preset", "", "named preset for the model")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the trajectory under --data")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	runCmd.Flags().StringVar(&evolver, "evolver", "abm", "stepping algorithm (abm|split)")
	runCmd.Flags().BoolVar(&normFlag, "normalize", false, "renormalize after each step")
	runCmd.Flags().BoolVar(&imagTime, "imaginary-time", false, "dissipative evolution (wave models)")
	runCmd.Flags().Float64Var(&g, "g", 0, "self-interaction strength (wave models)")
	runCmd.Flags().IntVar(&gridN, "n", config.DefaultGridN, "grid points (wave models)")
	runCmd.Flags().Float64Var(&length, "length", config.DefaultLength, "box length (wave models)")
	runCmd.Flags().Float64Var(&x0, "x0", 0, "packet center (wave models)")
	runCmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "packet width (wave models)")
	runCmd.Flags().Float64Var(&k0, "k0", 0, "packet momentum (wave models)")
	runCmd.Flags().IntVar(&sample, "sample", 0, "record every k-th step (0 = every step)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list named presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	convCmd := &cobra.Command{
		Use:   "convergence",
		Short: "order-of-accuracy study for the predictor-corrector",
		RunE:  runConvergence,
	}
	convCmd.Flags().Float64Var(&dt, "dt", 0.02, "coarsest timestep")
	convCmd.Flags().IntVar(&convLevels, "levels", 4, "number of halvings")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "report dominant oscillation frequencies of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, presetsCmd, runsCmd, convCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	if preset != "" {
		cfg := config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("no preset %q for model %q", preset, model)
		}
		return cfg, nil
	}
	cfg := config.DefaultConfig()
	if model != "" {
		cfg.Model = model
	}
	cfg.Dt = dt
	cfg.Steps = steps
	cfg.T0 = t0
	cfg.Evolver = evolver
	cfg.Normalize = normFlag
	cfg.ImaginaryTime = imagTime
	cfg.Interaction = g
	cfg.Grid = config.GridConfig{N: gridN, Length: length}
	cfg.InitState.X0 = x0
	cfg.InitState.Sigma = sigma
	cfg.InitState.K0 = k0
	cfg.Sample = sample
	return cfg, nil
}

// run binds a configured model to an evolver and its observable columns.
type run struct {
	ev      evolve.Evolver
	columns []string
	observe func(state.State) []float64
}

func buildRun(cfg *config.Config) (*run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var y state.State
	var columns []string
	var observe func(state.State) []float64

	switch cfg.Model {
	case "riccati":
		init := cfg.InitState.Y
		if len(init) == 0 {
			init = []float64{1, 2}
		}
		y = models.NewVector(init, func(t float64, y, dy []float64) {
			for i := range y {
				dy[i] = -y[i] * y[i]
			}
		})
		columns, observe = vectorObservables(len(init))

	case "oscillator":
		init := cfg.InitState.Y
		if len(init) != 2 {
			init = []float64{1, 0}
		}
		y = models.NewVector(init, func(t float64, y, dy []float64) {
			dy[0] = y[1]
			dy[1] = -y[0]
		})
		columns, observe = vectorObservables(2)

	case "free", "trap", "gpe":
		opts := []models.WaveOption{}
		if cfg.Model != "free" {
			opts = append(opts, models.WithPotential(func(x, t float64) float64 {
				return x * x / 2
			}))
		}
		if cfg.Interaction != 0 {
			opts = append(opts, models.WithInteraction(cfg.Interaction))
		}
		if cfg.ImaginaryTime {
			opts = append(opts, models.WithImaginaryTime())
		}
		y = models.GaussianWave(cfg.Grid.N, cfg.Grid.Length,
			cfg.InitState.X0, cfg.InitState.Sigma, cfg.InitState.K0, opts...)
		columns = []string{"norm", "x_mean", "width", "energy"}
		observe = func(s state.State) []float64 {
			w := s.(*models.Wave)
			n, _ := state.Norm(w)
			e, _ := w.Energy()
			return []float64{n, w.XMean(), w.Width(), e}
		}

	default:
		return nil, fmt.Errorf("unknown model %q", cfg.Model)
	}

	opts := []evolve.Option{evolve.WithTime(cfg.T0)}
	if cfg.Normalize {
		opts = append(opts, evolve.WithNormalize())
	}

	var ev evolve.Evolver
	var err error
	switch cfg.Evolver {
	case "abm":
		ev, err = evolve.NewABM(y, cfg.Dt, opts...)
	case "split":
		ev, err = evolve.NewSplit(y, cfg.Dt, opts...)
	}
	if err != nil {
		return nil, err
	}
	return &run{ev: ev, columns: columns, observe: observe}, nil
}

func vectorObservables(n int) ([]string, func(state.State) []float64) {
	columns := make([]string, n)
	for i := range columns {
		columns[i] = fmt.Sprintf("y%d", i)
	}
	return columns, func(s state.State) []float64 {
		v := s.(*models.Vector)
		row := make([]float64, n)
		copy(row, v.Data())
		return row
	}
}

func runEvolution(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := buildRun(cfg)
	if err != nil {
		return err
	}

	stride := cfg.Sample
	if stride <= 0 {
		stride = 1
	}

	traj := &storage.Trajectory{Columns: r.columns}
	traj.Append(r.ev.T(), r.observe(r.ev.Y()))

	for done := 0; done < cfg.Steps; {
		n := stride
		if cfg.Steps-done < n {
			n = cfg.Steps - done
		}
		if err := r.ev.Evolve(n); err != nil {
			return err
		}
		done += n
		traj.Append(r.ev.T(), r.observe(r.ev.Y()))
	}

	printSummary(cfg, r, traj)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		final := make(map[string]float64, len(r.columns))
		last := traj.Rows[len(traj.Rows)-1]
		for i, c := range r.columns {
			final[c] = last[i]
		}
		id, err := st.Save(storage.RunMetadata{
			Model:     cfg.Model,
			Evolver:   cfg.Evolver,
			Dt:        cfg.Dt,
			Steps:     cfg.Steps,
			Normalize: cfg.Normalize,
			Final:     final,
		}, traj)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", id)
	}
	return nil
}

func printSummary(cfg *config.Config, r *run, traj *storage.Trajectory) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", cfg.Model)
	fmt.Fprintf(w, "evolver\t%s\n", cfg.Evolver)
	fmt.Fprintf(w, "dt\t%g\n", cfg.Dt)
	fmt.Fprintf(w, "steps\t%d\n", r.ev.Step())
	fmt.Fprintf(w, "t\t%g\n", r.ev.T())
	last := traj.Rows[len(traj.Rows)-1]
	for i, c := range r.columns {
		fmt.Fprintf(w, "%s\t%.8g\n", c, last[i])
	}
	w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "model\tpreset\tevolver\tdt\tsteps")
	for model, presets := range config.Presets {
		if len(args) > 0 && args[0] != model {
			continue
		}
		for name, cfg := range presets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\n", model, name, cfg.Evolver, cfg.Dt, cfg.Steps)
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tmodel\tevolver\tdt\tsteps")
	for _, meta := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\n", meta.ID, meta.Model, meta.Evolver, meta.Dt, meta.Steps)
	}
	return w.Flush()
}

// analyzeRun loads a stored trajectory and reports, per observable column,
// the strongest oscillation frequency.
func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tfrequency\tperiod")
	for i, col := range traj.Columns {
		signal := make([]float64, len(traj.Rows))
		for j, row := range traj.Rows {
			signal[j] = row[i]
		}
		f, err := analysis.DominantFrequency(traj.Times, signal)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\n", col)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", col, f, 1/f)
	}
	return w.Flush()
}

// runConvergence halves dt repeatedly on dy/dt = -y^2 and reports the error
// against the closed form y(t) = y0/(1+y0*t). A 5th-order method shrinks
// the error by ~32x per halving once the bootstrap error is subdominant.
func runConvergence(cmd *cobra.Command, args []string) error {
	const T = 1.0
	y0 := []float64{1, 2}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "dt\terror\tratio")

	prev := 0.0
	h := dt
	for level := 0; level < convLevels; level++ {
		n := int(math.Round(T / h))
		y := models.NewVector(y0, func(t float64, y, dy []float64) {
			for i := range y {
				dy[i] = -y[i] * y[i]
			}
		})
		ev, err := evolve.NewABM(y, h)
		if err != nil {
			return err
		}
		if err := ev.Evolve(n); err != nil {
			return err
		}
		final := ev.Y().(*models.Vector).Data()
		maxErr := 0.0
		for i, yi := range y0 {
			exact := yi / (1 + yi*ev.T())
			if e := math.Abs(final[i] - exact); e > maxErr {
				maxErr = e
			}
		}
		if prev > 0 && maxErr > 0 {
			fmt.Fprintf(w, "%g\t%.3e\t%.1f\n", h, maxErr, prev/maxErr)
		} else {
			fmt.Fprintf(w, "%g\t%.3e\t\n", h, maxErr)
		}
		prev = maxErr
		h /= 2
	}
	return w.Flush()
}
