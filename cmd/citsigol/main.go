package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/citsigol/internal/analysis"
	"github.com/san-kum/citsigol/internal/bifurc"
	"github.com/san-kum/citsigol/internal/config"
	"github.com/san-kum/citsigol/internal/dynmap"
	"github.com/san-kum/citsigol/internal/export"
	"github.com/san-kum/citsigol/internal/orbit"
	"github.com/san-kum/citsigol/internal/storage"
	"github.com/san-kum/citsigol/internal/tui"
	"github.com/san-kum/citsigol/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	rMin    float64
	rMax    float64
	xMin    float64
	xMax    float64
	width   int
	height  int
	mode    string
	burnIn  int
	samples int
	seed    float64
	// Orbit and reverse-orbit parameters
	param      float64
	steps      int
	depth      int
	target     float64
	directions string
	showTree   bool
	// Analysis
	clusterTol float64
	// Export
	svgScale float64
	// Config file and preset name
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "citsigol",
		Short: "iterated map explorer: bifurcation diagrams, forward and backward orbits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".citsigol", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "sample a bifurcation diagram and render it",
		RunE:  runBifurcation,
	}
	addViewFlags(bifurcationCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive diagram explorer",
		RunE:  runExplore,
	}
	addViewFlags(exploreCmd)

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "plot a forward orbit",
		RunE:  runOrbit,
	}
	orbitCmd.Flags().Float64Var(&param, "r", 3.6, "map parameter")
	orbitCmd.Flags().Float64Var(&seed, "seed", config.DefaultSeed, "starting value")
	orbitCmd.Flags().IntVar(&steps, "steps", 100, "iterations")

	reverseCmd := &cobra.Command{
		Use:   "reverse",
		Short: "trace backward orbits through the inverse map",
		RunE:  runReverse,
	}
	reverseCmd.Flags().Float64Var(&param, "r", 3.6, "map parameter")
	reverseCmd.Flags().Float64Var(&seed, "seed", config.DefaultSeed, "starting value")
	reverseCmd.Flags().IntVar(&depth, "depth", 8, "backward depth")
	reverseCmd.Flags().Float64Var(&target, "target", 0, "steer each step toward this value (seeker)")
	reverseCmd.Flags().StringVar(&directions, "directions", "", "comma-separated branch choices, e.g. 1,-1,1 (quest)")
	reverseCmd.Flags().BoolVar(&showTree, "tree", false, "print the full branch tree")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "periodicity analysis of a stored diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Float64Var(&clusterTol, "tol", 1e-3, "cluster separation tolerance")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "re-render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run points to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run diagram as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4.0, "pixels per braille dot")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tR RANGE\tX RANGE\tBURN-IN\tSAMPLES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t[%g, %g]\t%d\t%d\n",
					name, p.Mode,
					p.View.RMin, p.View.RMax,
					p.View.XMin, p.View.XMax,
					p.Sampling.BurnIn, p.Sampling.Samples,
				)
			}
			return w.Flush()
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "render a tour of the logistic map",
		RunE:  runDemo,
	}

	rootCmd.AddCommand(bifurcationCmd, exploreCmd, orbitCmd, reverseCmd, analyzeCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, demoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&rMin, "r-min", 2.8, "parameter range lower bound")
	cmd.Flags().Float64Var(&rMax, "r-max", 4.0, "parameter range upper bound")
	cmd.Flags().Float64Var(&xMin, "x-min", 0.0, "value range lower bound")
	cmd.Flags().Float64Var(&xMax, "x-max", 1.0, "value range upper bound")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "diagram width in characters")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "diagram height in characters")
	cmd.Flags().StringVar(&mode, "mode", "forward", "sampling mode: forward or reverse")
	cmd.Flags().IntVar(&burnIn, "burn-in", config.DefaultBurnIn, "iterations discarded before sampling")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "samples kept per parameter value")
	cmd.Flags().Float64Var(&seed, "seed", config.DefaultSeed, "starting value")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// resolveConfig merges preset, config file and flags, in increasing
// precedence. Flags only override when explicitly set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.View.RMin, cfg.View.RMax = 2.8, 4.0

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("r-min") {
		cfg.View.RMin = rMin
	}
	if cmd.Flags().Changed("r-max") {
		cfg.View.RMax = rMax
	}
	if cmd.Flags().Changed("x-min") {
		cfg.View.XMin = xMin
	}
	if cmd.Flags().Changed("x-max") {
		cfg.View.XMax = xMax
	}
	if cmd.Flags().Changed("width") {
		cfg.View.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.View.Height = height
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("burn-in") {
		cfg.Sampling.BurnIn = burnIn
	}
	if cmd.Flags().Changed("samples") {
		cfg.Sampling.Samples = samples
	}
	if cmd.Flags().Changed("seed") {
		cfg.Sampling.Seeds = []float64{seed}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mapFor(cfg *config.Config) (dynmap.Map, error) {
	switch cfg.Map {
	case "logistic":
		return dynmap.NewLogistic(), nil
	default:
		return nil, fmt.Errorf("unknown map: %s", cfg.Map)
	}
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	m, err := mapFor(cfg)
	if err != nil {
		return err
	}

	sampler := bifurc.New(m, cfg.SamplerConfig())
	defer sampler.Close()

	res, err := sampler.Sample(context.Background(), cfg.Window())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Map, cfg.Mode, sampler.Config(), res)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDiagram(res, cfg.View.Width, cfg.View.Height))
	fmt.Printf("\nrun id: %s\n", runID)
	fmt.Printf("points: %d  depth: %d\n", len(res.Points), res.Depth)

	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	m, err := mapFor(cfg)
	if err != nil {
		return err
	}

	log := newLogger()
	return tui.Run(m, cfg.SamplerConfig(), cfg.Window(), &log)
}

func runOrbit(cmd *cobra.Command, args []string) error {
	m := dynmap.NewLogistic()

	values := orbit.Forward(m, param, seed, steps)
	if len(values) == 0 {
		return fmt.Errorf("seed %g is outside the map domain", seed)
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("orbit of %g at r=%g", seed, param)),
	)
	fmt.Println(graph)

	if len(values) < steps {
		fmt.Printf("\norbit left the domain after %d steps\n", len(values))
	}

	return nil
}

func runReverse(cmd *cobra.Command, args []string) error {
	m := dynmap.NewLogistic()

	if cmd.Flags().Changed("target") {
		values := orbit.Walk(m, param, seed, depth, orbit.Seeker{Target: target})
		return printWalk(values, fmt.Sprintf("backward walk toward %g", target))
	}

	if directions != "" {
		dirs, err := parseDirections(directions)
		if err != nil {
			return err
		}
		values := orbit.Walk(m, param, seed, depth, orbit.Quest{Directions: dirs})
		return printWalk(values, "backward walk along itinerary")
	}

	bs := orbit.Backward(m, param, seed, depth, orbit.Options{RetainTree: showTree})
	values := bs.Snapshot()
	if len(values) == 0 {
		fmt.Printf("no preimages of %g at r=%g after depth %d\n", seed, param, bs.Depth())
		return nil
	}

	fmt.Printf("preimages of %g at r=%g, depth %d: %d branches (%d dropped)\n",
		seed, param, bs.Depth(), bs.Live(), bs.Dropped())
	for _, v := range values {
		fmt.Printf("  %.12g\n", v)
	}

	if showTree {
		fmt.Println("\nbranch tree:")
		for _, b := range bs.Tree() {
			fmt.Printf("  %s#%d %.12g (parent #%d)\n",
				strings.Repeat("  ", b.Depth), b.ID, b.Value, b.Parent)
		}
	}

	return nil
}

func printWalk(values []float64, caption string) error {
	if len(values) < 2 {
		return fmt.Errorf("walk terminated immediately: no preimages")
	}
	graph := asciigraph.Plot(values,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func parseDirections(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	dirs := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad direction %q: %w", p, err)
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(res.Points) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("periodicity analysis: %s\n", meta.ID)
	fmt.Printf("map: %s  mode: %s\n\n", meta.Map, meta.Mode)

	cascade := analysis.Cascade(res, clusterTol)
	series := analysis.ClusterSeries(cascade)

	graph := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("attractor clusters per parameter value"),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tONSET")
	for _, n := range []int{2, 4, 8} {
		if r, ok := analysis.OnsetOf(cascade, n); ok {
			fmt.Fprintf(w, "%d\t%.6f\n", n, r)
		} else {
			fmt.Fprintf(w, "%d\tnot in range\n", n)
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

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMAP\tMODE\tTIME\tR RANGE\tPOINTS\tDEPTH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t[%g, %g]\t%d\t%d\n",
			run.ID,
			run.Map,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.RMin, run.RMax,
			run.Points,
			run.Depth,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	if len(res.Points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	w, h := res.Window.Cols, res.Window.Rows
	if w > 200 {
		w = config.DefaultWidth
	}
	if h > 100 {
		h = config.DefaultHeight
	}

	fmt.Print(viz.RenderDiagram(res, w, h))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, res)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, meta.Map, meta.Mode, res)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	w, h := res.Window.Cols, res.Window.Rows
	if w > 200 {
		w = config.DefaultWidth
	}
	if h > 100 {
		h = config.DefaultHeight
	}

	canvas := viz.Plot(res, w, h)
	fmt.Println(export.CanvasToSVG(canvas, svgScale))
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	m := dynmap.NewLogistic()

	show := func(title string, cfg *config.Config) error {
		fmt.Printf("── %s ──\n\n", title)
		sampler := bifurc.New(m, cfg.SamplerConfig())
		defer sampler.Close()

		res, err := sampler.Sample(context.Background(), cfg.Window())
		if err != nil {
			return err
		}
		fmt.Print(viz.RenderDiagram(res, cfg.View.Width, cfg.View.Height))
		fmt.Println()
		return nil
	}

	if err := show("the full diagram", config.GetPreset("classic")); err != nil {
		return err
	}
	if err := show("period-doubling cascade", config.GetPreset("cascade")); err != nil {
		return err
	}
	return show("the map run backward", config.GetPreset("reverse"))
}
