package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphflow/internal/analysis"
	"github.com/san-kum/glyphflow/internal/config"
	"github.com/san-kum/glyphflow/internal/engine"
	"github.com/san-kum/glyphflow/internal/export"
	"github.com/san-kum/glyphflow/internal/formation"
	"github.com/san-kum/glyphflow/internal/gui"
	"github.com/san-kum/glyphflow/internal/metrics"
	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/phase"
	"github.com/san-kum/glyphflow/internal/storage"
	"github.com/san-kum/glyphflow/internal/vecmath"
	"github.com/san-kum/glyphflow/internal/viz"
)

var (
	dataDir    string
	particles  int
	dt         float64
	duration   float64
	backend    string
	configFile string
	preset     string
	verbose    bool
	svgScale   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glyphflow",
		Short: "particle text and flow choreography engine",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the GUI when no command given
			eng := engine.New(particles, backend)
			gui.Run(eng, config.DefaultDt)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glyphflow", "data directory")
	rootCmd.PersistentFlags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "cpu", "compute backend (cpu, opengl)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a timeline headless and store the result",
		RunE:  runTimeline,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&configFile, "config", "", "timeline config file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset timeline")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "print phase and pattern events")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive preview window",
		Run: func(cmd *cobra.Command, args []string) {
			eng := engine.New(particles, backend)
			gui.Run(eng, config.DefaultDt)
		},
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list flow patterns",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range pattern.Names() {
				fmt.Println(name)
			}
		},
	}

	animationsCmd := &cobra.Command{
		Use:   "animations",
		Short: "list formation animations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range formation.Names() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset timelines",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run curves",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
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
		Short: "export the convergence curve as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [text]",
		Short: "render text as a particle snapshot SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotText,
	}
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 4.0, "svg dot scale")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integration kernel",
		RunE:  benchKernel,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of run curves",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, patternsCmd, animationsCmd, presetsCmd,
		listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		snapshotCmd, benchCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cueOptions converts an authored cue to engine options.
func cueOptions(c config.Cue) engine.Options {
	opts := engine.Options{
		Animation:         c.Animation,
		TargetWidth:       c.TargetWidth,
		Align:             c.Align,
		MaxConvergence:    c.MaxConv,
		HoldDuration:      c.Hold,
		ReleaseSpeed:      c.ReleaseSpeed,
		DissolveMode:      c.Dissolve,
		Scale:             c.Scale,
		BackgroundPattern: c.Background,
		TextRatio:         c.TextRatio,
		ParticleGroup:     c.Group,
		GroupBPattern:     c.GroupBPattern,
		GroupBConvergence: c.GroupBConv,
		Physics:           c.Physics.ToMacro(),
	}
	if v, ok := cueVec(c.ViewDirection); ok {
		opts.ViewDirection = &v
	}
	if v, ok := cueVec(c.Origin); ok {
		opts.Origin = &v
	}
	return opts
}

func cueVec(raw []float64) (vecmath.Vec3, bool) {
	if len(raw) != 3 {
		return vecmath.Vec3{}, false
	}
	return vecmath.Vec3{X: float32(raw[0]), Y: float32(raw[1]), Z: float32(raw[2])}, true
}

func applyCue(eng *engine.Engine, c config.Cue) {
	switch c.Cmd {
	case "text":
		eng.SetText(c.Text, cueOptions(c))
	case "sculpture":
		eng.SetShadowSculptureTarget(c.Text, c.TextB, cueOptions(c))
	case "flow":
		eng.SetFlowTargets(c.Pattern, cueOptions(c))
	case "layers":
		specs := make([]engine.LayerSpec, 0, len(c.Layers))
		for _, l := range c.Layers {
			spec := engine.LayerSpec{Pattern: l.Pattern, Scale: float32(l.Scale)}
			if v, ok := cueVec(l.Origin); ok {
				spec.Origin = v
			}
			specs = append(specs, spec)
		}
		eng.SetFlowTargetsMultiLayer(specs)
	case "mode":
		eng.SetMode(c.Mode, c.Pattern, cueOptions(c))
	case "snap":
		eng.SnapToTargets()
	}
}

// eventPrinter logs phase machine transitions during headless runs.
type eventPrinter struct {
	clock func() float64
}

func (p eventPrinter) OnPhaseChange(group int, from, to phase.Phase) {
	fmt.Printf("%7.2fs  group %d  %s -> %s\n", p.clock(), group, from, to)
}

func (p eventPrinter) OnPatternChange(group int, name string) {
	fmt.Printf("%7.2fs  group %d  pattern %s\n", p.clock(), group, name)
}

func (p eventPrinter) OnTextCommitted(group int, text string) {
	fmt.Printf("%7.2fs  group %d  text %q\n", p.clock(), group, text)
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = backend
	}
	if cfg.Backend == "" {
		cfg.Backend = backend
	}
	return cfg, cfg.Validate()
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng := engine.New(cfg.Particles, cfg.Backend)
	if cfg.Curve != nil {
		eng.SetCurve(*cfg.Curve)
	}

	clock := 0.0
	if verbose {
		eng.SetEvents(eventPrinter{clock: func() float64 { return clock }})
	}

	mets := metrics.Defaults()
	steps := int(cfg.Duration / cfg.Dt)
	frameStride := steps / 600
	if frameStride < 1 {
		frameStride = 1
	}
	frames := make([]storage.Frame, 0, steps/frameStride+1)

	fmt.Printf("running %d particles for %.1fs on %s...\n", cfg.Particles, cfg.Duration, cfg.Backend)
	start := time.Now()

	cueIdx := 0
	for s := 0; s < steps; s++ {
		clock = float64(s) * cfg.Dt
		for cueIdx < len(cfg.Timeline) && cfg.Timeline[cueIdx].At <= clock {
			applyCue(eng, cfg.Timeline[cueIdx])
			cueIdx++
		}

		eng.Update(engine.TickContext{
			Delta:     cfg.Dt,
			Elapsed:   clock,
			MusicTime: clock,
			CameraPos: vecmath.Vec3{Z: 55},
		})

		stats := eng.GetStats()
		for _, m := range mets {
			m.Observe(stats, clock)
		}
		if s%frameStride == 0 {
			frames = append(frames, storage.Frame{
				Time:         clock,
				PhaseA:       stats.PhaseA,
				PhaseB:       stats.PhaseB,
				ConvergenceA: stats.ConvergenceA,
				ConvergenceB: stats.ConvergenceB,
				MeanSpeed:    stats.MeanSpeed,
				Kinetic:      stats.KineticEnergy,
				Spread:       stats.Spread,
			})
		}
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:    preset,
		Particles: cfg.Particles,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Backend:   cfg.Backend,
		Metrics:   make(map[string]float64, len(mets)),
	}
	for _, m := range mets {
		meta.Metrics[m.Name()] = m.Value()
	}

	runID, err := st.Save(meta, frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(steps)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	eng := engine.New(particles, backend)
	m := viz.NewModel(eng, dt)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tDURATION\tDT\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Dt,
			run.Backend,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Particles)
	fmt.Printf("samples: %d\n\n", len(frames))

	curves := []struct {
		name    string
		extract func(storage.Frame) float64
	}{
		{"convergence A", func(f storage.Frame) float64 { return f.ConvergenceA }},
		{"convergence B", func(f storage.Frame) float64 { return f.ConvergenceB }},
		{"mean speed", func(f storage.Frame) float64 { return f.MeanSpeed }},
		{"spread", func(f storage.Frame) float64 { return f.Spread }},
	}

	for _, c := range curves {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = c.extract(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "phase_a", "phase_b", "conv_a", "conv_b", "mean_speed", "kinetic", "spread"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			f.PhaseA,
			f.PhaseB,
			strconv.FormatFloat(f.ConvergenceA, 'f', 6, 64),
			strconv.FormatFloat(f.ConvergenceB, 'f', 6, 64),
			strconv.FormatFloat(f.MeanSpeed, 'f', 6, 64),
			strconv.FormatFloat(f.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(f.Spread, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	times := make([]float64, len(frames))
	conv := make([]float64, len(frames))
	for i, f := range frames {
		times[i] = f.Time
		conv[i] = f.ConvergenceA
	}
	fmt.Println(export.CurveToSVG(times, conv, 800, 300, "#8be9fd"))
	return nil
}

// snapshotText forms the text instantly on a small population and renders the
// projected cloud as SVG dots.
func snapshotText(cmd *cobra.Command, args []string) error {
	n := particles
	if n > 50000 {
		n = 50000
	}
	eng := engine.New(n, "cpu")
	eng.SetText(args[0], engine.Options{Animation: "directSnap"})
	eng.SnapToTargets()

	canvas := viz.NewCanvas(120, 40)
	camera := viz.NewCamera()
	buf := eng.Buffers()
	sw, sh := canvas.Width*2, canvas.Height*4
	for i := 0; i < buf.N; i++ {
		x, y, ok := camera.Project(buf.PosAt(i), sw, sh)
		if ok {
			canvas.Set(x, y)
		}
	}

	fmt.Println(export.CanvasToSVG(canvas, svgScale))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("not enough data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = f.MeanSpeed
	}
	sampleDt := (frames[len(frames)-1].Time - frames[0].Time) / float64(len(frames)-1)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean speed)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func benchKernel(cmd *cobra.Command, args []string) error {
	sizes := []int{10000, 100000, 500000}
	const steps = 120

	fmt.Printf("benchmarking %s backend\n\n", backend)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC\tM PARTICLES/SEC")

	for _, n := range sizes {
		eng := engine.New(n, backend)
		eng.SetText("BENCH", engine.Options{Animation: "directSnap"})

		start := time.Now()
		for s := 0; s < steps; s++ {
			t := float64(s) * config.DefaultDt
			eng.Update(engine.TickContext{
				Delta:     config.DefaultDt,
				Elapsed:   t,
				MusicTime: t,
				CameraPos: vecmath.Vec3{Z: 55},
			})
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.2f\n",
			n, steps, elapsed.Round(time.Millisecond), stepsPerSec,
			stepsPerSec*float64(n)/1e6)
	}

	return w.Flush()
}
