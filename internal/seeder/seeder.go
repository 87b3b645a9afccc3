package seeder

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Rana718/hospigen/internal/export"
	"github.com/Rana718/hospigen/internal/geography"
	"github.com/Rana718/hospigen/internal/planner"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures one generation run.
type Options struct {
	Total     int
	Targets   planner.Targets
	FillTable string // patient or employee; empty disables the top-up
	Seed      uint64
	CreatedBy string
	Now       time.Time

	Geography GeographySource // nil generates geography locally
	Dialing   *geography.DialingCodes
	Medicines MedicineSource // nil generates medicines locally

	Sink   export.Sink
	Logger *zap.Logger
	RunID  string
	Quiet  bool
}

// Seeder runs the table generators stage by stage.
type Seeder struct {
	opts     Options
	specs    map[string]*TableSpec
	stages   [][]string
	progress *Progress
	logger   *zap.Logger
}

// New builds the stage layout and checks the targets against the pool
// constraints. No generator runs before both succeed.
func New(opts Options) (*Seeder, error) {
	return newWithSpecs(Specs(), opts)
}

func newWithSpecs(specs []*TableSpec, opts Options) (*Seeder, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("no output sink configured")
	}
	if opts.FillTable != "" && opts.FillTable != planner.Patient && opts.FillTable != planner.Employee {
		return nil, fmt.Errorf("fill table must be %s or %s, got %s", planner.Patient, planner.Employee, opts.FillTable)
	}

	stages, err := plan(specs, opts)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*TableSpec, len(specs))
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
		names = append(names, spec.Name)
	}
	return &Seeder{
		opts:     opts,
		specs:    byName,
		stages:   stages,
		progress: NewProgress(names),
		logger:   opts.Logger.Named("seeder"),
	}, nil
}

// Plan returns the stage layout for opts.Targets after checking the pool
// constraints. Nothing is generated.
func Plan(opts Options) ([][]string, error) {
	return plan(Specs(), opts)
}

func plan(specs []*TableSpec, opts Options) ([][]string, error) {
	graph := NewDependencyGraph()
	for _, spec := range specs {
		graph.AddTable(spec)
	}
	stages, err := graph.BuildStages()
	if err != nil {
		return nil, fmt.Errorf("failed to build generation stages: %w", err)
	}
	if err := Validate(specs, opts.Targets, opts); err != nil {
		return nil, err
	}
	return stages, nil
}

// Stages returns the generation order: tables in one stage run concurrently.
func (s *Seeder) Stages() [][]string {
	return s.stages
}

func (s *Seeder) Progress() *Progress {
	return s.progress
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID    string
	Target   int
	Produced int
	TopUp    int
	Tables   map[string]int
	Elapsed  time.Duration
}

// Remaining is the part of the target that was not produced.
func (s *Summary) Remaining() int {
	return max(s.Target-s.Produced, 0)
}

func (s *Summary) Percent() float64 {
	if s.Target == 0 {
		return 100
	}
	return float64(s.Produced) / float64(s.Target) * 100
}

// Run executes every stage, then tops up the fill table. The first failing
// generator aborts the run.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	gc := newGenContext(s.opts)
	gc.Logger = s.logger

	s.logger.Info("generation started",
		zap.String("run_id", s.opts.RunID),
		zap.Int("total", s.opts.Total),
		zap.Int("stages", len(s.stages)))

	for i, stage := range s.stages {
		s.say(color.New(color.FgCyan), "📋 Stage %d: %s\n", i, strings.Join(stage, ", "))
		if err := s.runStage(ctx, gc, stage); err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, strings.Join(stage, ", "), err)
		}
	}

	topUp, err := s.topUp(ctx, gc)
	if err != nil {
		return nil, fmt.Errorf("top-up of %s: %w", s.opts.FillTable, err)
	}

	summary := &Summary{
		RunID:    s.opts.RunID,
		Target:   s.opts.Total,
		Produced: s.progress.Produced(),
		TopUp:    topUp,
		Tables:   s.progress.Snapshot(),
		Elapsed:  time.Since(start),
	}
	s.logger.Info("generation finished",
		zap.String("run_id", s.opts.RunID),
		zap.Int("produced", summary.Produced),
		zap.Int("top_up", topUp),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func (s *Seeder) runStage(ctx context.Context, gc *GenContext, stage []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range stage {
		spec := s.specs[name]
		req := Request{Target: s.opts.Targets.Get(name)}
		if !scheduled(name, s.opts.Targets, s.opts) {
			s.logger.Debug("table skipped, no rows planned", zap.String("table", name))
			continue
		}
		g.Go(func() error {
			if err := s.generate(gctx, gc, spec, req); err != nil {
				return fmt.Errorf("table %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// generate runs one generator, streams its rows to the sink and publishes
// the retained columns for dependent tables.
func (s *Seeder) generate(ctx context.Context, gc *GenContext, spec *TableSpec, req Request) error {
	began := time.Now()
	t, err := spec.Gen(ctx, gc, req)
	if err != nil {
		return err
	}
	if err := s.opts.Sink.Write(ctx, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", spec.Physical, err)
	}
	s.progress.Add(spec.Name, t.Len())

	if len(spec.Retain) > 0 {
		gc.publish(spec.Name, t.Project(spec.Retain...))
	}

	s.logger.Debug("table generated",
		zap.String("table", spec.Name),
		zap.Int("rows", t.Len()),
		zap.Int("target", req.Target),
		zap.Duration("took", time.Since(began)))
	s.say(color.New(color.FgGreen), "  ✅ %s: %s rows\n", spec.Physical, humanize.Comma(int64(t.Len())))
	return nil
}

// topUp is a best-effort reconciliation: any shortfall against the global
// total is generated as extra rows of the fill table. It does not preserve
// the proportional weights.
func (s *Seeder) topUp(ctx context.Context, gc *GenContext) (int, error) {
	discrepancy := s.opts.Total - s.progress.Produced()
	if discrepancy <= 0 || s.opts.FillTable == "" {
		return 0, nil
	}
	spec := s.specs[s.opts.FillTable]

	start := int64(0)
	if prev, err := gc.Parent(spec.Name); err == nil {
		start = prev.MaxInt(spec.Key) + 1
	}

	s.logger.Info("topping up shortfall",
		zap.String("table", spec.Name),
		zap.Int("rows", discrepancy),
		zap.Int64("start_id", start))
	s.say(color.New(color.FgYellow), "⚠️  Topping up %s with %s rows\n", spec.Name, humanize.Comma(int64(discrepancy)))

	if err := s.generate(ctx, gc, spec, Request{Target: discrepancy, StartID: start}); err != nil {
		return 0, err
	}
	return discrepancy, nil
}

func (s *Seeder) say(c *color.Color, format string, args ...interface{}) {
	if s.opts.Quiet {
		return
	}
	c.Fprintf(color.Output, format, args...)
}

// Print writes the final summary.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w)
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✅ Generation finished in %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "   Generated: %s of %s (%.2f%%)\n",
		humanize.Comma(int64(s.Produced)), humanize.Comma(int64(s.Target)), s.Percent())
	if s.Remaining() > 0 {
		color.New(color.FgYellow).Fprintf(w, "   Remaining: %s\n", humanize.Comma(int64(s.Remaining())))
	}
	if s.TopUp > 0 {
		fmt.Fprintf(w, "   Top-up:    %s\n", humanize.Comma(int64(s.TopUp)))
	}
	if s.RunID != "" {
		fmt.Fprintf(w, "   Run:       %s\n", s.RunID)
	}
}
