// Package analysis runs the rule engine over many modules in parallel.
//
// Every module is analyzed independently: a module that fails to load or
// whose rules fail is reported in its [ModuleResult] and never fails the
// batch. Only cancellation of the context stops a run early.
package analysis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/ingest"
	"github.com/Sumatoshi-tech/bslint/pkg/observability"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

const tracerName = "bslint"

// StdinPath selects standard input as a module source.
const StdinPath = "-"

// Option configures a [Runner].
type Option func(*Runner)

// WithWorkers bounds concurrent module analyses. n <= 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer overrides the tracer, which defaults to the global provider's.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithMetrics records per-module metrics.
func WithMetrics(m *observability.AnalysisMetrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithStdin replaces standard input as the source of [StdinPath].
func WithStdin(in io.Reader) Option {
	return func(r *Runner) {
		r.stdin = in
	}
}

// Runner analyzes batches of modules. It is safe to reuse across runs.
type Runner struct {
	engine  *rules.Engine
	loader  *ingest.Loader
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.AnalysisMetrics
	stdin   io.Reader
}

// NewRunner creates a runner that loads trees with loader and checks them with engine.
func NewRunner(engine *rules.Engine, loader *ingest.Loader, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		loader: loader,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
		stdin:  os.Stdin,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.workers <= 0 {
		r.workers = runtime.NumCPU()
	}

	return r
}

// Workers returns the concurrency bound.
func (r *Runner) Workers() int {
	return r.workers
}

// Run loads and analyzes the module trees at paths. The returned report
// lists modules in input order. The error is non-nil only when ctx ended
// the run; the report then holds the modules that finished.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	return r.run(ctx, len(paths), func(ctx context.Context, i int) ModuleResult {
		return r.analyzePath(ctx, paths[i])
	})
}

// RunModules analyzes modules that are already in memory.
func (r *Runner) RunModules(ctx context.Context, mods []*ast.Module) (*Report, error) {
	return r.run(ctx, len(mods), func(ctx context.Context, i int) ModuleResult {
		mod := mods[i]
		if mod == nil {
			mod = &ast.Module{}
		}

		return r.analyze(ctx, ModuleResult{Path: mod.Name}, mod, time.Now())
	})
}

func (r *Runner) run(ctx context.Context, n int, job func(context.Context, int) ModuleResult) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Started: time.Now()}
	ctx = observability.WithRunID(ctx, report.RunID)

	ctx, span := r.tracer.Start(ctx, "bslint.batch", trace.WithAttributes(
		attribute.String("run.id", report.RunID),
		attribute.Int("batch.modules", n),
		attribute.Int("batch.workers", r.workers),
	))
	defer span.End()

	results := make([]ModuleResult, n)
	done := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range n {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = job(gctx, i)
			done[i] = true

			return nil
		})
	}

	waitErr := g.Wait()

	for i := range n {
		if done[i] {
			report.add(results[i])
		}
	}

	report.finish()

	span.SetAttributes(
		attribute.Int("batch.violations", len(report.Violations)),
		attribute.Int("batch.failed", len(report.Failed())),
	)

	r.logger.InfoContext(ctx, "batch analyzed",
		"modules", len(report.Modules),
		"violations", len(report.Violations),
		"failed", len(report.Failed()),
		"duration", report.Duration)

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "canceled")

		return report, err
	}

	if waitErr != nil {
		return report, waitErr
	}

	return report, nil
}

func (r *Runner) analyzePath(ctx context.Context, path string) ModuleResult {
	start := time.Now()
	res := ModuleResult{Path: path}

	var (
		mod *ast.Module
		err error
	)

	if path == StdinPath {
		res.Path = ingest.StdinSource
		mod, err = r.loader.Load(ctx, r.stdin, ingest.StdinSource, ingest.StdinSource)
	} else {
		mod, err = r.loader.LoadFile(ctx, path)
	}

	if err != nil {
		res.Module = mod.Name
		res.Status = observability.StatusFailed
		res.Err = err
		res.Duration = time.Since(start)

		r.metrics.RecordModule(ctx, res.stats())

		return res
	}

	return r.analyze(ctx, res, mod, start)
}

func (r *Runner) analyze(ctx context.Context, res ModuleResult, mod *ast.Module, start time.Time) ModuleResult {
	defer r.metrics.TrackInflight(ctx)()

	ctx, span := r.tracer.Start(ctx, "bslint.module", trace.WithAttributes(
		attribute.String("module.name", mod.Name),
	))
	defer span.End()

	out := r.engine.Analyze(mod)

	res.Module = mod.Name
	res.Violations = out.Violations
	res.Facts = out.Facts
	res.Err = out.Err()
	res.Duration = time.Since(start)

	for _, re := range out.RuleErrors() {
		res.RuleErrors = append(res.RuleErrors, re.Code)
	}

	res.Status = observability.StatusOK
	if res.Err != nil {
		res.Status = observability.StatusDegraded

		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "analysis degraded")
		r.logger.WarnContext(ctx, "module analyzed with errors", "module", mod.Name, "error", res.Err)
	}

	span.SetAttributes(attribute.Int("module.violations", len(res.Violations)))
	r.metrics.RecordModule(ctx, res.stats())

	r.logger.DebugContext(ctx, "module analyzed",
		"module", mod.Name,
		"violations", len(res.Violations),
		"duration", res.Duration)

	return res
}
