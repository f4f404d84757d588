package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bslint/pkg/analysis"
	"github.com/Sumatoshi-tech/bslint/pkg/config"
	"github.com/Sumatoshi-tech/bslint/pkg/dataflow"
	"github.com/Sumatoshi-tech/bslint/pkg/ingest"
	"github.com/Sumatoshi-tech/bslint/pkg/observability"
	"github.com/Sumatoshi-tech/bslint/pkg/report"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/catalog"
	"github.com/Sumatoshi-tech/bslint/pkg/version"
)

type observabilityInit func(observability.Config) (observability.Providers, error)

// CheckCommand holds flags and dependencies for the check command.
type CheckCommand struct {
	global *globalOptions

	format     string
	output     string
	failOn     string
	workers    int
	metricsOut string

	initObs observabilityInit
}

func newCheckCommand(g *globalOptions) *cobra.Command {
	return newCheckCommandWithDeps(g, observability.Init)
}

func newCheckCommandWithDeps(g *globalOptions, initObs observabilityInit) *cobra.Command {
	cc := &CheckCommand{global: g, initObs: initObs}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Analyze module trees and report violations",
		Long: `Analyze JSON module trees produced by the BSL parser.

With no files, or with "-", the tree is read from standard input.

Examples:
  bslint check Orders.json Catalog.json
  bslint check --format json --output report.json build/trees/*.json
  bsl-parse Orders.bsl | bslint check --fail-on WARNING`,
		RunE: cc.run,
	}

	cmd.Flags().StringVarP(&cc.format, "format", "f", string(report.FormatText), "Output format: text, json, yaml")
	cmd.Flags().StringVarP(&cc.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&cc.failOn, "fail-on", string(rules.SeverityError),
		"Exit with code 1 when a violation at or above this severity exists (INFO, WARNING, ERROR, CRITICAL)")
	cmd.Flags().IntVarP(&cc.workers, "workers", "w", 0, "Number of parallel workers (0 = from config, else CPU count)")
	cmd.Flags().StringVar(&cc.metricsOut, "metrics-out", "", "Write Prometheus metrics in textfile format to this path")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(cc.format)
	if err != nil {
		return err
	}

	failOn, err := rules.ParseSeverity(cc.failOn)
	if err != nil {
		return fmt.Errorf("--fail-on: %w", err)
	}

	cfg, err := cc.global.load()
	if err != nil {
		return err
	}

	if cc.workers > 0 {
		cfg.Analysis.Workers = cc.workers
	}

	if cc.metricsOut != "" {
		cfg.Telemetry.MetricsFile = cc.metricsOut
	}

	obsCfg := observability.FromSettings(cfg, version.Version, observability.ModeBatch)
	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := cc.initObs(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	logger := providers.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if providers.Shutdown == nil {
			return
		}

		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	runner, err := cc.buildRunner(cmd, cfg, providers, logger)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{analysis.StdinPath}
	}

	rep, err := runner.Run(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	err = cc.writeReport(cmd, rep, format)
	if err != nil {
		return err
	}

	if cfg.Telemetry.MetricsFile != "" {
		err = observability.WriteTextfile(providers.Registry, cfg.Telemetry.MetricsFile)
		if err != nil {
			return err
		}
	}

	if rep.HasAtLeast(failOn) {
		return fmt.Errorf("%w at or above %s", ErrViolationsFound, failOn)
	}

	return nil
}

func (cc *CheckCommand) buildRunner(
	cmd *cobra.Command,
	cfg *config.Config,
	providers observability.Providers,
	logger *slog.Logger,
) (*analysis.Runner, error) {
	active, err := catalog.FromConfig(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("configure rules: %w", err)
	}

	maxBytes, err := cfg.Analysis.MaxInputBytes()
	if err != nil {
		return nil, err
	}

	engine := rules.NewEngine(active,
		rules.WithLogger(logger),
		rules.WithExemptExported(cfg.Analysis.ExemptExportedUnused),
		rules.WithDataflowOptions(dataflow.WithMaxIterations(cfg.Analysis.MaxIterations)),
	)

	loader := ingest.NewLoader(
		ingest.WithMaxSize(maxBytes),
		ingest.WithStrictSchema(cfg.Analysis.StrictSchema),
		ingest.WithLogger(logger),
	)

	opts := []analysis.Option{
		analysis.WithWorkers(cfg.Analysis.Workers),
		analysis.WithLogger(logger),
		analysis.WithTracer(providers.Tracer),
		analysis.WithStdin(cmd.InOrStdin()),
	}

	if providers.Meter != nil {
		metrics, metricsErr := observability.NewAnalysisMetrics(providers.Meter)
		if metricsErr != nil {
			return nil, fmt.Errorf("create metrics: %w", metricsErr)
		}

		opts = append(opts, analysis.WithMetrics(metrics))
	}

	return analysis.NewRunner(engine, loader, opts...), nil
}

func (cc *CheckCommand) writeReport(cmd *cobra.Command, rep *analysis.Report, format report.Format) (err error) {
	var w io.Writer = cmd.OutOrStdout()

	colored := cc.global.colored()

	if cc.output != "" {
		f, createErr := os.Create(cc.output)
		if createErr != nil {
			return fmt.Errorf("create report file: %w", createErr)
		}

		defer func() {
			err = errors.Join(err, f.Close())
		}()

		w = f
		colored = false
	}

	return report.Write(w, rep, report.Options{
		Format:   format,
		Color:    colored,
		Snippets: cc.global.verbose,
	})
}
