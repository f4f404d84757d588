package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricModulesTotal    = "bslint.modules.total"
	metricModuleDuration  = "bslint.module.duration.seconds"
	metricViolationsTotal = "bslint.violations.total"
	metricRuleErrorsTotal = "bslint.rule.errors.total"
	metricInflightModules = "bslint.inflight.modules"

	attrStatus   = "status"
	attrSeverity = "severity"
	attrRule     = "rule"

	// StatusOK marks a module analyzed without failures.
	StatusOK = "ok"
	// StatusDegraded marks a module analyzed with rule or traversal failures.
	StatusDegraded = "degraded"
	// StatusFailed marks a module that could not be loaded.
	StatusFailed = "failed"
)

// durationBucketBoundaries covers 1ms to 30s per module.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// AnalysisMetrics holds the instruments recorded by batch runs.
type AnalysisMetrics struct {
	modulesTotal    metric.Int64Counter
	moduleDuration  metric.Float64Histogram
	violationsTotal metric.Int64Counter
	ruleErrorsTotal metric.Int64Counter
	inflightModules metric.Int64UpDownCounter
}

// ModuleStats is what one module analysis contributes to the metrics.
type ModuleStats struct {
	Status     string
	Duration   time.Duration
	Violations map[string]int64
	RuleErrors []string
}

// NewAnalysisMetrics creates the instruments from mt.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	modules, err := mt.Int64Counter(metricModulesTotal,
		metric.WithDescription("Modules analyzed by status"),
		metric.WithUnit("{module}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricModulesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricModuleDuration,
		metric.WithDescription("Per-module analysis duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricModuleDuration, err)
	}

	violations, err := mt.Int64Counter(metricViolationsTotal,
		metric.WithDescription("Violations reported by severity"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViolationsTotal, err)
	}

	ruleErrors, err := mt.Int64Counter(metricRuleErrorsTotal,
		metric.WithDescription("Rule failures by rule code"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRuleErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightModules,
		metric.WithDescription("Modules being analyzed"),
		metric.WithUnit("{module}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightModules, err)
	}

	return &AnalysisMetrics{
		modulesTotal:    modules,
		moduleDuration:  duration,
		violationsTotal: violations,
		ruleErrorsTotal: ruleErrors,
		inflightModules: inflight,
	}, nil
}

// RecordModule records one finished module. Safe on a nil receiver.
func (am *AnalysisMetrics) RecordModule(ctx context.Context, stats ModuleStats) {
	if am == nil {
		return
	}

	status := metric.WithAttributes(attribute.String(attrStatus, stats.Status))
	am.modulesTotal.Add(ctx, 1, status)
	am.moduleDuration.Record(ctx, stats.Duration.Seconds(), status)

	for severity, n := range stats.Violations {
		am.violationsTotal.Add(ctx, n, metric.WithAttributes(attribute.String(attrSeverity, severity)))
	}

	for _, code := range stats.RuleErrors {
		am.ruleErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, code)))
	}
}

// TrackInflight increments the in-flight gauge and returns its decrement.
// Safe on a nil receiver.
func (am *AnalysisMetrics) TrackInflight(ctx context.Context) func() {
	if am == nil {
		return func() {}
	}

	am.inflightModules.Add(ctx, 1)

	return func() {
		am.inflightModules.Add(ctx, -1)
	}
}
