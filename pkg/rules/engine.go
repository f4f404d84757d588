package rules

import (
	"errors"
	"log/slog"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/collector"
	"github.com/Sumatoshi-tech/bslint/pkg/dataflow"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

// Result is the outcome of analyzing one module.
type Result struct {
	Module     string
	Violations []Violation
	Facts      *Facts

	err error
}

// Err joins rule, visitor and traversal failures. Violations are still valid
// when Err is non-nil; they cover everything that did not fail.
func (r *Result) Err() error {
	return r.err
}

// RuleErrors returns the failures attributed to individual rules.
func (r *Result) RuleErrors() []*RuleError {
	var out []*RuleError

	collectRuleErrors(r.err, &out)

	return out
}

func collectRuleErrors(err error, out *[]*RuleError) {
	if err == nil {
		return
	}

	if re, ok := err.(*RuleError); ok { //nolint:errorlint // walking the join tree by hand
		*out = append(*out, re)

		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok { //nolint:errorlint // same
		for _, e := range joined.Unwrap() {
			collectRuleErrors(e, out)
		}
	}
}

// EngineOption configures an [Engine].
type EngineOption func(*Engine)

// WithLogger sets the logger used to report degraded results.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExemptExported excludes exported routines from unused-routine facts.
func WithExemptExported(exempt bool) EngineOption {
	return func(e *Engine) {
		e.exemptExported = exempt
	}
}

// WithDataflowOptions passes options to the reaching-definitions analysis.
func WithDataflowOptions(opts ...dataflow.Option) EngineOption {
	return func(e *Engine) {
		e.dataflow = append(e.dataflow, opts...)
	}
}

// Engine evaluates an ordered set of rules against modules. Rules are shared
// read-only, so one Engine may analyze several modules concurrently.
type Engine struct {
	rules          []Rule
	logger         *slog.Logger
	exemptExported bool
	dataflow       []dataflow.Option
}

// NewEngine creates an engine over rules, evaluated in the given order.
func NewEngine(rules []Rule, opts ...EngineOption) *Engine {
	e := &Engine{rules: rules, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rules returns the registered rules.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Analyze walks mod once with the collectors, the data-flow collector and the
// rule checker composed under a context visitor, runs facts rules, and sorts
// the violations. A nil module is analyzed as an empty one.
func (e *Engine) Analyze(mod *ast.Module) *Result {
	if mod == nil {
		mod = &ast.Module{}
	}

	ctx := visitor.NewContext(mod.Name)
	funcs := collector.NewFunctionCollector(ctx, collector.WithExemptExported(e.exemptExported))
	vars := collector.NewVariableCollector(ctx)
	flow := dataflow.NewCollector(e.dataflow...)
	checker := NewChecker(ctx, e.rules...)

	comp := visitor.NewComposite(funcs, vars, flow, checker)
	walkErr := visitor.NewContextVisitor(comp, ctx).Walk(mod)

	facts := &Facts{Module: mod, Functions: funcs, Variables: vars, DataFlow: flow}
	if walkErr == nil {
		checker.CheckFacts(facts)
	}

	violations := append([]Violation(nil), checker.Violations()...)
	SortViolations(violations)

	res := &Result{
		Module:     mod.Name,
		Violations: violations,
		Facts:      facts,
		err:        errors.Join(walkErr, comp.Err()),
	}

	if res.err != nil {
		e.logger.Warn("module analyzed with errors",
			"module", mod.Name,
			"violations", len(violations),
			"error", res.err)
	}

	return res
}
