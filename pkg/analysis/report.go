package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/bslint/pkg/observability"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// ModuleResult is the outcome for one input.
type ModuleResult struct {
	// Path is the input the module came from, or its name for in-memory modules.
	Path       string
	Module     string
	Status     string
	Violations []rules.Violation
	// Facts is nil when the module failed to load.
	Facts      *rules.Facts
	RuleErrors []string
	Duration   time.Duration
	Err        error
}

// Failed reports whether the module could not be analyzed completely.
func (m *ModuleResult) Failed() bool {
	return m.Err != nil
}

func (m *ModuleResult) stats() observability.ModuleStats {
	counts := make(map[string]int64)
	for _, v := range m.Violations {
		counts[string(v.Severity)]++
	}

	return observability.ModuleStats{
		Status:     m.Status,
		Duration:   m.Duration,
		Violations: counts,
		RuleErrors: m.RuleErrors,
	}
}

// Report is the outcome of one batch run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Modules  []ModuleResult
	// Violations holds every module's violations in (module, line, column, code) order.
	Violations []rules.Violation
}

func (r *Report) add(m ModuleResult) {
	r.Modules = append(r.Modules, m)
	r.Violations = append(r.Violations, m.Violations...)
}

func (r *Report) finish() {
	rules.SortViolations(r.Violations)
	r.Duration = time.Since(r.Started)
}

// Failed returns the modules that could not be analyzed completely.
func (r *Report) Failed() []ModuleResult {
	var out []ModuleResult

	for _, m := range r.Modules {
		if m.Failed() {
			out = append(out, m)
		}
	}

	return out
}

// CountBySeverity counts violations per severity.
func (r *Report) CountBySeverity() map[rules.Severity]int {
	out := make(map[rules.Severity]int)
	for _, v := range r.Violations {
		out[v.Severity]++
	}

	return out
}

// HasAtLeast reports whether any violation is as severe as s.
func (r *Report) HasAtLeast(s rules.Severity) bool {
	for _, v := range r.Violations {
		if v.Severity.AtLeast(s) {
			return true
		}
	}

	return false
}

// Err joins the failures of every module, each prefixed with its path.
func (r *Report) Err() error {
	var errs []error

	for _, m := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", m.Path, m.Err))
	}

	return errors.Join(errs...)
}
