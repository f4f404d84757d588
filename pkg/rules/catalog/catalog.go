// Package catalog assembles the built-in rule set from configuration.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/config"
	"github.com/Sumatoshi-tech/bslint/pkg/levenshtein"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/flow"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/naming"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/routines"
)

// ErrUnknownRule is returned when configuration names a code no rule has.
var ErrUnknownRule = errors.New("unknown rule code")

// suggestDistance bounds how far a typo may be from a known code to be suggested.
const suggestDistance = 2

// All returns every built-in rule tuned by cfg, in catalog order.
func All(cfg config.RulesConfig) []rules.Rule {
	counters := cfg.LoopCounters
	if counters == nil {
		counters = config.DefaultLoopCounters
	}

	return []rules.Rule{
		naming.NewMeaningfulName(),
		naming.NewCamelCase(),
		naming.NewNoUnderscorePrefix(),
		naming.NewMinLength(counters),
		naming.NewFlagNames(),
		routines.NewOneStatementPerLine(),
		routines.NewEmptyProcedure(),
		routines.NewProcedureLength(uint(max(cfg.MaxProcedureLines, 0))),
		routines.NewTooManyParameters(cfg.MaxParameters, cfg.MaxDefaultParameters),
		routines.NewMissingComment(),
		flow.NewUnusedRoutine(),
		flow.NewRecursiveRoutine(),
		flow.NewMissingReturnValue(),
		flow.NewDeadStore(),
		flow.NewUseBeforeAssignment(),
	}
}

// Default returns every built-in rule with default thresholds.
func Default() []rules.Rule {
	return All(config.Default().Rules)
}

// FromConfig returns the active rules: the catalog minus disabled codes, with
// severity overrides applied. Codes are matched case-insensitively.
func FromConfig(cfg config.RulesConfig) ([]rules.Rule, error) {
	all := All(cfg)

	known := make(map[string]rules.Rule, len(all))
	codes := make([]string, 0, len(all))

	for _, r := range all {
		known[strings.ToUpper(r.Code())] = r
		codes = append(codes, strings.ToUpper(r.Code()))
	}

	var errs []error

	disabled := make(map[string]bool, len(cfg.Disabled))

	for _, code := range cfg.Disabled {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := known[code]; !ok {
			errs = append(errs, unknownRule("disabled", code, codes))

			continue
		}

		disabled[code] = true
	}

	for _, code := range slices.Sorted(maps.Keys(cfg.Severity)) {
		name := cfg.Severity[code]

		r, ok := known[strings.ToUpper(code)]
		if !ok {
			errs = append(errs, unknownRule("severity override", strings.ToUpper(code), codes))

			continue
		}

		sev, err := rules.ParseSeverity(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", r.Code(), err))

			continue
		}

		if o, ok := r.(rules.SeverityOverrider); ok {
			o.SetSeverity(sev)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	active := slices.DeleteFunc(all, func(r rules.Rule) bool {
		return disabled[strings.ToUpper(r.Code())]
	})

	return active, nil
}

func unknownRule(where, code string, codes []string) error {
	if hint, ok := levenshtein.Closest(code, codes, suggestDistance); ok {
		return fmt.Errorf("%w: %s %q (did you mean %s?)", ErrUnknownRule, where, code, hint)
	}

	return fmt.Errorf("%w: %s %q", ErrUnknownRule, where, code)
}
