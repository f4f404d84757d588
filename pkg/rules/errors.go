package rules

import (
	"errors"
	"fmt"
)

// ErrRulePanic marks a rule hook that panicked.
var ErrRulePanic = errors.New("rule panicked")

// RuleError attributes a failure to the rule that raised it.
type RuleError struct {
	Code string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Code, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
