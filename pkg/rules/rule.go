// Package rules evaluates style and quality rules against a module.
//
// A [Rule] always implements Check over a whole module. It may also implement
// any of the hook interfaces below; hooks are resolved once when a rule is
// registered and are then called by a [Checker] during the shared traversal,
// so per-node rules never walk the tree themselves.
package rules

import (
	"fmt"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/collector"
	"github.com/Sumatoshi-tech/bslint/pkg/dataflow"
)

// Rule is a pluggable predicate over a module.
type Rule interface {
	Code() string
	Name() string
	Description() string
	Severity() Severity
	Check(mod *ast.Module) ([]Violation, error)
}

// Site describes where in the traversal a hook is invoked.
type Site struct {
	Module      *ast.Module
	Scope       string
	Routine     string
	InLoop      bool
	InCondition bool
}

// FunctionChecker is called for every function.
type FunctionChecker interface {
	CheckFunction(fn *ast.Function, site Site) ([]Violation, error)
}

// ProcedureChecker is called for every procedure.
type ProcedureChecker interface {
	CheckProcedure(proc *ast.Procedure, site Site) ([]Violation, error)
}

// VariableChecker is called for every module-level and local variable declaration.
type VariableChecker interface {
	CheckVariable(decl *ast.VariableDeclaration, site Site) ([]Violation, error)
}

// FactsChecker is called once after the traversal with the collected facts.
type FactsChecker interface {
	CheckFacts(facts *Facts) ([]Violation, error)
}

// SeverityOverrider is implemented by rules whose severity can be reconfigured.
type SeverityOverrider interface {
	SetSeverity(s Severity)
}

// Facts bundles what the collectors learned about a module.
type Facts struct {
	Module    *ast.Module
	Functions *collector.FunctionCollector
	Variables *collector.VariableCollector
	DataFlow  *dataflow.Collector
}

// Base carries rule identity and builds violations. Rules embed it.
type Base struct {
	code        string
	name        string
	description string
	severity    Severity
}

// NewBase creates a rule identity.
func NewBase(code, name, description string, severity Severity) Base {
	return Base{code: code, name: name, description: description, severity: severity}
}

func (b *Base) Code() string        { return b.code }
func (b *Base) Name() string        { return b.name }
func (b *Base) Description() string { return b.description }
func (b *Base) Severity() Severity  { return b.severity }

// SetSeverity overrides the default severity.
func (b *Base) SetSeverity(s Severity) {
	b.severity = s
}

// Violation reports a failure located at n. A nil n or a node without range
// yields line and column 0.
func (b *Base) Violation(mod *ast.Module, n ast.Node, format string, args ...any) Violation {
	return b.ViolationAt(mod, ast.LineOf(n), ast.ColumnOf(n), format, args...)
}

// ViolationAt reports a failure at an explicit position.
func (b *Base) ViolationAt(mod *ast.Module, line, column uint, format string, args ...any) Violation {
	v := Violation{
		RuleCode:    b.code,
		RuleName:    b.name,
		Severity:    b.severity,
		Line:        line,
		Column:      column,
		Message:     fmt.Sprintf(format, args...),
		CodeSnippet: Snippet(mod, line),
	}

	if mod != nil {
		v.ModuleName = mod.Name
	}

	return v
}

// CheckHooks runs the hooks of r over mod in a fresh traversal. Hook-based
// rules use it to implement Check. A rule without hooks must not call it.
func CheckHooks(mod *ast.Module, r Rule) ([]Violation, error) {
	res := NewEngine([]Rule{r}).Analyze(mod)

	return res.Violations, res.Err()
}
