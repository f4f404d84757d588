// Package flow holds rules evaluated on collected facts: the call graph and
// reaching definitions.
package flow

import (
	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/collector"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// Rule codes.
const (
	CodeUnusedRoutine       = "FUN-06"
	CodeRecursiveRoutine    = "FUN-07"
	CodeMissingReturnValue  = "FUN-08"
	CodeDeadStore           = "DFA-01"
	CodeUseBeforeAssignment = "DFA-02"
)

// UnusedRoutine flags routines that no routine of the module calls.
type UnusedRoutine struct {
	rules.Base
}

// NewUnusedRoutine creates FUN-06.
func NewUnusedRoutine() *UnusedRoutine {
	return &UnusedRoutine{Base: rules.NewBase(CodeUnusedRoutine,
		"Unused routine",
		"Every routine should be called from somewhere in the module",
		rules.SeverityWarning)}
}

func (r *UnusedRoutine) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *UnusedRoutine) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	var out []rules.Violation

	for _, info := range f.Functions.UnusedRoutines() {
		out = append(out, r.Violation(f.Module, info.Node(),
			"%s '%s' is never called in this module", info.Kind, info.Name))
	}

	return out, nil
}

// RecursiveRoutine reports routines that call themselves.
type RecursiveRoutine struct {
	rules.Base
}

// NewRecursiveRoutine creates FUN-07.
func NewRecursiveRoutine() *RecursiveRoutine {
	return &RecursiveRoutine{Base: rules.NewBase(CodeRecursiveRoutine,
		"Recursive routine",
		"Direct recursion should be deliberate and bounded",
		rules.SeverityInfo)}
}

func (r *RecursiveRoutine) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *RecursiveRoutine) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	var out []rules.Violation

	for _, info := range f.Functions.RecursiveRoutines() {
		out = append(out, r.Violation(f.Module, info.Node(),
			"%s '%s' calls itself", info.Kind, info.Name))
	}

	return out, nil
}

// MissingReturnValue flags functions without any return statement carrying a value.
type MissingReturnValue struct {
	rules.Base
}

// NewMissingReturnValue creates FUN-08.
func NewMissingReturnValue() *MissingReturnValue {
	return &MissingReturnValue{Base: rules.NewBase(CodeMissingReturnValue,
		"Function returns no value",
		"A function should return a value; use a procedure otherwise",
		rules.SeverityWarning)}
}

func (r *MissingReturnValue) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *MissingReturnValue) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	var out []rules.Violation

	for _, info := range f.Functions.Functions() {
		if returnsValue(info) {
			continue
		}

		out = append(out, r.Violation(f.Module, info.Node(),
			"function '%s' never returns a value", info.Name))
	}

	return out, nil
}

func returnsValue(info *collector.RoutineInfo) bool {
	for _, ret := range info.Returns {
		if ret.HasValue {
			return true
		}
	}

	return false
}

// DeadStore flags assignments whose value is overwritten or dropped before any read.
type DeadStore struct {
	rules.Base
}

// NewDeadStore creates DFA-01.
func NewDeadStore() *DeadStore {
	return &DeadStore{Base: rules.NewBase(CodeDeadStore,
		"Dead store",
		"An assigned value should be read before it is overwritten or goes out of scope",
		rules.SeverityWarning)}
}

func (r *DeadStore) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *DeadStore) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	var out []rules.Violation

	for _, res := range f.DataFlow.Results() {
		for _, d := range res.DeadDefinitions() {
			out = append(out, r.Violation(f.Module, d.Node,
				"value assigned to '%s' in '%s' is never read", d.Var, res.Routine))
		}
	}

	return out, nil
}

// UseBeforeAssignment flags reads of a local variable that no assignment reaches.
type UseBeforeAssignment struct {
	rules.Base
}

// NewUseBeforeAssignment creates DFA-02.
func NewUseBeforeAssignment() *UseBeforeAssignment {
	return &UseBeforeAssignment{Base: rules.NewBase(CodeUseBeforeAssignment,
		"Use before assignment",
		"A local variable should be assigned on every path before it is read",
		rules.SeverityError)}
}

func (r *UseBeforeAssignment) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *UseBeforeAssignment) CheckFacts(f *rules.Facts) ([]rules.Violation, error) {
	var out []rules.Violation

	for _, res := range f.DataFlow.Results() {
		for _, u := range res.UndefinedUses() {
			out = append(out, r.Violation(f.Module, u.Node,
				"'%s' is read in '%s' before any assignment reaches it", u.Var, res.Routine))
		}
	}

	return out, nil
}
