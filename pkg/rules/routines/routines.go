// Package routines holds the rules about function and procedure shape.
package routines

import (
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// Rule codes.
const (
	CodeOneStatementPerLine = "FUN-01"
	CodeEmptyProcedure      = "FUN-02"
	CodeProcedureLength     = "FUN-03"
	CodeTooManyParameters   = "FUN-04"
	CodeMissingComment      = "FUN-05"
)

// Default thresholds.
const (
	DefaultMaxProcedureLines    = 50
	DefaultMaxParameters        = 7
	DefaultMaxDefaultParameters = 3
)

// OneStatementPerLine flags source lines holding more than one statement. It
// reads Module.Source and reports nothing when the source is absent.
type OneStatementPerLine struct {
	rules.Base
}

// NewOneStatementPerLine creates FUN-01.
func NewOneStatementPerLine() *OneStatementPerLine {
	return &OneStatementPerLine{Base: rules.NewBase(CodeOneStatementPerLine,
		"One statement per line",
		"Do not write several statements on one line",
		rules.SeverityWarning)}
}

func (r *OneStatementPerLine) Check(mod *ast.Module) ([]rules.Violation, error) {
	if mod == nil {
		return nil, nil
	}

	var out []rules.Violation

	for i, line := range mod.Source {
		if n := countStatements(line); n > 1 {
			out = append(out, r.ViolationAt(mod, uint(i+1), 1,
				"line holds %d statements; put each on its own line", n))
		}
	}

	return out, nil
}

// countStatements counts ';' terminators outside string literals and before a
// line comment. BSL strings are double-quoted with "" as the escaped quote.
func countStatements(line string) int {
	n := 0
	inString := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			inString = !inString
		case inString:
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return n
		case c == ';':
			n++
		}
	}

	return n
}

// EmptyProcedure flags procedures without statements.
type EmptyProcedure struct {
	rules.Base
}

// NewEmptyProcedure creates FUN-02.
func NewEmptyProcedure() *EmptyProcedure {
	return &EmptyProcedure{Base: rules.NewBase(CodeEmptyProcedure,
		"Empty procedure",
		"A procedure must contain at least one statement",
		rules.SeverityWarning)}
}

func (r *EmptyProcedure) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *EmptyProcedure) CheckProcedure(proc *ast.Procedure, site rules.Site) ([]rules.Violation, error) {
	if len(proc.Body) > 0 {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, proc,
		"procedure '%s' is empty; add statements or remove it", proc.Name)}, nil
}

// ProcedureLength flags procedures spanning more than a line budget.
type ProcedureLength struct {
	rules.Base

	max uint
}

// NewProcedureLength creates FUN-03. A zero maxLines selects [DefaultMaxProcedureLines].
func NewProcedureLength(maxLines uint) *ProcedureLength {
	if maxLines == 0 {
		maxLines = DefaultMaxProcedureLines
	}

	return &ProcedureLength{
		Base: rules.NewBase(CodeProcedureLength,
			"Procedure too long",
			"A procedure should not span more lines than the configured limit",
			rules.SeverityWarning),
		max: maxLines,
	}
}

func (r *ProcedureLength) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *ProcedureLength) CheckProcedure(proc *ast.Procedure, site rules.Site) ([]rules.Violation, error) {
	length := ast.LengthOf(proc)
	if length <= r.max {
		return nil, nil
	}

	return []rules.Violation{r.Violation(site.Module, proc,
		"procedure '%s' is too long (%d lines); at most %d recommended", proc.Name, length, r.max)}, nil
}

// TooManyParameters limits the parameter count of every routine, the number
// of defaulted parameters, and requires defaulted parameters to come last.
type TooManyParameters struct {
	rules.Base

	maxTotal    int
	maxDefaults int
}

// NewTooManyParameters creates FUN-04. Non-positive limits select the defaults.
func NewTooManyParameters(maxTotal, maxDefaults int) *TooManyParameters {
	if maxTotal <= 0 {
		maxTotal = DefaultMaxParameters
	}

	if maxDefaults <= 0 {
		maxDefaults = DefaultMaxDefaultParameters
	}

	return &TooManyParameters{
		Base: rules.NewBase(CodeTooManyParameters,
			"Too many parameters",
			"A routine should take few parameters, few of them defaulted, defaults last",
			rules.SeverityWarning),
		maxTotal:    maxTotal,
		maxDefaults: maxDefaults,
	}
}

func (r *TooManyParameters) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *TooManyParameters) CheckFunction(fn *ast.Function, site rules.Site) ([]rules.Violation, error) {
	return r.check(site.Module, fn, "Function"), nil
}

func (r *TooManyParameters) CheckProcedure(proc *ast.Procedure, site rules.Site) ([]rules.Violation, error) {
	return r.check(site.Module, proc, "Procedure"), nil
}

func (r *TooManyParameters) check(mod *ast.Module, n ast.RoutineNode, kind string) []rules.Violation {
	h := n.Header()
	total := len(h.Parameters)
	defaults := 0
	misplaced := false

	for _, p := range h.Parameters {
		switch {
		case p == nil:
		case p.HasDefaultValue:
			defaults++
		case defaults > 0:
			misplaced = true
		}
	}

	var out []rules.Violation

	switch {
	case total > r.maxTotal:
		out = append(out, r.Violation(mod, n,
			"%s '%s' has %d parameters; at most %d recommended", kind, h.Name, total, r.maxTotal))
	case defaults > r.maxDefaults:
		out = append(out, r.Violation(mod, n,
			"%s '%s' has %d parameters with default values; at most %d recommended",
			kind, h.Name, defaults, r.maxDefaults))
	}

	if misplaced {
		out = append(out, r.Violation(mod, n,
			"%s '%s': parameters with default values must come last", kind, h.Name))
	}

	return out
}

// MissingComment requires a comment on the line above each procedure.
type MissingComment struct {
	rules.Base
}

// NewMissingComment creates FUN-05.
func NewMissingComment() *MissingComment {
	return &MissingComment{Base: rules.NewBase(CodeMissingComment,
		"Missing procedure description",
		"Put a comment describing the procedure right above it",
		rules.SeverityInfo)}
}

func (r *MissingComment) Check(mod *ast.Module) ([]rules.Violation, error) {
	return rules.CheckHooks(mod, r)
}

func (r *MissingComment) CheckProcedure(proc *ast.Procedure, site rules.Site) ([]rules.Violation, error) {
	line := ast.LineOf(proc)
	if site.Module == nil || line < 2 || line-1 > uint(len(site.Module.Source)) {
		return nil, nil
	}

	prev := strings.TrimSpace(site.Module.Source[line-2])
	if strings.HasPrefix(prev, "//") {
		return nil, nil
	}

	return []rules.Violation{r.ViolationAt(site.Module, line, 1,
		"procedure '%s' has no description; add a comment above it", proc.Name)}, nil
}
