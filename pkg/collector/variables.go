package collector

import (
	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

// VariableKind classifies a variable entry.
type VariableKind string

// Variable entry kinds.
const (
	VariableParameter   VariableKind = "parameter"
	VariableDeclaration VariableKind = "declaration"
	VariableUsage       VariableKind = "usage"
)

// VariableEntry is one parameter, declaration or reference.
type VariableEntry struct {
	Name    string       `json:"name"    yaml:"name"`
	Scope   string       `json:"scope"   yaml:"scope"`
	Kind    VariableKind `json:"kind"    yaml:"kind"`
	Line    uint         `json:"line"    yaml:"line"`
	Export  bool         `json:"export"  yaml:"export"`
	Routine string       `json:"routine" yaml:"routine"`
}

// VariableCollector lists every variable mention in traversal order, tagged
// with the scope reported by ctx.
type VariableCollector struct {
	ast.BaseVisitor

	ctx     *visitor.Context
	entries []VariableEntry
}

// NewVariableCollector creates a collector reading scopes from ctx.
func NewVariableCollector(ctx *visitor.Context) *VariableCollector {
	return &VariableCollector{ctx: ctx}
}

func (vc *VariableCollector) add(name string, kind VariableKind, n ast.Node, export bool) {
	vc.entries = append(vc.entries, VariableEntry{
		Name:    name,
		Scope:   vc.ctx.CurrentScope(),
		Kind:    kind,
		Line:    ast.LineOf(n),
		Export:  export,
		Routine: vc.ctx.CurrentRoutineName(),
	})
}

func (vc *VariableCollector) VisitModule(*ast.Module) {
	vc.entries = nil
}

func (vc *VariableCollector) VisitParameter(n *ast.Parameter) {
	vc.add(n.Name, VariableParameter, n, false)
}

func (vc *VariableCollector) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	vc.add(n.Name, VariableDeclaration, n, n.Export)
}

func (vc *VariableCollector) VisitVariableReference(n *ast.VariableReference) {
	vc.add(n.Name, VariableUsage, n, false)
}

// Entries returns every entry in traversal order.
func (vc *VariableCollector) Entries() []VariableEntry {
	return vc.entries
}

// OfKind returns the entries of one kind.
func (vc *VariableCollector) OfKind(kind VariableKind) []VariableEntry {
	var out []VariableEntry

	for _, e := range vc.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// InScope returns the entries recorded in scope.
func (vc *VariableCollector) InScope(scope string) []VariableEntry {
	var out []VariableEntry

	for _, e := range vc.entries {
		if e.Scope == scope {
			out = append(out, e)
		}
	}

	return out
}

// Names returns each distinct variable name once, in first-seen order.
func (vc *VariableCollector) Names() []string {
	seen := make(map[string]struct{}, len(vc.entries))

	var out []string

	for _, e := range vc.entries {
		if _, ok := seen[e.Name]; ok {
			continue
		}

		seen[e.Name] = struct{}{}
		out = append(out, e.Name)
	}

	return out
}
