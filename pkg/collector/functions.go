package collector

import (
	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

// MostCalledLimit is the number of entries reported in [Stats.MostCalled].
const MostCalledLimit = 5

// RoutineKind distinguishes functions from procedures.
type RoutineKind string

// Routine kinds.
const (
	KindFunction  RoutineKind = "function"
	KindProcedure RoutineKind = "procedure"
)

// ParameterInfo describes one formal parameter.
type ParameterInfo struct {
	Name       string `json:"name"        yaml:"name"`
	ByValue    bool   `json:"by_value"    yaml:"by_value"`
	HasDefault bool   `json:"has_default" yaml:"has_default"`
}

// ReturnInfo describes one return statement.
type ReturnInfo struct {
	Line     uint `json:"line"      yaml:"line"`
	HasValue bool `json:"has_value" yaml:"has_value"`
}

// RoutineInfo is everything the collector learns about one routine.
type RoutineInfo struct {
	Name       string          `json:"name"       yaml:"name"`
	Kind       RoutineKind     `json:"kind"       yaml:"kind"`
	Line       uint            `json:"line"       yaml:"line"`
	Export     bool            `json:"export"     yaml:"export"`
	Length     uint            `json:"length"     yaml:"length"`
	HasReturn  bool            `json:"has_return" yaml:"has_return"`
	Parameters []ParameterInfo `json:"parameters" yaml:"parameters"`
	Returns    []ReturnInfo    `json:"returns"    yaml:"returns"`
	Calls      []string        `json:"calls"      yaml:"calls"`

	node ast.RoutineNode
}

// Node returns the declaration the info was collected from.
func (r *RoutineInfo) Node() ast.RoutineNode {
	return r.node
}

// Stats summarises the collected routines.
type Stats struct {
	TotalFunctions         int         `json:"total_functions"          yaml:"total_functions"`
	TotalProcedures        int         `json:"total_procedures"         yaml:"total_procedures"`
	FunctionsWithReturn    int         `json:"functions_with_return"    yaml:"functions_with_return"`
	FunctionsWithoutReturn int         `json:"functions_without_return" yaml:"functions_without_return"`
	AvgFunctionLength      float64     `json:"avg_function_length"      yaml:"avg_function_length"`
	AvgProcedureLength     float64     `json:"avg_procedure_length"     yaml:"avg_procedure_length"`
	CallEdges              int         `json:"call_edges"               yaml:"call_edges"`
	MostCalled             []CallCount `json:"most_called"              yaml:"most_called"`
}

// FunctionOption configures a [FunctionCollector].
type FunctionOption func(*FunctionCollector)

// WithExemptExported excludes exported routines from [FunctionCollector.Unused].
// Exported routines may be called from other modules, which a single-module
// analysis cannot see.
func WithExemptExported(exempt bool) FunctionOption {
	return func(fc *FunctionCollector) {
		fc.exemptExported = exempt
	}
}

// FunctionCollector records every function and procedure of a module together
// with its parameters, return statements and calls. It must run under a
// [visitor.ContextVisitor] sharing ctx, which supplies the enclosing routine.
type FunctionCollector struct {
	ast.BaseVisitor

	ctx            *visitor.Context
	exemptExported bool

	routines []*RoutineInfo
	byNode   map[ast.RoutineNode]*RoutineInfo
	graph    *CallGraph
}

// NewFunctionCollector creates a collector reading routine context from ctx.
func NewFunctionCollector(ctx *visitor.Context, opts ...FunctionOption) *FunctionCollector {
	fc := &FunctionCollector{ctx: ctx}
	for _, opt := range opts {
		opt(fc)
	}

	fc.reset()

	return fc
}

func (fc *FunctionCollector) reset() {
	fc.routines = nil
	fc.byNode = make(map[ast.RoutineNode]*RoutineInfo)
	fc.graph = NewCallGraph()
}

func (fc *FunctionCollector) VisitModule(*ast.Module) {
	fc.reset()
}

func (fc *FunctionCollector) VisitFunction(n *ast.Function) {
	fc.declare(n, KindFunction)
}

func (fc *FunctionCollector) VisitProcedure(n *ast.Procedure) {
	fc.declare(n, KindProcedure)
}

func (fc *FunctionCollector) declare(n ast.RoutineNode, kind RoutineKind) {
	h := n.Header()
	info := &RoutineInfo{
		Name:   h.Name,
		Kind:   kind,
		Line:   ast.LineOf(n),
		Export: h.Export,
		Length: ast.LengthOf(n),
		node:   n,
	}

	fc.routines = append(fc.routines, info)
	fc.byNode[n] = info
}

func (fc *FunctionCollector) current() *RoutineInfo {
	r := fc.ctx.CurrentRoutine()
	if r == nil {
		return nil
	}

	return fc.byNode[r]
}

func (fc *FunctionCollector) VisitParameter(n *ast.Parameter) {
	if info := fc.current(); info != nil {
		info.Parameters = append(info.Parameters, ParameterInfo{
			Name:       n.Name,
			ByValue:    n.ByValue,
			HasDefault: n.HasDefaultValue,
		})
	}
}

func (fc *FunctionCollector) VisitReturnStatement(n *ast.ReturnStatement) {
	info := fc.current()
	if info == nil {
		return
	}

	info.HasReturn = true
	info.Returns = append(info.Returns, ReturnInfo{
		Line:     ast.LineOf(n),
		HasValue: !ast.IsNil(n.Value),
	})
}

func (fc *FunctionCollector) VisitFunctionCall(n *ast.FunctionCall) {
	info := fc.current()
	if info == nil || n.Name == "" {
		return
	}

	if fc.graph.AddCall(info.Name, n.Name) {
		info.Calls = append(info.Calls, n.Name)
	}
}

// Routines returns every routine in traversal order: functions, then procedures.
func (fc *FunctionCollector) Routines() []*RoutineInfo {
	return fc.routines
}

// Functions returns the collected functions.
func (fc *FunctionCollector) Functions() []*RoutineInfo {
	return fc.ofKind(KindFunction)
}

// Procedures returns the collected procedures.
func (fc *FunctionCollector) Procedures() []*RoutineInfo {
	return fc.ofKind(KindProcedure)
}

func (fc *FunctionCollector) ofKind(kind RoutineKind) []*RoutineInfo {
	var out []*RoutineInfo

	for _, r := range fc.routines {
		if r.Kind == kind {
			out = append(out, r)
		}
	}

	return out
}

// Lookup returns the info collected for a routine declaration.
func (fc *FunctionCollector) Lookup(n ast.RoutineNode) (*RoutineInfo, bool) {
	info, ok := fc.byNode[n]

	return info, ok
}

// CallGraph returns the call graph built during traversal.
func (fc *FunctionCollector) CallGraph() *CallGraph {
	return fc.graph
}

// Unused returns the names of the declared routines no routine of the module
// calls, in declaration order. Names match exactly.
func (fc *FunctionCollector) Unused() []string {
	return names(fc.UnusedRoutines())
}

// UnusedRoutines is [FunctionCollector.Unused] returning the collected infos.
func (fc *FunctionCollector) UnusedRoutines() []*RoutineInfo {
	var out []*RoutineInfo

	for _, r := range fc.routines {
		if fc.graph.IsCalled(r.Name) {
			continue
		}

		if fc.exemptExported && r.Export {
			continue
		}

		out = append(out, r)
	}

	return out
}

// Recursive returns the routines that call themselves directly.
func (fc *FunctionCollector) Recursive() []string {
	return fc.graph.Recursive()
}

// RecursiveRoutines returns the infos of declared routines that call
// themselves directly, in declaration order.
func (fc *FunctionCollector) RecursiveRoutines() []*RoutineInfo {
	var out []*RoutineInfo

	for _, r := range fc.routines {
		for _, callee := range r.Calls {
			if callee == r.Name {
				out = append(out, r)

				break
			}
		}
	}

	return out
}

func names(infos []*RoutineInfo) []string {
	var out []string
	for _, r := range infos {
		out = append(out, r.Name)
	}

	return out
}

// MostCalled returns the limit most called routines.
func (fc *FunctionCollector) MostCalled(limit int) []CallCount {
	return fc.graph.MostCalled(limit)
}

// Stats summarises the collected routines.
func (fc *FunctionCollector) Stats() Stats {
	var (
		s                   Stats
		funcLen, procLength uint
	)

	for _, r := range fc.routines {
		switch r.Kind {
		case KindFunction:
			s.TotalFunctions++
			funcLen += r.Length

			if r.HasReturn {
				s.FunctionsWithReturn++
			} else {
				s.FunctionsWithoutReturn++
			}
		case KindProcedure:
			s.TotalProcedures++
			procLength += r.Length
		}
	}

	s.AvgFunctionLength = average(funcLen, s.TotalFunctions)
	s.AvgProcedureLength = average(procLength, s.TotalProcedures)
	s.CallEdges = fc.graph.Edges()
	s.MostCalled = fc.graph.MostCalled(MostCalledLimit)

	return s
}

func average(total uint, n int) float64 {
	if n == 0 {
		return 0
	}

	return float64(total) / float64(n)
}
