package collector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/collector"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

func call(name string) *ast.FunctionCall {
	return &ast.FunctionCall{Name: name}
}

func proc(name string, export bool, body ...ast.Stmt) *ast.Procedure {
	return &ast.Procedure{Routine: ast.Routine{Name: name, Export: export, Body: body}}
}

func collect(t *testing.T, mod *ast.Module, opts ...collector.FunctionOption) (
	*collector.FunctionCollector, *collector.VariableCollector,
) {
	t.Helper()

	ctx := visitor.NewContext(mod.Name)
	fc := collector.NewFunctionCollector(ctx, opts...)
	vc := collector.NewVariableCollector(ctx)
	comp := visitor.NewComposite(fc, vc)

	require.NoError(t, visitor.NewContextVisitor(comp, ctx).Walk(mod))
	require.NoError(t, comp.Err())

	return fc, vc
}

func TestFunctionCollector_Unused(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Procedures: []*ast.Procedure{
		proc("A", false, call("B")),
		proc("B", false),
		proc("C", false),
	}}

	fc, _ := collect(t, mod)

	assert.Equal(t, []string{"A", "C"}, fc.Unused())
}

func TestFunctionCollector_UnusedExportPolicy(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Procedures: []*ast.Procedure{
		proc("Api", true),
		proc("Helper", false),
	}}

	fc, _ := collect(t, mod)
	assert.Equal(t, []string{"Api", "Helper"}, fc.Unused())

	fc, _ = collect(t, mod, collector.WithExemptExported(true))
	assert.Equal(t, []string{"Helper"}, fc.Unused())
}

func TestFunctionCollector_Recursive(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Procedures: []*ast.Procedure{
		proc("A", false, call("A"), call("B"), call("A")),
		proc("B", false),
	}}

	fc, _ := collect(t, mod)

	assert.Equal(t, []string{"A"}, fc.Recursive())
	assert.Equal(t, []string{"A", "B"}, fc.CallGraph().Callees("A"))
	assert.Equal(t, 2, fc.CallGraph().Edges())
}

func TestFunctionCollector_RoutineDetails(t *testing.T) {
	t.Parallel()

	fn := &ast.Function{
		Loc: ast.Span(10, 20),
		Routine: ast.Routine{
			Name:   "Total",
			Export: true,
			Parameters: []*ast.Parameter{
				{Name: "Items", ByValue: true},
				{Name: "Rate", HasDefaultValue: true},
			},
			Body: []ast.Stmt{
				&ast.IfStatement{
					Condition: &ast.VariableReference{Name: "Rate"},
					Then:      []ast.Stmt{&ast.ReturnStatement{Loc: ast.At(12, 3)}},
				},
				&ast.ReturnStatement{Loc: ast.At(19, 3), Value: &ast.FunctionCall{Name: "Sum"}},
			},
		},
	}
	empty := &ast.Function{Routine: ast.Routine{Name: "Nothing"}}

	fc, _ := collect(t, &ast.Module{Functions: []*ast.Function{fn, empty}})

	info, ok := fc.Lookup(fn)
	require.True(t, ok)
	assert.Equal(t, collector.KindFunction, info.Kind)
	assert.Equal(t, uint(10), info.Line)
	assert.Equal(t, uint(10), info.Length)
	assert.True(t, info.Export)
	assert.True(t, info.HasReturn)
	assert.Equal(t, []collector.ParameterInfo{
		{Name: "Items", ByValue: true},
		{Name: "Rate", HasDefault: true},
	}, info.Parameters)
	assert.Equal(t, []collector.ReturnInfo{
		{Line: 12, HasValue: false},
		{Line: 19, HasValue: true},
	}, info.Returns)
	assert.Equal(t, []string{"Sum"}, info.Calls)
	assert.Same(t, ast.RoutineNode(fn), info.Node())

	other, ok := fc.Lookup(empty)
	require.True(t, ok)
	assert.Equal(t, uint(0), other.Line)
	assert.Equal(t, uint(0), other.Length)
	assert.False(t, other.HasReturn)
}

func TestFunctionCollector_SameNameRoutinesStaySeparate(t *testing.T) {
	t.Parallel()

	first := &ast.Procedure{Routine: ast.Routine{Name: "Dup", Parameters: []*ast.Parameter{{Name: "X"}}}}
	second := &ast.Procedure{Routine: ast.Routine{Name: "Dup"}}

	fc, _ := collect(t, &ast.Module{Procedures: []*ast.Procedure{first, second}})

	a, _ := fc.Lookup(first)
	b, _ := fc.Lookup(second)

	assert.Len(t, a.Parameters, 1)
	assert.Empty(t, b.Parameters)
}

func TestFunctionCollector_Stats(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{
		Functions: []*ast.Function{
			{Loc: ast.Span(1, 5), Routine: ast.Routine{Name: "F1", Body: []ast.Stmt{&ast.ReturnStatement{}}}},
			{Loc: ast.Span(7, 10), Routine: ast.Routine{Name: "F2"}},
		},
		Procedures: []*ast.Procedure{
			{Loc: ast.Span(12, 20), Routine: ast.Routine{Name: "P1", Body: []ast.Stmt{call("F1"), call("F2")}}},
			{Loc: ast.Span(22, 30), Routine: ast.Routine{Name: "P2", Body: []ast.Stmt{call("F2")}}},
		},
	}

	fc, _ := collect(t, mod)
	s := fc.Stats()

	assert.Equal(t, 2, s.TotalFunctions)
	assert.Equal(t, 2, s.TotalProcedures)
	assert.Equal(t, 1, s.FunctionsWithReturn)
	assert.Equal(t, 1, s.FunctionsWithoutReturn)
	assert.InDelta(t, 3.5, s.AvgFunctionLength, 1e-9)
	assert.InDelta(t, 8.0, s.AvgProcedureLength, 1e-9)
	assert.Equal(t, 3, s.CallEdges)
	assert.Equal(t, []collector.CallCount{{Name: "F2", Count: 2}, {Name: "F1", Count: 1}}, s.MostCalled)
}

func TestCallGraph_MostCalledTiesKeepFirstSeen(t *testing.T) {
	t.Parallel()

	g := collector.NewCallGraph()
	g.AddCall("A", "X")
	g.AddCall("A", "Y")
	g.AddCall("B", "Y")
	g.AddCall("B", "Z")
	g.AddCall("C", "Z")
	g.AddCall("C", "W")
	assert.False(t, g.AddCall("C", "W"))

	assert.Equal(t, []collector.CallCount{
		{Name: "Y", Count: 2},
		{Name: "Z", Count: 2},
		{Name: "X", Count: 1},
	}, g.MostCalled(3))
	assert.Len(t, g.MostCalled(0), 4)
	assert.Equal(t, []string{"A", "B", "C"}, g.Callers())
	assert.Equal(t, map[string][]string{"A": {"X", "Y"}, "B": {"Y", "Z"}, "C": {"Z", "W"}}, g.Map())
	assert.Empty(t, g.Recursive())
}

func TestVariableCollector_Entries(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{
		Name:      "Orders",
		Variables: []*ast.VariableDeclaration{{Loc: ast.At(1, 1), Name: "Cache", Export: true}},
		Functions: []*ast.Function{{Routine: ast.Routine{
			Name:       "Get",
			Parameters: []*ast.Parameter{{Loc: ast.At(3, 14), Name: "Key"}},
			Body: []ast.Stmt{
				&ast.VariableDeclaration{Loc: ast.At(4, 5), Name: "Value"},
				&ast.Assignment{
					Target: &ast.VariableReference{Loc: ast.At(5, 5), Name: "Value"},
					Value:  &ast.VariableReference{Loc: ast.At(5, 13), Name: "Cache"},
				},
			},
		}}},
	}

	_, vc := collect(t, mod)

	assert.Equal(t, []collector.VariableEntry{
		{Name: "Cache", Scope: "global", Kind: collector.VariableDeclaration, Line: 1, Export: true},
		{Name: "Key", Scope: "global.func:Get", Kind: collector.VariableParameter, Line: 3, Routine: "Get"},
		{Name: "Value", Scope: "global.func:Get", Kind: collector.VariableDeclaration, Line: 4, Routine: "Get"},
		{Name: "Value", Scope: "global.func:Get", Kind: collector.VariableUsage, Line: 5, Routine: "Get"},
		{Name: "Cache", Scope: "global.func:Get", Kind: collector.VariableUsage, Line: 5, Routine: "Get"},
	}, vc.Entries())

	assert.Len(t, vc.OfKind(collector.VariableUsage), 2)
	assert.Len(t, vc.InScope("global"), 1)
	assert.Equal(t, []string{"Cache", "Key", "Value"}, vc.Names())
}
