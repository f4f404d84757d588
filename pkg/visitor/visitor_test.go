package visitor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
	"github.com/Sumatoshi-tech/bslint/pkg/visitor"
)

// sampleNodeCount is the number of nodes reachable from sampleModule.
const sampleNodeCount = 31

func ref(name string, line uint) *ast.VariableReference {
	return &ast.VariableReference{Loc: ast.At(line, 1), Name: name}
}

func lit(v any) *ast.Literal {
	return &ast.Literal{Value: v, Type: ast.LiteralNumber}
}

func sampleModule() *ast.Module {
	sum := &ast.Function{
		Loc: ast.Span(3, 14),
		Routine: ast.Routine{
			Name: "Sum",
			Parameters: []*ast.Parameter{
				{Loc: ast.At(3, 15), Name: "A"},
				{Loc: ast.At(3, 18), Name: "B"},
			},
			Body: []ast.Stmt{
				&ast.Assignment{
					Loc:    ast.At(4, 5),
					Target: ref("Total", 4),
					Value:  &ast.BinaryOperation{Operator: "+", Left: ref("A", 4), Right: ref("B", 4)},
				},
				&ast.IfStatement{
					Loc:       ast.At(5, 5),
					Condition: &ast.BinaryOperation{Operator: ">", Left: ref("Total", 5), Right: lit(10)},
					Then:      []ast.Stmt{&ast.ReturnStatement{Loc: ast.At(6, 9), Value: ref("Total", 6)}},
					ElseIfs: []ast.ElseIf{{
						Condition: ref("A", 7),
						Body:      []ast.Stmt{&ast.FunctionCall{Name: "Log", Args: []ast.Expr{lit("a")}}},
					}},
					Else: []ast.Stmt{&ast.GenericExpr{Type: "tryStatement"}},
				},
				&ast.ReturnStatement{Loc: ast.At(13, 5), Value: lit(0)},
			},
		},
	}

	run := &ast.Procedure{
		Loc: ast.Span(16, 22),
		Routine: ast.Routine{
			Name: "Run",
			Body: []ast.Stmt{
				&ast.WhileLoop{
					Loc:       ast.At(17, 5),
					Condition: lit(true),
					Body: []ast.Stmt{
						&ast.ForLoop{
							Loc:     ast.At(18, 9),
							Counter: ref("I", 18),
							Start:   lit(1),
							End:     lit(3),
							Body: []ast.Stmt{
								&ast.FunctionCall{Loc: ast.At(19, 13), Name: "Sum", Args: []ast.Expr{ref("I", 19)}},
							},
						},
					},
				},
			},
		},
	}

	return &ast.Module{
		Name:       "Sample",
		Variables:  []*ast.VariableDeclaration{{Loc: ast.At(1, 1), Name: "Total"}},
		Functions:  []*ast.Function{sum},
		Procedures: []*ast.Procedure{run},
	}
}

// recorder appends the kind of every node it receives.
type recorder struct {
	kinds []ast.Kind
}

func (r *recorder) add(n ast.Node) { r.kinds = append(r.kinds, n.Kind()) }

func (r *recorder) VisitModule(n *ast.Module)       { r.add(n) }
func (r *recorder) VisitFunction(n *ast.Function)   { r.add(n) }
func (r *recorder) VisitProcedure(n *ast.Procedure) { r.add(n) }
func (r *recorder) VisitParameter(n *ast.Parameter) { r.add(n) }

func (r *recorder) VisitVariableDeclaration(n *ast.VariableDeclaration) { r.add(n) }
func (r *recorder) VisitVariableReference(n *ast.VariableReference)     { r.add(n) }

func (r *recorder) VisitAssignment(n *ast.Assignment)           { r.add(n) }
func (r *recorder) VisitIfStatement(n *ast.IfStatement)         { r.add(n) }
func (r *recorder) VisitWhileLoop(n *ast.WhileLoop)             { r.add(n) }
func (r *recorder) VisitForLoop(n *ast.ForLoop)                 { r.add(n) }
func (r *recorder) VisitReturnStatement(n *ast.ReturnStatement) { r.add(n) }
func (r *recorder) VisitBinaryOperation(n *ast.BinaryOperation) { r.add(n) }
func (r *recorder) VisitLiteral(n *ast.Literal)                 { r.add(n) }
func (r *recorder) VisitFunctionCall(n *ast.FunctionCall)       { r.add(n) }
func (r *recorder) VisitExpression(n *ast.GenericExpr)          { r.add(n) }

func TestTraversal_VisitsEveryNodeOnce(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	require.NoError(t, visitor.NewTraversal(rec).Walk(sampleModule()))

	assert.Len(t, rec.kinds, sampleNodeCount)
	assert.Equal(t, ast.KindModule, rec.kinds[0])
	assert.Equal(t, ast.KindVariableDeclaration, rec.kinds[1])
	assert.Equal(t, ast.KindFunction, rec.kinds[2])
	assert.Equal(t, ast.KindParameter, rec.kinds[3])
}

func TestTraversal_PreOrder(t *testing.T) {
	t.Parallel()

	mod := &ast.Module{Procedures: []*ast.Procedure{{Routine: ast.Routine{
		Name: "P",
		Body: []ast.Stmt{&ast.Assignment{
			Target: ref("X", 1),
			Value:  &ast.BinaryOperation{Left: lit(1), Right: ref("Y", 1)},
		}},
	}}}}

	rec := &recorder{}
	require.NoError(t, visitor.NewTraversal(rec).Walk(mod))

	assert.Equal(t, []ast.Kind{
		ast.KindModule,
		ast.KindProcedure,
		ast.KindAssignment,
		ast.KindVariableReference,
		ast.KindBinaryOperation,
		ast.KindLiteral,
		ast.KindVariableReference,
	}, rec.kinds)
}

func TestTraversal_SkipsNilChildren(t *testing.T) {
	t.Parallel()

	var missing *ast.Literal

	mod := &ast.Module{Functions: []*ast.Function{nil, {Routine: ast.Routine{
		Body: []ast.Stmt{&ast.ReturnStatement{}, &ast.ReturnStatement{Value: missing}},
	}}}}

	rec := &recorder{}
	require.NoError(t, visitor.NewTraversal(rec).Walk(mod))

	assert.Equal(t, []ast.Kind{
		ast.KindModule, ast.KindFunction, ast.KindReturnStatement, ast.KindReturnStatement,
	}, rec.kinds)
	require.NoError(t, visitor.NewTraversal(rec).Walk(nil))
}

// panicker fails on every literal.
type panicker struct {
	ast.BaseVisitor
}

func (panicker) VisitLiteral(*ast.Literal) { panic("literal not supported") }

func TestTraversal_PanicBecomesAnalysisError(t *testing.T) {
	t.Parallel()

	err := visitor.NewTraversal(panicker{}).Walk(sampleModule())
	require.Error(t, err)

	var aerr *visitor.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ast.KindModule, aerr.Kind)
	assert.ErrorIs(t, err, visitor.ErrPanic)
	assert.Contains(t, err.Error(), "literal not supported")
}

// scopeProbe records the context seen by selected hooks.
type scopeProbe struct {
	ast.BaseVisitor

	ctx    *visitor.Context
	scopes map[string]string
	loops  map[string]bool
	conds  map[string]bool
	owner  map[string]string
}

func newScopeProbe() *scopeProbe {
	return &scopeProbe{
		scopes: map[string]string{},
		loops:  map[string]bool{},
		conds:  map[string]bool{},
		owner:  map[string]string{},
	}
}

func (p *scopeProbe) VisitVariableReference(n *ast.VariableReference) {
	key := n.Name + "@" + n.Span().Start.String()
	p.scopes[key] = p.ctx.CurrentScope()
	p.loops[key] = p.ctx.InLoop()
	p.conds[key] = p.ctx.InCondition()
	p.owner[key] = p.ctx.CurrentRoutineName()
}

func (p *scopeProbe) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	p.scopes[n.Name] = p.ctx.CurrentScope()
}

func TestContextVisitor_TracksScopesAndFlags(t *testing.T) {
	t.Parallel()

	probe := newScopeProbe()
	cv := visitor.NewContextVisitor(probe, visitor.NewContext("Sample"))
	probe.ctx = cv.Context()

	require.NoError(t, cv.Walk(sampleModule()))

	assert.Equal(t, "global", probe.scopes["Total"])
	assert.Equal(t, "global.func:Sum", probe.scopes["Total@4:1"])
	assert.False(t, probe.conds["Total@4:1"])
	assert.True(t, probe.conds["Total@5:1"])
	assert.True(t, probe.conds["A@7:1"])
	assert.Equal(t, "global.procedure:Run", probe.scopes["I@18:1"])
	assert.True(t, probe.loops["I@18:1"])
	assert.True(t, probe.loops["I@19:1"])
	assert.Equal(t, "Run", probe.owner["I@19:1"])
	assert.Equal(t, "Sum", probe.owner["B@4:1"])

	ctx := cv.Context()
	assert.Equal(t, []string{"global"}, ctx.Scopes())
	assert.False(t, ctx.InLoop())
	assert.False(t, ctx.InCondition())
	assert.Nil(t, ctx.CurrentRoutine())
	assert.Equal(t, "Sample", ctx.ModuleName)
}

// loopBomb panics on the first call it meets inside a loop.
type loopBomb struct {
	ast.BaseVisitor

	ctx   *visitor.Context
	depth int
}

func (b *loopBomb) VisitFunctionCall(*ast.FunctionCall) {
	if b.ctx.InLoop() {
		b.depth = b.ctx.Depth()
		panic(errors.New("boom"))
	}
}

func TestContextVisitor_RestoresStateOnPanic(t *testing.T) {
	t.Parallel()

	bomb := &loopBomb{}
	cv := visitor.NewContextVisitor(bomb, nil)
	bomb.ctx = cv.Context()

	err := cv.Walk(sampleModule())
	require.Error(t, err)

	var aerr *visitor.AnalysisError
	require.ErrorAs(t, err, &aerr)

	ctx := cv.Context()
	assert.Equal(t, 2, bomb.depth)
	assert.Equal(t, 1, ctx.Depth())
	assert.Equal(t, "global", ctx.CurrentScope())
	assert.False(t, ctx.InLoop())
	assert.False(t, ctx.InCondition())
	assert.Nil(t, ctx.CurrentProcedure())
	assert.Equal(t, "Sample", ctx.ModuleName)
}

func TestContext_EnterScopeRelease(t *testing.T) {
	t.Parallel()

	ctx := visitor.NewContext("M")

	outer := ctx.EnterScope("a")
	_ = ctx.EnterScope("b")

	assert.Equal(t, "global.a.b", ctx.CurrentScope())

	outer()

	assert.Equal(t, "global", ctx.CurrentScope())
}

func TestComposite_MatchesSeparateWalks(t *testing.T) {
	t.Parallel()

	first, second := &recorder{}, &recorder{}
	require.NoError(t, visitor.NewTraversal(first).Walk(sampleModule()))
	require.NoError(t, visitor.NewTraversal(second).Walk(sampleModule()))

	a, b := &recorder{}, &recorder{}
	comp := visitor.NewComposite(a)
	comp.Add(b)

	require.NoError(t, visitor.NewTraversal(comp).Walk(sampleModule()))
	require.NoError(t, comp.Err())

	assert.Equal(t, first.kinds, a.kinds)
	assert.Equal(t, second.kinds, b.kinds)
	assert.Len(t, comp.Visitors(), 2)
}

func TestComposite_IsolatesPanics(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	comp := visitor.NewComposite(panicker{}, rec)

	require.NoError(t, visitor.NewContextVisitor(comp, nil).Walk(sampleModule()))
	assert.Len(t, rec.kinds, sampleNodeCount)

	err := comp.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, visitor.ErrPanic)

	var verr *visitor.VisitorError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)
	assert.Equal(t, ast.KindLiteral, verr.Kind)
	assert.Contains(t, verr.Visitor, "panicker")
}

// failing reports a stored error after the walk.
type failing struct {
	ast.BaseVisitor
}

var errCollected = errors.New("collected failure")

func (failing) Err() error { return errCollected }

func TestComposite_JoinsConstituentErrors(t *testing.T) {
	t.Parallel()

	comp := visitor.NewComposite(failing{}, &recorder{})
	require.NoError(t, visitor.NewTraversal(comp).Walk(sampleModule()))

	assert.ErrorIs(t, comp.Err(), errCollected)
}
