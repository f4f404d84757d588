package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// recorder remembers the kind of the last dispatched node.
type recorder struct {
	ast.BaseVisitor

	kinds []ast.Kind
}

func (r *recorder) VisitModule(n *ast.Module)       { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitFunction(n *ast.Function)   { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitProcedure(n *ast.Procedure) { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitParameter(n *ast.Parameter) { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	r.kinds = append(r.kinds, n.Kind())
}

func (r *recorder) VisitVariableReference(n *ast.VariableReference) {
	r.kinds = append(r.kinds, n.Kind())
}
func (r *recorder) VisitAssignment(n *ast.Assignment)   { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitIfStatement(n *ast.IfStatement) { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitWhileLoop(n *ast.WhileLoop)     { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitForLoop(n *ast.ForLoop)         { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitReturnStatement(n *ast.ReturnStatement) {
	r.kinds = append(r.kinds, n.Kind())
}

func (r *recorder) VisitBinaryOperation(n *ast.BinaryOperation) {
	r.kinds = append(r.kinds, n.Kind())
}
func (r *recorder) VisitLiteral(n *ast.Literal)           { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitFunctionCall(n *ast.FunctionCall) { r.kinds = append(r.kinds, n.Kind()) }
func (r *recorder) VisitExpression(n *ast.GenericExpr)    { r.kinds = append(r.kinds, n.Kind()) }

func TestAccept_DispatchesByKind(t *testing.T) {
	t.Parallel()

	nodes := []ast.Node{
		&ast.Module{},
		&ast.Function{},
		&ast.Procedure{},
		&ast.Parameter{},
		&ast.VariableDeclaration{},
		&ast.VariableReference{},
		&ast.Assignment{},
		&ast.IfStatement{},
		&ast.WhileLoop{},
		&ast.ForLoop{},
		&ast.ReturnStatement{},
		&ast.BinaryOperation{},
		&ast.Literal{},
		&ast.FunctionCall{},
		&ast.GenericExpr{},
	}

	rec := &recorder{}
	for _, n := range nodes {
		n.Accept(rec)
	}

	assert.Equal(t, ast.Kinds(), rec.kinds)
}

func TestAccept_NilReceiverIsNoop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}

	var lit *ast.Literal

	var expr ast.Expr = lit

	expr.Accept(rec)

	assert.Empty(t, rec.kinds)
	assert.True(t, ast.IsNil(expr))
	assert.True(t, ast.IsNil(nil))
	assert.False(t, ast.IsNil(&ast.Literal{}))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IfStatement", ast.KindIfStatement.String())
	assert.Equal(t, "Expression", ast.KindExpression.String())
	assert.Equal(t, "Kind(200)", ast.Kind(200).String())
}

func TestPositions_DefaultToZero(t *testing.T) {
	t.Parallel()

	fn := &ast.Function{Routine: ast.Routine{Name: "NoRange"}}

	assert.Equal(t, uint(0), ast.LineOf(fn))
	assert.Equal(t, uint(0), ast.ColumnOf(fn))
	assert.Equal(t, uint(0), ast.LengthOf(fn))
	assert.Equal(t, uint(0), ast.LineOf(nil))

	var missing *ast.Procedure

	assert.Equal(t, uint(0), ast.LineOf(missing))
}

func TestPositions_FromRange(t *testing.T) {
	t.Parallel()

	proc := &ast.Procedure{
		Loc: ast.Loc{Range: &ast.Range{
			Start: ast.Position{Line: 10, Column: 3},
			End:   ast.Position{Line: 42, Column: 1},
		}},
	}

	assert.Equal(t, uint(10), ast.LineOf(proc))
	assert.Equal(t, uint(3), ast.ColumnOf(proc))
	assert.Equal(t, uint(42), ast.EndLineOf(proc))
	assert.Equal(t, uint(32), ast.LengthOf(proc))
}

func TestRange_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		r     ast.Range
		valid bool
	}{
		{"same point", ast.Range{Start: ast.Position{Line: 1, Column: 1}, End: ast.Position{Line: 1, Column: 1}}, true},
		{"later line", ast.Range{Start: ast.Position{Line: 1, Column: 9}, End: ast.Position{Line: 2, Column: 1}}, true},
		{"earlier column", ast.Range{Start: ast.Position{Line: 3, Column: 5}, End: ast.Position{Line: 3, Column: 4}}, false},
		{"earlier line", ast.Range{Start: ast.Position{Line: 3, Column: 1}, End: ast.Position{Line: 2, Column: 9}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.valid, tt.r.Valid())
		})
	}

	inverted := ast.Range{Start: ast.Position{Line: 5}, End: ast.Position{Line: 2}}
	assert.Equal(t, uint(0), inverted.Lines())
}

func TestForLoop_Each(t *testing.T) {
	t.Parallel()

	numeric := &ast.ForLoop{Start: &ast.Literal{Value: 1}, End: &ast.Literal{Value: 10}}
	each := &ast.ForLoop{Collection: &ast.VariableReference{Name: "Items"}}

	assert.False(t, numeric.Each())
	assert.True(t, each.Each())
}
