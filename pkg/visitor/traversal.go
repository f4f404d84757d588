// Package visitor provides the traversal infrastructure shared by every
// analysis: a recursive-descent walker, a scope-tracking variant of it and a
// composite that fans a single walk out to several visitors.
package visitor

import (
	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// Traversal walks every node reachable from a root exactly once, in pre-order.
// Each node is handed to the hook visitor before its children are visited.
//
// Children are dispatched through self, which lets an embedding walker such as
// [ContextVisitor] intercept the recursion for the kinds it overrides.
type Traversal struct {
	hook ast.Visitor
	self ast.Visitor
}

// NewTraversal creates a walker that reports every node to hook.
func NewTraversal(hook ast.Visitor) *Traversal {
	t := &Traversal{hook: hook}
	t.self = t

	return t
}

// Walk visits root and every node below it. A panic escaping a hook stops the
// walk and is returned as an [*AnalysisError].
func (t *Traversal) Walk(root ast.Node) error {
	return walk(t.self, root)
}

func walk(v ast.Visitor, root ast.Node) (err error) {
	if ast.IsNil(root) {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = newAnalysisError(root, r)
		}
	}()

	root.Accept(v)

	return nil
}

func (t *Traversal) visit(n ast.Node) {
	if n != nil {
		n.Accept(t.self)
	}
}

func (t *Traversal) visitStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		t.visit(s)
	}
}

// VisitModule visits variables, then functions, then procedures.
func (t *Traversal) VisitModule(n *ast.Module) {
	t.hook.VisitModule(n)

	for _, v := range n.Variables {
		v.Accept(t.self)
	}

	for _, f := range n.Functions {
		f.Accept(t.self)
	}

	for _, p := range n.Procedures {
		p.Accept(t.self)
	}
}

// VisitFunction visits parameters, then body statements.
func (t *Traversal) VisitFunction(n *ast.Function) {
	t.hook.VisitFunction(n)
	t.visitRoutine(&n.Routine)
}

// VisitProcedure visits parameters, then body statements.
func (t *Traversal) VisitProcedure(n *ast.Procedure) {
	t.hook.VisitProcedure(n)
	t.visitRoutine(&n.Routine)
}

func (t *Traversal) visitRoutine(r *ast.Routine) {
	for _, p := range r.Parameters {
		p.Accept(t.self)
	}

	t.visitStmts(r.Body)
}

func (t *Traversal) VisitParameter(n *ast.Parameter) {
	t.hook.VisitParameter(n)
}

func (t *Traversal) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	t.hook.VisitVariableDeclaration(n)
}

func (t *Traversal) VisitVariableReference(n *ast.VariableReference) {
	t.hook.VisitVariableReference(n)
}

// VisitAssignment visits the target, then the value.
func (t *Traversal) VisitAssignment(n *ast.Assignment) {
	t.hook.VisitAssignment(n)

	if n.Target != nil {
		n.Target.Accept(t.self)
	}

	t.visit(n.Value)
}

// VisitIfStatement visits the condition, the then block, each else-if
// condition and block in order, and the else block last.
func (t *Traversal) VisitIfStatement(n *ast.IfStatement) {
	t.hook.VisitIfStatement(n)

	t.visit(n.Condition)
	t.visitStmts(n.Then)

	for _, alt := range n.ElseIfs {
		t.visit(alt.Condition)
		t.visitStmts(alt.Body)
	}

	t.visitStmts(n.Else)
}

// VisitWhileLoop visits the condition, then the body.
func (t *Traversal) VisitWhileLoop(n *ast.WhileLoop) {
	t.hook.VisitWhileLoop(n)

	t.visit(n.Condition)
	t.visitStmts(n.Body)
}

// VisitForLoop visits the counter, the bounds or collection, then the body.
func (t *Traversal) VisitForLoop(n *ast.ForLoop) {
	t.hook.VisitForLoop(n)

	if n.Counter != nil {
		n.Counter.Accept(t.self)
	}

	t.visit(n.Start)
	t.visit(n.End)
	t.visit(n.Collection)
	t.visitStmts(n.Body)
}

func (t *Traversal) VisitReturnStatement(n *ast.ReturnStatement) {
	t.hook.VisitReturnStatement(n)
	t.visit(n.Value)
}

func (t *Traversal) VisitBinaryOperation(n *ast.BinaryOperation) {
	t.hook.VisitBinaryOperation(n)
	t.visit(n.Left)
	t.visit(n.Right)
}

func (t *Traversal) VisitLiteral(n *ast.Literal) {
	t.hook.VisitLiteral(n)
}

func (t *Traversal) VisitFunctionCall(n *ast.FunctionCall) {
	t.hook.VisitFunctionCall(n)

	for _, arg := range n.Args {
		t.visit(arg)
	}
}

func (t *Traversal) VisitExpression(n *ast.GenericExpr) {
	t.hook.VisitExpression(n)
}
