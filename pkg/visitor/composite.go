package visitor

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// ErrReporter is implemented by visitors that accumulate failures while they run.
type ErrReporter interface {
	Err() error
}

// Composite forwards every node to each constituent visitor in registration
// order. It does not descend on its own; wrap it in a [Traversal] or
// [ContextVisitor] so one walk feeds all constituents.
//
// A constituent that panics on a node is recorded as a [VisitorError] and the
// remaining constituents still receive that node.
type Composite struct {
	visitors []ast.Visitor
	errs     []error
}

// NewComposite creates a composite over visitors.
func NewComposite(visitors ...ast.Visitor) *Composite {
	return &Composite{visitors: visitors}
}

// Add appends a constituent.
func (c *Composite) Add(v ast.Visitor) {
	c.visitors = append(c.visitors, v)
}

// Visitors returns the constituents in registration order.
func (c *Composite) Visitors() []ast.Visitor {
	return c.visitors
}

// Err joins recovered constituent failures with the errors reported by
// constituents implementing [ErrReporter]. It returns nil when all succeeded.
func (c *Composite) Err() error {
	errs := make([]error, 0, len(c.errs))
	errs = append(errs, c.errs...)

	for _, v := range c.visitors {
		if r, ok := v.(ErrReporter); ok {
			if err := r.Err(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func fanOut[N ast.Node](c *Composite, n N, visit func(ast.Visitor, N)) {
	for i, v := range c.visitors {
		c.guard(i, v, n, func() { visit(v, n) })
	}
}

func (c *Composite) guard(i int, v ast.Visitor, n ast.Node, call func()) {
	defer func() {
		if r := recover(); r != nil {
			c.errs = append(c.errs, &VisitorError{
				Index:   i,
				Visitor: fmt.Sprintf("%T", v),
				Kind:    n.Kind(),
				Line:    ast.LineOf(n),
				Cause:   recoveredError(r),
			})
		}
	}()

	call()
}

func (c *Composite) VisitModule(n *ast.Module)       { fanOut(c, n, ast.Visitor.VisitModule) }
func (c *Composite) VisitFunction(n *ast.Function)   { fanOut(c, n, ast.Visitor.VisitFunction) }
func (c *Composite) VisitProcedure(n *ast.Procedure) { fanOut(c, n, ast.Visitor.VisitProcedure) }
func (c *Composite) VisitParameter(n *ast.Parameter) { fanOut(c, n, ast.Visitor.VisitParameter) }

func (c *Composite) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	fanOut(c, n, ast.Visitor.VisitVariableDeclaration)
}

func (c *Composite) VisitVariableReference(n *ast.VariableReference) {
	fanOut(c, n, ast.Visitor.VisitVariableReference)
}

func (c *Composite) VisitAssignment(n *ast.Assignment) {
	fanOut(c, n, ast.Visitor.VisitAssignment)
}

func (c *Composite) VisitIfStatement(n *ast.IfStatement) {
	fanOut(c, n, ast.Visitor.VisitIfStatement)
}

func (c *Composite) VisitWhileLoop(n *ast.WhileLoop) {
	fanOut(c, n, ast.Visitor.VisitWhileLoop)
}

func (c *Composite) VisitForLoop(n *ast.ForLoop) {
	fanOut(c, n, ast.Visitor.VisitForLoop)
}

func (c *Composite) VisitReturnStatement(n *ast.ReturnStatement) {
	fanOut(c, n, ast.Visitor.VisitReturnStatement)
}

func (c *Composite) VisitBinaryOperation(n *ast.BinaryOperation) {
	fanOut(c, n, ast.Visitor.VisitBinaryOperation)
}

func (c *Composite) VisitLiteral(n *ast.Literal) {
	fanOut(c, n, ast.Visitor.VisitLiteral)
}

func (c *Composite) VisitFunctionCall(n *ast.FunctionCall) {
	fanOut(c, n, ast.Visitor.VisitFunctionCall)
}

func (c *Composite) VisitExpression(n *ast.GenericExpr) {
	fanOut(c, n, ast.Visitor.VisitExpression)
}
