package ast

// Visitor has one operation per node kind. A node's Accept method calls the
// operation named for its kind, so the node decides which method runs.
//
// Adding a kind adds a method here; every type that implements Visitor in full
// stops compiling until it handles the new kind. Visitors interested in a
// subset of kinds embed [BaseVisitor].
type Visitor interface {
	VisitModule(n *Module)
	VisitFunction(n *Function)
	VisitProcedure(n *Procedure)
	VisitParameter(n *Parameter)
	VisitVariableDeclaration(n *VariableDeclaration)
	VisitVariableReference(n *VariableReference)
	VisitAssignment(n *Assignment)
	VisitIfStatement(n *IfStatement)
	VisitWhileLoop(n *WhileLoop)
	VisitForLoop(n *ForLoop)
	VisitReturnStatement(n *ReturnStatement)
	VisitBinaryOperation(n *BinaryOperation)
	VisitLiteral(n *Literal)
	VisitFunctionCall(n *FunctionCall)
	VisitExpression(n *GenericExpr)
}

// BaseVisitor implements every [Visitor] operation as a no-op.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(*Module)                           {}
func (BaseVisitor) VisitFunction(*Function)                       {}
func (BaseVisitor) VisitProcedure(*Procedure)                     {}
func (BaseVisitor) VisitParameter(*Parameter)                     {}
func (BaseVisitor) VisitVariableDeclaration(*VariableDeclaration) {}
func (BaseVisitor) VisitVariableReference(*VariableReference)     {}
func (BaseVisitor) VisitAssignment(*Assignment)                   {}
func (BaseVisitor) VisitIfStatement(*IfStatement)                 {}
func (BaseVisitor) VisitWhileLoop(*WhileLoop)                     {}
func (BaseVisitor) VisitForLoop(*ForLoop)                         {}
func (BaseVisitor) VisitReturnStatement(*ReturnStatement)         {}
func (BaseVisitor) VisitBinaryOperation(*BinaryOperation)         {}
func (BaseVisitor) VisitLiteral(*Literal)                         {}
func (BaseVisitor) VisitFunctionCall(*FunctionCall)               {}
func (BaseVisitor) VisitExpression(*GenericExpr)                  {}

// Accept methods ignore nil receivers so that holes left by a misbehaving
// producer are skipped instead of reaching visitors.

func (n *Module) Accept(v Visitor) {
	if n != nil {
		v.VisitModule(n)
	}
}

func (n *Function) Accept(v Visitor) {
	if n != nil {
		v.VisitFunction(n)
	}
}

func (n *Procedure) Accept(v Visitor) {
	if n != nil {
		v.VisitProcedure(n)
	}
}

func (n *Parameter) Accept(v Visitor) {
	if n != nil {
		v.VisitParameter(n)
	}
}

func (n *VariableDeclaration) Accept(v Visitor) {
	if n != nil {
		v.VisitVariableDeclaration(n)
	}
}

func (n *VariableReference) Accept(v Visitor) {
	if n != nil {
		v.VisitVariableReference(n)
	}
}

func (n *Assignment) Accept(v Visitor) {
	if n != nil {
		v.VisitAssignment(n)
	}
}

func (n *IfStatement) Accept(v Visitor) {
	if n != nil {
		v.VisitIfStatement(n)
	}
}

func (n *WhileLoop) Accept(v Visitor) {
	if n != nil {
		v.VisitWhileLoop(n)
	}
}

func (n *ForLoop) Accept(v Visitor) {
	if n != nil {
		v.VisitForLoop(n)
	}
}

func (n *ReturnStatement) Accept(v Visitor) {
	if n != nil {
		v.VisitReturnStatement(n)
	}
}

func (n *BinaryOperation) Accept(v Visitor) {
	if n != nil {
		v.VisitBinaryOperation(n)
	}
}

func (n *Literal) Accept(v Visitor) {
	if n != nil {
		v.VisitLiteral(n)
	}
}

func (n *FunctionCall) Accept(v Visitor) {
	if n != nil {
		v.VisitFunctionCall(n)
	}
}

func (n *GenericExpr) Accept(v Visitor) {
	if n != nil {
		v.VisitExpression(n)
	}
}
