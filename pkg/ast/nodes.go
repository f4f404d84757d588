package ast

// Module is the root of a parsed source module. Declaration order of each
// slice is surface order.
type Module struct {
	Loc

	Name       string
	Variables  []*VariableDeclaration
	Functions  []*Function
	Procedures []*Procedure

	// Source holds the module text split into lines, when the producer supplied it.
	Source []string
}

// Routine is the shape shared by functions and procedures.
type Routine struct {
	Name       string
	Export     bool
	Parameters []*Parameter
	Body       []Stmt
}

// Function is a routine that may return a value.
type Function struct {
	Loc
	Routine
}

// Procedure is a routine without a return value.
type Procedure struct {
	Loc
	Routine
}

// Parameter is a formal routine parameter.
type Parameter struct {
	Loc

	Name            string
	ByValue         bool
	HasDefaultValue bool
}

// VariableDeclaration declares a module-level or local variable.
type VariableDeclaration struct {
	Loc

	Name   string
	Export bool
}

// VariableReference names a variable at a use site, an assignment target or a loop counter.
type VariableReference struct {
	Loc

	Name string
}

// Assignment stores Value into Target.
type Assignment struct {
	Loc

	Target *VariableReference
	Value  Expr
}

// ElseIf is one conditional alternative of an [IfStatement].
type ElseIf struct {
	Condition Expr
	Body      []Stmt
}

// IfStatement is a conditional with ordered alternatives; the first true condition wins.
type IfStatement struct {
	Loc

	Condition Expr
	Then      []Stmt
	ElseIfs   []ElseIf
	Else      []Stmt
}

// WhileLoop repeats Body while Condition holds.
type WhileLoop struct {
	Loc

	Condition Expr
	Body      []Stmt
}

// ForLoop is either a numeric loop (Start/End) or a for-each loop (Collection).
type ForLoop struct {
	Loc

	Counter    *VariableReference
	Start      Expr
	End        Expr
	Collection Expr
	Body       []Stmt
}

// Each reports whether the loop iterates over a collection.
func (f *ForLoop) Each() bool {
	return f.Collection != nil
}

// ReturnStatement leaves the enclosing routine, optionally with a value.
type ReturnStatement struct {
	Loc

	Value Expr
}

// BinaryOperation applies Operator to Left and Right.
type BinaryOperation struct {
	Loc

	Operator string
	Left     Expr
	Right    Expr
}

// Literal is a constant value tagged by Type.
type Literal struct {
	Loc

	Value any
	Type  LiteralType
}

// FunctionCall invokes a routine by name. It is both a statement and an expression.
type FunctionCall struct {
	Loc

	Name string
	Args []Expr
}

// GenericExpr stands for a construct the producer did not map to a known kind.
// Type keeps the producer's tag for diagnostics.
type GenericExpr struct {
	Loc

	Type string
}

// Header returns the routine shape.
func (f *Function) Header() *Routine { return &f.Routine }

// Header returns the routine shape.
func (p *Procedure) Header() *Routine { return &p.Routine }

func (*Module) Kind() Kind              { return KindModule }
func (*Function) Kind() Kind            { return KindFunction }
func (*Procedure) Kind() Kind           { return KindProcedure }
func (*Parameter) Kind() Kind           { return KindParameter }
func (*VariableDeclaration) Kind() Kind { return KindVariableDeclaration }
func (*VariableReference) Kind() Kind   { return KindVariableReference }
func (*Assignment) Kind() Kind          { return KindAssignment }
func (*IfStatement) Kind() Kind         { return KindIfStatement }
func (*WhileLoop) Kind() Kind           { return KindWhileLoop }
func (*ForLoop) Kind() Kind             { return KindForLoop }
func (*ReturnStatement) Kind() Kind     { return KindReturnStatement }
func (*BinaryOperation) Kind() Kind     { return KindBinaryOperation }
func (*Literal) Kind() Kind             { return KindLiteral }
func (*FunctionCall) Kind() Kind        { return KindFunctionCall }
func (*GenericExpr) Kind() Kind         { return KindExpression }

func (*Module) node()              {}
func (*Function) node()            {}
func (*Procedure) node()           {}
func (*Parameter) node()           {}
func (*VariableDeclaration) node() {}
func (*VariableReference) node()   {}
func (*Assignment) node()          {}
func (*IfStatement) node()         {}
func (*WhileLoop) node()           {}
func (*ForLoop) node()             {}
func (*ReturnStatement) node()     {}
func (*BinaryOperation) node()     {}
func (*Literal) node()             {}
func (*FunctionCall) node()        {}
func (*GenericExpr) node()         {}

func (*VariableDeclaration) stmtNode() {}
func (*Assignment) stmtNode()          {}
func (*IfStatement) stmtNode()         {}
func (*WhileLoop) stmtNode()           {}
func (*ForLoop) stmtNode()             {}
func (*ReturnStatement) stmtNode()     {}
func (*FunctionCall) stmtNode()        {}
func (*GenericExpr) stmtNode()         {}

func (*VariableReference) exprNode() {}
func (*BinaryOperation) exprNode()   {}
func (*Literal) exprNode()           {}
func (*FunctionCall) exprNode()      {}
func (*GenericExpr) exprNode()       {}
