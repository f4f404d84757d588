package visitor

import (
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// GlobalScope is the bottom entry of every scope stack.
const GlobalScope = "global"

// Scope name prefixes pushed on routine entry.
const (
	FunctionScopePrefix  = "func:"
	ProcedureScopePrefix = "procedure:"
)

// Context is the traversal state observed by visitors running under a
// [ContextVisitor]: the module name, the scope stack, the enclosing routine
// and whether the current node sits inside a loop or a conditional.
type Context struct {
	ModuleName string

	scopes      []string
	function    *ast.Function
	procedure   *ast.Procedure
	inLoop      bool
	inCondition bool
}

// NewContext returns a context positioned at module level.
func NewContext(moduleName string) *Context {
	return &Context{
		ModuleName: moduleName,
		scopes:     []string{GlobalScope},
	}
}

// CurrentScope joins the scope stack with dots, e.g. "global.func:Main".
func (c *Context) CurrentScope() string {
	return strings.Join(c.scopes, ".")
}

// Scopes returns a copy of the scope stack, outermost first.
func (c *Context) Scopes() []string {
	out := make([]string, len(c.scopes))
	copy(out, c.scopes)

	return out
}

// Depth returns the number of entries on the scope stack.
func (c *Context) Depth() int {
	return len(c.scopes)
}

// EnterScope pushes name and returns the function that pops it. The release
// truncates to the depth seen at entry, so it stays correct even if an inner
// push was never released.
func (c *Context) EnterScope(name string) (release func()) {
	depth := len(c.scopes)
	c.scopes = append(c.scopes, name)

	return func() {
		c.scopes = c.scopes[:depth]
	}
}

func (c *Context) enterFunction(fn *ast.Function) func() {
	prevFn, prevProc := c.function, c.procedure
	c.function, c.procedure = fn, nil
	pop := c.EnterScope(FunctionScopePrefix + fn.Name)

	return func() {
		pop()
		c.function, c.procedure = prevFn, prevProc
	}
}

func (c *Context) enterProcedure(proc *ast.Procedure) func() {
	prevFn, prevProc := c.function, c.procedure
	c.function, c.procedure = nil, proc
	pop := c.EnterScope(ProcedureScopePrefix + proc.Name)

	return func() {
		pop()
		c.function, c.procedure = prevFn, prevProc
	}
}

func (c *Context) enterLoop() func() {
	prev := c.inLoop
	c.inLoop = true

	return func() { c.inLoop = prev }
}

func (c *Context) enterCondition() func() {
	prev := c.inCondition
	c.inCondition = true

	return func() { c.inCondition = prev }
}

// InLoop reports whether the current node is inside a while or for loop.
func (c *Context) InLoop() bool { return c.inLoop }

// InCondition reports whether the current node is inside an if statement.
func (c *Context) InCondition() bool { return c.inCondition }

// CurrentFunction returns the enclosing function, or nil.
func (c *Context) CurrentFunction() *ast.Function { return c.function }

// CurrentProcedure returns the enclosing procedure, or nil.
func (c *Context) CurrentProcedure() *ast.Procedure { return c.procedure }

// CurrentRoutine returns the enclosing function or procedure, or nil at module level.
func (c *Context) CurrentRoutine() ast.RoutineNode {
	switch {
	case c.function != nil:
		return c.function
	case c.procedure != nil:
		return c.procedure
	default:
		return nil
	}
}

// CurrentRoutineName returns the enclosing routine name, or "" at module level.
func (c *Context) CurrentRoutineName() string {
	if r := c.CurrentRoutine(); r != nil {
		return r.Header().Name
	}

	return ""
}

// ContextVisitor is a [Traversal] that maintains a [Context] while it walks.
// Hooks observe the context already updated for the node they receive: a
// function hook sees the function's own scope, a loop hook sees InLoop set.
type ContextVisitor struct {
	*Traversal

	ctx *Context
}

// NewContextVisitor creates a scope-tracking walker reporting to hook.
// A nil ctx starts from an unnamed module.
func NewContextVisitor(hook ast.Visitor, ctx *Context) *ContextVisitor {
	if ctx == nil {
		ctx = NewContext("")
	}

	cv := &ContextVisitor{Traversal: NewTraversal(hook), ctx: ctx}
	cv.self = cv

	return cv
}

// Context returns the live traversal context.
func (cv *ContextVisitor) Context() *Context {
	return cv.ctx
}

// Walk visits root and every node below it, restoring the context on every
// exit path. A panic escaping a hook is returned as an [*AnalysisError].
func (cv *ContextVisitor) Walk(root ast.Node) error {
	return walk(cv, root)
}

func (cv *ContextVisitor) VisitModule(n *ast.Module) {
	if cv.ctx.ModuleName == "" {
		cv.ctx.ModuleName = n.Name
	}

	cv.Traversal.VisitModule(n)
}

func (cv *ContextVisitor) VisitFunction(n *ast.Function) {
	defer cv.ctx.enterFunction(n)()

	cv.Traversal.VisitFunction(n)
}

func (cv *ContextVisitor) VisitProcedure(n *ast.Procedure) {
	defer cv.ctx.enterProcedure(n)()

	cv.Traversal.VisitProcedure(n)
}

func (cv *ContextVisitor) VisitIfStatement(n *ast.IfStatement) {
	defer cv.ctx.enterCondition()()

	cv.Traversal.VisitIfStatement(n)
}

func (cv *ContextVisitor) VisitWhileLoop(n *ast.WhileLoop) {
	defer cv.ctx.enterLoop()()

	cv.Traversal.VisitWhileLoop(n)
}

func (cv *ContextVisitor) VisitForLoop(n *ast.ForLoop) {
	defer cv.ctx.enterLoop()()

	cv.Traversal.VisitForLoop(n)
}
