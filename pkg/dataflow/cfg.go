// Package dataflow computes reaching definitions for BSL routines.
//
// A routine body is lowered to a control-flow graph of basic blocks, each
// holding the ordered definition and use events of its statements. A
// worklist fixpoint over the graph then determines, for every use, the set of
// definitions that may reach it along some path.
package dataflow

import (
	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// BlockKind tells which construct produced a basic block.
type BlockKind uint8

// Block kinds.
const (
	BlockEntry BlockKind = iota
	BlockExit
	BlockThen
	BlockElseIfTest
	BlockElseIf
	BlockElse
	BlockJoin
	BlockLoopHeader
	BlockLoopBody
	BlockUnreachable
)

var blockKindNames = [...]string{
	BlockEntry:       "entry",
	BlockExit:        "exit",
	BlockThen:        "then",
	BlockElseIfTest:  "elseif-test",
	BlockElseIf:      "elseif",
	BlockElse:        "else",
	BlockJoin:        "join",
	BlockLoopHeader:  "loop-header",
	BlockLoopBody:    "loop-body",
	BlockUnreachable: "unreachable",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}

	return "unknown"
}

// EventKind distinguishes definitions from uses.
type EventKind uint8

// Event kinds.
const (
	EventDef EventKind = iota
	EventUse
)

// Event is one definition or use of a variable inside a block.
type Event struct {
	Kind   EventKind
	Var    string
	Line   uint
	Column uint
	// Def indexes CFG.Definitions for EventDef and is -1 for EventUse.
	Def  int
	Node ast.Node
}

// Block is a straight-line sequence of events.
type Block struct {
	ID     int
	Kind   BlockKind
	Events []Event
	Succs  []*Block
	Preds  []*Block
}

// CFG is the control-flow graph of one routine.
type CFG struct {
	Blocks      []*Block
	Entry       *Block
	Exit        *Block
	Definitions []Definition
}

// Reachable returns, indexed by block ID, whether a block can be reached from Entry.
func (g *CFG) Reachable() []bool {
	seen := make([]bool, len(g.Blocks))
	stack := []*Block{g.Entry}
	seen[g.Entry.ID] = true

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, s := range b.Succs {
			if !seen[s.ID] {
				seen[s.ID] = true
				stack = append(stack, s)
			}
		}
	}

	return seen
}

func addEdge(from, to *Block) {
	if from == nil || to == nil {
		return
	}

	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// builder lowers a routine into a CFG.
type builder struct {
	cfg     *CFG
	cur     *Block
	scope   *variableScope
	routine string
}

// Build lowers a routine of mod into a control-flow graph. Module variables and
// parameters are defined in the entry block.
func Build(mod *ast.Module, r ast.RoutineNode) *CFG {
	h := r.Header()
	b := &builder{
		cfg:     &CFG{},
		scope:   newVariableScope(mod, h),
		routine: h.Name,
	}

	b.cfg.Entry = b.newBlock(BlockEntry)
	b.cfg.Exit = b.newBlock(BlockExit)
	b.cur = b.cfg.Entry

	if mod != nil {
		for _, v := range mod.Variables {
			if v != nil && !b.scope.isLocal(v.Name) {
				b.define(v.Name, OriginModuleVariable, v)
			}
		}
	}

	for _, p := range h.Parameters {
		if p != nil {
			b.define(p.Name, OriginParameter, p)
		}
	}

	b.stmts(h.Body)
	addEdge(b.cur, b.cfg.Exit)

	return b.cfg
}

func (b *builder) newBlock(kind BlockKind) *Block {
	blk := &Block{ID: len(b.cfg.Blocks), Kind: kind}
	b.cfg.Blocks = append(b.cfg.Blocks, blk)

	return blk
}

func (b *builder) define(name string, origin Origin, n ast.Node) {
	id := len(b.cfg.Definitions)
	b.cfg.Definitions = append(b.cfg.Definitions, Definition{
		ID:      id,
		Var:     name,
		Line:    ast.LineOf(n),
		Column:  ast.ColumnOf(n),
		Origin:  origin,
		Block:   b.cur.ID,
		Escapes: origin == OriginAssignment && b.scope.escapes(name),
		Node:    n,
	})
	b.cur.Events = append(b.cur.Events, Event{
		Kind:   EventDef,
		Var:    name,
		Line:   ast.LineOf(n),
		Column: ast.ColumnOf(n),
		Def:    id,
		Node:   n,
	})
}

func (b *builder) use(ref *ast.VariableReference) {
	b.cur.Events = append(b.cur.Events, Event{
		Kind:   EventUse,
		Var:    ref.Name,
		Line:   ast.LineOf(ref),
		Column: ast.ColumnOf(ref),
		Def:    -1,
		Node:   ref,
	})
}

// expr records the uses inside e, left to right.
func (b *builder) expr(e ast.Expr) {
	if ast.IsNil(e) {
		return
	}

	switch n := e.(type) {
	case *ast.VariableReference:
		b.use(n)
	case *ast.BinaryOperation:
		b.expr(n.Left)
		b.expr(n.Right)
	case *ast.FunctionCall:
		for _, arg := range n.Args {
			b.expr(arg)
		}
	}
}

func (b *builder) stmts(list []ast.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

func (b *builder) stmt(s ast.Stmt) {
	if ast.IsNil(s) {
		return
	}

	switch n := s.(type) {
	case *ast.VariableDeclaration:
		b.define(n.Name, OriginDeclaration, n)
	case *ast.Assignment:
		b.expr(n.Value)

		if n.Target != nil {
			b.define(n.Target.Name, OriginAssignment, n.Target)
		}
	case *ast.FunctionCall:
		b.expr(n)
	case *ast.ReturnStatement:
		b.expr(n.Value)
		addEdge(b.cur, b.cfg.Exit)
		b.cur = b.newBlock(BlockUnreachable)
	case *ast.IfStatement:
		b.ifStmt(n)
	case *ast.WhileLoop:
		b.whileLoop(n)
	case *ast.ForLoop:
		b.forLoop(n)
	}
}

func (b *builder) ifStmt(n *ast.IfStatement) {
	b.expr(n.Condition)

	test := b.cur
	ends := make([]*Block, 0, len(n.ElseIfs)+2)

	then := b.newBlock(BlockThen)
	addEdge(test, then)
	b.cur = then
	b.stmts(n.Then)
	ends = append(ends, b.cur)

	for _, alt := range n.ElseIfs {
		next := b.newBlock(BlockElseIfTest)
		addEdge(test, next)
		b.cur = next
		b.expr(alt.Condition)
		test = next

		body := b.newBlock(BlockElseIf)
		addEdge(test, body)
		b.cur = body
		b.stmts(alt.Body)
		ends = append(ends, b.cur)
	}

	if len(n.Else) > 0 {
		els := b.newBlock(BlockElse)
		addEdge(test, els)
		b.cur = els
		b.stmts(n.Else)
		ends = append(ends, b.cur)
	} else {
		ends = append(ends, test)
	}

	join := b.newBlock(BlockJoin)
	for _, end := range ends {
		addEdge(end, join)
	}

	b.cur = join
}

func (b *builder) whileLoop(n *ast.WhileLoop) {
	header := b.newBlock(BlockLoopHeader)
	addEdge(b.cur, header)
	b.cur = header
	b.expr(n.Condition)

	b.loopBody(header, n.Body)
}

func (b *builder) forLoop(n *ast.ForLoop) {
	b.expr(n.Start)
	b.expr(n.End)
	b.expr(n.Collection)

	header := b.newBlock(BlockLoopHeader)
	addEdge(b.cur, header)
	b.cur = header

	if n.Counter != nil {
		b.define(n.Counter.Name, OriginLoopCounter, n.Counter)
	}

	b.loopBody(header, n.Body)
}

func (b *builder) loopBody(header *Block, body []ast.Stmt) {
	blk := b.newBlock(BlockLoopBody)
	addEdge(header, blk)
	b.cur = blk
	b.stmts(body)
	addEdge(b.cur, header)

	after := b.newBlock(BlockJoin)
	addEdge(header, after)
	b.cur = after
}

// variableScope classifies names as routine-local or visible to callers.
type variableScope struct {
	locals    map[string]struct{}
	refParams map[string]struct{}
	params    map[string]struct{}
	module    map[string]struct{}
}

func newVariableScope(mod *ast.Module, h *ast.Routine) *variableScope {
	s := &variableScope{
		locals:    make(map[string]struct{}),
		refParams: make(map[string]struct{}),
		params:    make(map[string]struct{}),
		module:    make(map[string]struct{}),
	}

	if mod != nil {
		for _, v := range mod.Variables {
			if v != nil {
				s.module[v.Name] = struct{}{}
			}
		}
	}

	for _, p := range h.Parameters {
		if p == nil {
			continue
		}

		s.params[p.Name] = struct{}{}

		if !p.ByValue {
			s.refParams[p.Name] = struct{}{}
		}
	}

	collectLocals(h.Body, s.locals)

	return s
}

func collectLocals(list []ast.Stmt, into map[string]struct{}) {
	for _, s := range list {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			if n != nil {
				into[n.Name] = struct{}{}
			}
		case *ast.IfStatement:
			if n == nil {
				continue
			}

			collectLocals(n.Then, into)

			for _, alt := range n.ElseIfs {
				collectLocals(alt.Body, into)
			}

			collectLocals(n.Else, into)
		case *ast.WhileLoop:
			if n != nil {
				collectLocals(n.Body, into)
			}
		case *ast.ForLoop:
			if n != nil {
				collectLocals(n.Body, into)
			}
		}
	}
}

func (s *variableScope) isLocal(name string) bool {
	_, ok := s.locals[name]

	return ok
}

// escapes reports whether an assignment to name is observable after the
// routine returns: by-reference parameters and module variables not shadowed
// by a local declaration.
func (s *variableScope) escapes(name string) bool {
	if s.isLocal(name) {
		return false
	}

	if _, ok := s.params[name]; ok {
		_, byRef := s.refParams[name]

		return byRef
	}

	_, ok := s.module[name]

	return ok
}
