package ingest

import (
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// Statement and expression tags understood by the decoder.
const (
	typeAssignment  = "assignment"
	typeCall        = "callStatement"
	typeIf          = "ifStatement"
	typeWhile       = "whileStatement"
	typeFor         = "forStatement"
	typeForEach     = "forEachStatement"
	typeReturn      = "returnStatement"
	typeDeclaration = "variableDeclaration"
	typeLiteral     = "literal"
	typeVariable    = "variable"
	typeBinary      = "binaryOperation"
	typeCallExpr    = "call"
)

type document struct {
	Module *wireModule `json:"module"`
	Source *string     `json:"source"`
}

type wireModule struct {
	Name       string         `json:"name"`
	Range      *ast.Range     `json:"range"`
	Variables  []wireVariable `json:"variables"`
	Functions  []wireRoutine  `json:"functions"`
	Procedures []wireRoutine  `json:"procedures"`
}

type wireVariable struct {
	Name   string     `json:"name"`
	Export bool       `json:"export"`
	Range  *ast.Range `json:"range"`
}

type wireParameter struct {
	Name       string     `json:"name"`
	ByValue    bool       `json:"byValue"`
	HasDefault bool       `json:"hasDefault"`
	Range      *ast.Range `json:"range"`
}

type wireRoutine struct {
	Name       string          `json:"name"`
	Export     bool            `json:"export"`
	Range      *ast.Range      `json:"range"`
	Parameters []wireParameter `json:"parameters"`
	Body       []*wireNode     `json:"body"`
}

type wireClause struct {
	Condition  *wireNode   `json:"condition"`
	Statements []*wireNode `json:"statements"`
}

// wireNode is the union of every statement and expression shape.
type wireNode struct {
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Export      bool       `json:"export"`
	Range       *ast.Range `json:"range"`
	Value       any        `json:"value"`
	LiteralType string     `json:"literalType"`
	Operator    string     `json:"operator"`

	Left       *wireNode `json:"left"`
	Right      *wireNode `json:"right"`
	Target     *wireNode `json:"target"`
	Expression *wireNode `json:"expression"`
	Condition  *wireNode `json:"condition"`
	Counter    *wireNode `json:"counter"`
	Start      *wireNode `json:"start"`
	End        *wireNode `json:"end"`
	Collection *wireNode `json:"collection"`

	Arguments      []*wireNode  `json:"arguments"`
	ThenStatements []*wireNode  `json:"thenStatements"`
	ElseIfClauses  []wireClause `json:"elseIfClauses"`
	ElseStatements []*wireNode  `json:"elseStatements"`
	Statements     []*wireNode  `json:"statements"`
}

// Summary counts what decoding produced and repaired.
type Summary struct {
	Variables     int
	Functions     int
	Procedures    int
	Nodes         int
	DroppedRanges int
	GenericNodes  int
}

type decoder struct {
	summary Summary
}

func (d *decoder) module(doc *document, fallbackName string) *ast.Module {
	mod := &ast.Module{Name: fallbackName}
	if doc.Source != nil {
		mod.Source = splitLines(*doc.Source)
	}

	w := doc.Module
	if w == nil {
		return mod
	}

	if w.Name != "" {
		mod.Name = w.Name
	}

	mod.Loc = d.loc(w.Range)

	for _, v := range w.Variables {
		mod.Variables = append(mod.Variables, &ast.VariableDeclaration{
			Loc: d.loc(v.Range), Name: v.Name, Export: v.Export,
		})
		d.summary.Nodes++
	}

	for i := range w.Functions {
		mod.Functions = append(mod.Functions, &ast.Function{
			Loc: d.loc(w.Functions[i].Range), Routine: d.routine(&w.Functions[i]),
		})
		d.summary.Nodes++
	}

	for i := range w.Procedures {
		mod.Procedures = append(mod.Procedures, &ast.Procedure{
			Loc: d.loc(w.Procedures[i].Range), Routine: d.routine(&w.Procedures[i]),
		})
		d.summary.Nodes++
	}

	d.summary.Variables = len(mod.Variables)
	d.summary.Functions = len(mod.Functions)
	d.summary.Procedures = len(mod.Procedures)

	return mod
}

func (d *decoder) routine(w *wireRoutine) ast.Routine {
	r := ast.Routine{Name: w.Name, Export: w.Export}

	for _, p := range w.Parameters {
		r.Parameters = append(r.Parameters, &ast.Parameter{
			Loc:             d.loc(p.Range),
			Name:            p.Name,
			ByValue:         p.ByValue,
			HasDefaultValue: p.HasDefault,
		})
		d.summary.Nodes++
	}

	r.Body = d.statements(w.Body)

	return r
}

// loc keeps a range only when it is 1-based and does not run backwards.
func (d *decoder) loc(r *ast.Range) ast.Loc {
	if r == nil {
		return ast.Loc{}
	}

	if r.Start.Line == 0 || !r.Valid() {
		d.summary.DroppedRanges++

		return ast.Loc{}
	}

	return ast.Loc{Range: r}
}

func (d *decoder) statements(ws []*wireNode) []ast.Stmt {
	if len(ws) == 0 {
		return nil
	}

	out := make([]ast.Stmt, 0, len(ws))

	for _, w := range ws {
		if w == nil {
			continue
		}

		out = append(out, d.statement(w))
	}

	return out
}

func (d *decoder) statement(w *wireNode) ast.Stmt {
	d.summary.Nodes++
	loc := d.loc(w.Range)

	switch w.Type {
	case typeAssignment:
		return &ast.Assignment{Loc: loc, Target: d.reference(w.Target), Value: d.expression(w.Expression)}
	case typeCall:
		return &ast.FunctionCall{Loc: loc, Name: w.Name, Args: d.expressions(w.Arguments)}
	case typeIf:
		n := &ast.IfStatement{
			Loc:       loc,
			Condition: d.expression(w.Condition),
			Then:      d.statements(w.ThenStatements),
			Else:      d.statements(w.ElseStatements),
		}
		for _, c := range w.ElseIfClauses {
			n.ElseIfs = append(n.ElseIfs, ast.ElseIf{
				Condition: d.expression(c.Condition),
				Body:      d.statements(c.Statements),
			})
		}

		return n
	case typeWhile:
		return &ast.WhileLoop{Loc: loc, Condition: d.expression(w.Condition), Body: d.statements(w.Statements)}
	case typeFor:
		return &ast.ForLoop{
			Loc:     loc,
			Counter: d.reference(w.Counter),
			Start:   d.expression(w.Start),
			End:     d.expression(w.End),
			Body:    d.statements(w.Statements),
		}
	case typeForEach:
		n := &ast.ForLoop{
			Loc:        loc,
			Counter:    d.reference(w.Counter),
			Collection: d.expression(w.Collection),
			Body:       d.statements(w.Statements),
		}
		if n.Collection == nil {
			n.Collection = &ast.GenericExpr{Type: typeForEach}
		}

		return n
	case typeReturn:
		return &ast.ReturnStatement{Loc: loc, Value: d.expression(w.Expression)}
	case typeDeclaration:
		return &ast.VariableDeclaration{Loc: loc, Name: w.Name, Export: w.Export}
	default:
		d.summary.GenericNodes++

		return &ast.GenericExpr{Loc: loc, Type: w.Type}
	}
}

func (d *decoder) expressions(ws []*wireNode) []ast.Expr {
	if len(ws) == 0 {
		return nil
	}

	out := make([]ast.Expr, 0, len(ws))

	for _, w := range ws {
		if e := d.expression(w); e != nil {
			out = append(out, e)
		}
	}

	return out
}

// expression returns nil for an absent slot so optional children stay absent.
func (d *decoder) expression(w *wireNode) ast.Expr {
	if w == nil {
		return nil
	}

	d.summary.Nodes++
	loc := d.loc(w.Range)

	switch w.Type {
	case typeLiteral:
		return &ast.Literal{Loc: loc, Value: w.Value, Type: literalType(w.LiteralType)}
	case typeVariable:
		return &ast.VariableReference{Loc: loc, Name: w.Name}
	case typeBinary:
		return &ast.BinaryOperation{
			Loc:      loc,
			Operator: w.Operator,
			Left:     d.expression(w.Left),
			Right:    d.expression(w.Right),
		}
	case typeCallExpr, typeCall:
		return &ast.FunctionCall{Loc: loc, Name: w.Name, Args: d.expressions(w.Arguments)}
	default:
		d.summary.GenericNodes++

		return &ast.GenericExpr{Loc: loc, Type: w.Type}
	}
}

// reference decodes a variable slot such as an assignment target. Anything
// but a variable keeps its name when it has one.
func (d *decoder) reference(w *wireNode) *ast.VariableReference {
	if w == nil {
		return nil
	}

	d.summary.Nodes++

	return &ast.VariableReference{Loc: d.loc(w.Range), Name: w.Name}
}

func literalType(t string) ast.LiteralType {
	switch lt := ast.LiteralType(strings.ToLower(t)); lt {
	case ast.LiteralNumber, ast.LiteralString, ast.LiteralBoolean, ast.LiteralDate,
		ast.LiteralUndefined, ast.LiteralNull:
		return lt
	default:
		return ast.LiteralUnknown
	}
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}

	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}
