// Package ast provides the syntax tree model for BSL modules and the visitor
// protocol used to walk it.
//
// The set of node kinds is closed: only this package can declare a type that
// satisfies [Node], and every kind dispatches to exactly one method of [Visitor].
package ast

import (
	"reflect"
	"strconv"
)

// Kind identifies the concrete variant of a [Node].
type Kind uint8

// Node kinds.
const (
	KindModule Kind = iota
	KindFunction
	KindProcedure
	KindParameter
	KindVariableDeclaration
	KindVariableReference
	KindAssignment
	KindIfStatement
	KindWhileLoop
	KindForLoop
	KindReturnStatement
	KindBinaryOperation
	KindLiteral
	KindFunctionCall
	KindExpression

	kindCount
)

var kindNames = [kindCount]string{
	KindModule:              "Module",
	KindFunction:            "Function",
	KindProcedure:           "Procedure",
	KindParameter:           "Parameter",
	KindVariableDeclaration: "VariableDeclaration",
	KindVariableReference:   "VariableReference",
	KindAssignment:          "Assignment",
	KindIfStatement:         "IfStatement",
	KindWhileLoop:           "WhileLoop",
	KindForLoop:             "ForLoop",
	KindReturnStatement:     "ReturnStatement",
	KindBinaryOperation:     "BinaryOperation",
	KindLiteral:             "Literal",
	KindFunctionCall:        "FunctionCall",
	KindExpression:          "Expression",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := range kindCount {
		kinds = append(kinds, k)
	}

	return kinds
}

// Node is implemented by every syntax tree node.
type Node interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Span returns the source range, or nil when unknown.
	Span() *Range
	// Accept dispatches to the visitor method named for the node's kind.
	Accept(v Visitor)

	node()
}

// Stmt is a node that may appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that may appear in an expression slot.
type Expr interface {
	Node
	exprNode()
}

// RoutineNode is implemented by [Function] and [Procedure].
type RoutineNode interface {
	Node
	Header() *Routine
}

// LiteralType tags the value carried by a [Literal].
type LiteralType string

// Literal types produced by the upstream parser.
const (
	LiteralNumber    LiteralType = "number"
	LiteralString    LiteralType = "string"
	LiteralBoolean   LiteralType = "boolean"
	LiteralDate      LiteralType = "date"
	LiteralUndefined LiteralType = "undefined"
	LiteralNull      LiteralType = "null"
	LiteralUnknown   LiteralType = "unknown"
)

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)

	return v.Kind() == reflect.Pointer && v.IsNil()
}
