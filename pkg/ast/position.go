package ast

import "fmt"

// Position is a 1-based line/column coordinate in the analyzed source.
type Position struct {
	Line   uint `json:"line"`
	Column uint `json:"column"`
}

// Before reports whether p precedes other lexicographically.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}

	return p.Column < other.Column
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range spans a node from Start to End inclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Valid reports whether End does not precede Start.
func (r Range) Valid() bool {
	return !r.End.Before(r.Start)
}

// Lines returns the number of source lines the range covers beyond its first line.
func (r Range) Lines() uint {
	if !r.Valid() {
		return 0
	}

	return r.End.Line - r.Start.Line
}

// Loc carries the optional source range of a node. It is embedded in every node kind.
// A nil Range means the upstream parser could not recover the location.
type Loc struct {
	Range *Range
}

// Span returns the node's range or nil.
func (l Loc) Span() *Range {
	return l.Range
}

// At builds a single-point location.
func At(line, column uint) Loc {
	return Loc{Range: &Range{
		Start: Position{Line: line, Column: column},
		End:   Position{Line: line, Column: column},
	}}
}

// Span builds a location from start and end lines (columns set to 1).
func Span(startLine, endLine uint) Loc {
	return Loc{Range: &Range{
		Start: Position{Line: startLine, Column: 1},
		End:   Position{Line: endLine, Column: 1},
	}}
}

// LineOf returns the start line of n, or 0 when n or its range is absent.
func LineOf(n Node) uint {
	if r := rangeOf(n); r != nil {
		return r.Start.Line
	}

	return 0
}

// ColumnOf returns the start column of n, or 0 when n or its range is absent.
func ColumnOf(n Node) uint {
	if r := rangeOf(n); r != nil {
		return r.Start.Column
	}

	return 0
}

// EndLineOf returns the end line of n, or 0 when n or its range is absent.
func EndLineOf(n Node) uint {
	if r := rangeOf(n); r != nil {
		return r.End.Line
	}

	return 0
}

// LengthOf returns end.line - start.line for n, or 0 when its range is absent.
func LengthOf(n Node) uint {
	if r := rangeOf(n); r != nil {
		return r.Lines()
	}

	return 0
}

func rangeOf(n Node) *Range {
	if IsNil(n) {
		return nil
	}

	return n.Span()
}
