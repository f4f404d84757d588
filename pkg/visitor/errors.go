package visitor

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// ErrPanic marks a failure recovered from a panic during traversal.
var ErrPanic = errors.New("visitor panicked")

// AnalysisError reports a traversal that was aborted. Only the walked tree is
// affected; callers analyzing several modules continue with the next one.
type AnalysisError struct {
	Kind  ast.Kind
	Line  uint
	Cause error
}

func newAnalysisError(n ast.Node, recovered any) *AnalysisError {
	return &AnalysisError{
		Kind:  n.Kind(),
		Line:  ast.LineOf(n),
		Cause: recoveredError(recovered),
	}
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s at line %d aborted: %v", e.Kind, e.Line, e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// VisitorError records one constituent of a [Composite] failing on one node.
type VisitorError struct {
	Index   int
	Visitor string
	Kind    ast.Kind
	Line    uint
	Cause   error
}

func (e *VisitorError) Error() string {
	return fmt.Sprintf("visitor #%d (%s) failed on %s at line %d: %v",
		e.Index, e.Visitor, e.Kind, e.Line, e.Cause)
}

func (e *VisitorError) Unwrap() error {
	return e.Cause
}

// recoveredError turns a recovered panic value into an error wrapping ErrPanic.
// Panics raised with an error keep it reachable through errors.Is/As.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}

	return fmt.Errorf("%w: %v", ErrPanic, r)
}
