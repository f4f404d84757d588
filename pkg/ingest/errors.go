package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by [IngestionError].
var (
	ErrTooLarge  = errors.New("input exceeds size limit")
	ErrMalformed = errors.New("malformed module tree")
	ErrSchema    = errors.New("module tree violates schema")
)

// IngestionError reports input that could not be turned into a module. The
// loader still returns an empty module alongside it.
type IngestionError struct {
	// Source names the input, a file path or "stdin".
	Source string
	// Details holds schema violations, if any.
	Details []string
	Cause   error
}

func (e *IngestionError) Error() string {
	msg := fmt.Sprintf("ingest %s: %v", e.Source, e.Cause)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}

	return msg
}

func (e *IngestionError) Unwrap() error {
	return e.Cause
}
