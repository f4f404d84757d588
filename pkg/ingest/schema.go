package ingest

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema module trees are validated against.
func Schema() []byte {
	return schemaJSON
}

// Violation is one schema violation.
type Violation struct {
	Field       string
	Description string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

// Validate checks data against the embedded schema. The returned slice is
// empty for a valid document; the error reports unreadable JSON.
func Validate(data []byte) ([]Violation, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if result.Valid() {
		return nil, nil
	}

	out := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		out = append(out, Violation{Field: re.Field(), Description: re.Description()})
	}

	return out, nil
}
