// Package ingest turns the JSON tree emitted by an external BSL parser into
// an [ast.Module].
//
// Input that cannot be used never aborts a batch: the loader returns an empty
// module named after the input together with an [IngestionError].
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/bslint/pkg/ast"
)

// DefaultMaxSize bounds a single input when no limit is configured.
const DefaultMaxSize uint64 = 16 << 20

// maxLoggedViolations caps schema violations attached to a log record or error.
const maxLoggedViolations = 5

// StdinSource names standard input in errors and logs.
const StdinSource = "stdin"

// Option configures a [Loader].
type Option func(*Loader)

// WithMaxSize rejects inputs larger than n bytes. Zero disables the limit.
func WithMaxSize(n uint64) Option {
	return func(l *Loader) {
		l.maxSize = n
	}
}

// WithStrictSchema makes schema violations fatal. Otherwise they are logged
// and decoding proceeds.
func WithStrictSchema(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithLogger sets the logger for warnings and decode summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader decodes module trees. It is safe for concurrent use.
type Loader struct {
	maxSize uint64
	strict  bool
	logger  *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{maxSize: DefaultMaxSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadFile reads and decodes the tree stored at path. The module is named
// after the file when the tree carries no name.
func (l *Loader) LoadFile(ctx context.Context, path string) (*ast.Module, error) {
	name := ModuleName(path)

	f, err := os.Open(path)
	if err != nil {
		return l.fail(ctx, path, name, nil, err)
	}
	defer f.Close()

	return l.Load(ctx, f, path, name)
}

// Load reads a tree from r. source names the input in errors; name is the
// module name used when the tree has none.
func (l *Loader) Load(ctx context.Context, r io.Reader, source, name string) (*ast.Module, error) {
	reader := r
	if l.maxSize > 0 {
		reader = io.LimitReader(r, int64(min(l.maxSize, uint64(1<<62)))+1) //nolint:gosec // bounded above
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return l.fail(ctx, source, name, nil, err)
	}

	if l.maxSize > 0 && uint64(len(data)) > l.maxSize {
		return l.fail(ctx, source, name, nil,
			fmt.Errorf("%w: more than %s", ErrTooLarge, humanize.IBytes(l.maxSize)))
	}

	return l.Decode(ctx, data, source, name)
}

// Decode validates and decodes an in-memory tree.
func (l *Loader) Decode(ctx context.Context, data []byte, source, name string) (*ast.Module, error) {
	violations, err := Validate(data)
	if err != nil {
		return l.fail(ctx, source, name, nil, err)
	}

	if len(violations) > 0 {
		details := describe(violations)
		if l.strict {
			return l.fail(ctx, source, name, details, ErrSchema)
		}

		l.logger.WarnContext(ctx, "module tree violates schema",
			"source", source,
			"violations", len(violations),
			"first", details)
	}

	var doc document

	err = json.Unmarshal(data, &doc)
	if err != nil {
		return l.fail(ctx, source, name, nil, fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	if doc.Module == nil {
		return l.fail(ctx, source, name, nil, fmt.Errorf("%w: no module object", ErrMalformed))
	}

	var d decoder

	mod := d.module(&doc, name)

	l.logger.InfoContext(ctx, "module decoded",
		"module", mod.Name,
		"variables", d.summary.Variables,
		"functions", d.summary.Functions,
		"procedures", d.summary.Procedures,
		"nodes", d.summary.Nodes,
		"dropped_ranges", d.summary.DroppedRanges,
		"generic_nodes", d.summary.GenericNodes)

	return mod, nil
}

func (l *Loader) fail(ctx context.Context, source, name string, details []string, cause error) (*ast.Module, error) {
	ierr := &IngestionError{Source: source, Details: details, Cause: cause}

	l.logger.WarnContext(ctx, "module ingestion failed",
		"source", source,
		"module", name,
		"error", ierr)

	return &ast.Module{Name: name}, ierr
}

// ModuleName derives a module name from an input path: the base name without
// its extensions, or "stdin".
func ModuleName(path string) string {
	if path == "" || path == "-" {
		return StdinSource
	}

	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}

	return base
}

func describe(vs []Violation) []string {
	out := make([]string, 0, min(len(vs), maxLoggedViolations))
	for _, v := range vs[:min(len(vs), maxLoggedViolations)] {
		out = append(out, v.String())
	}

	return out
}

// IsIngestionError reports whether err carries an [IngestionError].
func IsIngestionError(err error) bool {
	var ierr *IngestionError

	return errors.As(err, &ierr)
}
