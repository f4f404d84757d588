// Package report renders batch results for people and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bslint/pkg/analysis"
	"github.com/Sumatoshi-tech/bslint/pkg/rules"
)

// ErrUnknownFormat is returned by [ParseFormat].
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the renderer.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Options tunes rendering.
type Options struct {
	Format Format
	// Color enables ANSI colours in text output.
	Color bool
	// Snippets adds the offending source line under each violation in text output.
	Snippets bool
}

// Write renders rep to w.
func Write(w io.Writer, rep *analysis.Report, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(newDocument(rep))
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(newDocument(rep))
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		return enc.Close()
	case FormatText, "":
		return writeText(w, rep, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Failure describes a module that could not be analyzed completely.
type Failure struct {
	Path   string `json:"path"   yaml:"path"`
	Module string `json:"module" yaml:"module"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error"  yaml:"error"`
}

// Summary counts the outcome of a run.
type Summary struct {
	Modules    int            `json:"modules"     yaml:"modules"`
	Failed     int            `json:"failed"      yaml:"failed"`
	Violations int            `json:"violations"  yaml:"violations"`
	BySeverity map[string]int `json:"by_severity" yaml:"by_severity"`
	DurationMS int64          `json:"duration_ms" yaml:"duration_ms"`
}

// Document is the machine-readable form of a run.
type Document struct {
	RunID      string            `json:"run_id"             yaml:"run_id"`
	Summary    Summary           `json:"summary"            yaml:"summary"`
	Failures   []Failure         `json:"failures,omitempty" yaml:"failures,omitempty"`
	Violations []rules.Violation `json:"violations"         yaml:"violations"`
}

func newDocument(rep *analysis.Report) Document {
	doc := Document{
		RunID:      rep.RunID,
		Summary:    summarize(rep),
		Violations: rep.Violations,
	}

	if doc.Violations == nil {
		doc.Violations = []rules.Violation{}
	}

	for _, m := range rep.Failed() {
		doc.Failures = append(doc.Failures, Failure{
			Path:   m.Path,
			Module: m.Module,
			Status: m.Status,
			Error:  m.Err.Error(),
		})
	}

	return doc
}

func summarize(rep *analysis.Report) Summary {
	s := Summary{
		Modules:    len(rep.Modules),
		Failed:     len(rep.Failed()),
		Violations: len(rep.Violations),
		BySeverity: make(map[string]int),
		DurationMS: rep.Duration.Round(time.Millisecond).Milliseconds(),
	}

	for sev, n := range rep.CountBySeverity() {
		s.BySeverity[string(sev)] = n
	}

	return s
}
