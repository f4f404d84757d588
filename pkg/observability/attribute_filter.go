package observability

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// AttributePolicy decides which span attributes may be exported. A key passes
// when it equals a bare key or starts with an allowed namespace, and is not
// listed in Blocked.
type AttributePolicy struct {
	Namespaces []string
	Bare       []string
	Blocked    []string
}

// DefaultAttributePolicy covers the attributes bslint sets. Module source and
// snippets are blocked since BSL code may embed credentials.
func DefaultAttributePolicy() AttributePolicy {
	return AttributePolicy{
		Namespaces: []string{"bslint.", "batch.", "error.", "module.", "rule.", "run."},
		Bare:       []string{"error"},
		Blocked:    []string{"module.source", "module.snippet"},
	}
}

// Permits reports whether key may be exported.
func (p AttributePolicy) Permits(key string) bool {
	if slices.Contains(p.Blocked, key) {
		return false
	}

	if slices.Contains(p.Bare, key) {
		return true
	}

	return slices.ContainsFunc(p.Namespaces, func(ns string) bool {
		return strings.HasPrefix(key, ns)
	})
}

// filteringExporter strips attributes the policy rejects before spans reach
// the wrapped exporter.
type filteringExporter struct {
	sdktrace.SpanExporter

	policy AttributePolicy
	logger *slog.Logger
}

// NewAttributeFilter wraps next with [DefaultAttributePolicy]. Dropped keys
// are reported to logger at debug level when logger is non-nil.
func NewAttributeFilter(next sdktrace.SpanExporter, logger *slog.Logger) sdktrace.SpanExporter {
	return &filteringExporter{SpanExporter: next, policy: DefaultAttributePolicy(), logger: logger}
}

func (e *filteringExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	views := make([]sdktrace.ReadOnlySpan, len(spans))
	for i, s := range spans {
		views[i] = &policySpan{ReadOnlySpan: s, attrs: e.keep(ctx, s.Attributes())}
	}

	return e.SpanExporter.ExportSpans(ctx, views)
}

func (e *filteringExporter) keep(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	return slices.DeleteFunc(slices.Clone(attrs), func(kv attribute.KeyValue) bool {
		if e.policy.Permits(string(kv.Key)) {
			return false
		}

		if e.logger != nil {
			e.logger.DebugContext(ctx, "span attribute dropped", "key", string(kv.Key))
		}

		return true
	})
}

// policySpan is a read-only span whose attributes were filtered on export.
type policySpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s *policySpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
