// Package observability provides OpenTelemetry tracing, metrics and structured
// logging for bslint.
package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/bslint/pkg/config"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeBatch is a multi-module check run.
	ModeBatch AppMode = "batch"
)

const (
	defaultServiceName        = "bslint"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the parent-based trace sampling ratio; zero samples everything.
	SampleRatio float64

	// Prometheus attaches a Prometheus reader whose registry is returned in
	// [Providers.Registry], e.g. for writing a textfile after a run.
	Prometheus bool

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// FromSettings maps loaded application settings onto an observability Config.
func FromSettings(cfg *config.Config, version string, mode AppMode) Config {
	oc := DefaultConfig()
	oc.ServiceVersion = version
	oc.Mode = mode
	oc.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	oc.OTLPHeaders = ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	oc.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	oc.SampleRatio = cfg.Telemetry.SampleRatio
	oc.Prometheus = cfg.Telemetry.MetricsFile != ""
	oc.LogLevel = ParseLevel(cfg.Logging.Level)
	oc.LogJSON = strings.EqualFold(cfg.Logging.Format, "json")

	return oc
}

// ParseLevel maps a level name onto a slog level. Unknown names yield info.
func ParseLevel(name string) slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
