package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bslint/pkg/config"
	"github.com/Sumatoshi-tech/bslint/pkg/observability"
)

func TestInit_NoopWhenNothingConfigured(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.Nil(t, providers.Registry)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.NotNil(t, ctx)

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_LoggerWritesToConfiguredOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogOutput = &buf
	cfg.LogLevel = slog.LevelWarn

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Info("hidden")
	providers.Logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"service":"bslint"`)
}

func TestInit_PrometheusTextfile(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Prometheus = true
	cfg.LogOutput = &bytes.Buffer{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)
	require.NotNil(t, providers.Registry)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	metrics, err := observability.NewAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordModule(context.Background(), observability.ModuleStats{Status: observability.StatusOK})

	path := filepath.Join(t.TempDir(), "bslint.prom")
	require.NoError(t, observability.WriteTextfile(providers.Registry, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `bslint[._]modules[._]total`, string(data))
}

func TestWriteTextfileWithoutRegistry(t *testing.T) {
	t.Parallel()

	err := observability.WriteTextfile(nil, filepath.Join(t.TempDir(), "x.prom"))
	require.ErrorIs(t, err, observability.ErrNoRegistry)
}

func TestFromSettings(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "JSON"
	cfg.Telemetry.OTLPEndpoint = "localhost:4317"
	cfg.Telemetry.OTLPHeaders = "api-key=secret"
	cfg.Telemetry.MetricsFile = "/tmp/bslint.prom"

	oc := observability.FromSettings(cfg, "1.2.3", observability.ModeBatch)

	assert.Equal(t, "bslint", oc.ServiceName)
	assert.Equal(t, "1.2.3", oc.ServiceVersion)
	assert.Equal(t, observability.ModeBatch, oc.Mode)
	assert.Equal(t, slog.LevelDebug, oc.LogLevel)
	assert.True(t, oc.LogJSON)
	assert.True(t, oc.Prometheus)
	assert.Equal(t, "localhost:4317", oc.OTLPEndpoint)
	assert.Equal(t, map[string]string{"api-key": "secret"}, oc.OTLPHeaders)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("chatty"))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "key=value", map[string]string{"key": "value"}},
		{"spaces", " k1 = v1 , k2 = v2 ", map[string]string{"k1": "v1", "k2": "v2"}},
		{"no_equals", "invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.input))
		})
	}
}
