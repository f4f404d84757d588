// Package config provides configuration loading and validation for bslint.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidLimit       = errors.New("rule limit must not be negative")
	ErrInvalidInputSize   = errors.New("invalid max input size")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidIterations  = errors.New("max iterations must not be negative")
)

// EnvPrefix prefixes every environment override, e.g. BSLINT_ANALYSIS_WORKERS.
const EnvPrefix = "BSLINT"

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = ".bslint"

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all configuration for bslint.
type Config struct {
	Rules     RulesConfig     `mapstructure:"rules"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RulesConfig selects and tunes rules.
type RulesConfig struct {
	// Disabled lists rule codes that are not run.
	Disabled []string `mapstructure:"disabled"`
	// Severity overrides the default severity per rule code. Keys are
	// lower-cased by the loader; consumers compare case-insensitively.
	Severity             map[string]string `mapstructure:"severity"`
	MaxParameters        int               `mapstructure:"max_parameters"`
	MaxDefaultParameters int               `mapstructure:"max_default_parameters"`
	MaxProcedureLines    int               `mapstructure:"max_procedure_lines"`
	LoopCounters         []string          `mapstructure:"loop_counters"`
}

// AnalysisConfig holds analysis-specific configuration.
type AnalysisConfig struct {
	// Workers bounds concurrent module analyses; 0 means one per CPU.
	Workers              int    `mapstructure:"workers"`
	ExemptExportedUnused bool   `mapstructure:"exempt_exported_unused"`
	MaxInputSize         string `mapstructure:"max_input_size"`
	StrictSchema         bool   `mapstructure:"strict_schema"`
	MaxIterations        int    `mapstructure:"max_iterations"`
}

// MaxInputBytes parses MaxInputSize.
func (a AnalysisConfig) MaxInputBytes() (uint64, error) {
	n, err := humanize.ParseBytes(a.MaxInputSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidInputSize, a.MaxInputSize, err)
	}

	return n, nil
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds tracing and metrics export settings.
// OTLPHeaders is "key=value,key=value".
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsFile  string  `mapstructure:"metrics_file"`
}

// LoadConfig loads configuration from file and environment variables. With an
// empty path, .bslint.yaml is looked up in the working directory and its
// absence is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(DefaultFileName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			MaxParameters:        DefaultMaxParameters,
			MaxDefaultParameters: DefaultMaxDefaultParameters,
			MaxProcedureLines:    DefaultMaxProcedureLines,
			LoopCounters:         slices.Clone(DefaultLoopCounters),
		},
		Analysis: AnalysisConfig{
			Workers:       DefaultWorkers,
			MaxInputSize:  DefaultMaxInputSize,
			MaxIterations: DefaultMaxIterations,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Telemetry: TelemetryConfig{
			SampleRatio: DefaultSampleRatio,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Rule defaults.
	viperCfg.SetDefault("rules.disabled", []string{})
	viperCfg.SetDefault("rules.severity", map[string]string{})
	viperCfg.SetDefault("rules.max_parameters", DefaultMaxParameters)
	viperCfg.SetDefault("rules.max_default_parameters", DefaultMaxDefaultParameters)
	viperCfg.SetDefault("rules.max_procedure_lines", DefaultMaxProcedureLines)
	viperCfg.SetDefault("rules.loop_counters", DefaultLoopCounters)

	// Analysis defaults.
	viperCfg.SetDefault("analysis.workers", DefaultWorkers)
	viperCfg.SetDefault("analysis.exempt_exported_unused", false)
	viperCfg.SetDefault("analysis.max_input_size", DefaultMaxInputSize)
	viperCfg.SetDefault("analysis.strict_schema", false)
	viperCfg.SetDefault("analysis.max_iterations", DefaultMaxIterations)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.metrics_file", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	if config.Analysis.MaxIterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, config.Analysis.MaxIterations)
	}

	for name, v := range map[string]int{
		"max_parameters":         config.Rules.MaxParameters,
		"max_default_parameters": config.Rules.MaxDefaultParameters,
		"max_procedure_lines":    config.Rules.MaxProcedureLines,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidLimit, name, v)
		}
	}

	if _, err := config.Analysis.MaxInputBytes(); err != nil {
		return err
	}

	if !slices.Contains(logLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(config.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
