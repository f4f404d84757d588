package config

// Rule defaults.
const (
	DefaultMaxParameters        = 7
	DefaultMaxDefaultParameters = 3
	DefaultMaxProcedureLines    = 50
)

// DefaultLoopCounters are the single-letter names exempt from the minimum length rule.
var DefaultLoopCounters = []string{"i", "j", "k", "n", "m"}

// Analysis defaults.
const (
	DefaultWorkers       = 0
	DefaultMaxInputSize  = "16MB"
	DefaultMaxIterations = 100_000
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
)
