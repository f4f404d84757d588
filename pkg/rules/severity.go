package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSeverity is returned when parsing an unrecognised severity name.
var ErrUnknownSeverity = errors.New("unknown severity")

// Severity grades a violation. Severities are ordered INFO < WARNING < ERROR < CRITICAL.
type Severity string

// Severity levels.
const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Severities returns every level, lowest first.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
}

// Rank returns the position of s in the severity order, or -1 when unknown.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Valid reports whether s is a known level.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity parses a level name, ignoring case and surrounding space.
func ParseSeverity(name string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
	}

	return s, nil
}
