// Package commands implements CLI command handlers for bslint.
package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bslint/pkg/config"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitError    = 2
)

var (
	// ErrViolationsFound is returned by check when a violation reaches --fail-on.
	ErrViolationsFound = errors.New("violations found")
	// ErrInvalidTree is returned by validate for a tree that violates the schema.
	ErrInvalidTree = errors.New("module tree is invalid")
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrViolationsFound), errors.Is(err, ErrInvalidTree):
		return ExitFindings
	default:
		return ExitError
	}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
}

// load reads the configuration and applies the verbosity flags to it.
func (g *globalOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case g.quiet:
		cfg.Logging.Level = "error"
	case g.verbose:
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// colored reports whether output to a terminal should carry ANSI colours.
func (g *globalOptions) colored() bool {
	return !g.noColor && !color.NoColor
}

// NewRootCommand builds the bslint command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "bslint",
		Short: "Static analysis for 1C:Enterprise (BSL) modules",
		Long: `bslint checks parsed BSL module trees against naming, routine and
data-flow rules.

Commands:
  check     Analyze module trees and report violations
  rules     List the active rules
  validate  Validate a module tree against the ingestion schema
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "",
		fmt.Sprintf("config file (default: ./%s.yaml)", config.DefaultFileName))
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress log output")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newCheckCommand(g))
	rootCmd.AddCommand(newRulesCommand(g))
	rootCmd.AddCommand(newValidateCommand(g))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
