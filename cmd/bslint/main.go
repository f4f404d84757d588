// Package main provides the entry point for the bslint CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/bslint/cmd/bslint/commands"
	"github.com/Sumatoshi-tech/bslint/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil && !errors.Is(err, commands.ErrViolationsFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(commands.ExitCode(err))
}
