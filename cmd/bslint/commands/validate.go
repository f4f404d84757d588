package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bslint/pkg/ingest"
)

func newValidateCommand(g *globalOptions) *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a module tree against the ingestion schema",
		Long: `Validate a JSON module tree against the schema bslint ingests.

Examples:
  bslint validate Orders.json
  bslint validate - < Orders.json
  bslint validate --print-schema`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(ingest.Schema())

				return err
			}

			if len(args) == 0 {
				return fmt.Errorf("%w: expected a file or -", ingest.ErrMalformed)
			}

			return runValidate(cmd, args[0], g.colored())
		},
	}

	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "print the embedded JSON schema and exit")

	return cmd
}

func runValidate(cmd *cobra.Command, inputPath string, colored bool) error {
	data, label, err := readInput(cmd.InOrStdin(), inputPath)
	if err != nil {
		return err
	}

	violations, err := ingest.Validate(data)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, c := range []*color.Color{green, red} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	out := cmd.OutOrStdout()

	if len(violations) == 0 {
		green.Fprintf(out, "Module tree is valid (%s)\n", label)

		return nil
	}

	red.Fprintf(out, "Module tree validation failed (%s)\n", label)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, v := range violations {
		red.Fprintf(out, "  - %s\n", v)
	}

	return fmt.Errorf("%w: %s: %d schema violations", ErrInvalidTree, label, len(violations))
}

func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, ingest.StdinSource, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	return data, path, nil
}
