package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bslint/pkg/report"
	"github.com/Sumatoshi-tech/bslint/pkg/rules/catalog"
)

func newRulesCommand(g *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		Long:  "List the rules check would run, with severities after configured overrides.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			if all {
				return report.WriteRules(cmd.OutOrStdout(), catalog.All(cfg.Rules), g.colored())
			}

			active, err := catalog.FromConfig(cfg.Rules)
			if err != nil {
				return err
			}

			return report.WriteRules(cmd.OutOrStdout(), active, g.colored())
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include disabled rules with their default severities")

	return cmd
}
