package main

import (
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/redisguard/internal/output"
	"github.com/pankaj-dahiya-devops/redisguard/internal/policy"
)

func newRulesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rule catalogue in evaluation order",
		Long: `List the rules an audit would evaluate: the selected pack or catalogue
file with the policy applied (disabled rules removed, severity and value
overrides in effect).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, catalogue, err := a.loadCatalogue()
			if err != nil {
				return err
			}
			pol, err := a.loadPolicy(catalogue)
			if err != nil {
				return err
			}
			active := policy.ApplyPolicy(catalogue, pol)

			if format == "json" {
				return output.WriteJSON(cmd.OutOrStdout(), active)
			}
			output.RenderRules(cmd.OutOrStdout(), active, a.cfg.Color)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	cmd.Flags().Bool("color", false, "Colour severities")
	addCatalogueFlags(cmd.Flags())
	return cmd
}
