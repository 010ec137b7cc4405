package cli

import (
	"github.com/spf13/cobra"

	"dicom-deid/internal/rules"
)

// NewRulesCommand creates the rules command, which lists the effective rule
// table.
func NewRulesCommand() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule table, defaults merged with a rules file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := rules.DefaultTable()
			if rulesFile != "" {
				if err := table.LoadFile(rulesFile); err != nil {
					return err
				}
			}
			table.Print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rules file applied on top of the default rules")
	return cmd
}
