package cli

import (
	"github.com/spf13/cobra"

	"dicom-deid/internal/audit"
)

// NewAuditCommand creates the audit command group.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect audit trails",
	}
	cmd.AddCommand(newAuditShowCommand())
	return cmd
}

func newAuditShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print an audit trail grouped by tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := audit.Load(args[0])
			if err != nil {
				return err
			}
			entries.Print(cmd.OutOrStdout())
			return nil
		},
	}
}
