// Package cli implements the dicom-deid command line.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFile    string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dicom-deid",
		Short: "De-identify DICOM files in bulk",
		Long: "dicom-deid rewrites, blanks, enumerates or deletes identifying fields of DICOM files\n" +
			"according to a rule table, optionally regenerating UIDs and recording an audit trail.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := initConfig(cmd, opts)
			if err != nil {
				return err
			}
			if err := initLogging(opts, cmd.ErrOrStderr()); err != nil {
				return err
			}
			for _, o := range overrides {
				logrus.WithFields(logrus.Fields{
					"flag": o.FlagName,
					"key":  o.ConfigKey,
				}).Debug("flag set from config")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "",
		"config file (default $DICOM_DEID_CONFIG or ~/.dicom-deid.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info",
		"log level ("+joinLevels()+")")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "",
		"write logs to this file, rotated, instead of stderr")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewRulesCommand())
	cmd.AddCommand(NewAuditCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
