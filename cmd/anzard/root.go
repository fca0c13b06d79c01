package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "anzard",
		Short:         "Cross-question validation for registry survey data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json (env ANZARD_LOG_FORMAT)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (env ANZARD_LOG_LEVEL)")

	root.AddCommand(
		newValidateCmd(a),
		newMigrateCmd(a),
		newRulesCmd(a),
	)
	return root
}
