package main

import (
	"github.com/spf13/cobra"

	"github.com/intersect/anzard/pkg/config"
	"github.com/intersect/anzard/pkg/rulestore"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the rule store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg rulestore.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			pool, err := rulestore.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := rulestore.Migrate(cmd.Context(), pool, cfg, a.log); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "rule store migrated")
			return nil
		},
	}
}
