package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/intersect/anzard/pkg/config"
	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/rulestore"
)

func newRulesCmd(a *app) *cobra.Command {
	var catalogPath, registryName string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Check and import rule definition files",
	}
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "survey catalog YAML")
	cmd.PersistentFlags().StringVar(&registryName, "registry", "", "also check that fertility, neonatal or all special rules cover the file")
	_ = cmd.MarkPersistentFlagRequired("catalog")

	check := &cobra.Command{
		Use:   "check RULES.csv",
		Short: "Validate a rule definition file without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRuleFile(catalogPath, args[0], registryName)
			if err != nil {
				return err
			}
			printRuleSummary(cmd, repo)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import RULES.csv",
		Short: "Replace the stored rules of a survey with a rule definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRuleFile(catalogPath, args[0], registryName)
			if err != nil {
				return err
			}

			var cfg rulestore.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			pool, err := rulestore.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := rulestore.New(pool).Save(cmd.Context(), repo); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "rules imported",
				logger.SurveyID(repo.Catalog().ID),
				logger.Count("rules", repo.Len()),
			)
			printRuleSummary(cmd, repo)
			return nil
		},
	}

	cmd.AddCommand(check, importCmd)
	return cmd
}

func loadRuleFile(catalogPath, rulesPath, registryName string) (*cqv.Repository, error) {
	catalog, err := readCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	repo, err := readRules(rulesPath, catalog)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if registryName != "" {
		reg, err := registry(registryName)
		if err != nil {
			return nil, err
		}
		if err := reg.Supports(repo); err != nil {
			return nil, fmt.Errorf("rules need checkers missing from the %s registry: %w", registryName, err)
		}
	}
	return repo, nil
}

func printRuleSummary(cmd *cobra.Command, repo *cqv.Repository) {
	counts := make(map[cqv.Kind]int)
	primary := 0
	for _, r := range repo.All() {
		counts[r.Kind]++
		if r.Primary {
			primary++
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d rules (%d primary) for survey %q\n", repo.Len(), primary, repo.Catalog().Name)
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(out, "  %-32s %d\n", k, counts[k])
	}
}
