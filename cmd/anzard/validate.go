package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"

	"github.com/intersect/anzard/pkg/batch"
	"github.com/intersect/anzard/pkg/config"
	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/reportstore"
	"github.com/intersect/anzard/pkg/rulestore"
	"github.com/intersect/anzard/pkg/survey"
	"github.com/intersect/anzard/pkg/validation"
)

var errBatchFailed = errors.New("batch failed validation")

type validateFlags struct {
	catalog   string
	rules     string
	registry  string
	year      int
	keyColumn string
	summary   string
	detail    string
	publish   bool
}

func newValidateCmd(a *app) *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate [flags] RECORDS.csv",
		Short: "Validate a batch file of records",
		Long: `Validates every record of a CSV batch file and prints the batch outcome.
Rules come from --rules, or from the database when --rules is omitted.
The command exits non-zero when the batch fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, f, args[0])
		},
	}
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "survey catalog YAML")
	cmd.Flags().StringVar(&f.rules, "rules", "", "rule definition CSV (default: load from the database)")
	cmd.Flags().StringVar(&f.registry, "registry", "", "special rule set: fertility, neonatal or all (env ANZARD_REGISTRY)")
	cmd.Flags().IntVar(&f.year, "year", time.Now().Year(), "year of registration")
	cmd.Flags().StringVar(&f.keyColumn, "key-column", batch.DefaultKeyColumn, "column identifying each record")
	cmd.Flags().StringVar(&f.summary, "summary", "", "write the summary report CSV to this file")
	cmd.Flags().StringVar(&f.detail, "detail", "", "write the detail report CSV to this file")
	cmd.Flags().BoolVar(&f.publish, "publish", false, "store reports in the configured report storage")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, f validateFlags, recordsPath string) error {
	ctx := cmd.Context()

	catalog, err := readCatalog(f.catalog)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	var repo *cqv.Repository
	if f.rules != "" {
		repo, err = readRules(f.rules, catalog)
	} else {
		repo, err = loadStoredRules(cmd, a, catalog)
	}
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	name := f.registry
	if name == "" {
		name = a.cfg.Registry
	}
	reg, err := registry(name)
	if err != nil {
		return err
	}
	if err := reg.Supports(repo); err != nil {
		return fmt.Errorf("rules need checkers missing from the %s registry: %w", name, err)
	}

	promReg := prometheus.NewRegistry()
	session := validation.NewSession(cqv.NewEvaluator(reg, repo),
		validation.WithLogger(a.log),
		validation.WithMetrics(validation.NewMetrics(promReg)),
	)
	proc := batch.NewProcessor(catalog, session,
		batch.WithLogger(a.log),
		batch.WithYearOfRegistration(f.year),
		batch.WithKeyColumn(f.keyColumn),
		batch.WithWorkers(a.cfg.Workers),
	)

	in, err := os.Open(recordsPath)
	if err != nil {
		return err
	}
	defer in.Close()

	b := batch.New(filepath.Base(recordsPath))
	if err := proc.Process(ctx, b, in); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status: %s\n", b.Status())
	fmt.Fprintf(out, "Message: %s\n", b.Message)
	fmt.Fprintf(out, "Records: %d\n", b.RecordCount())
	fmt.Fprintf(out, "Records with problems: %d\n", b.ProblemRecordCount())

	if b.HasReports() {
		if err := writeReport(f.summary, b, batch.WriteSummaryReport); err != nil {
			return fmt.Errorf("write summary report: %w", err)
		}
		if err := writeReport(f.detail, b, batch.WriteDetailReport); err != nil {
			return fmt.Errorf("write detail report: %w", err)
		}
		if f.publish {
			if err := publish(cmd, a, b); err != nil {
				return fmt.Errorf("publish reports: %w", err)
			}
		}
	}

	if a.cfg.PushgatewayURL != "" {
		if err := push.New(a.cfg.PushgatewayURL, "anzard_validate").Gatherer(promReg).PushContext(ctx); err != nil {
			a.log.WarnContext(ctx, "failed to push metrics", logger.Error(err))
		}
	}

	if b.Status() == batch.StatusFailed {
		return errBatchFailed
	}
	return nil
}

func writeReport(path string, b *batch.Batch, write func(io.Writer, *batch.Batch) error) (err error) {
	if path == "" {
		return nil
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return write(out, b)
}

func publish(cmd *cobra.Command, a *app, b *batch.Batch) error {
	var cfg reportstore.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	storage, err := reportstore.NewStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	reports, err := reportstore.NewPublisher(storage, a.log).Publish(cmd.Context(), b)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Summary report: %s\nDetail report: %s\n", reports.SummaryURL, reports.DetailURL)
	return nil
}

func loadStoredRules(cmd *cobra.Command, a *app, catalog *survey.Survey) (*cqv.Repository, error) {
	var cfg rulestore.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	pool, err := rulestore.Connect(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	rules := rulestore.NewCached(rulestore.New(pool), cfg.CacheSize, rulestore.WithLogger(a.log))
	return rules.Load(cmd.Context(), catalog)
}
