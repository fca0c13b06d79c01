package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intersect/anzard/pkg/config"
	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/ruleimport"
	"github.com/intersect/anzard/pkg/survey"
)

// appConfig is the environment shared by every command.
type appConfig struct {
	LogFormat      string `env:"ANZARD_LOG_FORMAT" envDefault:"text"`
	LogLevel       string `env:"ANZARD_LOG_LEVEL" envDefault:"info"`
	Registry       string `env:"ANZARD_REGISTRY" envDefault:"fertility"`
	Workers        int    `env:"ANZARD_WORKERS" envDefault:"0"`
	PushgatewayURL string `env:"ANZARD_PUSHGATEWAY_URL"`
}

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg appConfig
	log *slog.Logger

	logFormat string
	logLevel  string
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.Load(&a.cfg); err != nil {
		return err
	}
	if a.logFormat == "" {
		a.logFormat = a.cfg.LogFormat
	}
	if a.logLevel == "" {
		a.logLevel = a.cfg.LogLevel
	}

	format, err := logger.ParseFormat(a.logFormat)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.log = logger.New(
		logger.WithFormat(format),
		logger.WithLevel(level),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithService("anzard"),
	)
	return nil
}

// registry builds the checker registry for a registry name.
func registry(name string) (*cqv.Registry, error) {
	switch strings.ToLower(name) {
	case "", "fertility", "anzard":
		return cqv.NewRegistry(cqv.WithFertilityRules()), nil
	case "neonatal", "anznn":
		return cqv.NewRegistry(cqv.WithNeonatalRules()), nil
	case "all":
		return cqv.NewRegistry(cqv.WithFertilityRules(), cqv.WithNeonatalRules()), nil
	default:
		return nil, fmt.Errorf("unknown registry %q (want fertility, neonatal or all)", name)
	}
}

func readCatalog(path string) (*survey.Survey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ruleimport.ReadCatalog(f)
}

func readRules(path string, catalog *survey.Survey) (*cqv.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ruleimport.ReadRules(f, catalog)
}
