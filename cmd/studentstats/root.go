package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/studentstats"
	"github.com/kbukum/studentstats/logger"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/version"
)

// app carries what every subcommand needs once the root command has
// loaded the configuration.
type app struct {
	configFile string
	source     string
	retries    int

	cfg      *AppConfig
	log      *logger.Logger
	shutdown observability.ShutdownFunc
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               serviceName,
		Short:             "Statistics over a paginated student list",
		Long:              "Computes unit averages and newest takers over a remote, paginated and occasionally timing out student list",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.persistentPreRunE,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to config.yml (default: searched next to the binary)")
	flags.StringVar(&a.source, "source", SourceMemory, `student list to read ("memory", "rest", "sqlite")`)
	flags.IntVar(&a.retries, "retries", studentstats.DefaultRetries, "extra attempts per page after a timeout")

	rootCmd.AddCommand(
		newAverageCmd(a),
		newNewestCmd(a),
		newServeCmd(a),
		newImportCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}

	cfg, err := loadConfig(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = a.source
	}
	if flags.Changed("retries") {
		cfg.Retries = a.retries
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = cfg.Version
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	logger.Init(cfg.Logging, cfg.Name)
	a.log = logger.GetGlobalLogger()
	logger.RegisterComponents(a.log, logger.ComponentIterator, logger.ComponentREST, logger.ComponentServer)

	a.shutdown, err = observability.Init(cmd.Context(), cfg.Observability)
	if err != nil {
		return err
	}
	a.log.Debug("Configuration loaded", logger.Fields(
		logger.FieldSource, cfg.Source,
		"page_size", cfg.PageSize,
		"retries", cfg.Retries,
		"environment", cfg.Environment,
	))
	return nil
}

// close flushes telemetry. It runs whether or not the command failed.
func (a *app) close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return a.shutdown(ctx)
}

// queryOptions returns the iterator options for the configured retry budget.
// Every retry is logged.
func (a *app) queryOptions() []studentstats.Option {
	log := logger.Get(logger.ComponentIterator)
	return []studentstats.Option{
		studentstats.WithRetries(a.cfg.Retries),
		studentstats.WithRetryHook(func(page, attempt int, err error) {
			log.Warn("Page fetch timed out, retrying", logger.RetryFields(page, attempt, err))
		}),
	}
}
