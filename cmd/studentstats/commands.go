package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/studentstats"
	"github.com/kbukum/studentstats/logger"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/pipeline"
	"github.com/kbukum/studentstats/studentapi"
	"github.com/kbukum/studentstats/studentapi/server"
	"github.com/kbukum/studentstats/studentapi/sqlite"
	"github.com/kbukum/studentstats/version"
)

func newAverageCmd(a *app) *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Print the integer average mark of a unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := observability.StartSpan(cmd.Context(), observability.SpanAnalytics)
			defer span.End()
			span.SetAttributes(observability.AttrUnit.String(unit))

			list, closeList, err := openList(ctx, a.cfg, a.log)
			if err != nil {
				return a.fail(unit, err)
			}
			defer closeList()

			start := time.Now()
			avg, err := studentstats.UnitAverage(ctx, list, unit, a.queryOptions()...)
			if err != nil {
				observability.SetSpanError(ctx, err)
				return a.fail(unit, err)
			}
			a.log.Info("Unit average computed", logger.Fields(
				logger.FieldUnit, unit,
				"average", avg,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), avg)
			return err
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit code, e.g. CITS2200")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newNewestCmd(a *app) *cobra.Command {
	var (
		unit  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "newest",
		Short: "Print the students who took a unit, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := observability.StartSpan(cmd.Context(), observability.SpanAnalytics)
			defer span.End()
			span.SetAttributes(observability.AttrUnit.String(unit))

			list, closeList, err := openList(ctx, a.cfg, a.log)
			if err != nil {
				return a.fail(unit, err)
			}
			defer closeList()

			it, err := studentstats.UnitNewestStudents(ctx, list, unit, a.queryOptions()...)
			if err != nil {
				return a.fail(unit, err)
			}
			if limit > 0 {
				it = pipeline.Take(it, limit)
			}

			out := cmd.OutOrStdout()
			err = pipeline.ForEach(ctx, it, func(_ context.Context, s studentapi.Student) error {
				_, err := fmt.Fprintln(out, s.ID())
				return err
			})
			if err != nil {
				observability.SetSpanError(ctx, err)
				return a.fail(unit, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit code, e.g. CITS2200")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many students (0 prints all)")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		faultRate float64
		faultSeed int64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured student list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			list, closeList, err := openList(ctx, a.cfg, a.log)
			if err != nil {
				return a.fail("", err)
			}
			defer closeList()

			if faultRate > 0 {
				a.log.Warn("Injecting page timeouts", logger.Fields("rate", faultRate, "seed", faultSeed))
				list = studentapi.Flaky(list, faultRate, faultSeed)
			}

			srv, err := server.New(a.cfg.Server, a.cfg.Name, list, logger.Get(logger.ComponentServer))
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d students on %s\n", list.NumStudents(), srv.Addr())

			<-ctx.Done()
			a.log.Info("Shutdown signal received")
			return srv.Stop(context.WithoutCancel(ctx))
		},
	}
	cmd.Flags().Float64Var(&faultRate, "fault-rate", 0, "fraction of page fetches that time out, between 0 and 1")
	cmd.Flags().Int64Var(&faultSeed, "fault-seed", 1, "seed for the injected timeouts")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the configured YAML dataset into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records, err := studentapi.LoadDatasetFile(a.cfg.Dataset)
			if err != nil {
				return err
			}

			cfg := a.cfg.SQLite
			cfg.Path = dbPath
			db, err := sqlite.Connect(cfg, a.log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := sqlite.Migrate(ctx, db); err != nil {
				return err
			}
			students := make([]studentapi.Student, len(records))
			for i, r := range records {
				students[i] = r
			}
			if err := sqlite.Import(ctx, db, students); err != nil {
				return err
			}

			a.log.Info("Dataset imported", logger.Fields("students", len(students), "db", dbPath))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d students into %s\n", len(students), dbPath)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file to write")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			out := info.String()
			if short {
				out = info.Short()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}

// fail logs err under its error code and returns the coded error.
func (a *app) fail(unit string, err error) error {
	appErr := toAppError(err, unit)
	fields := logger.ErrorFields("query", err)
	fields["code"] = string(appErr.Code)
	if unit != "" {
		fields[logger.FieldUnit] = unit
	}
	a.log.Error(appErr.Message, fields)
	return appErr
}
