package main

import (
	"context"
	"fmt"

	"github.com/kbukum/studentstats/logger"
	"github.com/kbukum/studentstats/studentapi"
	"github.com/kbukum/studentstats/studentapi/rest"
	"github.com/kbukum/studentstats/studentapi/sqlite"
)

// openList opens the student list selected by cfg.Source. The returned
// close function releases whatever the list holds open.
func openList(ctx context.Context, cfg *AppConfig, log *logger.Logger) (studentapi.StudentList, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case SourceMemory:
		records, err := studentapi.LoadDatasetFile(cfg.Dataset)
		if err != nil {
			return nil, nil, err
		}
		return studentapi.NewMemoryList(records, cfg.PageSize), noop, nil

	case SourceREST:
		list, err := rest.Open(ctx, cfg.REST)
		if err != nil {
			return nil, nil, err
		}
		return list, noop, nil

	case SourceSQLite:
		db, err := sqlite.Connect(cfg.SQLite, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		list, err := sqlite.Open(ctx, db, cfg.PageSize)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return list, sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
}
