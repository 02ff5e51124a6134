package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/studentstats/logger"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/studentapi"
)

const sourceName = "sqlite"

// Connect opens the database described by cfg. GORM output goes to log.
func Connect(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormsqlite.Open(cfg.dsn()), &gorm.Config{
		Logger: newGormLogger(log, cfg.SlowQueryThreshold, parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", cfg.Path, err)
	}
	if cfg.Path == MemoryPath {
		// Every connection to :memory: sees its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates the students and marks tables if they do not exist.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&studentRow{}, &markRow{}); err != nil {
		return fmt.Errorf("sqlite: migrating schema: %w", err)
	}
	return nil
}

// Import replaces the stored list with students, kept in the given order.
// Either every student is stored or none is.
func Import(ctx context.Context, db *gorm.DB, students []studentapi.Student) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&markRow{}).Error; err != nil {
			return fmt.Errorf("sqlite: clearing marks: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&studentRow{}).Error; err != nil {
			return fmt.Errorf("sqlite: clearing students: %w", err)
		}
		if len(students) == 0 {
			return nil
		}

		rows := make([]studentRow, len(students))
		for i, s := range students {
			rows[i] = rowOf(s, i)
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return fmt.Errorf("sqlite: inserting students: %w", err)
		}
		return nil
	})
}

// List is a studentapi.StudentList backed by a SQLite database.
type List struct {
	db       *gorm.DB
	pageSize int
	students int
	pages    int
	metrics  *observability.PageMetrics
}

var _ studentapi.StudentList = (*List)(nil)

// Open reads the list totals from db. A pageSize <= 0 selects
// studentapi.DefaultPageSize. Totals are fixed for the lifetime of the List.
func Open(ctx context.Context, db *gorm.DB, pageSize int) (*List, error) {
	if pageSize <= 0 {
		pageSize = studentapi.DefaultPageSize
	}
	metrics, err := observability.NewPageMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&studentRow{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("sqlite: counting students: %w", err)
	}
	return &List{
		db:       db,
		pageSize: pageSize,
		students: int(count),
		pages:    studentapi.PageCount(int(count), pageSize),
		metrics:  metrics,
	}, nil
}

// NumStudents implements studentapi.StudentList.
func (l *List) NumStudents() int { return l.students }

// NumPages implements studentapi.StudentList.
func (l *List) NumPages() int { return l.pages }

// Page implements studentapi.StudentList.
func (l *List) Page(ctx context.Context, index int) ([]studentapi.Student, error) {
	if err := studentapi.CheckPage(index, l.pages); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanPageFetch)
	defer span.End()
	span.SetAttributes(observability.AttrPage.Int(index), observability.AttrSource.String(sourceName))

	start := time.Now()
	var rows []studentRow
	err := l.db.WithContext(ctx).
		Preload("Marks").
		Order("position").
		Limit(l.pageSize).
		Offset(index * l.pageSize).
		Find(&rows).Error
	err = classify(err)

	outcome := observability.OutcomeOK
	switch {
	case studentapi.IsTimeout(err):
		outcome = observability.OutcomeTimeout
	case err != nil:
		outcome = observability.OutcomeError
	}
	l.metrics.RecordFetch(ctx, sourceName, outcome, time.Since(start))
	span.SetAttributes(observability.AttrOutcome.String(outcome))

	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, fmt.Errorf("page %d: %w", index, err)
	}

	out := make([]studentapi.Student, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// classify maps lock contention and expired deadlines to
// studentapi.ErrQueryTimedOut. Cancellation and other errors pass through.
func classify(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", studentapi.ErrQueryTimedOut, err)
	}
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %w", studentapi.ErrQueryTimedOut, err)
	}
	return err
}
