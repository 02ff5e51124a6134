package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/studentstats/auth"
	"github.com/kbukum/studentstats/logger"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/resilience"
	"github.com/kbukum/studentstats/studentapi"
)

const (
	summaryPath = "/api/v1/students"
	pagePath    = "/api/v1/students/pages/%d"
	sourceName  = "rest"
)

// List is a studentapi.StudentList served over HTTP. It is safe for
// concurrent use.
type List struct {
	http    *http.Client
	config  Config
	token   string
	rl      *resilience.RateLimiter
	metrics *observability.PageMetrics
	log     *logger.Logger

	students int
	pages    int
}

var _ studentapi.StudentList = (*List)(nil)

type envelope[T any] struct {
	Data T `json:"data"`
}

type summary struct {
	Students int `json:"students"`
	Pages    int `json:"pages"`
}

// Open connects to the server at cfg.BaseURL and reads the list totals.
func Open(ctx context.Context, cfg Config) (*List, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics, err := observability.NewPageMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	l := &List{
		http:    &http.Client{Timeout: cfg.Timeout},
		config:  cfg,
		metrics: metrics,
		log:     logger.Get(logger.ComponentREST),
	}
	if cfg.Auth.Enabled() {
		tokens, err := auth.NewService(cfg.Auth)
		if err != nil {
			return nil, err
		}
		if l.token, err = tokens.Generate("studentstats-rest"); err != nil {
			return nil, err
		}
	}
	if cfg.RateLimit > 0 {
		l.rl = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  "rest",
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
			OnLimit: func(name string) {
				l.log.Debug("Rate limited, waiting", logger.Fields("limiter", name))
			},
		})
	}

	var totals envelope[summary]
	if err := l.get(ctx, summaryPath, &totals); err != nil {
		return nil, fmt.Errorf("rest: reading totals: %w", err)
	}
	l.students, l.pages = totals.Data.Students, totals.Data.Pages

	l.log.Info("Connected to student api", logger.Fields(
		"base_url", cfg.BaseURL,
		"students", l.students,
		"pages", l.pages,
	))
	return l, nil
}

// NumStudents implements studentapi.StudentList.
func (l *List) NumStudents() int { return l.students }

// NumPages implements studentapi.StudentList.
func (l *List) NumPages() int { return l.pages }

// Page implements studentapi.StudentList.
func (l *List) Page(ctx context.Context, index int) ([]studentapi.Student, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPageFetch)
	defer span.End()
	span.SetAttributes(observability.AttrPage.Int(index), observability.AttrSource.String(sourceName))

	start := time.Now()
	var page envelope[[]studentapi.Record]
	err := l.get(ctx, fmt.Sprintf(pagePath, index), &page)

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
		l.log.WithContext(ctx).Debug("Page fetch failed", logger.Fields(logger.FieldPage, index, logger.FieldError, err.Error()))
		return nil, fmt.Errorf("page %d: %w", index, err)
	}
	return asStudents(page.Data), nil
}

func (l *List) get(ctx context.Context, path string, out any) error {
	if l.rl != nil {
		if err := l.rl.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.config.BaseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	for k, v := range l.config.Headers {
		req.Header.Set(k, v)
	}
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	if resp.StatusCode >= 400 {
		return classifyStatus(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func asStudents(records []studentapi.Record) []studentapi.Student {
	out := make([]studentapi.Student, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
