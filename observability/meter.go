package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/studentstats/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the studentstats meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Page fetch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// PageMetrics holds the instruments recorded around student page fetches.
type PageMetrics struct {
	fetches  metric.Int64Counter
	timeouts metric.Int64Counter
	duration metric.Float64Histogram
}

// NewPageMetrics creates page metric instruments on the given meter.
func NewPageMetrics(meter metric.Meter) (*PageMetrics, error) {
	fetches, err := meter.Int64Counter("studentapi.page.fetches",
		metric.WithDescription("Student page fetches by source and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating studentapi.page.fetches counter: %w", err)
	}

	timeouts, err := meter.Int64Counter("studentapi.page.timeouts",
		metric.WithDescription("Student page fetches that timed out"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating studentapi.page.timeouts counter: %w", err)
	}

	duration, err := meter.Float64Histogram("studentapi.page.duration",
		metric.WithDescription("Duration of student page fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating studentapi.page.duration histogram: %w", err)
	}

	return &PageMetrics{fetches: fetches, timeouts: timeouts, duration: duration}, nil
}

// RecordFetch records one page fetch. outcome is one of the Outcome constants.
func (m *PageMetrics) RecordFetch(ctx context.Context, source, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		AttrSource.String(source),
		AttrOutcome.String(outcome),
	)
	m.fetches.Add(ctx, 1, attrs)
	if outcome == OutcomeTimeout {
		m.timeouts.Add(ctx, 1, metric.WithAttributes(AttrSource.String(source)))
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(AttrSource.String(source)))
}
