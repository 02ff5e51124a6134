// Package observability provides OpenTelemetry tracing and metrics for
// student page fetches, plus health reporting for the HTTP server.
//
// Setup:
//
//	shutdown, err := observability.Init(ctx, cfg)
//	defer shutdown(ctx)
//
// Tracing and metrics around a fetch:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPageFetch,
//	    trace.WithAttributes(observability.AttrPage.Int(index)))
//	defer span.End()
//
//	metrics, err := observability.NewPageMetrics(observability.Meter())
//	metrics.RecordFetch(ctx, "rest", observability.OutcomeOK, time.Since(start))
//
// Until Init runs, the global no-op providers make all of this free.
package observability
