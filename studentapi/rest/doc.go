// Package rest is a studentapi.StudentList backed by the HTTP API of
// studentapi/server.
//
//	list, err := rest.Open(ctx, rest.Config{BaseURL: "http://localhost:8080"})
//	avg, err := studentstats.UnitAverage(ctx, list, "CITS2200")
//
// Open reads the list totals once. Page answers of 503, 504 and 429 and
// client-side timeouts are reported as studentapi.ErrQueryTimedOut so the
// iterator retries them; every other failure carries the server's
// *errors.AppError. Each fetch is traced and counted through the
// observability package.
package rest
