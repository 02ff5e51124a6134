// Package server serves a studentapi.StudentList over HTTP.
//
// Routes:
//
//	GET /health                       service and student list health
//	GET /info                         build information
//	GET /api/v1/students              {"data": {"students": N, "pages": P}}
//	GET /api/v1/students/pages/:index {"data": [records], "meta": {...}}
//
// Errors use the errors.ErrorResponse envelope. A page fetch that times out
// answers 504 with code TIMEOUT and retryable set, which the rest client
// turns back into studentapi.ErrQueryTimedOut. When Config.Auth has a secret,
// /api routes require a bearer token issued by the auth package.
package server
