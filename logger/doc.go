// Package logger provides structured logging for studentstats using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The iterator core never
// logs; callers observe retries through hooks and log them here.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("rest")
//	log.Warn("page fetch retried", logger.RetryFields(page, attempt, err))
package logger
