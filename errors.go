package studentstats

import (
	"errors"
	"fmt"

	"github.com/kbukum/studentstats/pipeline"
)

var (
	// ErrAPIUnreachable is matched by the error returned when a page kept
	// timing out after every retry.
	ErrAPIUnreachable = errors.New("student api unreachable")
	// ErrNoMarks is returned by UnitAverage when nobody took the unit.
	ErrNoMarks = errors.New("no marks for unit")
	// ErrInconsistentList is returned when the pages of a list hold fewer
	// students than NumStudents reports.
	ErrInconsistentList = errors.New("inconsistent student list")
	// ErrNegativeRetries is returned for a negative retry budget.
	ErrNegativeRetries = errors.New("retry budget must not be negative")
	// ErrNoSuchElement is returned by Next and ReverseNext once the
	// iterator is exhausted.
	ErrNoSuchElement = pipeline.ErrNoSuchElement

	errEmptyCursor = errors.New("page cursor exhausted")
)

// UnreachableError reports the page that could not be fetched.
// It matches ErrAPIUnreachable; the last timeout is kept in Err but is not
// part of the chain, so the error is never mistaken for a retryable timeout.
type UnreachableError struct {
	Page     int
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: page %d failed %d attempts: %v", ErrAPIUnreachable, e.Page, e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error { return ErrAPIUnreachable }
