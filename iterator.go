package studentstats

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/studentstats/pipeline"
	"github.com/kbukum/studentstats/resilience"
	"github.com/kbukum/studentstats/studentapi"
)

// Iterator is a double-ended iterator over a student list. The front side
// walks pages upwards from page 0 and the back side downwards from the last
// page; when both reach the same page they share its cursor.
type Iterator struct {
	list    studentapi.StudentList
	pages   int
	total   int
	retries int
	onRetry RetryHook

	// retrieved counts students yielded by either end.
	retrieved int

	front     *pageCursor
	frontPage int
	nextFront int

	back     *pageCursor
	backPage int
	nextBack int
}

var _ pipeline.DoubleEndedIterator[studentapi.Student] = (*Iterator)(nil)

// NewIterator fetches the first and the last page of list and returns an
// iterator positioned at both ends. A list without pages is not fetched.
func NewIterator(ctx context.Context, list studentapi.StudentList, opts ...Option) (*Iterator, error) {
	o := buildOptions(opts)
	if o.retries < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeRetries, o.retries)
	}

	it := &Iterator{
		list:      list,
		pages:     list.NumPages(),
		total:     list.NumStudents(),
		retries:   o.retries,
		onRetry:   o.onRetry,
		frontPage: -1,
		backPage:  -1,
	}
	it.nextBack = it.pages - 1
	if it.pages == 0 {
		return it, nil
	}

	front, err := it.fetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}
	it.front, it.frontPage, it.nextFront = front, 0, 1

	if it.pages == 1 {
		it.back, it.backPage, it.nextBack = front, 0, -1
		return it, nil
	}

	back, err := it.fetchPage(ctx, it.pages-1)
	if err != nil {
		return nil, err
	}
	it.back, it.backPage, it.nextBack = back, it.pages-1, it.pages-2
	return it, nil
}

// Total returns the number of students in the list.
func (it *Iterator) Total() int { return it.total }

// Remaining returns the number of students not yet yielded by either end.
func (it *Iterator) Remaining() int { return it.total - it.retrieved }

// HasNext reports whether either end has a student left. It refreshes the
// front page when the current one is used up, so it may block on a fetch.
func (it *Iterator) HasNext(ctx context.Context) (bool, error) {
	if it.retrieved >= it.total {
		return false, nil
	}
	if err := it.advanceFront(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Next returns the next student from the front.
func (it *Iterator) Next(ctx context.Context) (studentapi.Student, error) {
	ok, err := it.HasNext(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchElement
	}
	s, err := it.front.takeFront()
	if err != nil {
		return nil, err
	}
	it.retrieved++
	return s, nil
}

// ReverseNext returns the next student from the back.
func (it *Iterator) ReverseNext(ctx context.Context) (studentapi.Student, error) {
	ok, err := it.HasNext(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchElement
	}
	if err := it.advanceBack(ctx); err != nil {
		return nil, err
	}
	s, err := it.back.takeBack()
	if err != nil {
		return nil, err
	}
	it.retrieved++
	return s, nil
}

// advanceFront installs pages on the front side until its cursor has a
// student. The front may only move onto pages the back has not claimed, or
// onto the page the back currently holds.
func (it *Iterator) advanceFront(ctx context.Context) error {
	for it.front == nil || !it.front.hasMore() {
		page := it.nextFront
		switch {
		case it.back != nil && page == it.backPage:
			it.front = it.back
		case page <= it.nextBack:
			c, err := it.fetchPage(ctx, page)
			if err != nil {
				return err
			}
			it.front = c
		default:
			return it.inconsistent()
		}
		it.frontPage = page
		it.nextFront++
	}
	return nil
}

// advanceBack mirrors advanceFront for the back side.
func (it *Iterator) advanceBack(ctx context.Context) error {
	for it.back == nil || !it.back.hasMore() {
		page := it.nextBack
		switch {
		case it.front != nil && page == it.frontPage:
			it.back = it.front
		case page >= it.nextFront:
			c, err := it.fetchPage(ctx, page)
			if err != nil {
				return err
			}
			it.back = c
		default:
			return it.inconsistent()
		}
		it.backPage = page
		it.nextBack--
	}
	return nil
}

// fetchPage fetches one page, retrying timeouts immediately. Any other
// failure, context cancellation included, is returned unchanged.
func (it *Iterator) fetchPage(ctx context.Context, index int) (*pageCursor, error) {
	cfg := resilience.ImmediateRetryConfig(it.retries, studentapi.IsTimeout)
	if it.onRetry != nil {
		cfg.OnRetry = func(attempt int, err error) {
			it.onRetry(index, attempt, err)
		}
	}

	students, err := resilience.Retry(ctx, cfg, func() ([]studentapi.Student, error) {
		return it.list.Page(ctx, index)
	})
	if err != nil {
		var exhausted *resilience.AttemptsError
		if errors.As(err, &exhausted) {
			return nil, &UnreachableError{Page: index, Attempts: exhausted.Attempts, Err: exhausted.Err}
		}
		return nil, err
	}
	return newPageCursor(students), nil
}

func (it *Iterator) inconsistent() error {
	return fmt.Errorf("%w: %d of %d students found in %d pages",
		ErrInconsistentList, it.retrieved, it.total, it.pages)
}
