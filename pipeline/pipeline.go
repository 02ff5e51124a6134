package pipeline

import (
	"context"
	"errors"
)

// ErrNoSuchElement is returned by Next when the iterator is exhausted.
var ErrNoSuchElement = errors.New("no such element")

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// HasNext reports whether a further value is available. It may block
	// while the next value is fetched.
	HasNext(ctx context.Context) (bool, error)
	// Next returns the next value, or ErrNoSuchElement when exhausted.
	Next(ctx context.Context) (T, error)
}

// DoubleEndedIterator can also be consumed from the back.
// Both ends draw from the same pool: every value is yielded once, by
// whichever end reaches it first.
type DoubleEndedIterator[T any] interface {
	Iterator[T]
	// ReverseNext returns the last value not yet yielded by either end,
	// or ErrNoSuchElement when exhausted.
	ReverseNext(ctx context.Context) (T, error)
}

// --- Constructors ---

// FromSlice returns a double-ended iterator over items.
func FromSlice[T any](items []T) DoubleEndedIterator[T] {
	return &sliceIter[T]{items: items, back: len(items) - 1}
}

// Empty returns an iterator that yields nothing.
func Empty[T any]() DoubleEndedIterator[T] {
	return &sliceIter[T]{back: -1}
}

// --- Terminals ---

// Collect pulls all values into a slice. On error the values pulled so far
// are returned along with it.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var result []T
	err := ForEach(ctx, it, func(_ context.Context, val T) error {
		result = append(result, val)
		return nil
	})
	return result, err
}

// ForEach pulls all values and calls fn for each.
func ForEach[T any](ctx context.Context, it Iterator[T], fn func(context.Context, T) error) error {
	for {
		ok, err := it.HasNext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		val, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	front int
	back  int
}

func (it *sliceIter[T]) HasNext(_ context.Context) (bool, error) {
	return it.front <= it.back, nil
}

func (it *sliceIter[T]) Next(_ context.Context) (T, error) {
	if it.front > it.back {
		var zero T
		return zero, ErrNoSuchElement
	}
	val := it.items[it.front]
	it.front++
	return val, nil
}

func (it *sliceIter[T]) ReverseNext(_ context.Context) (T, error) {
	if it.front > it.back {
		var zero T
		return zero, ErrNoSuchElement
	}
	val := it.items[it.back]
	it.back--
	return val, nil
}
