package pipeline

import "context"

// Map transforms each value using fn.
func Map[I, O any](it Iterator[I], fn func(context.Context, I) (O, error)) Iterator[O] {
	return &mapIter[I, O]{source: it, fn: fn}
}

// Filter keeps only values that satisfy the predicate.
// HasNext pulls from the source until a match is found and holds it until the
// following Next, so at most one value is buffered.
func Filter[T any](it Iterator[T], fn func(T) bool) Iterator[T] {
	return &filterIter[T]{source: it, fn: fn}
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](it Iterator[T], fn func(context.Context, T) error) Iterator[T] {
	return &tapIter[T]{source: it, fn: fn}
}

// Take yields at most n values from the source.
func Take[T any](it Iterator[T], n int) Iterator[T] {
	return &takeIter[T]{source: it, remaining: n}
}

// Reversed exposes the back end of a double-ended iterator as a forward one.
func Reversed[T any](it DoubleEndedIterator[T]) Iterator[T] {
	return &reversedIter[T]{source: it}
}

// Reduce drains the source, folding each value into the accumulator.
// An empty source returns init.
func Reduce[T, R any](ctx context.Context, it Iterator[T], init R, fn func(R, T) R) (R, error) {
	acc := init
	err := ForEach(ctx, it, func(_ context.Context, val T) error {
		acc = fn(acc, val)
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return acc, nil
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) HasNext(ctx context.Context) (bool, error) {
	return it.source.HasNext(ctx)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, error) {
	var zero O
	val, err := it.source.Next(ctx)
	if err != nil {
		return zero, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, err
	}
	return out, nil
}

type filterIter[T any] struct {
	source   Iterator[T]
	fn       func(T) bool
	pending  T
	buffered bool
}

func (it *filterIter[T]) HasNext(ctx context.Context) (bool, error) {
	for !it.buffered {
		ok, err := it.source.HasNext(ctx)
		if err != nil || !ok {
			return false, err
		}
		val, err := it.source.Next(ctx)
		if err != nil {
			return false, err
		}
		if it.fn(val) {
			it.pending, it.buffered = val, true
		}
	}
	return true, nil
}

func (it *filterIter[T]) Next(ctx context.Context) (T, error) {
	var zero T
	ok, err := it.HasNext(ctx)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrNoSuchElement
	}
	val := it.pending
	it.pending, it.buffered = zero, false
	return val, nil
}

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) HasNext(ctx context.Context) (bool, error) {
	return it.source.HasNext(ctx)
}

func (it *tapIter[T]) Next(ctx context.Context) (T, error) {
	val, err := it.source.Next(ctx)
	if err != nil {
		return val, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, err
	}
	return val, nil
}

type takeIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *takeIter[T]) HasNext(ctx context.Context) (bool, error) {
	if it.remaining <= 0 {
		return false, nil
	}
	return it.source.HasNext(ctx)
}

func (it *takeIter[T]) Next(ctx context.Context) (T, error) {
	if it.remaining <= 0 {
		var zero T
		return zero, ErrNoSuchElement
	}
	val, err := it.source.Next(ctx)
	if err != nil {
		return val, err
	}
	it.remaining--
	return val, nil
}

type reversedIter[T any] struct {
	source DoubleEndedIterator[T]
}

func (it *reversedIter[T]) HasNext(ctx context.Context) (bool, error) {
	return it.source.HasNext(ctx)
}

func (it *reversedIter[T]) Next(ctx context.Context) (T, error) {
	return it.source.ReverseNext(ctx)
}
