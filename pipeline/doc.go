// Package pipeline provides composable, pull-based sequence operators.
//
// Operators are lazy: no work happens until values are pulled via Next,
// Collect, ForEach or Reduce. Each stage pulls from the previous stage on
// demand, so a paginated source is only fetched as far as the consumer reads.
//
// # Capabilities
//
//   - Iterator: HasNext / Next
//   - DoubleEndedIterator: Iterator plus ReverseNext, consuming from the back
//
// # Operators
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate (one value of lookahead)
//   - Tap: side-effect without altering the value
//   - Take: stop after n values
//   - Reversed: turn the back end of a DoubleEndedIterator into an Iterator
//   - Reduce: accumulate all values into one result (eager)
//
// # Usage
//
//	src := pipeline.FromSlice([]int{1, 2, 3, 4, 5})
//	doubled := pipeline.Map(src, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	evens := pipeline.Filter(doubled, func(n int) bool { return n%4 == 0 })
//	sum, _ := pipeline.Reduce(ctx, evens, 0, func(acc, n int) int { return acc + n })
//
// Newest first:
//
//	newest, _ := pipeline.Collect(ctx, pipeline.Take(pipeline.Reversed(src), 3))
package pipeline
