// Package resilience provides the fault-tolerance helpers used around remote
// student list handles.
//
// This package includes:
//   - Retry: Retries failed operations back to back within an attempt budget
//   - RateLimiter: Controls request rate with a token bucket
//
// A retry budget of n allows n+1 attempts in total:
//
//	page, err := resilience.Retry(ctx, resilience.ImmediateRetryConfig(3, studentapi.IsTimeout),
//	    func() ([]studentapi.Student, error) {
//	        return list.Page(ctx, index)
//	    })
//	if errors.Is(err, resilience.ErrMaxRetriesExceeded) {
//	    // every attempt timed out
//	}
package resilience
