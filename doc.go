// Package studentstats computes unit statistics over a remote, paginated
// student list without loading the whole list.
//
// Iterator walks a studentapi.StudentList from both ends at once. The front
// starts at the first page and the back at the last; each side holds one page
// and fetches the next one only when its page runs out. Both ends draw from a
// single pool, so any mix of Next and ReverseNext yields every student exactly
// once. Page fetches that time out are retried immediately up to the retry
// budget (WithRetries); after that the iterator fails with an
// *UnreachableError.
//
// The analytics functions compose an Iterator with the pipeline primitives:
//
//	avg, err := studentstats.UnitAverage(ctx, list, "CITS2200")
//
//	newest, err := studentstats.UnitNewestStudents(ctx, list, "CITS2200")
//	first, err := pipeline.Collect(ctx, pipeline.Take(newest, 5))
//
// An Iterator is not safe for concurrent use.
package studentstats
