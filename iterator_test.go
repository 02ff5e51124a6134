package studentstats

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kbukum/studentstats/studentapi"
)

func numberedRecords(n int) []studentapi.Record {
	out := make([]studentapi.Record, n)
	for i := range out {
		out[i] = studentapi.Record{StudentID: strconv.Itoa(1000 + i)}
	}
	return out
}

func ids(records []studentapi.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StudentID
	}
	return out
}

// drain consumes it, taking from the front when the next step is true.
// It returns the ids yielded by each end in the order they were yielded.
func drain(t require.TestingT, it *Iterator, steps func() bool) (front, back []string) {
	ctx := context.Background()
	for {
		ok, err := it.HasNext(ctx)
		require.NoError(t, err)
		if !ok {
			return front, back
		}
		if steps() {
			s, err := it.Next(ctx)
			require.NoError(t, err)
			front = append(front, s.ID())
		} else {
			s, err := it.ReverseNext(ctx)
			require.NoError(t, err)
			back = append(back, s.ID())
		}
	}
}

func always(v bool) func() bool { return func() bool { return v } }

func TestIterator_Forward(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		size := rapid.IntRange(1, 10).Draw(t, "pageSize")
		records := numberedRecords(n)

		it, err := NewIterator(context.Background(), studentapi.NewMemoryList(records, size))
		require.NoError(t, err)
		front, back := drain(t, it, always(true))

		require.Empty(t, back)
		require.Equal(t, ids(records), orEmpty(front))
	})
}

func TestIterator_Reverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		size := rapid.IntRange(1, 10).Draw(t, "pageSize")
		records := numberedRecords(n)

		it, err := NewIterator(context.Background(), studentapi.NewMemoryList(records, size))
		require.NoError(t, err)
		front, back := drain(t, it, always(false))

		want := ids(records)
		slices.Reverse(want)
		require.Empty(t, front)
		require.Equal(t, want, orEmpty(back))
	})
}

func TestIterator_Interleaved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var pages [][]studentapi.Record
		next := 0
		for _, size := range rapid.SliceOfN(rapid.IntRange(0, 5), 0, 12).Draw(t, "pageSizes") {
			page := numberedRecords(next + size)[next:]
			pages = append(pages, page)
			next += size
		}
		records := numberedRecords(next)
		list := studentapi.NewMemoryListFromPages(pages)

		it, err := NewIterator(context.Background(), list)
		require.NoError(t, err)
		front, back := drain(t, it, func() bool { return rapid.Bool().Draw(t, "front") })

		// The front yields a prefix and the back the remaining suffix.
		slices.Reverse(back)
		require.Equal(t, ids(records), orEmpty(append(front, back...)))
		require.Zero(t, it.Remaining())

		// Every page is fetched at most once.
		for p := range pages {
			require.LessOrEqual(t, list.Fetches(p), 1, "page %d", p)
		}
	})
}

// orEmpty lets a nil result compare equal to ids of an empty list.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func TestIterator_SinglePage(t *testing.T) {
	ctx := context.Background()
	list := studentapi.NewMemoryList(numberedRecords(3), 10)

	it, err := NewIterator(ctx, list)
	require.NoError(t, err)
	require.Equal(t, 1, list.Fetches(0), "a single page is fetched once")

	a, err := it.ReverseNext(ctx)
	require.NoError(t, err)
	b, err := it.Next(ctx)
	require.NoError(t, err)
	c, err := it.ReverseNext(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"1002", "1000", "1001"}, []string{a.ID(), b.ID(), c.ID()})

	_, err = it.Next(ctx)
	require.ErrorIs(t, err, ErrNoSuchElement)
}

func TestIterator_SingleRecord(t *testing.T) {
	ctx := context.Background()
	it, err := NewIterator(ctx, studentapi.NewMemoryList(numberedRecords(1), 1))
	require.NoError(t, err)

	s, err := it.ReverseNext(ctx)
	require.NoError(t, err)
	require.Equal(t, "1000", s.ID())

	ok, err := it.HasNext(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIterator_Exhausted(t *testing.T) {
	ctx := context.Background()
	it, err := NewIterator(ctx, studentapi.NewMemoryList(numberedRecords(4), 2))
	require.NoError(t, err)
	require.Equal(t, 4, it.Total())

	drain(t, it, always(true))

	ok, err := it.HasNext(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = it.Next(ctx)
	require.ErrorIs(t, err, ErrNoSuchElement)
	_, err = it.ReverseNext(ctx)
	require.ErrorIs(t, err, ErrNoSuchElement)
	require.Zero(t, it.Remaining())
}

func TestIterator_EmptyList(t *testing.T) {
	list := studentapi.NewMemoryList(nil, 5)
	it, err := NewIterator(context.Background(), list)
	require.NoError(t, err)
	require.Zero(t, list.TotalFetches(), "a list without pages is not fetched")

	ok, err := it.HasNext(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIterator_FetchesEndPagesUpFront(t *testing.T) {
	ctx := context.Background()
	list := studentapi.NewMemoryList(numberedRecords(10), 2)

	it, err := NewIterator(ctx, list)
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalFetches(), "only the first and last page up front")

	for i := 0; i < 2; i++ {
		_, err := it.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 2, list.TotalFetches())

	_, err = it.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Fetches(1))
	require.Zero(t, list.Fetches(2))
}

func TestIterator_RetryBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("timeouts within budget are absorbed", func(t *testing.T) {
		list := studentapi.NewMemoryList(numberedRecords(6), 2)
		list.FailNext(0, 2)
		list.FailNext(1, 2)

		it, err := NewIterator(ctx, list, WithRetries(2))
		require.NoError(t, err)
		front, _ := drain(t, it, always(true))
		require.Len(t, front, 6)
		require.Equal(t, 3, list.Fetches(1))
	})

	t.Run("one timeout more than the budget", func(t *testing.T) {
		list := studentapi.NewMemoryList(numberedRecords(6), 2)
		list.FailNext(2, DefaultRetries+1)

		_, err := NewIterator(ctx, list)
		require.ErrorIs(t, err, ErrAPIUnreachable)
		require.False(t, studentapi.IsTimeout(err), "unreachable is not a retryable timeout")

		var unreachable *UnreachableError
		require.ErrorAs(t, err, &unreachable)
		require.Equal(t, 2, unreachable.Page)
		require.Equal(t, DefaultRetries+1, unreachable.Attempts)
		require.True(t, studentapi.IsTimeout(unreachable.Err))
		require.Equal(t, DefaultRetries+1, list.Fetches(2))
	})

	t.Run("mid iteration", func(t *testing.T) {
		list := studentapi.NewMemoryList(numberedRecords(6), 2)
		list.FailNext(1, 1)

		it, err := NewIterator(ctx, list, WithRetries(0))
		require.NoError(t, err)
		_, err = it.Next(ctx)
		require.NoError(t, err)
		_, err = it.Next(ctx)
		require.NoError(t, err)

		_, err = it.HasNext(ctx)
		require.ErrorIs(t, err, ErrAPIUnreachable)
		require.Equal(t, 1, list.Fetches(1))
	})

	t.Run("hook sees every retry", func(t *testing.T) {
		list := studentapi.NewMemoryList(numberedRecords(4), 2)
		list.FailNext(1, 2)

		type call struct{ page, attempt int }
		var calls []call
		_, err := NewIterator(ctx, list, WithRetryHook(func(page, attempt int, err error) {
			require.True(t, studentapi.IsTimeout(err))
			calls = append(calls, call{page, attempt})
		}))
		require.NoError(t, err)
		require.Equal(t, []call{{1, 1}, {1, 2}}, calls)
	})
}

func TestIterator_NegativeRetries(t *testing.T) {
	list := studentapi.NewMemoryList(numberedRecords(2), 1)
	_, err := NewIterator(context.Background(), list, WithRetries(-1))
	require.ErrorIs(t, err, ErrNegativeRetries)
	require.Zero(t, list.TotalFetches())
}

type failingList struct {
	*studentapi.MemoryList
	err   error
	calls int
}

func (f *failingList) Page(ctx context.Context, index int) ([]studentapi.Student, error) {
	f.calls++
	return nil, f.err
}

func TestIterator_PermanentErrorNotRetried(t *testing.T) {
	boom := errors.New("boom")
	list := &failingList{MemoryList: studentapi.NewMemoryList(numberedRecords(2), 1), err: boom}

	_, err := NewIterator(context.Background(), list)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrAPIUnreachable)
	require.Equal(t, 1, list.calls)
}

func TestIterator_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewIterator(ctx, studentapi.NewMemoryList(numberedRecords(2), 1))
	require.ErrorIs(t, err, context.Canceled)
}

type overcountingList struct {
	*studentapi.MemoryList
	extra int
}

func (l overcountingList) NumStudents() int { return l.MemoryList.NumStudents() + l.extra }

func TestIterator_InconsistentList(t *testing.T) {
	ctx := context.Background()
	for _, fromFront := range []bool{true, false} {
		list := overcountingList{MemoryList: studentapi.NewMemoryList(numberedRecords(5), 2), extra: 2}
		it, err := NewIterator(ctx, list)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			if fromFront {
				_, err = it.Next(ctx)
			} else {
				_, err = it.ReverseNext(ctx)
			}
			require.NoError(t, err)
		}
		_, err = it.HasNext(ctx)
		require.ErrorIs(t, err, ErrInconsistentList)
	}
}
