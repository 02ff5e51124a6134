package studentstats

import (
	"context"
	"fmt"

	"github.com/kbukum/studentstats/pipeline"
	"github.com/kbukum/studentstats/studentapi"
)

type unitMark struct {
	mark  int
	taken bool
}

type tally struct {
	sum   int
	count int
}

// UnitAverage returns the average mark for unit over the students who took
// it, truncated to an integer. It fails with ErrNoMarks when nobody did.
func UnitAverage(ctx context.Context, list studentapi.StudentList, unit string, opts ...Option) (int, error) {
	it, err := NewIterator(ctx, list, opts...)
	if err != nil {
		return 0, err
	}

	marks := pipeline.Map(it, func(_ context.Context, s studentapi.Student) (unitMark, error) {
		m, ok := s.Mark(unit)
		return unitMark{mark: m, taken: ok}, nil
	})
	t, err := pipeline.Reduce(ctx, marks, tally{}, func(t tally, m unitMark) tally {
		if m.taken {
			t.sum += m.mark
			t.count++
		}
		return t
	})
	if err != nil {
		return 0, err
	}
	if t.count == 0 {
		return 0, fmt.Errorf("%w %s", ErrNoMarks, unit)
	}
	return t.sum / t.count, nil
}

// UnitNewestStudents returns the students who took unit, newest first.
// The list is walked from its last page; pages are fetched as the result is
// consumed.
func UnitNewestStudents(ctx context.Context, list studentapi.StudentList, unit string, opts ...Option) (pipeline.Iterator[studentapi.Student], error) {
	it, err := NewIterator(ctx, list, opts...)
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(pipeline.Reversed[studentapi.Student](it), func(s studentapi.Student) bool {
		_, ok := s.Mark(unit)
		return ok
	}), nil
}
