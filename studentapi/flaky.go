package studentapi

import (
	"context"
	"math/rand"
	"sync"
)

// FlakyList times out a share of the page fetches of the wrapped list.
type FlakyList struct {
	StudentList
	rate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// Flaky wraps list so that each fetch times out with probability rate.
// The same seed produces the same sequence of failures.
func Flaky(list StudentList, rate float64, seed int64) *FlakyList {
	return &FlakyList{
		StudentList: list,
		rate:        min(max(rate, 0), 1),
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

// Page implements StudentList.
func (f *FlakyList) Page(ctx context.Context, index int) ([]Student, error) {
	f.mu.Lock()
	fail := f.rnd.Float64() < f.rate
	f.mu.Unlock()
	if fail {
		return nil, TimeoutError(index)
	}
	return f.StudentList.Page(ctx, index)
}
