package studentapi

import (
	"context"
	"sync"
)

// MemoryList is a StudentList held in memory. Timeouts can be injected per
// page with FailNext. It is safe for concurrent use.
type MemoryList struct {
	pages [][]Record
	total int

	mu      sync.Mutex
	failing map[int]int
	fetches map[int]int
}

// NewMemoryList splits students into pages of pageSize records.
// A pageSize <= 0 selects DefaultPageSize.
func NewMemoryList(students []Record, pageSize int) *MemoryList {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := make([][]Record, 0, PageCount(len(students), pageSize))
	for start := 0; start < len(students); start += pageSize {
		end := min(start+pageSize, len(students))
		pages = append(pages, students[start:end])
	}
	return NewMemoryListFromPages(pages)
}

// NewMemoryListFromPages uses pages as given, including empty or uneven ones.
func NewMemoryListFromPages(pages [][]Record) *MemoryList {
	total := 0
	for _, p := range pages {
		total += len(p)
	}
	return &MemoryList{
		pages:   pages,
		total:   total,
		failing: make(map[int]int),
		fetches: make(map[int]int),
	}
}

// NumStudents implements StudentList.
func (l *MemoryList) NumStudents() int { return l.total }

// NumPages implements StudentList.
func (l *MemoryList) NumPages() int { return len(l.pages) }

// Page implements StudentList.
func (l *MemoryList) Page(ctx context.Context, index int) ([]Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckPage(index, len(l.pages)); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.fetches[index]++
	if l.failing[index] > 0 {
		l.failing[index]--
		l.mu.Unlock()
		return nil, TimeoutError(index)
	}
	l.mu.Unlock()

	return toStudents(l.pages[index]), nil
}

// FailNext makes the next n fetches of page index time out.
func (l *MemoryList) FailNext(index, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing[index] += n
}

// Fetches returns how many times page index was requested, failures included.
func (l *MemoryList) Fetches(index int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetches[index]
}

// TotalFetches returns the number of page requests across all pages.
func (l *MemoryList) TotalFetches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.fetches {
		n += c
	}
	return n
}
