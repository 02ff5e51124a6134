package studentapi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultPageSize is used by handles created without an explicit page size.
const DefaultPageSize = 20

var (
	// ErrQueryTimedOut marks a transient page fetch failure.
	ErrQueryTimedOut = errors.New("query timed out")
	// ErrPageOutOfRange is returned for a page index outside [0, NumPages).
	ErrPageOutOfRange = errors.New("page out of range")
)

// IsTimeout reports whether err is a transient page fetch failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrQueryTimedOut)
}

// Student is one immutable record of the remote list.
type Student interface {
	// ID returns the student identifier, a decimal number.
	ID() string
	// Mark returns the student's mark for unit, false when the unit was not taken.
	Mark(unit string) (int, bool)
}

// StudentList is a handle on a remote, paginated student list.
// Totals do not change for the lifetime of the handle.
type StudentList interface {
	NumStudents() int
	NumPages() int
	// Page returns the records of page index, oldest first.
	Page(ctx context.Context, index int) ([]Student, error)
}

// Record is the concrete Student used by every bundled handle.
type Record struct {
	StudentID string         `json:"id" yaml:"id"`
	Marks     map[string]int `json:"marks,omitempty" yaml:"marks,omitempty"`
}

// ID implements Student.
func (r Record) ID() string { return r.StudentID }

// Mark implements Student.
func (r Record) Mark(unit string) (int, bool) {
	m, ok := r.Marks[unit]
	return m, ok
}

// Units returns the units the student has a mark for, sorted.
func (r Record) Units() []string {
	return slices.Sorted(maps.Keys(r.Marks))
}

// RecordOf converts any Student back into a Record. Marks can only be
// recovered from students that list their units.
func RecordOf(s Student) Record {
	switch v := s.(type) {
	case Record:
		return v
	case *Record:
		return *v
	}
	rec := Record{StudentID: s.ID()}
	if u, ok := s.(interface{ Units() []string }); ok {
		rec.Marks = make(map[string]int)
		for _, unit := range u.Units() {
			if m, ok := s.Mark(unit); ok {
				rec.Marks[unit] = m
			}
		}
	}
	return rec
}

// PageCount returns the number of pages needed for total records.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// CheckPage returns ErrPageOutOfRange unless 0 <= index < pages.
func CheckPage(index, pages int) error {
	if index < 0 || index >= pages {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, index, pages)
	}
	return nil
}

// TimeoutError returns an error for a timed out fetch of page index.
func TimeoutError(index int) error {
	return fmt.Errorf("page %d: %w", index, ErrQueryTimedOut)
}

func toStudents(records []Record) []Student {
	out := make([]Student, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
