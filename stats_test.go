package studentstats

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/studentstats/pipeline"
	"github.com/kbukum/studentstats/studentapi"
)

const unit = "CITS2200"

func rec(id string, marks map[string]int) studentapi.Record {
	return studentapi.Record{StudentID: id, Marks: marks}
}

func TestUnitAverage(t *testing.T) {
	students := []studentapi.Record{
		rec("1", map[string]int{unit: 80}),
		rec("2", map[string]int{unit: 100}),
		rec("3", map[string]int{"CITS1001": 10}),
	}

	for _, size := range []int{1, 2, 3} {
		got, err := UnitAverage(context.Background(), studentapi.NewMemoryList(students, size), unit)
		if err != nil {
			t.Fatalf("page size %d: %v", size, err)
		}
		if got != 90 {
			t.Errorf("page size %d: average = %d, want 90", size, got)
		}
	}
}

func TestUnitAverage_Truncates(t *testing.T) {
	students := []studentapi.Record{
		rec("1", map[string]int{unit: 50}),
		rec("2", map[string]int{unit: 51}),
	}
	got, err := UnitAverage(context.Background(), studentapi.NewMemoryList(students, 1), unit)
	if err != nil || got != 50 {
		t.Errorf("average = %d, %v; want 50", got, err)
	}
}

func TestUnitAverage_NoMarks(t *testing.T) {
	tests := []struct {
		name     string
		students []studentapi.Record
	}{
		{"nobody took the unit", []studentapi.Record{rec("1", nil), rec("2", map[string]int{"X": 1})}},
		{"empty list", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnitAverage(context.Background(), studentapi.NewMemoryList(tt.students, 2), unit)
			if !errors.Is(err, ErrNoMarks) {
				t.Errorf("expected ErrNoMarks, got %v", err)
			}
		})
	}
}

func TestUnitAverage_Unreachable(t *testing.T) {
	list := studentapi.NewMemoryList([]studentapi.Record{rec("1", map[string]int{unit: 1})}, 1)
	list.FailNext(0, 2)

	_, err := UnitAverage(context.Background(), list, unit, WithRetries(1))
	if !errors.Is(err, ErrAPIUnreachable) {
		t.Errorf("expected ErrAPIUnreachable, got %v", err)
	}
}

func TestUnitNewestStudents(t *testing.T) {
	// Page 0 holds the older students, page 1 the newer ones.
	students := []studentapi.Record{
		rec("1001", map[string]int{unit: 70}),
		rec("1002", nil),
		rec("1003", map[string]int{unit: 65}),
		rec("1004", map[string]int{unit: 90}),
		rec("1005", map[string]int{"CITS1001": 40}),
		rec("1006", map[string]int{unit: 55}),
	}
	ctx := context.Background()

	newest, err := UnitNewestStudents(ctx, studentapi.NewMemoryList(students, 3), unit)
	if err != nil {
		t.Fatalf("UnitNewestStudents: %v", err)
	}
	got, err := pipeline.Collect(ctx, newest)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"1006", "1004", "1003", "1001"}
	if len(got) != len(want) {
		t.Fatalf("got %d students, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.ID() != want[i] {
			t.Errorf("position %d: got %s, want %s", i, s.ID(), want[i])
		}
	}
}

func TestUnitNewestStudents_Lazy(t *testing.T) {
	students := make([]studentapi.Record, 0, 20)
	for i := 0; i < 20; i++ {
		students = append(students, rec(string(rune('a'+i)), map[string]int{unit: i}))
	}
	list := studentapi.NewMemoryList(students, 5)
	ctx := context.Background()

	newest, err := UnitNewestStudents(ctx, list, unit)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pipeline.Collect(ctx, pipeline.Take(newest, 6)); err != nil {
		t.Fatal(err)
	}
	if list.Fetches(1) != 0 {
		t.Errorf("expected page 1 not to be fetched, got %d fetches", list.Fetches(1))
	}
	if list.Fetches(2) != 1 {
		t.Errorf("expected page 2 to be fetched once, got %d", list.Fetches(2))
	}
}

func TestUnitNewestStudents_None(t *testing.T) {
	ctx := context.Background()
	newest, err := UnitNewestStudents(ctx, studentapi.NewMemoryList([]studentapi.Record{rec("1", nil)}, 1), unit)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := newest.HasNext(ctx)
	if err != nil || ok {
		t.Errorf("expected no students, got %v, %v", ok, err)
	}
}
