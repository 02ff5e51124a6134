package studentapi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func records(ids ...string) []Record {
	out := make([]Record, len(ids))
	for i, id := range ids {
		out[i] = Record{StudentID: id}
	}
	return out
}

func TestRecord(t *testing.T) {
	r := Record{StudentID: "1001", Marks: map[string]int{"CITS2200": 80, "CITS1001": 65}}
	if r.ID() != "1001" {
		t.Errorf("ID() = %q", r.ID())
	}
	if m, ok := r.Mark("CITS2200"); !ok || m != 80 {
		t.Errorf("Mark(CITS2200) = %d, %v", m, ok)
	}
	if _, ok := r.Mark("MATH1001"); ok {
		t.Error("expected no mark for a unit not taken")
	}
	units := r.Units()
	if len(units) != 2 || units[0] != "CITS1001" || units[1] != "CITS2200" {
		t.Errorf("Units() = %v", units)
	}
}

type plainStudent struct{ id string }

func (p plainStudent) ID() string              { return p.id }
func (p plainStudent) Mark(string) (int, bool) { return 0, false }

func TestRecordOf(t *testing.T) {
	r := Record{StudentID: "7", Marks: map[string]int{"U": 1}}
	if got := RecordOf(r); got.StudentID != "7" || got.Marks["U"] != 1 {
		t.Errorf("RecordOf(Record) = %+v", got)
	}
	if got := RecordOf(&r); got.StudentID != "7" {
		t.Errorf("RecordOf(*Record) = %+v", got)
	}
	if got := RecordOf(plainStudent{id: "8"}); got.StudentID != "8" || got.Marks != nil {
		t.Errorf("RecordOf(plain) = %+v", got)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(TimeoutError(3)) {
		t.Error("expected TimeoutError to be a timeout")
	}
	if IsTimeout(ErrPageOutOfRange) {
		t.Error("expected ErrPageOutOfRange not to be a timeout")
	}
	if IsTimeout(nil) {
		t.Error("expected nil not to be a timeout")
	}
}

func TestMemoryList_Pages(t *testing.T) {
	l := NewMemoryList(records("1", "2", "3", "4", "5"), 2)
	if l.NumStudents() != 5 || l.NumPages() != 3 {
		t.Fatalf("totals = %d students, %d pages", l.NumStudents(), l.NumPages())
	}

	ctx := context.Background()
	var ids []string
	for p := 0; p < l.NumPages(); p++ {
		page, err := l.Page(ctx, p)
		if err != nil {
			t.Fatalf("Page(%d): %v", p, err)
		}
		for _, s := range page {
			ids = append(ids, s.ID())
		}
	}
	if strings.Join(ids, ",") != "1,2,3,4,5" {
		t.Errorf("ids = %v", ids)
	}

	if _, err := l.Page(ctx, 3); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
	if _, err := l.Page(ctx, -1); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestMemoryList_DefaultPageSize(t *testing.T) {
	l := NewMemoryList(records("1", "2"), 0)
	if l.NumPages() != 1 {
		t.Errorf("expected 1 page, got %d", l.NumPages())
	}
	if NewMemoryList(nil, 5).NumPages() != 0 {
		t.Error("expected an empty list to have no pages")
	}
}

func TestMemoryList_FailNext(t *testing.T) {
	l := NewMemoryList(records("1", "2", "3"), 2)
	l.FailNext(1, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := l.Page(ctx, 1); !IsTimeout(err) {
			t.Fatalf("attempt %d: expected timeout, got %v", i, err)
		}
	}
	page, err := l.Page(ctx, 1)
	if err != nil || len(page) != 1 || page[0].ID() != "3" {
		t.Fatalf("expected page 1 after failures, got %v, %v", page, err)
	}
	if l.Fetches(1) != 3 {
		t.Errorf("Fetches(1) = %d, want 3", l.Fetches(1))
	}
	if l.Fetches(0) != 0 || l.TotalFetches() != 3 {
		t.Errorf("unexpected fetch counts %d/%d", l.Fetches(0), l.TotalFetches())
	}
}

func TestMemoryList_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryList(records("1"), 1).Page(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFlaky(t *testing.T) {
	base := NewMemoryList(records("1"), 1)
	ctx := context.Background()

	never := Flaky(base, 0, 1)
	for i := 0; i < 20; i++ {
		if _, err := never.Page(ctx, 0); err != nil {
			t.Fatalf("rate 0 should never fail, got %v", err)
		}
	}

	always := Flaky(base, 1, 1)
	if _, err := always.Page(ctx, 0); !IsTimeout(err) {
		t.Errorf("rate 1 should always time out, got %v", err)
	}
	if always.NumStudents() != 1 || always.NumPages() != 1 {
		t.Error("expected totals to pass through")
	}

	outcomes := func(seed int64) string {
		f := Flaky(base, 0.5, seed)
		var b strings.Builder
		for i := 0; i < 32; i++ {
			if _, err := f.Page(ctx, 0); err != nil {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		return b.String()
	}
	if outcomes(42) != outcomes(42) {
		t.Error("expected the same seed to give the same failures")
	}
}

const sampleDataset = `
students:
  - id: "1001"
    marks:
      CITS2200: 80
  - id: "1002"
    marks:
      CITS2200: 100
      CITS1001: 55
  - id: "1003"
`

func TestLoadDataset(t *testing.T) {
	got, err := LoadDataset(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 students, got %d", len(got))
	}
	if got[1].Marks["CITS1001"] != 55 {
		t.Errorf("unexpected marks %v", got[1].Marks)
	}
	if _, ok := got[2].Mark("CITS2200"); ok {
		t.Error("expected student 1003 to have no marks")
	}
}

func TestLoadDataset_Empty(t *testing.T) {
	got, err := LoadDataset(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty dataset, got %v, %v", got, err)
	}
}

func TestLoadDataset_Invalid(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"missing id", "students:\n  - marks: {U: 1}\n", "id: is required"},
		{"non numeric id", "students:\n  - id: abc\n", "id: does not match required format"},
		{"duplicate id", "students:\n  - id: \"1\"\n  - id: \"1\"\n", "duplicates students[0]"},
		{"mark out of range", "students:\n  - id: \"1\"\n    marks: {U: 101}\n", "marks.U"},
		{"unknown field", "students:\n  - id: \"1\"\n    name: Ada\n", "decoding dataset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDataset(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.yml")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadDatasetFile(path)
	if err != nil || len(got) != 3 {
		t.Fatalf("LoadDatasetFile = %v, %v", got, err)
	}
	if _, err := LoadDatasetFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
