package sqlite

import "github.com/kbukum/studentstats/studentapi"

type studentRow struct {
	ID       string    `gorm:"primaryKey"`
	Position int       `gorm:"uniqueIndex;not null"`
	Marks    []markRow `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (studentRow) TableName() string { return "students" }

type markRow struct {
	StudentID string `gorm:"primaryKey"`
	Unit      string `gorm:"primaryKey"`
	Mark      int    `gorm:"not null"`
}

func (markRow) TableName() string { return "marks" }

func (r studentRow) record() studentapi.Record {
	rec := studentapi.Record{StudentID: r.ID}
	if len(r.Marks) > 0 {
		rec.Marks = make(map[string]int, len(r.Marks))
		for _, m := range r.Marks {
			rec.Marks[m.Unit] = m.Mark
		}
	}
	return rec
}

func rowOf(s studentapi.Student, position int) studentRow {
	rec := studentapi.RecordOf(s)
	row := studentRow{ID: rec.StudentID, Position: position}
	for _, unit := range rec.Units() {
		row.Marks = append(row.Marks, markRow{StudentID: rec.StudentID, Unit: unit, Mark: rec.Marks[unit]})
	}
	return row
}
