// Package sqlite stores a student list in a SQLite database and serves it
// page by page through GORM.
//
// The schema has two tables: students(id, position) and
// marks(student_id, unit, mark). Pages are cut by position, so the order a
// dataset was imported in is the order it is served in.
//
//	db, err := sqlite.Connect(sqlite.Config{Path: "students.db"}, log)
//	if err != nil { ... }
//	if err := sqlite.Migrate(ctx, db); err != nil { ... }
//	list, err := sqlite.Open(ctx, db, 20)
package sqlite
