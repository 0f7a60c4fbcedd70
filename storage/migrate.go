package storage

import (
	"context"
	"fmt"

	"github.com/campusmesh/campusmesh/core"
)

// sampleCourses and sampleSchedules seed the database on first migration so
// specialists have data to query in local setups.
var sampleCourses = [][3]string{
	{"Introduction to Biology", "Cell structure, genetics and evolution.", "Biology"},
	{"Marine Ecology", "Ecosystems of coastal and open ocean habitats.", "Biology"},
	{"Creative Writing", "Workshop-based course on poetry and short fiction.", "Arts"},
	{"Data Structures", "Fundamental structures and algorithmic analysis.", "Computer Science"},
}

var sampleSchedules = [][3]string{
	{"Introduction to Biology", "Mon/Wed 09:00", "2026-11-12"},
	{"Marine Ecology", "Tue/Thu 11:00", "2026-11-14"},
	{"Creative Writing", "Fri 14:00", "2026-11-20"},
	{"Data Structures", "Mon/Wed 13:00", "2026-11-18"},
}

// Migrate ensures the schema exists and seeds sample rows into empty tables.
// It is idempotent and must complete before any session runs; the core only
// ever sees "storage is ready".
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			course_name TEXT NOT NULL,
			description TEXT NOT NULL,
			discipline TEXT NOT NULL
		);`, coursesTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			course_name TEXT NOT NULL,
			class_time TEXT NOT NULL,
			exam_date TEXT NOT NULL
		);`, schedulesTable),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
	}

	if err := s.seedCourses(ctx); err != nil {
		return err
	}

	return s.seedSchedules(ctx)
}

func (s *SQLiteStore) seedCourses(ctx context.Context) error {
	empty, err := s.tableEmpty(ctx, coursesTable)
	if err != nil || !empty {
		return err
	}
	for _, c := range sampleCourses {
		if _, err := s.db.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (course_name, description, discipline) VALUES (?, ?, ?)", coursesTable),
			c[0], c[1], c[2],
		); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
	}
	return nil
}

func (s *SQLiteStore) seedSchedules(ctx context.Context) error {
	empty, err := s.tableEmpty(ctx, schedulesTable)
	if err != nil || !empty {
		return err
	}
	for _, sc := range sampleSchedules {
		if _, err := s.db.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (course_name, class_time, exam_date) VALUES (?, ?, ?)", schedulesTable),
			sc[0], sc[1], sc[2],
		); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
	}
	return nil
}

func (s *SQLiteStore) tableEmpty(ctx context.Context, table string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return n == 0, nil
}
