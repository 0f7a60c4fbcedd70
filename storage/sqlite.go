// Package storage implements the storage collaborator consumed by the tool
// gateway: a SQLite database holding course and schedule data, plus an
// idempotent migration step executed once before the core runs. The gateway
// only sees the Querier contract; everything else here is provisioning.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campusmesh/campusmesh/core"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	coursesTable   = "courses"
	schedulesTable = "schedules"
)

// Querier is the query contract consumed by the tool gateway. Rows are
// returned raw as column-name keyed maps; no caching or transformation.
type Querier interface {
	Query(ctx context.Context, query string) ([]map[string]any, error)
}

// SQLiteStore persists university support data in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: storage path is required", core.ErrConfiguration)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an existing database handle.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Query executes a read query and returns raw rows as column-keyed maps.
// Connection or statement failures surface as ErrStorageUnavailable; the
// session-level handling of that error belongs to the caller.
func (s *SQLiteStore) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}

	return out, nil
}
