package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "modernc.org/sqlite"

	"github.com/ByLCY/roster/layout"
)

// OpenSQLite opens a SQLite database file read-only through modernc.org/sqlite.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("打开数据库 %s 失败: %w", path, err)
	}
	return db, nil
}

// SQL streams the rows of a query; result columns map to table columns by position.
// Ordering is whatever the query asks for.
type SQL struct {
	rows        *sql.Rows
	width       int
	placeholder string
	done        bool
}

// NewSQL runs query and prepares row scanning.
func NewSQL(ctx context.Context, db *sql.DB, query, placeholder string, args ...any) (*SQL, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("读取查询列失败: %w", err)
	}
	return &SQL{rows: rows, width: len(cols), placeholder: placeholder}, nil
}

func (s *SQL) Next() (layout.Record, error) {
	if s.done {
		return nil, io.EOF
	}
	if !s.rows.Next() {
		s.done = true
		if err := s.rows.Err(); err != nil {
			s.rows.Close()
			return nil, err
		}
		if err := s.rows.Close(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	values := make([]any, s.width)
	ptrs := make([]any, s.width)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	rec := make(layout.Record, s.width)
	for i, v := range values {
		rec[i] = Format(v, s.placeholder)
	}
	return rec, nil
}

// Close releases the underlying rows; safe to call after io.EOF.
func (s *SQL) Close() error {
	s.done = true
	return s.rows.Close()
}
