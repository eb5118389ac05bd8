package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSQL is an in-test SQLExecutor that dispatches on the sqlinline constant
// passed by the repository under test.
type fakeSQL struct {
	execFunc     func(query string, args ...any) (pgconn.CommandTag, error)
	queryRowFunc func(query string, args ...any) pgx.Row
	queryFunc    func(query string, args ...any) (pgx.Rows, error)
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.execFunc == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec: %s", query)
	}
	return f.execFunc(query, args...)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if f.queryRowFunc == nil {
		return scanRow{err: fmt.Errorf("unexpected QueryRow: %s", query)}
	}
	return f.queryRowFunc(query, args...)
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.queryFunc == nil {
		return nil, fmt.Errorf("unexpected Query: %s", query)
	}
	return f.queryFunc(query, args...)
}

// scanRow implements pgx.Row around a scanner func or a fixed error.
type scanRow struct {
	scan func(dest ...any) error
	err  error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// sliceRows implements pgx.Rows over pre-scanned rows, one scanner per row.
type sliceRows struct {
	scanners []func(dest ...any) error
	idx      int
	err      error
}

func (s *sliceRows) Next() bool {
	if s.idx >= len(s.scanners) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scanners) {
		return pgx.ErrNoRows
	}
	return s.scanners[s.idx-1](dest...)
}

func (s *sliceRows) Err() error                                   { return s.err }
func (s *sliceRows) Close()                                       {}
func (s *sliceRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *sliceRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *sliceRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}
func (s *sliceRows) RawValues() [][]byte { return nil }
func (s *sliceRows) Conn() *pgx.Conn     { return nil }

var _ pgx.Rows = (*sliceRows)(nil)

func setString(dest any, v string) {
	if p, ok := dest.(*string); ok {
		*p = v
	}
}

func setInt64(dest any, v int64) {
	if p, ok := dest.(*int64); ok {
		*p = v
	}
}
