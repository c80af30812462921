package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow implements pgx.Row over a fixed value slice. A nil value scans
// a nullable target to nil, matching a NULL column.
type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignScanValues(dest, r.values)
}

// fakeRows implements pgx.Rows over fixed per-row value slices.
type fakeRows struct {
	rows    [][]any
	idx     int
	scanErr error
	iterErr error
	closed  bool
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return assignScanValues(dest, r.rows[r.idx-1])
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.iterErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

// fakeDBTX implements DBTX, recording the last query and returning the
// configured row/rows.
type fakeDBTX struct {
	row      pgx.Row
	rows     pgx.Rows
	queryErr error

	lastSQL  string
	lastArgs []any
}

func (f *fakeDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = arguments
	return pgconn.CommandTag{}, nil
}

func (f *fakeDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL = sql
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL = sql
	f.lastArgs = args
	return f.row
}

// assignScanValues copies fixture values into scan targets, mirroring the
// column types the repositories read.
func assignScanValues(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan target count %d does not match fixture value count %d", len(dest), len(values))
	}
	for i, d := range dest {
		v := values[i]
		switch target := d.(type) {
		case *string:
			target2, ok := v.(string)
			if !ok {
				return fmt.Errorf("fixture value %d: expected string, got %T", i, v)
			}
			*target = target2
		case **string:
			if v == nil {
				*target = nil
				continue
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("fixture value %d: expected string or nil, got %T", i, v)
			}
			*target = &s
		case *int:
			n, ok := v.(int)
			if !ok {
				return fmt.Errorf("fixture value %d: expected int, got %T", i, v)
			}
			*target = n
		case *time.Time:
			ts, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("fixture value %d: expected time.Time, got %T", i, v)
			}
			*target = ts
		default:
			return fmt.Errorf("unsupported scan target type %T at index %d", d, i)
		}
	}
	return nil
}
