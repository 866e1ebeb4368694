package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow plays a single row for QueryRow().Scan()
type fakeRow struct {
	err    error
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.values) {
			break
		}
		switch d := dest[i].(type) {
		case *int64:
			d2, ok := r.values[i].(int64)
			if !ok {
				return fmt.Errorf("fakeRow: value %d is %T, want int64", i, r.values[i])
			}
			*d = d2
		case *bool:
			d2, ok := r.values[i].(bool)
			if !ok {
				return fmt.Errorf("fakeRow: value %d is %T, want bool", i, r.values[i])
			}
			*d = d2
		case *string:
			d2, ok := r.values[i].(string)
			if !ok {
				return fmt.Errorf("fakeRow: value %d is %T, want string", i, r.values[i])
			}
			*d = d2
		case *time.Time:
			d2, ok := r.values[i].(time.Time)
			if !ok {
				return fmt.Errorf("fakeRow: value %d is %T, want time.Time", i, r.values[i])
			}
			*d = d2
		default:
			return fmt.Errorf("fakeRow: unsupported scan target %T", dest[i])
		}
	}
	return nil
}

// recordedCall captures one statement issued against the fake
type recordedCall struct {
	sql  string
	args []any
}

// execResult scripts one Exec outcome
type execResult struct {
	tag pgconn.CommandTag
	err error
}

// fakeQuerier plays scripted rows and exec results in call order and
// records every statement it sees
type fakeQuerier struct {
	rows  []fakeRow
	execs []execResult
	calls []recordedCall
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls = append(q.calls, recordedCall{sql: sql, args: args})
	if len(q.rows) == 0 {
		return fakeRow{err: fmt.Errorf("fakeQuerier: unexpected QueryRow: %s", sql)}
	}
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls = append(q.calls, recordedCall{sql: sql, args: args})
	if len(q.execs) == 0 {
		return pgconn.CommandTag{}, fmt.Errorf("fakeQuerier: unexpected Exec: %s", sql)
	}
	res := q.execs[0]
	q.execs = q.execs[1:]
	return res.tag, res.err
}

func updated(n int) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n))
}

func inserted(n int) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", n))
}
