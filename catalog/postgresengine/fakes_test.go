package postgresengine_test

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

// fakeDB is a scripted adapters.DBAdapter recording every statement and where it ran.
type fakeDB struct {
	acquireErr  error
	beginErr    error
	commitErr   error
	rollbackErr error
	releaseErr  error
	execErr     error

	rowsAffected int64
	queryRows    [][]any

	acquired   int
	released   int
	begun      int
	committed  int
	rolledBack int
	statements []fakeStatement
}

type fakeStatement struct {
	query string
	args  []any
	inTx  bool
}

func (db *fakeDB) Acquire(_ context.Context) (adapters.Conn, error) {
	if db.acquireErr != nil {
		return nil, db.acquireErr
	}

	db.acquired++

	return &fakeConn{db: db}, nil
}

func (db *fakeDB) record(query string, args []any, inTx bool) {
	db.statements = append(db.statements, fakeStatement{query: query, args: args, inTx: inTx})
}

func (db *fakeDB) query(query string, args []any, inTx bool) (adapters.DBRows, error) {
	db.record(query, args, inTx)
	if db.execErr != nil {
		return nil, db.execErr
	}

	return &fakeRows{rows: db.queryRows, pos: -1}, nil
}

func (db *fakeDB) exec(query string, args []any, inTx bool) (adapters.DBResult, error) {
	db.record(query, args, inTx)
	if db.execErr != nil {
		return nil, db.execErr
	}

	return fakeResult{rowsAffected: db.rowsAffected}, nil
}

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Query(_ context.Context, query string, args ...any) (adapters.DBRows, error) {
	return c.db.query(query, args, false)
}

func (c *fakeConn) Exec(_ context.Context, query string, args ...any) (adapters.DBResult, error) {
	return c.db.exec(query, args, false)
}

func (c *fakeConn) Begin(_ context.Context) (adapters.Tx, error) {
	if c.db.beginErr != nil {
		return nil, c.db.beginErr
	}

	c.db.begun++

	return &fakeTx{db: c.db}, nil
}

func (c *fakeConn) Release() error {
	c.db.released++
	return c.db.releaseErr
}

type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Query(_ context.Context, query string, args ...any) (adapters.DBRows, error) {
	return t.db.query(query, args, true)
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (adapters.DBResult, error) {
	return t.db.exec(query, args, true)
}

func (t *fakeTx) Commit(_ context.Context) error {
	if t.db.commitErr != nil {
		return t.db.commitErr
	}

	t.db.committed++

	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.db.rolledBack++
	return t.db.rollbackErr
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

// Scan supports the pointer types the stores scan into.
func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos]
	if len(row) != len(dest) {
		return errors.New("column count mismatch")
	}

	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = row[i].(int64)
		case *string:
			*target = row[i].(string)
		case *bool:
			*target = row[i].(bool)
		case **string:
			if row[i] != nil {
				v := row[i].(string)
				*target = &v
			}
		case **int:
			if row[i] != nil {
				v := row[i].(int)
				*target = &v
			}
		case **int64:
			if row[i] != nil {
				v := row[i].(int64)
				*target = &v
			}
		default:
			return errors.New("unsupported scan target")
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
