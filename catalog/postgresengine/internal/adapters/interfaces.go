package adapters

import "context"

// DBAdapter hands out dedicated connections from a pool.
type DBAdapter interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Executor runs parameterized statements.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// Conn is one acquired connection. Statements run on it directly are auto-committed.
type Conn interface {
	Executor
	Begin(ctx context.Context) (Tx, error)
	Release() error
}

// Tx is a transaction started on a Conn.
type Tx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
