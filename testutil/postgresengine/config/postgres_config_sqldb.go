package config

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLDBTestConfig opens a lib/pq backed *sql.DB on the test database and pings it.
// The returned error is the ping failure, so callers can skip when no database is running.
func PostgresSQLDBTestConfig() (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresTestDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(testMaxConns)
	db.SetMaxIdleConns(testMinConns + 1)
	db.SetConnMaxLifetime(testMaxConnLifetime)
	db.SetConnMaxIdleTime(testMaxConnIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
