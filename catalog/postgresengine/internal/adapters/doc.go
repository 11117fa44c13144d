// Package adapters provide database adapter implementations for the PostgreSQL catalog engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. Each adapter hands out one dedicated connection per Acquire,
// which a transaction scope owns until it releases it again.
//
// A freshly acquired connection is in auto-commit mode. Begin starts a transaction on it;
// after Commit or Rollback the connection is back in auto-commit mode.
package adapters
