// Package config provides PostgreSQL database configuration for catalog engine testing.
//
// This package contains factory functions for creating database connections
// using the engine's supported PostgreSQL adapters (pgx.Pool, sql.DB, sqlx.DB)
// against the test database.
package config
