package config

import (
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPoolTestConfig returns the pgxpool configuration for the test database.
// An unparsable CATALOG_TEST_DSN aborts the test binary.
func PostgresPGXPoolTestConfig() *pgxpool.Config {
	poolConfig, err := pgxpool.ParseConfig(PostgresTestDSN())
	if err != nil {
		log.Fatalf("parsing test dsn: %v", err)
	}

	poolConfig.MaxConns = testMaxConns
	poolConfig.MinConns = testMinConns
	poolConfig.MaxConnLifetime = testMaxConnLifetime
	poolConfig.MaxConnIdleTime = testMaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = testConnectTimeout

	return poolConfig
}
