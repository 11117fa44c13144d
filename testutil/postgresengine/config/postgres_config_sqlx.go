package config

import (
	"github.com/jmoiron/sqlx"
)

// PostgresSQLXTestConfig creates a configured *sqlx.DB for the test database.
func PostgresSQLXTestConfig() (*sqlx.DB, error) {
	db, err := PostgresSQLDBTestConfig()
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, "postgres"), nil
}
