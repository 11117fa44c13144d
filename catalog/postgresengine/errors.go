package postgresengine

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

// PostgreSQL SQLSTATE codes the engine distinguishes.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
)

// mapDriverError translates a driver failure into the catalog error taxonomy.
// Errors that already are *catalog.Error pass through unchanged.
func mapDriverError(entity, op string, err error) error {
	var catalogErr *catalog.Error
	if errors.As(err, &catalogErr) {
		return err
	}

	switch sqlState(err) {
	case sqlStateUniqueViolation:
		return catalog.NewError(catalog.KindConflict, entity, op, "unique constraint violated", err)
	case sqlStateForeignKeyViolation:
		return catalog.NewError(catalog.KindNotFound, entity, op, "referenced row does not exist", err)
	case sqlStateNotNullViolation, sqlStateCheckViolation:
		return catalog.NewError(catalog.KindValidation, entity, op, "row rejected by a table constraint", err)
	default:
		return catalog.NewError(catalog.KindPersistence, entity, op, "database statement failed", err)
	}
}

// sqlState extracts the SQLSTATE from pgx (also used by pgx/stdlib) and lib/pq errors.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}
