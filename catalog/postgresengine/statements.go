package postgresengine

import (
	"context"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

const (
	colID      = "id"
	colDeleted = "deleted"
)

type (
	sqlQueryString = string
	sqlArgs        = []any
)

// queryRows runs a query on exec and calls scan once per result row.
func (e Engine) queryRows(
	ctx context.Context,
	exec adapters.Executor,
	entity, operation string,
	sqlQuery sqlQueryString,
	args sqlArgs,
	scan func(rows adapters.DBRows) error,
) error {

	start := time.Now()
	rows, queryErr := exec.Query(ctx, sqlQuery, args...)
	if queryErr != nil {
		e.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))
		e.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		e.recordError(operation, errorTypeDatabaseQuery)
		e.recordDuration(operation, statusError, time.Since(start))

		return mapDriverError(entity, operation, queryErr)
	}
	defer e.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrQuery, sqlQuery)
			e.recordError(operation, errorTypeRowScan)

			return catalog.NewError(catalog.KindPersistence, entity, operation, "could not scan row", scanErr)
		}
	}

	// pgx reports statement failures such as constraint violations only here
	if iterErr := rows.Err(); iterErr != nil {
		e.logQueryWithDuration(ctx, sqlQuery, operation, time.Since(start))
		e.logError(ctx, logMsgDBQueryFailed, iterErr, logAttrQuery, sqlQuery)
		e.recordError(operation, errorTypeDatabaseQuery)
		e.recordDuration(operation, statusError, time.Since(start))

		return mapDriverError(entity, operation, iterErr)
	}

	duration := time.Since(start)
	e.logQueryWithDuration(ctx, sqlQuery, operation, duration)
	e.recordDuration(operation, statusSuccess, duration)

	return nil
}

// execStatement runs a statement on exec and returns the number of affected rows.
func (e Engine) execStatement(
	ctx context.Context,
	exec adapters.Executor,
	entity, operation string,
	sqlQuery sqlQueryString,
	args sqlArgs,
) (int64, error) {

	start := time.Now()
	result, execErr := exec.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	e.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		e.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		e.recordError(operation, errorTypeDatabaseExec)
		e.recordDuration(operation, statusError, duration)

		return 0, mapDriverError(entity, operation, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		e.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		e.recordError(operation, errorTypeRowsAffectedRead)

		return 0, catalog.NewError(catalog.KindPersistence, entity, operation, "could not read affected rows", rowsAffectedErr)
	}

	e.recordDuration(operation, statusSuccess, duration)

	return rowsAffected, nil
}

// insertReturningID runs an INSERT ... RETURNING id statement and returns the generated key.
func (e Engine) insertReturningID(
	ctx context.Context,
	exec adapters.Executor,
	entity, table string,
	sqlQuery sqlQueryString,
	args sqlArgs,
) (int64, error) {

	var id int64
	returned := false

	err := e.queryRows(ctx, exec, entity, operationInsert, sqlQuery, args, func(rows adapters.DBRows) error {
		returned = true
		return rows.Scan(&id)
	})
	if err != nil {
		return 0, err
	}

	if !returned || id <= 0 {
		e.recordError(operationInsert, errorTypeNoGeneratedKey)
		return 0, catalog.NewError(catalog.KindPersistence, entity, operationInsert, "driver did not report a generated id", nil)
	}

	e.logOperation(ctx, logMsgRowInserted, logAttrTable, table, logAttrID, id)

	return id, nil
}

// expectAffected turns zero affected rows into a NotFound error for the given id.
func (e Engine) expectAffected(ctx context.Context, entity, operation, table string, id, rowsAffected int64) error {
	if rowsAffected == 0 {
		e.recordError(operation, errorTypeNoRowsAffected)
		return catalog.NewError(catalog.KindNotFound, entity, operation, "no active row with this id", nil)
	}

	msg := logMsgRowUpdated
	if operation == operationSoftDelete {
		msg = logMsgRowSoftDeleted
	}

	e.logOperation(ctx, msg, logAttrTable, table, logAttrID, id, logAttrRowsAffected, rowsAffected)

	return nil
}

func (e Engine) buildFailed(ctx context.Context, entity, operation string, err error) error {
	e.logError(ctx, logMsgBuildQueryFailed, err)
	e.recordError(operation, errorTypeBuildQuery)

	return catalog.NewError(catalog.KindPersistence, entity, operation, "could not build sql statement", err)
}

// closeRows safely closes database rows and logs any errors.
func (e Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// nullable maps an absent Optional to SQL NULL.
func nullable[T any](o catalog.Optional[T]) any {
	value, ok := o.Get()
	if !ok {
		return nil
	}

	return value
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text anywhere, with wildcards in text escaped.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
