package postgresengine

import (
	"context"
	"math"
	"time"
)

const (
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "catalog operation: "
	logMsgAcquireFailed      = "failed to acquire database connection"
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgBeginFailed        = "failed to begin transaction"
	logMsgCommitFailed       = "failed to commit transaction"
	logMsgRollbackFailed     = "failed to roll back transaction"
	logMsgReleaseFailed      = "failed to release database connection"
	logMsgScopeStarted       = "scope started"
	logMsgScopeCommitted     = "scope committed"
	logMsgScopeRolledBack    = "scope rolled back"
	logMsgRowInserted        = "row inserted"
	logMsgRowUpdated         = "row updated"
	logMsgRowSoftDeleted     = "row soft-deleted"

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrTable        = "table"
	logAttrID           = "id"
	logAttrScopeID      = "scope_id"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"

	metricStatementDuration   = "catalog_statement_duration_seconds"
	metricDatabaseErrors      = "catalog_statement_errors_total"
	metricScopesCommitted     = "catalog_scopes_committed_total"
	metricScopesRolledBack    = "catalog_scopes_rolled_back_total"
	metricLabelOperation      = "operation"
	metricLabelStatus         = "status"
	metricLabelErrorType      = "error_type"
	statusSuccess             = "success"
	statusError               = "error"
	operationAcquire          = "acquire"
	operationInsert           = "insert"
	operationUpdate           = "update"
	operationSoftDelete       = "soft_delete"
	operationGetByID          = "get_by_id"
	operationGetAll           = "get_all"
	operationFind             = "find"
	operationExistsISBN       = "exists_isbn"
	errorTypeConnection       = "connection"
	errorTypeBuildQuery       = "build_query"
	errorTypeDatabaseQuery    = "database_query"
	errorTypeDatabaseExec     = "database_exec"
	errorTypeRowScan          = "row_scan"
	errorTypeTransaction      = "transaction"
	errorTypeNoGeneratedKey   = "no_generated_key"
	errorTypeNoRowsAffected   = "no_rows_affected"
	errorTypeRowsAffectedRead = "rows_affected"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (e Engine) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	msg := logMsgSQLExecuted + action
	args := []any{logAttrDurationMS, e.toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.DebugContext(ctx, msg, args...)
	case e.logger != nil:
		e.logger.Debug(msg, args...)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (e Engine) logOperation(ctx context.Context, action string, args ...any) {
	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case e.logger != nil:
		e.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (e Engine) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.WarnContext(ctx, message, allArgs...)
	case e.logger != nil:
		e.logger.Warn(message, allArgs...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (e Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	switch {
	case e.contextualLogger != nil:
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case e.logger != nil:
		e.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e Engine) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDuration records statement duration metrics if the metrics collector is configured.
func (e Engine) recordDuration(operation, status string, duration time.Duration) {
	if e.metricsCollector != nil {
		labels := map[string]string{
			metricLabelOperation: operation,
			metricLabelStatus:    status,
		}
		e.metricsCollector.RecordDuration(metricStatementDuration, duration, labels)
	}
}

// recordError records error metrics if the metrics collector is configured.
func (e Engine) recordError(operation, errorType string) {
	if e.metricsCollector != nil {
		labels := map[string]string{
			metricLabelOperation: operation,
			metricLabelStatus:    statusError,
			metricLabelErrorType: errorType,
		}
		e.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// recordScopeOutcome counts committed and rolled back scopes if the metrics collector is configured.
func (e Engine) recordScopeOutcome(metric string) {
	if e.metricsCollector != nil {
		e.metricsCollector.IncrementCounter(metric, map[string]string{})
	}
}
