package postgresengine

import (
	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithBookTableName sets the table name for Books.
func WithBookTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return catalog.ErrEmptyTableName
		}

		e.bookTableName = tableName

		return nil
	}
}

// WithCardTableName sets the table name for BibliographicCards.
func WithCardTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return catalog.ErrEmptyTableName
		}

		e.cardTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Inserted ids, committed and rolled back scopes (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger catalog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// When set, it is used instead of the plain logger so log records carry the caller's context.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives statement durations, database errors, and scope outcomes.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}
