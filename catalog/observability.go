package catalog

import (
	"context"
	"errors"
	"time"
)

// Logger interface for operational logging, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging. *slog.Logger satisfies it.
// When both loggers are configured, the contextual one wins.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting catalog performance and operational metrics.
// It is dependency-free so any backend (Prometheus, OpenTelemetry, ...) can be plugged in.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// SpanContext is an active tracing span that can still be annotated.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for tracing composite catalog operations, dependency-free like MetricsCollector.
// Status values passed to FinishSpan are "success", "conflict" and "error".
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

const (
	spanStatusSuccess  = "success"
	spanStatusConflict = "conflict"
	spanStatusError    = "error"
)

func spanStatus(err error) string {
	switch {
	case err == nil:
		return spanStatusSuccess
	case errors.Is(err, ErrConflict):
		return spanStatusConflict
	default:
		return spanStatusError
	}
}

const (
	logAttrError     = "error"
	logAttrOperation = "operation"
	logAttrBookID    = "book_id"
	logAttrCardID    = "card_id"
	logAttrErrorKind = "error_kind"
)

// observer bundles the optional loggers of a core component.
type observer struct {
	logger           Logger
	contextualLogger ContextualLogger
}

func (o observer) info(ctx context.Context, msg string, args ...any) {
	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.InfoContext(ctx, msg, args...)
	case o.logger != nil:
		o.logger.Info(msg, args...)
	}
}

func (o observer) warn(ctx context.Context, msg string, args ...any) {
	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.WarnContext(ctx, msg, args...)
	case o.logger != nil:
		o.logger.Warn(msg, args...)
	}
}

func (o observer) failure(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrErrorKind, string(KindOf(err))}
	allArgs = append(allArgs, args...)

	switch {
	case o.contextualLogger != nil:
		o.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	case o.logger != nil:
		o.logger.Error(msg, allArgs...)
	}
}
