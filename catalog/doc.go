// Package catalog provides the storage-agnostic core of the library catalog.
//
// It defines the two persisted entities, Book and BibliographicCard, the contracts their
// record stores implement, and the components that run in front of every write:
//
//   - Validator normalizes text fields and enforces length, format, range, uniqueness,
//     existence, and cross-reference rules before anything reaches storage.
//   - Orchestrator writes a Book together with its BibliographicCard as one atomic unit
//     inside a single Scope, rolling back on any failure.
//   - Service runs the validated single-entity flows that need no explicit transaction.
//
// Errors returned by this package and its storage engines are *Error values carrying an
// ErrorKind. Use errors.Is with the sentinels (ErrValidation, ErrConflict, ErrNotFound,
// ErrConnection, ErrPersistence, ErrTransaction) to branch on them.
//
// A Scope is handed to store calls through the context:
//
//	scope, _ := engine.OpenScope(ctx)
//	defer scope.Close(ctx)
//	_ = scope.Start(ctx)
//	scoped := catalog.ContextWithScope(ctx, scope)
//	_, _ = engine.Cards().Insert(scoped, &card)
//	_ = scope.Commit(ctx)
//
// Store calls whose context carries no scope run as self-contained statements.
//
// Logging, metrics and tracing are plugged in through the Logger, ContextualLogger,
// MetricsCollector and TracingCollector interfaces; package oteladapters implements them
// with OpenTelemetry.
package catalog
