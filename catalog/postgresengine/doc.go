// Package postgresengine provides a PostgreSQL implementation of the catalog storage contracts.
//
// This package implements the Book and BibliographicCard record stores and the
// TransactionScope that groups their writes into one atomic unit, supporting multiple
// database adapters (pgx, sql.DB, sqlx).
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - One dedicated connection per scope, released on every exit path
//   - Soft-delete filtering applied uniformly at the store boundary
//   - Driver errors mapped onto the catalog error kinds (unique and foreign key violations)
//   - Embedded goose migrations, including the unique index on active ISBNs
//   - Configurable table names, logger, contextual logger, and metrics collector
//
// Usage examples:
//
//	// Basic usage
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	_, _ = postgresengine.MigratePGXPool(ctx, pool)
//	engine, _ := postgresengine.NewEngineFromPGXPool(pool)
//
//	// With logging
//	engine, _ := postgresengine.NewEngineFromPGXPool(
//		pool,
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	validator, _ := catalog.NewValidator(engine.Books(), engine.Cards())
//	orchestrator, _ := catalog.NewOrchestrator(engine, engine.Books(), engine.Cards(), validator)
//	bookID, err := orchestrator.InsertBookWithCard(ctx, &book, &card)
package postgresengine
