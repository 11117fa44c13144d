package postgresengine

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Migrate applies all pending schema migrations for the default table names and
// returns the resulting schema version.
func Migrate(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return 0, err
	}

	if _, err = provider.Up(ctx); err != nil {
		return 0, err
	}

	return provider.GetDBVersion(ctx)
}

// MigratePGXPool is Migrate for a pgx pool, bridged through pgx's database/sql driver.
func MigratePGXPool(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	if pool == nil {
		return 0, catalog.ErrNilDatabaseConnection
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	return Migrate(ctx, db)
}

// MigrateDown rolls back the most recently applied migration.
func MigrateDown(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return 0, err
	}

	if _, err = provider.Down(ctx); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return 0, err
	}

	return provider.GetDBVersion(ctx)
}

// MigrationStatus reports every known migration and whether it has been applied.
func MigrationStatus(ctx context.Context, db *sql.DB) ([]*goose.MigrationStatus, error) {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return nil, err
	}

	return provider.Status(ctx)
}

func newMigrationProvider(db *sql.DB) (*goose.Provider, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	fsys, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, err
	}

	return goose.NewProvider(goose.DialectPostgres, db, fsys)
}
