package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/oteladapters"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine"
)

const otelLoggerName = "github.com/AntonStoeckl/library-catalog-go"

// Connection bundles an Engine with the pool it runs on.
type Connection struct {
	Engine postgresengine.Engine

	// DB serves schema migrations. For the pgx adapter it is bridged from the pool.
	DB *sql.DB

	closers []func() error
}

// Close releases the database handles.
func (c *Connection) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}

	return errors.Join(errs...)
}

// Connect opens the pool selected by cfg.Database.Adapter, verifies it, and builds the Engine.
func Connect(ctx context.Context, cfg *Config, options ...postgresengine.Option) (*Connection, error) {
	options = append(
		[]postgresengine.Option{
			postgresengine.WithBookTableName(cfg.Tables.Book),
			postgresengine.WithCardTableName(cfg.Tables.Card),
		},
		options...,
	)

	switch cfg.Database.Adapter {
	case AdapterPGX:
		return connectPGXPool(ctx, cfg.Database, options)
	case AdapterSQL:
		db, err := openSQLDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &Connection{Engine: engine, DB: db, closers: []func() error{db.Close}}, nil
	case AdapterSQLX:
		db, err := openSQLDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}

		dbx := sqlx.NewDb(db, "postgres")
		engine, err := postgresengine.NewEngineFromSQLX(dbx, options...)
		if err != nil {
			_ = dbx.Close()
			return nil, err
		}

		return &Connection{Engine: engine, DB: dbx.DB, closers: []func() error{dbx.Close}}, nil
	default:
		return nil, fmt.Errorf("unsupported database adapter %q", cfg.Database.Adapter)
	}
}

func connectPGXPool(ctx context.Context, dbCfg DatabaseConfig, options []postgresengine.Option) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}

	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.MinConns = int32(dbCfg.MinConns)
	poolConfig.MaxConnLifetime = dbCfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbCfg.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = dbCfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
	defer cancel()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
	if err != nil {
		pool.Close()
		return nil, err
	}

	db := stdlib.OpenDBFromPool(pool)

	return &Connection{
		Engine: engine,
		DB:     db,
		closers: []func() error{
			func() error { pool.Close(); return nil },
			db.Close,
		},
	}, nil
}

func openSQLDB(ctx context.Context, dbCfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(dbCfg.MaxConns)
	db.SetMaxIdleConns(dbCfg.MinConns)
	db.SetConnMaxLifetime(dbCfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(dbCfg.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
	defer cancel()

	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
// For the otel format w is ignored and the global LoggerProvider receives the records.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	if cfg.Format == "otel" {
		return oteladapters.NewSlogBridgeLogger(otelLoggerName).Slog()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, handlerOptions))
	}

	return slog.New(slog.NewJSONHandler(w, handlerOptions))
}

// NewMetricsCollector returns an OpenTelemetry backed collector on the global MeterProvider,
// or nil when metrics are disabled.
func NewMetricsCollector(cfg MetricsConfig) catalog.MetricsCollector {
	if !cfg.Enabled {
		return nil
	}

	return oteladapters.NewMetricsCollector(otel.Meter(cfg.MeterName))
}

// NewTracingCollector returns an OpenTelemetry backed tracer on the global TracerProvider,
// or nil when tracing is disabled.
func NewTracingCollector(cfg TracingConfig) catalog.TracingCollector {
	if !cfg.Enabled {
		return nil
	}

	return oteladapters.NewTracingCollector(otel.Tracer(cfg.TracerName))
}
