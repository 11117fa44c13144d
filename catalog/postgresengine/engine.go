package postgresengine

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

const (
	defaultBookTableName = "book"
	defaultCardTableName = "bibliographic_card"
	dialectPostgres      = "postgres"
)

// Engine is the PostgreSQL implementation of the catalog storage contracts.
// It opens TransactionScopes and hands out the Book and card record stores.
// An Engine holds read-only configuration only and is safe for concurrent use.
type Engine struct {
	db               adapters.DBAdapter
	dialect          goqu.DialectWrapper
	bookTableName    string
	cardTableName    string
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
	metricsCollector catalog.MetricsCollector
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, catalog.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, catalog.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, catalog.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (Engine, error) {
	e := Engine{
		db:            db,
		dialect:       goqu.Dialect(dialectPostgres),
		bookTableName: defaultBookTableName,
		cardTableName: defaultCardTableName,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Engine{}, err
		}
	}

	return e, nil
}

// OpenScope acquires a dedicated connection and wraps it in a new TransactionScope.
// The scope starts in state ScopeCreated; statements run through it are auto-committed until Start.
func (e Engine) OpenScope(ctx context.Context) (catalog.Scope, error) {
	scope, err := e.openScope(ctx)
	if err != nil {
		return nil, err
	}

	return scope, nil
}

// Books returns the Book record store.
func (e Engine) Books() BookStore {
	return BookStore{engine: e}
}

// Cards returns the BibliographicCard record store.
func (e Engine) Cards() CardStore {
	return CardStore{engine: e}
}

func (e Engine) openScope(ctx context.Context) (*TransactionScope, error) {
	conn, err := e.db.Acquire(ctx)
	if err != nil {
		e.logError(ctx, logMsgAcquireFailed, err)
		e.recordError(operationAcquire, errorTypeConnection)

		return nil, catalog.NewError(catalog.KindConnection, "", operationAcquire, "could not acquire a database connection", err)
	}

	return newTransactionScope(e, conn), nil
}

// withExecutor runs fn on the executor of the scope carried by ctx.
// Without a scope, fn runs on a throwaway connection in auto-commit mode that is released before returning.
func (e Engine) withExecutor(ctx context.Context, fn func(exec adapters.Executor) error) error {
	if scope, ok := catalog.ScopeFromContext(ctx); ok {
		ts, isOurs := scope.(*TransactionScope)
		if !isOurs {
			return catalog.NewError(catalog.KindTransaction, "", "", "scope was not opened by this engine", nil)
		}

		exec, err := ts.executor()
		if err != nil {
			return err
		}

		return fn(exec)
	}

	ts, err := e.openScope(ctx)
	if err != nil {
		return err
	}
	defer ts.Close(ctx)

	exec, err := ts.executor()
	if err != nil {
		return err
	}

	return fn(exec)
}

var (
	_ catalog.ScopeOpener = Engine{}
	_ catalog.Scope       = (*TransactionScope)(nil)
	_ catalog.BookStore   = BookStore{}
	_ catalog.CardStore   = CardStore{}
)
