package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine"
	"github.com/AntonStoeckl/library-catalog-go/testutil/postgresengine/config"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const pingTimeout = 2 * time.Second

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetEngine() postgresengine.Engine
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool   *pgxpool.Pool
	engine postgresengine.Engine
}

func (e *PGXPoolWrapper) GetEngine() postgresengine.Engine {
	return e.engine
}

func (e *PGXPoolWrapper) Close() {
	e.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db     *sql.DB
	engine postgresengine.Engine
}

func (e *SQLDBWrapper) GetEngine() postgresengine.Engine {
	return e.engine
}

func (e *SQLDBWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db     *sqlx.DB
	engine postgresengine.Engine
}

func (e *SQLXWrapper) GetEngine() postgresengine.Engine {
	return e.engine
}

func (e *SQLXWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable.
// It applies all schema migrations and skips the test when the test database is unreachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()
	ctx := context.Background()

	switch adapterTypeFromEnv() {
	case typePGXPool, "":
		connPool := givenReachablePGXPool(t)

		_, err := postgresengine.MigratePGXPool(ctx, connPool)
		assert.NoError(t, err, "error migrating the test database")

		engine, err := postgresengine.NewEngineFromPGXPool(connPool, options...)
		assert.NoError(t, err, "error creating engine")

		return &PGXPoolWrapper{pool: connPool, engine: engine}

	case typeSQLDB:
		db, err := config.PostgresSQLDBTestConfig()
		if err != nil {
			t.Skipf("test database is not reachable: %v", err)
		}

		_, err = postgresengine.Migrate(ctx, db)
		assert.NoError(t, err, "error migrating the test database")

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		assert.NoError(t, err, "error creating engine")

		return &SQLDBWrapper{db: db, engine: engine}

	case typeSQLXDB:
		db, err := config.PostgresSQLXTestConfig()
		if err != nil {
			t.Skipf("test database is not reachable: %v", err)
		}

		_, err = postgresengine.Migrate(ctx, db.DB)
		assert.NoError(t, err, "error migrating the test database")

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		assert.NoError(t, err, "error creating engine")

		return &SQLXWrapper{db: db, engine: engine}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv()))
	}
}

// CleanUp empties both catalog tables and resets their id sequences.
func CleanUp(t testing.TB, wrapper Wrapper) {
	_, err := exec(wrapper, "TRUNCATE TABLE book, bibliographic_card RESTART IDENTITY CASCADE")
	assert.NoError(t, err, "error cleaning up the catalog tables")
}

// CountCardRowsWithISBN counts card rows with the given stored ISBN, soft-deleted ones included.
func CountCardRowsWithISBN(t testing.TB, wrapper Wrapper, isbn string) int {
	cnt, err := queryInt(wrapper, "SELECT count(*) FROM bibliographic_card WHERE isbn = $1", isbn)
	assert.NoError(t, err, "error counting card rows")

	return cnt
}

// CountBookRows counts all book rows, soft-deleted ones included.
func CountBookRows(t testing.TB, wrapper Wrapper) int {
	cnt, err := queryInt(wrapper, "SELECT count(*) FROM book")
	assert.NoError(t, err, "error counting book rows")

	return cnt
}

// CountCardRows counts all card rows, soft-deleted ones included.
func CountCardRows(t testing.TB, wrapper Wrapper) int {
	cnt, err := queryInt(wrapper, "SELECT count(*) FROM bibliographic_card")
	assert.NoError(t, err, "error counting card rows")

	return cnt
}

// IsRowSoftDeleted reads the deleted flag of a row directly, bypassing the store's filter.
func IsRowSoftDeleted(t testing.TB, wrapper Wrapper, table string, id int64) bool {
	deleted, err := queryInt(wrapper, fmt.Sprintf("SELECT count(*) FROM %s WHERE id = $1 AND deleted = TRUE", table), id)
	assert.NoError(t, err, "error reading the deleted flag")

	return deleted == 1
}

// InsertRawCard writes a card row without any validation or normalization.
func InsertRawCard(t testing.TB, wrapper Wrapper, isbn string) int64 {
	id, err := queryInt(wrapper, "INSERT INTO bibliographic_card (isbn, deleted) VALUES ($1, FALSE) RETURNING id", isbn)
	assert.NoError(t, err, "error in arranging test data")

	return int64(id)
}

func adapterTypeFromEnv() string {
	return strings.ToLower(os.Getenv("ADAPTER_TYPE"))
}

func givenReachablePGXPool(t testing.TB) *pgxpool.Pool {
	connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
	assert.NoError(t, err, "error connecting to DB pool in test setup")

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := connPool.Ping(ctx); pingErr != nil {
		connPool.Close()
		t.Skipf("test database is not reachable: %v", pingErr)
	}

	return connPool
}

func exec(wrapper Wrapper, query string, args ...any) (int64, error) {
	switch e := wrapper.(type) {
	case *PGXPoolWrapper:
		cmdTag, err := e.pool.Exec(context.Background(), query, args...)
		if err != nil {
			return 0, err
		}

		return cmdTag.RowsAffected(), nil

	case *SQLDBWrapper:
		result, err := e.db.Exec(query, args...)
		if err != nil {
			return 0, err
		}

		return result.RowsAffected()

	case *SQLXWrapper:
		result, err := e.db.Exec(query, args...)
		if err != nil {
			return 0, err
		}

		return result.RowsAffected()

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", e))
	}
}

func queryInt(wrapper Wrapper, query string, args ...any) (int, error) {
	var value int
	var err error

	switch e := wrapper.(type) {
	case *PGXPoolWrapper:
		row := e.pool.QueryRow(context.Background(), query, args...)
		err = row.Scan(&value)

	case *SQLDBWrapper:
		row := e.db.QueryRow(query, args...)
		err = row.Scan(&value)

	case *SQLXWrapper:
		row := e.db.QueryRow(query, args...)
		err = row.Scan(&value)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", e))
	}

	return value, err
}
