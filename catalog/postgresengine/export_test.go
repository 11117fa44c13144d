package postgresengine

import (
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

// NewEngineWithAdapter builds an Engine on any adapter, so tests can run it without a database.
func NewEngineWithAdapter(db adapters.DBAdapter, options ...Option) (Engine, error) {
	return newEngine(db, options...)
}

var (
	MapDriverError  = mapDriverError
	ContainsPattern = containsPattern
	ISBNKey         = isbnKey
)
