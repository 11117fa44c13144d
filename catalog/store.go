package catalog

import "context"

// Every store method runs inside the Scope carried by ctx (see ContextWithScope).
// Without one, the call acquires its own connection, runs a single auto-committed
// statement, and releases the connection before returning.

// BookReader is the read side of the Book store used by validation.
type BookReader interface {
	// GetByID returns false, not an error, for missing or soft-deleted rows.
	GetByID(ctx context.Context, id int64) (Book, bool, error)
}

// CardReader is the read side of the card store used by validation.
type CardReader interface {
	GetByID(ctx context.Context, id int64) (BibliographicCard, bool, error)
	ExistsISBN(ctx context.Context, isbn string) (bool, error)
	ExistsISBNExceptID(ctx context.Context, isbn string, excludeID int64) (bool, error)
}

// BookStore persists Books. Soft-deleted rows are invisible to every method.
type BookStore interface {
	BookReader

	// Insert stores a Book with an unassigned ID, sets book.ID, and returns it.
	Insert(ctx context.Context, book *Book) (int64, error)

	// Update replaces all fields of the active row with book.ID.
	// It fails with ErrNotFound when no active row was affected.
	Update(ctx context.Context, book *Book) error

	// SoftDelete flags the active row as deleted. Fails with ErrNotFound when none was affected.
	SoftDelete(ctx context.Context, id int64) error

	// GetAll returns a snapshot of all active rows.
	GetAll(ctx context.Context) ([]Book, error)

	Find(ctx context.Context, filter BookFilter) ([]Book, error)
}

// CardStore persists BibliographicCards with the same semantics as BookStore.
type CardStore interface {
	CardReader

	Insert(ctx context.Context, card *BibliographicCard) (int64, error)
	Update(ctx context.Context, card *BibliographicCard) error
	SoftDelete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]BibliographicCard, error)
}
