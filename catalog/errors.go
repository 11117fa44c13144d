package catalog

import (
	"errors"
	"strings"
)

// ErrorKind discriminates the closed set of failures the catalog reports.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindConflict    ErrorKind = "conflict"
	KindNotFound    ErrorKind = "not_found"
	KindConnection  ErrorKind = "connection"
	KindPersistence ErrorKind = "persistence"
	KindTransaction ErrorKind = "transaction"
)

const (
	EntityBook = "book"
	EntityCard = "bibliographic_card"
)

// Sentinels to be used with errors.Is. They match any *Error of the same kind.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrConflict    = &Error{Kind: KindConflict}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConnection  = &Error{Kind: KindConnection}
	ErrPersistence = &Error{Kind: KindPersistence}
	ErrTransaction = &Error{Kind: KindTransaction}
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyTableName        = errors.New("empty table name supplied")
	ErrNilStore              = errors.New("record store must not be nil")
	ErrNilScopeOpener        = errors.New("scope opener must not be nil")
	ErrNilClock              = errors.New("clock must not be nil")
)

// Error is the typed failure returned by every catalog operation.
// Entity and Op are empty for the package sentinels.
type Error struct {
	Kind    ErrorKind
	Entity  string
	Op      string
	Message string
	Err     error
}

// NewError builds an *Error. The cause may be nil.
func NewError(kind ErrorKind, entity, op, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Entity:  entity,
		Op:      op,
		Message: message,
		Err:     cause,
	}
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))
	b.WriteString(" error")

	if e.Entity != "" || e.Op != "" {
		b.WriteString(" [")
		b.WriteString(e.Entity)
		if e.Entity != "" && e.Op != "" {
			b.WriteString(" ")
		}
		b.WriteString(e.Op)
		b.WriteString("]")
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	if t.Entity != "" || t.Op != "" || t.Message != "" || t.Err != nil {
		return false
	}

	return e.Kind == t.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or the empty kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

func validationError(entity, op, message string) error {
	return NewError(KindValidation, entity, op, message, nil)
}

func notFoundError(entity, op, message string) error {
	return NewError(KindNotFound, entity, op, message, nil)
}

func conflictError(entity, op, message string) error {
	return NewError(KindConflict, entity, op, message, nil)
}

func transactionError(op string, cause error) error {
	return NewError(KindTransaction, "", op, "composite operation rolled back", cause)
}
