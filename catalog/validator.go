package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	opValidateInsert = "validate insert"
	opValidateUpdate = "validate update"
)

var isbnDigits = regexp.MustCompile(`^(\d{10}|\d{13})$`)

// Validator normalizes entities in place and checks them before they are written.
//
// The checks run in a fixed order: normalize, required fields, lengths, ISBN format,
// ISBN uniqueness, edition year range, existence (update only), card reference.
// Lookups use the caller's context, so inside a Scope they see its uncommitted writes.
type Validator struct {
	books BookReader
	cards CardReader
	now   func() time.Time
}

// ValidatorOption defines a functional option for configuring Validator.
type ValidatorOption func(*Validator) error

// WithClock replaces the clock used to determine the current year.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) error {
		if now == nil {
			return ErrNilClock
		}

		v.now = now

		return nil
	}
}

// NewValidator creates a Validator backed by the given readers.
func NewValidator(books BookReader, cards CardReader, options ...ValidatorOption) (Validator, error) {
	if books == nil || cards == nil {
		return Validator{}, ErrNilStore
	}

	v := Validator{
		books: books,
		cards: cards,
		now:   time.Now,
	}

	for _, option := range options {
		if err := option(&v); err != nil {
			return Validator{}, err
		}
	}

	return v, nil
}

// ValidateBookForInsert normalizes book and checks it can be inserted.
func (v Validator) ValidateBookForInsert(ctx context.Context, book *Book) error {
	if book == nil {
		return validationError(EntityBook, opValidateInsert, "book is required")
	}

	if book.ID != 0 {
		return validationError(EntityBook, opValidateInsert, "id is assigned by the store and must not be set")
	}

	return v.validateBook(ctx, book, opValidateInsert)
}

// ValidateBookForUpdate normalizes book and checks it can replace the stored row.
func (v Validator) ValidateBookForUpdate(ctx context.Context, book *Book) error {
	if book == nil {
		return validationError(EntityBook, opValidateUpdate, "book is required")
	}

	return v.validateBook(ctx, book, opValidateUpdate)
}

// ValidateCardForInsert normalizes card and checks it can be inserted.
func (v Validator) ValidateCardForInsert(ctx context.Context, card *BibliographicCard) error {
	if card == nil {
		return validationError(EntityCard, opValidateInsert, "card is required")
	}

	if card.ID != 0 {
		return validationError(EntityCard, opValidateInsert, "id is assigned by the store and must not be set")
	}

	return v.validateCard(ctx, card, opValidateInsert)
}

// ValidateCardForUpdate normalizes card and checks it can replace the stored row.
func (v Validator) ValidateCardForUpdate(ctx context.Context, card *BibliographicCard) error {
	if card == nil {
		return validationError(EntityCard, opValidateUpdate, "card is required")
	}

	return v.validateCard(ctx, card, opValidateUpdate)
}

func (v Validator) validateBook(ctx context.Context, book *Book, op string) error {
	book.Title = NormalizeText(book.Title)
	book.Author = NormalizeText(book.Author)
	book.Publisher = normalizeOptional(book.Publisher)

	if book.Title == "" {
		return validationError(EntityBook, op, "title is required")
	}

	if book.Author == "" {
		return validationError(EntityBook, op, "author is required")
	}

	if err := checkLength(EntityBook, op, "title", book.Title, MaxTitleLength); err != nil {
		return err
	}

	if err := checkLength(EntityBook, op, "author", book.Author, MaxAuthorLength); err != nil {
		return err
	}

	if publisher, ok := book.Publisher.Get(); ok {
		if err := checkLength(EntityBook, op, "publisher", publisher, MaxPublisherLength); err != nil {
			return err
		}
	}

	if year, ok := book.EditionYear.Get(); ok {
		if err := v.CheckEditionYear(year); err != nil {
			return withOp(err, op)
		}
	}

	if op == opValidateUpdate {
		if err := v.checkBookExists(ctx, book.ID, op); err != nil {
			return err
		}
	}

	if cardID, ok := book.CardRef.Get(); ok {
		if cardID <= 0 {
			return validationError(EntityBook, op, "card reference must be a positive id")
		}

		_, found, err := v.cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		if !found {
			return notFoundError(EntityBook, op, fmt.Sprintf("referenced card %d does not exist", cardID))
		}
	}

	return nil
}

func (v Validator) validateCard(ctx context.Context, card *BibliographicCard, op string) error {
	card.ISBN = normalizeOptional(card.ISBN)
	card.DeweyClass = normalizeOptional(card.DeweyClass)
	card.ShelfLocation = normalizeOptional(card.ShelfLocation)
	card.Language = normalizeOptional(card.Language)

	lengthChecks := []struct {
		field string
		value Optional[string]
		max   int
	}{
		{field: "dewey class", value: card.DeweyClass, max: MaxDeweyClassLength},
		{field: "shelf location", value: card.ShelfLocation, max: MaxShelfLocationLength},
		{field: "language", value: card.Language, max: MaxLanguageLength},
	}

	for _, lc := range lengthChecks {
		if value, ok := lc.value.Get(); ok {
			if err := checkLength(EntityCard, op, lc.field, value, lc.max); err != nil {
				return err
			}
		}
	}

	if isbn, ok := card.ISBN.Get(); ok {
		canonical, err := CanonicalISBN(isbn)
		if err != nil {
			return withOp(err, op)
		}

		card.ISBN = Some(canonical)

		var exists bool
		if op == opValidateInsert {
			exists, err = v.cards.ExistsISBN(ctx, canonical)
		} else {
			exists, err = v.cards.ExistsISBNExceptID(ctx, canonical, card.ID)
		}

		if err != nil {
			return err
		}

		if exists {
			return conflictError(EntityCard, op, fmt.Sprintf("isbn %s is already registered", canonical))
		}
	}

	if op == opValidateUpdate {
		if err := v.checkCardExists(ctx, card.ID, op); err != nil {
			return err
		}
	}

	return nil
}

// CheckEditionYear reports a validation error unless MinEditionYear <= year <= current year.
func (v Validator) CheckEditionYear(year int) error {
	currentYear := v.now().Year()
	if year < MinEditionYear || year > currentYear {
		return validationError(
			EntityBook,
			"",
			fmt.Sprintf("edition year must be between %d and %d", MinEditionYear, currentYear),
		)
	}

	return nil
}

func (v Validator) checkBookExists(ctx context.Context, id int64, op string) error {
	if id <= 0 {
		return validationError(EntityBook, op, "id must be positive")
	}

	_, found, err := v.books.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !found {
		return notFoundError(EntityBook, op, fmt.Sprintf("book %d does not exist", id))
	}

	return nil
}

func (v Validator) checkCardExists(ctx context.Context, id int64, op string) error {
	if id <= 0 {
		return validationError(EntityCard, op, "id must be positive")
	}

	_, found, err := v.cards.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !found {
		return notFoundError(EntityCard, op, fmt.Sprintf("card %d does not exist", id))
	}

	return nil
}

// NormalizeText trims surrounding whitespace and upper-cases s.
func NormalizeText(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CanonicalISBN upper-cases and trims isbn, checks its format, and returns it without hyphens.
func CanonicalISBN(isbn string) (string, error) {
	isbn = NormalizeText(isbn)

	if utf8.RuneCountInString(isbn) > MaxISBNLength {
		return "", validationError(
			EntityCard,
			"",
			fmt.Sprintf("isbn must not exceed %d characters including hyphens", MaxISBNLength),
		)
	}

	digits := strings.ReplaceAll(isbn, "-", "")
	if !isbnDigits.MatchString(digits) {
		return "", validationError(EntityCard, "", "isbn must consist of 10 or 13 digits, hyphens allowed")
	}

	return digits, nil
}

// normalizeOptional maps a present value that is blank after trimming to absent.
func normalizeOptional(o Optional[string]) Optional[string] {
	value, ok := o.Get()
	if !ok {
		return o
	}

	value = NormalizeText(value)
	if value == "" {
		return None[string]()
	}

	return Some(value)
}

func checkLength(entity, op, field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return validationError(entity, op, fmt.Sprintf("%s must not exceed %d characters", field, limit))
	}

	return nil
}

func withOp(err error, op string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	scoped := *e
	scoped.Op = op

	return &scoped
}
