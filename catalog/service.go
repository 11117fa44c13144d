package catalog

import (
	"context"
	"fmt"
)

const (
	opInsertBook = "insert book"
	opUpdateBook = "update book"
	opDeleteBook = "delete book"
	opGetBook    = "get book"
	opFindBooks  = "find books"
	opInsertCard = "insert card"
	opUpdateCard = "update card"
	opDeleteCard = "delete card"
	opGetCard    = "get card"

	logMsgBookInserted = "book inserted"
	logMsgBookUpdated  = "book updated"
	logMsgBookDeleted  = "book deleted"
	logMsgCardInserted = "card inserted"
	logMsgCardUpdated  = "card updated"
	logMsgCardDeleted  = "card deleted"
	logMsgOpFailed     = "catalog operation failed"
)

// Service runs validated single-entity flows directly against the stores.
// Each write is one self-contained statement and needs no explicit Scope.
type Service struct {
	books     BookStore
	cards     CardStore
	validator Validator
	observer
}

// ServiceOption defines a functional option for configuring Service.
type ServiceOption func(*Service) error

// WithServiceLogger sets the logger for the Service.
func WithServiceLogger(logger Logger) ServiceOption {
	return func(s *Service) error {
		s.logger = logger
		return nil
	}
}

// WithServiceContextualLogger sets the contextual logger for the Service.
func WithServiceContextualLogger(logger ContextualLogger) ServiceOption {
	return func(s *Service) error {
		s.contextualLogger = logger
		return nil
	}
}

// NewService creates a Service. The validator should be backed by the same stores.
func NewService(books BookStore, cards CardStore, validator Validator, options ...ServiceOption) (Service, error) {
	if books == nil || cards == nil || validator.books == nil {
		return Service{}, ErrNilStore
	}

	s := Service{
		books:     books,
		cards:     cards,
		validator: validator,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Service{}, err
		}
	}

	return s, nil
}

func (s Service) InsertBook(ctx context.Context, book *Book) (int64, error) {
	if err := s.validator.ValidateBookForInsert(ctx, book); err != nil {
		return 0, s.fail(ctx, opInsertBook, err)
	}

	id, err := s.books.Insert(ctx, book)
	if err != nil {
		return 0, s.fail(ctx, opInsertBook, err)
	}

	s.info(ctx, logMsgBookInserted, logAttrBookID, id)

	return id, nil
}

func (s Service) UpdateBook(ctx context.Context, book *Book) error {
	if err := s.validator.ValidateBookForUpdate(ctx, book); err != nil {
		return s.fail(ctx, opUpdateBook, err)
	}

	if err := s.books.Update(ctx, book); err != nil {
		return s.fail(ctx, opUpdateBook, err)
	}

	s.info(ctx, logMsgBookUpdated, logAttrBookID, book.ID)

	return nil
}

func (s Service) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationError(EntityBook, opDeleteBook, "id must be positive")
	}

	if err := s.books.SoftDelete(ctx, id); err != nil {
		return s.fail(ctx, opDeleteBook, err)
	}

	s.info(ctx, logMsgBookDeleted, logAttrBookID, id)

	return nil
}

func (s Service) GetBook(ctx context.Context, id int64) (Book, bool, error) {
	if id <= 0 {
		return Book{}, false, validationError(EntityBook, opGetBook, "id must be positive")
	}

	return s.books.GetByID(ctx, id)
}

func (s Service) ListBooks(ctx context.Context) ([]Book, error) {
	return s.books.GetAll(ctx)
}

func (s Service) FindBooksByTitle(ctx context.Context, title string) ([]Book, error) {
	text, err := searchText("title", title)
	if err != nil {
		return nil, err
	}

	return s.books.Find(ctx, BookFilter{Title: Some(text)})
}

func (s Service) FindBooksByAuthor(ctx context.Context, author string) ([]Book, error) {
	text, err := searchText("author", author)
	if err != nil {
		return nil, err
	}

	return s.books.Find(ctx, BookFilter{Author: Some(text)})
}

func (s Service) FindBooksByPublisher(ctx context.Context, publisher string) ([]Book, error) {
	text, err := searchText("publisher", publisher)
	if err != nil {
		return nil, err
	}

	return s.books.Find(ctx, BookFilter{Publisher: Some(text)})
}

func (s Service) FindBooksByEditionYear(ctx context.Context, year int) ([]Book, error) {
	if err := s.validator.CheckEditionYear(year); err != nil {
		return nil, withOp(err, opFindBooks)
	}

	return s.books.Find(ctx, BookFilter{EditionYear: Some(year)})
}

func (s Service) FindBooksByLanguage(ctx context.Context, language string) ([]Book, error) {
	text, err := searchText("language", language)
	if err != nil {
		return nil, err
	}

	return s.books.Find(ctx, BookFilter{Language: Some(text)})
}

func (s Service) InsertCard(ctx context.Context, card *BibliographicCard) (int64, error) {
	if err := s.validator.ValidateCardForInsert(ctx, card); err != nil {
		return 0, s.fail(ctx, opInsertCard, err)
	}

	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		return 0, s.fail(ctx, opInsertCard, err)
	}

	s.info(ctx, logMsgCardInserted, logAttrCardID, id)

	return id, nil
}

func (s Service) UpdateCard(ctx context.Context, card *BibliographicCard) error {
	if err := s.validator.ValidateCardForUpdate(ctx, card); err != nil {
		return s.fail(ctx, opUpdateCard, err)
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return s.fail(ctx, opUpdateCard, err)
	}

	s.info(ctx, logMsgCardUpdated, logAttrCardID, card.ID)

	return nil
}

func (s Service) DeleteCard(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationError(EntityCard, opDeleteCard, "id must be positive")
	}

	if err := s.cards.SoftDelete(ctx, id); err != nil {
		return s.fail(ctx, opDeleteCard, err)
	}

	s.info(ctx, logMsgCardDeleted, logAttrCardID, id)

	return nil
}

func (s Service) GetCard(ctx context.Context, id int64) (BibliographicCard, bool, error) {
	if id <= 0 {
		return BibliographicCard{}, false, validationError(EntityCard, opGetCard, "id must be positive")
	}

	return s.cards.GetByID(ctx, id)
}

func (s Service) ListCards(ctx context.Context) ([]BibliographicCard, error) {
	return s.cards.GetAll(ctx)
}

func (s Service) fail(ctx context.Context, op string, err error) error {
	s.failure(ctx, logMsgOpFailed, err, logAttrOperation, op)
	return err
}

func searchText(field, value string) (string, error) {
	normalized := NormalizeText(value)
	if normalized == "" {
		return "", validationError(EntityBook, opFindBooks, fmt.Sprintf("%s search text must not be empty", field))
	}

	return normalized, nil
}
