package postgresengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

const (
	colTitle       = "title"
	colAuthor      = "author"
	colPublisher   = "publisher"
	colEditionYear = "edition_year"
	colCardID      = "card_id"
	aliasBook      = "b"
	aliasCard      = "c"
)

var bookColumns = []string{colID, colTitle, colAuthor, colPublisher, colEditionYear, colCardID, colDeleted}

// BookStore is the PostgreSQL record store for catalog.Book.
// Every method honors the catalog.Scope carried by ctx and filters out soft-deleted rows.
type BookStore struct {
	engine Engine
}

// Insert stores book, sets book.ID to the generated id, and returns it.
func (s BookStore) Insert(ctx context.Context, book *catalog.Book) (int64, error) {
	if book == nil {
		return 0, catalog.NewError(catalog.KindValidation, catalog.EntityBook, operationInsert, "book is required", nil)
	}

	if book.ID != 0 {
		return 0, catalog.NewError(catalog.KindValidation, catalog.EntityBook, operationInsert, "id must not be set before insert", nil)
	}

	sqlQuery, args, buildErr := s.engine.dialect.
		Insert(s.engine.bookTableName).
		Prepared(true).
		Rows(goqu.Record{
			colTitle:       book.Title,
			colAuthor:      book.Author,
			colPublisher:   nullable(book.Publisher),
			colEditionYear: nullable(book.EditionYear),
			colCardID:      nullable(book.CardRef),
			colDeleted:     false,
		}).
		Returning(colID).
		ToSQL()
	if buildErr != nil {
		return 0, s.engine.buildFailed(ctx, catalog.EntityBook, operationInsert, buildErr)
	}

	var id int64
	err := s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		var insertErr error
		id, insertErr = s.engine.insertReturningID(ctx, exec, catalog.EntityBook, s.engine.bookTableName, sqlQuery, args)

		return insertErr
	})
	if err != nil {
		return 0, err
	}

	book.ID = id
	book.Deleted = false

	return id, nil
}

// Update replaces all fields of the active row with book.ID.
func (s BookStore) Update(ctx context.Context, book *catalog.Book) error {
	if book == nil || book.ID <= 0 {
		return catalog.NewError(catalog.KindValidation, catalog.EntityBook, operationUpdate, "a positive id is required", nil)
	}

	sqlQuery, args, buildErr := s.engine.dialect.
		Update(s.engine.bookTableName).
		Prepared(true).
		Set(goqu.Record{
			colTitle:       book.Title,
			colAuthor:      book.Author,
			colPublisher:   nullable(book.Publisher),
			colEditionYear: nullable(book.EditionYear),
			colCardID:      nullable(book.CardRef),
		}).
		Where(
			goqu.C(colID).Eq(book.ID),
			goqu.C(colDeleted).IsFalse(),
		).
		ToSQL()
	if buildErr != nil {
		return s.engine.buildFailed(ctx, catalog.EntityBook, operationUpdate, buildErr)
	}

	return s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		rowsAffected, err := s.engine.execStatement(ctx, exec, catalog.EntityBook, operationUpdate, sqlQuery, args)
		if err != nil {
			return err
		}

		return s.engine.expectAffected(ctx, catalog.EntityBook, operationUpdate, s.engine.bookTableName, book.ID, rowsAffected)
	})
}

// SoftDelete flags the active row with id as deleted.
func (s BookStore) SoftDelete(ctx context.Context, id int64) error {
	sqlQuery, args, buildErr := s.engine.dialect.
		Update(s.engine.bookTableName).
		Prepared(true).
		Set(goqu.Record{colDeleted: true}).
		Where(
			goqu.C(colID).Eq(id),
			goqu.C(colDeleted).IsFalse(),
		).
		ToSQL()
	if buildErr != nil {
		return s.engine.buildFailed(ctx, catalog.EntityBook, operationSoftDelete, buildErr)
	}

	return s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		rowsAffected, err := s.engine.execStatement(ctx, exec, catalog.EntityBook, operationSoftDelete, sqlQuery, args)
		if err != nil {
			return err
		}

		return s.engine.expectAffected(ctx, catalog.EntityBook, operationSoftDelete, s.engine.bookTableName, id, rowsAffected)
	})
}

// GetByID returns the active Book with id, or false if there is none.
func (s BookStore) GetByID(ctx context.Context, id int64) (catalog.Book, bool, error) {
	books, err := s.selectBooks(ctx, operationGetByID, s.selectActive().Where(goqu.I(aliasBook+"."+colID).Eq(id)))
	if err != nil || len(books) == 0 {
		return catalog.Book{}, false, err
	}

	return books[0], true, nil
}

// GetAll returns all active Books ordered by id.
func (s BookStore) GetAll(ctx context.Context) ([]catalog.Book, error) {
	return s.selectBooks(ctx, operationGetAll, s.selectActive())
}

// Find returns the active Books matching all present fields of filter, ordered by id.
// A language filter only matches Books whose linked card is active.
func (s BookStore) Find(ctx context.Context, filter catalog.BookFilter) ([]catalog.Book, error) {
	ds := s.selectActive()

	if title, ok := filter.Title.Get(); ok {
		ds = ds.Where(goqu.I(aliasBook + "." + colTitle).ILike(containsPattern(title)))
	}

	if author, ok := filter.Author.Get(); ok {
		ds = ds.Where(goqu.I(aliasBook + "." + colAuthor).ILike(containsPattern(author)))
	}

	if publisher, ok := filter.Publisher.Get(); ok {
		ds = ds.Where(goqu.I(aliasBook + "." + colPublisher).ILike(containsPattern(publisher)))
	}

	if year, ok := filter.EditionYear.Get(); ok {
		ds = ds.Where(goqu.I(aliasBook + "." + colEditionYear).Eq(year))
	}

	if language, ok := filter.Language.Get(); ok {
		ds = ds.
			LeftJoin(
				goqu.T(s.engine.cardTableName).As(aliasCard),
				goqu.On(goqu.I(aliasBook+"."+colCardID).Eq(goqu.I(aliasCard+"."+colID))),
			).
			Where(
				goqu.Func("UPPER", goqu.I(aliasCard+"."+colLanguage)).Eq(catalog.NormalizeText(language)),
				goqu.I(aliasCard+"."+colDeleted).IsFalse(),
			)
	}

	return s.selectBooks(ctx, operationFind, ds)
}

func (s BookStore) selectActive() *goqu.SelectDataset {
	columns := make([]any, 0, len(bookColumns))
	for _, col := range bookColumns {
		columns = append(columns, goqu.I(aliasBook+"."+col))
	}

	return s.engine.dialect.
		From(goqu.T(s.engine.bookTableName).As(aliasBook)).
		Prepared(true).
		Select(columns...).
		Where(goqu.I(aliasBook + "." + colDeleted).IsFalse()).
		Order(goqu.I(aliasBook + "." + colID).Asc())
}

func (s BookStore) selectBooks(ctx context.Context, operation string, ds *goqu.SelectDataset) ([]catalog.Book, error) {
	sqlQuery, args, buildErr := ds.ToSQL()
	if buildErr != nil {
		return nil, s.engine.buildFailed(ctx, catalog.EntityBook, operation, buildErr)
	}

	books := make([]catalog.Book, 0)
	err := s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		return s.engine.queryRows(ctx, exec, catalog.EntityBook, operation, sqlQuery, args, func(rows adapters.DBRows) error {
			book, scanErr := scanBook(rows)
			if scanErr != nil {
				return scanErr
			}

			books = append(books, book)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

func scanBook(rows adapters.DBRows) (catalog.Book, error) {
	var (
		book        catalog.Book
		publisher   *string
		editionYear *int
		cardID      *int64
	)

	if err := rows.Scan(&book.ID, &book.Title, &book.Author, &publisher, &editionYear, &cardID, &book.Deleted); err != nil {
		return catalog.Book{}, err
	}

	book.Publisher = catalog.OptionalFromPtr(publisher)
	book.EditionYear = catalog.OptionalFromPtr(editionYear)
	book.CardRef = catalog.OptionalFromPtr(cardID)

	return book, nil
}
