package postgresengine

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

const (
	colISBN          = "isbn"
	colDeweyClass    = "dewey_class"
	colShelfLocation = "shelf_location"
	colLanguage      = "language"
	aliasCount       = "cnt"
)

var cardColumns = []any{colID, colISBN, colDeweyClass, colShelfLocation, colLanguage, colDeleted}

// CardStore is the PostgreSQL record store for catalog.BibliographicCard.
// Every method honors the catalog.Scope carried by ctx and filters out soft-deleted rows.
type CardStore struct {
	engine Engine
}

// Insert stores card, sets card.ID to the generated id, and returns it.
func (s CardStore) Insert(ctx context.Context, card *catalog.BibliographicCard) (int64, error) {
	if card == nil {
		return 0, catalog.NewError(catalog.KindValidation, catalog.EntityCard, operationInsert, "card is required", nil)
	}

	if card.ID != 0 {
		return 0, catalog.NewError(catalog.KindValidation, catalog.EntityCard, operationInsert, "id must not be set before insert", nil)
	}

	sqlQuery, args, buildErr := s.engine.dialect.
		Insert(s.engine.cardTableName).
		Prepared(true).
		Rows(cardRecord(card, true)).
		Returning(colID).
		ToSQL()
	if buildErr != nil {
		return 0, s.engine.buildFailed(ctx, catalog.EntityCard, operationInsert, buildErr)
	}

	var id int64
	err := s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		var insertErr error
		id, insertErr = s.engine.insertReturningID(ctx, exec, catalog.EntityCard, s.engine.cardTableName, sqlQuery, args)

		return insertErr
	})
	if err != nil {
		return 0, err
	}

	card.ID = id
	card.Deleted = false

	return id, nil
}

// Update replaces all fields of the active row with card.ID.
func (s CardStore) Update(ctx context.Context, card *catalog.BibliographicCard) error {
	if card == nil || card.ID <= 0 {
		return catalog.NewError(catalog.KindValidation, catalog.EntityCard, operationUpdate, "a positive id is required", nil)
	}

	sqlQuery, args, buildErr := s.engine.dialect.
		Update(s.engine.cardTableName).
		Prepared(true).
		Set(cardRecord(card, false)).
		Where(s.activeWithID(card.ID)...).
		ToSQL()
	if buildErr != nil {
		return s.engine.buildFailed(ctx, catalog.EntityCard, operationUpdate, buildErr)
	}

	return s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		rowsAffected, err := s.engine.execStatement(ctx, exec, catalog.EntityCard, operationUpdate, sqlQuery, args)
		if err != nil {
			return err
		}

		return s.engine.expectAffected(ctx, catalog.EntityCard, operationUpdate, s.engine.cardTableName, card.ID, rowsAffected)
	})
}

// SoftDelete flags the active row with id as deleted. Its ISBN becomes available again.
func (s CardStore) SoftDelete(ctx context.Context, id int64) error {
	sqlQuery, args, buildErr := s.engine.dialect.
		Update(s.engine.cardTableName).
		Prepared(true).
		Set(goqu.Record{colDeleted: true}).
		Where(s.activeWithID(id)...).
		ToSQL()
	if buildErr != nil {
		return s.engine.buildFailed(ctx, catalog.EntityCard, operationSoftDelete, buildErr)
	}

	return s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		rowsAffected, err := s.engine.execStatement(ctx, exec, catalog.EntityCard, operationSoftDelete, sqlQuery, args)
		if err != nil {
			return err
		}

		return s.engine.expectAffected(ctx, catalog.EntityCard, operationSoftDelete, s.engine.cardTableName, id, rowsAffected)
	})
}

// GetByID returns the active card with id, or false if there is none.
func (s CardStore) GetByID(ctx context.Context, id int64) (catalog.BibliographicCard, bool, error) {
	cards, err := s.selectCards(ctx, operationGetByID, s.selectActive().Where(goqu.C(colID).Eq(id)))
	if err != nil || len(cards) == 0 {
		return catalog.BibliographicCard{}, false, err
	}

	return cards[0], true, nil
}

// GetAll returns all active cards ordered by id.
func (s CardStore) GetAll(ctx context.Context) ([]catalog.BibliographicCard, error) {
	return s.selectCards(ctx, operationGetAll, s.selectActive())
}

// ExistsISBN reports whether an active card carries isbn. Hyphens and case are ignored.
func (s CardStore) ExistsISBN(ctx context.Context, isbn string) (bool, error) {
	return s.countISBN(ctx, goqu.C(colISBN).Eq(isbnKey(isbn)))
}

// ExistsISBNExceptID is ExistsISBN ignoring the card with excludeID.
func (s CardStore) ExistsISBNExceptID(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	return s.countISBN(ctx, goqu.C(colISBN).Eq(isbnKey(isbn)), goqu.C(colID).Neq(excludeID))
}

func (s CardStore) countISBN(ctx context.Context, conditions ...exp.Expression) (bool, error) {
	sqlQuery, args, buildErr := s.engine.dialect.
		From(s.engine.cardTableName).
		Prepared(true).
		Select(goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(goqu.C(colDeleted).IsFalse()).
		Where(conditions...).
		ToSQL()
	if buildErr != nil {
		return false, s.engine.buildFailed(ctx, catalog.EntityCard, operationExistsISBN, buildErr)
	}

	var count int64
	err := s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		return s.engine.queryRows(ctx, exec, catalog.EntityCard, operationExistsISBN, sqlQuery, args, func(rows adapters.DBRows) error {
			return rows.Scan(&count)
		})
	})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s CardStore) activeWithID(id int64) []exp.Expression {
	return []exp.Expression{
		goqu.C(colID).Eq(id),
		goqu.C(colDeleted).IsFalse(),
	}
}

func (s CardStore) selectActive() *goqu.SelectDataset {
	return s.engine.dialect.
		From(s.engine.cardTableName).
		Prepared(true).
		Select(cardColumns...).
		Where(goqu.C(colDeleted).IsFalse()).
		Order(goqu.C(colID).Asc())
}

func (s CardStore) selectCards(
	ctx context.Context,
	operation string,
	ds *goqu.SelectDataset,
) ([]catalog.BibliographicCard, error) {

	sqlQuery, args, buildErr := ds.ToSQL()
	if buildErr != nil {
		return nil, s.engine.buildFailed(ctx, catalog.EntityCard, operation, buildErr)
	}

	cards := make([]catalog.BibliographicCard, 0)
	err := s.engine.withExecutor(ctx, func(exec adapters.Executor) error {
		return s.engine.queryRows(ctx, exec, catalog.EntityCard, operation, sqlQuery, args, func(rows adapters.DBRows) error {
			card, scanErr := scanCard(rows)
			if scanErr != nil {
				return scanErr
			}

			cards = append(cards, card)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return cards, nil
}

func cardRecord(card *catalog.BibliographicCard, withDeletedFlag bool) goqu.Record {
	record := goqu.Record{
		colISBN:          nullable(card.ISBN),
		colDeweyClass:    nullable(card.DeweyClass),
		colShelfLocation: nullable(card.ShelfLocation),
		colLanguage:      nullable(card.Language),
	}

	if withDeletedFlag {
		record[colDeleted] = false
	}

	return record
}

func scanCard(rows adapters.DBRows) (catalog.BibliographicCard, error) {
	var (
		card                                  catalog.BibliographicCard
		isbn, deweyClass, shelfLocation, lang *string
	)

	if err := rows.Scan(&card.ID, &isbn, &deweyClass, &shelfLocation, &lang, &card.Deleted); err != nil {
		return catalog.BibliographicCard{}, err
	}

	card.ISBN = catalog.OptionalFromPtr(isbn)
	card.DeweyClass = catalog.OptionalFromPtr(deweyClass)
	card.ShelfLocation = catalog.OptionalFromPtr(shelfLocation)
	card.Language = catalog.OptionalFromPtr(lang)

	return card, nil
}

// isbnKey is the form ISBNs are compared in: trimmed, upper-cased, without hyphens.
func isbnKey(isbn string) string {
	return strings.ReplaceAll(catalog.NormalizeText(isbn), "-", "")
}
