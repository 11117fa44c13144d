package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/library-catalog-go/catalog"
	. "github.com/AntonStoeckl/library-catalog-go/testutil/postgresengine/helper"
	. "github.com/AntonStoeckl/library-catalog-go/testutil/postgresengine/helper/postgreswrapper"
)

func Test_BookStore_InsertThenGetByID_RoundTrip(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()
	cards := wrapper.GetEngine().Cards()

	// arrange
	CleanUp(t, wrapper)
	card := GivenCardWasInserted(t, ctxWithTimeout, cards, FixtureCard(GivenUniqueISBN13()))
	book := FixtureBook().WithCardRef(card.ID)

	// act
	id, err := books.Insert(ctxWithTimeout, &book)

	// assert
	require.NoError(t, err)
	assert.Positive(t, id)

	stored, found, err := books.GetByID(ctxWithTimeout, id)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, book, stored)
}

func Test_BookStore_AbsentOptionalFieldsRoundTripAsNull(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := BuildBook("THE HOBBIT", "J. R. R. TOLKIEN")

	// act
	id, err := books.Insert(ctxWithTimeout, &book)

	// assert
	require.NoError(t, err)
	stored, _, err := books.GetByID(ctxWithTimeout, id)
	assert.NoError(t, err)
	assert.False(t, stored.Publisher.IsPresent())
	assert.False(t, stored.EditionYear.IsPresent())
	assert.False(t, stored.CardRef.IsPresent())
}

func Test_BookStore_InsertRejectsPresetID(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := FixtureBook()
	book.ID = 12

	// act
	_, err := books.Insert(ctxWithTimeout, &book)

	// assert
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, CountBookRows(t, wrapper))
}

func Test_BookStore_SoftDeleteTwice_FailsWithNotFound(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := GivenBookWasInserted(t, ctxWithTimeout, books, FixtureBook())

	// act
	firstErr := books.SoftDelete(ctxWithTimeout, book.ID)
	secondErr := books.SoftDelete(ctxWithTimeout, book.ID)

	// assert
	assert.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, ErrNotFound)
	assert.True(t, IsRowSoftDeleted(t, wrapper, "book", book.ID), "the row should be flagged, not removed")

	_, found, err := books.GetByID(ctxWithTimeout, book.ID)
	assert.NoError(t, err)
	assert.False(t, found)
}

func Test_BookStore_SoftDeleteUnknownID_FailsWithNotFound(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	GivenBookWasInserted(t, ctxWithTimeout, books, FixtureBook())

	// act
	err := books.SoftDelete(ctxWithTimeout, 9999)

	// assert
	assert.ErrorIs(t, err, ErrNotFound)
	all, _ := books.GetAll(ctxWithTimeout)
	assert.Len(t, all, 1, "no row should be affected")
}

func Test_BookStore_UpdateReplacesAllFields(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := GivenBookWasInserted(t, ctxWithTimeout, books, FixtureBook())
	book.Title = "LEARNING DDD"
	book.Publisher = None[string]()
	book.EditionYear = Some(2022)

	// act
	err := books.Update(ctxWithTimeout, &book)

	// assert
	assert.NoError(t, err)
	stored, _, _ := books.GetByID(ctxWithTimeout, book.ID)
	assert.Equal(t, book, stored)
}

func Test_BookStore_UpdateSoftDeletedBook_FailsWithNotFound(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := GivenBookWasInserted(t, ctxWithTimeout, books, FixtureBook())
	GivenBookWasSoftDeleted(t, ctxWithTimeout, books, book.ID)
	book.Title = "RESURRECTED"

	// act
	err := books.Update(ctxWithTimeout, &book)

	// assert
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_BookStore_GetAllExcludesSoftDeleted(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	inserted := GivenBooksWereInserted(t, ctxWithTimeout, books, 3)
	GivenBookWasSoftDeleted(t, ctxWithTimeout, books, inserted[0].ID)

	// act
	all, err := books.GetAll(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	require.Len(t, all, 2)
	for _, book := range all {
		assert.False(t, book.Deleted)
	}
	assert.Equal(t, inserted[1].ID, all[0].ID, "rows should be ordered by id")
}

func Test_BookStore_ReferenceToMissingCard_FailsWithNotFound(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()

	// arrange
	CleanUp(t, wrapper)
	book := FixtureBook().WithCardRef(424242)

	// act
	_, err := books.Insert(ctxWithTimeout, &book)

	// assert
	assert.ErrorIs(t, err, ErrNotFound, "the foreign key violation should be mapped")
	assert.Zero(t, book.ID)
}

func Test_BookStore_Find(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	books := wrapper.GetEngine().Books()
	cards := wrapper.GetEngine().Cards()

	// arrange
	CleanUp(t, wrapper)
	german := GivenCardWasInserted(t, ctxWithTimeout, cards, FixtureCard(GivenUniqueISBN13()).WithLanguage("GERMAN"))
	deletedCard := GivenCardWasInserted(t, ctxWithTimeout, cards, FixtureCard(GivenUniqueISBN13()).WithLanguage("GERMAN"))
	kafka := GivenBookWasInserted(t, ctxWithTimeout, books,
		BuildBook("DIE VERWANDLUNG", "FRANZ KAFKA").WithPublisher("KURT WOLFF").WithEditionYear(1915).WithCardRef(german.ID))
	GivenBookWasInserted(t, ctxWithTimeout, books,
		BuildBook("DER PROCESS", "FRANZ KAFKA").WithEditionYear(1925).WithCardRef(deletedCard.ID))
	GivenBookWasInserted(t, ctxWithTimeout, books, BuildBook("100% PURE", "ANONYMOUS"))
	GivenCardWasSoftDeleted(t, ctxWithTimeout, cards, deletedCard.ID)

	testCases := []struct {
		name     string
		filter   BookFilter
		expected int
	}{
		{name: "no constraint", filter: BookFilter{}, expected: 3},
		{name: "partial title", filter: BookFilter{Title: Some("verwand")}, expected: 1},
		{name: "author", filter: BookFilter{Author: Some("Kafka")}, expected: 2},
		{name: "publisher", filter: BookFilter{Publisher: Some("WOLFF")}, expected: 1},
		{name: "edition year", filter: BookFilter{EditionYear: Some(1925)}, expected: 1},
		{name: "language ignores soft-deleted cards", filter: BookFilter{Language: Some("german")}, expected: 1},
		{name: "combined", filter: BookFilter{Author: Some("KAFKA"), EditionYear: Some(1915)}, expected: 1},
		{name: "percent sign is literal", filter: BookFilter{Title: Some("0% P")}, expected: 1},
		{name: "underscore is literal", filter: BookFilter{Title: Some("_")}, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			found, err := books.Find(ctxWithTimeout, tc.filter)

			// assert
			assert.NoError(t, err)
			assert.Len(t, found, tc.expected)
		})
	}

	byLanguage, _ := books.Find(ctxWithTimeout, BookFilter{Language: Some("GERMAN")})
	require.Len(t, byLanguage, 1)
	assert.Equal(t, kafka.ID, byLanguage[0].ID)
}
