package helper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-catalog-go/catalog"
)

// GivenUniqueISBN13 returns a random canonical 13-digit ISBN with the 978 prefix.
func GivenUniqueISBN13() string {
	return fmt.Sprintf("978%010d", rand.Int64N(10_000_000_000))
}

// HyphenatedISBN13 formats a canonical 13-digit ISBN the way it is printed on books.
func HyphenatedISBN13(isbn string) string {
	return isbn[0:3] + "-" + isbn[3:4] + "-" + isbn[4:7] + "-" + isbn[7:12] + "-" + isbn[12:]
}

// FixedClock returns a clock that always reports the given year.
func FixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func FixtureBook() Book {
	return BuildBook("Learning Domain-Driven Design", "Vlad Khononov").
		WithPublisher("O'Reilly Media, Inc.").
		WithEditionYear(2021)
}

func FixtureCard(isbn string) BibliographicCard {
	return BuildCard().
		WithISBN(isbn).
		WithDeweyClass("005.1").
		WithShelfLocation("A-12").
		WithLanguage("English")
}

func GivenBookWasInserted(t testing.TB, ctx context.Context, store BookStore, book Book) Book {
	_, err := store.Insert(ctx, &book)
	assert.NoError(t, err, "error in arranging test data")

	return book
}

func GivenCardWasInserted(t testing.TB, ctx context.Context, store CardStore, card BibliographicCard) BibliographicCard {
	_, err := store.Insert(ctx, &card)
	assert.NoError(t, err, "error in arranging test data")

	return card
}

// GivenBooksWereInserted inserts count copies of FixtureBook with numbered titles.
func GivenBooksWereInserted(t testing.TB, ctx context.Context, store BookStore, count int) []Book {
	books := make([]Book, 0, count)
	for i := range count {
		book := FixtureBook()
		book.Title = fmt.Sprintf("%s VOLUME %d", NormalizeText(book.Title), i+1)
		books = append(books, GivenBookWasInserted(t, ctx, store, book))
	}

	return books
}

func GivenBookWasSoftDeleted(t testing.TB, ctx context.Context, store BookStore, id int64) {
	err := store.SoftDelete(ctx, id)
	assert.NoError(t, err, "error in arranging test data")
}

func GivenCardWasSoftDeleted(t testing.TB, ctx context.Context, store CardStore, id int64) {
	err := store.SoftDelete(ctx, id)
	assert.NoError(t, err, "error in arranging test data")
}
