package catalog_test

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	. "github.com/AntonStoeckl/library-catalog-go/catalog"
)

// memState is one consistent snapshot of both tables.
type memState struct {
	books      map[int64]Book
	cards      map[int64]BibliographicCard
	nextBookID int64
	nextCardID int64
}

func (s *memState) clone() *memState {
	return &memState{
		books:      maps.Clone(s.books),
		cards:      maps.Clone(s.cards),
		nextBookID: s.nextBookID,
		nextCardID: s.nextCardID,
	}
}

// memDB is an in-memory stand-in for the database. Scopes work on a private copy of the
// committed state, which replaces it on commit.
type memDB struct {
	committed *memState
	scopes    []*memScope

	openErr       error
	startErr      error
	commitErr     error
	bookInsertErr error
	cardUpdateErr error
	bookUpdateErr error
}

func newMemDB() *memDB {
	return &memDB{
		committed: &memState{
			books: map[int64]Book{},
			cards: map[int64]BibliographicCard{},
		},
	}
}

func (db *memDB) OpenScope(_ context.Context) (Scope, error) {
	if db.openErr != nil {
		return nil, db.openErr
	}

	scope := &memScope{db: db}
	db.scopes = append(db.scopes, scope)

	return scope, nil
}

func (db *memDB) state(ctx context.Context) *memState {
	if scope, ok := ScopeFromContext(ctx); ok {
		if ms, isMem := scope.(*memScope); isMem && ms.working != nil {
			return ms.working
		}
	}

	return db.committed
}

func (db *memDB) books() *memBookStore {
	return &memBookStore{db: db}
}

func (db *memDB) cards() *memCardStore {
	return &memCardStore{db: db}
}

func (db *memDB) activeBookCount() int {
	count := 0
	for _, b := range db.committed.books {
		if !b.Deleted {
			count++
		}
	}

	return count
}

func (db *memDB) activeCardCount() int {
	count := 0
	for _, c := range db.committed.cards {
		if !c.Deleted {
			count++
		}
	}

	return count
}

type memScope struct {
	db         *memDB
	working    *memState
	started    bool
	committed  bool
	rolledBack bool
	closeCalls int
}

func (s *memScope) Start(_ context.Context) error {
	if s.db.startErr != nil {
		return s.db.startErr
	}

	s.started = true
	s.working = s.db.committed.clone()

	return nil
}

func (s *memScope) Commit(_ context.Context) error {
	if s.working == nil {
		return errors.New("scope not active")
	}

	if s.db.commitErr != nil {
		s.working = nil
		s.rolledBack = true

		return s.db.commitErr
	}

	s.db.committed = s.working
	s.working = nil
	s.committed = true

	return nil
}

func (s *memScope) Rollback(_ context.Context) {
	if s.working == nil {
		return
	}

	s.working = nil
	s.rolledBack = true
}

func (s *memScope) Close(ctx context.Context) {
	s.Rollback(ctx)
	s.closeCalls++
}

type memBookStore struct {
	db *memDB
}

func (s *memBookStore) Insert(ctx context.Context, book *Book) (int64, error) {
	if s.db.bookInsertErr != nil {
		return 0, s.db.bookInsertErr
	}

	st := s.db.state(ctx)
	st.nextBookID++
	book.ID = st.nextBookID
	book.Deleted = false
	st.books[book.ID] = *book

	return book.ID, nil
}

func (s *memBookStore) Update(ctx context.Context, book *Book) error {
	if s.db.bookUpdateErr != nil {
		return s.db.bookUpdateErr
	}

	st := s.db.state(ctx)
	current, ok := st.books[book.ID]
	if !ok || current.Deleted {
		return NewError(KindNotFound, EntityBook, "update", "no active row with this id", nil)
	}

	st.books[book.ID] = *book

	return nil
}

func (s *memBookStore) SoftDelete(ctx context.Context, id int64) error {
	st := s.db.state(ctx)
	current, ok := st.books[id]
	if !ok || current.Deleted {
		return NewError(KindNotFound, EntityBook, "soft_delete", "no active row with this id", nil)
	}

	current.Deleted = true
	st.books[id] = current

	return nil
}

func (s *memBookStore) GetByID(ctx context.Context, id int64) (Book, bool, error) {
	book, ok := s.db.state(ctx).books[id]
	if !ok || book.Deleted {
		return Book{}, false, nil
	}

	return book, true, nil
}

func (s *memBookStore) GetAll(ctx context.Context) ([]Book, error) {
	return s.Find(ctx, BookFilter{})
}

func (s *memBookStore) Find(ctx context.Context, filter BookFilter) ([]Book, error) {
	st := s.db.state(ctx)
	result := make([]Book, 0)

	for _, id := range slices.Sorted(maps.Keys(st.books)) {
		book := st.books[id]
		if book.Deleted || !matches(st, book, filter) {
			continue
		}

		result = append(result, book)
	}

	return result, nil
}

func matches(st *memState, book Book, filter BookFilter) bool {
	contains := func(have Optional[string], want Optional[string]) bool {
		w, ok := want.Get()
		if !ok {
			return true
		}

		h, present := have.Get()

		return present && strings.Contains(strings.ToUpper(h), strings.ToUpper(w))
	}

	if !contains(Some(book.Title), filter.Title) ||
		!contains(Some(book.Author), filter.Author) ||
		!contains(book.Publisher, filter.Publisher) {
		return false
	}

	if year, ok := filter.EditionYear.Get(); ok && book.EditionYear.OrElse(0) != year {
		return false
	}

	if language, ok := filter.Language.Get(); ok {
		cardID, hasCard := book.CardRef.Get()
		card, found := st.cards[cardID]
		if !hasCard || !found || card.Deleted || !strings.EqualFold(card.Language.OrElse(""), language) {
			return false
		}
	}

	return true
}

type memCardStore struct {
	db *memDB
}

func (s *memCardStore) Insert(ctx context.Context, card *BibliographicCard) (int64, error) {
	st := s.db.state(ctx)
	st.nextCardID++
	card.ID = st.nextCardID
	card.Deleted = false
	st.cards[card.ID] = *card

	return card.ID, nil
}

func (s *memCardStore) Update(ctx context.Context, card *BibliographicCard) error {
	if s.db.cardUpdateErr != nil {
		return s.db.cardUpdateErr
	}

	st := s.db.state(ctx)
	current, ok := st.cards[card.ID]
	if !ok || current.Deleted {
		return NewError(KindNotFound, EntityCard, "update", "no active row with this id", nil)
	}

	st.cards[card.ID] = *card

	return nil
}

func (s *memCardStore) SoftDelete(ctx context.Context, id int64) error {
	st := s.db.state(ctx)
	current, ok := st.cards[id]
	if !ok || current.Deleted {
		return NewError(KindNotFound, EntityCard, "soft_delete", "no active row with this id", nil)
	}

	current.Deleted = true
	st.cards[id] = current

	return nil
}

func (s *memCardStore) GetByID(ctx context.Context, id int64) (BibliographicCard, bool, error) {
	card, ok := s.db.state(ctx).cards[id]
	if !ok || card.Deleted {
		return BibliographicCard{}, false, nil
	}

	return card, true, nil
}

func (s *memCardStore) GetAll(ctx context.Context) ([]BibliographicCard, error) {
	st := s.db.state(ctx)
	result := make([]BibliographicCard, 0)

	for _, id := range slices.Sorted(maps.Keys(st.cards)) {
		if card := st.cards[id]; !card.Deleted {
			result = append(result, card)
		}
	}

	return result, nil
}

func (s *memCardStore) ExistsISBN(ctx context.Context, isbn string) (bool, error) {
	return s.ExistsISBNExceptID(ctx, isbn, 0)
}

func (s *memCardStore) ExistsISBNExceptID(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	for id, card := range s.db.state(ctx).cards {
		if id == excludeID || card.Deleted {
			continue
		}

		if stored, ok := card.ISBN.Get(); ok && strings.ReplaceAll(stored, "-", "") == isbn {
			return true, nil
		}
	}

	return false, nil
}
