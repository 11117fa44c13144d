package main

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pressly/goose/v3"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type bookView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   *string `json:"publisher,omitempty"`
	EditionYear *int    `json:"edition_year,omitempty"`
	CardID      *int64  `json:"card_id,omitempty"`
}

type cardView struct {
	ID            int64   `json:"id"`
	ISBN          *string `json:"isbn,omitempty"`
	DeweyClass    *string `json:"dewey_class,omitempty"`
	ShelfLocation *string `json:"shelf_location,omitempty"`
	Language      *string `json:"language,omitempty"`
}

type migrationView struct {
	Version   int64      `json:"version"`
	Path      string     `json:"path"`
	State     string     `json:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

func toBookView(b catalog.Book) bookView {
	return bookView{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher.Ptr(),
		EditionYear: b.EditionYear.Ptr(),
		CardID:      b.CardRef.Ptr(),
	}
}

func bookViews(books []catalog.Book) []bookView {
	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, toBookView(b))
	}

	return views
}

func toCardView(c catalog.BibliographicCard) cardView {
	return cardView{
		ID:            c.ID,
		ISBN:          c.ISBN.Ptr(),
		DeweyClass:    c.DeweyClass.Ptr(),
		ShelfLocation: c.ShelfLocation.Ptr(),
		Language:      c.Language.Ptr(),
	}
}

func cardViews(cards []catalog.BibliographicCard) []cardView {
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, toCardView(c))
	}

	return views
}

func migrationViews(statuses []*goose.MigrationStatus) []migrationView {
	views := make([]migrationView, 0, len(statuses))
	for _, s := range statuses {
		view := migrationView{State: string(s.State)}
		if s.Source != nil {
			view.Version = s.Source.Version
			view.Path = s.Source.Path
		}

		if !s.AppliedAt.IsZero() {
			appliedAt := s.AppliedAt
			view.AppliedAt = &appliedAt
		}

		views = append(views, view)
	}

	return views
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
