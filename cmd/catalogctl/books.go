package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

// cardFlags collects the optional card fields shared by add and update.
type cardFlags struct {
	isbn, dewey, shelf, language *string
}

func registerCardFlags(fs *flag.FlagSet) cardFlags {
	return cardFlags{
		isbn:     fs.String("isbn", "", "ISBN-10 or ISBN-13, hyphens allowed"),
		dewey:    fs.String("dewey", "", "Dewey decimal class"),
		shelf:    fs.String("shelf", "", "shelf location"),
		language: fs.String("language", "", "language"),
	}
}

// applyTo sets the card fields that were passed on the command line. It reports whether any was.
func (cf cardFlags) applyTo(fs *flag.FlagSet, card *catalog.BibliographicCard) bool {
	touched := false

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "isbn":
			card.ISBN = catalog.Some(*cf.isbn)
		case "dewey":
			card.DeweyClass = catalog.Some(*cf.dewey)
		case "shelf":
			card.ShelfLocation = catalog.Some(*cf.shelf)
		case "language":
			card.Language = catalog.Some(*cf.language)
		default:
			return
		}

		touched = true
	})

	return touched
}

func (a *app) books(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "books: expected list, get, find, add, update, or delete")
		return errUsage
	}

	fs := flag.NewFlagSet("books "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch args[0] {
	case "list":
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		books, err := a.service.ListBooks(ctx)
		if err != nil {
			return err
		}

		return writeJSON(a.out, bookViews(books))

	case "get":
		id := fs.Int64("id", 0, "book id")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		book, found, err := a.service.GetBook(ctx, *id)
		if err != nil {
			return err
		}

		if !found {
			return catalog.NewError(catalog.KindNotFound, catalog.EntityBook, "get book", fmt.Sprintf("book %d does not exist", *id), nil)
		}

		return writeJSON(a.out, toBookView(book))

	case "find":
		return a.findBooks(ctx, fs, args[1:])

	case "add":
		return a.addBook(ctx, fs, args[1:])

	case "update":
		return a.updateBook(ctx, fs, args[1:])

	case "delete":
		id := fs.Int64("id", 0, "book id")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		return a.service.DeleteBook(ctx, *id)

	default:
		fmt.Fprintf(stderr, "books: unknown subcommand %q\n", args[0])
		return errUsage
	}
}

func (a *app) findBooks(ctx context.Context, fs *flag.FlagSet, args []string) error {
	title := fs.String("title", "", "partial title")
	author := fs.String("author", "", "partial author")
	publisher := fs.String("publisher", "", "partial publisher")
	year := fs.Int("year", 0, "edition year")
	language := fs.String("language", "", "card language")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var (
		books []catalog.Book
		err   error
	)

	switch {
	case *title != "":
		books, err = a.service.FindBooksByTitle(ctx, *title)
	case *author != "":
		books, err = a.service.FindBooksByAuthor(ctx, *author)
	case *publisher != "":
		books, err = a.service.FindBooksByPublisher(ctx, *publisher)
	case *year != 0:
		books, err = a.service.FindBooksByEditionYear(ctx, *year)
	case *language != "":
		books, err = a.service.FindBooksByLanguage(ctx, *language)
	default:
		fs.Usage()
		return errUsage
	}

	if err != nil {
		return err
	}

	return writeJSON(a.out, bookViews(books))
}

func (a *app) addBook(ctx context.Context, fs *flag.FlagSet, args []string) error {
	title := fs.String("title", "", "title (required)")
	author := fs.String("author", "", "author (required)")
	publisher := fs.String("publisher", "", "publisher")
	year := fs.Int("year", 0, "edition year")
	cf := registerCardFlags(fs)

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	book := catalog.BuildBook(*title, *author)
	if *publisher != "" {
		book = book.WithPublisher(*publisher)
	}

	if *year != 0 {
		book = book.WithEditionYear(*year)
	}

	card := catalog.BuildCard()

	var (
		id  int64
		err error
	)

	if cf.applyTo(fs, &card) {
		id, err = a.orchestrator.InsertBookWithCard(ctx, &book, &card)
	} else {
		id, err = a.service.InsertBook(ctx, &book)
	}

	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "book added", "book_id", id)

	return writeJSON(a.out, toBookView(book))
}

func (a *app) updateBook(ctx context.Context, fs *flag.FlagSet, args []string) error {
	id := fs.Int64("id", 0, "book id")
	title := fs.String("title", "", "new title")
	author := fs.String("author", "", "new author")
	publisher := fs.String("publisher", "", "new publisher")
	year := fs.Int("year", 0, "new edition year")
	cf := registerCardFlags(fs)

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	book, found, err := a.service.GetBook(ctx, *id)
	if err != nil {
		return err
	}

	if !found {
		return catalog.NewError(catalog.KindNotFound, catalog.EntityBook, "update book", fmt.Sprintf("book %d does not exist", *id), nil)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			book.Title = *title
		case "author":
			book.Author = *author
		case "publisher":
			book.Publisher = catalog.Some(*publisher)
		case "year":
			book.EditionYear = catalog.Some(*year)
		}
	})

	var card catalog.BibliographicCard
	if cardID, ok := book.CardRef.Get(); ok {
		current, cardFound, getErr := a.service.GetCard(ctx, cardID)
		if getErr != nil {
			return getErr
		}

		if cardFound {
			card = current
		}
	}

	alsoUpdateCard := cf.applyTo(fs, &card)

	if err = a.orchestrator.UpdateBookWithCard(ctx, &book, &card, alsoUpdateCard); err != nil {
		return err
	}

	return writeJSON(a.out, toBookView(book))
}
