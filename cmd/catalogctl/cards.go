package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

func (a *app) cards(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "cards: expected list, get, or delete")
		return errUsage
	}

	fs := flag.NewFlagSet("cards "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch args[0] {
	case "list":
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		cards, err := a.service.ListCards(ctx)
		if err != nil {
			return err
		}

		return writeJSON(a.out, cardViews(cards))

	case "get":
		id := fs.Int64("id", 0, "card id")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		card, found, err := a.service.GetCard(ctx, *id)
		if err != nil {
			return err
		}

		if !found {
			return catalog.NewError(catalog.KindNotFound, catalog.EntityCard, "get card", fmt.Sprintf("card %d does not exist", *id), nil)
		}

		return writeJSON(a.out, toCardView(card))

	case "delete":
		id := fs.Int64("id", 0, "card id")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}

		return a.service.DeleteCard(ctx, *id)

	default:
		fmt.Fprintf(stderr, "cards: unknown subcommand %q\n", args[0])
		return errUsage
	}
}
