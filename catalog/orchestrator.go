package catalog

import (
	"context"
	"strings"
)

const (
	opInsertBookWithCard = "insert book with card"
	opUpdateBookWithCard = "update book with card"

	logMsgCompositeCommitted    = "composite operation committed"
	logMsgCompositeRolledBack   = "composite operation rolled back"
	logMsgCompositeOpenFailed   = "could not open scope for composite operation"
	logMsgCompositeUpdateNoCard = "card update requested but book has no card reference"
)

// Orchestrator writes a Book and its BibliographicCard as one atomic unit.
//
// Every composite call owns exactly one Scope; its store calls run strictly in sequence
// on the scope's connection. Any failure after the scope is opened rolls back all writes
// of the call and is returned as ErrTransaction wrapping the first cause.
type Orchestrator struct {
	scopes    ScopeOpener
	books     BookStore
	cards     CardStore
	validator Validator
	tracer    TracingCollector
	observer
}

// OrchestratorOption defines a functional option for configuring Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithOrchestratorLogger sets the logger for the Orchestrator.
func WithOrchestratorLogger(logger Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.logger = logger
		return nil
	}
}

// WithOrchestratorContextualLogger sets the contextual logger for the Orchestrator.
func WithOrchestratorContextualLogger(logger ContextualLogger) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.contextualLogger = logger
		return nil
	}
}

// WithOrchestratorTracing wraps every composite operation in a span named catalog.<operation>.
func WithOrchestratorTracing(tracer TracingCollector) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.tracer = tracer
		return nil
	}
}

// NewOrchestrator creates an Orchestrator. The stores must honor the Scope carried in the context.
func NewOrchestrator(
	scopes ScopeOpener,
	books BookStore,
	cards CardStore,
	validator Validator,
	options ...OrchestratorOption,
) (Orchestrator, error) {

	if scopes == nil {
		return Orchestrator{}, ErrNilScopeOpener
	}

	if books == nil || cards == nil || validator.books == nil {
		return Orchestrator{}, ErrNilStore
	}

	o := Orchestrator{
		scopes:    scopes,
		books:     books,
		cards:     cards,
		validator: validator,
	}

	for _, option := range options {
		if err := option(&o); err != nil {
			return Orchestrator{}, err
		}
	}

	return o, nil
}

// InsertBookWithCard inserts card (when not nil) and book in one transaction.
// book.CardRef is set to the new card's id. On failure the ids assigned during the call
// are reset, so the entities can be resubmitted.
func (o Orchestrator) InsertBookWithCard(ctx context.Context, book *Book, card *BibliographicCard) (int64, error) {
	if book == nil {
		return 0, validationError(EntityBook, opInsertBookWithCard, "book is required")
	}

	bookID, cardRef := book.ID, book.CardRef
	var cardID int64
	if card != nil {
		cardID = card.ID
	}

	err := o.inScope(ctx, opInsertBookWithCard, func(scoped context.Context) error {
		if card != nil {
			if err := o.validator.ValidateCardForInsert(scoped, card); err != nil {
				return err
			}

			newCardID, err := o.cards.Insert(scoped, card)
			if err != nil {
				return err
			}

			book.CardRef = Some(newCardID)
		}

		if err := o.validator.ValidateBookForInsert(scoped, book); err != nil {
			return err
		}

		_, err := o.books.Insert(scoped, book)

		return err
	})

	if err != nil {
		book.ID, book.CardRef = bookID, cardRef
		if card != nil {
			card.ID = cardID
		}

		return 0, err
	}

	o.info(ctx, logMsgCompositeCommitted, logAttrOperation, opInsertBookWithCard,
		logAttrBookID, book.ID, logAttrCardID, book.CardRef.OrElse(0))

	return book.ID, nil
}

// UpdateBookWithCard updates book and, when alsoUpdateCard is set and the book references a
// card, first updates card in the same transaction. A card without an id adopts the book's
// reference; a card with a different id is rejected.
func (o Orchestrator) UpdateBookWithCard(
	ctx context.Context,
	book *Book,
	card *BibliographicCard,
	alsoUpdateCard bool,
) error {

	if book == nil {
		return validationError(EntityBook, opUpdateBookWithCard, "book is required")
	}

	cardRef, hasCardRef := book.CardRef.Get()
	writeCard := alsoUpdateCard && hasCardRef

	if alsoUpdateCard && !hasCardRef {
		o.warn(ctx, logMsgCompositeUpdateNoCard, logAttrBookID, book.ID)
	}

	var cardID int64
	if writeCard {
		if card == nil {
			return validationError(EntityCard, opUpdateBookWithCard, "card is required when updating the card")
		}

		if card.ID != 0 && card.ID != cardRef {
			return validationError(EntityCard, opUpdateBookWithCard, "card id does not match the book's card reference")
		}

		cardID = card.ID
	}

	err := o.inScope(ctx, opUpdateBookWithCard, func(scoped context.Context) error {
		if writeCard {
			card.ID = cardRef

			if err := o.validator.ValidateCardForUpdate(scoped, card); err != nil {
				return err
			}

			if err := o.cards.Update(scoped, card); err != nil {
				return err
			}
		}

		if err := o.validator.ValidateBookForUpdate(scoped, book); err != nil {
			return err
		}

		return o.books.Update(scoped, book)
	})

	if err != nil {
		if writeCard {
			card.ID = cardID
		}

		return err
	}

	o.info(ctx, logMsgCompositeCommitted, logAttrOperation, opUpdateBookWithCard, logAttrBookID, book.ID)

	return nil
}

// inScope opens a Scope, starts it, runs body with the scope bound to the context, and commits.
// The scope is closed on every path, which rolls back whatever body left uncommitted.
func (o Orchestrator) inScope(ctx context.Context, op string, body func(scoped context.Context) error) (err error) {
	if o.tracer != nil {
		var span SpanContext
		ctx, span = o.tracer.StartSpan(ctx, "catalog."+strings.ReplaceAll(op, " ", "_"), map[string]string{logAttrOperation: op})
		defer func() {
			var attrs map[string]string
			if err != nil {
				attrs = map[string]string{logAttrErrorKind: string(KindOf(err))}
			}

			o.tracer.FinishSpan(span, spanStatus(err), attrs)
		}()
	}

	scope, err := o.scopes.OpenScope(ctx)
	if err != nil {
		o.failure(ctx, logMsgCompositeOpenFailed, err, logAttrOperation, op)
		return err
	}
	defer scope.Close(ctx)

	if err = scope.Start(ctx); err != nil {
		return o.rolledBack(ctx, op, err)
	}

	if err = body(ContextWithScope(ctx, scope)); err != nil {
		return o.rolledBack(ctx, op, err)
	}

	if err = scope.Commit(ctx); err != nil {
		return o.rolledBack(ctx, op, err)
	}

	return nil
}

func (o Orchestrator) rolledBack(ctx context.Context, op string, cause error) error {
	o.failure(ctx, logMsgCompositeRolledBack, cause, logAttrOperation, op)
	return transactionError(op, cause)
}
