package postgresengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine/internal/adapters"
)

// ScopeState is the lifecycle state of a TransactionScope.
type ScopeState int

const (
	ScopeCreated ScopeState = iota
	ScopeActive
	ScopeCommitted
	ScopeRolledBack
	ScopeClosed
)

const (
	opScopeStart  = "scope start"
	opScopeCommit = "scope commit"
	opScopeUse    = "scope use"
)

func (s ScopeState) String() string {
	switch s {
	case ScopeCreated:
		return "created"
	case ScopeActive:
		return "active"
	case ScopeCommitted:
		return "committed"
	case ScopeRolledBack:
		return "rolled_back"
	case ScopeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// TransactionScope owns one acquired connection until Close.
//
//	CREATED → ACTIVE → {COMMITTED, ROLLED_BACK} → CLOSED
//
// In CREATED the held connection is in auto-commit mode. Start begins a transaction on it;
// Commit and Rollback end it, which returns the connection to auto-commit mode.
// Close rolls back an ACTIVE scope, then releases the connection. Rollback and Close never fail.
//
// A TransactionScope is not safe for concurrent use.
type TransactionScope struct {
	id     uuid.UUID
	engine Engine
	conn   adapters.Conn
	tx     adapters.Tx
	state  ScopeState
	err    error
}

func newTransactionScope(e Engine, conn adapters.Conn) *TransactionScope {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return &TransactionScope{
		id:     id,
		engine: e,
		conn:   conn,
		state:  ScopeCreated,
	}
}

// ID identifies the scope in log records.
func (s *TransactionScope) ID() uuid.UUID {
	return s.id
}

func (s *TransactionScope) State() ScopeState {
	return s.state
}

// Err returns the last cleanup failure swallowed by Rollback or Close, if any.
func (s *TransactionScope) Err() error {
	return s.err
}

// Start begins the transaction. It fails unless the scope is in state ScopeCreated.
func (s *TransactionScope) Start(ctx context.Context) error {
	if s.state != ScopeCreated {
		return s.stateError(opScopeStart, "scope can only be started once")
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		s.engine.logError(ctx, logMsgBeginFailed, err, logAttrScopeID, s.id.String())
		s.engine.recordError(opScopeStart, errorTypeTransaction)

		return catalog.NewError(catalog.KindTransaction, "", opScopeStart, "could not begin transaction", err)
	}

	s.tx = tx
	s.state = ScopeActive
	s.engine.logOperation(ctx, logMsgScopeStarted, logAttrScopeID, s.id.String())

	return nil
}

// Commit makes all writes of the scope durable. It fails unless the scope is in state ScopeActive.
// A failed commit leaves the scope in state ScopeRolledBack since the server discards the transaction.
func (s *TransactionScope) Commit(ctx context.Context) error {
	if s.state != ScopeActive {
		return s.stateError(opScopeCommit, "only an active scope can be committed")
	}

	err := s.tx.Commit(ctx)
	s.tx = nil

	if err != nil {
		s.state = ScopeRolledBack
		s.engine.logError(ctx, logMsgCommitFailed, err, logAttrScopeID, s.id.String())
		s.engine.recordError(opScopeCommit, errorTypeTransaction)
		s.engine.recordScopeOutcome(metricScopesRolledBack)

		return catalog.NewError(catalog.KindTransaction, "", opScopeCommit, "could not commit transaction", err)
	}

	s.state = ScopeCommitted
	s.engine.logOperation(ctx, logMsgScopeCommitted, logAttrScopeID, s.id.String())
	s.engine.recordScopeOutcome(metricScopesCommitted)

	return nil
}

// Rollback discards all writes of an active scope. In any other state it does nothing.
func (s *TransactionScope) Rollback(ctx context.Context) {
	if s.state != ScopeActive {
		return
	}

	ctx = context.WithoutCancel(ctx)

	if err := s.tx.Rollback(ctx); err != nil {
		s.err = err
		s.engine.logWarn(ctx, logMsgRollbackFailed, err, logAttrScopeID, s.id.String())
	}

	s.tx = nil
	s.state = ScopeRolledBack
	s.engine.logOperation(ctx, logMsgScopeRolledBack, logAttrScopeID, s.id.String())
	s.engine.recordScopeOutcome(metricScopesRolledBack)
}

// Close rolls back an active scope and releases the connection. Further calls do nothing.
func (s *TransactionScope) Close(ctx context.Context) {
	if s.state == ScopeClosed {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.Rollback(ctx)

	if err := s.conn.Release(); err != nil {
		s.err = err
		s.engine.logWarn(ctx, logMsgReleaseFailed, err, logAttrScopeID, s.id.String())
	}

	s.conn = nil
	s.state = ScopeClosed
}

// executor returns what statements of this scope run on: the transaction while active,
// the bare connection before Start.
func (s *TransactionScope) executor() (adapters.Executor, error) {
	switch s.state {
	case ScopeActive:
		return s.tx, nil
	case ScopeCreated:
		return s.conn, nil
	default:
		return nil, s.stateError(opScopeUse, "scope is "+s.state.String())
	}
}

func (s *TransactionScope) stateError(op, message string) error {
	return catalog.NewError(catalog.KindTransaction, "", op, message, nil)
}
