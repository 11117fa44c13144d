package catalog

import "context"

// Scope owns one connection for the lifetime of a composite operation.
//
// A Scope moves CREATED → ACTIVE → {COMMITTED, ROLLED_BACK} → CLOSED.
// Rollback and Close never fail; cleanup problems are logged by the implementation.
// Close must be called on every exit path and is safe to call more than once.
type Scope interface {
	Start(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
	Close(ctx context.Context)
}

// ScopeOpener acquires a connection and wraps it in a new, not yet started, Scope.
// Failure to acquire is reported as ErrConnection.
type ScopeOpener interface {
	OpenScope(ctx context.Context) (Scope, error)
}

type scopeContextKey struct{}

// ContextWithScope returns a context that routes store calls through scope.
func ContextWithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey{}).(Scope)
	return scope, ok && scope != nil
}
