package catalog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-catalog-go/catalog"
)

func Test_Error_MatchesSentinelOfSameKind(t *testing.T) {
	err := NewError(KindConflict, EntityCard, "insert", "isbn is taken", nil)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func Test_Error_MatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewError(KindNotFound, EntityBook, "update", "", nil))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func Test_Error_DoesNotMatchNonSentinelOfSameKind(t *testing.T) {
	err := NewError(KindValidation, EntityBook, "insert", "title is required", nil)
	other := NewError(KindValidation, EntityBook, "insert", "author is required", nil)

	assert.False(t, errors.Is(err, other))
}

func Test_Error_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := NewError(KindPersistence, EntityBook, "insert", "database statement failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPersistence)
}

func Test_Error_TransactionErrorKeepsCauseKind(t *testing.T) {
	cause := NewError(KindConflict, EntityCard, "validate insert", "isbn is taken", nil)
	err := NewError(KindTransaction, "", "insert book with card", "composite operation rolled back", cause)

	assert.ErrorIs(t, err, ErrTransaction)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindTransaction, KindOf(err))
}

func Test_Error_Message(t *testing.T) {
	testCases := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "kind only",
			err:      ErrNotFound,
			expected: "not_found error",
		},
		{
			name:     "entity and op",
			err:      NewError(KindValidation, EntityBook, "validate insert", "title is required", nil),
			expected: "validation error [book validate insert]: title is required",
		},
		{
			name:     "op only with cause",
			err:      NewError(KindTransaction, "", "scope commit", "could not commit transaction", errors.New("boom")),
			expected: "transaction error [scope commit]: could not commit transaction: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func Test_KindOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
