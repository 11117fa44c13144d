package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
)

func Test_Run_WithoutCommandIsAUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), nil, &stdout, &stderr)

	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), "-config")
}

func Test_Run_UnknownGlobalFlagIsAUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-verbose", "books", "list"}, &stdout, &stderr)

	assert.ErrorIs(t, err, errUsage)
}

func Test_WriteJSON_RendersBooksWithoutAbsentFields(t *testing.T) {
	// arrange
	book := catalog.BuildBook("THE TRIAL", "FRANZ KAFKA").WithEditionYear(1925)
	book.ID = 3
	var out bytes.Buffer

	// act
	err := writeJSON(&out, bookViews([]catalog.Book{book}))

	// assert
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"title":"THE TRIAL","author":"FRANZ KAFKA","edition_year":1925}]`, out.String())
}

func Test_WriteJSON_RendersCards(t *testing.T) {
	card := catalog.BuildCard().WithISBN("9783161484100").WithLanguage("GERMAN")
	card.ID = 8
	var out bytes.Buffer

	err := writeJSON(&out, toCardView(card))

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":8,"isbn":"9783161484100","language":"GERMAN"}`, out.String())
}
