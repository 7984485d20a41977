package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("pokemon 1: %w", models.ErrNotFound), http.StatusNotFound},
		{models.Invalid("name", "is required"), http.StatusBadRequest},
		{&models.ReferenceError{Field: "primary_type_id", TypeID: 9}, http.StatusBadRequest},
		{fmt.Errorf("%w: Pikachu", models.ErrDuplicateName), http.StatusConflict},
		{fmt.Errorf("%w: 25", models.ErrDuplicatePokedexNumber), http.StatusConflict},
		{models.ErrDuplicateType, http.StatusConflict},
		{models.ErrTypeInUse, http.StatusConflict},
		{models.ErrCannotEvolve, http.StatusUnprocessableEntity},
		{models.ErrCorruptChain, http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		query string
		want  models.PageRequest
	}{
		{"", models.PageRequest{Page: 1}},
		{"page=3&amount=10", models.PageRequest{Page: 3, Size: 10}},
		{"page=0&amount=-5", models.PageRequest{Page: 1}},
		{"page=abc&amount=xyz", models.PageRequest{Page: 1}},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, http.NoBody)
		assert.Equal(t, tt.want, Page(r), tt.query)
	}
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?generation=2&legendary=true&type=fire&mythical=maybe", http.NoBody)

	gen, err := QueryInt(r, "generation")
	require.NoError(t, err)
	assert.Equal(t, 2, *gen)

	missing, err := QueryInt(r, "min_pokedex")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt(r, "type")
	assert.ErrorIs(t, err, models.ErrValidation)

	legendary, err := QueryBool(r, "legendary")
	require.NoError(t, err)
	assert.True(t, *legendary)

	_, err = QueryBool(r, "mythical")
	assert.ErrorIs(t, err, models.ErrValidation)
}
