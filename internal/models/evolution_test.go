package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkConflict(t *testing.T) {
	pichu := &Pokemon{ID: 1, Name: "Pichu", EvolvesToID: Ptr(2)}
	pikachu := &Pokemon{ID: 2, Name: "Pikachu", EvolvesFromID: Ptr(1)}
	raichu := &Pokemon{ID: 3, Name: "Raichu"}
	mew := &Pokemon{ID: 4, Name: "Mew"}

	assert.NoError(t, LinkConflict(pichu, pikachu))
	assert.NoError(t, LinkConflict(pikachu, raichu))
	assert.ErrorIs(t, LinkConflict(mew, mew), ErrValidation)
	assert.ErrorIs(t, LinkConflict(pichu, raichu), ErrValidation)
	assert.ErrorIs(t, LinkConflict(mew, pikachu), ErrValidation)
}

func TestCheckAncestors(t *testing.T) {
	byID := map[int]*Pokemon{
		1: {ID: 1, Name: "Charmander", EvolvesToID: Ptr(2)},
		2: {ID: 2, Name: "Charmeleon", EvolvesFromID: Ptr(1), EvolvesToID: Ptr(3)},
		3: {ID: 3, Name: "Charizard", EvolvesFromID: Ptr(2)},
	}
	get := func(id int) (*Pokemon, error) {
		p, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}
		return p, nil
	}

	assert.NoError(t, CheckAncestors(byID[3], 4, get))
	assert.NoError(t, CheckAncestors(byID[1], 3, get))
	assert.ErrorIs(t, CheckAncestors(byID[3], 1, get), ErrValidation)
	assert.ErrorIs(t, CheckAncestors(byID[3], 2, get), ErrValidation)

	byID[1].EvolvesFromID = Ptr(3)
	err := CheckAncestors(byID[3], 9, get)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptChain)

	delete(byID, 1)
	assert.ErrorIs(t, CheckAncestors(byID[2], 9, get), ErrNotFound)
}
