package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	p := &Pokemon{
		Name:            "Charizard",
		Description:     "Spits fire that is hot enough to melt boulders.",
		PokedexNumber:   Ptr(6),
		PrimaryTypeID:   1,
		SecondaryTypeID: Ptr(2),
		Generation:      1,
		EvolvesFromID:   Ptr(5),
		Stats:           &Stats{HP: 78, Attack: 84, Defense: 78, SpecialAttack: 109, SpecialDefense: 85, Speed: 100},
	}

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"generation", GenerationIs(1), true},
		{"other generation", GenerationIs(3), false},
		{"primary type", HasType(1), true},
		{"secondary type", HasType(2), true},
		{"missing type", HasType(3), false},
		{"primary only", PrimaryTypeIs(2), false},
		{"not legendary", LegendaryIs(false), true},
		{"legendary", LegendaryIs(true), false},
		{"mythical", MythicalIs(true), false},
		{"pokedex lower bound inclusive", PokedexAtLeast(6), true},
		{"pokedex upper bound inclusive", PokedexAtMost(6), true},
		{"pokedex above upper", PokedexAtMost(5), false},
		{"name text", TextContains("CHAR"), true},
		{"description text", TextContains("boulders"), true},
		{"no text", TextContains("water"), false},
		{"total", TotalStatsAtLeast(534), true},
		{"total above", TotalStatsAtLeast(535), false},
		{"speed", SpeedAtLeast(100), true},
		{"attack", AttackAtLeast(85), false},
		{"base form", IsBaseForm{}, false},
		{"final form", IsFinalForm{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred.Match(p))
		})
	}
}

func TestPokedexBoundsSkipUnnumbered(t *testing.T) {
	p := &Pokemon{Name: "MissingNo"}
	assert.False(t, PokedexAtLeast(0).Match(p))
	assert.False(t, PokedexAtMost(1000).Match(p))
}

func TestNewPokemonPage(t *testing.T) {
	page := NewPokemonPage(nil, PageRequest{Page: 2, Size: 30}, 61)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	assert.NotNil(t, page.Items)

	all := NewPokemonPage([]*Pokemon{{}, {}}, PageRequest{}, 2)
	assert.Equal(t, 1, all.Pages)
	assert.Equal(t, 2, all.Size)

	assert.Equal(t, 30, PageRequest{Page: 2, Size: 30}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 0, Size: 30}.Offset())
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("Total_Stats", "DESC")
	if assert.NoError(t, err) {
		assert.Equal(t, Order{Field: SortByTotal, Desc: true}, o)
	}

	o, err = ParseOrder("name", "")
	if assert.NoError(t, err) {
		assert.Equal(t, Order{Field: SortByName}, o)
	}

	_, err = ParseOrder("weight", "asc")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseOrder("name", "sideways")
	assert.ErrorIs(t, err, ErrValidation)
}
