package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsDerivedValues(t *testing.T) {
	s, err := NewStats(35, 55, 40, 50, 50, 90)
	require.NoError(t, err)

	assert.Equal(t, 320, s.Total())
	assert.InDelta(t, 53.33, s.Average(), 0.01)
	assert.Equal(t, StatSpeed, s.Dominant())
	assert.Equal(t, StatHP, s.Weakest())
	assert.False(t, s.IsBalanced())
}

func TestStatsTiesResolveInCanonicalOrder(t *testing.T) {
	s := &Stats{HP: 80, Attack: 100, Defense: 100, SpecialAttack: 60, SpecialDefense: 60, Speed: 100}

	assert.Equal(t, StatAttack, s.Dominant())
	assert.Equal(t, StatSpecialAttack, s.Weakest())

	flat := DefaultStats()
	assert.Equal(t, StatHP, flat.Dominant())
	assert.Equal(t, StatHP, flat.Weakest())
}

func TestStatsIsBalanced(t *testing.T) {
	assert.True(t, DefaultStats().IsBalanced())

	// average 70, speed sits exactly at the tolerance edge
	edge := &Stats{HP: 66, Attack: 66, Defense: 66, SpecialAttack: 66, SpecialDefense: 66, Speed: 90}
	assert.Equal(t, 70, edge.Total()/6)
	assert.True(t, edge.IsBalanced())

	skewed := &Stats{HP: 20, Attack: 130, Defense: 65, SpecialAttack: 65, SpecialDefense: 65, Speed: 65}
	assert.False(t, skewed.IsBalanced())
}

func TestNewStatsRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		stats [6]int
	}{
		{"zero hp", [6]int{0, 50, 50, 50, 50, 50}},
		{"negative defense", [6]int{50, 50, -3, 50, 50, 50}},
		{"speed above cap", [6]int{50, 50, 50, 50, 50, 256}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.stats
			_, err := NewStats(v[0], v[1], v[2], v[3], v[4], v[5])
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}

	s, err := NewStats(1, 255, 1, 255, 1, 255)
	require.NoError(t, err)
	assert.Equal(t, 768, s.Total())
}
