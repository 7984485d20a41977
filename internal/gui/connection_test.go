package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	tests := []struct {
		database string
		values   []string
	}{
		{"sqlite", []string{"pokedex.db"}},
		{"postgres", []string{"ash", "p@ss word", "db.local", "5432", "dex"}},
		{"mysql", []string{"misty", "starmie", "10.0.0.5", "3306", "dex"}},
	}

	for _, tt := range tests {
		t.Run(tt.database, func(t *testing.T) {
			cs, err := buildConnectionString(tt.database, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.values, connectionFields(tt.database, cs), cs)
		})
	}
}

func TestBuildConnectionStringRejectsBadInput(t *testing.T) {
	_, err := buildConnectionString("sqlite", []string{""})
	assert.Error(t, err)

	_, err = buildConnectionString("postgres", []string{"ash", "pw", "localhost", "99999", "dex"})
	assert.Error(t, err)

	_, err = buildConnectionString("oracle", nil)
	assert.Error(t, err)
}

func TestConnectionFieldsDefaults(t *testing.T) {
	assert.Equal(t, []string{defaultSqliteFile}, connectionFields("sqlite", ""))
	assert.Equal(t, []string{"dex.db"}, connectionFields("sqlite", "file:dex.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, make([]string, len(serverFields)), connectionFields("postgres", "not a url"))
	assert.Equal(t, make([]string, len(serverFields)), connectionFields("mysql", ""))
}

func TestDescribeConnectionMasksPassword(t *testing.T) {
	cs, err := buildConnectionString("mysql", []string{"misty", "starmie", "localhost", "3306", "dex"})
	require.NoError(t, err)

	desc := describeConnection("mysql", cs)
	assert.Contains(t, desc, "*******")
	assert.NotContains(t, desc, "starmie")
	assert.Contains(t, describeConnection("memory", ""), "Memory")
}
