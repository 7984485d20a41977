package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/FlagBrew/local-dex/internal/models"
)

func TestPokemonWriteErrorClassifiesByConstraint(t *testing.T) {
	p := &models.Pokemon{Name: "pokedex_number", PrimaryTypeID: 1}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "mysql name holding the column name",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'pokedex_number' for key 'pokemons.pokemon_name_key'"},
			want: models.ErrDuplicateName,
		},
		{
			name: "mysql pokedex index",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '25' for key 'pokemons.pokemon_pokedex_number'"},
			want: models.ErrDuplicatePokedexNumber,
		},
		{
			name: "postgres name index",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "pokemon_name_key", Detail: "Key (name_key)=(pokedex_number) already exists."},
			want: models.ErrDuplicateName,
		},
		{
			name: "postgres pokedex index",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "pokemon_pokedex_number"},
			want: models.ErrDuplicatePokedexNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, pokemonWriteError(p, tt.err), tt.want)
		})
	}
}
