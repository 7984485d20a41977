package database

import (
	"context"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/apex/log"
)

const (
	typesTable   = "pokemon_types"
	pokemonTable = "pokemons"

	colID          = "id"
	colName        = "name"
	colNameKey     = "name_key"
	colColor       = "color"
	colDescription = "description"
	colCreatedAt   = "created_at"
	colUpdatedAt   = "updated_at"

	colPokedex        = "pokedex_number"
	colHeight         = "height"
	colWeight         = "weight"
	colPrimaryType    = "primary_type_id"
	colSecondaryType  = "secondary_type_id"
	colHP             = "hp"
	colAttack         = "attack"
	colDefense        = "defense"
	colSpecialAttack  = "special_attack"
	colSpecialDefense = "special_defense"
	colSpeed          = "speed"
	colEvolvesFrom    = "evolves_from_id"
	colEvolvesTo      = "evolves_to_id"
	colLegendary      = "is_legendary"
	colMythical       = "is_mythical"
	colGeneration     = "generation"
	colImageURL       = "image_url"

	pokedexIndex = "pokemon_pokedex_number"

	textSize = 2147483647
)

var statColumns = []string{colHP, colAttack, colDefense, colSpecialAttack, colSpecialDefense, colSpeed}

var (
	// TypesColumns holds the columns for the "pokemon_types" table.
	TypesColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colName, Type: field.TypeString, Size: 64},
		{Name: colNameKey, Type: field.TypeString, Size: 64},
		{Name: colColor, Type: field.TypeString, Size: 32, Default: ""},
		{Name: colDescription, Type: field.TypeString, Size: textSize},
		{Name: colCreatedAt, Type: field.TypeInt64},
		{Name: colUpdatedAt, Type: field.TypeInt64},
	}
	// TypesTable holds the schema information for the "pokemon_types" table.
	TypesTable = &schema.Table{
		Name:       typesTable,
		Columns:    TypesColumns,
		PrimaryKey: []*schema.Column{TypesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "pokemontype_name_key",
				Unique:  true,
				Columns: []*schema.Column{TypesColumns[2]},
			},
		},
	}

	// PokemonsColumns holds the columns for the "pokemons" table.
	PokemonsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colName, Type: field.TypeString, Size: 128},
		{Name: colNameKey, Type: field.TypeString, Size: 128},
		{Name: colPokedex, Type: field.TypeInt, Nullable: true},
		{Name: colDescription, Type: field.TypeString, Size: textSize},
		{Name: colHeight, Type: field.TypeFloat64, Nullable: true},
		{Name: colWeight, Type: field.TypeFloat64, Nullable: true},
		{Name: colHP, Type: field.TypeInt},
		{Name: colAttack, Type: field.TypeInt},
		{Name: colDefense, Type: field.TypeInt},
		{Name: colSpecialAttack, Type: field.TypeInt},
		{Name: colSpecialDefense, Type: field.TypeInt},
		{Name: colSpeed, Type: field.TypeInt},
		{Name: colLegendary, Type: field.TypeBool, Default: false},
		{Name: colMythical, Type: field.TypeBool, Default: false},
		{Name: colGeneration, Type: field.TypeInt, Default: 1},
		{Name: colImageURL, Type: field.TypeString, Size: 512, Default: ""},
		{Name: colCreatedAt, Type: field.TypeInt64},
		{Name: colUpdatedAt, Type: field.TypeInt64},
		{Name: colPrimaryType, Type: field.TypeInt},
		{Name: colSecondaryType, Type: field.TypeInt, Nullable: true},
		{Name: colEvolvesFrom, Type: field.TypeInt, Nullable: true},
		{Name: colEvolvesTo, Type: field.TypeInt, Nullable: true},
	}
	// PokemonsTable holds the schema information for the "pokemons" table.
	PokemonsTable = &schema.Table{
		Name:       pokemonTable,
		Columns:    PokemonsColumns,
		PrimaryKey: []*schema.Column{PokemonsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "pokemons_pokemon_types_primary",
				Columns:    []*schema.Column{PokemonsColumns[19]},
				RefColumns: []*schema.Column{TypesColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "pokemons_pokemon_types_secondary",
				Columns:    []*schema.Column{PokemonsColumns[20]},
				RefColumns: []*schema.Column{TypesColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "pokemons_pokemons_evolves_from",
				Columns:    []*schema.Column{PokemonsColumns[21]},
				RefColumns: []*schema.Column{PokemonsColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "pokemons_pokemons_evolves_to",
				Columns:    []*schema.Column{PokemonsColumns[22]},
				RefColumns: []*schema.Column{PokemonsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "pokemon_name_key",
				Unique:  true,
				Columns: []*schema.Column{PokemonsColumns[2]},
			},
			{
				Name:    pokedexIndex,
				Unique:  true,
				Columns: []*schema.Column{PokemonsColumns[3]},
			},
			{
				Name:    "pokemon_generation",
				Unique:  false,
				Columns: []*schema.Column{PokemonsColumns[15]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		TypesTable,
		PokemonsTable,
	}
)

func init() {
	PokemonsTable.ForeignKeys[0].RefTable = TypesTable
	PokemonsTable.ForeignKeys[1].RefTable = TypesTable
	PokemonsTable.ForeignKeys[2].RefTable = PokemonsTable
	PokemonsTable.ForeignKeys[3].RefTable = PokemonsTable
}

// Migrate creates or alters the catalog tables to match Tables.
func (s *Store) Migrate(ctx context.Context) error {
	logger := log.FromContext(ctx)
	logger.Info("initiating database schema migration")

	m, err := schema.NewMigrate(
		s.drv,
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return err
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return err
	}

	logger.Info("database schema migration complete")
	return nil
}
