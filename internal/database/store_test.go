package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FlagBrew/local-dex/internal/models"
)

type SQLStoreSuite struct {
	suite.Suite
	ctx      context.Context
	store    *Store
	fire     *models.PokemonType
	electric *models.PokemonType
}

func TestSQLStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLStoreSuite))
}

func (s *SQLStoreSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := Open(s.ctx, "sqlite", "file:"+filepath.Join(s.T().TempDir(), "dex.db"))
	s.Require().NoError(err)
	s.Require().NoError(store.Migrate(s.ctx))
	s.store = store

	s.fire = s.mustType("Fire")
	s.electric = s.mustType("Electric")
}

func (s *SQLStoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *SQLStoreSuite) mustType(name string) *models.PokemonType {
	now := time.Now()
	t, err := s.store.CreateType(s.ctx, &models.PokemonType{Name: name, CreatedAt: now, UpdatedAt: now})
	s.Require().NoError(err)
	return t
}

func (s *SQLStoreSuite) mustPokemon(name string, number *int, typeID int, stats *models.Stats) *models.Pokemon {
	p, err := s.store.CreatePokemon(s.ctx, &models.Pokemon{
		Name:          name,
		PokedexNumber: number,
		PrimaryTypeID: typeID,
		Generation:    1,
		Stats:         stats,
	})
	s.Require().NoError(err)
	return p
}

func (s *SQLStoreSuite) TestTypes() {
	got, err := s.store.GetTypeByName(s.ctx, "FIRE")
	s.Require().NoError(err)
	s.Equal(s.fire.ID, got.ID)
	s.Equal("Fire", got.Name)

	_, err = s.store.CreateType(s.ctx, &models.PokemonType{Name: "fire"})
	s.ErrorIs(err, models.ErrDuplicateType)

	_, err = s.store.UpdateType(s.ctx, &models.PokemonType{ID: s.electric.ID, Name: "FIRE"})
	s.ErrorIs(err, models.ErrDuplicateType)

	updated, err := s.store.UpdateType(s.ctx, &models.PokemonType{ID: s.electric.ID, Name: "Electric", Color: "#F8D030", Description: "Shocking."})
	s.Require().NoError(err)
	s.Equal("#F8D030", updated.Color)

	list, err := s.store.ListTypes(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 2)
	s.Equal("Electric", list[0].Name)

	found, err := s.store.SearchTypes(s.ctx, "SHOCK")
	s.Require().NoError(err)
	s.Len(found, 1)

	_, err = s.store.GetType(s.ctx, 404)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *SQLStoreSuite) TestTimestampsRoundTrip() {
	at := time.Date(2024, 5, 1, 12, 30, 15, 123_000_000, time.UTC)
	t, err := s.store.CreateType(s.ctx, &models.PokemonType{Name: "Ghost", CreatedAt: at, UpdatedAt: at})
	s.Require().NoError(err)
	s.True(at.Equal(t.CreatedAt))
	s.Equal(time.UTC, t.CreatedAt.Location())
}

func (s *SQLStoreSuite) TestDeleteTypeInUse() {
	s.mustPokemon("Pikachu", models.Ptr(25), s.electric.ID, models.DefaultStats())

	s.ErrorIs(s.store.DeleteType(s.ctx, s.electric.ID), models.ErrTypeInUse)
	s.ErrorIs(s.store.DeleteType(s.ctx, 404), models.ErrNotFound)
	s.NoError(s.store.DeleteType(s.ctx, s.fire.ID))

	usage, err := s.store.TypeUsage(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(usage, 1)
	s.Equal(1, usage[0].Count)
}

func (s *SQLStoreSuite) TestPokemonConstraints() {
	pikachu := s.mustPokemon("Pikachu", models.Ptr(25), s.electric.ID, models.DefaultStats())

	_, err := s.store.CreatePokemon(s.ctx, &models.Pokemon{Name: "PIKACHU", PrimaryTypeID: s.electric.ID, Stats: models.DefaultStats()})
	s.ErrorIs(err, models.ErrDuplicateName)

	_, err = s.store.CreatePokemon(s.ctx, &models.Pokemon{Name: "Pichu", PokedexNumber: models.Ptr(25), PrimaryTypeID: s.electric.ID, Stats: models.DefaultStats()})
	s.ErrorIs(err, models.ErrDuplicatePokedexNumber)

	_, err = s.store.CreatePokemon(s.ctx, &models.Pokemon{Name: "Missingno", PrimaryTypeID: 404, Stats: models.DefaultStats()})
	s.ErrorIs(err, models.ErrReference)

	// Unnumbered entries do not collide with each other.
	s.mustPokemon("Pikachu Libre", nil, s.electric.ID, models.DefaultStats())
	s.mustPokemon("Pikachu Belle", nil, s.electric.ID, models.DefaultStats())

	pikachu.Description = "Mouse"
	pikachu.Height = models.Ptr(0.4)
	pikachu.SecondaryTypeID = models.Ptr(s.fire.ID)
	updated, err := s.store.UpdatePokemon(s.ctx, pikachu)
	s.Require().NoError(err)
	s.Equal("Mouse", updated.Description)
	s.Equal(0.4, *updated.Height)
	s.Nil(updated.Weight)
	s.Equal(s.fire.ID, *updated.SecondaryTypeID)

	_, err = s.store.UpdatePokemon(s.ctx, &models.Pokemon{ID: 404, Name: "Nobody", PrimaryTypeID: s.fire.ID})
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *SQLStoreSuite) TestDuplicateNameSpellingPokedexColumn() {
	s.mustPokemon("pokemons.pokedex_number", models.Ptr(25), s.electric.ID, models.DefaultStats())

	_, err := s.store.CreatePokemon(s.ctx, &models.Pokemon{
		Name:          "POKEMONS.POKEDEX_NUMBER",
		PokedexNumber: models.Ptr(26),
		PrimaryTypeID: s.electric.ID,
		Stats:         models.DefaultStats(),
	})
	s.ErrorIs(err, models.ErrDuplicateName)
	s.NotErrorIs(err, models.ErrDuplicatePokedexNumber)
}

func (s *SQLStoreSuite) TestEvolutionLinks() {
	charmander := s.mustPokemon("Charmander", models.Ptr(4), s.fire.ID, models.DefaultStats())
	charmeleon := s.mustPokemon("Charmeleon", models.Ptr(5), s.fire.ID, models.DefaultStats())
	charizard := s.mustPokemon("Charizard", models.Ptr(6), s.fire.ID, models.DefaultStats())

	s.Require().NoError(s.store.LinkEvolution(s.ctx, charmander.ID, charmeleon.ID))
	s.Require().NoError(s.store.LinkEvolution(s.ctx, charmeleon.ID, charizard.ID))

	mid, err := s.store.GetPokemon(s.ctx, charmeleon.ID)
	s.Require().NoError(err)
	s.Equal(charmander.ID, *mid.EvolvesFromID)
	s.Equal(charizard.ID, *mid.EvolvesToID)

	// Updates never touch links.
	mid.EvolvesToID = nil
	mid.Description = "Tail flame"
	mid, err = s.store.UpdatePokemon(s.ctx, mid)
	s.Require().NoError(err)
	s.Equal(charizard.ID, *mid.EvolvesToID)

	s.Require().NoError(s.store.UnlinkEvolution(s.ctx, charmander.ID))
	first, err := s.store.GetPokemon(s.ctx, charmander.ID)
	s.Require().NoError(err)
	s.Nil(first.EvolvesToID)
	mid, err = s.store.GetPokemon(s.ctx, charmeleon.ID)
	s.Require().NoError(err)
	s.Nil(mid.EvolvesFromID)

	s.Require().NoError(s.store.DeletePokemon(s.ctx, charmeleon.ID))
	last, err := s.store.GetPokemon(s.ctx, charizard.ID)
	s.Require().NoError(err)
	s.Nil(last.EvolvesFromID)

	s.ErrorIs(s.store.DeletePokemon(s.ctx, charmeleon.ID), models.ErrNotFound)
}

func (s *SQLStoreSuite) TestLinkEvolutionRechecksInTransaction() {
	charmander := s.mustPokemon("Charmander", models.Ptr(4), s.fire.ID, models.DefaultStats())
	charmeleon := s.mustPokemon("Charmeleon", models.Ptr(5), s.fire.ID, models.DefaultStats())
	charizard := s.mustPokemon("Charizard", models.Ptr(6), s.fire.ID, models.DefaultStats())
	s.Require().NoError(s.store.LinkEvolution(s.ctx, charmander.ID, charmeleon.ID))
	s.Require().NoError(s.store.LinkEvolution(s.ctx, charmeleon.ID, charizard.ID))

	s.ErrorIs(s.store.LinkEvolution(s.ctx, charizard.ID, charmander.ID), models.ErrValidation, "cycle")
	s.ErrorIs(s.store.LinkEvolution(s.ctx, charmeleon.ID, charmander.ID), models.ErrValidation, "two-step cycle")
	s.ErrorIs(s.store.LinkEvolution(s.ctx, charmander.ID, charizard.ID), models.ErrValidation, "occupied slots")
	s.ErrorIs(s.store.LinkEvolution(s.ctx, charmeleon.ID, 404), models.ErrNotFound, "missing target")
	s.NoError(s.store.LinkEvolution(s.ctx, charmander.ID, charmeleon.ID), "existing link")

	// Rejected links leave nothing half written.
	for _, p := range []*models.Pokemon{charmander, charmeleon, charizard} {
		got, err := s.store.GetPokemon(s.ctx, p.ID)
		s.Require().NoError(err)
		switch p.ID {
		case charmander.ID:
			s.Nil(got.EvolvesFromID)
			s.Equal(charmeleon.ID, *got.EvolvesToID)
		case charmeleon.ID:
			s.Equal(charmander.ID, *got.EvolvesFromID)
			s.Equal(charizard.ID, *got.EvolvesToID)
		case charizard.ID:
			s.Equal(charmeleon.ID, *got.EvolvesFromID)
			s.Nil(got.EvolvesToID)
		}
	}
}

func (s *SQLStoreSuite) TestQueryPokemon() {
	s.mustPokemon("Charmander", models.Ptr(4), s.fire.ID, &models.Stats{HP: 39, Attack: 52, Defense: 43, SpecialAttack: 60, SpecialDefense: 50, Speed: 65})
	s.mustPokemon("Pikachu", models.Ptr(25), s.electric.ID, &models.Stats{HP: 35, Attack: 55, Defense: 40, SpecialAttack: 50, SpecialDefense: 50, Speed: 90})
	s.mustPokemon("Pikachu Libre", nil, s.electric.ID, models.DefaultStats())

	page, err := s.store.QueryPokemon(s.ctx, models.Query{})
	s.Require().NoError(err)
	s.Equal(3, page.Total)
	s.Equal([]string{"Pikachu Libre", "Charmander", "Pikachu"}, pokemonNames(page.Items))

	page, err = s.store.QueryPokemon(s.ctx, models.Query{
		Where: []models.Predicate{models.HasType(s.electric.ID), models.TextContains("PIKA")},
		Page:  models.PageRequest{Page: 2, Size: 1},
	})
	s.Require().NoError(err)
	s.Equal(2, page.Total)
	s.Equal(2, page.Pages)
	s.Equal([]string{"Pikachu"}, pokemonNames(page.Items))

	page, err = s.store.QueryPokemon(s.ctx, models.Query{
		Where: []models.Predicate{models.TotalStatsAtLeast(310), models.PokedexAtLeast(1)},
		Order: []models.Order{{Field: models.SortBySpeed, Desc: true}},
	})
	s.Require().NoError(err)
	s.Equal([]string{"Pikachu"}, pokemonNames(page.Items))

	page, err = s.store.QueryPokemon(s.ctx, models.Query{
		Where: []models.Predicate{models.IsBaseForm{}, models.IsFinalForm{}, models.LegendaryIs(false)},
		Order: []models.Order{{Field: models.SortByTotal, Desc: true}, {Field: models.SortByName}},
	})
	s.Require().NoError(err)
	s.Equal([]string{"Pikachu", "Charmander", "Pikachu Libre"}, pokemonNames(page.Items))

	n, err := s.store.CountPokemon(s.ctx, models.PrimaryTypeIs(s.fire.ID))
	s.Require().NoError(err)
	s.Equal(1, n)

	avg, err := s.store.AverageTotalStats(s.ctx)
	s.Require().NoError(err)
	s.InDelta(float64(309+320+300)/3, avg, 0.0001)
}

func (s *SQLStoreSuite) TestAverageOfEmptyCatalog() {
	avg, err := s.store.AverageTotalStats(s.ctx)
	s.Require().NoError(err)
	s.Zero(avg)
}

func pokemonNames(list []*models.Pokemon) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}

func TestSqliteDSN(t *testing.T) {
	require.Equal(t, "dex.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("dex.db"))
	require.Equal(t, "file:dex.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:dex.db?mode=rwc"))
	require.Equal(t, "dex.db?_pragma=foreign_keys(0)&_pragma=busy_timeout(5000)", sqliteDSN("dex.db?_pragma=foreign_keys(0)"))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
}
