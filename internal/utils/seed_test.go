package utils

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/database/memory"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallCatalog = `{
  "types": [{"name": "Electric"}, {"name": "Normal"}],
  "pokemon": [
    {"name": "Pichu", "pokedex_number": 172, "primary_type": "Electric", "generation": 2, "evolves_to": "Pikachu"},
    {"name": "Pikachu", "pokedex_number": 25, "primary_type": "electric", "generation": 1}
  ]
}`

func newCatalog(t *testing.T) (context.Context, *catalog.Service, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	ctx := log.NewContext(context.Background(), NewLogger("logfmt", log.InfoLevel, false, &out))
	return ctx, catalog.New(memory.New()), &out
}

func TestSeedStarterCatalog(t *testing.T) {
	ctx, svc, out := newCatalog(t)

	c, err := LoadSeed(ctx, models.MiscConfig{SeedCatalog: true})
	require.NoError(t, err)

	result, err := Seed(ctx, svc, c)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Types: 8, Pokemon: 13, Links: 7}, result)
	assert.Contains(t, out.String(), "catalog seeded")

	charizard, found, err := svc.FindPokemonByName(ctx, "charizard")
	require.NoError(t, err)
	require.True(t, found)
	chain, err := svc.EvolutionChain(ctx, charizard.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "Charmander", chain[0].Name)

	legendaries, err := svc.Legendaries(ctx)
	require.NoError(t, err)
	require.Len(t, legendaries, 1)
	assert.Equal(t, "Mewtwo", legendaries[0].Name)

	again, err := Seed(ctx, svc, c)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{}, again)

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, total)
}

func TestSeedFromFile(t *testing.T) {
	ctx, svc, _ := newCatalog(t)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	c, err := LoadSeed(ctx, models.MiscConfig{SeedCatalog: true, SeedFile: path})
	require.NoError(t, err)

	result, err := Seed(ctx, svc, c)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Types: 2, Pokemon: 2, Links: 1}, result)

	pichu, found, err := svc.FindPokemonByName(ctx, "Pichu")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, pichu.CanEvolve())
	assert.Equal(t, 300, pichu.TotalStats())
}

func TestSeedFromURL(t *testing.T) {
	ctx, svc, _ := newCatalog(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(smallCatalog))
	}))
	defer srv.Close()

	c, err := LoadSeed(ctx, models.MiscConfig{SeedCatalog: true, SeedURL: srv.URL + "/catalog.json"})
	require.NoError(t, err)
	require.Len(t, c.Pokemon, 2)

	_, err = Seed(ctx, svc, c)
	require.NoError(t, err)

	_, err = LoadSeed(ctx, models.MiscConfig{SeedCatalog: true, SeedURL: srv.URL + "/missing.json"})
	assert.ErrorContains(t, err, "unexpected status")
}

func TestSeedToleratesRepeatedPokemon(t *testing.T) {
	ctx, svc, _ := newCatalog(t)

	c := &SeedFile{
		Types: []SeedType{{Name: "Electric"}, {Name: "Electric"}},
		Pokemon: []SeedPokemon{
			{Name: "Pikachu", PokedexNumber: models.Ptr(25), PrimaryType: "Electric", Generation: 1},
			{Name: "Pikachu", PokedexNumber: models.Ptr(25), PrimaryType: "Electric", Generation: 1},
			{Name: "Pika", PokedexNumber: models.Ptr(25), PrimaryType: "Electric", Generation: 1},
		},
	}

	result, err := Seed(ctx, svc, c)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Types)
	assert.Equal(t, 1, result.Pokemon)

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSeedUnknownType(t *testing.T) {
	ctx, svc, _ := newCatalog(t)

	c := &SeedFile{Pokemon: []SeedPokemon{{Name: "Missingno", PrimaryType: "Bird", Generation: 1}}}
	_, err := Seed(ctx, svc, c)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorContains(t, err, "unknown type Bird")
}

func TestSeedCatalogClearsRequest(t *testing.T) {
	ctx, svc, _ := newCatalog(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &models.Config{
		Database: models.DatabaseConfig{DBType: "sqlite", ConnectionString: "file:dex.db"},
		Misc:     models.MiscConfig{SeedCatalog: true},
	}
	SeedCatalog(ctx, svc, cfg, path)
	assert.False(t, cfg.Misc.SeedCatalog)

	saved, err := readConfig(path)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.Misc.SeedCatalog)

	memoryCfg := &models.Config{
		Database: models.DatabaseConfig{DBType: "memory"},
		Misc:     models.MiscConfig{SeedCatalog: true},
	}
	SeedCatalog(ctx, catalog.New(memory.New()), memoryCfg, path)
	assert.True(t, memoryCfg.Misc.SeedCatalog)
}

func TestNewLoggerFormats(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger("json", log.WarnLevel, false, &out)
	logger.Info("hidden")
	logger.WithField("id", 1).Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"message":"shown"`)

	out.Reset()
	NewLogger("logfmt", log.WarnLevel, true, &out).Debug("debug wins")
	assert.Contains(t, out.String(), "debug wins")
}
