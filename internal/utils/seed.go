package utils

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

//go:embed starter-catalog.json
var starterCatalog []byte

const (
	seedConcurrency = 8
	seedMaxBytes    = 32 << 20
)

type SeedType struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// SeedPokemon refers to types and evolutions by name so a catalog file does
// not depend on the ids of any particular database.
type SeedPokemon struct {
	Name          string        `json:"name"`
	PokedexNumber *int          `json:"pokedex_number"`
	Description   string        `json:"description"`
	Height        *float64      `json:"height"`
	Weight        *float64      `json:"weight"`
	PrimaryType   string        `json:"primary_type"`
	SecondaryType string        `json:"secondary_type"`
	Stats         *models.Stats `json:"stats"`
	Legendary     bool          `json:"is_legendary"`
	Mythical      bool          `json:"is_mythical"`
	Generation    int           `json:"generation"`
	ImageURL      string        `json:"image_url"`
	EvolvesTo     string        `json:"evolves_to"`
}

type SeedFile struct {
	Types   []SeedType    `json:"types"`
	Pokemon []SeedPokemon `json:"pokemon"`
}

// SeedResult counts what an import actually added.
type SeedResult struct {
	Types   int
	Pokemon int
	Links   int
}

// LoadSeed reads the catalog to import from the configured file or URL, or
// falls back to the bundled starter catalog.
func LoadSeed(ctx context.Context, misc models.MiscConfig) (*SeedFile, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case misc.SeedFile != "":
		data, err = os.ReadFile(misc.SeedFile)
	case misc.SeedURL != "":
		data, err = fetchSeed(ctx, misc.SeedURL)
	default:
		data = starterCatalog
	}
	if err != nil {
		return nil, err
	}

	var c SeedFile
	if err = json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return &c, nil
}

func fetchSeed(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download seed catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download seed catalog: unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, seedMaxBytes))
}

// seeder resolves names to ids while an import runs.
type seeder struct {
	svc *catalog.Service

	mu      sync.Mutex
	types   map[string]int
	pokemon map[string]int
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *seeder) remember(m map[string]int, name string, id int) {
	s.mu.Lock()
	m[key(name)] = id
	s.mu.Unlock()
}

func (s *seeder) typeID(ctx context.Context, field, name string) (int, error) {
	s.mu.Lock()
	id, ok := s.types[key(name)]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	t, found, err := s.svc.FindTypeByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, models.Invalid(field, "unknown type "+name)
	}
	s.remember(s.types, name, t.ID)
	return t.ID, nil
}

func (s *seeder) pokemonByName(ctx context.Context, name string) (*models.Pokemon, error) {
	p, found, err := s.svc.FindPokemonByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("pokemon %s: %w", name, models.ErrNotFound)
	}
	return p, nil
}

// Seed imports c into svc. Types and Pokemon are created concurrently,
// evolution links afterwards in file order. Entries that already exist by
// name are kept as they are, so importing the same catalog twice adds
// nothing.
func Seed(ctx context.Context, svc *catalog.Service, c *SeedFile) (*SeedResult, error) {
	logger := log.FromContext(ctx)
	s := &seeder{
		svc:     svc,
		types:   map[string]int{},
		pokemon: map[string]int{},
	}

	var createdTypes, createdPokemon atomic.Int64

	logger.WithField("count", len(c.Types)).Info("importing types")
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(seedConcurrency)
	for _, st := range c.Types {
		eg.Go(func() error {
			t, found, err := svc.FindTypeByName(gctx, st.Name)
			if err != nil {
				return err
			}
			if !found {
				t, err = svc.CreateType(gctx, st.Name, st.Color, st.Description)
				if errors.Is(err, models.ErrDuplicateType) {
					// Listed twice; the other copy won.
					return nil
				}
				if err != nil {
					return err
				}
				createdTypes.Add(1)
			}
			s.remember(s.types, t.Name, t.ID)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("import types: %w", err)
	}

	logger.WithField("count", len(c.Pokemon)).Info("importing pokemon")
	eg, gctx = errgroup.WithContext(ctx)
	eg.SetLimit(seedConcurrency)
	for _, sp := range c.Pokemon {
		eg.Go(func() error {
			existing, found, err := svc.FindPokemonByName(gctx, sp.Name)
			if err != nil {
				return err
			}
			if found {
				s.remember(s.pokemon, existing.Name, existing.ID)
				return nil
			}

			p := &models.Pokemon{
				Name:          sp.Name,
				PokedexNumber: sp.PokedexNumber,
				Description:   sp.Description,
				Height:        sp.Height,
				Weight:        sp.Weight,
				Stats:         sp.Stats,
				Legendary:     sp.Legendary,
				Mythical:      sp.Mythical,
				Generation:    sp.Generation,
				ImageURL:      sp.ImageURL,
			}
			if p.PrimaryTypeID, err = s.typeID(gctx, "primary_type", sp.PrimaryType); err != nil {
				return fmt.Errorf("pokemon %s: %w", sp.Name, err)
			}
			if sp.SecondaryType != "" {
				secondary, err := s.typeID(gctx, "secondary_type", sp.SecondaryType)
				if err != nil {
					return fmt.Errorf("pokemon %s: %w", sp.Name, err)
				}
				p.SecondaryTypeID = &secondary
			}

			created, err := svc.CreatePokemon(gctx, p)
			if errors.Is(err, models.ErrDuplicateName) || errors.Is(err, models.ErrDuplicatePokedexNumber) {
				// Same as types: the first copy is kept.
				return nil
			}
			if err != nil {
				return err
			}
			createdPokemon.Add(1)
			s.remember(s.pokemon, created.Name, created.ID)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("import pokemon: %w", err)
	}

	result := &SeedResult{
		Types:   int(createdTypes.Load()),
		Pokemon: int(createdPokemon.Load()),
	}

	for _, sp := range c.Pokemon {
		if sp.EvolvesTo == "" {
			continue
		}

		from, err := s.pokemonByName(ctx, sp.Name)
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", sp.Name, err)
		}
		to, err := s.pokemonByName(ctx, sp.EvolvesTo)
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", sp.Name, err)
		}
		if from.EvolvesToID != nil && *from.EvolvesToID == to.ID {
			continue
		}

		if err = svc.LinkEvolution(ctx, from.ID, to.ID); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", from.Name, to.Name, err)
		}
		result.Links++
	}

	logger.WithFields(log.Fields{
		"types":   result.Types,
		"pokemon": result.Pokemon,
		"links":   result.Links,
	}).Info("catalog seeded")
	return result, nil
}

// SeedCatalog runs the import requested by the configuration. Once it
// succeeds the request is cleared from the config file, except for memory
// catalogs, which start out empty every time.
func SeedCatalog(ctx context.Context, svc *catalog.Service, cfg *models.Config, path string) {
	logger := log.FromContext(ctx)

	c, err := LoadSeed(ctx, cfg.Misc)
	if err != nil {
		logger.WithError(err).Error("failed to load seed catalog")
		return
	}

	if _, err = Seed(ctx, svc, c); err != nil {
		logger.WithError(err).Error("failed to seed catalog")
		return
	}

	if cfg.Database.DBType == "memory" {
		return
	}

	cfg.Misc.SeedCatalog = false
	cfg.Misc.SeedFile = ""
	cfg.Misc.SeedURL = ""
	SetConfig(ctx, path, cfg)
}
