package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
)

// CreatePokemon validates p and stores it. Missing stats default to 50 across
// the board. Evolution links are ignored here; see LinkEvolution.
func (s *Service) CreatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error) {
	candidate := p.Clone()
	candidate.ID = 0
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.EvolvesFromID = nil
	candidate.EvolvesToID = nil
	if candidate.Stats == nil {
		candidate.Stats = models.DefaultStats()
	}

	logger := log.FromContext(ctx).WithField("name", candidate.Name)
	logger.Info("creating pokemon")

	if err := s.Validate(ctx, candidate); err != nil {
		return nil, s.reject(err)
	}
	if err := s.ValidateUnique(ctx, candidate, 0); err != nil {
		return nil, s.reject(err)
	}

	now := s.timestamp()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	created, err := s.store.CreatePokemon(ctx, candidate)
	if err != nil {
		return nil, s.reject(fmt.Errorf("create pokemon %q: %w", candidate.Name, err))
	}

	s.metrics.IncWrite("pokemon", "create")
	logger.WithField("id", created.ID).Info("pokemon created")
	return created, nil
}

// UpdatePokemon replaces every field of the Pokemon with id from p. The
// creation time and evolution links are kept.
func (s *Service) UpdatePokemon(ctx context.Context, id int, p *models.Pokemon) (*models.Pokemon, error) {
	logger := log.FromContext(ctx).WithField("id", id)
	logger.Info("updating pokemon")

	existing, err := s.store.GetPokemon(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pokemon %d: %w", id, err)
	}

	candidate := p.Clone()
	candidate.ID = id
	candidate.Name = strings.TrimSpace(candidate.Name)

	if err := s.Validate(ctx, candidate); err != nil {
		return nil, s.reject(err)
	}
	if err := s.ValidateUnique(ctx, candidate, id); err != nil {
		return nil, s.reject(err)
	}

	candidate.CreatedAt = existing.CreatedAt
	candidate.UpdatedAt = s.timestamp()
	candidate.EvolvesFromID = existing.EvolvesFromID
	candidate.EvolvesToID = existing.EvolvesToID

	updated, err := s.store.UpdatePokemon(ctx, candidate)
	if err != nil {
		return nil, s.reject(fmt.Errorf("update pokemon %d: %w", id, err))
	}

	s.metrics.IncWrite("pokemon", "update")
	logger.WithField("name", updated.Name).Info("pokemon updated")
	return updated, nil
}

func (s *Service) DeletePokemon(ctx context.Context, id int) error {
	logger := log.FromContext(ctx).WithField("id", id)
	logger.Info("deleting pokemon")

	exists, err := s.store.PokemonExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("pokemon %d: %w", id, models.ErrNotFound)
	}

	if err := s.store.DeletePokemon(ctx, id); err != nil {
		return fmt.Errorf("delete pokemon %d: %w", id, err)
	}

	s.metrics.IncWrite("pokemon", "delete")
	logger.Info("pokemon deleted")
	return nil
}

func (s *Service) FindPokemon(ctx context.Context, id int) (*models.Pokemon, bool, error) {
	p, err := s.store.GetPokemon(ctx, id)
	return optional(p, err)
}

// FindPokemonByName matches names case-insensitively.
func (s *Service) FindPokemonByName(ctx context.Context, name string) (*models.Pokemon, bool, error) {
	p, err := s.store.GetPokemonByName(ctx, name)
	return optional(p, err)
}

func (s *Service) FindPokemonByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, bool, error) {
	p, err := s.store.GetPokemonByPokedexNumber(ctx, number)
	return optional(p, err)
}

func (s *Service) PokemonExists(ctx context.Context, id int) (bool, error) {
	return s.store.PokemonExists(ctx, id)
}

// mustGet loads a Pokemon that the operation requires to exist.
func (s *Service) mustGet(ctx context.Context, id int) (*models.Pokemon, error) {
	p, err := s.store.GetPokemon(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pokemon %d: %w", id, err)
	}
	return p, nil
}
