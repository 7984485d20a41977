package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
)

func (s *Service) CreateType(ctx context.Context, name, color, description string) (*models.PokemonType, error) {
	logger := log.FromContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.reject(models.Invalid("name", "is required"))
	}

	logger.WithField("name", name).Info("creating pokemon type")

	if err := s.checkTypeName(ctx, name, 0); err != nil {
		return nil, s.reject(err)
	}

	now := s.timestamp()
	created, err := s.store.CreateType(ctx, &models.PokemonType{
		Name:        name,
		Color:       color,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, s.reject(fmt.Errorf("create type %q: %w", name, err))
	}

	s.metrics.IncWrite("type", "create")
	logger.WithFields(log.Fields{"id": created.ID, "name": created.Name}).Info("pokemon type created")
	return created, nil
}

func (s *Service) UpdateType(ctx context.Context, id int, name, color, description string) (*models.PokemonType, error) {
	logger := log.FromContext(ctx).WithField("id", id)
	logger.Info("updating pokemon type")

	existing, err := s.store.GetType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("type %d: %w", id, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.reject(models.Invalid("name", "is required"))
	}
	if err := s.checkTypeName(ctx, name, id); err != nil {
		return nil, s.reject(err)
	}

	existing.Name = name
	existing.Color = color
	existing.Description = description
	existing.UpdatedAt = s.timestamp()

	updated, err := s.store.UpdateType(ctx, existing)
	if err != nil {
		return nil, s.reject(fmt.Errorf("update type %d: %w", id, err))
	}

	s.metrics.IncWrite("type", "update")
	logger.WithField("name", updated.Name).Info("pokemon type updated")
	return updated, nil
}

func (s *Service) checkTypeName(ctx context.Context, name string, excludeID int) error {
	existing, err := s.store.GetTypeByName(ctx, name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != excludeID:
		return fmt.Errorf("%w: %s", models.ErrDuplicateType, name)
	}
	return nil
}

func (s *Service) FindType(ctx context.Context, id int) (*models.PokemonType, bool, error) {
	t, err := s.store.GetType(ctx, id)
	return optional(t, err)
}

// FindTypeByName matches names case-insensitively.
func (s *Service) FindTypeByName(ctx context.Context, name string) (*models.PokemonType, bool, error) {
	t, err := s.store.GetTypeByName(ctx, name)
	return optional(t, err)
}

func (s *Service) ListTypes(ctx context.Context) ([]*models.PokemonType, error) {
	return s.store.ListTypes(ctx)
}

// SearchTypes lists every type when term is blank.
func (s *Service) SearchTypes(ctx context.Context, term string) ([]*models.PokemonType, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.store.ListTypes(ctx)
	}
	return s.store.SearchTypes(ctx, term)
}

func (s *Service) TypeExists(ctx context.Context, id int) (bool, error) {
	return s.store.TypeExists(ctx, id)
}

func (s *Service) TypeUsage(ctx context.Context) ([]*models.TypeUsage, error) {
	return s.store.TypeUsage(ctx)
}

// DeleteType removes a type. A type still referenced by a Pokemon is refused
// by the store with models.ErrTypeInUse.
func (s *Service) DeleteType(ctx context.Context, id int) error {
	logger := log.FromContext(ctx).WithField("id", id)
	logger.Info("deleting pokemon type")

	exists, err := s.store.TypeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("type %d: %w", id, models.ErrNotFound)
	}

	if err := s.store.DeleteType(ctx, id); err != nil {
		return s.reject(fmt.Errorf("delete type %d: %w", id, err))
	}

	s.metrics.IncWrite("type", "delete")
	logger.Info("pokemon type deleted")
	return nil
}
