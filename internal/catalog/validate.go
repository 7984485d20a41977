package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FlagBrew/local-dex/internal/models"
)

// Validate checks required fields, value ranges and that the referenced types
// exist. It runs before every create and update.
func (s *Service) Validate(ctx context.Context, p *models.Pokemon) error {
	if strings.TrimSpace(p.Name) == "" {
		return models.Invalid("name", "is required")
	}
	if p.PrimaryTypeID <= 0 {
		return models.Invalid("primary_type_id", "is required")
	}
	if p.PokedexNumber != nil && *p.PokedexNumber <= 0 {
		return models.Invalid("pokedex_number", "must be positive")
	}
	if p.Stats == nil {
		return models.Invalid("stats", "are required")
	}
	if err := p.Stats.Validate(); err != nil {
		return err
	}
	if p.Height != nil && *p.Height <= 0 {
		return models.Invalid("height", "must be positive")
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return models.Invalid("weight", "must be positive")
	}
	if p.SecondaryTypeID != nil && *p.SecondaryTypeID == p.PrimaryTypeID {
		return models.Invalid("secondary_type_id", "must differ from the primary type")
	}

	if err := s.checkTypeRef(ctx, "primary_type_id", p.PrimaryTypeID); err != nil {
		return err
	}
	if p.SecondaryTypeID != nil {
		if err := s.checkTypeRef(ctx, "secondary_type_id", *p.SecondaryTypeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkTypeRef(ctx context.Context, field string, id int) error {
	exists, err := s.store.TypeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &models.ReferenceError{Field: field, TypeID: id}
	}
	return nil
}

// ValidateUnique rejects a name or pokedex number already held by a Pokemon
// other than excludeID (0 excludes nothing). Concurrent writers can both pass
// this check; the store's own constraint decides between them.
func (s *Service) ValidateUnique(ctx context.Context, p *models.Pokemon, excludeID int) error {
	existing, err := s.store.GetPokemonByName(ctx, p.Name)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return err
	case existing.ID != excludeID:
		return fmt.Errorf("%w: %s", models.ErrDuplicateName, p.Name)
	}

	if p.PokedexNumber == nil {
		return nil
	}

	existing, err = s.store.GetPokemonByPokedexNumber(ctx, *p.PokedexNumber)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return err
	case existing.ID != excludeID:
		return fmt.Errorf("%w: %d", models.ErrDuplicatePokedexNumber, *p.PokedexNumber)
	}
	return nil
}
