package catalog

import (
	"context"

	"github.com/FlagBrew/local-dex/internal/models"
)

func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.store.CountPokemon(ctx)
}

func (s *Service) CountByGeneration(ctx context.Context, generation int) (int, error) {
	return s.store.CountPokemon(ctx, models.GenerationIs(generation))
}

// CountByType counts Pokemon carrying typeID as primary or secondary type.
func (s *Service) CountByType(ctx context.Context, typeID int) (int, error) {
	return s.store.CountPokemon(ctx, models.HasType(typeID))
}

// AverageTotalStats is 0 for an empty catalog.
func (s *Service) AverageTotalStats(ctx context.Context) (float64, error) {
	return s.store.AverageTotalStats(ctx)
}
