package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
)

// Filter holds the optional criteria of a Pokemon filter. Each criterion that
// is set narrows the result; unset criteria impose nothing.
type Filter struct {
	Generation *int
	TypeID     *int
	Legendary  *bool
	Mythical   *bool
	MinPokedex *int
	MaxPokedex *int
}

// Predicates returns one AND-ed predicate per criterion that is set.
func (f Filter) Predicates() []models.Predicate {
	var preds []models.Predicate
	if f.Generation != nil {
		preds = append(preds, models.GenerationIs(*f.Generation))
	}
	if f.TypeID != nil {
		preds = append(preds, models.HasType(*f.TypeID))
	}
	if f.Legendary != nil {
		preds = append(preds, models.LegendaryIs(*f.Legendary))
	}
	if f.Mythical != nil {
		preds = append(preds, models.MythicalIs(*f.Mythical))
	}
	if f.MinPokedex != nil {
		preds = append(preds, models.PokedexAtLeast(*f.MinPokedex))
	}
	if f.MaxPokedex != nil {
		preds = append(preds, models.PokedexAtMost(*f.MaxPokedex))
	}
	return preds
}

// Search matches term case-insensitively against names and descriptions. A
// blank term matches every Pokemon.
func (s *Service) Search(ctx context.Context, term string, page models.PageRequest) (*models.PokemonPage, error) {
	log.FromContext(ctx).WithField("term", term).Debug("searching pokemon")

	var preds []models.Predicate
	if term = strings.TrimSpace(term); term != "" {
		preds = append(preds, models.TextContains(term))
	}
	return s.query(ctx, preds, page)
}

// FilterPokemon returns the Pokemon matching every criterion of f in pokedex
// order.
func (s *Service) FilterPokemon(ctx context.Context, f Filter, page models.PageRequest) (*models.PokemonPage, error) {
	return s.query(ctx, f.Predicates(), page)
}

// ListPokemon pages through the whole catalog. The given orders take
// precedence over pokedex order.
func (s *Service) ListPokemon(ctx context.Context, page models.PageRequest, orders ...models.Order) (*models.PokemonPage, error) {
	return s.query(ctx, nil, page, orders...)
}

func (s *Service) query(ctx context.Context, preds []models.Predicate, page models.PageRequest, orders ...models.Order) (*models.PokemonPage, error) {
	order := models.DefaultOrder
	if len(orders) > 0 {
		order = append(append([]models.Order{}, orders...), models.DefaultOrder...)
	}
	return s.store.QueryPokemon(ctx, models.Query{
		Where: preds,
		Order: order,
		Page:  s.page(page),
	})
}

// all returns every match without pagination.
func (s *Service) all(ctx context.Context, order []models.Order, preds ...models.Predicate) ([]*models.Pokemon, error) {
	result, err := s.store.QueryPokemon(ctx, models.Query{Where: preds, Order: order})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// ByType lists the Pokemon having typeID as primary or secondary type.
func (s *Service) ByType(ctx context.Context, typeID int) ([]*models.Pokemon, error) {
	exists, err := s.store.TypeExists(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("type %d: %w", typeID, models.ErrNotFound)
	}
	return s.all(ctx, nil, models.HasType(typeID))
}

func (s *Service) ByGeneration(ctx context.Context, generation int) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.GenerationIs(generation))
}

func (s *Service) Legendaries(ctx context.Context) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.LegendaryIs(true))
}

func (s *Service) Mythicals(ctx context.Context) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.MythicalIs(true))
}

func (s *Service) ByMinTotalStats(ctx context.Context, minTotal int) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.TotalStatsAtLeast(minTotal))
}

// Fastest lists Pokemon with at least minSpeed, fastest first.
func (s *Service) Fastest(ctx context.Context, minSpeed int) ([]*models.Pokemon, error) {
	order := append([]models.Order{{Field: models.SortBySpeed, Desc: true}}, models.DefaultOrder...)
	return s.all(ctx, order, models.SpeedAtLeast(minSpeed))
}

// Strongest lists Pokemon with at least minAttack, highest attack first.
func (s *Service) Strongest(ctx context.Context, minAttack int) ([]*models.Pokemon, error) {
	order := append([]models.Order{{Field: models.SortByAttack, Desc: true}}, models.DefaultOrder...)
	return s.all(ctx, order, models.AttackAtLeast(minAttack))
}
