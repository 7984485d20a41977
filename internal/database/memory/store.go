// Package memory provides an in-memory catalog store. Uniqueness and
// referential checks run under a single lock, so it arbitrates concurrent
// writers the same way the SQL unique indexes do.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/models"
)

type Store struct {
	mu            sync.RWMutex
	types         map[int]*models.PokemonType
	pokemon       map[int]*models.Pokemon
	nextTypeID    int
	nextPokemonID int
}

var _ catalog.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		types:   make(map[int]*models.PokemonType),
		pokemon: make(map[int]*models.Pokemon),
	}
}

func cloneType(t *models.PokemonType) *models.PokemonType {
	c := *t
	return &c
}

func (s *Store) CreateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typeNameTaken(t.Name, 0) {
		return nil, models.ErrDuplicateType
	}

	s.nextTypeID++
	stored := cloneType(t)
	stored.ID = s.nextTypeID
	s.types[stored.ID] = stored
	return cloneType(stored), nil
}

func (s *Store) UpdateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.types[t.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if s.typeNameTaken(t.Name, t.ID) {
		return nil, models.ErrDuplicateType
	}

	existing.Name = t.Name
	existing.Color = t.Color
	existing.Description = t.Description
	existing.UpdatedAt = t.UpdatedAt
	return cloneType(existing), nil
}

func (s *Store) typeNameTaken(name string, excludeID int) bool {
	for _, t := range s.types {
		if t.ID != excludeID && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) GetType(ctx context.Context, id int) (*models.PokemonType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneType(t), nil
}

func (s *Store) GetTypeByName(ctx context.Context, name string) (*models.PokemonType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.types {
		if strings.EqualFold(t.Name, name) {
			return cloneType(t), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) ListTypes(ctx context.Context) ([]*models.PokemonType, error) {
	return s.selectTypes(func(*models.PokemonType) bool { return true }), nil
}

func (s *Store) SearchTypes(ctx context.Context, term string) ([]*models.PokemonType, error) {
	term = strings.ToLower(term)
	return s.selectTypes(func(t *models.PokemonType) bool {
		return strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term)
	}), nil
}

func (s *Store) selectTypes(keep func(*models.PokemonType) bool) []*models.PokemonType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.PokemonType{}
	for _, t := range s.types {
		if keep(t) {
			out = append(out, cloneType(t))
		}
	}
	slices.SortFunc(out, func(a, b *models.PokemonType) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *Store) DeleteType(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[id]; !ok {
		return models.ErrNotFound
	}
	for _, p := range s.pokemon {
		if p.HasType(id) {
			return models.ErrTypeInUse
		}
	}
	delete(s.types, id)
	return nil
}

func (s *Store) TypeExists(ctx context.Context, id int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.types[id]
	return ok, nil
}

func (s *Store) TypeUsage(ctx context.Context) ([]*models.TypeUsage, error) {
	types, _ := s.ListTypes(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.TypeUsage, 0, len(types))
	for _, t := range types {
		usage := &models.TypeUsage{Type: t}
		for _, p := range s.pokemon {
			if p.HasType(t.ID) {
				usage.Count++
			}
		}
		out = append(out, usage)
	}
	return out, nil
}

func (s *Store) CreatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPokemon(p, 0); err != nil {
		return nil, err
	}

	s.nextPokemonID++
	stored := p.Clone()
	stored.ID = s.nextPokemonID
	stored.EvolvesFromID = nil
	stored.EvolvesToID = nil
	s.pokemon[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *Store) UpdatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pokemon[p.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if err := s.checkPokemon(p, p.ID); err != nil {
		return nil, err
	}

	stored := p.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.EvolvesFromID = existing.EvolvesFromID
	stored.EvolvesToID = existing.EvolvesToID
	s.pokemon[stored.ID] = stored
	return stored.Clone(), nil
}

// checkPokemon mirrors the SQL unique indexes and foreign keys.
func (s *Store) checkPokemon(p *models.Pokemon, excludeID int) error {
	if _, ok := s.types[p.PrimaryTypeID]; !ok {
		return &models.ReferenceError{Field: "primary_type_id", TypeID: p.PrimaryTypeID}
	}
	if p.SecondaryTypeID != nil {
		if _, ok := s.types[*p.SecondaryTypeID]; !ok {
			return &models.ReferenceError{Field: "secondary_type_id", TypeID: *p.SecondaryTypeID}
		}
	}

	for _, other := range s.pokemon {
		if other.ID == excludeID {
			continue
		}
		if strings.EqualFold(other.Name, p.Name) {
			return models.ErrDuplicateName
		}
		if p.PokedexNumber != nil && other.PokedexNumber != nil && *other.PokedexNumber == *p.PokedexNumber {
			return models.ErrDuplicatePokedexNumber
		}
	}
	return nil
}

func (s *Store) GetPokemon(ctx context.Context, id int) (*models.Pokemon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pokemon[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) GetPokemonByName(ctx context.Context, name string) (*models.Pokemon, error) {
	return s.findPokemon(func(p *models.Pokemon) bool { return strings.EqualFold(p.Name, name) })
}

func (s *Store) GetPokemonByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error) {
	return s.findPokemon(func(p *models.Pokemon) bool {
		return p.PokedexNumber != nil && *p.PokedexNumber == number
	})
}

func (s *Store) findPokemon(match func(*models.Pokemon) bool) (*models.Pokemon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pokemon {
		if match(p) {
			return p.Clone(), nil
		}
	}
	return nil, models.ErrNotFound
}

// DeletePokemon removes the entry and nulls the links that pointed at it.
func (s *Store) DeletePokemon(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pokemon[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.pokemon, id)

	for _, p := range s.pokemon {
		if p.EvolvesFromID != nil && *p.EvolvesFromID == id {
			p.EvolvesFromID = nil
		}
		if p.EvolvesToID != nil && *p.EvolvesToID == id {
			p.EvolvesToID = nil
		}
	}
	return nil
}

func (s *Store) PokemonExists(ctx context.Context, id int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.pokemon[id]
	return ok, nil
}

func (s *Store) QueryPokemon(ctx context.Context, q models.Query) (*models.PokemonPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := s.matching(q.Where)

	orders := q.Orders()
	slices.SortStableFunc(matches, func(a, b *models.Pokemon) int {
		for _, o := range orders {
			c := compareBy(o.Field, a, b)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	total := len(matches)
	items := matches
	if q.Page.Size > 0 {
		start := min(q.Page.Offset(), total)
		end := min(start+q.Page.Size, total)
		items = matches[start:end]
	}
	return models.NewPokemonPage(items, q.Page, total), nil
}

func (s *Store) matching(preds []models.Predicate) []*models.Pokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Pokemon{}
	for _, p := range s.pokemon {
		if models.MatchAll(p, preds) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// compareBy sorts missing pokedex numbers first, like sqlite and mysql do.
func compareBy(field models.SortField, a, b *models.Pokemon) int {
	switch field {
	case models.SortByPokedex:
		switch {
		case a.PokedexNumber == nil && b.PokedexNumber == nil:
			return 0
		case a.PokedexNumber == nil:
			return -1
		case b.PokedexNumber == nil:
			return 1
		}
		return cmp.Compare(*a.PokedexNumber, *b.PokedexNumber)
	case models.SortByName:
		return cmp.Compare(a.Name, b.Name)
	case models.SortByGeneration:
		return cmp.Compare(a.Generation, b.Generation)
	case models.SortByTotal:
		return cmp.Compare(a.TotalStats(), b.TotalStats())
	case models.SortBySpeed:
		return cmp.Compare(statOf(a).Speed, statOf(b).Speed)
	case models.SortByAttack:
		return cmp.Compare(statOf(a).Attack, statOf(b).Attack)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

func statOf(p *models.Pokemon) models.Stats {
	if p.Stats == nil {
		return models.Stats{}
	}
	return *p.Stats
}

func (s *Store) CountPokemon(ctx context.Context, preds ...models.Predicate) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.pokemon {
		if models.MatchAll(p, preds) {
			count++
		}
	}
	return count, nil
}

func (s *Store) AverageTotalStats(ctx context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.pokemon) == 0 {
		return 0, nil
	}
	sum := 0
	for _, p := range s.pokemon {
		sum += p.TotalStats()
	}
	return float64(sum) / float64(len(s.pokemon)), nil
}

func (s *Store) LinkEvolution(ctx context.Context, fromID, toID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.pokemon[fromID]
	if !ok {
		return models.ErrNotFound
	}
	to, ok := s.pokemon[toID]
	if !ok {
		return models.ErrNotFound
	}

	if err := models.LinkConflict(from, to); err != nil {
		return err
	}
	err := models.CheckAncestors(from, toID, func(id int) (*models.Pokemon, error) {
		p, ok := s.pokemon[id]
		if !ok {
			return nil, fmt.Errorf("%w: link to missing pokemon %d", models.ErrCorruptChain, id)
		}
		return p, nil
	})
	if err != nil {
		return err
	}

	from.EvolvesToID = models.Ptr(toID)
	to.EvolvesFromID = models.Ptr(fromID)
	return nil
}

func (s *Store) UnlinkEvolution(ctx context.Context, fromID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.pokemon[fromID]
	if !ok {
		return models.ErrNotFound
	}
	if from.EvolvesToID != nil {
		if to, ok := s.pokemon[*from.EvolvesToID]; ok && to.EvolvesFromID != nil && *to.EvolvesFromID == fromID {
			to.EvolvesFromID = nil
		}
	}
	from.EvolvesToID = nil
	return nil
}
