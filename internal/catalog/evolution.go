package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
)

// EvolutionChain returns the whole chain the Pokemon belongs to, base form
// first. Links are followed through the store one id at a time; a revisited
// id, a dangling link, a one-sided link or a chain longer than the configured
// bound is reported as models.ErrCorruptChain.
func (s *Service) EvolutionChain(ctx context.Context, id int) ([]*models.Pokemon, error) {
	start, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	loaded := map[int]*models.Pokemon{start.ID: start}
	load := func(id int) (*models.Pokemon, error) {
		if p, ok := loaded[id]; ok {
			return p, nil
		}
		p, err := s.store.GetPokemon(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: link to missing pokemon %d", models.ErrCorruptChain, id)
		}
		if err != nil {
			return nil, err
		}
		loaded[id] = p
		return p, nil
	}

	base := start
	walked := map[int]bool{start.ID: true}
	for base.EvolvesFromID != nil {
		prevID := *base.EvolvesFromID
		if walked[prevID] || len(walked) >= s.maxChainLength {
			return nil, fmt.Errorf("%w: cycle before pokemon %d", models.ErrCorruptChain, base.ID)
		}
		prev, err := load(prevID)
		if err != nil {
			return nil, err
		}
		walked[prevID] = true
		base = prev
	}

	chain := []*models.Pokemon{base}
	inChain := map[int]bool{base.ID: true}
	for current := base; current.EvolvesToID != nil; {
		nextID := *current.EvolvesToID
		if inChain[nextID] || len(chain) >= s.maxChainLength {
			return nil, fmt.Errorf("%w: cycle after pokemon %d", models.ErrCorruptChain, current.ID)
		}
		next, err := load(nextID)
		if err != nil {
			return nil, err
		}
		if next.EvolvesFromID == nil || *next.EvolvesFromID != current.ID {
			return nil, fmt.Errorf("%w: pokemon %d does not link back to %d", models.ErrCorruptChain, next.ID, current.ID)
		}
		chain = append(chain, next)
		inChain[nextID] = true
		current = next
	}

	if !inChain[start.ID] {
		return nil, fmt.Errorf("%w: pokemon %d is not reachable from its base form", models.ErrCorruptChain, start.ID)
	}

	s.metrics.ObserveChain(len(chain))
	log.FromContext(ctx).WithFields(log.Fields{"id": id, "length": len(chain)}).Debug("resolved evolution chain")
	return chain, nil
}

func (s *Service) CanEvolve(ctx context.Context, id int) (bool, error) {
	p, err := s.mustGet(ctx, id)
	if err != nil {
		return false, err
	}
	return p.CanEvolve(), nil
}

// Evolve looks up what the Pokemon evolves into. Nothing is modified.
func (s *Service) Evolve(ctx context.Context, id int) (*models.Pokemon, error) {
	logger := log.FromContext(ctx).WithField("id", id)

	p, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanEvolve() {
		return nil, s.reject(fmt.Errorf("%w: %s", models.ErrCannotEvolve, p.Name))
	}

	target, err := s.store.GetPokemon(ctx, *p.EvolvesToID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: link to missing pokemon %d", models.ErrCorruptChain, *p.EvolvesToID)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{"from": p.Name, "to": target.Name}).Info("pokemon evolves")
	return target, nil
}

// BaseForms lists every Pokemon that does not evolve from another.
func (s *Service) BaseForms(ctx context.Context) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.IsBaseForm{})
}

// FinalForms lists every Pokemon that does not evolve any further.
func (s *Service) FinalForms(ctx context.Context) ([]*models.Pokemon, error) {
	return s.all(ctx, nil, models.IsFinalForm{})
}

// LinkEvolution records that fromID evolves into toID, keeping both sides of
// the link consistent and the graph a set of simple, acyclic chains.
func (s *Service) LinkEvolution(ctx context.Context, fromID, toID int) error {
	logger := log.FromContext(ctx).WithFields(log.Fields{"from": fromID, "to": toID})
	logger.Info("linking evolution")

	if fromID == toID {
		return s.reject(models.Invalid("evolves_to", "a pokemon cannot evolve into itself"))
	}

	from, err := s.mustGet(ctx, fromID)
	if err != nil {
		return err
	}
	to, err := s.mustGet(ctx, toID)
	if err != nil {
		return err
	}

	if from.EvolvesToID != nil && *from.EvolvesToID == toID {
		return nil
	}
	if err := models.LinkConflict(from, to); err != nil {
		return s.reject(err)
	}

	steps := 0
	err = models.CheckAncestors(from, toID, func(id int) (*models.Pokemon, error) {
		steps++
		if steps > s.maxChainLength {
			return nil, fmt.Errorf("%w: chain longer than %d", models.ErrCorruptChain, s.maxChainLength)
		}
		return s.mustGet(ctx, id)
	})
	if err != nil {
		return s.reject(err)
	}

	// The store repeats these checks under its own lock or transaction.
	if err := s.store.LinkEvolution(ctx, fromID, toID); err != nil {
		return s.reject(fmt.Errorf("link evolution %d -> %d: %w", fromID, toID, err))
	}

	s.metrics.IncWrite("evolution", "link")
	logger.WithFields(log.Fields{"from_name": from.Name, "to_name": to.Name}).Info("evolution linked")
	return nil
}

// UnlinkEvolution removes the forward link of fromID and the matching
// backward link.
func (s *Service) UnlinkEvolution(ctx context.Context, fromID int) error {
	logger := log.FromContext(ctx).WithField("from", fromID)

	from, err := s.mustGet(ctx, fromID)
	if err != nil {
		return err
	}
	if !from.CanEvolve() {
		return s.reject(fmt.Errorf("%w: %s", models.ErrCannotEvolve, from.Name))
	}

	if err := s.store.UnlinkEvolution(ctx, fromID); err != nil {
		return fmt.Errorf("unlink evolution %d: %w", fromID, err)
	}

	s.metrics.IncWrite("evolution", "unlink")
	logger.Info("evolution unlinked")
	return nil
}
