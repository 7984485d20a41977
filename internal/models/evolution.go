package models

import "fmt"

// LinkConflict reports why from cannot be linked to evolve into to. A pair
// that is already linked is not a conflict.
func LinkConflict(from, to *Pokemon) error {
	if from.ID == to.ID {
		return Invalid("evolves_to", "a pokemon cannot evolve into itself")
	}
	if from.EvolvesToID != nil && *from.EvolvesToID != to.ID {
		return Invalid("evolves_to", from.Name+" already evolves into another pokemon")
	}
	if to.EvolvesFromID != nil && *to.EvolvesFromID != from.ID {
		return Invalid("evolves_from", to.Name+" already evolves from another pokemon")
	}
	return nil
}

// CheckAncestors walks the predecessors of from and rejects a link to toID
// when toID is one of them. get loads a Pokemon by id.
func CheckAncestors(from *Pokemon, toID int, get func(id int) (*Pokemon, error)) error {
	seen := map[int]bool{from.ID: true}
	for current := from; current.EvolvesFromID != nil; {
		prevID := *current.EvolvesFromID
		if prevID == toID {
			return Invalid("evolves_to", "link would create an evolution cycle")
		}
		if seen[prevID] {
			return fmt.Errorf("%w: cycle before pokemon %d", ErrCorruptChain, current.ID)
		}
		seen[prevID] = true

		prev, err := get(prevID)
		if err != nil {
			return err
		}
		current = prev
	}
	return nil
}
