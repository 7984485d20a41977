package models

import "time"

type PokemonType struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TypeUsage is a type together with the number of Pokemon that carry it as
// their primary or secondary type.
type TypeUsage struct {
	Type  *PokemonType `json:"type"`
	Count int          `json:"count"`
}

// Pokemon is a catalog entry. Evolution links are plain ids; the referenced
// Pokemon are loaded through the store when a chain is resolved.
type Pokemon struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	PokedexNumber   *int      `json:"pokedex_number,omitempty"`
	Description     string    `json:"description"`
	Height          *float64  `json:"height,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	PrimaryTypeID   int       `json:"primary_type_id"`
	SecondaryTypeID *int      `json:"secondary_type_id,omitempty"`
	Stats           *Stats    `json:"stats"`
	EvolvesFromID   *int      `json:"evolves_from_id,omitempty"`
	EvolvesToID     *int      `json:"evolves_to_id,omitempty"`
	Legendary       bool      `json:"is_legendary"`
	Mythical        bool      `json:"is_mythical"`
	Generation      int       `json:"generation"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Pokemon) IsSpecial() bool {
	return p.Legendary || p.Mythical
}

func (p *Pokemon) CanEvolve() bool {
	return p.EvolvesToID != nil
}

func (p *Pokemon) IsBaseForm() bool {
	return p.EvolvesFromID == nil
}

func (p *Pokemon) IsFinalForm() bool {
	return p.EvolvesToID == nil
}

// EvolutionStage is 1 for a base form, 3 for a final form and 2 in between.
// A Pokemon with no links at all is a base form.
func (p *Pokemon) EvolutionStage() int {
	switch {
	case p.EvolvesFromID == nil:
		return 1
	case p.EvolvesToID == nil:
		return 3
	default:
		return 2
	}
}

// HasType reports whether typeID is the primary or secondary type.
func (p *Pokemon) HasType(typeID int) bool {
	return p.PrimaryTypeID == typeID || (p.SecondaryTypeID != nil && *p.SecondaryTypeID == typeID)
}

// BMI is weight / height², or 0 when either measurement is missing or zero.
func (p *Pokemon) BMI() float64 {
	if p.Height == nil || p.Weight == nil || *p.Height == 0 || *p.Weight == 0 {
		return 0
	}
	return *p.Weight / (*p.Height * *p.Height)
}

// TotalStats is the stat block total, 0 without stats.
func (p *Pokemon) TotalStats() int {
	if p.Stats == nil {
		return 0
	}
	return p.Stats.Total()
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (p *Pokemon) Clone() *Pokemon {
	if p == nil {
		return nil
	}
	c := *p
	c.PokedexNumber = cloneInt(p.PokedexNumber)
	c.SecondaryTypeID = cloneInt(p.SecondaryTypeID)
	c.EvolvesFromID = cloneInt(p.EvolvesFromID)
	c.EvolvesToID = cloneInt(p.EvolvesToID)
	c.Height = cloneFloat(p.Height)
	c.Weight = cloneFloat(p.Weight)
	if p.Stats != nil {
		s := *p.Stats
		c.Stats = &s
	}
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
