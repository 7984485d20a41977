package models

import (
	"math"
	"strings"
)

// Predicate narrows a Pokemon query. Stores either translate a predicate into
// their own query language or fall back to Match.
type Predicate interface {
	Match(p *Pokemon) bool
}

type (
	GenerationIs      int
	HasType           int
	PrimaryTypeIs     int
	LegendaryIs       bool
	MythicalIs        bool
	PokedexAtLeast    int
	PokedexAtMost     int
	TextContains      string
	TotalStatsAtLeast int
	SpeedAtLeast      int
	AttackAtLeast     int
	IsBaseForm        struct{}
	IsFinalForm       struct{}
)

func (g GenerationIs) Match(p *Pokemon) bool  { return p.Generation == int(g) }
func (t HasType) Match(p *Pokemon) bool       { return p.HasType(int(t)) }
func (t PrimaryTypeIs) Match(p *Pokemon) bool { return p.PrimaryTypeID == int(t) }
func (l LegendaryIs) Match(p *Pokemon) bool   { return p.Legendary == bool(l) }
func (m MythicalIs) Match(p *Pokemon) bool    { return p.Mythical == bool(m) }
func (IsBaseForm) Match(p *Pokemon) bool      { return p.IsBaseForm() }
func (IsFinalForm) Match(p *Pokemon) bool     { return p.IsFinalForm() }

func (n PokedexAtLeast) Match(p *Pokemon) bool {
	return p.PokedexNumber != nil && *p.PokedexNumber >= int(n)
}

func (n PokedexAtMost) Match(p *Pokemon) bool {
	return p.PokedexNumber != nil && *p.PokedexNumber <= int(n)
}

// Match is a case-insensitive substring test against name or description.
func (t TextContains) Match(p *Pokemon) bool {
	term := strings.ToLower(string(t))
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func (n TotalStatsAtLeast) Match(p *Pokemon) bool {
	return p.Stats != nil && p.Stats.Total() >= int(n)
}

func (n SpeedAtLeast) Match(p *Pokemon) bool {
	return p.Stats != nil && p.Stats.Speed >= int(n)
}

func (n AttackAtLeast) Match(p *Pokemon) bool {
	return p.Stats != nil && p.Stats.Attack >= int(n)
}

// MatchAll reports whether p satisfies every predicate.
func MatchAll(p *Pokemon, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred.Match(p) {
			return false
		}
	}
	return true
}

type SortField string

const (
	SortByPokedex    SortField = "pokedex"
	SortByName       SortField = "name"
	SortByID         SortField = "id"
	SortByGeneration SortField = "generation"
	SortByTotal      SortField = "total"
	SortBySpeed      SortField = "speed"
	SortByAttack     SortField = "attack"
)

var sortFields = map[string]SortField{
	"pokedex":        SortByPokedex,
	"pokedex_number": SortByPokedex,
	"name":           SortByName,
	"id":             SortByID,
	"generation":     SortByGeneration,
	"total":          SortByTotal,
	"total_stats":    SortByTotal,
	"speed":          SortBySpeed,
	"attack":         SortByAttack,
}

// ParseOrder reads a sort field name and a direction ("asc" or "desc", blank
// meaning ascending).
func ParseOrder(field, dir string) (Order, error) {
	f, ok := sortFields[strings.ToLower(field)]
	if !ok {
		return Order{}, Invalid("sort", "unknown field "+field)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return Order{Field: f}, nil
	case "desc":
		return Order{Field: f, Desc: true}, nil
	}
	return Order{}, Invalid("dir", "must be asc or desc")
}

type Order struct {
	Field SortField
	Desc  bool
}

// DefaultOrder is ascending pokedex number with the id as tie breaker.
var DefaultOrder = []Order{{Field: SortByPokedex}, {Field: SortByID}}

// PageRequest selects a 1-based page. A zero Size disables pagination.
type PageRequest struct {
	Page int
	Size int
}

func (r PageRequest) Offset() int {
	if r.Size <= 0 || r.Page <= 1 {
		return 0
	}
	return (r.Page - 1) * r.Size
}

type Query struct {
	Where []Predicate
	Order []Order
	Page  PageRequest
}

// Orders returns the requested ordering, or DefaultOrder when none was given.
func (q Query) Orders() []Order {
	if len(q.Order) == 0 {
		return DefaultOrder
	}
	return q.Order
}

type PokemonPage struct {
	Items []*Pokemon `json:"items"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
	Total int        `json:"total"`
	Pages int        `json:"pages"`
}

// NewPokemonPage fills in the page bookkeeping for items selected by req out
// of total matches.
func NewPokemonPage(items []*Pokemon, req PageRequest, total int) *PokemonPage {
	page := &PokemonPage{
		Items: items,
		Page:  max(req.Page, 1),
		Size:  req.Size,
		Total: total,
		Pages: 1,
	}
	if page.Items == nil {
		page.Items = []*Pokemon{}
	}
	if req.Size > 0 {
		page.Pages = int(math.Ceil(float64(total) / float64(req.Size)))
	} else {
		page.Size = total
	}
	return page
}
