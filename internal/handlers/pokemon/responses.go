package pokemon

import "github.com/FlagBrew/local-dex/internal/models"

// pokemonResponse adds the derived values to a stored Pokemon.
type pokemonResponse struct {
	*models.Pokemon
	TotalStats     int     `json:"total_stats"`
	AverageStat    float64 `json:"average_stat"`
	DominantStat   string  `json:"dominant_stat"`
	WeakestStat    string  `json:"weakest_stat"`
	Balanced       bool    `json:"is_balanced"`
	BMI            float64 `json:"bmi"`
	Special        bool    `json:"is_special"`
	EvolutionStage int     `json:"evolution_stage"`
}

func newPokemonResponse(p *models.Pokemon) *pokemonResponse {
	resp := &pokemonResponse{
		Pokemon:        p,
		TotalStats:     p.TotalStats(),
		BMI:            p.BMI(),
		Special:        p.IsSpecial(),
		EvolutionStage: p.EvolutionStage(),
	}
	if p.Stats != nil {
		resp.AverageStat = p.Stats.Average()
		resp.DominantStat = p.Stats.Dominant()
		resp.WeakestStat = p.Stats.Weakest()
		resp.Balanced = p.Stats.IsBalanced()
	}
	return resp
}

func newPokemonList(list []*models.Pokemon) []*pokemonResponse {
	out := make([]*pokemonResponse, 0, len(list))
	for _, p := range list {
		out = append(out, newPokemonResponse(p))
	}
	return out
}

type pokemonListResponse struct {
	Page    int                `json:"page"`
	Pages   int                `json:"pages"`
	Total   int                `json:"total"`
	Pokemon []*pokemonResponse `json:"pokemon"`
}

func newPokemonListResponse(page *models.PokemonPage) *pokemonListResponse {
	return &pokemonListResponse{
		Page:    page.Page,
		Pages:   page.Pages,
		Total:   page.Total,
		Pokemon: newPokemonList(page.Items),
	}
}

type comparisonResponse struct {
	First       *pokemonResponse `json:"first"`
	Second      *pokemonResponse `json:"second"`
	FirstPower  float64          `json:"first_power"`
	SecondPower float64          `json:"second_power"`
	Outcome     models.Outcome   `json:"outcome"`
	Winner      *string          `json:"winner"`
	Summary     string           `json:"summary"`
}

func newComparisonResponse(c *models.Comparison) *comparisonResponse {
	resp := &comparisonResponse{
		First:       newPokemonResponse(c.First),
		Second:      newPokemonResponse(c.Second),
		FirstPower:  c.FirstPower,
		SecondPower: c.SecondPower,
		Outcome:     c.Outcome,
		Summary:     c.String(),
	}
	if w := c.Winner(); w != nil {
		resp.Winner = &w.Name
	}
	return resp
}
