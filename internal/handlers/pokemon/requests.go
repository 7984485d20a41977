package pokemon

import "github.com/FlagBrew/local-dex/internal/models"

type pokemonRequest struct {
	Name            string        `json:"name"`
	PokedexNumber   *int          `json:"pokedex_number"`
	Description     string        `json:"description"`
	Height          *float64      `json:"height"`
	Weight          *float64      `json:"weight"`
	PrimaryTypeID   int           `json:"primary_type_id"`
	SecondaryTypeID *int          `json:"secondary_type_id"`
	Stats           *models.Stats `json:"stats"`
	Legendary       bool          `json:"is_legendary"`
	Mythical        bool          `json:"is_mythical"`
	Generation      int           `json:"generation"`
	ImageURL        string        `json:"image_url"`
}

func (p *pokemonRequest) toModel() *models.Pokemon {
	return &models.Pokemon{
		Name:            p.Name,
		PokedexNumber:   p.PokedexNumber,
		Description:     p.Description,
		Height:          p.Height,
		Weight:          p.Weight,
		PrimaryTypeID:   p.PrimaryTypeID,
		SecondaryTypeID: p.SecondaryTypeID,
		Stats:           p.Stats,
		Legendary:       p.Legendary,
		Mythical:        p.Mythical,
		Generation:      p.Generation,
		ImageURL:        p.ImageURL,
	}
}

type evolutionRequest struct {
	EvolvesTo int `json:"evolves_to"`
}
