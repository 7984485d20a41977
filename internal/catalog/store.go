package catalog

import (
	"context"

	"github.com/FlagBrew/local-dex/internal/models"
)

// Store is the persistence collaborator of the catalog. Lookups return
// models.ErrNotFound when nothing matches. Writes must enforce name and
// pokedex uniqueness themselves and report violations with the matching
// models.ErrDuplicate* error: the service pre-checks are only a fast path.
type Store interface {
	CreateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error)
	UpdateType(ctx context.Context, t *models.PokemonType) (*models.PokemonType, error)
	GetType(ctx context.Context, id int) (*models.PokemonType, error)
	GetTypeByName(ctx context.Context, name string) (*models.PokemonType, error)
	ListTypes(ctx context.Context) ([]*models.PokemonType, error)
	SearchTypes(ctx context.Context, term string) ([]*models.PokemonType, error)
	DeleteType(ctx context.Context, id int) error
	TypeExists(ctx context.Context, id int) (bool, error)
	TypeUsage(ctx context.Context) ([]*models.TypeUsage, error)

	// CreatePokemon ignores evolution links; they are managed by LinkEvolution.
	CreatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error)
	// UpdatePokemon replaces every field except the id, CreatedAt and the
	// evolution links.
	UpdatePokemon(ctx context.Context, p *models.Pokemon) (*models.Pokemon, error)
	GetPokemon(ctx context.Context, id int) (*models.Pokemon, error)
	GetPokemonByName(ctx context.Context, name string) (*models.Pokemon, error)
	GetPokemonByPokedexNumber(ctx context.Context, number int) (*models.Pokemon, error)
	DeletePokemon(ctx context.Context, id int) error
	PokemonExists(ctx context.Context, id int) (bool, error)
	QueryPokemon(ctx context.Context, q models.Query) (*models.PokemonPage, error)
	CountPokemon(ctx context.Context, preds ...models.Predicate) (int, error)
	AverageTotalStats(ctx context.Context) (float64, error)

	// LinkEvolution sets from.EvolvesTo and to.EvolvesFrom in one atomic write.
	// Within that write it refuses, with models.ErrValidation, a from that
	// already evolves into another Pokemon, a to that already evolves from
	// another one, and a to that is an ancestor of from.
	LinkEvolution(ctx context.Context, fromID, toID int) error
	// UnlinkEvolution clears the forward link of fromID and the matching
	// backward link of its target.
	UnlinkEvolution(ctx context.Context, fromID int) error
}
