package pokemon

import (
	"context"
	"net/http"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/handlers"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"
)

// Minimum attack and speed used by the rankings when none is given.
const defaultRankingMinimum = 100

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Route(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/filter", h.filter)
	r.Get("/pokedex/{number}", h.getByPokedexNumber)
	r.Get("/name/{name}", h.getByName)
	r.Get("/type/{typeID}", h.byType)
	r.Get("/generation/{generation}", h.byGeneration)
	r.Get("/legendary", listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.Legendaries(ctx)
	}))
	r.Get("/mythical", listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.Mythicals(ctx)
	}))
	r.Get("/base-forms", listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.BaseForms(ctx)
	}))
	r.Get("/final-forms", listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.FinalForms(ctx)
	}))

	r.Route("/stats", func(r chi.Router) {
		r.Get("/strongest", h.strongest)
		r.Get("/fastest", h.fastest)
		r.Get("/min-total/{minTotal}", h.minTotal)
		r.Get("/count", h.count)
		r.Get("/average-stats", h.averageStats)
		r.Get("/generation/{generation}/count", h.countByGeneration)
		r.Get("/type/{typeID}/count", h.countByType)
	})

	r.Get("/compare/{id1}/vs/{id2}", h.compare)

	r.Get("/{id}", h.get)
	r.Get("/{id}/evolution-chain", h.evolutionChain)
	r.Get("/{id}/can-evolve", h.canEvolve)
	r.Get("/{id}/battle-power", h.battlePower)

	r.Group(func(r chi.Router) {
		r.Use(handlers.WriteLimit())
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/evolve", h.evolve)
		r.Put("/{id}/evolution", h.linkEvolution)
		r.Delete("/{id}/evolution", h.unlinkEvolution)
	})
}

// listOf serves an unpaginated list of Pokemon.
func listOf(fn func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, ok := handlers.Catalog(w, r)
		if !ok {
			return
		}

		list, err := fn(r.Context(), svc)
		if err != nil {
			handlers.Fail(w, r, err)
			return
		}
		chix.JSON(w, r, http.StatusOK, newPokemonList(list))
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	var orders []models.Order
	if field := r.URL.Query().Get("sort"); field != "" {
		order, err := models.ParseOrder(field, r.URL.Query().Get("dir"))
		if err != nil {
			handlers.Fail(w, r, err)
			return
		}
		orders = append(orders, order)
	}

	page, err := svc.ListPokemon(r.Context(), handlers.Page(r), orders...)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonListResponse(page))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	page, err := svc.Search(r.Context(), r.URL.Query().Get("q"), handlers.Page(r))
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonListResponse(page))
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	var (
		f   catalog.Filter
		err error
	)
	for name, dst := range map[string]**int{
		"generation":  &f.Generation,
		"type":        &f.TypeID,
		"min_pokedex": &f.MinPokedex,
		"max_pokedex": &f.MaxPokedex,
	} {
		if *dst, err = handlers.QueryInt(r, name); err != nil {
			handlers.Fail(w, r, err)
			return
		}
	}
	if f.Legendary, err = handlers.QueryBool(r, "legendary"); err != nil {
		handlers.Fail(w, r, err)
		return
	}
	if f.Mythical, err = handlers.QueryBool(r, "mythical"); err != nil {
		handlers.Fail(w, r, err)
		return
	}

	page, err := svc.FilterPokemon(r.Context(), f, handlers.Page(r))
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonListResponse(page))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	p, found, err := svc.FindPokemon(r.Context(), id)
	replyFound(w, r, p, found, err)
}

func (h *Handler) getByName(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	p, found, err := svc.FindPokemonByName(r.Context(), chi.URLParam(r, "name"))
	replyFound(w, r, p, found, err)
}

func (h *Handler) getByPokedexNumber(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	number, ok := handlers.IntParam(w, r, "number")
	if !ok {
		return
	}

	p, found, err := svc.FindPokemonByPokedexNumber(r.Context(), number)
	replyFound(w, r, p, found, err)
}

// replyFound replies with a single optional lookup result.
func replyFound(w http.ResponseWriter, r *http.Request, p *models.Pokemon, found bool, err error) {
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	if !found {
		chix.JSON(w, r, http.StatusNotFound, chix.M{"error": "pokemon not found"})
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonResponse(p))
}

func (h *Handler) byType(w http.ResponseWriter, r *http.Request) {
	typeID, ok := handlers.IntParam(w, r, "typeID")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.ByType(ctx, typeID)
	})(w, r)
}

func (h *Handler) byGeneration(w http.ResponseWriter, r *http.Request) {
	generation, ok := handlers.IntParam(w, r, "generation")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.ByGeneration(ctx, generation)
	})(w, r)
}

func (h *Handler) minTotal(w http.ResponseWriter, r *http.Request) {
	minTotal, ok := handlers.IntParam(w, r, "minTotal")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.ByMinTotalStats(ctx, minTotal)
	})(w, r)
}

// rankingMinimum reads an optional threshold, defaulting to 100.
func rankingMinimum(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := handlers.QueryInt(r, name)
	if err != nil {
		handlers.Fail(w, r, err)
		return 0, false
	}
	if v == nil {
		return defaultRankingMinimum, true
	}
	return *v, true
}

func (h *Handler) strongest(w http.ResponseWriter, r *http.Request) {
	minAttack, ok := rankingMinimum(w, r, "min_attack")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.Strongest(ctx, minAttack)
	})(w, r)
}

func (h *Handler) fastest(w http.ResponseWriter, r *http.Request) {
	minSpeed, ok := rankingMinimum(w, r, "min_speed")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.Fastest(ctx, minSpeed)
	})(w, r)
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	total, err := svc.TotalCount(r.Context())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"count": total})
}

func (h *Handler) averageStats(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	avg, err := svc.AverageTotalStats(r.Context())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"average_total_stats": avg})
}

func (h *Handler) countByGeneration(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	generation, ok := handlers.IntParam(w, r, "generation")
	if !ok {
		return
	}

	total, err := svc.CountByGeneration(r.Context(), generation)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"generation": generation, "count": total})
}

func (h *Handler) countByType(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	typeID, ok := handlers.IntParam(w, r, "typeID")
	if !ok {
		return
	}

	total, err := svc.CountByType(r.Context(), typeID)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"type_id": typeID, "count": total})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	first, ok := handlers.IntParam(w, r, "id1")
	if !ok {
		return
	}
	second, ok := handlers.IntParam(w, r, "id2")
	if !ok {
		return
	}

	c, err := svc.Compare(r.Context(), first, second)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newComparisonResponse(c))
}

func (h *Handler) battlePower(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	power, err := svc.BattlePower(r.Context(), id)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"id": id, "battle_power": power})
}

func (h *Handler) evolutionChain(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}
	listOf(func(ctx context.Context, svc *catalog.Service) ([]*models.Pokemon, error) {
		return svc.EvolutionChain(ctx, id)
	})(w, r)
}

func (h *Handler) canEvolve(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	can, err := svc.CanEvolve(r.Context(), id)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{"id": id, "can_evolve": can})
}

func (h *Handler) evolve(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	target, err := svc.Evolve(r.Context(), id)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonResponse(target))
}

func (h *Handler) linkEvolution(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	var payload evolutionRequest
	if chix.Error(w, r, chix.Bind(r, &payload)) {
		return
	}
	if payload.EvolvesTo <= 0 {
		handlers.Fail(w, r, models.Invalid("evolves_to", "is required"))
		return
	}

	if err := svc.LinkEvolution(r.Context(), id, payload.EvolvesTo); err != nil {
		handlers.Fail(w, r, err)
		return
	}
	h.reload(w, r, svc, id)
}

func (h *Handler) unlinkEvolution(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	if err := svc.UnlinkEvolution(r.Context(), id); err != nil {
		handlers.Fail(w, r, err)
		return
	}
	h.reload(w, r, svc, id)
}

// reload replies with the current state of a Pokemon after a write.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request, svc *catalog.Service, id int) {
	p, found, err := svc.FindPokemon(r.Context(), id)
	replyFound(w, r, p, found, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	var payload pokemonRequest
	if chix.Error(w, r, chix.Bind(r, &payload)) {
		return
	}

	p, err := svc.CreatePokemon(r.Context(), payload.toModel())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusCreated, newPokemonResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	var payload pokemonRequest
	if chix.Error(w, r, chix.Bind(r, &payload)) {
		return
	}

	p, err := svc.UpdatePokemon(r.Context(), id, payload.toModel())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, newPokemonResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}
	id, ok := handlers.IntParam(w, r, "id")
	if !ok {
		return
	}

	if err := svc.DeletePokemon(r.Context(), id); err != nil {
		handlers.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
