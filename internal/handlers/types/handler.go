package types

import (
	"net/http"

	"github.com/FlagBrew/local-dex/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Route(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/usage", h.usage)
	r.Get("/name/{name}", h.getByName)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(handlers.WriteLimit())
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	types, err := svc.ListTypes(r.Context())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, types)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	types, err := svc.SearchTypes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, types)
}

func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	usage, err := svc.TypeUsage(r.Context())
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, usage)
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

	t, found, err := svc.FindType(r.Context(), id)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	if !found {
		chix.JSON(w, r, http.StatusNotFound, chix.M{"error": "type not found"})
		return
	}
	chix.JSON(w, r, http.StatusOK, t)
}

func (h *Handler) getByName(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	t, found, err := svc.FindTypeByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	if !found {
		chix.JSON(w, r, http.StatusNotFound, chix.M{"error": "type not found"})
		return
	}
	chix.JSON(w, r, http.StatusOK, t)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	svc, ok := handlers.Catalog(w, r)
	if !ok {
		return
	}

	var payload typeRequest
	if chix.Error(w, r, chix.Bind(r, &payload)) {
		return
	}

	t, err := svc.CreateType(r.Context(), payload.Name, payload.Color, payload.Description)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusCreated, t)
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

	var payload typeRequest
	if chix.Error(w, r, chix.Bind(r, &payload)) {
		return
	}

	t, err := svc.UpdateType(r.Context(), id, payload.Name, payload.Color, payload.Description)
	if err != nil {
		handlers.Fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, t)
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

	if err := svc.DeleteType(r.Context(), id); err != nil {
		handlers.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
