// Package handlers holds the helpers shared by the catalog HTTP handlers.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/lrstanley/chix"
)

const (
	writeRequestLimit = 120
	writeLimitWindow  = time.Minute
)

// WriteLimit limits write requests per client IP.
func WriteLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(writeRequestLimit, writeLimitWindow)
}

// Catalog returns the service carried by the request context. It replies
// with a 500 and returns false when there is none.
func Catalog(w http.ResponseWriter, r *http.Request) (*catalog.Service, bool) {
	svc := catalog.FromContext(r.Context())
	if svc == nil {
		log.FromContext(r.Context()).Error("catalog is nil")
		chix.JSON(w, r, http.StatusInternalServerError, chix.M{"error": "catalog is nil"})
		return nil, false
	}
	return svc, true
}

// Status maps catalog errors onto HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateName),
		errors.Is(err, models.ErrDuplicatePokedexNumber),
		errors.Is(err, models.ErrDuplicateType),
		errors.Is(err, models.ErrTypeInUse):
		return http.StatusConflict
	case errors.Is(err, models.ErrCannotEvolve):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Fail replies with the status matching err. Unexpected errors are logged
// and their details kept out of the response.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError && !errors.Is(err, models.ErrCorruptChain) {
		log.FromContext(r.Context()).WithError(err).Error("request failed")
		chix.JSON(w, r, status, chix.M{"error": "internal server error"})
		return
	}
	chix.JSON(w, r, status, chix.M{"error": err.Error()})
}

// Page reads the page and amount query parameters. Invalid values fall back
// to the defaults; the catalog clamps the size.
func Page(r *http.Request) models.PageRequest {
	req := models.PageRequest{Page: 1}

	if r.URL.Query().Get("page") != "" {
		parsedPage, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err == nil && parsedPage > 0 {
			req.Page = parsedPage
		}
	}

	if r.URL.Query().Get("amount") != "" {
		parsedAmount, err := strconv.Atoi(r.URL.Query().Get("amount"))
		if err == nil && parsedAmount > 0 {
			req.Size = parsedAmount
		}
	}

	return req
}

// IntParam parses a numeric URL parameter, replying 400 when it is not one.
func IntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		chix.JSON(w, r, http.StatusBadRequest, chix.M{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// QueryInt parses an optional numeric query parameter.
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.Invalid(name, "must be a number")
	}
	return &v, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, models.Invalid(name, "must be true or false")
	}
	return &v, nil
}
