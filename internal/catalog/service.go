// Package catalog holds the Pokemon catalog business logic: the type registry,
// evolution resolution, battle scoring, filtering and the integrity checks
// that guard every write. Persistence is delegated to a Store.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/FlagBrew/local-dex/internal/metrics"
	"github.com/FlagBrew/local-dex/internal/models"
)

const (
	DefaultPageSize       = 30
	MaxPageSize           = 100
	DefaultMaxChainLength = 64
)

type Service struct {
	store           Store
	metrics         *metrics.Metrics
	now             func() time.Time
	maxChainLength  int
	defaultPageSize int
	maxPageSize     int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxChainLength bounds evolution walks; longer chains are reported as
// corrupt.
func WithMaxChainLength(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.maxChainLength = n
		}
	}
}

func WithPageLimits(defaultSize, maxSize int) Option {
	return func(s *Service) {
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
		if defaultSize > 0 {
			s.defaultPageSize = min(defaultSize, s.maxPageSize)
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		now:             time.Now,
		maxChainLength:  DefaultMaxChainLength,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Service) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the service stored in ctx, or nil.
func FromContext(ctx context.Context) *Service {
	s, _ := ctx.Value(ctxKey{}).(*Service)
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// page clamps a page request to the configured limits.
func (s *Service) page(req models.PageRequest) models.PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size <= 0 {
		req.Size = s.defaultPageSize
	}
	if req.Size > s.maxPageSize {
		req.Size = s.maxPageSize
	}
	return req
}

// reject records why a write was refused and hands the error back.
func (s *Service) reject(err error) error {
	var reason string
	switch {
	case errors.Is(err, models.ErrValidation):
		reason = "validation"
	case errors.Is(err, models.ErrReference):
		reason = "reference"
	case errors.Is(err, models.ErrDuplicateName):
		reason = "duplicate_name"
	case errors.Is(err, models.ErrDuplicatePokedexNumber):
		reason = "duplicate_pokedex_number"
	case errors.Is(err, models.ErrDuplicateType):
		reason = "duplicate_type"
	case errors.Is(err, models.ErrTypeInUse):
		reason = "type_in_use"
	case errors.Is(err, models.ErrCannotEvolve):
		reason = "cannot_evolve"
	}
	if reason != "" {
		s.metrics.IncRejection(reason)
	}
	return err
}

// optional turns a lookup miss into an absent result.
func optional[T any](v *T, err error) (*T, bool, error) {
	if errors.Is(err, models.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
