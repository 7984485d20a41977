package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/FlagBrew/local-dex/internal/handlers/pokemon"
	"github.com/FlagBrew/local-dex/internal/handlers/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lrstanley/chix"
)

func httpServer(ctx context.Context) *http.Server {
	chix.DefaultAPIPrefix = "/api/"

	r := chi.NewRouter()

	r.Use(
		chix.UseContextIP,
		middleware.RequestID,
		chix.UseStructuredLogger(logger),
		chix.UseDebug(cli.Debug),
		chix.UseRecoverer,
		middleware.Compress(5),
		middleware.Maybe(middleware.StripSlashes, func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/debug/")
		}),
		chix.UseNextURL,
	)

	if cli.Debug {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		chix.JSON(w, r, http.StatusOK, chix.M{"status": "ok"})
	})
	r.Handle("/metrics", stats.Handler())

	r.Route("/api/v1/pokemon", pokemon.NewHandler().Route)
	r.Route("/api/v1/types", types.NewHandler().Route)

	return &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.ListeningAddr, fmt.Sprint(cfg.HTTP.Port)),
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		// Some sane defaults.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}
