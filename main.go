package main

import (
	"io"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/metrics"
	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
	"github.com/lrstanley/chix"
	"github.com/lrstanley/clix"
)

var (
	cli    = &clix.CLI[models.Flags]{}
	logger log.Interface
	cfg    *models.Config
	svc    *catalog.Service
	stats  *metrics.Metrics

	// db is set when the catalog lives in a SQL database.
	db io.Closer
)

func main() {
	ctx := setup()

	logger.Infof("Starting HTTP server on %s:%d", cfg.HTTP.ListeningAddr, cfg.HTTP.Port)
	err := chix.RunContext(ctx, httpServer(ctx))
	if db != nil {
		db.Close()
	}
	if err != nil {
		logger.WithError(err).Fatal("http server failed")
	}
}
