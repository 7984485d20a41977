package main

import (
	"context"
	"os"

	"github.com/FlagBrew/local-dex/internal/catalog"
	"github.com/FlagBrew/local-dex/internal/database"
	"github.com/FlagBrew/local-dex/internal/database/memory"
	"github.com/FlagBrew/local-dex/internal/metrics"
	"github.com/FlagBrew/local-dex/internal/utils"
	"github.com/apex/log"
)

func setup() context.Context {
	cli.Parse()
	logger = cli.Logger
	if cli.Flags.LogFormat != "" {
		logger = utils.NewLogger(cli.Flags.LogFormat, log.InfoLevel, cli.Debug, os.Stdout)
	}

	ctx := log.NewContext(context.Background(), logger)
	cfg = utils.Setup(ctx, cli.Flags.Mode, cli.Flags.Config)

	var store catalog.Store
	if cfg.Database.DBType == "memory" {
		logger.Warn("using an in-memory catalog, nothing will be persisted")
		store = memory.New()
	} else {
		sqlStore := database.New(ctx, &cfg.Database)
		if err := sqlStore.Migrate(ctx); err != nil {
			logger.WithError(err).Fatal("failed to migrate database")
		}
		store, db = sqlStore, sqlStore
	}

	stats = metrics.New()
	svc = catalog.New(store,
		catalog.WithMetrics(stats),
		catalog.WithPageLimits(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize),
		catalog.WithMaxChainLength(cfg.Catalog.MaxChainLength),
	)
	ctx = catalog.NewContext(ctx, svc)

	if cfg.Misc.SeedCatalog {
		utils.SeedCatalog(ctx, svc, cfg, cli.Flags.Config)
	}

	return ctx
}
