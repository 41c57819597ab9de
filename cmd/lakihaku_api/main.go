package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mkoskenniemi/lakihaku/internal/fetch"
	"github.com/mkoskenniemi/lakihaku/internal/finlex"
	"github.com/mkoskenniemi/lakihaku/internal/ingest"
	"github.com/mkoskenniemi/lakihaku/internal/router"
	"github.com/mkoskenniemi/lakihaku/internal/search"
	"github.com/mkoskenniemi/lakihaku/internal/server"
	"github.com/mkoskenniemi/lakihaku/internal/storage/es"
	"github.com/mkoskenniemi/lakihaku/internal/storage/pg"
	"github.com/mkoskenniemi/lakihaku/pkg/config/env"
	"github.com/mkoskenniemi/lakihaku/pkg/logbuffer"
)

func main() {
	env.LoadDotEnv("cmd/lakihaku_api/.env")

	buffer := logbuffer.NewBuffer(logbuffer.DefaultCapacity)
	slog.SetDefault(slog.New(logbuffer.NewHandler(
		slog.NewTextHandler(os.Stdout, nil), buffer,
	)))

	serverCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("failed to load server config", "error", err)
		os.Exit(1)
	}
	appCfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("failed to load app config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: appCfg.PgURI})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pg.NewStore(pool)
	ready, err := store.Ready(ctx)
	if err != nil {
		slog.Error("failed to check database schema", "error", err)
		os.Exit(1)
	}
	if !ready {
		slog.Info("creating database schema")
		if err := store.CreateTables(ctx); err != nil {
			slog.Error("failed to create database schema", "error", err)
			os.Exit(1)
		}
	}

	esCfg := es.ClientConfig{
		Addresses: appCfg.EsAddresses,
		Username:  appCfg.EsUsername,
		Password:  appCfg.EsPassword,
	}
	index, err := es.NewIndex(esCfg)
	if err != nil {
		slog.Error("failed to create index client", "error", err)
		os.Exit(1)
	}
	searcher, err := es.NewSearcher(esCfg)
	if err != nil {
		slog.Error("failed to create search client", "error", err)
		os.Exit(1)
	}

	weights, err := search.LoadWeights(appCfg.WeightsPath)
	if err != nil {
		slog.Error("failed to load search weights", "error", err)
		os.Exit(1)
	}

	reporter := fetch.NewReporter(time.Minute)
	reporter.Start()
	defer reporter.Stop()

	fetcher := fetch.NewFetcher(fetch.NewLimiter(fetch.LimiterConfig{}), fetch.WithReporter(reporter))
	locator := finlex.NewLocator(fetcher)
	orch := ingest.NewOrchestrator(fetcher, locator, store)
	syncer := search.NewSyncer(store, index)
	runner := ingest.NewRunner(orch, syncer, store, store, appCfg.StartYear, appCfg.EndYear)

	s := server.New(serverCfg)
	router.NewSearchRouter(s.Echo, searcher, weights).Bind()
	router.NewBrowseRouter(s.Echo, store).Bind()
	router.NewAdminRouter(s.Echo, router.AdminDeps{
		Runner:    runner,
		Ingestor:  orch,
		Upserter:  syncer,
		Store:     store,
		Status:    store,
		Logs:      buffer,
		URLs:      locator,
		StartYear: appCfg.StartYear,
		EndYear:   appCfg.EndYear,
	}).Bind()

	if err := s.Start(); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
}
