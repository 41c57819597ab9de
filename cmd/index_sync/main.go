// Command index_sync runs the crawl and index pipeline once and exits.
// Modes: setup (default) crawls missing years and syncs, rebuild drops
// and re-syncs every index, sync mirrors stored rows without crawling.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/fetch"
	"github.com/mkoskenniemi/lakihaku/internal/finlex"
	"github.com/mkoskenniemi/lakihaku/internal/ingest"
	"github.com/mkoskenniemi/lakihaku/internal/search"
	"github.com/mkoskenniemi/lakihaku/internal/storage/es"
	"github.com/mkoskenniemi/lakihaku/internal/storage/pg"
	"github.com/mkoskenniemi/lakihaku/pkg/config/env"
)

func main() {
	env.LoadDotEnv("cmd/index_sync/.env")

	mode := "setup"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	cfg, err := LoadSyncConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PgURI})
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

	index, err := es.NewIndex(es.ClientConfig{
		Addresses: cfg.EsAddresses,
		Username:  cfg.EsUsername,
		Password:  cfg.EsPassword,
	})
	if err != nil {
		slog.Error("failed to create index client", "error", err)
		os.Exit(1)
	}

	reporter := fetch.NewReporter(time.Minute)
	reporter.Start()
	defer reporter.Stop()

	fetcher := fetch.NewFetcher(fetch.NewLimiter(fetch.LimiterConfig{}), fetch.WithReporter(reporter))
	locator := finlex.NewLocator(fetcher)
	orch := ingest.NewOrchestrator(fetcher, locator, store)
	syncer := search.NewSyncer(store, index)
	runner := ingest.NewRunner(orch, syncer, store, store, cfg.StartYear, cfg.EndYear)

	switch mode {
	case "setup":
		err = runner.Setup(ctx, 0)
	case "rebuild":
		err = runner.RebuildIndexes(ctx)
	case "sync":
		err = syncOnly(ctx, syncer, cfg.StartYear, cfg.EndYear)
	default:
		slog.Error("unknown mode", "mode", mode)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("run failed", "mode", mode, "error", err)
		os.Exit(1)
	}
	slog.Info("run finished", "mode", mode)
}

// syncOnly mirrors every stored row into the indices without crawling
// and prints the aggregate report.
func syncOnly(ctx context.Context, syncer *search.Syncer, startYear, endYear int) error {
	var results []*domain.SyncResult
	for _, entity := range []domain.EntityType{domain.EntityStatutes, domain.EntityJudgments} {
		for _, language := range domain.ValidLanguages {
			result, err := syncer.Sync(ctx, entity, language, startYear, endYear)
			if result != nil {
				results = append(results, result)
			}
			if err != nil {
				fmt.Println(search.Summarize(results))
				return err
			}
		}
	}
	fmt.Println(search.Summarize(results))
	return nil
}
