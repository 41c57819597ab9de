package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/search"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
)

// BoundsReader reports the stored year range of an entity type.
type BoundsReader interface {
	YearBounds(ctx context.Context, entity domain.EntityType) (minYear, maxYear int, ok bool, err error)
}

// Runner coordinates full background runs (crawl plus index sync)
// through persisted status records. The updating flag on the latest
// status row is the only overlap guard; it is a best-effort signal, not
// a lock, so two concurrently triggered runs can race. Callers are
// expected to check Running first.
type Runner struct {
	orch     *Orchestrator
	syncer   *search.Syncer
	status   storage.StatusStore
	bounds   BoundsReader
	yearFrom int
	yearTo   int
}

func NewRunner(orch *Orchestrator, syncer *search.Syncer, status storage.StatusStore, bounds BoundsReader, yearFrom, yearTo int) *Runner {
	return &Runner{
		orch:     orch,
		syncer:   syncer,
		status:   status,
		bounds:   bounds,
		yearFrom: yearFrom,
		yearTo:   yearTo,
	}
}

// Running reports whether the latest status row says a run is in
// progress.
func (r *Runner) Running(ctx context.Context) (bool, error) {
	latest, err := r.status.LatestStatus(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return latest.Updating, nil
}

// Setup brings the database and indices up to date: it crawls the
// years with missing documents, then syncs every index over the
// configured range. startYear, when positive, narrows the checked
// range. Progress is observable only through status rows.
func (r *Runner) Setup(ctx context.Context, startYear int) error {
	from := r.yearFrom
	if startYear > 0 {
		from = startYear
	}

	ranges, err := r.orch.ComputeMissingRanges(ctx, from, r.yearTo)
	if err != nil {
		return r.fail(ctx, "setup_failed", err)
	}

	if ranges.UpToDate {
		slog.Info("database is up to date")
		_, err := r.status.CreateStatus(ctx, map[string]any{
			"action":   "setup_complete",
			"upToDate": true,
		}, false)
		return err
	}

	if _, err := r.status.CreateStatus(ctx, map[string]any{
		"action":        "setup_start",
		"statuteYears":  ranges.StatuteYears,
		"judgmentYears": ranges.JudgmentYears,
		"startedAt":     time.Now().Format(time.RFC3339),
	}, true); err != nil {
		return err
	}

	r.orch.FillMissing(ctx, ranges.StatuteYears, ranges.JudgmentYears)
	r.orch.WaitImages()

	results, err := r.syncAll(ctx, from, r.yearTo)
	if err != nil {
		return r.fail(ctx, "setup_failed", err)
	}

	_, err = r.status.CreateStatus(ctx, map[string]any{
		"action":      "setup_complete",
		"completedAt": time.Now().Format(time.RFC3339),
		"syncResults": results,
	}, false)
	return err
}

// RebuildIndexes drops every index and re-syncs it from the stored
// rows, using the actual year bounds of the data.
func (r *Runner) RebuildIndexes(ctx context.Context) error {
	if _, err := r.status.CreateStatus(ctx, map[string]any{
		"action":    "index_rebuild_start",
		"startedAt": time.Now().Format(time.RFC3339),
	}, true); err != nil {
		return err
	}

	for _, entity := range []domain.EntityType{domain.EntityStatutes, domain.EntityJudgments} {
		for _, language := range domain.ValidLanguages {
			if err := r.syncer.DropCollection(ctx, entity, language); err != nil {
				return r.fail(ctx, "index_rebuild_failed", err)
			}
		}
	}
	slog.Info("old indices deleted")

	var results []*domain.SyncResult
	for _, entity := range []domain.EntityType{domain.EntityStatutes, domain.EntityJudgments} {
		minYear, maxYear, ok, err := r.bounds.YearBounds(ctx, entity)
		if err != nil {
			return r.fail(ctx, "index_rebuild_failed", err)
		}
		if !ok {
			continue
		}
		for _, language := range domain.ValidLanguages {
			result, err := r.syncer.Sync(ctx, entity, language, minYear, maxYear)
			if err != nil {
				return r.fail(ctx, "index_rebuild_failed", err)
			}
			results = append(results, result)
		}
	}

	_, err := r.status.CreateStatus(ctx, map[string]any{
		"action":      "index_rebuild_complete",
		"completedAt": time.Now().Format(time.RFC3339),
		"syncResults": results,
	}, false)
	return err
}

func (r *Runner) syncAll(ctx context.Context, from, to int) ([]*domain.SyncResult, error) {
	var results []*domain.SyncResult
	for _, entity := range []domain.EntityType{domain.EntityStatutes, domain.EntityJudgments} {
		for _, language := range domain.ValidLanguages {
			result, err := r.syncer.Sync(ctx, entity, language, from, to)
			if err != nil {
				return results, err
			}
			results = append(results, result)
			slog.Info("index sync summary",
				"entity", entity, "language", language,
				"total", result.TotalProcessed,
				"succeeded", result.SuccessCount,
				"failed", result.FailureCount)
		}
	}
	return results, nil
}

// fail records a terminal failure status row and clears the updating
// flag so later runs are not blocked by a dead one.
func (r *Runner) fail(ctx context.Context, action string, cause error) error {
	if _, statusErr := r.status.CreateStatus(ctx, map[string]any{
		"action":    action,
		"error":     cause.Error(),
		"timestamp": time.Now().Format(time.RFC3339),
	}, false); statusErr != nil {
		slog.Error("failed to record failure status", "error", statusErr)
	}
	return fmt.Errorf("%s: %w", action, cause)
}
