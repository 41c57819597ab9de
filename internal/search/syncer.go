package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/extract"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
	"github.com/mkoskenniemi/lakihaku/internal/storage/es"
	"github.com/mkoskenniemi/lakihaku/internal/textnorm"
)

// Indexer is the slice of the index service the syncer needs.
type Indexer interface {
	EnsureIndex(ctx context.Context, entity domain.EntityType, language domain.Language) error
	DeleteIndex(ctx context.Context, entity domain.EntityType, language domain.Language) error
	Upsert(ctx context.Context, entity domain.EntityType, language domain.Language, id string, doc any) error
}

// Syncer walks stored rows year by year and mirrors them into the
// search indices. Rows are processed strictly one at a time; a failing
// row is recorded and never aborts the batch.
type Syncer struct {
	store storage.DocumentReader
	index Indexer
}

func NewSyncer(store storage.DocumentReader, index Indexer) *Syncer {
	return &Syncer{store: store, index: index}
}

// Sync indexes every stored row of one (entity, language) pair in the
// year range, inclusive on both ends. Only setup-level failures (index
// creation, row listing) return an error, and even then the result
// accumulated so far comes back with it.
func (s *Syncer) Sync(ctx context.Context, entity domain.EntityType, language domain.Language, startYear, endYear int) (*domain.SyncResult, error) {
	result := &domain.SyncResult{Type: entity, Language: language}

	if err := s.index.EnsureIndex(ctx, entity, language); err != nil {
		return result, fmt.Errorf("failed to ensure index: %w", err)
	}

	slog.Info("index sync started",
		"entity", entity, "language", language, "from", startYear, "to", endYear)

	for year := startYear; year <= endYear; year++ {
		switch entity {
		case domain.EntityStatutes:
			if err := s.syncStatuteYear(ctx, language, year, result); err != nil {
				return result, err
			}
		case domain.EntityJudgments:
			if err := s.syncJudgmentYear(ctx, language, year, result); err != nil {
				return result, err
			}
		default:
			return result, fmt.Errorf("unsupported entity type %q", entity)
		}
	}

	slog.Info("index sync finished",
		"entity", entity, "language", language,
		"total", result.TotalProcessed, "succeeded", result.SuccessCount, "failed", result.FailureCount)
	return result, nil
}

func (s *Syncer) syncStatuteYear(ctx context.Context, language domain.Language, year int, result *domain.SyncResult) error {
	statutes, err := s.store.StatutesByYear(ctx, year, language)
	if err != nil {
		return fmt.Errorf("failed to list statutes for %d: %w", year, err)
	}
	if len(statutes) == 0 {
		return nil
	}

	slog.Info("indexing statutes", "language", language, "year", year, "rows", len(statutes))

	for _, statute := range statutes {
		doc, err := s.statuteDoc(ctx, statute)
		if err == nil {
			err = s.index.Upsert(ctx, domain.EntityStatutes, language, doc.ID, doc)
		}
		if err != nil {
			result.RecordFailure(domain.SyncFailure{
				ID:     statute.UUID.String(),
				Year:   statute.Year,
				Number: statute.Number,
				Title:  statute.Title,
				Error:  err.Error(),
			})
			slog.Error("failed to index statute",
				"id", statute.UUID, "number", statute.Number, "year", statute.Year, "error", err)
			continue
		}
		result.RecordSuccess()
	}
	return nil
}

func (s *Syncer) syncJudgmentYear(ctx context.Context, language domain.Language, year int, result *domain.SyncResult) error {
	judgments, err := s.store.JudgmentsByYear(ctx, year, language)
	if err != nil {
		return fmt.Errorf("failed to list judgments for %d: %w", year, err)
	}
	if len(judgments) == 0 {
		return nil
	}

	slog.Info("indexing judgments", "language", language, "year", year, "rows", len(judgments))

	for _, judgment := range judgments {
		doc, err := s.judgmentDoc(ctx, judgment)
		if err == nil {
			err = s.index.Upsert(ctx, domain.EntityJudgments, language, doc.ID, doc)
		}
		if err != nil {
			result.RecordFailure(domain.SyncFailure{
				ID:     judgment.UUID.String(),
				Year:   judgment.Year,
				Number: judgment.Number,
				Level:  string(judgment.Level),
				Error:  err.Error(),
			})
			slog.Error("failed to index judgment",
				"id", judgment.UUID, "level", judgment.Level, "number", judgment.Number, "year", judgment.Year, "error", err)
			continue
		}
		result.RecordSuccess()
	}
	return nil
}

// UpsertOne indexes exactly one stored row out-of-band. A row that is
// no longer stored is logged and skipped.
func (s *Syncer) UpsertOne(ctx context.Context, entity domain.EntityType, language domain.Language, id uuid.UUID) error {
	if err := s.index.EnsureIndex(ctx, entity, language); err != nil {
		return fmt.Errorf("failed to ensure index: %w", err)
	}

	switch entity {
	case domain.EntityStatutes:
		statute, err := s.store.StatuteByID(ctx, id, language)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("no statute stored for id", "id", id, "language", language)
			return nil
		}
		if err != nil {
			return err
		}
		doc, err := s.statuteDoc(ctx, *statute)
		if err != nil {
			return err
		}
		return s.index.Upsert(ctx, entity, language, doc.ID, doc)

	case domain.EntityJudgments:
		judgment, err := s.store.JudgmentByID(ctx, id, language)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("no judgment stored for id", "id", id, "language", language)
			return nil
		}
		if err != nil {
			return err
		}
		doc, err := s.judgmentDoc(ctx, *judgment)
		if err != nil {
			return err
		}
		return s.index.Upsert(ctx, entity, language, doc.ID, doc)
	}
	return fmt.Errorf("unsupported entity type %q", entity)
}

// DropCollection removes the whole index of one (entity, language)
// pair.
func (s *Syncer) DropCollection(ctx context.Context, entity domain.EntityType, language domain.Language) error {
	return s.index.DeleteIndex(ctx, entity, language)
}

func (s *Syncer) statuteDoc(ctx context.Context, statute domain.Statute) (*es.StatuteDoc, error) {
	headings, err := extract.XMLHeadings(statute.Content)
	if err != nil {
		return nil, err
	}
	paragraphs, err := extract.XMLParagraphs(statute.Content)
	if err != nil {
		return nil, err
	}
	commonNames, err := s.store.CommonNames(ctx, statute.UUID)
	if err != nil {
		return nil, err
	}
	keywords, err := s.store.StatuteKeywords(ctx, statute.UUID)
	if err != nil {
		return nil, err
	}

	return &es.StatuteDoc{
		ID:          statute.UUID.String(),
		Title:       statute.Title,
		Year:        strconv.Itoa(statute.Year),
		YearNum:     statute.Year,
		Number:      statute.Number,
		HasContent:  hasContent(statute.IsEmpty),
		CommonNames: commonNames,
		Keywords:    keywords,
		Version:     statute.Version,
		Headings:    textnorm.NormalizeAll(domain.FlattenHeadings(headings), statute.Language),
		Paragraphs:  textnorm.NormalizeAll(paragraphs, statute.Language),
	}, nil
}

func (s *Syncer) judgmentDoc(ctx context.Context, judgment domain.Judgment) (*es.JudgmentDoc, error) {
	display, err := judgment.Level.Display(judgment.Language)
	if err != nil {
		return nil, err
	}
	headings, err := extract.HTMLHeadings(judgment.Content)
	if err != nil {
		return nil, err
	}
	paragraphs, err := extract.HTMLParagraphs(judgment.Content)
	if err != nil {
		return nil, err
	}
	keywords, err := s.store.JudgmentKeywords(ctx, judgment.UUID)
	if err != nil {
		return nil, err
	}

	return &es.JudgmentDoc{
		ID:         judgment.UUID.String(),
		Year:       strconv.Itoa(judgment.Year),
		YearNum:    judgment.Year,
		Number:     judgment.Number,
		Level:      display,
		HasContent: hasContent(judgment.IsEmpty),
		Keywords:   keywords,
		Headings:   textnorm.NormalizeAll(domain.FlattenHeadings(headings), judgment.Language),
		Paragraphs: textnorm.NormalizeAll(paragraphs, judgment.Language),
	}, nil
}

func hasContent(isEmpty bool) int {
	if isEmpty {
		return 0
	}
	return 1
}
