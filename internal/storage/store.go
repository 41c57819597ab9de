// Package storage declares the persistence contracts the ingestion and
// sync services depend on. Implementations live in the pg and es
// subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// ErrNotFound is returned by id lookups that match no stored row.
var ErrNotFound = errors.New("storage: not found")

// DocumentStorer persists fetched documents and their satellites. Every
// save returns the canonical stored id, which for an already-stored
// document is the existing one.
type DocumentStorer interface {
	SaveStatute(ctx context.Context, statute domain.Statute) (uuid.UUID, error)
	SaveJudgment(ctx context.Context, judgment domain.Judgment) (uuid.UUID, error)
	SaveImage(ctx context.Context, image domain.Image) (uuid.UUID, error)
	MapImageToStatute(ctx context.Context, statuteUUID, imageUUID uuid.UUID) error
	SaveStatuteKeyword(ctx context.Context, keyword domain.StatuteKeyword) (string, error)
	SaveJudgmentKeyword(ctx context.Context, keyword domain.JudgmentKeyword) (string, error)
	DeleteJudgmentKeywords(ctx context.Context, judgmentUUID uuid.UUID) error
	SaveCommonName(ctx context.Context, name domain.CommonName) (uuid.UUID, error)
}

// DocumentReader reads stored documents back for indexing and browsing.
type DocumentReader interface {
	StatutesByYear(ctx context.Context, year int, language domain.Language) ([]domain.Statute, error)
	JudgmentsByYear(ctx context.Context, year int, language domain.Language) ([]domain.Judgment, error)
	StatuteByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Statute, error)
	JudgmentByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Judgment, error)
	StatuteKeywords(ctx context.Context, statuteUUID uuid.UUID) ([]string, error)
	JudgmentKeywords(ctx context.Context, judgmentUUID uuid.UUID) ([]string, error)
	CommonNames(ctx context.Context, statuteUUID uuid.UUID) ([]string, error)
	StatuteYearCounts(ctx context.Context, language domain.Language) (map[int]int, error)
	JudgmentYearCounts(ctx context.Context, language domain.Language) (map[int]int, error)
}

// DocumentStore is the full persistence collaborator.
type DocumentStore interface {
	DocumentStorer
	DocumentReader
	DeleteYear(ctx context.Context, entity domain.EntityType, year int) error
}

// StatusStore persists the polled status records through which
// long-running background runs report progress.
type StatusStore interface {
	CreateStatus(ctx context.Context, data map[string]any, updating bool) (*domain.StatusEntry, error)
	LatestStatus(ctx context.Context) (*domain.StatusEntry, error)
	ListStatus(ctx context.Context, limit int) ([]domain.StatusEntry, error)
	ClearStatus(ctx context.Context) (int64, error)
	DeleteStatusBefore(ctx context.Context, keepDays int) (int64, error)
}
