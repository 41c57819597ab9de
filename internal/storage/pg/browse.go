package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
)

// YearBounds returns the smallest and largest stored year for an entity
// type. ok is false when nothing is stored at all.
func (s *Store) YearBounds(ctx context.Context, entity domain.EntityType) (minYear, maxYear int, ok bool, err error) {
	var table string
	switch entity {
	case domain.EntityStatutes:
		table = "statutes"
	case domain.EntityJudgments:
		table = "judgments"
	default:
		return 0, 0, false, fmt.Errorf("unsupported entity type %q", entity)
	}

	var count int
	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(MIN(year), 0), COALESCE(MAX(year), 0), COUNT(*) FROM `+table,
	).Scan(&minYear, &maxYear, &count)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to query year bounds: %w", err)
	}
	return minYear, maxYear, count > 0, nil
}

// ListStatuteKeywords returns the distinct classification keywords of
// one language.
func (s *Store) ListStatuteKeywords(ctx context.Context, language domain.Language) ([]domain.StatuteKeyword, error) {
	sql := `
		SELECT DISTINCT id, keyword
		FROM statute_keywords
		WHERE language = $1
		ORDER BY keyword;
	`
	rows, err := s.db.Query(ctx, sql, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query statute keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.StatuteKeyword
	for rows.Next() {
		kw := domain.StatuteKeyword{Language: language}
		if err := rows.Scan(&kw.ID, &kw.Keyword); err != nil {
			return nil, fmt.Errorf("failed to scan statute keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// StatutesByKeywordID lists the statutes carrying one classification
// keyword, newest first and without body content.
func (s *Store) StatutesByKeywordID(ctx context.Context, language domain.Language, keywordID string) ([]domain.Statute, error) {
	sql := `
		SELECT s.uuid, s.title, s.number, s.year, s.language, s.version, s.is_empty
		FROM statutes s
		JOIN statute_keywords k ON k.statute_uuid = s.uuid
		WHERE k.language = $1 AND k.id = $2
		ORDER BY s.year DESC, s.number;
	`
	rows, err := s.db.Query(ctx, sql, language, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statutes by keyword: %w", err)
	}
	defer rows.Close()

	var statutes []domain.Statute
	for rows.Next() {
		var statute domain.Statute
		if err := rows.Scan(
			&statute.UUID,
			&statute.Title,
			&statute.Number,
			&statute.Year,
			&statute.Language,
			&statute.Version,
			&statute.IsEmpty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statute: %w", err)
		}
		statutes = append(statutes, statute)
	}
	return statutes, rows.Err()
}

// ListJudgmentKeywords returns the subject keywords of one language.
func (s *Store) ListJudgmentKeywords(ctx context.Context, language domain.Language) ([]domain.JudgmentKeyword, error) {
	sql := `
		SELECT id, keyword, judgment_uuid
		FROM judgment_keywords
		WHERE language = $1
		ORDER BY keyword;
	`
	rows, err := s.db.Query(ctx, sql, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query judgment keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.JudgmentKeyword
	for rows.Next() {
		kw := domain.JudgmentKeyword{Language: language}
		if err := rows.Scan(&kw.ID, &kw.Keyword, &kw.JudgmentUUID); err != nil {
			return nil, fmt.Errorf("failed to scan judgment keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// JudgmentsByKeywordID lists the judgments carrying one subject
// keyword, without body content.
func (s *Store) JudgmentsByKeywordID(ctx context.Context, language domain.Language, keywordID string) ([]domain.Judgment, error) {
	sql := `
		SELECT j.uuid, j.level, j.number, j.year, j.language, j.is_empty
		FROM judgments j
		JOIN judgment_keywords k ON k.judgment_uuid = j.uuid
		WHERE k.language = $1 AND k.id = $2
		ORDER BY j.year DESC, j.number;
	`
	rows, err := s.db.Query(ctx, sql, language, keywordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query judgments by keyword: %w", err)
	}
	defer rows.Close()

	var judgments []domain.Judgment
	for rows.Next() {
		var judgment domain.Judgment
		if err := rows.Scan(
			&judgment.UUID,
			&judgment.Level,
			&judgment.Number,
			&judgment.Year,
			&judgment.Language,
			&judgment.IsEmpty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan judgment: %w", err)
		}
		judgments = append(judgments, judgment)
	}
	return judgments, rows.Err()
}

// FindStatuteUUID resolves the stored id of a statute by its public
// key, preferring the newest consolidation version.
func (s *Store) FindStatuteUUID(ctx context.Context, number string, year int, language domain.Language) (uuid.UUID, error) {
	sql := `
		SELECT uuid FROM statutes
		WHERE number = $1 AND year = $2 AND language = $3
		ORDER BY version DESC
		LIMIT 1;
	`
	var id uuid.UUID
	err := s.db.QueryRow(ctx, sql, number, year, language).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, storage.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find statute: %w", err)
	}
	return id, nil
}

// FindJudgmentUUID resolves the stored id of a judgment by its public
// key.
func (s *Store) FindJudgmentUUID(ctx context.Context, number string, year int, language domain.Language, level domain.CourtLevel) (uuid.UUID, error) {
	sql := `
		SELECT uuid FROM judgments
		WHERE number = $1 AND year = $2 AND language = $3 AND level = $4
		LIMIT 1;
	`
	var id uuid.UUID
	err := s.db.QueryRow(ctx, sql, number, year, language, level).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, storage.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find judgment: %w", err)
	}
	return id, nil
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS statute_images CASCADE`,
	`DROP TABLE IF EXISTS images CASCADE`,
	`DROP TABLE IF EXISTS common_names CASCADE`,
	`DROP TABLE IF EXISTS statute_keywords CASCADE`,
	`DROP TABLE IF EXISTS judgment_keywords CASCADE`,
	`DROP TABLE IF EXISTS statutes CASCADE`,
	`DROP TABLE IF EXISTS judgments CASCADE`,
	`DROP TABLE IF EXISTS status CASCADE`,
}

// DropTables removes the whole schema. Pair with CreateTables to reset
// the database.
func (s *Store) DropTables(ctx context.Context) error {
	for _, stmt := range dropStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	return nil
}

// DropJudgmentTables removes only the judgment-side tables.
func (s *Store) DropJudgmentTables(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS judgment_keywords CASCADE`,
		`DROP TABLE IF EXISTS judgments CASCADE`,
	} {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop judgment tables: %w", err)
		}
	}
	return nil
}
