package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
)

// Store implements storage.DocumentStore on PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

var _ storage.DocumentStore = (*Store)(nil)

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.conn}
}

// SaveStatute upserts one statute edition. The (year, number, language,
// version) key decides identity; a re-ingested edition keeps its uuid
// and gets fresh content.
func (s *Store) SaveStatute(ctx context.Context, statute domain.Statute) (uuid.UUID, error) {
	if statute.UUID == uuid.Nil {
		statute.UUID = uuid.New()
	}

	cmd := `
		INSERT INTO statutes (uuid, title, number, year, language, version, content, is_empty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, number, language, version) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, is_empty = EXCLUDED.is_empty
		RETURNING uuid;
	`
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		statute.UUID,
		statute.Title,
		statute.Number,
		statute.Year,
		statute.Language,
		statute.Version,
		statute.Content,
		statute.IsEmpty,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert statute: %w", err)
	}
	return id, nil
}

// SaveJudgment upserts one judgment under its (year, number, language,
// level) key.
func (s *Store) SaveJudgment(ctx context.Context, judgment domain.Judgment) (uuid.UUID, error) {
	if judgment.UUID == uuid.Nil {
		judgment.UUID = uuid.New()
	}

	cmd := `
		INSERT INTO judgments (uuid, level, number, year, language, content, is_empty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (year, number, language, level) DO UPDATE
		SET content = EXCLUDED.content, is_empty = EXCLUDED.is_empty
		RETURNING uuid;
	`
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		judgment.UUID,
		judgment.Level,
		judgment.Number,
		judgment.Year,
		judgment.Language,
		judgment.Content,
		judgment.IsEmpty,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert judgment: %w", err)
	}
	return id, nil
}

func (s *Store) SaveImage(ctx context.Context, image domain.Image) (uuid.UUID, error) {
	if image.UUID == uuid.Nil {
		image.UUID = uuid.New()
	}

	cmd := `
		INSERT INTO images (uuid, name, mime_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING uuid;
	`
	var id uuid.UUID
	err := s.db.QueryRow(ctx, cmd, image.UUID, image.Name, image.MimeType, image.Content).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return id, nil
}

func (s *Store) MapImageToStatute(ctx context.Context, statuteUUID, imageUUID uuid.UUID) error {
	cmd := `
		INSERT INTO statute_images (statute_uuid, image_uuid)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`
	if _, err := s.db.Exec(ctx, cmd, statuteUUID, imageUUID); err != nil {
		return fmt.Errorf("failed to map image to statute: %w", err)
	}
	return nil
}

func (s *Store) SaveStatuteKeyword(ctx context.Context, keyword domain.StatuteKeyword) (string, error) {
	cmd := `
		INSERT INTO statute_keywords (id, keyword, statute_uuid, language)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id, statute_uuid) DO UPDATE SET keyword = EXCLUDED.keyword
		RETURNING id;
	`
	var id string
	err := s.db.QueryRow(ctx, cmd, keyword.ID, keyword.Keyword, keyword.StatuteUUID, keyword.Language).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert statute keyword: %w", err)
	}
	return id, nil
}

func (s *Store) SaveJudgmentKeyword(ctx context.Context, keyword domain.JudgmentKeyword) (string, error) {
	cmd := `
		INSERT INTO judgment_keywords (id, keyword, judgment_uuid, language)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id, judgment_uuid) DO UPDATE SET keyword = EXCLUDED.keyword
		RETURNING id;
	`
	var id string
	err := s.db.QueryRow(ctx, cmd, keyword.ID, keyword.Keyword, keyword.JudgmentUUID, keyword.Language).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert judgment keyword: %w", err)
	}
	return id, nil
}

// DeleteJudgmentKeywords clears a judgment's keyword rows so a re-ingest
// can write a freshly sequenced set.
func (s *Store) DeleteJudgmentKeywords(ctx context.Context, judgmentUUID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM judgment_keywords WHERE judgment_uuid = $1`, judgmentUUID); err != nil {
		return fmt.Errorf("failed to delete judgment keywords: %w", err)
	}
	return nil
}

func (s *Store) SaveCommonName(ctx context.Context, name domain.CommonName) (uuid.UUID, error) {
	if name.UUID == uuid.Nil {
		name.UUID = uuid.New()
	}

	cmd := `
		INSERT INTO common_names (uuid, common_name, statute_uuid)
		VALUES ($1, $2, $3)
		RETURNING uuid;
	`
	var id uuid.UUID
	err := s.db.QueryRow(ctx, cmd, name.UUID, name.Name, name.StatuteUUID).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert common name: %w", err)
	}
	return id, nil
}

func (s *Store) StatutesByYear(ctx context.Context, year int, language domain.Language) ([]domain.Statute, error) {
	sql := `
		SELECT uuid, title, number, year, language, version, content, is_empty
		FROM statutes
		WHERE language = $1 AND year = $2
		ORDER BY uuid;
	`
	rows, err := s.db.Query(ctx, sql, language, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query statutes: %w", err)
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
			&statute.Content,
			&statute.IsEmpty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan statute: %w", err)
		}
		statutes = append(statutes, statute)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statutes, nil
}

func (s *Store) JudgmentsByYear(ctx context.Context, year int, language domain.Language) ([]domain.Judgment, error) {
	sql := `
		SELECT uuid, level, number, year, language, content, is_empty
		FROM judgments
		WHERE language = $1 AND year = $2
		ORDER BY uuid;
	`
	rows, err := s.db.Query(ctx, sql, language, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query judgments: %w", err)
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
			&judgment.Content,
			&judgment.IsEmpty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan judgment: %w", err)
		}
		judgments = append(judgments, judgment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return judgments, nil
}

func (s *Store) StatuteByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Statute, error) {
	sql := `
		SELECT uuid, title, number, year, language, version, content, is_empty
		FROM statutes
		WHERE uuid = $1 AND language = $2
		LIMIT 1;
	`
	var statute domain.Statute
	err := s.db.QueryRow(ctx, sql, id, language).Scan(
		&statute.UUID,
		&statute.Title,
		&statute.Number,
		&statute.Year,
		&statute.Language,
		&statute.Version,
		&statute.Content,
		&statute.IsEmpty,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query statute by id: %w", err)
	}
	return &statute, nil
}

func (s *Store) JudgmentByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Judgment, error) {
	sql := `
		SELECT uuid, level, number, year, language, content, is_empty
		FROM judgments
		WHERE uuid = $1 AND language = $2
		LIMIT 1;
	`
	var judgment domain.Judgment
	err := s.db.QueryRow(ctx, sql, id, language).Scan(
		&judgment.UUID,
		&judgment.Level,
		&judgment.Number,
		&judgment.Year,
		&judgment.Language,
		&judgment.Content,
		&judgment.IsEmpty,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query judgment by id: %w", err)
	}
	return &judgment, nil
}

func (s *Store) StatuteKeywords(ctx context.Context, statuteUUID uuid.UUID) ([]string, error) {
	return s.stringColumn(ctx,
		`SELECT keyword FROM statute_keywords WHERE statute_uuid = $1 ORDER BY id`, statuteUUID)
}

func (s *Store) JudgmentKeywords(ctx context.Context, judgmentUUID uuid.UUID) ([]string, error) {
	return s.stringColumn(ctx,
		`SELECT keyword FROM judgment_keywords WHERE judgment_uuid = $1 ORDER BY id`, judgmentUUID)
}

func (s *Store) CommonNames(ctx context.Context, statuteUUID uuid.UUID) ([]string, error) {
	return s.stringColumn(ctx,
		`SELECT common_name FROM common_names WHERE statute_uuid = $1 ORDER BY common_name`, statuteUUID)
}

func (s *Store) stringColumn(ctx context.Context, sql string, arg any) ([]string, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (s *Store) StatuteYearCounts(ctx context.Context, language domain.Language) (map[int]int, error) {
	return s.yearCounts(ctx,
		`SELECT year, COUNT(*) FROM statutes WHERE language = $1 GROUP BY year`, language)
}

func (s *Store) JudgmentYearCounts(ctx context.Context, language domain.Language) (map[int]int, error) {
	return s.yearCounts(ctx,
		`SELECT year, COUNT(*) FROM judgments WHERE language = $1 GROUP BY year`, language)
}

func (s *Store) yearCounts(ctx context.Context, sql string, language domain.Language) (map[int]int, error) {
	rows, err := s.db.Query(ctx, sql, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query year counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return nil, fmt.Errorf("failed to scan year count: %w", err)
		}
		counts[year] = count
	}
	return counts, rows.Err()
}

// DeleteYear drops one year of documents. Satellite rows go with them
// through cascading foreign keys.
func (s *Store) DeleteYear(ctx context.Context, entity domain.EntityType, year int) error {
	var cmd string
	switch entity {
	case domain.EntityStatutes:
		cmd = `DELETE FROM statutes WHERE year = $1`
	case domain.EntityJudgments:
		cmd = `DELETE FROM judgments WHERE year = $1`
	default:
		return fmt.Errorf("unsupported entity type %q", entity)
	}
	if _, err := s.db.Exec(ctx, cmd, year); err != nil {
		return fmt.Errorf("failed to delete year %d: %w", year, err)
	}
	return nil
}
