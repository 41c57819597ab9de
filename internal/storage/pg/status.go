package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
)

type rowScanner interface {
	Scan(dest ...any) error
}

var _ storage.StatusStore = (*Store)(nil)

func (s *Store) CreateStatus(ctx context.Context, data map[string]any, updating bool) (*domain.StatusEntry, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status data: %w", err)
	}

	cmd := `
		INSERT INTO status (data, updating)
		VALUES ($1, $2)
		RETURNING id, date, data, updating;
	`
	return s.scanStatus(s.db.QueryRow(ctx, cmd, payload, updating))
}

func (s *Store) LatestStatus(ctx context.Context) (*domain.StatusEntry, error) {
	sql := `SELECT id, date, data, updating FROM status ORDER BY date DESC LIMIT 1`
	entry, err := s.scanStatus(s.db.QueryRow(ctx, sql))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListStatus(ctx context.Context, limit int) ([]domain.StatusEntry, error) {
	sql := `SELECT id, date, data, updating FROM status ORDER BY date DESC LIMIT $1`
	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query status entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusEntry
	for rows.Next() {
		var entry domain.StatusEntry
		var payload []byte
		if err := rows.Scan(&entry.ID, &entry.Date, &payload, &entry.Updating); err != nil {
			return nil, fmt.Errorf("failed to scan status entry: %w", err)
		}
		if err := json.Unmarshal(payload, &entry.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status data: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ClearStatus wipes the status history and returns the number of rows
// removed.
func (s *Store) ClearStatus(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM status`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear status entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteStatusBefore prunes status entries older than keepDays days and
// returns the number removed.
func (s *Store) DeleteStatusBefore(ctx context.Context, keepDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	tag, err := s.db.Exec(ctx, `DELETE FROM status WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune status entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) scanStatus(row rowScanner) (*domain.StatusEntry, error) {
	var entry domain.StatusEntry
	var payload []byte
	if err := row.Scan(&entry.ID, &entry.Date, &payload, &entry.Updating); err != nil {
		return nil, fmt.Errorf("failed to scan status entry: %w", err)
	}
	if err := json.Unmarshal(payload, &entry.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data: %w", err)
	}
	return &entry, nil
}
