package pg

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS statutes (
		uuid UUID PRIMARY KEY,
		title TEXT NOT NULL,
		number TEXT NOT NULL,
		year INT NOT NULL,
		language TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		is_empty BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (year, number, language, version)
	)`,
	`CREATE TABLE IF NOT EXISTS judgments (
		uuid UUID PRIMARY KEY,
		level TEXT NOT NULL,
		number TEXT NOT NULL,
		year INT NOT NULL,
		language TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		is_empty BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (year, number, language, level)
	)`,
	`CREATE TABLE IF NOT EXISTS statute_keywords (
		id TEXT NOT NULL,
		keyword TEXT NOT NULL,
		statute_uuid UUID NOT NULL REFERENCES statutes(uuid) ON DELETE CASCADE,
		language TEXT NOT NULL,
		PRIMARY KEY (id, statute_uuid)
	)`,
	`CREATE TABLE IF NOT EXISTS judgment_keywords (
		id TEXT NOT NULL,
		keyword TEXT NOT NULL,
		judgment_uuid UUID NOT NULL REFERENCES judgments(uuid) ON DELETE CASCADE,
		language TEXT NOT NULL,
		PRIMARY KEY (id, judgment_uuid)
	)`,
	`CREATE TABLE IF NOT EXISTS common_names (
		uuid UUID PRIMARY KEY,
		common_name TEXT NOT NULL,
		statute_uuid UUID NOT NULL REFERENCES statutes(uuid) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS images (
		uuid UUID PRIMARY KEY,
		name TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		content BYTEA NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS statute_images (
		statute_uuid UUID NOT NULL REFERENCES statutes(uuid) ON DELETE CASCADE,
		image_uuid UUID NOT NULL REFERENCES images(uuid) ON DELETE CASCADE,
		PRIMARY KEY (statute_uuid, image_uuid)
	)`,
	`CREATE TABLE IF NOT EXISTS status (
		id BIGSERIAL PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL DEFAULT now(),
		data JSONB NOT NULL DEFAULT '{}',
		updating BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_statutes_year_language ON statutes (language, year)`,
	`CREATE INDEX IF NOT EXISTS idx_judgments_year_language ON judgments (language, year)`,
}

// CreateTables applies the schema. Every statement is idempotent, so
// running setup against an initialized database is a no-op.
func (s *Store) CreateTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Ready reports whether the schema has been applied.
func (s *Store) Ready(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT to_regclass('statutes') IS NOT NULL`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schema: %w", err)
	}
	return exists, nil
}
