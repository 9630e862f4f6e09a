package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the tables the repository reads and writes.
// Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS blogs (
		id           UUID PRIMARY KEY,
		title        TEXT NOT NULL CHECK (btrim(title) <> ''),
		content      TEXT NOT NULL CHECK (btrim(content) <> ''),
		image        TEXT NOT NULL DEFAULT '',
		tags         TEXT[] NOT NULL DEFAULT '{}',
		category     TEXT NOT NULL DEFAULT '',
		published    BOOLEAN NOT NULL DEFAULT FALSE,
		published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		read_time    INTEGER NOT NULL DEFAULT 1,
		author       TEXT NOT NULL DEFAULT 'Admin',
		excerpt      TEXT NOT NULL CHECK (btrim(excerpt) <> ''),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS blogs_created_at_idx ON blogs (created_at DESC, id)`,
	`CREATE INDEX IF NOT EXISTS blogs_published_idx ON blogs (published, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL CHECK (btrim(title) <> ''),
		description TEXT NOT NULL DEFAULT '',
		tech_stack  TEXT[] NOT NULL DEFAULT '{}',
		github_link TEXT NOT NULL DEFAULT '',
		live_demo   TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS projects_created_at_idx ON projects (created_at DESC, id)`,
}

// EnsureSchema creates the blogs and projects tables when they are missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
