package repository

import (
	"context"
	"fmt"

	"mediabrowse/discovery/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MediaRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveMediaItems(ctx context.Context, kind domain.MediaKind, categoryID string, items []domain.MediaItem) error
}

type mediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) MediaRepository {
	return &mediaRepository{
		db: db,
	}
}

func (r *mediaRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS media_items (
		id         TEXT NOT NULL,
		kind       TEXT NOT NULL,
		category   TEXT NOT NULL,
		title      TEXT NOT NULL,
		year       INTEGER,
		data       JSONB NOT NULL,
		first_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_seen  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (id, kind)
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create media_items table: %w", err)
	}
	return nil
}

// SaveMediaItems upserts a batch keyed by identity key and kind. The category
// of the first sighting is kept.
func (r *mediaRepository) SaveMediaItems(ctx context.Context, kind domain.MediaKind, categoryID string, items []domain.MediaItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
	INSERT INTO media_items (id, kind, category, title, year, data)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id, kind)
	DO UPDATE SET title = $4, year = $5, data = $6, last_seen = now()`

	batch := &pgx.Batch{}
	for _, item := range items {
		var year *int
		if item.Year > 0 {
			year = &item.Year
		}
		batch.Queue(query, item.IdentityKey(), kind.String(), categoryID, item.Title, year, item)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for _, item := range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save media item %s: %w", item.IdentityKey(), err)
		}
	}

	return nil
}
