package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reelist/models"
)

// WatchlistRepository persists bookmarked titles. Identity is the
// (media_id, media_type) pair: the same TMDB id can be bookmarked once as a
// movie and once as a TV show.
type WatchlistRepository struct {
	db *sql.DB
}

func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add inserts an item and reports whether it was newly added. Adding a
// title that is already on the list is a no-op returning false.
func (r *WatchlistRepository) Add(ctx context.Context, item models.WatchlistItem) (bool, error) {
	addedAt := item.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlist (media_id, media_type, title, poster_path, vote_average, release_date, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.MediaType), item.Title, item.PosterPath, item.VoteAverage, item.ReleaseDate, addedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add watchlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Remove deletes an item and reports whether it existed.
func (r *WatchlistRepository) Remove(ctx context.Context, id int, mediaType models.MediaType) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE media_id = ? AND media_type = ?`,
		id, string(mediaType),
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Contains reports whether a title is on the list.
func (r *WatchlistRepository) Contains(ctx context.Context, id int, mediaType models.MediaType) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM watchlist WHERE media_id = ? AND media_type = ?`,
		id, string(mediaType),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist item: %w", err)
	}
	return true, nil
}

// List returns every item, most recently added first.
func (r *WatchlistRepository) List(ctx context.Context) ([]models.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT media_id, media_type, title, poster_path, vote_average, release_date, added_at
		 FROM watchlist ORDER BY added_at DESC, media_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	items := []models.WatchlistItem{}
	for rows.Next() {
		var item models.WatchlistItem
		var mediaType string
		if err := rows.Scan(&item.ID, &mediaType, &item.Title, &item.PosterPath, &item.VoteAverage, &item.ReleaseDate, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		item.MediaType = models.MediaType(mediaType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist rows: %w", err)
	}
	return items, nil
}

// Clear removes every item.
func (r *WatchlistRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM watchlist`); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	return nil
}
