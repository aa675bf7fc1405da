// Package watchlist manages the viewer's bookmarked titles behind a
// storage-agnostic interface. The default store is the embedded SQLite
// repository; the interface keeps the persistence mechanism swappable.
package watchlist

import (
	"context"
	"log"
	"sort"

	"reelist/models"
)

// Store is the persistence contract. Identity is (id, mediaType).
type Store interface {
	Add(ctx context.Context, item models.WatchlistItem) (bool, error)
	Remove(ctx context.Context, id int, mediaType models.MediaType) (bool, error)
	Contains(ctx context.Context, id int, mediaType models.MediaType) (bool, error)
	List(ctx context.Context) ([]models.WatchlistItem, error)
	Clear(ctx context.Context) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add bookmarks a title. Returns false without error when it is already on
// the list.
func (s *Service) Add(ctx context.Context, item models.WatchlistItem) (bool, error) {
	added, err := s.store.Add(ctx, item)
	if err != nil {
		return false, err
	}
	if added {
		log.Printf("[watchlist] added %s %d %q", item.MediaType, item.ID, item.Title)
	}
	return added, nil
}

func (s *Service) Remove(ctx context.Context, id int, mediaType models.MediaType) (bool, error) {
	return s.store.Remove(ctx, id, mediaType)
}

func (s *Service) Contains(ctx context.Context, id int, mediaType models.MediaType) (bool, error) {
	return s.store.Contains(ctx, id, mediaType)
}

// List returns the bookmarked titles, most recently added first.
func (s *Service) List(ctx context.Context) ([]models.WatchlistItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	// The SQLite store already orders by added_at; re-sort so alternative
	// stores do not have to.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
