package models

import "time"

// WatchlistItem is one bookmarked title. Identity is (ID, MediaType); the
// remaining fields are a denormalized snapshot taken when the item was added
// so the list renders without refetching metadata.
type WatchlistItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	MediaType   MediaType `json:"mediaType"`
	PosterPath  string    `json:"posterPath"`
	VoteAverage float64   `json:"voteAverage"`
	ReleaseDate string    `json:"releaseDate"`
	AddedAt     time.Time `json:"addedAt"`
}
