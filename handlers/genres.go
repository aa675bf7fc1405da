package handlers

import (
	"context"
	"log"
	"net/http"

	"reelist/services/tmdb"
)

type genreService interface {
	Genres(context.Context) (tmdb.GenreSet, error)
}

var _ genreService = (*tmdb.Service)(nil)

type GenresHandler struct {
	Service genreService
}

func NewGenresHandler(s genreService) *GenresHandler {
	return &GenresHandler{Service: s}
}

// Genres serves /api/genres with both taxonomies, falling back to the
// static tables when upstream is down so navigation never disappears.
func (h *GenresHandler) Genres(w http.ResponseWriter, r *http.Request) {
	set, err := h.Service.Genres(r.Context())
	if err != nil {
		log.Printf("[handlers] genres fetch failed, serving static fallback: %v", err)
		set = tmdb.StaticGenres()
	}
	writeJSON(w, http.StatusOK, set)
}
