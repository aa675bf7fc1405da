package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"reelist/models"
	"reelist/services/tmdb"
	"reelist/utils"
)

type detailService interface {
	MovieDetails(context.Context, int) (*models.MovieDetails, error)
	TVDetails(context.Context, int) (*models.TVShowDetails, error)
}

var _ detailService = (*tmdb.Service)(nil)

// DetailHandler serves the detail bundle for /api/{movie|tv}/{slug}. The
// slug carries the numeric id; anything unparseable is a plain 404.
type DetailHandler struct {
	Service detailService
}

func NewDetailHandler(s detailService) *DetailHandler {
	return &DetailHandler{Service: s}
}

func (h *DetailHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.SlugID(mux.Vars(r)["slug"])
	if !ok {
		writeError(w, http.StatusNotFound, "title not found")
		return
	}
	details, err := h.Service.MovieDetails(r.Context(), id)
	if err != nil {
		if !tmdb.IsNotFound(err) {
			log.Printf("[handlers] movie details %d: %v", id, err)
		}
		writeError(w, http.StatusNotFound, "title not found")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *DetailHandler) TV(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.SlugID(mux.Vars(r)["slug"])
	if !ok {
		writeError(w, http.StatusNotFound, "title not found")
		return
	}
	details, err := h.Service.TVDetails(r.Context(), id)
	if err != nil {
		if !tmdb.IsNotFound(err) {
			log.Printf("[handlers] tv details %d: %v", id, err)
		}
		writeError(w, http.StatusNotFound, "title not found")
		return
	}
	writeJSON(w, http.StatusOK, details)
}
