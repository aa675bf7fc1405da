package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelist/models"
	"reelist/services/tmdb"
)

// catalogService is the slice of the TMDB facade the listing handlers need.
type catalogService interface {
	PopularMovies(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	PopularTV(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	TopRatedMovies(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	TopRatedTV(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	NowPlayingMovies(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	AiringTodayTV(context.Context, int, models.ViewerPrefs) (models.MediaPage, error)
	DiscoverMovies(context.Context, int, models.ViewerPrefs, models.FilterOptions) (models.MediaPage, error)
	DiscoverTV(context.Context, int, models.ViewerPrefs, models.FilterOptions) (models.MediaPage, error)
	Trending(ctx context.Context, kind, window string, prefs models.ViewerPrefs) (models.MediaPage, error)
	SearchMulti(ctx context.Context, query string, page int, prefs models.ViewerPrefs) (models.MediaPage, error)
}

var _ catalogService = (*tmdb.Service)(nil)

type CatalogHandler struct {
	Service catalogService
	Prefs   prefStore
}

func NewCatalogHandler(s catalogService, prefs prefStore) *CatalogHandler {
	return &CatalogHandler{Service: s, Prefs: prefs}
}

type listFetch func(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error)

// serveList runs one listing fetch and maps a failed fetch to an empty
// page rather than an error page.
func (h *CatalogHandler) serveList(w http.ResponseWriter, r *http.Request, name string, fetch listFetch) {
	prefs := viewerPrefs(h.Prefs(w, r))
	page, err := fetch(r.Context(), pageParam(r), prefs)
	if err != nil {
		log.Printf("[handlers] %s listing failed region=%s: %v", name, prefs.Region, err)
		writeJSON(w, http.StatusOK, models.MediaPage{Page: 1, Results: []models.MediaItem{}, TotalPages: 1})
		return
	}
	if page.Results == nil {
		page.Results = []models.MediaItem{}
	}
	writeJSON(w, http.StatusOK, page)
}

// Movies serves /api/movies/{list} for popular, top-rated and now-playing.
func (h *CatalogHandler) Movies(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["list"] {
	case "popular":
		h.serveList(w, r, "popular-movies", h.Service.PopularMovies)
	case "top-rated":
		h.serveList(w, r, "top-rated-movies", h.Service.TopRatedMovies)
	case "now-playing":
		h.serveList(w, r, "now-playing-movies", h.Service.NowPlayingMovies)
	default:
		writeError(w, http.StatusNotFound, "unknown movie list")
	}
}

// TV serves /api/tv/{list} for popular, top-rated and airing-today.
func (h *CatalogHandler) TV(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["list"] {
	case "popular":
		h.serveList(w, r, "popular-tv", h.Service.PopularTV)
	case "top-rated":
		h.serveList(w, r, "top-rated-tv", h.Service.TopRatedTV)
	case "airing-today":
		h.serveList(w, r, "airing-today-tv", h.Service.AiringTodayTV)
	default:
		writeError(w, http.StatusNotFound, "unknown tv list")
	}
}

// Discover serves /api/discover/{kind} with the user-facing filter params.
func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaTypeMovie
	if mux.Vars(r)["kind"] == "tv" {
		kind = models.MediaTypeTV
	}
	filters := tmdb.ParseFilters(r.URL.Query().Get, kind)
	fetch := func(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
		if kind == models.MediaTypeTV {
			return h.Service.DiscoverTV(ctx, page, prefs, filters)
		}
		return h.Service.DiscoverMovies(ctx, page, prefs, filters)
	}
	h.serveList(w, r, "discover", fetch)
}

// Trending serves /api/trending?type=&window=.
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	window := r.URL.Query().Get("window")
	fetch := func(ctx context.Context, _ int, prefs models.ViewerPrefs) (models.MediaPage, error) {
		return h.Service.Trending(ctx, kind, window, prefs)
	}
	h.serveList(w, r, "trending", fetch)
}

// Search serves /api/search?query=&page=. A blank query is a 400; an
// upstream failure is an empty result page.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	fetch := func(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
		return h.Service.SearchMulti(ctx, query, page, prefs)
	}
	h.serveList(w, r, "search", fetch)
}
