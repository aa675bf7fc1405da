package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"reelist/models"
	"reelist/services/regions"
	"reelist/services/tmdb"
)

type providerService interface {
	StreamingProviders(ctx context.Context, region string) ([]models.WatchProvider, error)
	TitleProviders(ctx context.Context, kind models.MediaType, id int, region string) (models.WatchProviderData, error)
}

var _ providerService = (*tmdb.Service)(nil)

type ProvidersHandler struct {
	Service providerService
	Prefs   prefStore
}

func NewProvidersHandler(s providerService, prefs prefStore) *ProvidersHandler {
	return &ProvidersHandler{Service: s, Prefs: prefs}
}

// Catalog serves /api/streaming-providers?region=. Without an explicit
// region the viewer's preference applies.
func (h *ProvidersHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if !regions.IsValid(region) {
		region = regions.NewResolver(h.Prefs(w, r)).Current()
	}
	providers, err := h.Service.StreamingProviders(r.Context(), region)
	if err != nil {
		log.Printf("[handlers] provider catalog region=%s: %v", region, err)
		writeJSON(w, http.StatusOK, map[string]any{"region": region, "providers": []models.WatchProvider{}})
		return
	}
	if providers == nil {
		providers = []models.WatchProvider{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"region": region, "providers": providers})
}

// Title serves /api/watch-providers?id=&mediaType= with the streaming,
// rental and purchase options for one title in the viewer's region.
func (h *ProvidersHandler) Title(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	kind := models.MediaType(r.URL.Query().Get("mediaType"))
	if kind != models.MediaTypeMovie && kind != models.MediaTypeTV {
		writeError(w, http.StatusBadRequest, "mediaType must be movie or tv")
		return
	}

	region := regions.NewResolver(h.Prefs(w, r)).Current()
	data, err := h.Service.TitleProviders(r.Context(), kind, id, region)
	if err != nil {
		log.Printf("[handlers] title providers %s %d: %v", kind, id, err)
		writeJSON(w, http.StatusOK, map[string]any{"region": region, "providers": models.WatchProviderData{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"region": region, "providers": data})
}
