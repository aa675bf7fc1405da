package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"reelist/models"
	"reelist/services/watchlist"
)

type watchlistService interface {
	Add(context.Context, models.WatchlistItem) (bool, error)
	Remove(context.Context, int, models.MediaType) (bool, error)
	Contains(context.Context, int, models.MediaType) (bool, error)
	List(context.Context) ([]models.WatchlistItem, error)
	Clear(context.Context) error
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(s watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: s}
}

// List serves GET /api/watchlist, newest first.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("[handlers] watchlist list: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load watchlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Add serves POST /api/watchlist. Adding a title already on the list is a
// 200 with added=false.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item models.WatchlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if item.ID <= 0 || (item.MediaType != models.MediaTypeMovie && item.MediaType != models.MediaTypeTV) {
		writeError(w, http.StatusBadRequest, "id and mediaType are required")
		return
	}
	added, err := h.Service.Add(r.Context(), item)
	if err != nil {
		log.Printf("[handlers] watchlist add %d: %v", item.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to add watchlist item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

// Remove serves DELETE /api/watchlist?id=&mediaType=.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, kind, ok := watchlistKeyParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "id and mediaType are required")
		return
	}
	removed, err := h.Service.Remove(r.Context(), id, kind)
	if err != nil {
		log.Printf("[handlers] watchlist remove %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to remove watchlist item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// Contains serves GET /api/watchlist/contains?id=&mediaType=.
func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, kind, ok := watchlistKeyParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "id and mediaType are required")
		return
	}
	contains, err := h.Service.Contains(r.Context(), id, kind)
	if err != nil {
		log.Printf("[handlers] watchlist contains %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to check watchlist item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"contains": contains})
}

// Clear serves DELETE /api/watchlist/all.
func (h *WatchlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Clear(r.Context()); err != nil {
		log.Printf("[handlers] watchlist clear: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear watchlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func watchlistKeyParams(r *http.Request) (int, models.MediaType, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		return 0, "", false
	}
	kind := models.MediaType(r.URL.Query().Get("mediaType"))
	if kind != models.MediaTypeMovie && kind != models.MediaTypeTV {
		return 0, "", false
	}
	return id, kind, true
}
