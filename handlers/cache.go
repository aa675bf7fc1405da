package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"reelist/services/tmdb"
)

type invalidator interface {
	InvalidateTag(context.Context, string) error
}

var _ invalidator = (*tmdb.Service)(nil)

// CacheHandler exposes operational tag invalidation, e.g. after a bad
// upstream payload was cached.
type CacheHandler struct {
	Service invalidator
}

func NewCacheHandler(s invalidator) *CacheHandler {
	return &CacheHandler{Service: s}
}

// Invalidate serves POST /api/cache/invalidate?tag=.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	if tag == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}
	if err := h.Service.InvalidateTag(r.Context(), tag); err != nil {
		log.Printf("[handlers] invalidate tag %q: %v", tag, err)
		writeError(w, http.StatusInternalServerError, "failed to invalidate tag")
		return
	}
	log.Printf("[handlers] invalidated cache tag %q", tag)
	writeJSON(w, http.StatusOK, map[string]string{"invalidated": tag})
}
