// Package handlers is the HTTP boundary: it resolves the viewer's
// preferences, calls the catalog services and shapes JSON responses.
// Upstream failures are mapped here: detail lookups become 404s, listing
// failures become empty states or 502s, never half-filled payloads.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"reelist/models"
	"reelist/services/regions"
	"reelist/services/settings"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pageParam reads ?page=, clamping junk and out-of-range values to 1.
// TMDB rejects pages above 500.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 || page > 500 {
		return 1
	}
	return page
}

// prefStore opens the cookie-backed preference store for this exchange.
type prefStore func(w http.ResponseWriter, r *http.Request) settings.Store

// CookiePrefs returns the production preference store constructor.
func CookiePrefs(secure bool) prefStore {
	return func(w http.ResponseWriter, r *http.Request) settings.Store {
		return settings.NewCookieStore(w, r, secure)
	}
}

// viewerPrefs snapshots the request's effective region and provider filter.
func viewerPrefs(store settings.Store) models.ViewerPrefs {
	resolver := regions.NewResolver(store)
	return models.ViewerPrefs{
		Region:       resolver.Current(),
		ProviderMode: string(settings.ProviderFilter(store)),
		ProviderIDs:  settings.SelectedProviderQuery(store),
	}
}
