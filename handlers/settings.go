package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"reelist/services/events"
	"reelist/services/regions"
	"reelist/services/settings"
)

// SettingsHandler reads and mutates the viewer's persisted preferences.
// Every mutation emits a change event so the composition root can flush the
// region-scoped cache entries the old preferences shaped.
type SettingsHandler struct {
	Prefs prefStore
	Bus   *events.Bus
}

func NewSettingsHandler(prefs prefStore, bus *events.Bus) *SettingsHandler {
	return &SettingsHandler{Prefs: prefs, Bus: bus}
}

func (h *SettingsHandler) emit(name, payload string) {
	if h.Bus != nil {
		h.Bus.Emit(events.Event{Name: name, Payload: payload})
	}
}

// GetRegion serves GET /api/region.
func (h *SettingsHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	store := h.Prefs(w, r)
	code := regions.NewResolver(store).Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"region":     code,
		"name":       regions.Name(code),
		"customized": settings.HasCustomSettings(store, regions.Default),
		"allRegions": regions.All(),
	})
}

// PutRegion serves PUT /api/region. Unknown codes are a 400; the stored
// preference lives for a year.
func (h *SettingsHandler) PutRegion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Region string `json:"region"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	store := h.Prefs(w, r)
	resolver := regions.NewResolver(store)
	old := resolver.Current()
	next, err := resolver.Set(body.Region)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The event carries the old region: entries shaped by it are the stale ones.
	if next != old {
		h.emit(events.RegionChanged, old)
	}
	writeJSON(w, http.StatusOK, map[string]string{"region": next})
}

// GetProviderFilter serves GET /api/settings/watch-provider-filter.
func (h *SettingsHandler) GetProviderFilter(w http.ResponseWriter, r *http.Request) {
	store := h.Prefs(w, r)
	writeJSON(w, http.StatusOK, map[string]string{"filter": string(settings.ProviderFilter(store))})
}

// PutProviderFilter serves PUT /api/settings/watch-provider-filter.
func (h *SettingsHandler) PutProviderFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	store := h.Prefs(w, r)
	if !settings.SetProviderFilter(store, settings.WatchProviderFilter(body.Filter)) {
		writeError(w, http.StatusBadRequest, "filter must be all or streaming-only")
		return
	}
	h.emit(events.ProvidersChanged, regions.NewResolver(store).Current())
	writeJSON(w, http.StatusOK, map[string]string{"filter": body.Filter})
}

// GetProviders serves GET /api/settings/providers.
func (h *SettingsHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	store := h.Prefs(w, r)
	ids := settings.SelectedProviderIDs(store)
	writeJSON(w, http.StatusOK, map[string]any{"providers": ids})
}

// PutProviders serves PUT /api/settings/providers. Junk entries in the list
// are dropped rather than rejected.
func (h *SettingsHandler) PutProviders(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Providers string `json:"providers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	store := h.Prefs(w, r)
	ids := settings.ParseProviderIDs(strings.TrimSpace(body.Providers))
	settings.SetSelectedProviderIDs(store, ids)
	h.emit(events.ProvidersChanged, regions.NewResolver(store).Current())
	writeJSON(w, http.StatusOK, map[string]any{"providers": ids})
}
