package regions

import (
	"fmt"
	"strings"
	"time"

	"reelist/services/settings"
)

// PreferenceStore is the subset of the settings store the resolver needs.
type PreferenceStore interface {
	Get(name string) (string, bool)
	Set(name, value string, maxAge time.Duration)
}

var _ PreferenceStore = (settings.Store)(nil)

// Resolver reads and writes the viewer's region preference.
type Resolver struct {
	store PreferenceStore
}

func NewResolver(store PreferenceStore) *Resolver {
	return &Resolver{store: store}
}

// Current returns the stored region, or the default when nothing valid
// is stored. It never fails.
func (r *Resolver) Current() string {
	raw, ok := r.store.Get(settings.RegionKey)
	if !ok {
		return Default
	}
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !IsValid(code) {
		return Default
	}
	return code
}

// Set stores a region preference and marks the viewer as having custom
// settings. Unknown codes are rejected. Returns the normalized code that was
// stored; callers backed by a cookie store cannot read it back from Current
// within the same request, since writes only land in the response.
func (r *Resolver) Set(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !IsValid(code) {
		return "", fmt.Errorf("unknown region code %q", code)
	}
	r.store.Set(settings.RegionKey, code, settings.PreferenceLifetime)
	settings.MarkHasSettings(r.store)
	return code, nil
}
