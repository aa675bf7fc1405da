// Package settings resolves per-viewer preferences persisted in a
// cookie-like key/value store: the watch-provider content filter, the set of
// selected streaming providers, and the has-settings sentinel. The region
// preference lives in the same store but is resolved by services/regions.
package settings

import (
	"net/http"
	"sync"
	"time"
)

// PreferenceLifetime is how long persisted preferences live.
const PreferenceLifetime = 365 * 24 * time.Hour

// Preference keys.
const (
	RegionKey         = "region"
	ProviderFilterKey = "watch-provider-filter"
	ProvidersKey      = "selected-watch-providers"
	HasSettingsKey    = "user-has-settings"
)

// Store is the persistence contract for viewer preferences. Implementations
// must tolerate absent keys; callers treat every read as best-effort and
// fall back to defaults.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, maxAge time.Duration)
}

// CookieStore persists preferences in HTTP cookies on the current
// request/response pair.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

// NewCookieStore wraps one request/response exchange. secure controls the
// Secure cookie attribute (on behind TLS).
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure}
}

func (c *CookieStore) Get(name string) (string, bool) {
	ck, err := c.r.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStore) Set(name, value string, maxAge time.Duration) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Values is an in-memory Store for tests and non-HTTP callers.
type Values struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewValues() *Values {
	return &Values{m: make(map[string]string)}
}

func (v *Values) Get(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[name]
	return val, ok
}

func (v *Values) Set(name, value string, _ time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[name] = value
}
