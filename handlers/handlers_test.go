package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelist/handlers"
	"reelist/internal/database"
	"reelist/services/cache"
	"reelist/services/events"
	"reelist/services/tmdb"
	"reelist/services/watchlist"
	"reelist/utils"
)

type upstream struct {
	mu       sync.Mutex
	requests []*url.URL
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (u *upstream) calls() []*url.URL {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]*url.URL(nil), u.requests...)
}

// newTestServer builds the full HTTP stack against a fake TMDB upstream.
func newTestServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *upstream, *events.Bus) {
	t.Helper()

	up := &upstream{respond: respond}
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.mu.Lock()
		up.requests = append(up.requests, r.URL)
		up.mu.Unlock()
		if up.respond != nil {
			up.respond(w, r)
			return
		}
		w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	}))
	t.Cleanup(fake.Close)

	svc := tmdb.NewService("test-token", fake.URL, "en-US", fake.Client(), cache.NewMemory())
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewBus()
	prefs := handlers.CookiePrefs(false)

	catalog := handlers.NewCatalogHandler(svc, prefs)
	genres := handlers.NewGenresHandler(svc)
	router := utils.NewRouter(nil)
	handlers.Register(router, handlers.Deps{
		Catalog:   catalog,
		Detail:    handlers.NewDetailHandler(svc),
		Genres:    genres,
		Providers: handlers.NewProvidersHandler(svc, prefs),
		Settings:  handlers.NewSettingsHandler(prefs, bus),
		Watchlist: handlers.NewWatchlistHandler(watchlist.NewService(db.Watchlist)),
		Links:     handlers.NewLinksHandler(svc, svc, prefs),
		Cache:     handlers.NewCacheHandler(svc),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, up, bus
}

func getJSON(t *testing.T, srv *httptest.Server, path string, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestPopularMoviesUsesRegionCookie(t *testing.T) {
	srv, up, _ := newTestServer(t, nil)

	resp, _ := getJSON(t, srv, "/api/movies/popular", &http.Cookie{Name: "region", Value: "GB"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/discover/movie", calls[0].Path)
	assert.Equal(t, "GB", calls[0].Query().Get("region"))
	assert.False(t, calls[0].Query().Has("with_watch_providers"))
}

func TestStreamingOnlyCookiesShapeDiscovery(t *testing.T) {
	srv, up, _ := newTestServer(t, nil)

	_, _ = getJSON(t, srv, "/api/movies/popular",
		&http.Cookie{Name: "watch-provider-filter", Value: "streaming-only"},
		&http.Cookie{Name: "selected-watch-providers", Value: "8,337"},
	)

	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/discover/movie", calls[0].Path)
	assert.Equal(t, "8|337", calls[0].Query().Get("with_watch_providers"))
	assert.Equal(t, "US", calls[0].Query().Get("watch_region"))
}

func TestStreamingOnlyWithoutSelectionsStaysUnconstrained(t *testing.T) {
	srv, up, _ := newTestServer(t, nil)

	_, _ = getJSON(t, srv, "/api/movies/popular",
		&http.Cookie{Name: "watch-provider-filter", Value: "streaming-only"},
	)

	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/discover/movie", calls[0].Path)
	assert.False(t, calls[0].Query().Has("with_watch_providers"))
	assert.False(t, calls[0].Query().Has("with_watch_monetization_types"))
}

func TestListingFailureServesEmptyState(t *testing.T) {
	srv, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	resp, body := getJSON(t, srv, "/api/tv/popular")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["results"])
}

func TestDetailRoutes(t *testing.T) {
	srv, up, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/603" {
			w.Write([]byte(`{"id":603,"title":"The Matrix"}`))
			return
		}
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})

	resp, body := getJSON(t, srv, "/api/movie/the-matrix-603")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(603), body["id"])

	// The id is recovered from the slug, not the title part.
	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/movie/603", calls[0].Path)

	resp, _ = getJSON(t, srv, "/api/movie/not-a-slug")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	// No upstream call for an unparseable slug.
	assert.Len(t, up.calls(), 1)

	resp, _ = getJSON(t, srv, "/api/tv/gone-9999999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchRequiresQuery(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, _ := getJSON(t, srv, "/api/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegionRoundTrip(t *testing.T) {
	srv, _, bus := newTestServer(t, nil)

	var invalidated []string
	bus.Subscribe(events.RegionChanged, func(e events.Event) {
		invalidated = append(invalidated, e.Payload)
	})

	// Default region.
	resp, body := getJSON(t, srv, "/api/region")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "US", body["region"])

	// Change it.
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/region", strings.NewReader(`{"region":"de"}`))
	require.NoError(t, err)
	putResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer putResp.Body.Close()
	assert.Equal(t, http.StatusOK, putResp.StatusCode)

	var regionCookie *http.Cookie
	for _, c := range putResp.Cookies() {
		if c.Name == "region" {
			regionCookie = c
		}
	}
	require.NotNil(t, regionCookie)
	assert.Equal(t, "DE", regionCookie.Value)
	assert.Equal(t, []string{"US"}, invalidated)

	// Writing the region the viewer already has emits nothing.
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/region", strings.NewReader(`{"region":"us"}`))
	require.NoError(t, err)
	sameResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	sameResp.Body.Close()
	assert.Equal(t, http.StatusOK, sameResp.StatusCode)
	assert.Equal(t, []string{"US"}, invalidated)

	// Invalid code is rejected.
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/region", strings.NewReader(`{"region":"ZZ"}`))
	require.NoError(t, err)
	badResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer badResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

func TestProviderFilterValidation(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/settings/watch-provider-filter", strings.NewReader(`{"filter":"everything"}`))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/settings/watch-provider-filter", strings.NewReader(`{"filter":"streaming-only"}`))
	require.NoError(t, err)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWatchlistCRUD(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	client := srv.Client()

	post := func(body string) *http.Response {
		resp, err := client.Post(srv.URL+"/api/watchlist", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"id":603,"mediaType":"movie","title":"The Matrix"}`)
	var added map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	resp.Body.Close()
	assert.True(t, added["added"])

	// Duplicate add reports false.
	resp = post(`{"id":603,"mediaType":"movie","title":"The Matrix"}`)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	resp.Body.Close()
	assert.False(t, added["added"])

	_, body := getJSON(t, srv, "/api/watchlist/contains?id=603&mediaType=movie")
	assert.Equal(t, true, body["contains"])

	_, body = getJSON(t, srv, "/api/watchlist")
	items := body["items"].([]any)
	require.Len(t, items, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/watchlist?id=603&mediaType=movie", nil)
	require.NoError(t, err)
	delResp, err := client.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	_, body = getJSON(t, srv, "/api/watchlist/contains?id=603&mediaType=movie")
	assert.Equal(t, false, body["contains"])
}

func TestGenresFallBackToStaticList(t *testing.T) {
	srv, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	resp, body := getJSON(t, srv, "/api/genres")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	movie := body["movie"].([]any)
	assert.NotEmpty(t, movie)
}

func TestLinksSweepDedupes(t *testing.T) {
	srv, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/trending"):
			w.Write([]byte(`{"page":1,"results":[{"media_type":"movie","id":1,"title":"Shared"}],"total_pages":1,"total_results":1}`))
		case strings.HasPrefix(r.URL.Path, "/genre/"):
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
		default:
			// Every listing returns the same title plus one unique to it.
			w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Shared"},{"id":2,"title":"Unique"}],"total_pages":1,"total_results":2}`))
		}
	})

	resp, body := getJSON(t, srv, "/api/links")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	titles := body["titles"].([]any)
	assert.Len(t, titles, 2)
	first := titles[0].(map[string]any)
	assert.Equal(t, "/movie/shared-1", first["path"])

	genres := body["genres"].([]any)
	assert.NotEmpty(t, genres)
}

func TestCacheInvalidateEndpoint(t *testing.T) {
	srv, up, _ := newTestServer(t, nil)

	_, _ = getJSON(t, srv, "/api/movies/popular")
	_, _ = getJSON(t, srv, "/api/movies/popular")
	require.Len(t, up.calls(), 1)

	resp, err := srv.Client().Post(srv.URL+"/api/cache/invalidate?tag=region-US", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, _ = getJSON(t, srv, "/api/movies/popular")
	assert.Len(t, up.calls(), 2)
}

func TestHealthRoute(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, body := getJSON(t, srv, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
