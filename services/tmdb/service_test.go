package tmdb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"reelist/models"
	"reelist/services/cache"
	"reelist/services/tmdb"
)

// fakeTMDB records every request it serves so tests can assert on the
// shaped query parameters and the upstream call count.
type fakeTMDB struct {
	mu       sync.Mutex
	requests []*url.URL
	handler  func(w http.ResponseWriter, r *http.Request)
	srv      *httptest.Server
}

func newFakeTMDB(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeTMDB {
	t.Helper()
	f := &fakeTMDB{handler: handler}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL)
		f.mu.Unlock()
		if f.handler != nil {
			f.handler(w, r)
			return
		}
		w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTMDB) calls() []*url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*url.URL(nil), f.requests...)
}

func (f *fakeTMDB) service() *tmdb.Service {
	return tmdb.NewService("test-token", f.srv.URL, "en-US", f.srv.Client(), cache.NewMemory())
}

func moviePageJSON(ids ...int) string {
	type movie struct {
		ID         int     `json:"id"`
		Title      string  `json:"title"`
		Popularity float64 `json:"popularity"`
	}
	page := struct {
		Page         int     `json:"page"`
		Results      []movie `json:"results"`
		TotalPages   int     `json:"total_pages"`
		TotalResults int     `json:"total_results"`
	}{Page: 1, TotalPages: 1, TotalResults: len(ids)}
	for _, id := range ids {
		page.Results = append(page.Results, movie{ID: id, Title: "Movie", Popularity: float64(id)})
	}
	out, _ := json.Marshal(page)
	return string(out)
}

func TestPopularMoviesRegionAndCaching(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(moviePageJSON(1, 2)))
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "GB", ProviderMode: "all"}
	ctx := context.Background()

	page, err := svc.PopularMovies(ctx, 1, prefs)
	if err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("results = %d", len(page.Results))
	}

	calls := fake.calls()
	if len(calls) != 1 {
		t.Fatalf("upstream calls = %d", len(calls))
	}
	q := calls[0].Query()
	if q.Get("region") != "GB" {
		t.Fatalf("region = %q", q.Get("region"))
	}
	if q.Get("sort_by") != "popularity.desc" {
		t.Fatalf("sort_by = %q, want popularity.desc", q.Get("sort_by"))
	}
	for _, k := range []string{"with_watch_providers", "watch_region", "with_watch_monetization_types"} {
		if q.Has(k) {
			t.Fatalf("all-mode request carries provider param %s", k)
		}
	}

	// A second identical call inside the revalidation window stays cached.
	if _, err := svc.PopularMovies(ctx, 1, prefs); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := len(fake.calls()); got != 1 {
		t.Fatalf("upstream calls after cached repeat = %d, want 1", got)
	}
}

func TestPopularMoviesStreamingOnlyUsesDiscovery(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("streaming-only should use discovery, got %s", r.URL.Path)
		}
		w.Write([]byte(moviePageJSON(1)))
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "streaming-only", ProviderIDs: "8|337"}

	if _, err := svc.PopularMovies(context.Background(), 1, prefs); err != nil {
		t.Fatalf("PopularMovies: %v", err)
	}
	q := fake.calls()[0].Query()
	if q.Get("with_watch_providers") != "8|337" || q.Get("watch_region") != "US" {
		t.Fatalf("provider params missing: %v", q)
	}
	if q.Get("with_watch_monetization_types") != "flatrate" {
		t.Fatalf("monetization = %q", q.Get("with_watch_monetization_types"))
	}
}

func TestTVListingsAreDiscoveryBacked(t *testing.T) {
	fake := newFakeTMDB(t, nil)
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "all"}
	ctx := context.Background()

	if _, err := svc.PopularTV(ctx, 1, prefs); err != nil {
		t.Fatalf("PopularTV: %v", err)
	}
	if _, err := svc.AiringTodayTV(ctx, 1, prefs); err != nil {
		t.Fatalf("AiringTodayTV: %v", err)
	}

	calls := fake.calls()
	if len(calls) != 2 {
		t.Fatalf("upstream calls = %d", len(calls))
	}
	for _, u := range calls {
		if u.Path != "/discover/tv" {
			t.Fatalf("unexpected path %s", u.Path)
		}
		if u.Query().Get("sort_by") != "popularity.desc" {
			t.Fatalf("sort_by = %q", u.Query().Get("sort_by"))
		}
	}
	// Airing-today pins the air-date window to a single day.
	q := calls[1].Query()
	if q.Get("air_date.gte") == "" || q.Get("air_date.gte") != q.Get("air_date.lte") {
		t.Fatalf("air_date window = [%q, %q]", q.Get("air_date.gte"), q.Get("air_date.lte"))
	}
}

func TestDiscoverTVFilterMapping(t *testing.T) {
	fake := newFakeTMDB(t, nil)
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "all"}
	f := models.FilterOptions{Year: "2021", Genre: "18"}

	if _, err := svc.DiscoverTV(context.Background(), 1, prefs, f); err != nil {
		t.Fatalf("DiscoverTV: %v", err)
	}
	q := fake.calls()[0].Query()
	if q.Get("first_air_date_year") != "2021" {
		t.Fatalf("first_air_date_year = %q", q.Get("first_air_date_year"))
	}
	if q.Get("with_genres") != "18" {
		t.Fatalf("with_genres = %q", q.Get("with_genres"))
	}
	if q.Has("primary_release_year") {
		t.Fatal("tv discovery must not carry primary_release_year")
	}
}

func TestDiscoverCacheKeyVariesByFilters(t *testing.T) {
	fake := newFakeTMDB(t, nil)
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "all"}
	ctx := context.Background()

	if _, err := svc.DiscoverMovies(ctx, 1, prefs, models.FilterOptions{Genre: "18"}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if _, err := svc.DiscoverMovies(ctx, 1, prefs, models.FilterOptions{Genre: "35"}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got := len(fake.calls()); got != 2 {
		t.Fatalf("different filters should miss the cache, calls = %d", got)
	}
}

func TestTrendingAllMode(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/all/week" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"page":1,"results":[
			{"media_type":"movie","id":1,"title":"A"},
			{"media_type":"person","id":2,"name":"Nobody"},
			{"media_type":"tv","id":3,"name":"B"}
		],"total_pages":1,"total_results":3}`))
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "all"}

	page, err := svc.Trending(context.Background(), "all", "week", prefs)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("person result not dropped: %+v", page.Results)
	}
}

func TestTrendingStreamingOnlyMergesByPopularity(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/discover/movie":
			w.Write([]byte(`{"page":1,"results":[
				{"id":10,"title":"M1","popularity":50},
				{"id":11,"title":"M2","popularity":10}
			],"total_pages":1,"total_results":2}`))
		case "/discover/tv":
			w.Write([]byte(`{"page":1,"results":[
				{"id":20,"name":"T1","popularity":80},
				{"id":10,"name":"Same id as movie","popularity":5}
			],"total_pages":1,"total_results":2}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "streaming-only", ProviderIDs: "8"}

	page, err := svc.Trending(context.Background(), "all", "week", prefs)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	// id 10 appears in both lists; the movie came first so the TV copy is
	// dropped, then the merge sorts by popularity.
	if len(page.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(page.Results))
	}
	wantOrder := []int{20, 10, 11}
	for i, want := range wantOrder {
		if page.Results[i].ID != want {
			t.Fatalf("position %d: id %d, want %d", i, page.Results[i].ID, want)
		}
	}
}

func TestSearchMultiQueryShape(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "FR", ProviderMode: "streaming-only", ProviderIDs: "8"}

	if _, err := svc.SearchMulti(context.Background(), "dune", 1, prefs); err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	q := fake.calls()[0].Query()
	if q.Get("query") != "dune" || q.Get("region") != "FR" {
		t.Fatalf("query params %v", q)
	}
	if q.Has("with_watch_providers") {
		t.Fatal("search must not carry provider constraints")
	}
}

func TestGenresFetchesBothTaxonomies(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genre/movie/list":
			w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
		case "/genre/tv/list":
			w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	svc := fake.service()

	set, err := svc.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if len(set.Movie) != 1 || set.Movie[0].Name != "Action" {
		t.Fatalf("movie genres %+v", set.Movie)
	}
	if len(set.TV) != 1 || set.TV[0].Name != "Drama" {
		t.Fatalf("tv genres %+v", set.TV)
	}
	if got := len(fake.calls()); got != 2 {
		t.Fatalf("calls = %d", got)
	}
}

func TestMovieDetailsAppendsSubResources(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id":603,"title":"The Matrix",
			"credits":{"cast":[{"id":1,"name":"Keanu Reeves","character":"Neo"}]},
			"videos":{"results":[{"key":"abc","site":"YouTube","type":"Trailer"}]},
			"similar":{"page":1,"results":[{"id":604,"title":"Reloaded"}],"total_pages":1,"total_results":1},
			"watch/providers":{"id":603,"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}]}}}
		}`))
	})
	svc := fake.service()

	details, err := svc.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	q := fake.calls()[0].Query()
	if q.Get("append_to_response") != "watch/providers,credits,videos,similar,translations" {
		t.Fatalf("append_to_response = %q", q.Get("append_to_response"))
	}
	if details.Credits == nil || len(details.Credits.Cast) != 1 {
		t.Fatalf("credits not decoded: %+v", details.Credits)
	}
	if details.Videos.Trailer() == nil {
		t.Fatal("trailer not found")
	}
	if details.WatchProviders == nil || len(details.WatchProviders.Results["US"].Flatrate) != 1 {
		t.Fatalf("watch providers not decoded: %+v", details.WatchProviders)
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})
	svc := fake.service()

	_, err := svc.MovieDetails(context.Background(), 999999)
	if !tmdb.IsNotFound(err) {
		t.Fatalf("want not-found error, got %v", err)
	}
}

func TestTitleProvidersPicksRegion(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":603,"results":{
			"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}],"rent":[{"provider_id":2,"provider_name":"Apple TV"}]},
			"FR":{"buy":[{"provider_id":3,"provider_name":"Google Play"}]}
		}}`))
	})
	svc := fake.service()

	us, err := svc.TitleProviders(context.Background(), models.MediaTypeMovie, 603, "US")
	if err != nil {
		t.Fatalf("TitleProviders: %v", err)
	}
	if len(us.Flatrate) != 1 || len(us.Rent) != 1 {
		t.Fatalf("US providers %+v", us)
	}

	// Unknown region yields the zero value, not an error.
	jp, err := svc.TitleProviders(context.Background(), models.MediaTypeMovie, 603, "JP")
	if err != nil {
		t.Fatalf("TitleProviders JP: %v", err)
	}
	if len(jp.Flatrate)+len(jp.Rent)+len(jp.Buy) != 0 {
		t.Fatalf("JP should be empty, got %+v", jp)
	}
}

func TestStreamingProvidersPopularFirst(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("watch_region"); got != "US" {
			t.Errorf("watch_region = %q", got)
		}
		w.Write([]byte(`{"results":[
			{"provider_id":100,"provider_name":"Obscure","display_priority":5},
			{"provider_id":337,"provider_name":"Disney Plus","display_priority":27},
			{"provider_id":8,"provider_name":"Netflix","display_priority":1},
			{"provider_id":101,"provider_name":"Other","display_priority":2}
		]}`))
	})
	svc := fake.service()

	providers, err := svc.StreamingProviders(context.Background(), "US")
	if err != nil {
		t.Fatalf("StreamingProviders: %v", err)
	}
	wantOrder := []int{8, 337, 101, 100}
	if len(providers) != len(wantOrder) {
		t.Fatalf("providers = %d", len(providers))
	}
	for i, want := range wantOrder {
		if providers[i].ProviderID != want {
			t.Fatalf("position %d: provider %d, want %d", i, providers[i].ProviderID, want)
		}
	}
}

func TestInvalidateTagForcesRefetch(t *testing.T) {
	fake := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(moviePageJSON(1)))
	})
	svc := fake.service()
	prefs := models.ViewerPrefs{Region: "US", ProviderMode: "all"}
	ctx := context.Background()

	if _, err := svc.PopularMovies(ctx, 1, prefs); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := svc.InvalidateTag(ctx, tmdb.TagRegion("US")); err != nil {
		t.Fatalf("InvalidateTag: %v", err)
	}
	if _, err := svc.PopularMovies(ctx, 1, prefs); err != nil {
		t.Fatalf("second: %v", err)
	}
	if got := len(fake.calls()); got != 2 {
		t.Fatalf("invalidation should force a refetch, calls = %d", got)
	}
}

func TestImageURL(t *testing.T) {
	if got := tmdb.ImageURL("/abc.jpg", ""); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("ImageURL = %q", got)
	}
	if got := tmdb.ImageURL("/abc.jpg", "original"); got != "https://image.tmdb.org/t/p/original/abc.jpg" {
		t.Fatalf("ImageURL original = %q", got)
	}
	if got := tmdb.ImageURL("", ""); got != "/placeholder.svg" {
		t.Fatalf("empty path = %q", got)
	}
}
