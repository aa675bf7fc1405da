package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"

	"reelist/models"
	"reelist/services/cache"
)

const (
	imageBaseURL     = "https://image.tmdb.org/t/p/"
	DefaultImageSize = "w500"
	placeholderImage = "/placeholder.svg"

	dateLayout = "2006-01-02"

	// Trending in streaming-only mode merges the per-kind discovery pages
	// down to this many items.
	trendingStreamingCap = 20

	// The provider catalog is capped to keep the settings page scannable.
	providerCatalogCap = 30
)

// Cache tags. Every entry carries TagUpstream; the region tag lets a
// preference change flush exactly the listings shaped by that region.
const (
	TagUpstream     = "tmdb"
	TagTrending     = "trending"
	TagSearch       = "search"
	TagGenres       = "genres"
	TagProviders    = "streaming-providers"
	TagDetails      = "details"
	TagRegionPrefix = "region-"
)

// TagRegion returns the invalidation tag for entries shaped by a region.
func TagRegion(code string) string { return TagRegionPrefix + code }

// popularProviderOrder ranks the globally popular streaming services first
// in the provider catalog (Netflix, Disney+, Prime, Hulu, Max, HBO, Apple
// TV+, ...). Everything else sorts by TMDB's display_priority after them.
var popularProviderOrder = []int{8, 337, 9, 119, 1899, 384, 350, 2, 1773, 531, 15, 387, 39, 283}

// GenreSet holds the movie and TV genre taxonomies side by side.
type GenreSet struct {
	Movie []models.Genre `json:"movie"`
	TV    []models.Genre `json:"tv"`
}

// Service is the TMDB catalog facade: every listing, search, detail and
// provider lookup the handlers need, with caching and request shaping
// applied. Methods take the viewer's preference snapshot so two viewers
// with different regions or provider filters never share results.
type Service struct {
	client *Client
	store  cache.Store

	now func() time.Time
}

func NewService(token, baseURL, language string, httpc *http.Client, store cache.Store) *Service {
	return &Service{
		client: NewClient(token, baseURL, language, httpc, store),
		store:  store,
		now:    time.Now,
	}
}

// InvalidateTag expires every cached entry carrying the tag. A nil store is
// a no-op.
func (s *Service) InvalidateTag(ctx context.Context, tag string) error {
	if s.store == nil {
		return nil
	}
	return s.store.InvalidateTag(ctx, tag)
}

// ImageURL builds a CDN URL for a poster or backdrop path, falling back to
// the placeholder asset for titles without artwork.
func ImageURL(path, size string) string {
	if path == "" {
		return placeholderImage
	}
	if size == "" {
		size = DefaultImageSize
	}
	return imageBaseURL + size + path
}

// listingTags are the invalidation tags for region-shaped listing entries.
func listingTags(prefs models.ViewerPrefs, extra ...string) []string {
	tags := append([]string{TagUpstream, TagRegion(prefs.Region)}, extra...)
	return tags
}

func (s *Service) moviePage(ctx context.Context, u, key string, ttl time.Duration, tags []string) (models.MediaPage, error) {
	var page models.MoviePage
	if err := s.client.fetchInto(ctx, u, key, ttl, tags, &page); err != nil {
		return models.MediaPage{}, err
	}
	return moviePageToMedia(page), nil
}

func (s *Service) tvPage(ctx context.Context, u, key string, ttl time.Duration, tags []string) (models.MediaPage, error) {
	var page models.TVPage
	if err := s.client.fetchInto(ctx, u, key, ttl, tags, &page); err != nil {
		return models.MediaPage{}, err
	}
	return tvPageToMedia(page), nil
}

// PopularMovies returns one page of popular movies. The list always comes
// from discovery sorted by popularity rather than the curated /movie/popular
// endpoint, whose ordering can drift from the popularity sort; in
// streaming-only mode the same query is additionally provider-constrained.
func (s *Service) PopularMovies(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("popular-movies-%d", page), prefs)
	u := s.client.buildURL("/discover/movie", discoverQuery(page, prefs, models.MediaTypeMovie, models.FilterOptions{}))
	return s.moviePage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// PopularTV returns one page of popular TV shows, discovery-backed like
// PopularMovies.
func (s *Service) PopularTV(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("popular-tv-%d", page), prefs)
	u := s.client.buildURL("/discover/tv", discoverQuery(page, prefs, models.MediaTypeTV, models.FilterOptions{}))
	return s.tvPage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// TopRatedMovies returns highly rated movies with a vote-count floor that
// keeps obscure titles with a handful of 10s out of the list.
func (s *Service) TopRatedMovies(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("top-rated-movies-%d", page), prefs)
	f := models.FilterOptions{SortBy: "vote_average.desc", VoteCountGte: 1000}
	u := s.client.buildURL("/discover/movie", discoverQuery(page, prefs, models.MediaTypeMovie, f))
	return s.moviePage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// TopRatedTV returns highly rated TV shows. The vote-count floor is lower
// than for movies because TV vote volumes are.
func (s *Service) TopRatedTV(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("top-rated-tv-%d", page), prefs)
	f := models.FilterOptions{SortBy: "vote_average.desc", VoteCountGte: 100}
	u := s.client.buildURL("/discover/tv", discoverQuery(page, prefs, models.MediaTypeTV, f))
	return s.tvPage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// NowPlayingMovies returns movies released in the last 30 days, most
// popular first.
func (s *Service) NowPlayingMovies(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("now-playing-movies-%d", page), prefs)
	today := s.now().UTC()
	f := models.FilterOptions{
		PrimaryReleaseDateGte: today.AddDate(0, 0, -30).Format(dateLayout),
		PrimaryReleaseDateLte: today.Format(dateLayout),
	}
	u := s.client.buildURL("/discover/movie", discoverQuery(page, prefs, models.MediaTypeMovie, f))
	return s.moviePage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// AiringTodayTV returns TV shows with an episode airing today, via a
// discovery query pinned to today's date.
func (s *Service) AiringTodayTV(ctx context.Context, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("airing-today-tv-%d", page), prefs)
	q := discoverQuery(page, prefs, models.MediaTypeTV, models.FilterOptions{})
	today := s.now().UTC().Format(dateLayout)
	q.Set("air_date.gte", today)
	q.Set("air_date.lte", today)
	u := s.client.buildURL("/discover/tv", q)
	return s.tvPage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// DiscoverMovies runs a filtered movie discovery query.
func (s *Service) DiscoverMovies(ctx context.Context, page int, prefs models.ViewerPrefs, f models.FilterOptions) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("discover-movies-%s-%d", filterSignature(f, models.MediaTypeMovie), page), prefs)
	u := s.client.buildURL("/discover/movie", discoverQuery(page, prefs, models.MediaTypeMovie, f))
	return s.moviePage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// DiscoverTV runs a filtered TV discovery query.
func (s *Service) DiscoverTV(ctx context.Context, page int, prefs models.ViewerPrefs, f models.FilterOptions) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("discover-tv-%s-%d", filterSignature(f, models.MediaTypeTV), page), prefs)
	u := s.client.buildURL("/discover/tv", discoverQuery(page, prefs, models.MediaTypeTV, f))
	return s.tvPage(ctx, u, key, cache.TTLDiscovery, listingTags(prefs))
}

// filterSignature derives the cache-key fragment for a filter set. Filters
// that do not constrain beyond the default ordering share the "none"
// fragment, since they produce the same effective query. Everything else
// uses the sorted query encoding so logically equal filters always produce
// the same fragment.
func filterSignature(f models.FilterOptions, kind models.MediaType) string {
	if !f.Active() {
		return "none"
	}
	params := QueryParams(f, kind)
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return q.Encode()
}

// Trending returns the trending feed for kind ("all", "movie" or "tv") over
// window ("day" or "week"). In streaming-only mode the upstream trending
// endpoint cannot be provider-constrained, so the feed is rebuilt from
// provider-constrained discovery queries, merged by popularity.
func (s *Service) Trending(ctx context.Context, kind, window string, prefs models.ViewerPrefs) (models.MediaPage, error) {
	switch kind {
	case "all", "movie", "tv":
	default:
		kind = "all"
	}
	if window != "day" {
		window = "week"
	}
	if prefs.StreamingOnly() {
		return s.trendingFromDiscovery(ctx, kind, prefs)
	}

	key := CacheKey(fmt.Sprintf("trending-%s-%s", kind, window), prefs)
	q := url.Values{}
	q.Set("region", prefs.Region)
	u := s.client.buildURL("/trending/"+kind+"/"+window, q)
	var page mixedPage
	if err := s.client.fetchInto(ctx, u, key, cache.TTLTrending, listingTags(prefs, TagTrending), &page); err != nil {
		return models.MediaPage{}, err
	}
	return page.mediaPage(), nil
}

func (s *Service) trendingFromDiscovery(ctx context.Context, kind string, prefs models.ViewerPrefs) (models.MediaPage, error) {
	var movies, shows models.MediaPage
	p := pool.New().WithErrors().WithContext(ctx)
	if kind == "all" || kind == "movie" {
		p.Go(func(ctx context.Context) error {
			var err error
			movies, err = s.PopularMovies(ctx, 1, prefs)
			return err
		})
	}
	if kind == "all" || kind == "tv" {
		p.Go(func(ctx context.Context) error {
			var err error
			shows, err = s.PopularTV(ctx, 1, prefs)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return models.MediaPage{}, err
	}

	merged := DedupeByID(movies.Results, shows.Results)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Popularity > merged[j].Popularity
	})
	if len(merged) > trendingStreamingCap {
		merged = merged[:trendingStreamingCap]
	}
	return models.MediaPage{Page: 1, Results: merged, TotalPages: 1, TotalResults: len(merged)}, nil
}

// SearchMulti searches movies and TV shows by title. Person results are
// dropped during normalization. The provider filter does not apply to
// search, so the cache key only varies by region.
func (s *Service) SearchMulti(ctx context.Context, query string, page int, prefs models.ViewerPrefs) (models.MediaPage, error) {
	key := CacheKey(fmt.Sprintf("search-%s-%d", query, page), models.ViewerPrefs{Region: prefs.Region})
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("region", prefs.Region)
	q.Set("include_adult", "false")
	u := s.client.buildURL("/search/multi", q)
	var mixed mixedPage
	if err := s.client.fetchInto(ctx, u, key, cache.TTLTrending, listingTags(prefs, TagSearch), &mixed); err != nil {
		return models.MediaPage{}, err
	}
	return mixed.mediaPage(), nil
}

// Genres fetches the movie and TV genre taxonomies in parallel.
func (s *Service) Genres(ctx context.Context) (GenreSet, error) {
	var set GenreSet
	tags := []string{TagUpstream, TagGenres}
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var resp struct {
			Genres []models.Genre `json:"genres"`
		}
		u := s.client.buildURL("/genre/movie/list", nil)
		if err := s.client.fetchInto(ctx, u, "genres-movie", cache.TTLGenres, tags, &resp); err != nil {
			return err
		}
		set.Movie = resp.Genres
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var resp struct {
			Genres []models.Genre `json:"genres"`
		}
		u := s.client.buildURL("/genre/tv/list", nil)
		if err := s.client.fetchInto(ctx, u, "genres-tv", cache.TTLGenres, tags, &resp); err != nil {
			return err
		}
		set.TV = resp.Genres
		return nil
	})
	if err := p.Wait(); err != nil {
		return GenreSet{}, err
	}
	return set, nil
}

// detailAppend pulls the detail page's sub-resources in the same upstream
// call instead of five separate ones.
const detailAppend = "watch/providers,credits,videos,similar,translations"

// MovieDetails returns the full movie record with credits, videos, similar
// titles, translations and watch providers appended. The payload is region
// independent (providers come back keyed by region), so the key is too.
func (s *Service) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", detailAppend)
	u := s.client.buildURL("/movie/"+strconv.Itoa(id), q)
	key := fmt.Sprintf("movie-details-%d", id)
	tags := []string{TagUpstream, TagDetails, fmt.Sprintf("movie-%d", id)}
	var details models.MovieDetails
	if err := s.client.fetchInto(ctx, u, key, cache.TTLDetails, tags, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// TVDetails returns the full TV record with appended sub-resources.
func (s *Service) TVDetails(ctx context.Context, id int) (*models.TVShowDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", detailAppend)
	u := s.client.buildURL("/tv/"+strconv.Itoa(id), q)
	key := fmt.Sprintf("tv-details-%d", id)
	tags := []string{TagUpstream, TagDetails, fmt.Sprintf("tv-%d", id)}
	var details models.TVShowDetails
	if err := s.client.fetchInto(ctx, u, key, cache.TTLDetails, tags, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// TitleProviders returns where a single title can be streamed, rented or
// bought in the given region. The zero value means no availability there.
func (s *Service) TitleProviders(ctx context.Context, kind models.MediaType, id int, region string) (models.WatchProviderData, error) {
	u := s.client.buildURL(fmt.Sprintf("/%s/%d/watch/providers", kind, id), nil)
	key := fmt.Sprintf("watch-providers-%s-%d", kind, id)
	tags := []string{TagUpstream, TagProviders}
	var resp models.WatchProvidersResponse
	if err := s.client.fetchInto(ctx, u, key, cache.TTLProviders, tags, &resp); err != nil {
		return models.WatchProviderData{}, err
	}
	return resp.Results[region], nil
}

// StreamingProviders returns the provider catalog for a region, popular
// services first, capped for display.
func (s *Service) StreamingProviders(ctx context.Context, region string) ([]models.WatchProvider, error) {
	q := url.Values{}
	q.Set("watch_region", region)
	u := s.client.buildURL("/watch/providers/movie", q)
	key := fmt.Sprintf("streaming-providers-%s", region)
	tags := []string{TagUpstream, TagProviders, TagRegion(region)}
	var page models.ProviderCatalogPage
	if err := s.client.fetchInto(ctx, u, key, cache.TTLCatalog, tags, &page); err != nil {
		return nil, err
	}

	rank := make(map[int]int, len(popularProviderOrder))
	for i, id := range popularProviderOrder {
		rank[id] = i
	}
	providers := page.Results
	sort.SliceStable(providers, func(i, j int) bool {
		ri, iPopular := rank[providers[i].ProviderID]
		rj, jPopular := rank[providers[j].ProviderID]
		if iPopular != jPopular {
			return iPopular
		}
		if iPopular {
			return ri < rj
		}
		return providers[i].DisplayPriority < providers[j].DisplayPriority
	})
	if len(providers) > providerCatalogCap {
		providers = providers[:providerCatalogCap]
	}
	return providers, nil
}
