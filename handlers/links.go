package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/sourcegraph/conc/pool"

	"reelist/models"
	"reelist/services/tmdb"
	"reelist/utils"
)

// LinksHandler produces the site link sweep: the union of the headline
// listings as canonical /{movie|tv}/{slug} paths, for feed and sitemap
// generators downstream. Genre links fall back to the static taxonomy when
// upstream is down so the sweep never comes back empty.
type LinksHandler struct {
	Catalog catalogService
	Genres  genreService
	Prefs   prefStore
}

func NewLinksHandler(catalog catalogService, genres genreService, prefs prefStore) *LinksHandler {
	return &LinksHandler{Catalog: catalog, Genres: genres, Prefs: prefs}
}

type siteLink struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
}

// Links serves GET /api/links.
func (h *LinksHandler) Links(w http.ResponseWriter, r *http.Request) {
	prefs := viewerPrefs(h.Prefs(w, r))
	ctx := r.Context()

	// The listing fetches are independent; fan out and tolerate partial
	// failure. A list that cannot be fetched contributes nothing.
	var trending, nowPlaying, popularMovies, topRated, popularTV models.MediaPage
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		trending, _ = h.Catalog.Trending(ctx, "all", "week", prefs)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		nowPlaying, _ = h.Catalog.NowPlayingMovies(ctx, 1, prefs)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		popularMovies, _ = h.Catalog.PopularMovies(ctx, 1, prefs)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		topRated, _ = h.Catalog.TopRatedMovies(ctx, 1, prefs)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		popularTV, _ = h.Catalog.PopularTV(ctx, 1, prefs)
		return nil
	})
	if err := p.Wait(); err != nil {
		log.Printf("[handlers] links sweep: %v", err)
	}

	items := tmdb.DedupeByID(
		trending.Results,
		nowPlaying.Results,
		popularMovies.Results,
		topRated.Results,
		popularTV.Results,
	)

	titles := make([]siteLink, 0, len(items))
	for _, item := range items {
		titles = append(titles, siteLink{
			Path:  "/" + string(item.MediaType) + "/" + utils.MakeSlug(item.Title, item.ID),
			Title: item.Title,
		})
	}

	genres, err := h.Genres.Genres(ctx)
	if err != nil {
		log.Printf("[handlers] links genre fetch failed, using static list: %v", err)
		genres = tmdb.StaticGenres()
	}
	genreLinks := make([]siteLink, 0, len(genres.Movie)+len(genres.TV))
	for _, g := range genres.Movie {
		genreLinks = append(genreLinks, siteLink{Path: "/genre/movie/" + utils.MakeSlug(g.Name, g.ID), Title: g.Name})
	}
	for _, g := range genres.TV {
		genreLinks = append(genreLinks, siteLink{Path: "/genre/tv/" + utils.MakeSlug(g.Name, g.ID), Title: g.Name})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"titles": titles,
		"genres": genreLinks,
	})
}
