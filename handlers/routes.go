package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Deps carries the constructed handlers for route registration.
type Deps struct {
	Catalog   *CatalogHandler
	Detail    *DetailHandler
	Genres    *GenresHandler
	Providers *ProvidersHandler
	Settings  *SettingsHandler
	Watchlist *WatchlistHandler
	Links     *LinksHandler
	Cache     *CacheHandler
}

// Register mounts every API route on the router.
func Register(r *mux.Router, d Deps) {
	apiRouter := r.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/movies/{list:popular|top-rated|now-playing}", d.Catalog.Movies).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tv/{list:popular|top-rated|airing-today}", d.Catalog.TV).Methods(http.MethodGet)
	apiRouter.HandleFunc("/discover/{kind:movie|tv}", d.Catalog.Discover).Methods(http.MethodGet)
	apiRouter.HandleFunc("/trending", d.Catalog.Trending).Methods(http.MethodGet)
	apiRouter.HandleFunc("/search", d.Catalog.Search).Methods(http.MethodGet)

	// The list routes above win over the slug routes by registration order.
	apiRouter.HandleFunc("/movie/{slug}", d.Detail.Movie).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tv/{slug}", d.Detail.TV).Methods(http.MethodGet)
	apiRouter.HandleFunc("/genres", d.Genres.Genres).Methods(http.MethodGet)

	apiRouter.HandleFunc("/streaming-providers", d.Providers.Catalog).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watch-providers", d.Providers.Title).Methods(http.MethodGet)

	apiRouter.HandleFunc("/region", d.Settings.GetRegion).Methods(http.MethodGet)
	apiRouter.HandleFunc("/region", d.Settings.PutRegion).Methods(http.MethodPut)
	apiRouter.HandleFunc("/settings/watch-provider-filter", d.Settings.GetProviderFilter).Methods(http.MethodGet)
	apiRouter.HandleFunc("/settings/watch-provider-filter", d.Settings.PutProviderFilter).Methods(http.MethodPut)
	apiRouter.HandleFunc("/settings/providers", d.Settings.GetProviders).Methods(http.MethodGet)
	apiRouter.HandleFunc("/settings/providers", d.Settings.PutProviders).Methods(http.MethodPut)

	apiRouter.HandleFunc("/watchlist", d.Watchlist.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist", d.Watchlist.Add).Methods(http.MethodPost)
	apiRouter.HandleFunc("/watchlist", d.Watchlist.Remove).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/watchlist/contains", d.Watchlist.Contains).Methods(http.MethodGet)
	apiRouter.HandleFunc("/watchlist/all", d.Watchlist.Clear).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/links", d.Links.Links).Methods(http.MethodGet)
	apiRouter.HandleFunc("/cache/invalidate", d.Cache.Invalidate).Methods(http.MethodPost)
}
