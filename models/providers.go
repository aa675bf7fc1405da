package models

// WatchProvider is a streaming/rental/purchase platform as listed by TMDB.
type WatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// WatchProviderData groups the providers available for one title in one
// region by monetization type.
type WatchProviderData struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

// WatchProvidersResponse is the TMDB watch/providers payload for a title,
// keyed by region code.
type WatchProvidersResponse struct {
	ID      int                          `json:"id"`
	Results map[string]WatchProviderData `json:"results"`
}

// ProviderCatalogPage is the TMDB /watch/providers/{kind} listing for a
// region.
type ProviderCatalogPage struct {
	Results []WatchProvider `json:"results"`
}
