package tmdb

import (
	"fmt"
	"net/url"
	"strconv"

	"reelist/models"
)

// CacheKey composes the shared-cache key for a listing request. Two viewers
// with different effective provider filters never share a key; a viewer's
// repeated identical requests always do. Streaming-only mode with no
// selected providers keys the same as unfiltered mode because it issues the
// same upstream query.
func CacheKey(base string, prefs models.ViewerPrefs) string {
	if prefs.StreamingOnly() {
		return fmt.Sprintf("%s-%s-providers-%s", base, prefs.Region, prefs.ProviderIDs)
	}
	return fmt.Sprintf("%s-%s-all", base, prefs.Region)
}

// buildURL joins the API path with query parameters. url.Values.Encode
// emits keys in sorted order, so the same logical inputs always produce the
// same URL string.
func (c *Client) buildURL(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if c.language != "" && q.Get("language") == "" {
		q.Set("language", c.language)
	}
	return c.baseURL + path + "?" + q.Encode()
}

// discoverQuery is the parameter set for /discover/{movie|tv}. Provider
// constraints are added only when the viewer is in streaming-only mode with
// at least one selected provider. Filter fields are layered last so an
// explicit filter overrides any same-named default.
func discoverQuery(page int, prefs models.ViewerPrefs, kind models.MediaType, f models.FilterOptions) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("region", prefs.Region)
	q.Set("sort_by", models.DefaultSort)
	q.Set("include_adult", "false")
	if prefs.StreamingOnly() {
		q.Set("with_watch_providers", prefs.ProviderIDs)
		q.Set("watch_region", prefs.Region)
		q.Set("with_watch_monetization_types", "flatrate")
	}
	for k, v := range QueryParams(f, kind) {
		q.Set(k, v)
	}
	return q
}
