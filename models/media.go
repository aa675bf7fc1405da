package models

// MediaType discriminates movies from TV shows. Together with the numeric
// TMDB id it forms the identity of a media item; the same id can exist
// independently as both a movie and a TV show.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Movie is a raw TMDB movie record as returned by listing endpoints.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
}

// TVShow is a raw TMDB TV record as returned by listing endpoints.
type TVShow struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	FirstAirDate     string  `json:"first_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	OriginalName     string  `json:"original_name"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
}

// MediaItem is the normalized shape shown in lists: movies carry their title
// and release_date verbatim, TV shows are folded into the same fields
// (name -> title, first_air_date -> release_date).
type MediaItem struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Overview     string          `json:"overview"`
	PosterPath   string          `json:"poster_path"`
	BackdropPath string          `json:"backdrop_path"`
	ReleaseDate  string          `json:"release_date"`
	VoteAverage  float64         `json:"vote_average"`
	VoteCount    int             `json:"vote_count"`
	GenreIDs     []int           `json:"genre_ids"`
	MediaType    MediaType       `json:"media_type"`
	Popularity   float64         `json:"popularity,omitempty"`
	Providers    []WatchProvider `json:"providers,omitempty"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MoviePage is one page of a paginated movie listing response.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// TVPage is one page of a paginated TV listing response.
type TVPage struct {
	Page         int      `json:"page"`
	Results      []TVShow `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// MediaPage is one page of normalized mixed results (trending, search).
type MediaPage struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// ViewerPrefs is the per-request preference snapshot that shapes discovery
// queries: effective region plus the watch-provider filter state.
// ProviderIDs is the pipe-joined id string ("8|337"), empty when the user
// has not selected any provider.
type ViewerPrefs struct {
	Region       string
	ProviderMode string
	ProviderIDs  string
}

// StreamingOnly reports whether outgoing discovery requests should be
// constrained to the viewer's selected streaming providers. Streaming-only
// mode with no selected providers intentionally stays unconstrained so the
// result set never collapses to empty.
func (p ViewerPrefs) StreamingOnly() bool {
	return p.ProviderMode == "streaming-only" && p.ProviderIDs != ""
}
