package models

// FilterOptions is a sparse set of user-chosen discovery filters. The zero
// value of every field means "no constraint"; an empty string is treated the
// same as an absent field. The date-range and vote-count-floor fields are
// only populated by curated presets (now playing, top rated), not by user
// filter input.
type FilterOptions struct {
	SortBy                string
	Year                  string
	Genre                 string
	MinRating             float64
	WithOriginalLanguage  string
	PrimaryReleaseDateGte string
	PrimaryReleaseDateLte string
	VoteCountGte          int
}

// DefaultSort is the discovery sort TMDB applies when none is requested.
// An explicitly chosen default sort still passes through to the query, but
// does not count as an active filter.
const DefaultSort = "popularity.desc"

// IsZero reports whether no filter field is set.
func (f FilterOptions) IsZero() bool {
	return f == FilterOptions{}
}

// Active reports whether the options constrain results beyond the default
// ordering.
func (f FilterOptions) Active() bool {
	g := f
	if g.SortBy == DefaultSort {
		g.SortBy = ""
	}
	return !g.IsZero()
}

// MovieSortOptions are the sort keys offered on movie listing pages.
var MovieSortOptions = []string{
	"popularity.desc", "popularity.asc",
	"vote_average.desc", "vote_average.asc",
	"primary_release_date.desc", "primary_release_date.asc",
	"title.asc", "title.desc",
	"revenue.desc", "revenue.asc",
}

// TVSortOptions are the sort keys offered on TV listing pages.
var TVSortOptions = []string{
	"popularity.desc", "popularity.asc",
	"vote_average.desc", "vote_average.asc",
	"first_air_date.desc", "first_air_date.asc",
	"name.asc", "name.desc",
}
