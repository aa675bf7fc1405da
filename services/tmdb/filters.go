package tmdb

import (
	"slices"
	"strconv"

	"reelist/models"
)

// QueryParams translates sparse filter options into the discovery query
// vocabulary. Absent fields emit nothing: the empty FilterOptions yields an
// empty map. The year filter maps to a different parameter for movies than
// for TV.
func QueryParams(f models.FilterOptions, kind models.MediaType) map[string]string {
	params := make(map[string]string)
	if f.SortBy != "" {
		params["sort_by"] = f.SortBy
	}
	if f.Year != "" {
		if kind == models.MediaTypeTV {
			params["first_air_date_year"] = f.Year
		} else {
			params["primary_release_year"] = f.Year
		}
	}
	if f.Genre != "" {
		params["with_genres"] = f.Genre
	}
	if f.MinRating > 0 {
		params["vote_average.gte"] = strconv.FormatFloat(f.MinRating, 'f', -1, 64)
	}
	if f.WithOriginalLanguage != "" {
		params["with_original_language"] = f.WithOriginalLanguage
	}
	if f.PrimaryReleaseDateGte != "" {
		params["primary_release_date.gte"] = f.PrimaryReleaseDateGte
	}
	if f.PrimaryReleaseDateLte != "" {
		params["primary_release_date.lte"] = f.PrimaryReleaseDateLte
	}
	if f.VoteCountGte > 0 {
		params["vote_count.gte"] = strconv.Itoa(f.VoteCountGte)
	}
	return params
}

// ParseFilters reads the user-facing filter query vocabulary (sort_by, year,
// genre, min_rating, language) into FilterOptions. Out-of-range ratings,
// sort keys not offered for the kind, and junk values are dropped rather
// than rejected.
func ParseFilters(get func(string) string, kind models.MediaType) models.FilterOptions {
	f := models.FilterOptions{
		Year:  get("year"),
		Genre: get("genre"),
	}
	if s := get("sort_by"); validSort(s, kind) {
		f.SortBy = s
	}
	if raw := get("min_rating"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 10 {
			f.MinRating = v
		}
	}
	f.WithOriginalLanguage = get("language")
	return f
}

func validSort(s string, kind models.MediaType) bool {
	if kind == models.MediaTypeTV {
		return slices.Contains(models.TVSortOptions, s)
	}
	return slices.Contains(models.MovieSortOptions, s)
}
