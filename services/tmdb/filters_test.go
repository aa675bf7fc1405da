package tmdb

import (
	"testing"

	"reelist/models"
)

func TestQueryParamsEmptyFilterEmitsNothing(t *testing.T) {
	params := QueryParams(models.FilterOptions{}, models.MediaTypeMovie)
	if len(params) != 0 {
		t.Fatalf("empty filter produced params: %v", params)
	}
}

func TestQueryParamsYearSplitsByKind(t *testing.T) {
	f := models.FilterOptions{Year: "2021", Genre: "18"}

	tv := QueryParams(f, models.MediaTypeTV)
	if tv["first_air_date_year"] != "2021" {
		t.Fatalf("tv year param = %v", tv)
	}
	if _, has := tv["primary_release_year"]; has {
		t.Fatal("tv filter must not emit primary_release_year")
	}
	if tv["with_genres"] != "18" {
		t.Fatalf("with_genres = %q", tv["with_genres"])
	}

	movie := QueryParams(f, models.MediaTypeMovie)
	if movie["primary_release_year"] != "2021" {
		t.Fatalf("movie year param = %v", movie)
	}
	if _, has := movie["first_air_date_year"]; has {
		t.Fatal("movie filter must not emit first_air_date_year")
	}
}

func TestQueryParamsFullMapping(t *testing.T) {
	f := models.FilterOptions{
		SortBy:                "vote_average.desc",
		MinRating:             7.5,
		WithOriginalLanguage:  "ko",
		PrimaryReleaseDateGte: "2024-01-01",
		PrimaryReleaseDateLte: "2024-02-01",
		VoteCountGte:          1000,
	}
	params := QueryParams(f, models.MediaTypeMovie)
	want := map[string]string{
		"sort_by":                  "vote_average.desc",
		"vote_average.gte":         "7.5",
		"with_original_language":   "ko",
		"primary_release_date.gte": "2024-01-01",
		"primary_release_date.lte": "2024-02-01",
		"vote_count.gte":           "1000",
	}
	if len(params) != len(want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
	for k, v := range want {
		if params[k] != v {
			t.Fatalf("params[%s] = %q, want %q", k, params[k], v)
		}
	}
}

func TestParseFiltersDropsJunk(t *testing.T) {
	values := map[string]string{
		"sort_by":    "popularity.desc",
		"year":       "2020",
		"min_rating": "eleven",
	}
	f := ParseFilters(func(k string) string { return values[k] }, models.MediaTypeMovie)
	if f.MinRating != 0 {
		t.Fatalf("junk rating should be dropped, got %v", f.MinRating)
	}
	if f.Year != "2020" || f.SortBy != "popularity.desc" {
		t.Fatalf("unexpected filters %+v", f)
	}

	f = ParseFilters(func(k string) string {
		if k == "min_rating" {
			return "15"
		}
		return ""
	}, models.MediaTypeMovie)
	if f.MinRating != 0 {
		t.Fatalf("out-of-range rating should be dropped, got %v", f.MinRating)
	}
}

func TestParseFiltersSortKeysMatchKind(t *testing.T) {
	get := func(k string) string {
		if k == "sort_by" {
			return "revenue.desc"
		}
		return ""
	}
	if f := ParseFilters(get, models.MediaTypeMovie); f.SortBy != "revenue.desc" {
		t.Fatalf("movie sort = %q", f.SortBy)
	}
	// Revenue is not a TV sort key.
	if f := ParseFilters(get, models.MediaTypeTV); f.SortBy != "" {
		t.Fatalf("tv sort should drop revenue.desc, got %q", f.SortBy)
	}

	get = func(k string) string {
		if k == "sort_by" {
			return "rating; DROP TABLE"
		}
		return ""
	}
	if f := ParseFilters(get, models.MediaTypeMovie); f.SortBy != "" {
		t.Fatalf("unknown sort key should be dropped, got %q", f.SortBy)
	}
}

func TestFilterSignatureCollapsesDefaultSort(t *testing.T) {
	none := filterSignature(models.FilterOptions{}, models.MediaTypeMovie)
	def := filterSignature(models.FilterOptions{SortBy: models.DefaultSort}, models.MediaTypeMovie)
	if none != "none" || def != "none" {
		t.Fatalf("default-sort-only filters should share the none fragment, got %q and %q", none, def)
	}
	active := filterSignature(models.FilterOptions{SortBy: "vote_average.desc"}, models.MediaTypeMovie)
	if active == "none" {
		t.Fatal("an active sort must produce a distinct fragment")
	}
}
