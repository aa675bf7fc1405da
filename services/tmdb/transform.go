package tmdb

import "reelist/models"

// MovieItem folds a raw movie record into the normalized MediaItem shape.
func MovieItem(m models.Movie) models.MediaItem {
	return models.MediaItem{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		GenreIDs:     m.GenreIDs,
		MediaType:    models.MediaTypeMovie,
		Popularity:   m.Popularity,
	}
}

// TVItem folds a raw TV record into the normalized MediaItem shape
// (name becomes title, first_air_date becomes release_date).
func TVItem(t models.TVShow) models.MediaItem {
	return models.MediaItem{
		ID:           t.ID,
		Title:        t.Name,
		Overview:     t.Overview,
		PosterPath:   t.PosterPath,
		BackdropPath: t.BackdropPath,
		ReleaseDate:  t.FirstAirDate,
		VoteAverage:  t.VoteAverage,
		VoteCount:    t.VoteCount,
		GenreIDs:     t.GenreIDs,
		MediaType:    models.MediaTypeTV,
		Popularity:   t.Popularity,
	}
}

func moviePageToMedia(p models.MoviePage) models.MediaPage {
	out := models.MediaPage{
		Page:         p.Page,
		Results:      make([]models.MediaItem, 0, len(p.Results)),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
	for _, m := range p.Results {
		out.Results = append(out.Results, MovieItem(m))
	}
	return out
}

func tvPageToMedia(p models.TVPage) models.MediaPage {
	out := models.MediaPage{
		Page:         p.Page,
		Results:      make([]models.MediaItem, 0, len(p.Results)),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
	for _, t := range p.Results {
		out.Results = append(out.Results, TVItem(t))
	}
	return out
}

// mixedResult is one entry of a trending or multi-search response, which
// interleaves movies, TV shows and other kinds under a media_type
// discriminator.
type mixedResult struct {
	MediaType    string  `json:"media_type"`
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

type mixedPage struct {
	Page         int           `json:"page"`
	Results      []mixedResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// mediaPage normalizes a mixed page, dropping every kind other than movie
// and tv (people show up in multi-search results).
func (p mixedPage) mediaPage() models.MediaPage {
	out := models.MediaPage{
		Page:         p.Page,
		Results:      make([]models.MediaItem, 0, len(p.Results)),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
	for _, r := range p.Results {
		switch models.MediaType(r.MediaType) {
		case models.MediaTypeMovie:
			out.Results = append(out.Results, models.MediaItem{
				ID: r.ID, Title: r.Title, Overview: r.Overview,
				PosterPath: r.PosterPath, BackdropPath: r.BackdropPath,
				ReleaseDate: r.ReleaseDate, VoteAverage: r.VoteAverage,
				VoteCount: r.VoteCount, GenreIDs: r.GenreIDs,
				MediaType: models.MediaTypeMovie, Popularity: r.Popularity,
			})
		case models.MediaTypeTV:
			out.Results = append(out.Results, models.MediaItem{
				ID: r.ID, Title: r.Name, Overview: r.Overview,
				PosterPath: r.PosterPath, BackdropPath: r.BackdropPath,
				ReleaseDate: r.FirstAirDate, VoteAverage: r.VoteAverage,
				VoteCount: r.VoteCount, GenreIDs: r.GenreIDs,
				MediaType: models.MediaTypeTV, Popularity: r.Popularity,
			})
		}
	}
	return out
}

// DedupeByID concatenates the given lists keeping only the first occurrence
// of each numeric id, in order of first appearance.
func DedupeByID(lists ...[]models.MediaItem) []models.MediaItem {
	seen := make(map[int]bool)
	var out []models.MediaItem
	for _, list := range lists {
		for _, item := range list {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			out = append(out, item)
		}
	}
	return out
}
