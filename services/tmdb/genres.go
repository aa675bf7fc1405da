package tmdb

import "reelist/models"

// StaticGenres is the fallback taxonomy served when the genre endpoints are
// unreachable. The ids are TMDB's stable genre ids.
func StaticGenres() GenreSet {
	return GenreSet{
		Movie: []models.Genre{
			{ID: 28, Name: "Action"},
			{ID: 12, Name: "Adventure"},
			{ID: 16, Name: "Animation"},
			{ID: 35, Name: "Comedy"},
			{ID: 80, Name: "Crime"},
			{ID: 99, Name: "Documentary"},
			{ID: 18, Name: "Drama"},
			{ID: 10751, Name: "Family"},
			{ID: 14, Name: "Fantasy"},
			{ID: 36, Name: "History"},
			{ID: 27, Name: "Horror"},
			{ID: 10402, Name: "Music"},
			{ID: 9648, Name: "Mystery"},
			{ID: 10749, Name: "Romance"},
			{ID: 878, Name: "Science Fiction"},
			{ID: 10770, Name: "TV Movie"},
			{ID: 53, Name: "Thriller"},
			{ID: 10752, Name: "War"},
			{ID: 37, Name: "Western"},
		},
		TV: []models.Genre{
			{ID: 10759, Name: "Action & Adventure"},
			{ID: 16, Name: "Animation"},
			{ID: 35, Name: "Comedy"},
			{ID: 80, Name: "Crime"},
			{ID: 99, Name: "Documentary"},
			{ID: 18, Name: "Drama"},
			{ID: 10751, Name: "Family"},
			{ID: 10762, Name: "Kids"},
			{ID: 9648, Name: "Mystery"},
			{ID: 10763, Name: "News"},
			{ID: 10764, Name: "Reality"},
			{ID: 10765, Name: "Sci-Fi & Fantasy"},
			{ID: 10766, Name: "Soap"},
			{ID: 10767, Name: "Talk"},
			{ID: 10768, Name: "War & Politics"},
			{ID: 37, Name: "Western"},
		},
	}
}
