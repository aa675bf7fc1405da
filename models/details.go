package models

// MovieDetails is the TMDB movie detail record, optionally carrying the
// sub-resources requested via append_to_response.
type MovieDetails struct {
	Movie
	Runtime             int                     `json:"runtime"`
	Tagline             string                  `json:"tagline"`
	Status              string                  `json:"status"`
	Genres              []Genre                 `json:"genres"`
	Homepage            string                  `json:"homepage"`
	IMDBID              string                  `json:"imdb_id"`
	Budget              int64                   `json:"budget"`
	Revenue             int64                   `json:"revenue"`
	ProductionCountries []ProductionCountry     `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage        `json:"spoken_languages"`
	Credits             *Credits                `json:"credits,omitempty"`
	Videos              *VideosResponse         `json:"videos,omitempty"`
	Similar             *MoviePage              `json:"similar,omitempty"`
	Translations        *TranslationsResponse   `json:"translations,omitempty"`
	WatchProviders      *WatchProvidersResponse `json:"watch/providers,omitempty"`
}

// TVShowDetails is the TMDB TV detail record with optional appended
// sub-resources.
type TVShowDetails struct {
	TVShow
	LastAirDate         string                  `json:"last_air_date"`
	NumberOfSeasons     int                     `json:"number_of_seasons"`
	NumberOfEpisodes    int                     `json:"number_of_episodes"`
	EpisodeRunTime      []int                   `json:"episode_run_time"`
	Tagline             string                  `json:"tagline"`
	Status              string                  `json:"status"`
	Genres              []Genre                 `json:"genres"`
	Homepage            string                  `json:"homepage"`
	ProductionCountries []ProductionCountry     `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage        `json:"spoken_languages"`
	Credits             *Credits                `json:"credits,omitempty"`
	Videos              *VideosResponse         `json:"videos,omitempty"`
	Similar             *TVPage                 `json:"similar,omitempty"`
	Translations        *TranslationsResponse   `json:"translations,omitempty"`
	WatchProviders      *WatchProvidersResponse `json:"watch/providers,omitempty"`
}

type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type VideosResponse struct {
	Results []Video `json:"results"`
}

type Translation struct {
	ISO3166     string `json:"iso_3166_1"`
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

type TranslationsResponse struct {
	Translations []Translation `json:"translations"`
}

// Trailer returns the first YouTube trailer from a videos payload, or nil
// when none exists.
func (v *VideosResponse) Trailer() *Video {
	if v == nil {
		return nil
	}
	for i := range v.Results {
		if v.Results[i].Type == "Trailer" && v.Results[i].Site == "YouTube" {
			return &v.Results[i]
		}
	}
	return nil
}
