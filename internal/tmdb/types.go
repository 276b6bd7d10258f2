package tmdb

// Movie is the subset of a TMDB movie record this service uses.
type Movie struct {
	ID          int     `json:"id" validate:"gt=0"`
	Title       string  `json:"title" validate:"required"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average" validate:"gte=0,lte=10"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
}

// PopularPage is one page of the popular movies listing. Only Results is
// required; results are validated one by one by Client.PopularPage.
type PopularPage struct {
	Page         int     `json:"page" validate:"omitempty,gte=1"`
	TotalPages   int     `json:"total_pages" validate:"omitempty,gte=1"`
	TotalResults int     `json:"total_results" validate:"omitempty,gte=0"`
	Results      []Movie `json:"results"`
}
