package moviepdf

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-moviepdf/internal/tmdb"
)

// MoviePage is one page of a paginated movie listing.
type MoviePage struct {
	Page       int
	TotalPages int
	Movies     []Movie
}

// MovieSource provides movie metadata.
type MovieSource interface {
	PopularMovies(ctx context.Context, page int) (*MoviePage, error)
	MovieByID(ctx context.Context, id int) (*Movie, error)
}

// tmdbSource adapts the TMDB client to MovieSource.
type tmdbSource struct {
	client *tmdb.Client
}

var _ MovieSource = (*tmdbSource)(nil)

func newTMDBSource(u Upstream, logger logrus.FieldLogger) *tmdbSource {
	return &tmdbSource{client: tmdb.New(tmdb.Config{
		APIKey:        u.APIKey,
		BaseURL:       u.BaseURL,
		Timeout:       u.Timeout,
		RatePerSecond: u.RatePerSecond,
		Burst:         u.Burst,
	}, logger)}
}

func (s *tmdbSource) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	resp, err := s.client.PopularPage(ctx, page)
	if err != nil {
		return nil, err
	}

	movies := make([]Movie, len(resp.Results))
	for i := range resp.Results {
		movies[i] = toMovie(&resp.Results[i])
	}
	return &MoviePage{Page: resp.Page, TotalPages: resp.TotalPages, Movies: movies}, nil
}

func (s *tmdbSource) MovieByID(ctx context.Context, id int) (*Movie, error) {
	resp, err := s.client.Movie(ctx, id)
	if err != nil {
		return nil, err
	}
	m := toMovie(resp)
	return &m, nil
}

// toMovie converts the wire type to the public Movie.
func toMovie(m *tmdb.Movie) Movie {
	return Movie{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: m.VoteAverage,
		PosterPath:  m.PosterPath,
		Overview:    m.Overview,
	}
}
