package moviepdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-moviepdf/internal/assets"
	"github.com/alnah/go-moviepdf/internal/logging"
	"github.com/alnah/go-moviepdf/internal/pipeline"
)

// Service fetches movie metadata and renders it to PDF.
// It is safe for concurrent use when its Renderer is.
type Service struct {
	cfg           serviceConfig
	source        MovieSource
	templates     assets.TemplateLoader
	movieRenderer pipeline.MovieRenderer
	cssInjector   pipeline.CSSInjector
	renderer      Renderer
	logger        logrus.FieldLogger
}

// New creates a Service with default configuration.
// Without WithMovieSource, the TMDB client is configured from WithUpstream.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			imageURL:       defaultImageURL,
			paginationMode: PaginationFirst,
			maxPages:       DefaultMaxPages,
			page:           DefaultPageSettings(),
			timeout:        defaultTimeout,
			networkIdle:    defaultNetworkIdle,
		},
		movieRenderer: &pipeline.TemplateRenderer{},
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.templates == nil {
		s.templates = assets.NewEmbeddedLoader()
	}
	if s.source == nil {
		s.source = newTMDBSource(s.cfg.upstream, s.logger)
	}
	if s.renderer == nil {
		s.renderer = NewRenderer()
	}

	return s
}

// FetchPopularMovies returns popular movies in upstream order.
//
// A page above zero fetches exactly that page. Page zero applies the
// pagination mode: PaginationFirst fetches page 1, PaginationAll fetches
// page 1 and then every page up to min(total pages, max pages). If any page
// fails, nothing is returned.
func (s *Service) FetchPopularMovies(ctx context.Context, page int) ([]Movie, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: %w: %d", ErrInvalidInput, ErrInvalidPage, page)
	}
	if page > 0 {
		p, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		return p.Movies, nil
	}

	first, err := s.fetchPage(ctx, 1)
	if err != nil {
		return nil, err
	}
	if s.cfg.paginationMode != PaginationAll {
		return first.Movies, nil
	}

	last := min(first.TotalPages, s.cfg.maxPages)
	movies := first.Movies
	for n := 2; n <= last; n++ {
		p, err := s.fetchPage(ctx, n)
		if err != nil {
			return nil, err
		}
		movies = append(movies, p.Movies...)
	}

	s.logger.WithFields(logrus.Fields{
		"pages":  max(last, 1),
		"movies": len(movies),
	}).Debug("fetched popular movies")
	return movies, nil
}

func (s *Service) fetchPage(ctx context.Context, page int) (*MoviePage, error) {
	p, err := s.source.PopularMovies(ctx, page)
	if err != nil {
		s.logger.WithError(err).WithField("page", page).Error("fetching popular movies failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}
	return p, nil
}

// FetchMovieByID returns one movie. id must be a positive decimal integer.
func (s *Service) FetchMovieByID(ctx context.Context, id string) (*Movie, error) {
	n, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}

	movie, err := s.source.MovieByID(ctx, n)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", n).Error("fetching movie failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}
	return movie, nil
}

// parseMovieID accepts only digits, without sign or spaces, and rejects zero.
func parseMovieID(id string) (int, error) {
	invalid := fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidMovieID, id)
	if id == "" || len(id) > 10 {
		return 0, invalid
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return 0, invalid
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return 0, invalid
	}
	return n, nil
}

// GenerateMoviePDF renders one movie with the movie template.
func (s *Service) GenerateMoviePDF(ctx context.Context, movie *Movie) ([]byte, error) {
	if movie == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNilMovie)
	}

	tmpl, err := s.loadTemplate(assets.MovieTemplate, pipeline.MovieTokens)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.movieRenderer.RenderMovie(ctx, tmpl, s.toMovieData(movie))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return s.renderPDF(ctx, htmlContent, logrus.Fields{"movie_id": movie.ID})
}

// GenerateMoviesPDF renders a list document with one card per movie, in
// the order given.
func (s *Service) GenerateMoviesPDF(ctx context.Context, movies []Movie) ([]byte, error) {
	listTmpl, err := s.loadTemplate(assets.PopularMoviesTemplate, pipeline.MovieListTokens)
	if err != nil {
		return nil, err
	}
	cardTmpl, err := s.loadTemplate(assets.MovieCardTemplate, pipeline.MovieCardTokens)
	if err != nil {
		return nil, err
	}

	data := make([]pipeline.MovieData, len(movies))
	for i := range movies {
		data[i] = s.toMovieData(&movies[i])
	}

	htmlContent, err := s.movieRenderer.RenderMovieList(ctx, listTmpl, cardTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return s.renderPDF(ctx, htmlContent, logrus.Fields{"movies": len(movies)})
}

// Close releases the renderer's browsers.
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// loadTemplate reads a template and checks it carries the required tokens.
func (s *Service) loadTemplate(name string, required []string) (string, error) {
	tmpl, err := s.templates.LoadTemplate(name)
	if err == nil {
		err = pipeline.CheckPlaceholders(tmpl, required)
	}
	if err != nil {
		s.logger.WithError(err).WithField("template", name).Error("loading template failed")
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateLoad, name, err)
	}
	return tmpl, nil
}

// renderPDF injects the configured CSS and prints the document.
func (s *Service) renderPDF(ctx context.Context, htmlContent string, fields logrus.Fields) ([]byte, error) {
	if err := s.cfg.page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := s.cfg.footer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	htmlContent = s.cssInjector.InjectCSS(ctx, htmlContent, s.cfg.css)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := s.renderer.Render(ctx, htmlContent, RenderOptions{
		Page:        s.cfg.page,
		Footer:      s.cfg.footer,
		NetworkIdle: s.cfg.networkIdle,
	})
	log := s.logger.WithFields(fields).WithField("duration", time.Since(start))
	if err != nil {
		log.WithError(err).Error("rendering PDF failed")
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	log.WithField("bytes", len(data)).Debug("rendered PDF")
	return data, nil
}

// toMovieData formats a Movie for the templates.
func (s *Service) toMovieData(m *Movie) pipeline.MovieData {
	poster := ""
	if m.PosterPath != "" {
		poster = s.cfg.imageURL + m.PosterPath
	}
	return pipeline.MovieData{
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		VoteAverage: strconv.FormatFloat(m.VoteAverage, 'f', -1, 64),
		PosterURL:   poster,
		Link:        s.cfg.localLink + "/movies/" + strconv.Itoa(m.ID),
		Overview:    m.Overview,
	}
}
