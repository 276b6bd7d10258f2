package moviepdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-moviepdf/internal/assets"
)

// Movie is the metadata of one film.
type Movie struct {
	ID          int
	Title       string
	ReleaseDate string  // as published upstream, usually YYYY-MM-DD
	VoteAverage float64 // 0 to 10
	PosterPath  string  // relative path, joined with the image base URL
	Overview    string
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.4
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns A4 portrait with default margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Footer configures the PDF footer printed by Chrome.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Pagination modes for an unpaged popular-movies request.
const (
	PaginationFirst = "first" // page 1 only
	PaginationAll   = "all"   // every page up to the configured cap
)

// DefaultMaxPages caps PaginationAll.
const DefaultMaxPages = 15

// Upstream configures the movie API connection.
type Upstream struct {
	APIKey        string
	BaseURL       string // empty = TMDB movie endpoint
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	upstream       Upstream
	imageURL       string
	localLink      string
	paginationMode string
	maxPages       int
	css            string
	page           *PageSettings
	footer         *Footer
	timeout        time.Duration
	networkIdle    time.Duration
}

// Defaults used when no option overrides them.
const (
	defaultTimeout     = 30 * time.Second
	defaultNetworkIdle = 500 * time.Millisecond
	defaultImageURL    = "https://image.tmdb.org/t/p/w500"
)

// WithUpstream configures the built-in TMDB client.
// Ignored when WithMovieSource is also given.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		s.cfg.upstream = u
	}
}

// WithMovieSource replaces the built-in TMDB client.
func WithMovieSource(src MovieSource) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithTemplateLoader sets where templates are read from.
func WithTemplateLoader(l assets.TemplateLoader) Option {
	return func(s *Service) {
		s.templates = l
	}
}

// WithRenderer replaces the default browser-per-render compositor, for
// example with a RendererPool. The Service closes it on Close.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithLogger sets the logger. Default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithImageURL sets the base URL poster paths are appended to.
func WithImageURL(u string) Option {
	return func(s *Service) {
		s.cfg.imageURL = u
	}
}

// WithLocalLink sets the base URL list documents link each movie to.
func WithLocalLink(u string) Option {
	return func(s *Service) {
		s.cfg.localLink = strings.TrimRight(u, "/")
	}
}

// WithPagination sets the mode and page cap for unpaged popular requests.
// Panics on an unknown mode or maxPages < 1 (programmer error).
func WithPagination(mode string, maxPages int) Option {
	if mode != PaginationFirst && mode != PaginationAll {
		panic("moviepdf: WithPagination mode must be first or all")
	}
	if maxPages < 1 {
		panic("moviepdf: WithPagination maxPages must be positive")
	}
	return func(s *Service) {
		s.cfg.paginationMode = mode
		s.cfg.maxPages = maxPages
	}
}

// WithCSS injects extra CSS into every document.
func WithCSS(css string) Option {
	return func(s *Service) {
		s.cfg.css = css
	}
}

// WithPageSettings overrides the A4 portrait default.
func WithPageSettings(p *PageSettings) Option {
	return func(s *Service) {
		s.cfg.page = p
	}
}

// WithFooter enables Chrome's native footer.
func WithFooter(f *Footer) Option {
	return func(s *Service) {
		s.cfg.footer = f
	}
}

// WithTimeout sets the per-render timeout used when the context has no deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("moviepdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithNetworkIdle sets how long the page must be free of network requests
// before it is printed.
// Panics if d < 0.
func WithNetworkIdle(d time.Duration) Option {
	if d < 0 {
		panic("moviepdf: WithNetworkIdle duration must not be negative")
	}
	return func(s *Service) {
		s.cfg.networkIdle = d
	}
}
