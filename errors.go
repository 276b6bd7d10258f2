package moviepdf

import "errors"

// Sentinel errors for library operations.
var (
	// Error kinds. Every error returned by a Service method wraps one of these.
	ErrUpstreamFetch = errors.New("fetching movie data failed")
	ErrTemplateLoad  = errors.New("loading template failed")
	ErrRender        = errors.New("rendering PDF failed")
	ErrInvalidInput  = errors.New("invalid input")

	// Input validation errors, wrapped with ErrInvalidInput.
	ErrInvalidMovieID = errors.New("invalid movie id")
	ErrInvalidPage    = errors.New("invalid page number")
	ErrNilMovie       = errors.New("movie cannot be nil")

	// Browser errors, wrapped with ErrRender.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrRendererClosed = errors.New("renderer is closed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")
)

// ErrorKind classifies an error returned by the Service.
type ErrorKind int

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	KindInvalidInput
	KindUpstreamFetch
	KindTemplateLoad
	KindRender
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstreamFetch:
		return "upstream_fetch"
	case KindTemplateLoad:
		return "template_load"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of err. Errors not produced by this package,
// including context cancellation, are KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUpstreamFetch):
		return KindUpstreamFetch
	case errors.Is(err, ErrTemplateLoad):
		return KindTemplateLoad
	case errors.Is(err, ErrRender):
		return KindRender
	default:
		return KindUnknown
	}
}
