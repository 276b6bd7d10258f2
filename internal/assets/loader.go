package assets

// Template names known to the service.
const (
	MovieTemplate         = "movie"
	PopularMoviesTemplate = "popular-movies"
	MovieCardTemplate     = "movie-card"
)

// TemplateLoader defines the contract for loading HTML templates.
type TemplateLoader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// NewLoader returns a FilesystemLoader rooted at dir, or the embedded
// templates when dir is empty.
func NewLoader(dir string) (TemplateLoader, error) {
	if dir == "" {
		return NewEmbeddedLoader(), nil
	}
	return NewFilesystemLoader(dir)
}
