// Package assets provides the HTML templates used to build movie PDFs.
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    └── FilesystemLoader  - loads from a directory on disk
//
// The service reads a template on every render, so a template removed from a
// FilesystemLoader directory fails the next render instead of being served
// from memory. There is deliberately no fallback from a configured directory
// to the embedded set: a missing file is reported as ErrTemplateNotFound.
//
// # Directory Structure
//
//	{basePath}/
//	├── movie.html           # single movie page
//	├── popular-movies.html  # list page
//	└── movie-card.html      # fragment repeated once per movie in the list
//
// # Security
//
// Template names are validated to prevent path traversal, and
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
