// Package pipeline turns movie data into print-ready HTML.
//
// This package handles the template stages of a PDF build:
//   - Placeholder substitution ({{ title }} style tokens, first occurrence only)
//   - Single movie rendering
//   - Movie list rendering (one card fragment per movie, input order preserved)
//   - CSS injection into the finished document
//
// PDF generation is handled separately by the root moviepdf package using
// headless Chrome (go-rod). Template loading lives in internal/assets.
package pipeline
