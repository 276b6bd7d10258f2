package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingPlaceholder indicates a template lacks a token it must contain.
var ErrMissingPlaceholder = errors.New("template missing placeholder")

// Placeholder tokens recognised in templates.
const (
	TokenTitle       = "{{ title }}"
	TokenReleaseDate = "{{ release_date }}"
	TokenVoteAverage = "{{ vote_average }}"
	TokenPosterImage = "{{ poster_image }}"
	TokenMovies      = "{{ movies }}"
	TokenLink        = "{{ link }}"
	TokenOverview    = "{{ overview }}" // optional, movie template only
)

// Required tokens per template kind.
var (
	MovieTokens     = []string{TokenTitle, TokenReleaseDate, TokenVoteAverage, TokenPosterImage}
	MovieListTokens = []string{TokenMovies}
	MovieCardTokens = []string{TokenLink, TokenTitle, TokenReleaseDate, TokenVoteAverage}
)

// Binding maps one placeholder token to its replacement text.
type Binding struct {
	Token string
	Value string
}

// Substitute replaces the first occurrence of each binding's token in tmpl.
//
// All positions are located in the original template before anything is
// written, so text introduced by a value is never scanned for tokens. Tokens
// absent from tmpl are ignored.
func Substitute(tmpl string, bindings ...Binding) string {
	type hit struct {
		start int
		end   int
		value string
	}

	hits := make([]hit, 0, len(bindings))
	for _, b := range bindings {
		if b.Token == "" {
			continue
		}
		if idx := strings.Index(tmpl, b.Token); idx >= 0 {
			hits = append(hits, hit{start: idx, end: idx + len(b.Token), value: b.Value})
		}
	}
	if len(hits) == 0 {
		return tmpl
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	var sb strings.Builder
	sb.Grow(len(tmpl))
	pos := 0
	for _, h := range hits {
		// Two bindings for the same token share a start; keep the first.
		if h.start < pos {
			continue
		}
		sb.WriteString(tmpl[pos:h.start])
		sb.WriteString(h.value)
		pos = h.end
	}
	sb.WriteString(tmpl[pos:])
	return sb.String()
}

// CheckPlaceholders returns ErrMissingPlaceholder naming every token in
// required that tmpl does not contain.
func CheckPlaceholders(tmpl string, required []string) error {
	var missing []string
	for _, tok := range required {
		if !strings.Contains(tmpl, tok) {
			missing = append(missing, tok)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingPlaceholder, strings.Join(missing, ", "))
	}
	return nil
}
