package pipeline

import (
	"context"
	"html"
	"strings"
)

// MovieData holds the display values of one movie, already formatted as text.
// Values are raw; the renderer escapes them.
type MovieData struct {
	Title       string
	ReleaseDate string
	VoteAverage string
	PosterURL   string
	Link        string
	Overview    string
}

// MovieRenderer defines the contract for building movie HTML from templates.
type MovieRenderer interface {
	RenderMovie(ctx context.Context, tmpl string, movie MovieData) (string, error)
	RenderMovieList(ctx context.Context, listTmpl, cardTmpl string, movies []MovieData) (string, error)
}

// TemplateRenderer fills templates by placeholder substitution.
type TemplateRenderer struct{}

// RenderMovie fills the single-movie template.
func (r *TemplateRenderer) RenderMovie(ctx context.Context, tmpl string, movie MovieData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Substitute(tmpl,
		Binding{Token: TokenTitle, Value: html.EscapeString(movie.Title)},
		Binding{Token: TokenReleaseDate, Value: html.EscapeString(movie.ReleaseDate)},
		Binding{Token: TokenVoteAverage, Value: html.EscapeString(movie.VoteAverage)},
		Binding{Token: TokenPosterImage, Value: html.EscapeString(movie.PosterURL)},
		Binding{Token: TokenOverview, Value: html.EscapeString(movie.Overview)},
	), nil
}

// RenderMovieList renders cardTmpl once per movie, joins the cards in input
// order and places the result at the {{ movies }} token of listTmpl.
func (r *TemplateRenderer) RenderMovieList(ctx context.Context, listTmpl, cardTmpl string, movies []MovieData) (string, error) {
	var sb strings.Builder
	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		sb.WriteString(Substitute(cardTmpl,
			Binding{Token: TokenLink, Value: html.EscapeString(m.Link)},
			Binding{Token: TokenTitle, Value: html.EscapeString(m.Title)},
			Binding{Token: TokenReleaseDate, Value: html.EscapeString(m.ReleaseDate)},
			Binding{Token: TokenVoteAverage, Value: html.EscapeString(m.VoteAverage)},
		))
	}
	return Substitute(listTmpl, Binding{Token: TokenMovies, Value: sb.String()}), nil
}

var _ MovieRenderer = (*TemplateRenderer)(nil)
