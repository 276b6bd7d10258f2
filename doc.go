// Package moviepdf renders movie metadata into PDF documents.
//
// # Quick Start
//
// Create a service, fetch movies, render, and close when done:
//
//	svc := moviepdf.New(
//	    moviepdf.WithUpstream(moviepdf.Upstream{APIKey: key}),
//	    moviepdf.WithLocalLink("http://localhost:3000"),
//	)
//	defer svc.Close()
//
//	movies, err := svc.FetchPopularMovies(ctx, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := svc.GenerateMoviesPDF(ctx, movies)
//
// # Pipeline
//
// Every document follows the same stages:
//
//  1. Movie data from the upstream API (internal/tmdb)
//  2. Template loading, embedded or from a directory (internal/assets)
//  3. Placeholder substitution and CSS injection (internal/pipeline)
//  4. PDF rendering via headless Chrome (go-rod)
//
// Templates are read on every render, so edits on disk take effect on the
// next request and a deleted template fails it.
//
// # Browsers
//
// By default each render launches its own browser and releases it before
// returning, on success and on every failure path. WithRenderer accepts a
// RendererPool, which keeps a fixed number of browsers alive between renders.
//
// # Errors
//
// Service methods return errors matching one of a closed set of kinds. Use
// KindOf to classify them:
//
//	switch moviepdf.KindOf(err) {
//	case moviepdf.KindUpstreamFetch:
//	case moviepdf.KindTemplateLoad:
//	case moviepdf.KindRender:
//	}
package moviepdf
