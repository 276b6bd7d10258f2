// Package tmdb is a small client for the TMDB v3 movie endpoints.
//
// Only two calls are exposed: one page of popular movies and a single movie
// by id. The configured base URL already points at the movie collection
// (for example https://api.themoviedb.org/3/movie), so request paths are
// "/popular" and "/{id}". Every request carries the api_key query parameter
// and passes a rate limiter. Failed requests are never retried.
package tmdb
