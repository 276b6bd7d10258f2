// Package server exposes the movie PDF service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	ginlog "github.com/toorop/gin-logrus"

	moviepdf "github.com/alnah/go-moviepdf"
)

// MovieService is the subset of moviepdf.Service the handlers use.
type MovieService interface {
	FetchPopularMovies(ctx context.Context, page int) ([]moviepdf.Movie, error)
	FetchMovieByID(ctx context.Context, id string) (*moviepdf.Movie, error)
	GenerateMoviePDF(ctx context.Context, movie *moviepdf.Movie) ([]byte, error)
	GenerateMoviesPDF(ctx context.Context, movies []moviepdf.Movie) ([]byte, error)
}

var _ MovieService = (*moviepdf.Service)(nil)

// Server routes HTTP requests to a MovieService.
type Server struct {
	svc    MovieService
	logger logrus.FieldLogger
	engine *gin.Engine
}

// New builds the router. Access logs and handler errors go to logger.
func New(svc MovieService, logger logrus.FieldLogger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
		engine: gin.New(),
	}

	s.engine.Use(requestID(), ginlog.Logger(logger, healthPath), gin.Recovery())

	s.engine.GET(healthPath, s.health)
	s.engine.GET("/movies", s.moviesPDF("movies.pdf"))
	s.engine.GET("/movies/popular/pdf", s.moviesPDF("popular-movies.pdf"))
	s.engine.GET("/movies/:id", s.moviePDF)

	s.engine.NoRoute(func(c *gin.Context) {
		respondWithError(c, http.StatusNotFound, "route not found")
	})

	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr and serves until ctx is done, then shuts down,
// waiting up to shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.WithField("addr", ln.Addr().String()).Info("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
