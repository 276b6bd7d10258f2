package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	moviepdf "github.com/alnah/go-moviepdf"
	"github.com/alnah/go-moviepdf/internal/hints"
	"github.com/alnah/go-moviepdf/internal/tmdb"
)

const healthPath = "/health"

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	StatusCode   int    `json:"statusCode"`
	ErrorMessage string `json:"message"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// moviesPDF serves a list document of popular movies under filename.
func (s *Server) moviesPDF(filename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := pageParam(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		movies, err := s.svc.FetchPopularMovies(ctx, page)
		if err != nil {
			s.fail(c, err)
			return
		}

		data, err := s.svc.GenerateMoviesPDF(ctx, movies)
		if err != nil {
			s.fail(c, err)
			return
		}

		writePDF(c, filename, data)
	}
}

// moviePDF serves the document of one movie as movie-{id}.pdf.
func (s *Server) moviePDF(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	movie, err := s.svc.FetchMovieByID(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	data, err := s.svc.GenerateMoviePDF(ctx, movie)
	if err != nil {
		s.fail(c, err)
		return
	}

	writePDF(c, "movie-"+id+".pdf", data)
}

// pageParam reads the optional ?page=N query. Absent means 0.
// Writes a 400 reply and returns false when the value is not a positive integer.
func pageParam(c *gin.Context) (int, bool) {
	raw, present := c.GetQuery("page")
	if !present {
		return 0, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid page %q: must be a positive integer", raw))
		return 0, false
	}
	return page, true
}

func writePDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// fail logs err and replies with the status its kind maps to.
func (s *Server) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"path":       c.Request.URL.Path,
		"kind":       moviepdf.KindOf(err).String(),
		"status":     status,
	}).WithError(err)
	var se *tmdb.StatusError
	if errors.As(err, &se) {
		entry = entry.WithField("upstream_status", se.StatusCode)
	}
	if hint := hints.For(err); hint != "" {
		entry = entry.WithField("hint", strings.TrimPrefix(hint, "\n  hint: "))
	}
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	respondWithError(c, status, msg)
}

// statusFor maps an error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch moviepdf.KindOf(err) {
	case moviepdf.KindInvalidInput:
		switch {
		case errors.Is(err, moviepdf.ErrInvalidMovieID):
			return http.StatusBadRequest, "invalid movie id"
		case errors.Is(err, moviepdf.ErrInvalidPage):
			return http.StatusBadRequest, "invalid page"
		default:
			return http.StatusBadRequest, "invalid request"
		}
	case moviepdf.KindUpstreamFetch:
		return http.StatusBadGateway, "failed to fetch movie data"
	case moviepdf.KindTemplateLoad:
		return http.StatusInternalServerError, "failed to load template"
	case moviepdf.KindRender:
		return http.StatusInternalServerError, "failed to render PDF"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		StatusCode:   code,
		ErrorMessage: msg,
	})
}
