package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the TMDB movie collection endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3/movie"

	defaultTimeout       = 10 * time.Second
	defaultRatePerSecond = 20
	defaultBurst         = 5
)

// Config configures a Client. Zero values select defaults.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client fetches movies from the TMDB API.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	validate *validator.Validate
	logger   logrus.FieldLogger
}

// New creates a Client. A nil logger discards log output.
func New(cfg Config, logger logrus.FieldLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		validate: validator.New(),
		logger:   logger,
	}
}

// PopularPage fetches a single page of popular movies. Pages start at 1.
// A response without a page number is taken to be the requested page.
func (c *Client) PopularPage(ctx context.Context, page int) (*PopularPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidArgument, page)
	}

	params := url.Values{"page": {strconv.Itoa(page)}}

	var resp PopularPage
	if err := c.get(ctx, "/popular", params, &resp); err != nil {
		return nil, fmt.Errorf("popular movies page %d: %w", page, err)
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	resp.Results = c.validResults(ctx, page, resp.Results)
	return &resp, nil
}

// validResults drops listing entries that fail Movie validation, keeping
// the order of the rest. Each dropped entry is logged.
func (c *Client) validResults(ctx context.Context, page int, results []Movie) []Movie {
	kept := results[:0]
	for i := range results {
		if err := c.validate.StructCtx(ctx, &results[i]); err != nil {
			c.logger.WithFields(logrus.Fields{
				"page":     page,
				"index":    i,
				"movie_id": results[i].ID,
			}).WithError(err).Warn("skipping invalid movie in popular listing")
			continue
		}
		kept = append(kept, results[i])
	}
	return kept
}

// Movie fetches a single movie by id.
func (c *Client) Movie(ctx context.Context, id int) (*Movie, error) {
	if id < 1 {
		return nil, fmt.Errorf("%w: movie id %d", ErrInvalidArgument, id)
	}

	var movie Movie
	if err := c.get(ctx, "/"+strconv.Itoa(id), nil, &movie); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	return &movie, nil
}

// get performs a rate-limited GET, decodes the JSON body into result and
// validates it.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.WithFields(logrus.Fields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("movie API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := c.validate.StructCtx(ctx, result); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
