package tmdb

// Notes:
// - Uses httptest servers standing in for the TMDB API.
// - Covers request shape (path, api_key, page, Accept), decoding, non-2xx
//   handling, payload validation and argument checks.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL + "/3/movie",
		Timeout:       5 * time.Second,
		RatePerSecond: 1000,
		Burst:         100,
	}, nil)
}

// ---------------------------------------------------------------------------
// TestClient_Movie
// ---------------------------------------------------------------------------

func TestClient_Movie(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/27205" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("missing api_key")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":27205,"title":"Inception","release_date":"2010-07-16",`+
			`"vote_average":8.4,"poster_path":"/abc.jpg","overview":"Dreams."}`)
	}))

	movie, err := client.Movie(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Movie() error = %v", err)
	}

	want := Movie{
		ID:          27205,
		Title:       "Inception",
		ReleaseDate: "2010-07-16",
		VoteAverage: 8.4,
		PosterPath:  "/abc.jpg",
		Overview:    "Dreams.",
	}
	if *movie != want {
		t.Errorf("Movie() = %+v, want %+v", *movie, want)
	}
}

func TestClient_Movie_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantCode int
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"status_message":"not found"}`, wantErr: ErrUnexpectedStatus, wantCode: 404},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrUnexpectedStatus, wantCode: 401},
		{name: "server error", status: http.StatusInternalServerError, body: ``, wantErr: ErrUnexpectedStatus, wantCode: 500},
		{name: "malformed json", status: http.StatusOK, body: `{"id":`, wantErr: ErrInvalidPayload},
		{name: "missing title", status: http.StatusOK, body: `{"id":1}`, wantErr: ErrInvalidPayload},
		{name: "zero id", status: http.StatusOK, body: `{"id":0,"title":"x"}`, wantErr: ErrInvalidPayload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))

			_, err := client.Movie(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Movie() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantCode != 0 {
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("error %v is not a *StatusError", err)
				}
				if se.StatusCode != tt.wantCode {
					t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantCode)
				}
			}
		})
	}
}

func TestClient_Movie_InvalidID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	for _, id := range []int{0, -3} {
		if _, err := client.Movie(context.Background(), id); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Movie(%d) error = %v, want ErrInvalidArgument", id, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestClient_PopularPage
// ---------------------------------------------------------------------------

func TestClient_PopularPage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/popular" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		fmt.Fprint(w, `{"page":2,"total_pages":7,"total_results":140,"results":[`+
			`{"id":3,"title":"C","release_date":"2003-01-01","vote_average":6.1},`+
			`{"id":1,"title":"A","release_date":"2001-01-01","vote_average":7}]}`)
	}))

	page, err := client.PopularPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("PopularPage() error = %v", err)
	}
	if page.Page != 2 || page.TotalPages != 7 || page.TotalResults != 140 {
		t.Errorf("PopularPage() header = %d/%d/%d", page.Page, page.TotalPages, page.TotalResults)
	}
	if len(page.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(page.Results))
	}
	if page.Results[0].ID != 3 || page.Results[1].ID != 1 {
		t.Errorf("results out of order: %+v", page.Results)
	}
}

func TestClient_PopularPage_SkipsInvalidResults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[`+
			`{"id":4,"title":"D"},{"id":1,"title":""},{"id":0,"title":"Zero"},{"id":2,"title":"B"}]}`)
	}))

	page, err := client.PopularPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("PopularPage() error = %v", err)
	}
	if len(page.Results) != 2 || page.Results[0].ID != 4 || page.Results[1].ID != 2 {
		t.Errorf("Results = %+v, want ids [4 2]", page.Results)
	}
}

func TestClient_PopularPage_MissingPageFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":1,"title":"A","vote_average":7},{"id":2,"title":"B","vote_average":6}]}`)
	}))

	page, err := client.PopularPage(context.Background(), 3)
	if err != nil {
		t.Fatalf("PopularPage() error = %v", err)
	}
	if page.Page != 3 {
		t.Errorf("Page = %d, want the requested page 3", page.Page)
	}
	if page.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", page.TotalPages)
	}
	if len(page.Results) != 2 || page.Results[0].Title != "A" || page.Results[1].Title != "B" {
		t.Errorf("Results = %+v, want A then B", page.Results)
	}
}

func TestClient_PopularPage_InvalidEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"results":[`},
		{name: "negative page", body: `{"page":-1,"results":[]}`},
		{name: "negative total pages", body: `{"page":1,"total_pages":-2,"results":[]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))

			if _, err := client.PopularPage(context.Background(), 1); !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("PopularPage() error = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestClient_PopularPage_InvalidPage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if _, err := client.PopularPage(context.Background(), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("PopularPage(0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"title":"A"}`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Movie(ctx, 1); err == nil {
		t.Error("Movie() with cancelled context should fail")
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := New(Config{APIKey: "k", BaseURL: "http://example.test/3/movie/"}, nil)
	if c.baseURL != "http://example.test/3/movie" {
		t.Errorf("baseURL = %q, trailing slash not trimmed", c.baseURL)
	}
	if c.http.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.http.Timeout, defaultTimeout)
	}
	if c.limiter.Burst() != defaultBurst {
		t.Errorf("Burst = %d, want %d", c.limiter.Burst(), defaultBurst)
	}

	d := New(Config{}, nil)
	if !strings.HasPrefix(d.baseURL, "https://api.themoviedb.org") {
		t.Errorf("default baseURL = %q", d.baseURL)
	}
}

func TestStatusError_Error(t *testing.T) {
	t.Parallel()

	if got := (&StatusError{StatusCode: 404}).Error(); got != "movie API returned status 404" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&StatusError{StatusCode: 500, Body: "boom"}).Error(); got != "movie API returned status 500: boom" {
		t.Errorf("Error() = %q", got)
	}
}
