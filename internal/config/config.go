// Package config loads service configuration from a YAML file, an optional
// .env file and environment variables, in that order of precedence (later
// wins), and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/alnah/go-moviepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrEnvFile        = errors.New("failed to load env file")
	ErrMissingAPIKey  = errors.New("upstream API key is not set")
)

// Environment variable names recognised by ApplyEnv.
const (
	EnvAPIKey    = "API_KEY"
	EnvBaseURL   = "API_BASE_URL"
	EnvImageURL  = "IMAGE_URL"
	EnvLocalLink = "LOCAL_LINK"
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
)

// Defaults.
const (
	DefaultAddr          = ":3000"
	DefaultBaseURL       = "https://api.themoviedb.org/3/movie"
	DefaultImageURL      = "https://image.tmdb.org/t/p/w500"
	DefaultLocalLink     = "http://localhost:3000"
	DefaultPagination    = PaginationFirst
	DefaultMaxPages      = 15
	DefaultNetworkIdleMs = 500
	DefaultLogLevel      = "info"
)

// Pagination modes.
const (
	PaginationFirst = "first"
	PaginationAll   = "all"
)

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Links      LinksConfig      `yaml:"links"`
	Pagination PaginationConfig `yaml:"pagination"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Render     RenderConfig     `yaml:"render"`
	Page       PageConfig       `yaml:"page"`
	Footer     FooterConfig     `yaml:"footer"`
	Style      StyleConfig      `yaml:"style"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr                   string `yaml:"addr" validate:"required"`
	ShutdownTimeoutSeconds int    `yaml:"shutdownTimeoutSeconds" validate:"gte=0,lte=300"`
}

// UpstreamConfig defines the movie API connection.
type UpstreamConfig struct {
	APIKey         string  `yaml:"apiKey" validate:"required"`
	BaseURL        string  `yaml:"baseURL" validate:"required,url"`
	ImageURL       string  `yaml:"imageURL" validate:"omitempty,url"`
	TimeoutSeconds int     `yaml:"timeoutSeconds" validate:"gte=0,lte=300"`
	RateLimit      float64 `yaml:"rateLimit" validate:"gte=0"` // requests per second, 0 = client default
	Burst          int     `yaml:"burst" validate:"gte=0"`
}

// LinksConfig defines links printed into list documents.
type LinksConfig struct {
	LocalLink string `yaml:"localLink" validate:"omitempty,url"`
}

// PaginationConfig controls what an unpaged popular-movies request fetches.
type PaginationConfig struct {
	Mode     string `yaml:"mode" validate:"oneof=first all"`
	MaxPages int    `yaml:"maxPages" validate:"gte=1,lte=500"`
}

// TemplatesConfig defines where templates come from.
type TemplatesConfig struct {
	Dir string `yaml:"dir"` // Empty = use embedded templates
}

// RenderConfig defines browser rendering behaviour.
type RenderConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds" validate:"gte=0,lte=600"` // 0 = library default
	NetworkIdleMs  int `yaml:"networkIdleMs" validate:"gte=0,lte=10000"`
	Workers        int `yaml:"workers" validate:"gte=0,lte=8"` // 0 = one browser per request
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size" validate:"omitempty,oneof=letter a4 legal"`
	Orientation string  `yaml:"orientation" validate:"omitempty,oneof=portrait landscape"`
	Margin      float64 `yaml:"margin" validate:"omitempty,gte=0.25,lte=3"` // inches
}

// FooterConfig defines the page footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position" validate:"omitempty,oneof=left center right"`
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Text           string `yaml:"text" validate:"max=500"`
}

// StyleConfig defines extra CSS injected into every document.
type StyleConfig struct {
	CSS  string `yaml:"css"`
	File string `yaml:"file"` // read at startup, appended after CSS
}

// LogConfig defines logging output.
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn warning error"`
	File       string `yaml:"file"` // Empty = stdout only
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns a Config with every default applied. The API key is
// left empty; it must come from the file or the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr, ShutdownTimeoutSeconds: 10},
		Upstream: UpstreamConfig{
			BaseURL:        DefaultBaseURL,
			ImageURL:       DefaultImageURL,
			TimeoutSeconds: 10,
		},
		Links:      LinksConfig{LocalLink: DefaultLocalLink},
		Pagination: PaginationConfig{Mode: DefaultPagination, MaxPages: DefaultMaxPages},
		Render:     RenderConfig{NetworkIdleMs: DefaultNetworkIdleMs},
		Log:        LogConfig{Level: DefaultLogLevel, MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then the process environment. The result is validated.
// A missing file is an error (no silent fallback).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := yamlutil.DecodeFile(path, cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. An empty path loads
// ".env" from the working directory and ignores its absence.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEnvFile, path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(EnvAPIKey, &c.Upstream.APIKey)
	set(EnvBaseURL, &c.Upstream.BaseURL)
	set(EnvImageURL, &c.Upstream.ImageURL)
	set(EnvLocalLink, &c.Links.LocalLink)
	set(EnvLogLevel, &c.Log.Level)

	var port string
	set(EnvPort, &port)
	if port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

var validate = validator.New()

// Validate checks every field against its constraints. Called by Load, but
// available for callers that build a Config by hand.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			missingKey := false
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
				if fe.StructField() == "APIKey" {
					missingKey = true
				}
			}
			if missingKey {
				return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrMissingAPIKey, strings.Join(msgs, "; "))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// UpstreamTimeout returns the upstream request timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// RenderTimeout returns the per-document render timeout, zero when unset.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// NetworkIdle returns the quiet window the browser waits for before printing.
func (c *Config) NetworkIdle() time.Duration {
	return time.Duration(c.Render.NetworkIdleMs) * time.Millisecond
}

// ShutdownTimeout returns how long the server waits for in-flight requests.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// ReadStyle returns the configured inline CSS followed by the contents of the
// style file, if any.
func (c *Config) ReadStyle() (string, error) {
	if c.Style.File == "" {
		return c.Style.CSS, nil
	}
	data, err := os.ReadFile(c.Style.File) // #nosec G304 -- operator-provided path
	if err != nil {
		return "", fmt.Errorf("reading style file: %w", err)
	}
	if c.Style.CSS == "" {
		return string(data), nil
	}
	return c.Style.CSS + "\n" + string(data), nil
}
