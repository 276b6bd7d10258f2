// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"os"
	"strings"
	"syscall"

	moviepdf "github.com/alnah/go-moviepdf"
	"github.com/alnah/go-moviepdf/internal/config"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	info, err := os.Stat("/.dockerenv")
	return err == nil && !info.IsDir()
}

// For returns the hint matching err, or "" when there is none.
func For(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, moviepdf.ErrBrowserConnect):
		return ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return ForConfigNotFound()
	case errors.Is(err, config.ErrMissingAPIKey):
		return ForMissingAPIKey()
	case errors.Is(err, syscall.EADDRINUSE):
		return ForAddressInUse()
	}
	return ""
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a pre-installed Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns a hint for a missing config file.
func ForConfigNotFound() string {
	return format("check the --config path, or omit it to run on defaults and environment")
}

// ForMissingAPIKey returns a hint for an absent upstream API key.
func ForMissingAPIKey() string {
	return format("set " + config.EnvAPIKey + " in the environment or in .env")
}

// ForAddressInUse returns a hint for a listen address already taken.
func ForAddressInUse() string {
	return format("pick another port with " + config.EnvPort + " or --addr")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
