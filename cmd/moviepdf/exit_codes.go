package main

import (
	"errors"
	"os"

	moviepdf "github.com/alnah/go-moviepdf"
	"github.com/alnah/go-moviepdf/internal/assets"
	"github.com/alnah/go-moviepdf/internal/config"
	"github.com/alnah/go-moviepdf/internal/logging"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// Exit codes for the moviepdf binary.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean shutdown
	ExitGeneral = 1 // General/unexpected error, including listen failures
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, moviepdf.ErrBrowserConnect) ||
		errors.Is(err, moviepdf.ErrPageCreate) ||
		errors.Is(err, moviepdf.ErrPageLoad) ||
		errors.Is(err, moviepdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, config.ErrEnvFile) {
		return ExitIO
	}

	return ExitGeneral
}
