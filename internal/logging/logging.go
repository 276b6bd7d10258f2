// Package logging builds the service logger: logrus with a text formatter,
// writing to stdout and, when a file is configured, to a rotating log file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrInvalidLevel indicates an unknown log level name.
var ErrInvalidLevel = errors.New("invalid log level")

// Config defines logger options.
type Config struct {
	Level      string // "debug", "info", "warn"/"warning", "error"
	File       string // rotating log file; empty = console only
	MaxSizeMB  int    // megabytes before rotation
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger writing to console, plus the rotating file from cfg.
// The returned Closer releases the log file and must be called on shutdown.
func New(cfg Config, console io.Writer) (*logrus.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(console)
		return log, nopCloser{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(console, rotator))
	return log, rotator, nil
}

// ParseLevel maps a level name to a logrus level. Empty means info.
func ParseLevel(name string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// Discard returns a logger that drops everything. Used as the default when
// a caller supplies none.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
