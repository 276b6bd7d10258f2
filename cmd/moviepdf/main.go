package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-moviepdf/internal/config"
	"github.com/alnah/go-moviepdf/internal/hints"
	"github.com/alnah/go-moviepdf/internal/logging"
	"github.com/alnah/go-moviepdf/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain runs the server and maps the outcome to an exit code.
func runMain(args []string, stdout, stderr io.Writer) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, stdout, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, "moviepdf: %v%s\n", err, hints.For(err))
	}
	return exitCodeFor(err)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.version {
		fmt.Fprintln(stdout, "moviepdf", Version)
		return nil
	}

	if err := config.LoadEnvFile(f.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}, stdout)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.WithError(err).Warn("closing renderer")
		}
	}()

	logger.WithFields(logrus.Fields{
		"version":    Version,
		"workers":    cfg.Render.Workers,
		"pagination": cfg.Pagination.Mode,
	}).Info("starting moviepdf")

	return server.New(svc, logger).Run(ctx, cfg.Server.Addr, cfg.ShutdownTimeout())
}
