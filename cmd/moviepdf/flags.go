package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-moviepdf/internal/config"
)

// serveFlags holds command-line overrides. Zero values leave the
// configuration untouched.
type serveFlags struct {
	config    string
	envFile   string
	addr      string
	templates string
	workers   int
	verbose   bool
	version   bool
}

func parseFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("moviepdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file path")
	fs.StringVar(&f.envFile, "env-file", "", "env file to load (default: .env if present)")
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address, e.g. :3000")
	fs.StringVarP(&f.templates, "templates", "t", "", "template directory (default: embedded)")
	fs.IntVarP(&f.workers, "workers", "w", -1, "persistent browsers (0 = one per request)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: moviepdf [flags]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Serves movie metadata as PDF documents.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	return f, nil
}

// apply overlays the flags on cfg. The caller re-validates.
func (f *serveFlags) apply(cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.templates != "" {
		cfg.Templates.Dir = f.templates
	}
	if f.workers >= 0 {
		cfg.Render.Workers = f.workers
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
}
