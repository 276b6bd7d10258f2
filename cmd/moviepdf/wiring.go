package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	moviepdf "github.com/alnah/go-moviepdf"
	"github.com/alnah/go-moviepdf/internal/assets"
	"github.com/alnah/go-moviepdf/internal/config"
)

// buildService turns the configuration into a ready Service.
func buildService(cfg *config.Config, logger logrus.FieldLogger) (*moviepdf.Service, error) {
	loader, err := assets.NewLoader(cfg.Templates.Dir)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	if fsLoader, ok := loader.(*assets.FilesystemLoader); ok {
		logger.WithField("dir", fsLoader.BasePath()).Info("loading templates from directory")
	} else {
		logger.Info("using embedded templates")
	}

	css, err := cfg.ReadStyle()
	if err != nil {
		return nil, err
	}

	opts := []moviepdf.Option{
		moviepdf.WithLogger(logger),
		moviepdf.WithTemplateLoader(loader),
		moviepdf.WithUpstream(moviepdf.Upstream{
			APIKey:        cfg.Upstream.APIKey,
			BaseURL:       cfg.Upstream.BaseURL,
			Timeout:       cfg.UpstreamTimeout(),
			RatePerSecond: cfg.Upstream.RateLimit,
			Burst:         cfg.Upstream.Burst,
		}),
		moviepdf.WithLocalLink(cfg.Links.LocalLink),
		moviepdf.WithPagination(cfg.Pagination.Mode, cfg.Pagination.MaxPages),
		moviepdf.WithNetworkIdle(cfg.NetworkIdle()),
		moviepdf.WithPageSettings(pageSettings(cfg.Page)),
		moviepdf.WithFooter(footer(cfg.Footer)),
		moviepdf.WithCSS(css),
	}
	if cfg.Upstream.ImageURL != "" {
		opts = append(opts, moviepdf.WithImageURL(cfg.Upstream.ImageURL))
	}
	if d := cfg.RenderTimeout(); d > 0 {
		opts = append(opts, moviepdf.WithTimeout(d))
	}
	if cfg.Render.Workers > 0 {
		pool := moviepdf.NewRendererPool(moviepdf.ResolvePoolSize(cfg.Render.Workers))
		logger.WithField("size", pool.Size()).Debug("renderer pool enabled")
		opts = append(opts, moviepdf.WithRenderer(pool))
	}

	return moviepdf.New(opts...), nil
}

// pageSettings fills unset fields from the defaults.
func pageSettings(pc config.PageConfig) *moviepdf.PageSettings {
	p := moviepdf.DefaultPageSettings()
	if pc.Size != "" {
		p.Size = pc.Size
	}
	if pc.Orientation != "" {
		p.Orientation = pc.Orientation
	}
	if pc.Margin > 0 {
		p.Margin = pc.Margin
	}
	return p
}

// footer returns nil when the footer is disabled.
func footer(fc config.FooterConfig) *moviepdf.Footer {
	if !fc.Enabled {
		return nil
	}
	return &moviepdf.Footer{
		Position:       fc.Position,
		ShowPageNumber: fc.ShowPageNumber,
		Text:           fc.Text,
	}
}
