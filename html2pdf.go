package moviepdf

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-moviepdf/internal/process"
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, htmlContent string, opts RenderOptions) ([]byte, error)
	Close() error
}

// RenderOptions controls page layout for one render.
type RenderOptions struct {
	Page        *PageSettings // nil = DefaultPageSettings
	Footer      *Footer       // nil = no footer
	NetworkIdle time.Duration // quiet window before printing; 0 = wait for load only
}

// browserLauncher starts a headless browser.
// On error, anything it started has already been released.
type browserLauncher interface {
	Launch(ctx context.Context) (browserSession, error)
}

// browserSession is one running browser.
type browserSession interface {
	NewPage(ctx context.Context) (browserPage, error)
	Close() error
}

// browserPage is one tab.
type browserPage interface {
	SetContent(ctx context.Context, htmlContent string, idle time.Duration) error
	PDF(opts *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Renderer        = (*rodRenderer)(nil)
	_ browserLauncher = rodLauncher{}
	_ browserSession  = (*rodSession)(nil)
	_ browserPage     = (*rodPage)(nil)
)

// rodRenderer launches a fresh browser for every render and releases it
// before returning.
type rodRenderer struct {
	launcher browserLauncher
}

// NewRenderer creates a Renderer that uses one headless Chrome per render.
// Rod downloads Chromium on first use if no browser is found.
func NewRenderer() Renderer {
	return &rodRenderer{launcher: rodLauncher{}}
}

// Render launches a browser, prints htmlContent and closes the browser.
func (r *rodRenderer) Render(ctx context.Context, htmlContent string, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := r.launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	return renderInSession(ctx, sess, htmlContent, opts)
}

// Close is a no-op: no browser outlives a render.
func (r *rodRenderer) Close() error {
	return nil
}

// renderInSession prints htmlContent in a new page of sess. The page is
// closed on every path; sess is left open.
func renderInSession(ctx context.Context, sess browserSession, htmlContent string, opts RenderOptions) ([]byte, error) {
	page, err := sess.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetContent(ctx, htmlContent, opts.NetworkIdle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// Paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// pageCloseTimeout bounds closing a tab.
const pageCloseTimeout = 5 * time.Second

// footerMarginExtra is added to the bottom margin to make room for the footer.
const footerMarginExtra = 0.25

// buildPDFOptions constructs proto.PagePrintToPDF from page settings and footer.
func buildPDFOptions(opts RenderOptions) *proto.PagePrintToPDF {
	page := opts.Page
	if page == nil {
		page = DefaultPageSettings()
	}

	dims, ok := paperSizes[strings.ToLower(page.Size)]
	if !ok {
		dims = paperSizes[PageSizeA4]
	}
	width, height := dims[0], dims[1]
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		width, height = height, width
	}

	margin := page.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	marginBottom := margin
	if opts.Footer != nil {
		marginBottom += footerMarginExtra
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if opts.Footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = buildFooterTemplate(opts.Footer, margin)
	}

	return pdfOpts
}

// buildFooterTemplate generates an HTML template for Chrome's native footer.
// Page numbers use Chrome's pageNumber and totalPages classes.
func buildFooterTemplate(f *Footer, margin float64) string {
	if f == nil {
		return "<span></span>"
	}

	var parts []string
	if f.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	if f.Text != "" {
		parts = append(parts, html.EscapeString(f.Text))
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	textAlign := "right"
	switch strings.ToLower(f.Position) {
	case "left":
		textAlign = "left"
	case "center":
		textAlign = "center"
	}

	return fmt.Sprintf(`<div style="font-size: 9px; font-family: sans-serif; color: #888; width: 100%%; text-align: %s; padding: 0 %.2fin;">%s</div>`,
		textAlign, margin, strings.Join(parts, " - "))
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodLauncher starts Chrome through rod's launcher.
type rodLauncher struct{}

// Launch starts and connects to a browser. Any process started before a
// failure is killed.
func (rodLauncher) Launch(ctx context.Context) (browserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		releaseLauncher(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		releaseLauncher(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodSession{browser: browser, launcher: l}, nil
}

// releaseLauncher kills the browser process tree started by l, if any, and
// removes its profile directory.
func releaseLauncher(l *launcher.Launcher) {
	pid := l.PID()
	if pid <= 0 {
		return
	}
	l.Kill()
	process.KillProcessGroup(pid)
	l.Cleanup()
}

// rodSession is a connected rod browser and the launcher that owns its process.
type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (s *rodSession) NewPage(ctx context.Context) (browserPage, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Close closes the browser, then makes sure its process is gone.
func (s *rodSession) Close() error {
	err := s.browser.Close()
	releaseLauncher(s.launcher)
	return err
}

type rodPage struct {
	page *rod.Page
}

// SetContent replaces the document and waits until the network has been
// quiet for idle, then for the load event.
func (p *rodPage) SetContent(ctx context.Context, htmlContent string, idle time.Duration) error {
	page := p.page.Context(ctx)

	var wait func()
	if idle > 0 {
		wait = page.WaitRequestIdle(idle, nil, nil, nil)
	}

	if err := page.SetDocumentContent(htmlContent); err != nil {
		return err
	}
	if wait != nil {
		wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) PDF(opts *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := p.page.PDF(opts)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return data, nil
}

// Close uses its own deadline so a page can be closed after the render
// context has expired.
func (p *rodPage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), pageCloseTimeout)
	defer cancel()
	return p.page.Context(ctx).Close()
}
