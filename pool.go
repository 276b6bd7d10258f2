package moviepdf

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// RendererPool keeps up to n browsers alive between renders.
// Browsers are launched lazily on first use. A browser whose render failed
// is closed, and the next render on that slot launches a new one.
type RendererPool struct {
	size     int
	launcher browserLauncher
	sem      chan *pooledRenderer
	mu       sync.Mutex
	created  int
	closed   bool
}

var _ Renderer = (*RendererPool)(nil)

// NewRendererPool creates a pool with capacity for n browsers.
func NewRendererPool(n int) *RendererPool {
	return newRendererPool(n, rodLauncher{})
}

func newRendererPool(n int, l browserLauncher) *RendererPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &RendererPool{
		size:     n,
		launcher: l,
		sem:      make(chan *pooledRenderer, n),
	}
}

// Render prints htmlContent using a pooled browser.
// Blocks while all browsers are busy, until ctx is done.
func (p *RendererPool) Render(ctx context.Context, htmlContent string, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(w)

	return w.render(ctx, htmlContent, opts)
}

// acquire gets a worker, creating one if the pool is not full.
func (p *RendererPool) acquire(ctx context.Context) (*pooledRenderer, error) {
	// Try to get an idle worker (non-blocking)
	select {
	case w, ok := <-p.sem:
		if !ok {
			return nil, ErrRendererClosed
		}
		return w, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrRendererClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		return &pooledRenderer{launcher: p.launcher}, nil
	}
	p.mu.Unlock()

	select {
	case w, ok := <-p.sem:
		if !ok {
			return nil, ErrRendererClosed
		}
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a worker to the pool, or closes its browser if the pool
// has been closed. The channel never fills: at most size workers exist.
func (p *RendererPool) release(w *pooledRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = w.reset()
		return
	}
	p.sem <- w
}

// Close releases every idle browser. Browsers busy in a render are released
// when that render returns.
// Returns an aggregated error if multiple browsers fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	p.mu.Unlock()

	var errs []error
	for w := range p.sem {
		if err := w.reset(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// pooledRenderer owns at most one browser session across renders.
type pooledRenderer struct {
	launcher browserLauncher
	session  browserSession
}

func (r *pooledRenderer) render(ctx context.Context, htmlContent string, opts RenderOptions) ([]byte, error) {
	if r.session == nil {
		sess, err := r.launcher.Launch(ctx)
		if err != nil {
			return nil, err
		}
		r.session = sess
	}

	data, err := renderInSession(ctx, r.session, htmlContent, opts)
	if err != nil {
		_ = r.reset()
		return nil, err
	}
	return data, nil
}

// reset closes the browser, if any.
func (r *pooledRenderer) reset() error {
	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	return err
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
