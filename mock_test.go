package moviepdf

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// ---------------------------------------------------------------------------
// Browser fakes
// ---------------------------------------------------------------------------

// fakeBrowsers counts launched and closed sessions and pages so tests can
// assert that nothing stays open.
type fakeBrowsers struct {
	launchErr  error
	newPageErr error
	contentErr error
	pdfErr     error
	pdf        []byte
	launchWait time.Duration

	launched     atomic.Int32
	closed       atomic.Int32
	pagesOpened  atomic.Int32
	pagesClosed  atomic.Int32
	lastOptions  atomic.Pointer[proto.PagePrintToPDF]
	lastIdle     atomic.Int64
	lastContent  atomic.Pointer[string]
	maxOpen      atomic.Int32
	launchFailed atomic.Int32
}

func (f *fakeBrowsers) open() int32 {
	return f.launched.Load() - f.closed.Load()
}

func (f *fakeBrowsers) Launch(ctx context.Context) (browserSession, error) {
	if f.launchWait > 0 {
		time.Sleep(f.launchWait)
	}
	if f.launchErr != nil {
		f.launchFailed.Add(1)
		return nil, f.launchErr
	}
	f.launched.Add(1)
	for {
		cur := f.maxOpen.Load()
		n := f.open()
		if n <= cur || f.maxOpen.CompareAndSwap(cur, n) {
			break
		}
	}
	return &fakeSession{owner: f}, nil
}

type fakeSession struct {
	owner  *fakeBrowsers
	once   sync.Once
	closed bool
}

func (s *fakeSession) NewPage(ctx context.Context) (browserPage, error) {
	if s.owner.newPageErr != nil {
		return nil, s.owner.newPageErr
	}
	s.owner.pagesOpened.Add(1)
	return &fakePage{owner: s.owner}, nil
}

func (s *fakeSession) Close() error {
	s.once.Do(func() {
		s.closed = true
		s.owner.closed.Add(1)
	})
	return nil
}

type fakePage struct {
	owner *fakeBrowsers
}

func (p *fakePage) SetContent(ctx context.Context, htmlContent string, idle time.Duration) error {
	p.owner.lastIdle.Store(int64(idle))
	p.owner.lastContent.Store(&htmlContent)
	return p.owner.contentErr
}

func (p *fakePage) PDF(opts *proto.PagePrintToPDF) ([]byte, error) {
	p.owner.lastOptions.Store(opts)
	if p.owner.pdfErr != nil {
		return nil, p.owner.pdfErr
	}
	if p.owner.pdf != nil {
		return p.owner.pdf, nil
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (p *fakePage) Close() error {
	p.owner.pagesClosed.Add(1)
	return nil
}

// ---------------------------------------------------------------------------
// Service fakes
// ---------------------------------------------------------------------------

// mockRenderer implements Renderer for Service tests.
type mockRenderer struct {
	mu       sync.Mutex
	Result   []byte
	Err      error
	Calls    int
	LastHTML string
	LastOpts RenderOptions
	Closed   bool
	Deadline bool
}

func (m *mockRenderer) Render(ctx context.Context, htmlContent string, opts RenderOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastHTML = htmlContent
	m.LastOpts = opts
	_, m.Deadline = ctx.Deadline()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockRenderer) Close() error {
	m.Closed = true
	return nil
}

// mockSource implements MovieSource with canned pages and movies.
type mockSource struct {
	mu         sync.Mutex
	pages      map[int]*MoviePage
	movies     map[int]*Movie
	failPage   int
	err        error
	pageCalls  []int
	movieCalls []int
}

var errUpstreamDown = errors.New("upstream down")

func (m *mockSource) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageCalls = append(m.pageCalls, page)
	if m.err != nil || page == m.failPage {
		return nil, errUpstreamDown
	}
	p, ok := m.pages[page]
	if !ok {
		return &MoviePage{Page: page}, nil
	}
	return p, nil
}

func (m *mockSource) MovieByID(ctx context.Context, id int) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movieCalls = append(m.movieCalls, id)
	if m.err != nil {
		return nil, m.err
	}
	mv, ok := m.movies[id]
	if !ok {
		return nil, errUpstreamDown
	}
	return mv, nil
}

// mockLoader implements assets.TemplateLoader from an in-memory map.
type mockLoader struct {
	templates map[string]string
	err       error
}

func (m *mockLoader) LoadTemplate(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	t, ok := m.templates[name]
	if !ok {
		return "", errors.New("template not found: " + name)
	}
	return t, nil
}
