package ingest

import (
	"context"
	"fmt"

	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/graph"
)

// fakeBrowser serves canned HTML by URL and selector. After a Click, a
// selector is first looked up as "<clicked> <selector>".
type fakeBrowser struct {
	pages    map[string]map[string]string
	visitErr map[string]error
	title    string

	visits   []browser.Visit
	sessions int
	closed   int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		pages:    make(map[string]map[string]string),
		visitErr: make(map[string]error),
	}
}

func (b *fakeBrowser) page(url string, selectorHTML ...string) {
	p := make(map[string]string)
	for i := 0; i+1 < len(selectorHTML); i += 2 {
		p[selectorHTML[i]] = selectorHTML[i+1]
	}
	b.pages[url] = p
}

func (b *fakeBrowser) visited() []string {
	urls := make([]string, 0, len(b.visits))
	for _, v := range b.visits {
		urls = append(urls, v.URL)
	}
	return urls
}

func (b *fakeBrowser) NewSession(context.Context) (browser.Session, error) {
	b.sessions++
	return &fakeSession{b: b}, nil
}

type fakeSession struct {
	b   *fakeBrowser
	url string
	tab string
}

func (s *fakeSession) Visit(_ context.Context, v browser.Visit) error {
	s.b.visits = append(s.b.visits, v)
	if err := s.b.visitErr[v.URL]; err != nil {
		return err
	}
	s.url, s.tab = v.URL, ""
	return nil
}

func (s *fakeSession) HTML(_ context.Context, selector string) (string, error) {
	page := s.b.pages[s.url]
	if s.tab != "" {
		if html, ok := page[s.tab+" "+selector]; ok {
			return html, nil
		}
	}
	html, ok := page[selector]
	if !ok {
		return "", fmt.Errorf("%w: element %q not found", browser.ErrLoadTimeout, selector)
	}
	return html, nil
}

func (s *fakeSession) Click(_ context.Context, selector string) error {
	s.tab = selector
	return nil
}

func (s *fakeSession) Title(context.Context) (string, error) { return s.b.title, nil }

func (s *fakeSession) Close() error {
	s.b.closed++
	return nil
}

type fakeWriter struct {
	batches [][]graph.Statement
	err     error
}

func (w *fakeWriter) WriteBatch(_ context.Context, stmts []graph.Statement) (graph.BatchStats, error) {
	if w.err != nil {
		return graph.BatchStats{}, w.err
	}
	w.batches = append(w.batches, stmts)
	return graph.BatchStats{Statements: len(stmts)}, nil
}

type fakeRecorder struct {
	outcomes []*Outcome
	errs     []error
}

func (r *fakeRecorder) Record(_ context.Context, o *Outcome, runErr error) error {
	r.outcomes = append(r.outcomes, o)
	r.errs = append(r.errs, runErr)
	return nil
}

type fixture struct {
	browser  *fakeBrowser
	writer   *fakeWriter
	recorder *fakeRecorder
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		browser:  newFakeBrowser(),
		writer:   &fakeWriter{},
		recorder: &fakeRecorder{},
	}
	f.svc = NewService(f.writer, f.browser, nil, WithRecorder(f.recorder))
	return f
}
