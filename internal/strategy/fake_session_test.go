package strategy_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
)

// fakePage is one scripted response a fakeSession.Open can return,
// keyed by the exact URL string requested.
type fakePage struct {
	response pagesession.Response
	links    []string
	content  string
	openErr  error
}

// fakeSessionFactory hands out a fresh fakeSession per call, each
// scripted from the same shared page table, and records every URL
// opened across every session it produced.
type fakeSessionFactory struct {
	mu      sync.Mutex
	pages   map[string]fakePage
	opened  []string
	deflt   fakePage
	hasDflt bool
}

func newFakeSessionFactory(pages map[string]fakePage) *fakeSessionFactory {
	return &fakeSessionFactory{pages: pages}
}

func (f *fakeSessionFactory) New() pagesession.PageSession {
	return &fakeSession{factory: f}
}

func (f *fakeSessionFactory) openedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.opened))
	copy(out, f.opened)
	return out
}

type fakeSession struct {
	factory *fakeSessionFactory
	page    fakePage
	closed  bool
}

func (s *fakeSession) Open(ctx context.Context, target url.URL) (pagesession.Response, error) {
	s.factory.mu.Lock()
	s.factory.opened = append(s.factory.opened, target.String())
	page, ok := s.factory.pages[target.String()]
	if !ok {
		page = s.factory.deflt
	}
	s.factory.mu.Unlock()

	s.page = page
	if page.openErr != nil {
		return pagesession.Response{}, page.openErr
	}
	return page.response, nil
}

func (s *fakeSession) Stabilize(ctx context.Context) error {
	return nil
}

func (s *fakeSession) ExtractLinks(ctx context.Context) ([]url.URL, error) {
	out := make([]url.URL, 0, len(s.page.links))
	for _, raw := range s.page.links {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse fixture link %q: %w", raw, err)
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeSession) Content() string {
	return s.page.content
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}
