// Package pagesession manages one short-lived headless-browser tab per
// URL being processed, covering navigation, dynamic-page
// stabilization, and DOM link extraction.
package pagesession

import (
	"context"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rohmanhakim/frontier-crawler/internal/extractor"
	"github.com/rohmanhakim/frontier-crawler/internal/logging"
)

// PageSession is the seam the strategy dispatcher drives: one
// navigate-stabilize-extract-close cycle per URL.
type PageSession interface {
	Open(ctx context.Context, target url.URL) (Response, error)
	Stabilize(ctx context.Context) error
	ExtractLinks(ctx context.Context) ([]url.URL, error)
	Content() string
	Close() error
}

// selectorWaitBudget bounds each individual stabilization selector
// probe.
const selectorWaitBudget = 2 * time.Second

// ChromeSession is the PageSession backed by a single chromedp tab.
type ChromeSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  logging.Logger

	currentURL url.URL
	closed     bool
	lastHTML   string
}

// Open navigates to target and reports its response. Exceeding the
// session's navigation timeout is surfaced as a recoverable
// SessionError, not a panic.
func (s *ChromeSession) Open(ctx context.Context, target url.URL) (Response, error) {
	if s.closed {
		return Response{}, ErrSessionClosed
	}

	navCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var statusCode int64 = 200
	var contentType string

	err := chromedp.Run(navCtx,
		chromedp.Navigate(target.String()),
		chromedp.Evaluate(`window.performance?.getEntriesByType?.('navigation')?.[0]?.responseStatus || 200`, &statusCode),
		chromedp.Evaluate(`document.contentType || ''`, &contentType),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return Response{}, newSessionError("open", ErrNavigationTimeout, true)
		}
		return Response{}, newSessionError("open", err, true)
	}

	s.currentURL = target
	return Response{StatusCode: int(statusCode), ContentType: contentType}, nil
}

// Stabilize runs the dynamic-page readiness and interaction sequence:
// readiness waits, lazy-load scroll, cookie-banner dismissal,
// load-more clicks, modal harvesting.
func (s *ChromeSession) Stabilize(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}

	if err := chromedp.Run(s.ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(1*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
	); err != nil {
		return newSessionError("stabilize:readiness", err, true)
	}

	s.dismissCookieBanner()
	s.clickLoadMore()
	s.harvestModals()

	return nil
}

// dismissCookieBanner clicks the first visible element matching
// extractor.CookieBannerSelectors. At most one dismissal attempt; a
// missing banner is not an error.
func (s *ChromeSession) dismissCookieBanner() {
	for _, sel := range extractor.CookieBannerSelectors {
		if s.tryClick(sel) {
			chromedp.Run(s.ctx, chromedp.Sleep(200*time.Millisecond))
			return
		}
	}
}

// clickLoadMore clicks a "load more" control up to
// extractor.MaxLoadMoreClicks times, waiting between clicks for newly
// lazy-loaded content to settle.
func (s *ChromeSession) clickLoadMore() {
	for i := 0; i < extractor.MaxLoadMoreClicks; i++ {
		clicked := false
		for _, sel := range extractor.LoadMoreSelectors {
			if s.tryClick(sel) {
				clicked = true
				break
			}
		}
		if !clicked {
			return
		}
		chromedp.Run(s.ctx, chromedp.Sleep(500*time.Millisecond))
	}
}

// harvestModals opens each modal trigger once, lets its contents
// contribute to the next ExtractLinks call (the modal's markup stays
// in the DOM until closed), then closes it so sequential extractions
// don't see stale overlays.
func (s *ChromeSession) harvestModals() {
	for _, sel := range extractor.ModalTriggerSelectors {
		if !s.tryClick(sel) {
			continue
		}

		waitCtx, cancel := context.WithTimeout(s.ctx, selectorWaitBudget)
		_ = chromedp.Run(waitCtx, chromedp.WaitVisible(extractor.ModalVisibleSelector, chromedp.ByQuery))
		cancel()

		closeCtx, closeCancel := context.WithTimeout(s.ctx, selectorWaitBudget)
		_ = chromedp.Run(closeCtx, chromedp.KeyEvent("\x1b"))
		closeCancel()
	}
}

// tryClick attempts to click the first node matching sel within
// selectorWaitBudget, reporting whether it found and clicked one.
func (s *ChromeSession) tryClick(sel string) bool {
	clickCtx, cancel := context.WithTimeout(s.ctx, selectorWaitBudget)
	defer cancel()

	err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.ByQuery))
	return err == nil
}

// ExtractLinks scans the stabilized DOM for anchors, onclick
// handlers and data-href/data-url attributes, then canonicalizes the
// results against the page's own URL.
func (s *ChromeSession) ExtractLinks(ctx context.Context) ([]url.URL, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, newSessionError("extract", err, true)
	}
	if html == "" {
		return nil, newSessionError("extract", ErrEmptyContent, true)
	}

	raw, err := extractor.ExtractLinks(html)
	if err != nil {
		return nil, newSessionError("extract", err, true)
	}

	s.lastHTML = html
	return ResolveLinks(raw, s.currentURL), nil
}

// Content returns the HTML captured by the most recent ExtractLinks
// call, for callers (the classifier) that need the raw page source
// rather than its resolved links.
func (s *ChromeSession) Content() string {
	return s.lastHTML
}

// Close releases the tab. Safe to call more than once.
func (s *ChromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return nil
}
