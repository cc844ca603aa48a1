package pagesession

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/rohmanhakim/frontier-crawler/internal/logging"
)

// Browser owns the single headless-Chrome process a crawler run
// shares; every PageSession it hands out is a short-lived tab inside
// it.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserCancel context.CancelFunc
}

// NewBrowser launches (or, if binaryPath is empty, locates on PATH) a
// headless Chrome instance configured with userAgent.
func NewBrowser(binaryPath string, userAgent string) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if binaryPath != "" {
		opts = append(opts, chromedp.ExecPath(binaryPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser process to start now rather than lazily on the
	// first real navigation, so bootstrap failures (no Chrome binary)
	// surface before any root is admitted.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, newSessionError("launch", err, false)
	}

	return &Browser{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// NewSession opens a new tab bound to navigationTimeout as its per-Open
// budget.
func (b *Browser) NewSession(navigationTimeout time.Duration, logger logging.Logger) *ChromeSession {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	return &ChromeSession{
		ctx:     tabCtx,
		cancel:  tabCancel,
		timeout: navigationTimeout,
		logger:  logger,
	}
}

// Close tears down the whole browser process. Call once per run.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}
