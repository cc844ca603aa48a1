package runcontroller_test

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
	"github.com/rohmanhakim/frontier-crawler/internal/config"
	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/logging"
	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
	"github.com/rohmanhakim/frontier-crawler/internal/ratelimit"
	"github.com/rohmanhakim/frontier-crawler/internal/robots"
	"github.com/rohmanhakim/frontier-crawler/internal/runcontroller"
	"github.com/rohmanhakim/frontier-crawler/internal/runlog"
	"github.com/rohmanhakim/frontier-crawler/internal/strategy"
)

type scriptedSession struct {
	response pagesession.Response
	links    []string
	openErr  error
}

type scriptedFactory struct {
	pages map[string]scriptedSession
}

func (f *scriptedFactory) New() pagesession.PageSession {
	return &scriptedPageSession{factory: f}
}

type scriptedPageSession struct {
	factory *scriptedFactory
	script  scriptedSession
}

func (s *scriptedPageSession) Open(ctx context.Context, target url.URL) (pagesession.Response, error) {
	s.script = s.factory.pages[target.String()]
	if s.script.openErr != nil {
		return pagesession.Response{}, s.script.openErr
	}
	return s.script.response, nil
}

func (s *scriptedPageSession) Stabilize(ctx context.Context) error { return nil }

func (s *scriptedPageSession) ExtractLinks(ctx context.Context) ([]url.URL, error) {
	out := make([]url.URL, 0, len(s.script.links))
	for _, raw := range s.script.links {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *scriptedPageSession) Content() string { return "" }
func (s *scriptedPageSession) Close() error    { return nil }

func TestController_Run_SingleCategorySinglePageRoot(t *testing.T) {
	root := "https://docs.example.com/"
	factory := &scriptedFactory{pages: map[string]scriptedSession{
		root: {
			response: pagesession.Response{StatusCode: 200, ContentType: "text/html"},
			links: []string{
				"https://docs.example.com/guide.pdf",
				"https://docs.example.com/index.html",
			},
		},
	}}

	frontierStore := frontier.NewMemoryStore()
	runLogStore := runlog.NewMemoryStore()
	settings := config.DefaultEngineSettings()
	settings.WithMinDomainSpacing(0)
	limiter := ratelimit.New(settings)
	logger := logging.New(io.Discard)

	dispatcher := strategy.New(
		frontierStore,
		runLogStore,
		factory.New,
		classifier.NewNoOp(),
		limiter,
		robots.NewAlwaysAllow(),
		logger,
	)

	controller := runcontroller.New(frontierStore, runLogStore, dispatcher, logger)

	rootURL, err := url.Parse(root)
	require.NoError(t, err)
	rootCfg, err := config.NewRootURLConfig(*rootURL, config.TypeSinglePage, []string{`\.pdf$`}, "", false, 0)
	require.NoError(t, err)
	categories := []config.CategoryConfig{
		config.NewCategoryConfig("docs", []config.RootURLConfig{rootCfg}),
	}

	results, err := controller.Run(context.Background(), categories)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, "docs", result.Category)
	assert.Equal(t, root, result.URL)
	assert.Equal(t, runlog.StatusCompleted, result.Status)
	assert.Equal(t, 1, result.Stats.TargetURLs)

	target, err := frontierStore.GetByURL(context.Background(), "https://docs.example.com/guide.pdf")
	require.NoError(t, err)
	assert.True(t, target.IsTarget)
}

func TestController_Run_PartiallyCompletedWhenSomeURLsFail(t *testing.T) {
	root := "https://docs.example.com/hub/"
	failing := "https://docs.example.com/broken/"
	factory := &scriptedFactory{pages: map[string]scriptedSession{
		root: {
			response: pagesession.Response{StatusCode: 200, ContentType: "text/html"},
			links: []string{
				"https://docs.example.com/hub/report.pdf",
				failing,
			},
		},
		failing: {
			openErr: assert.AnError,
		},
	}}

	frontierStore := frontier.NewMemoryStore()
	runLogStore := runlog.NewMemoryStore()
	settings := config.DefaultEngineSettings()
	settings.WithMinDomainSpacing(0)
	limiter := ratelimit.New(settings)
	logger := logging.New(io.Discard)

	dispatcher := strategy.New(
		frontierStore,
		runLogStore,
		factory.New,
		classifier.NewNoOp(),
		limiter,
		robots.NewAlwaysAllow(),
		logger,
	)

	controller := runcontroller.New(frontierStore, runLogStore, dispatcher, logger)

	rootURL, err := url.Parse(root)
	require.NoError(t, err)
	rootCfg, err := config.NewRootURLConfig(*rootURL, config.TypeSeedTarget, []string{`\.pdf$`}, `/broken/$`, true, 1)
	require.NoError(t, err)
	categories := []config.CategoryConfig{
		config.NewCategoryConfig("docs", []config.RootURLConfig{rootCfg}),
	}

	results, err := controller.Run(context.Background(), categories)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, runlog.StatusPartiallyCompleted, results[0].Status)
	assert.Equal(t, 1, results[0].Stats.TargetURLs)
	assert.Equal(t, 1, results[0].Stats.FailedURLs)
}
