package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrCircuitBreakerOpen is returned while the adapter is in its
// degraded window after repeated upstream failures, so a flaky
// classifier cannot stall every AI-dependent depth in the run.
var ErrCircuitBreakerOpen = errors.New("classifier: circuit breaker is open")

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
	defaultRequestTimeout   = 20 * time.Second
)

// OpenAI is the go-openai-backed Classifier adapter. A rate.Limiter
// caps the adapter's own outbound call rate, and a small circuit
// breaker opens after consecutive failures so a dying classifier
// degrades instead of adding latency to every remaining page at its
// depth.
type OpenAI struct {
	client      *openai.Client
	model       string
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	mu                  sync.Mutex
	consecutiveFailures int
	circuitOpenUntil    time.Time
}

// NewOpenAI builds an adapter for apiKey/model. requestsPerSecond
// bounds the adapter's own outbound call rate.
func NewOpenAI(apiKey string, model string, requestsPerSecond float64, logger *zerolog.Logger) *OpenAI {
	return NewOpenAIWithClient(openai.NewClient(apiKey), model, requestsPerSecond, logger)
}

// NewOpenAIWithClient builds an adapter around an already-configured
// go-openai client, so tests can point it at a local server.
func NewOpenAIWithClient(client *openai.Client, model string, requestsPerSecond float64, logger *zerolog.Logger) *OpenAI {
	return &OpenAI{
		client:      client,
		model:       model,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

const classifyPrompt = `You classify links discovered on a web page for a document-discovery crawler.
Given the page URL and its HTML content, return a JSON object {"items": [...]}
where each item is {"url": string, "url_description": string, "extension": string,
"pagination": bool, "url_category": "target" | "seed"}.
"target" means the link points directly at a document of interest (e.g. a PDF or
office document). "seed" means the link points at another page worth crawling
further. Set "pagination" to true for links that only page through a listing
(next/previous page controls) rather than discovering new content; such items
are discarded by the caller. Only include links that actually appear in the
page content.`

// Classify asks the model to partition the links on pageContent. On
// any upstream fault it returns an error; callers are expected to
// treat that as an empty Result plus a warning, degrading gracefully
// rather than failing the whole page.
func (c *OpenAI) Classify(ctx context.Context, pageURL string, pageContent string, metadata map[string]string) (Result, error) {
	if err := c.checkCircuit(); err != nil {
		return Result{}, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("classifier: rate limiter: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Page URL: %s\n\nHTML:\n%s", pageURL, truncate(pageContent, 20000))},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.recordFailure()
		return Result{}, fmt.Errorf("classifier: chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.recordFailure()
		return Result{}, errors.New("classifier: no choices returned")
	}

	var parsed struct {
		Items []item `json:"items"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		c.recordFailure()
		return Result{}, fmt.Errorf("classifier: decode response: %w", err)
	}

	c.recordSuccess()
	return partition(parsed.Items), nil
}

func (c *OpenAI) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitBreakerOpen, c.circuitOpenUntil)
	}
	return nil
}

func (c *OpenAI) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures = 0
}

func (c *OpenAI) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		if c.logger != nil {
			c.logger.Warn().
				Int("consecutive_failures", c.consecutiveFailures).
				Time("open_until", c.circuitOpenUntil).
				Msg("classifier circuit breaker opened")
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
