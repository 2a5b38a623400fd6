package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/providers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
)

const maxErrorBodyBytes = 512

// Client implements the advice model provider against an OpenAI-compatible
// chat completion endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst)

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatEnvelope struct {
	Choices []chatChoice `json:"choices"`
}

// Complete sends the prompt to the completion endpoint and decodes the
// reply as JSON. The result is untrusted and must be normalized before
// use. A non-2xx status or an undecodable reply aborts the invocation.
func (c *Client) Complete(ctx context.Context, prompt string) (interface{}, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordModelMetric(ctx, c.model, 0, 0, err)
			return nil, err
		}
		recordModelRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: adviceSystemPrompt},
			{Role: "user", Content: prompt},
		},
		"temperature":     0.1,
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordModelMetric(ctx, c.model, 0, time.Since(start), err)
		return nil, fmt.Errorf("%w: %v", providers.ErrUpstreamModel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		recordModelMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d: %s", providers.ErrUpstreamModel, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope chatEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordModelMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("%w: %v", providers.ErrMalformedModelReply, err)
	}

	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		recordModelMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing message content"))
		return nil, fmt.Errorf("%w: missing message content", providers.ErrMalformedModelReply)
	}

	cleaned := stripCodeFences(envelope.Choices[0].Message.Content)

	var draft interface{}
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		recordModelMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("%w: %v", providers.ErrMalformedModelReply, err)
	}

	recordModelMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return draft, nil
}

// stripCodeFences cleans Markdown code blocks some models wrap around
// JSON replies.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type modelMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var modelMetricsInit = false
var modelMetricsInst modelMetrics

func ensureModelMetrics() {
	if modelMetricsInit {
		return
	}
	meter := otel.Meter("github.com/Piyushrathoree/puch.ai-hack-mcp/openai")

	requestCount, err := meter.Int64Counter(
		"ai.openai.request.count",
		metric.WithDescription("Number of OpenAI requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.openai.request.duration",
		metric.WithDescription("OpenAI request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.openai.request.errors",
		metric.WithDescription("Number of OpenAI request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"ai.openai.rate_limit.wait",
		metric.WithDescription("Time spent waiting for OpenAI rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	modelMetricsInst = modelMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	modelMetricsInit = true
}

func recordModelMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureModelMetrics()
	if !modelMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	modelMetricsInst.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	modelMetricsInst.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		modelMetricsInst.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordModelRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	ensureModelMetrics()
	if !modelMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	modelMetricsInst.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attrs...))
}
