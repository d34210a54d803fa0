package llm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/metrics"
)

// ErrUnavailable signals that the model endpoint could not produce a
// completion (transport failure, non-2xx status, or an unusable body).
// Callers fall back to deterministic generation instead of failing.
var ErrUnavailable = errors.New("llm unavailable")

// Config holds the model endpoint settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the configured endpoint. The transport pins
// HTTP/1.1: some local inference gateways advertise h2 but then stall
// mid-stream, and a plain-HTTP/1.1 connection sidesteps that entirely.
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 200
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}

	transport := &http.Transport{
		ForceAttemptHTTP2: false,
		TLSNextProto:      map[string]func(string, *tls.Conn) http.RoundTripper{},
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Model returns the configured model identifier, recorded alongside
// AI-generated queries.
func (c *Client) Model() string { return c.config.Model }

// Complete sends one system+user prompt pair and returns the raw completion
// text. Any failure maps to ErrUnavailable.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(start, err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.recordFailure(start, fmt.Errorf("HTTP %d", resp.StatusCode))
		return "", fmt.Errorf("%w: HTTP %d from model endpoint", ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.recordFailure(start, err)
		return "", fmt.Errorf("%w: failed to parse response: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		c.recordFailure(start, errors.New("empty completion"))
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	metrics.LLMRequests.WithLabelValues("success").Inc()
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) recordFailure(start time.Time, err error) {
	metrics.LLMRequests.WithLabelValues("error").Inc()
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	c.logger.Warn("Model completion failed", zap.Error(err))
}
