package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tea-referrals/internal/domain"
	"tea-referrals/internal/metrics"
	"golang.org/x/time/rate"
)

// Message is one role-tagged turn of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client calls the chat completions API. Calls are best effort: the caller
// treats any error as "no answer" and falls back to deterministic replies.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// Options tune the client; zero values fall back to defaults.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	RatePerSec  float64
}

// NewClient builds a Client with a bounded request timeout and a client-side
// rate limit so a chatty front end cannot burn the API quota.
func NewClient(baseURL, apiKey string, opts Options) *Client {
	if opts.Model == "" {
		opts.Model = "gpt-3.5-turbo"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and returns the single text completion.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()
	reply, err := c.complete(ctx, messages)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordModelRequest(status, time.Since(start).Seconds())
	return reply, err
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", c.wrap(err)
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", c.wrap(fmt.Errorf("marshal request: %w", err))
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", c.wrap(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.wrap(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.wrap(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.wrap(fmt.Errorf("api error: %s (status %d)", strings.TrimSpace(string(respBody)), resp.StatusCode))
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", c.wrap(fmt.Errorf("unmarshal response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", c.wrap(fmt.Errorf("empty completion"))
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *Client) wrap(err error) error {
	return &domain.ExternalServiceError{Service: "openai", Err: err}
}
