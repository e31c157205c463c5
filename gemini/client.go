package gemini

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

	"legalaid-backend/logger"
	"legalaid-backend/metrics"
)

var (
	ErrNoAPIKey   = errors.New("GEMINI_API_KEY not set")
	ErrNoContent  = errors.New("API returned no text")
	ErrAPIStatus  = errors.New("API returned non-200 status")
	ErrBadPayload = errors.New("API returned an unexpected payload")
)

// CallRecorder counts collaborator call outcomes
type CallRecorder interface {
	CollaboratorCall(outcome string)
}

// Client calls the generateContent REST endpoint. It satisfies legal.TextGenerator.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	timeout    time.Duration
	recorder   CallRecorder
	log        *logger.Logger
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

func ClientWithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func ClientWithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func ClientWithRecorder(r CallRecorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

func ClientWithLogger(log *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(apiKey, apiURL string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		apiURL:  apiURL,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.With("component", "GeminiClient")
	return c
}

// Configured reports whether the client has an API key
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends a single prompt and returns candidates[0].content.parts[0].text.
// It makes exactly one attempt bounded by the client timeout; every failure is
// returned as an error and never retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	c.record(err)
	if err != nil {
		c.log.Warn("Gemini call failed", "error", err)
		return "", err
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d - %s", ErrAPIStatus, resp.StatusCode, truncate(string(raw), 500))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("%w: %s (code: %d)", ErrBadPayload, parsed.Error.Message, parsed.Error.Code)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 || parsed.Candidates[0].Content.Parts[0].Text == nil {
		return "", ErrNoContent
	}
	text := *parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

func (c *Client) record(err error) {
	if c.recorder == nil {
		return
	}
	switch {
	case err == nil:
		c.recorder.CollaboratorCall(metrics.OutcomeOK)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		c.recorder.CollaboratorCall(metrics.OutcomeTimeout)
	case errors.Is(err, ErrNoContent):
		c.recorder.CollaboratorCall(metrics.OutcomeEmpty)
	default:
		c.recorder.CollaboratorCall(metrics.OutcomeError)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
