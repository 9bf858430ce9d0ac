// Package ollamaclient is a small HTTP client for an Ollama-shaped
// generative endpoint: POST <endpoint>/api/generate and
// GET <endpoint>/api/tags for a pre-flight reachability probe.
package ollamaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Config struct {
	Endpoint    string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int

	// MaxConcurrent bounds in-flight requests to this endpoint, independent
	// of the pipeline's own worker parallelism.
	MaxConcurrent int
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
	sem  chan struct{}
}

func New(cfg Config, log *logger.Logger) *Client {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 4
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With("client", "ollama"),
		sem:  make(chan struct{}, cfg.MaxConcurrent),
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends prompt to <endpoint>/api/generate and returns the
// generated text. Retries on transport error, HTTP failure, or response-JSON
// parse error with linear backoff (1s * attempt_number), up to MaxRetries
// total attempts.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": c.cfg.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollamaclient: marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		text, err := c.doGenerate(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt == c.cfg.MaxRetries {
			break
		}
		c.log.Warn("ollama generate retrying",
			"attempt", attempt,
			"max_retries", c.cfg.MaxRetries,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return "", fmt.Errorf("ollamaclient: generate exhausted %d attempts: %w", c.cfg.MaxRetries, lastErr)
}

func (c *Client) doGenerate(ctx context.Context, url string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return out.Response, nil
}

// Available performs a pre-flight GET <endpoint>/api/tags reachability
// probe with a short deadline. A non-nil error (or a non-2xx status) means
// scoring is disabled for the run — a normal mode, not an error condition
// upstream of this call.
func (c *Client) Available(ctx context.Context) bool {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/tags"
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("ollama availability probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
