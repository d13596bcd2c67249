// Package modelslab is a minimal client for the ModelsLab music
// generation API.
package modelslab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "modelslab")

const (
	DefaultBaseURL = "https://modelslab.com/api/v6"

	defaultPollInterval = 5 * time.Second
)

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the ModelsLab music generation API.
type Client struct {
	baseURL      string
	httpClient   Doer
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPollInterval overrides the delay between fetch polls while a
// generation is processing.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// New returns a new ModelsLab client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		httpClient:   http.DefaultClient,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	return c
}

// GenerateRequest is the music generation payload.
type GenerateRequest struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
	Base64 bool   `json:"base64"`
}

type fetchRequest struct {
	Key string `json:"key"`
}

// Response is returned by both the generation and the fetch endpoints.
type Response struct {
	Status      string   `json:"status"`
	ID          int64    `json:"id"`
	ETA         float64  `json:"eta"`
	Output      []string `json:"output"`
	FetchResult string   `json:"fetch_result"`
	Message     string   `json:"message"`
	// the API spells the error field both ways
	Messege string `json:"messege"`
}

// ErrorMessage returns the error text of a failed response.
func (r *Response) ErrorMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Messege
}

// Generate submits a music generation request.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Response, error) {
	return c.post(ctx, fmt.Sprintf("%s/voice/music_gen", c.baseURL), req)
}

// Fetch polls the result of a queued generation.
func (c *Client) Fetch(ctx context.Context, key string, id int64) (*Response, error) {
	return c.post(ctx, fmt.Sprintf("%s/voice/fetch/%d", c.baseURL, id), &fetchRequest{Key: key})
}

// GenerateAndWait submits a generation request and polls until it
// completes. It fails when the generation errors or the context is
// canceled.
func (c *Client) GenerateAndWait(ctx context.Context, key, prompt string) (*Response, error) {
	resp, err := c.Generate(ctx, &GenerateRequest{Key: key, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	for resp.Status == "processing" {
		logger.ContextKV(ctx, xlog.DEBUG, "status", resp.Status, "id", resp.ID, "eta", resp.ETA)
		select {
		case <-ctx.Done():
			return nil, errors.WithStack(ctx.Err())
		case <-time.After(c.pollInterval):
		}
		if resp, err = c.Fetch(ctx, key, resp.ID); err != nil {
			return nil, err
		}
	}

	if resp.Status != "success" {
		return nil, errors.Errorf("music generation failed: %s", resp.ErrorMessage())
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, u string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	if r.StatusCode != http.StatusOK {
		return nil, errors.Errorf("API returned unexpected status code: %d", r.StatusCode)
	}

	var response Response
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &response, nil
}
