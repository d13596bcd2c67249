package openaiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "openai")

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultChatModel = "gpt-4o"
	DefaultMaxTokens = 2 * 16384
)

// ErrEmptyResponse is returned when the OpenAI API returns an empty response.
var ErrEmptyResponse = errors.New("empty response")

// ToolType is the type of a tool.
type ToolType string

const (
	ToolTypeFunction ToolType = "function"
)

// Client is a client for the OpenAI API.
type Client struct {
	Model string

	token        string
	baseURL      string
	organization string
	httpClient   Doer

	ResponseFormat *schema.ResponseFormat
}

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns a new OpenAI client.
func New(model string, token string, baseURL string, organization string,
	httpClient Doer, responseFormat *schema.ResponseFormat,
) (*Client, error) {
	c := &Client{
		Model:          model,
		token:          token,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		organization:   organization,
		httpClient:     httpClient,
		ResponseFormat: responseFormat,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	return c, nil
}

// CreateChat creates chat request.
func (c *Client) CreateChat(ctx context.Context, r *ChatRequest) (*ChatCompletionResponse, error) {
	if r.Model == "" {
		if c.Model == "" {
			r.Model = DefaultChatModel
		} else {
			r.Model = c.Model
		}
	}
	resp, err := c.createChat(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

// CreateResponse creates a response using the Responses API.
func (c *Client) CreateResponse(ctx context.Context, r *responses.ResponseNewParams) (*responses.Response, error) {
	if r.Model == "" {
		if c.Model == "" {
			r.Model = DefaultChatModel
		} else {
			r.Model = c.Model
		}
	}
	if !r.MaxOutputTokens.Valid() {
		r.MaxOutputTokens = param.NewOpt(int64(DefaultMaxTokens))
	}
	return c.createResponse(ctx, r)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
}

func (c *Client) buildURL(suffix string) string {
	return fmt.Sprintf("%s%s", c.baseURL, suffix)
}

type errorMessage struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
