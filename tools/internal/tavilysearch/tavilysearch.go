// Package tavilysearch wraps the Tavily search API for the news and
// web tools.
package tavilysearch

import (
	"context"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
)

// Client runs Tavily searches. The zero value uses the public API
// endpoint with the default HTTP client.
type Client struct {
	// BaseURL overrides the search API base URL.
	BaseURL string
	// HTTPClient overrides the HTTP client.
	HTTPClient *http.Client
}

// Search runs a basic-depth search and returns the result list. The
// API key is read from the environment on each call, so tools can be
// registered before the key is configured.
func (c *Client) Search(_ context.Context, query string, maxResults int) ([]tavilyModels.SearchResult, error) {
	apikey := os.Getenv("TAVILY_API_KEY")
	if apikey == "" {
		return nil, errors.New("TAVILY_API_KEY is not set")
	}

	client := tavilygo.NewClient(apikey)
	if c.BaseURL != "" {
		client.BaseURL = c.BaseURL
	}
	if c.HTTPClient != nil {
		client.HTTPClient = c.HTTPClient
	}

	searchReq := tavilyModels.SearchRequest{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	}
	searchResp, err := tavilygo.Search(client, searchReq)
	if err != nil {
		return nil, err
	}
	return searchResp.Results, nil
}
