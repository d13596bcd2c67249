package finance

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
)

// MarketNewsRequest is the input of the market news tool.
type MarketNewsRequest struct {
	Query string `json:"query,omitempty" yaml:"query,omitempty" jsonschema:"title=Query,description=The market news query. Defaults to the overall stock market."`
}

// MarketNewsTool searches for the latest financial and market news.
type MarketNewsTool struct {
	tool

	baseURL    string
	httpClient *http.Client
}

var _ tools.Tool[MarketNewsRequest, Report] = (*MarketNewsTool)(nil)

// newMarketNews creates the market news tool. The TAVILY_API_KEY
// environment variable is read on each run, so the tool can be
// registered before the key is configured.
func newMarketNews(baseURL string, httpClient *http.Client) (*MarketNewsTool, error) {
	sc, err := schema.New(reflect.TypeOf(MarketNewsRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &MarketNewsTool{
		tool: tool{
			name:        MarketNewsToolName,
			description: "Get latest financial and market news. Use this when users ask about market news, financial news, or current events affecting the market.",
			funcParams:  sc.Parameters,
		},
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Run searches for news and formats the summary block.
func (t *MarketNewsTool) Run(ctx context.Context, req *MarketNewsRequest) (*Report, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = "stock market"
	}

	apikey := os.Getenv("TAVILY_API_KEY")
	if apikey == "" {
		return nil, errors.New("TAVILY_API_KEY is not set")
	}

	client := tavilygo.NewClient(apikey)
	if t.baseURL != "" {
		client.BaseURL = t.baseURL
	}
	if t.httpClient != nil {
		client.HTTPClient = t.httpClient
	}

	searchReq := tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	}
	searchResp, err := tavilygo.Search(client, searchReq)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error retrieving market news for %s", query)
	}

	if searchResp.Answer == "" {
		return &Report{
			Result: fmt.Sprintf("Could not retrieve news for '%s'. Please try a different search term.", query),
		}, nil
	}

	source := "Tavily"
	link := "N/A"
	if len(searchResp.Results) > 0 {
		if title := searchResp.Results[0].Title; title != "" {
			source = title
		}
		if u := searchResp.Results[0].URL; u != "" {
			link = u
		}
	}

	result := fmt.Sprintf("\n**Latest Financial News: %s**\n\n**Summary:**\n%s\n\n**Source:** %s\n**URL:** %s\n",
		query, searchResp.Answer, source, link)
	return &Report{Result: result}, nil
}

// Call implements the tools.ITool interface.
func (t *MarketNewsTool) Call(ctx context.Context, input string) (string, error) {
	var req MarketNewsRequest
	if input != "" {
		if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
			return "", chatmodel.ErrFailedUnmarshalInput
		}
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
