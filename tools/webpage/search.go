package webpage

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// maxSearchResults bounds a web search.
const maxSearchResults = 5

// SearchRequest is the input of the web search tool.
type SearchRequest struct {
	Query string `json:"query" yaml:"query" jsonschema:"title=Query,description=The search query."`
}

// SearchWebTool runs a general web search.
type SearchWebTool struct {
	tool
	client *tavilysearch.Client
}

var _ tools.Tool[SearchRequest, Report] = (*SearchWebTool)(nil)

// newSearchWeb creates the web search tool.
func newSearchWeb(client *tavilysearch.Client) (*SearchWebTool, error) {
	sc, err := schema.New(reflect.TypeOf(SearchRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &SearchWebTool{
		tool: tool{
			name:        SearchWebToolName,
			description: "Search the web for information on any topic. Use this when users ask a general question that needs fresh information from the internet.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run searches the web and formats the numbered result list.
func (t *SearchWebTool) Run(ctx context.Context, req *SearchRequest) (*Report, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("invalid request: empty query")
	}

	results, err := t.client.Search(ctx, query, maxSearchResults)
	if err != nil {
		return nil, errors.WithMessage(err, "Error searching the web")
	}
	if len(results) == 0 {
		return &Report{
			Query:  query,
			Result: fmt.Sprintf("No results found for '%s'. Try a different query.", query),
		}, nil
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		link := r.URL
		if link == "" {
			link = "No URL"
		}
		snippet := r.Content
		if snippet == "" {
			snippet = "No snippet"
		}
		blocks = append(blocks, fmt.Sprintf("\n**Result %d:**\n- **Title**: %s\n- **URL**: %s\n- **Snippet**: %s\n",
			i+1, title, link, snippet))
	}
	result := fmt.Sprintf("Found %d results for '%s':\n", len(results), query) +
		strings.Join(blocks, "\n")
	return &Report{Query: query, Result: result}, nil
}

// Call implements the tools.ITool interface.
func (t *SearchWebTool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
