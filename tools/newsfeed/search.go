package newsfeed

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// SearchRequest is the input of the news search tool.
type SearchRequest struct {
	Topic      string `json:"topic" yaml:"topic" jsonschema:"title=Topic,description=The topic to search news for."`
	MaxResults int    `json:"max_results,omitempty" yaml:"max_results,omitempty" jsonschema:"title=Max Results,description=The number of articles to return; between 1 and 20; defaults to 5."`
}

// SearchNewsTool searches for recent news articles on a topic. The
// query is scoped to the current month.
type SearchNewsTool struct {
	tool
	client *tavilysearch.Client
}

var _ tools.Tool[SearchRequest, Report] = (*SearchNewsTool)(nil)

// newSearchNews creates the news search tool.
func newSearchNews(client *tavilysearch.Client) (*SearchNewsTool, error) {
	sc, err := schema.New(reflect.TypeOf(SearchRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &SearchNewsTool{
		tool: tool{
			name:        SearchNewsToolName,
			description: "Search for recent news articles on a given topic. Use this when users ask for news, current events, or recent developments about a topic.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run searches for articles and formats the numbered list.
func (t *SearchNewsTool) Run(ctx context.Context, req *SearchRequest) (*Report, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errors.New("invalid request: empty topic")
	}

	query := fmt.Sprintf("%s news %s", topic, time.Now().Format("2006-01"))
	results, err := t.client.Search(ctx, query, clampMaxResults(req.MaxResults))
	if err != nil {
		return nil, errors.WithMessage(err, "Error searching for news")
	}
	if len(results) == 0 {
		return &Report{
			Topic:  topic,
			Result: fmt.Sprintf("No recent news found for '%s'. Try a different search term or check spelling.", topic),
		}, nil
	}

	result := fmt.Sprintf("Found %d recent news articles about '%s':\n", len(results), topic) +
		formatArticles("Article", results)
	return &Report{Topic: topic, Result: result}, nil
}

// Call implements the tools.ITool interface.
func (t *SearchNewsTool) Call(ctx context.Context, input string) (string, error) {
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
