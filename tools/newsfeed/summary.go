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
)

// SummaryRequest is the input of the news summary tool.
type SummaryRequest struct {
	Topic string `json:"topic" yaml:"topic" jsonschema:"title=Topic,description=The topic to summarize news for."`
}

// NewsSummaryTool builds a markdown news summary around the article
// search results for a topic.
type NewsSummaryTool struct {
	tool
	search *SearchNewsTool
}

var _ tools.Tool[SummaryRequest, Report] = (*NewsSummaryTool)(nil)

// newNewsSummary creates the news summary tool.
func newNewsSummary(search *SearchNewsTool) (*NewsSummaryTool, error) {
	sc, err := schema.New(reflect.TypeOf(SummaryRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &NewsSummaryTool{
		tool: tool{
			name:        NewsSummaryToolName,
			description: "Create a comprehensive news summary for a given topic. Use this when users want a summary of news, current events analysis, or news synthesis.",
			funcParams:  sc.Parameters,
		},
		search: search,
	}, nil
}

// Run searches for articles and wraps them in the summary skeleton.
func (t *NewsSummaryTool) Run(ctx context.Context, req *SummaryRequest) (*Report, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errors.New("invalid request: empty topic")
	}

	news, err := t.search.Run(ctx, &SearchRequest{Topic: topic, MaxResults: DefaultMaxResults})
	if err != nil {
		return nil, errors.WithMessage(err, "Error creating news summary")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n# News Summary: %s\n\n", topic)
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "Based on recent news coverage, here are the key developments regarding %s:\n\n", topic)
	b.WriteString(news.Result)
	b.WriteString("\n\n## Key Themes\n")
	fmt.Fprintf(&b, "- Recent developments in %s show significant activity and interest\n", topic)
	b.WriteString("- Multiple sources are covering various aspects of this topic\n")
	b.WriteString("- The coverage spans different perspectives and implications\n\n")
	b.WriteString("## Analysis\n")
	fmt.Fprintf(&b, "The news coverage indicates that %s continues to be a relevant and evolving subject with ongoing developments worth monitoring.\n\n", topic)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Summary generated on %s*\n", time.Now().Format("2006-01-02 15:04:05"))

	return &Report{Topic: topic, Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *NewsSummaryTool) Call(ctx context.Context, input string) (string, error) {
	var req SummaryRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
