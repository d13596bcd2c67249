package newsfeed

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// CategoryRequest is the input of the fixed-category news tools.
// The tools take no arguments.
type CategoryRequest struct{}

// category describes one fixed news feed.
type category struct {
	toolName    string
	description string
	query       string
	headerf     string // header format, takes the date
	dateLayout  string
	label       string // per-article label
	empty       string
	errLabel    string
}

var categories = map[string]category{
	BreakingNewsToolName: {
		toolName:    BreakingNewsToolName,
		description: "Search for breaking news and current events. Use this when users ask for breaking news, current events, or what's happening now.",
		query:       "breaking news today",
		headerf:     "**Breaking News - %s**\n",
		dateLayout:  "2006-01-02 15:04",
		label:       "Breaking News",
		empty:       "No breaking news found at the moment.",
		errLabel:    "breaking news",
	},
	TechNewsToolName: {
		toolName:    TechNewsToolName,
		description: "Search for technology news and developments. Use this when users ask for tech news, technology updates, or IT industry news.",
		query:       "technology news today",
		headerf:     "**Technology News - %s**\n",
		dateLayout:  "2006-01-02",
		label:       "Tech News",
		empty:       "No technology news found at the moment.",
		errLabel:    "tech news",
	},
	BusinessNewsToolName: {
		toolName:    BusinessNewsToolName,
		description: "Search for business and financial news. Use this when users ask for business news, financial updates, or market news.",
		query:       "business news today",
		headerf:     "**Business News - %s**\n",
		dateLayout:  "2006-01-02",
		label:       "Business News",
		empty:       "No business news found at the moment.",
		errLabel:    "business news",
	},
	SportsNewsToolName: {
		toolName:    SportsNewsToolName,
		description: "Search for sports news and updates. Use this when users ask for sports news, game results, or athletic events.",
		query:       "sports news today",
		headerf:     "**Sports News - %s**\n",
		dateLayout:  "2006-01-02",
		label:       "Sports News",
		empty:       "No sports news found at the moment.",
		errLabel:    "sports news",
	},
	ScienceNewsToolName: {
		toolName:    ScienceNewsToolName,
		description: "Search for science and research news. Use this when users ask for scientific discoveries, research updates, or academic news.",
		query:       "science news today",
		headerf:     "**Science News - %s**\n",
		dateLayout:  "2006-01-02",
		label:       "Science News",
		empty:       "No science news found at the moment.",
		errLabel:    "science news",
	},
}

// CategoryNewsTool serves one fixed news feed, such as breaking or
// technology news.
type CategoryNewsTool struct {
	tool
	client *tavilysearch.Client
	cat    category
}

var _ tools.Tool[CategoryRequest, Report] = (*CategoryNewsTool)(nil)

// newCategoryNews creates a fixed-category news tool.
func newCategoryNews(client *tavilysearch.Client, toolName string) (*CategoryNewsTool, error) {
	cat, ok := categories[toolName]
	if !ok {
		return nil, errors.Errorf("unknown news category: %s", toolName)
	}
	sc, err := schema.New(reflect.TypeOf(CategoryRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &CategoryNewsTool{
		tool: tool{
			name:        cat.toolName,
			description: cat.description,
			funcParams:  sc.Parameters,
		},
		client: client,
		cat:    cat,
	}, nil
}

// Run fetches the feed and formats the dated article list.
func (t *CategoryNewsTool) Run(ctx context.Context, _ *CategoryRequest) (*Report, error) {
	results, err := t.client.Search(ctx, t.cat.query, DefaultMaxResults)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error searching for %s", t.cat.errLabel)
	}
	if len(results) == 0 {
		return &Report{Result: t.cat.empty}, nil
	}

	header := fmt.Sprintf(t.cat.headerf, time.Now().Format(t.cat.dateLayout))
	return &Report{Result: header + formatArticles(t.cat.label, results)}, nil
}

// Call implements the tools.ITool interface.
func (t *CategoryNewsTool) Call(ctx context.Context, input string) (string, error) {
	var req CategoryRequest
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
