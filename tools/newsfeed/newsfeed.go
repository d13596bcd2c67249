// Package newsfeed provides news search tools backed by the Tavily
// search API: topic search, breaking news, category feeds, company
// news and a markdown news summary.
package newsfeed

import (
	"fmt"
	"strings"

	tavilyModels "github.com/diverged/tavily-go/models"
	"github.com/invopop/jsonschema"
)

// Tool names, as exposed to the agent.
const (
	SearchNewsToolName   = "search_news_articles"
	BreakingNewsToolName = "search_breaking_news"
	TechNewsToolName     = "search_tech_news"
	BusinessNewsToolName = "search_business_news"
	SportsNewsToolName   = "search_sports_news"
	ScienceNewsToolName  = "search_science_news"
	NewsSummaryToolName  = "create_news_summary"
	CompanyNewsToolName  = "search_company_news"
)

// DefaultMaxResults is used when a search request does not set a limit.
const DefaultMaxResults = 5

// MaxResults is the upper bound on requested articles.
const MaxResults = 20

// Report is the formatted output of a news tool.
type Report struct {
	Topic  string `json:"topic,omitempty" yaml:"topic,omitempty"`
	Result string `json:"result" yaml:"result"`
}

// GetContent implements the chatmodel.ContentProvider interface.
func (r *Report) GetContent() string {
	return r.Result
}

// tool carries the descriptor shared by all news tools.
type tool struct {
	name        string
	description string
	funcParams  *jsonschema.Schema
}

// Name returns the name of the tool.
func (t *tool) Name() string {
	return t.name
}

// Description returns the description of the tool.
func (t *tool) Description() string {
	return t.description
}

// Parameters returns the JSON schema of the tool input.
func (t *tool) Parameters() *jsonschema.Schema {
	return t.funcParams
}

// clampMaxResults applies the default and the upper bound.
func clampMaxResults(n int) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// formatArticles renders numbered article blocks, joined by a blank
// line.
func formatArticles(label string, results []tavilyModels.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		source := r.URL
		if source == "" {
			source = "No URL"
		}
		summary := r.Content
		if summary == "" {
			summary = "No summary"
		}
		blocks = append(blocks, fmt.Sprintf("\n**%s %d:**\n- **Title**: %s\n- **Source**: %s\n- **Summary**: %s\n",
			label, i+1, title, source, summary))
	}
	return strings.Join(blocks, "\n")
}
