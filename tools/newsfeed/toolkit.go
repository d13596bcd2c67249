package newsfeed

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// Toolkit bundles the news tools over a shared search client.
type Toolkit struct {
	SearchNews   *SearchNewsTool
	BreakingNews *CategoryNewsTool
	TechNews     *CategoryNewsTool
	BusinessNews *CategoryNewsTool
	SportsNews   *CategoryNewsTool
	ScienceNews  *CategoryNewsTool
	NewsSummary  *NewsSummaryTool
	CompanyNews  *CompanyNewsTool
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the toolkit.
type Option func(*options)

// WithBaseURL overrides the search API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New creates the news toolkit.
func New(opts ...Option) (*Toolkit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	client := &tavilysearch.Client{
		BaseURL:    o.baseURL,
		HTTPClient: o.httpClient,
	}

	k := &Toolkit{}
	var err error
	if k.SearchNews, err = newSearchNews(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create news search tool")
	}
	for name, dst := range map[string]**CategoryNewsTool{
		BreakingNewsToolName: &k.BreakingNews,
		TechNewsToolName:     &k.TechNews,
		BusinessNewsToolName: &k.BusinessNews,
		SportsNewsToolName:   &k.SportsNews,
		ScienceNewsToolName:  &k.ScienceNews,
	} {
		if *dst, err = newCategoryNews(client, name); err != nil {
			return nil, errors.WithMessagef(err, "failed to create %s tool", name)
		}
	}
	if k.NewsSummary, err = newNewsSummary(k.SearchNews); err != nil {
		return nil, errors.WithMessage(err, "failed to create news summary tool")
	}
	if k.CompanyNews, err = newCompanyNews(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create company news tool")
	}
	return k, nil
}

// Tools returns the toolkit tools in registration order.
func (k *Toolkit) Tools() []tools.ITool {
	return []tools.ITool{
		k.SearchNews,
		k.BreakingNews,
		k.TechNews,
		k.BusinessNews,
		k.SportsNews,
		k.ScienceNews,
		k.NewsSummary,
		k.CompanyNews,
	}
}
