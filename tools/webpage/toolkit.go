package webpage

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// Toolkit bundles the web tools.
type Toolkit struct {
	Scrape    *ScrapeTool
	SearchWeb *SearchWebTool
}

type options struct {
	searchBaseURL string
	httpClient    *http.Client
}

// Option configures the toolkit.
type Option func(*options)

// WithSearchBaseURL overrides the search API base URL.
func WithSearchBaseURL(baseURL string) Option {
	return func(o *options) {
		o.searchBaseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used for page fetches and
// searches. Without it, page fetches use a client with a 10 second
// timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New creates the web toolkit.
func New(opts ...Option) (*Toolkit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	pageClient := o.httpClient
	if pageClient == nil {
		pageClient = &http.Client{Timeout: fetchTimeout}
	}
	searchClient := &tavilysearch.Client{
		BaseURL:    o.searchBaseURL,
		HTTPClient: o.httpClient,
	}

	k := &Toolkit{}
	var err error
	if k.Scrape, err = newScrape(pageClient); err != nil {
		return nil, errors.WithMessage(err, "failed to create scrape tool")
	}
	if k.SearchWeb, err = newSearchWeb(searchClient); err != nil {
		return nil, errors.WithMessage(err, "failed to create web search tool")
	}
	return k, nil
}

// Tools returns the toolkit tools in registration order.
func (k *Toolkit) Tools() []tools.ITool {
	return []tools.ITool{
		k.Scrape,
		k.SearchWeb,
	}
}
