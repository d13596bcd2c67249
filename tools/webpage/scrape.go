package webpage

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
)

const (
	// Some sites reject requests without a browser-like agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// fetchTimeout bounds the page fetch.
	fetchTimeout = 10 * time.Second

	maxHeadings  = 5
	maxLinks     = 10
	maxTextChars = 500
)

// ScrapeRequest is the input of the website scraping tool.
type ScrapeRequest struct {
	URL    string `json:"url" yaml:"url" jsonschema:"title=URL,description=The URL of the page to scrape."`
	Prompt string `json:"prompt" yaml:"prompt" jsonschema:"title=Prompt,description=What to extract; mention title for the page title; headings for the top headings; or links for the anchor texts. Anything else returns the page text."`
}

// ScrapeTool fetches a page and extracts the part the prompt asks for.
type ScrapeTool struct {
	tool
	httpClient *http.Client
}

var _ tools.Tool[ScrapeRequest, Report] = (*ScrapeTool)(nil)

// newScrape creates the website scraping tool.
func newScrape(httpClient *http.Client) (*ScrapeTool, error) {
	sc, err := schema.New(reflect.TypeOf(ScrapeRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &ScrapeTool{
		tool: tool{
			name:        ScrapeToolName,
			description: "Scrape content from a web page. Use this when users want to read or extract content from a specific URL. The prompt selects the title, headings, links, or the page text.",
			funcParams:  sc.Parameters,
		},
		httpClient: httpClient,
	}, nil
}

// Run fetches the page and extracts per the prompt. Script and style
// subtrees are dropped before any text is read.
func (t *ScrapeTool) Run(ctx context.Context, req *ScrapeRequest) (*Report, error) {
	pageURL := strings.TrimSpace(req.URL)
	if pageURL == "" {
		return nil, errors.New("invalid request: empty url")
	}

	doc, err := t.fetch(ctx, pageURL)
	if err != nil {
		return nil, errors.WithMessage(err, "Error scraping website")
	}
	doc.Find("script, style").Remove()

	report := &Report{URL: pageURL, Prompt: req.Prompt}
	prompt := strings.ToLower(req.Prompt)
	switch {
	case strings.Contains(prompt, "title"):
		title := doc.Find("title").First()
		if title.Length() == 0 {
			report.Result = "No title found"
		} else {
			report.Result = title.Text()
		}
	case strings.Contains(prompt, "headings"):
		report.Result = collectText(doc.Find("h1, h2, h3"), maxHeadings)
	case strings.Contains(prompt, "links"):
		report.Result = collectText(doc.Find("a[href]"), maxLinks)
	default:
		report.Result = truncate(normalizeText(doc.Text()), maxTextChars)
	}
	return report, nil
}

// Call implements the tools.ITool interface.
func (t *ScrapeTool) Call(ctx context.Context, input string) (string, error) {
	var req ScrapeRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

func (t *ScrapeTool) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("page returned status code: %d", res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse page")
	}
	return doc, nil
}

// collectText returns the trimmed text of the first limit nodes, in
// document order. The list is never nil so it marshals as [].
func collectText(sel *goquery.Selection, limit int) []string {
	out := []string{}
	sel.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		out = append(out, strings.TrimSpace(s.Text()))
		return true
	})
	return out
}

// truncate clips s to limit runes with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
