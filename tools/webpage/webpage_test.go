package webpage_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/tools/webpage"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
<title>Example Research Lab</title>
<style>body { color: red; }</style>
<script>var tracked = true;</script>
</head>
<body>
<h1>Welcome</h1>
<p>Intro  paragraph with   extra spaces.</p>
<h2>Projects</h2>
<h3>Fusion</h3>
<h2>People</h2>
<h3>Advisors</h3>
<h3>Staff</h3>
<a href="/about">About us</a>
<a href="https://example.com/careers">Careers</a>
<a>No href here</a>
<a href="/contact">Contact</a>
</body>
</html>`

// newPageServer serves a fixed HTML page and records the last
// User-Agent header.
func newPageServer(t *testing.T, page string, ua *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*ua = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// newSearchServer serves a canned result list and records the incoming
// search requests.
func newSearchServer(t *testing.T, results string, captured *[]searchRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*captured = append(*captured, req)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"query": %q, "answer": "", "results": [%s], "response_time": 0.3}`, req.Query, results)
	}))
}

func TestScrape_Title(t *testing.T) {
	var ua string
	srv := newPageServer(t, fixturePage, &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "Get the TITLE please"})
	require.NoError(t, err)
	assert.Equal(t, "Example Research Lab", res.Result)
	assert.Equal(t, srv.URL, res.URL)
	assert.Equal(t, "Get the TITLE please", res.Prompt)
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", ua)

	// the title branch wins when several keywords appear
	res, err = k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "title and links"})
	require.NoError(t, err)
	assert.Equal(t, "Example Research Lab", res.Result)
}

func TestScrape_NoTitle(t *testing.T) {
	var ua string
	srv := newPageServer(t, "<html><body><p>hi</p></body></html>", &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "title"})
	require.NoError(t, err)
	assert.Equal(t, "No title found", res.Result)

	// an empty title element is not the missing-title sentinel
	empty := newPageServer(t, "<html><head><title></title></head><body></body></html>", &ua)
	defer empty.Close()

	res, err = k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: empty.URL, Prompt: "title"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Result)
}

func TestScrape_Headings(t *testing.T) {
	var ua string
	srv := newPageServer(t, fixturePage, &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "list the headings"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome", "Projects", "Fusion", "People", "Advisors"}, res.Result)
}

func TestScrape_Links(t *testing.T) {
	var ua string
	srv := newPageServer(t, fixturePage, &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "links"})
	require.NoError(t, err)
	assert.Equal(t, []string{"About us", "Careers", "Contact"}, res.Result)
}

func TestScrape_Text(t *testing.T) {
	var ua string
	srv := newPageServer(t, "<html><head><script>ignored()</script></head><body><p>First  line</p>\n<p>Second line</p></body></html>", &ua)
	defer srv.Close()

	k, err := webpage.New(webpage.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "what does the page say"})
	require.NoError(t, err)
	assert.Equal(t, "First line Second line", res.Result)

	full := newPageServer(t, fixturePage, &ua)
	defer full.Close()

	res, err = k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: full.URL, Prompt: ""})
	require.NoError(t, err)
	text, ok := res.Result.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Example Research Lab")
	assert.Contains(t, text, "Intro paragraph with extra spaces.")
	assert.NotContains(t, text, "tracked")
	assert.NotContains(t, text, "color: red")
}

func TestScrape_TextTruncates(t *testing.T) {
	var ua string
	srv := newPageServer(t, "<html><body><p>"+strings.Repeat("data ", 150)+"</p></body></html>", &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	res, err := k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "summarize"})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("data ", 100)+"...", res.Result)
}

func TestScrape_Errors(t *testing.T) {
	k, err := webpage.New()
	require.NoError(t, err)

	_, err = k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{Prompt: "title"})
	assert.EqualError(t, err, "invalid request: empty url")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err = k.Scrape.Run(context.Background(), &webpage.ScrapeRequest{URL: srv.URL, Prompt: "title"})
	assert.EqualError(t, err, "Error scraping website: page returned status code: 404")
}

func TestScrape_Call(t *testing.T) {
	var ua string
	srv := newPageServer(t, fixturePage, &ua)
	defer srv.Close()

	k, err := webpage.New()
	require.NoError(t, err)

	out, err := k.Scrape.Call(context.Background(), fmt.Sprintf(`{"url": %q, "prompt": "links"}`, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "About us\nCareers\nContact", out)

	_, err = k.Scrape.Call(context.Background(), "not json")
	assert.ErrorIs(t, err, chatmodel.ErrFailedUnmarshalInput)
}

func TestSearchWeb(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "fake-key")

	var captured []searchRequest
	srv := newSearchServer(t, `
		{"title": "Go generics guide", "url": "https://example.com/generics", "content": "Type parameters...", "score": 0.97},
		{"title": "", "url": "", "content": "", "score": 0.5}
	`, &captured)
	defer srv.Close()

	k, err := webpage.New(webpage.WithSearchBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := k.SearchWeb.Run(context.Background(), &webpage.SearchRequest{Query: "golang generics"})
	require.NoError(t, err)
	assert.Equal(t, "golang generics", res.Query)

	require.Len(t, captured, 1)
	assert.Equal(t, "golang generics", captured[0].Query)
	assert.Equal(t, 5, captured[0].MaxResults)

	exp := "Found 2 results for 'golang generics':\n" +
		"\n**Result 1:**\n- **Title**: Go generics guide\n- **URL**: https://example.com/generics\n- **Snippet**: Type parameters...\n" +
		"\n" +
		"\n**Result 2:**\n- **Title**: No title\n- **URL**: No URL\n- **Snippet**: No snippet\n"
	assert.Equal(t, exp, res.Result)

	_, err = k.SearchWeb.Run(context.Background(), &webpage.SearchRequest{})
	assert.EqualError(t, err, "invalid request: empty query")
}

func TestSearchWeb_NoResults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "fake-key")

	var captured []searchRequest
	srv := newSearchServer(t, "", &captured)
	defer srv.Close()

	k, err := webpage.New(webpage.WithSearchBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := k.SearchWeb.Run(context.Background(), &webpage.SearchRequest{Query: "xyzzy"})
	require.NoError(t, err)
	assert.Equal(t, "No results found for 'xyzzy'. Try a different query.", res.Result)
}

func TestSearchWeb_NoKey(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")

	k, err := webpage.New()
	require.NoError(t, err)

	_, err = k.SearchWeb.Run(context.Background(), &webpage.SearchRequest{Query: "anything"})
	require.Error(t, err)
	assert.Equal(t, "Error searching the web: TAVILY_API_KEY is not set", err.Error())
}

func TestSearchWeb_Call(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "fake-key")

	var captured []searchRequest
	srv := newSearchServer(t, `{"title": "T", "url": "https://example.com", "content": "C", "score": 0.9}`, &captured)
	defer srv.Close()

	k, err := webpage.New(webpage.WithSearchBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := k.SearchWeb.Call(context.Background(), `{"query": "chips"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 results for 'chips':")

	_, err = k.SearchWeb.Call(context.Background(), "not json")
	assert.ErrorIs(t, err, chatmodel.ErrFailedUnmarshalInput)
}

func TestToolkitTools(t *testing.T) {
	k, err := webpage.New()
	require.NoError(t, err)

	list := k.Tools()
	require.Len(t, list, 2)

	var names []string
	for _, tool := range list {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"scrape_website", "search_web"}, names)

	for _, tool := range list {
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Parameters())
	}
}
