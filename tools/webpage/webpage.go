// Package webpage provides web tools: a prompt-driven page scraper and
// a general web search backed by the Tavily search API.
package webpage

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Tool names, as exposed to the agent.
const (
	ScrapeToolName    = "scrape_website"
	SearchWebToolName = "search_web"
)

// Report is the formatted output of a web tool.
type Report struct {
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Query  string `json:"query,omitempty" yaml:"query,omitempty"`
	// Result is a string for the title, page-text and search prompts,
	// and a string list for the headings and links prompts.
	Result any `json:"result" yaml:"result"`
}

// GetContent implements the chatmodel.ContentProvider interface.
func (r *Report) GetContent() string {
	switch v := r.Result.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	default:
		return fmt.Sprint(v)
	}
}

// tool carries the descriptor shared by the web tools.
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

// normalizeText collapses page text into single-space-separated
// phrases, dropping blank lines and double-space runs.
func normalizeText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var chunks []string
	for _, line := range strings.Split(raw, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, " ")
}
