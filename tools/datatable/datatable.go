// Package datatable answers natural language questions about CSV data
// with a fixed set of tabular reports: head, column info, summary
// statistics, missing values, uniqueness counts, correlation, group-by
// aggregation and top-N. The report is picked by scanning the question
// for keywords, in a fixed order.
package datatable

import (
	"github.com/invopop/jsonschema"
)

// Tool names, as exposed to the agent.
const (
	AnalyzeToolName    = "analyze_data_with_sql"
	StatusToolName     = "get_data_analysis_status"
	PreprocessToolName = "preprocess_csv_data"
)

// Report is the formatted output of a data analysis tool.
type Report struct {
	Query  string `json:"query,omitempty" yaml:"query,omitempty"`
	Result string `json:"result" yaml:"result"`
}

// GetContent implements the chatmodel.ContentProvider interface.
func (r *Report) GetContent() string {
	return r.Result
}

// tool carries the descriptor shared by all data analysis tools.
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
