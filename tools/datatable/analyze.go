package datatable

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/datatable/internal/csvframe"
)

// AnalyzeRequest is the input of the data analysis tool.
type AnalyzeRequest struct {
	DataContent  string `json:"data_content" yaml:"data_content" jsonschema:"title=Data Content,description=CSV data content as a string."`
	UserQuery    string `json:"user_query" yaml:"user_query" jsonschema:"title=User Query,description=The analysis question or request."`
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty" jsonschema:"title=OpenAI API Key,description=Optional OpenAI API key. Accepted for compatibility and unused by the analysis."`
}

// AnalyzeTool answers a free text question about CSV data with one of
// the fixed tabular reports.
type AnalyzeTool struct {
	tool
}

var _ tools.Tool[AnalyzeRequest, Report] = (*AnalyzeTool)(nil)

var digitsRE = regexp.MustCompile(`\d+`)

// newAnalyze creates the data analysis tool.
func newAnalyze() (*AnalyzeTool, error) {
	sc, err := schema.New(reflect.TypeOf(AnalyzeRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &AnalyzeTool{
		tool: tool{
			name:        AnalyzeToolName,
			description: "Analyze CSV data with basic SQL-like queries. Use this when users want to analyze data, perform data analysis, query datasets, generate insights from data, or create data reports.",
			funcParams:  sc.Parameters,
		},
	}, nil
}

// Run parses the CSV content and renders the report the query asks for.
func (t *AnalyzeTool) Run(_ context.Context, req *AnalyzeRequest) (*Report, error) {
	f, err := csvframe.Parse(req.DataContent)
	if err != nil {
		return nil, errors.WithMessage(err, "Error analyzing data")
	}
	return &Report{Query: req.UserQuery, Result: analyze(f, req.UserQuery)}, nil
}

// Call implements the tools.ITool interface.
func (t *AnalyzeTool) Call(ctx context.Context, input string) (string, error) {
	var req AnalyzeRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}

// containsAny reports whether any of the words occurs in q.
func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// analyze picks one report by scanning the lowercased query for keyword
// substrings. The branch order is significant: "missing" wins over
// "values", and "rows" or "show" alone fall through so queries like
// "show correlations" reach the later branches.
func analyze(f *csvframe.Frame, query string) string {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, "first", "head"):
		return firstRows(f, query)
	case containsAny(q, "columns", "column names", "data types"):
		return columnInfo(f)
	case containsAny(q, "summary", "statistics", "describe", "mean", "median", "std"):
		return describeReport(f)
	case containsAny(q, "missing", "null", "na"):
		return missingReport(f)
	case containsAny(q, "unique", "distinct", "values"):
		return uniqueReport(f)
	case containsAny(q, "correlation", "correlate"):
		return correlationReport(f)
	case containsAny(q, "group", "groupby", "count", "average", "mean"):
		return groupReport(f, query)
	case containsAny(q, "top", "highest", "maximum", "largest"):
		return topReport(f, query)
	default:
		return overviewReport(f)
	}
}

// firstRows renders the first N rows, N taken from the first integer in
// the query and clamped to the row count.
func firstRows(f *csvframe.Frame, query string) string {
	n := 5
	if m := digitsRE.FindString(query); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			n = v
		} else {
			n = f.NumRows()
		}
	}
	if n > f.NumRows() {
		n = f.NumRows()
	}
	return fmt.Sprintf("📊 First %d rows of the data:\n\n%s\n\n**Data Shape**: %d rows × %d columns",
		n, f.Head(n).TableString(), f.NumRows(), f.NumCols())
}

func columnInfo(f *csvframe.Frame) string {
	var lines []string
	for _, c := range f.Columns() {
		lines = append(lines, fmt.Sprintf("- **%s**: %s (%d null values)", c.Name, c.Kind, c.NullCount()))
	}
	return fmt.Sprintf("📋 Column Information:\n\n**Total Columns**: %d\n**Data Shape**: %d rows × %d columns\n\n**Column Details**:\n%s",
		f.NumCols(), f.NumRows(), f.NumCols(), strings.Join(lines, "\n"))
}

// statLabels are the describe table rows, in order.
var statLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

func describeReport(f *csvframe.Frame) string {
	nums := f.NumericColumns()
	if len(nums) == 0 {
		return "❌ No numeric columns found in the dataset for statistical analysis."
	}
	names := make([]string, len(nums))
	cells := make([][]string, len(nums))
	for j, c := range nums {
		names[j] = c.Name
		cells[j] = csvframe.FormatFloats(c.Stats().Values())
	}
	rows := make([][]string, len(statLabels))
	for i, label := range statLabels {
		row := []string{label}
		for j := range nums {
			row = append(row, cells[j][i])
		}
		rows[i] = row
	}
	table := csvframe.LabeledTable(append([]string{""}, names...), rows)
	return fmt.Sprintf("📈 Summary Statistics for Numeric Columns:\n\n**Numeric Columns**: %s\n\n%s",
		csvframe.FormatList(names), table)
}

func missingReport(f *csvframe.Frame) string {
	var cols []string
	var counts []int
	var pcts []float64
	total := 0
	for _, c := range f.Columns() {
		n := c.NullCount()
		total += n
		if n == 0 {
			continue
		}
		cols = append(cols, c.Name)
		counts = append(counts, n)
		pcts = append(pcts, float64(n)/float64(f.NumRows())*100)
	}
	if len(cols) == 0 {
		return "✅ No missing values found in the dataset!"
	}
	formatted := csvframe.FormatFloats(pcts)
	rows := make([][]string, len(cols))
	for i := range cols {
		rows[i] = []string{cols[i], strconv.Itoa(counts[i]), formatted[i]}
	}
	table := csvframe.Table([]string{"Column", "Missing Count", "Missing Percentage"}, rows)
	return fmt.Sprintf("🔍 Missing Values Analysis:\n\n%s\n\n**Total Missing Values**: %d", table, total)
}

func uniqueReport(f *csvframe.Frame) string {
	rows := make([][]string, 0, f.NumCols())
	for _, c := range f.Columns() {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Nunique())})
	}
	return fmt.Sprintf("🎯 Unique Values Count:\n\n%s", csvframe.LabeledTable(nil, rows))
}

func correlationReport(f *csvframe.Frame) string {
	nums := f.NumericColumns()
	if len(nums) < 2 {
		return "❌ Need at least 2 numeric columns for correlation analysis."
	}
	names := make([]string, len(nums))
	for i, c := range nums {
		names[i] = c.Name
	}
	// column major so each matrix column shares one precision
	cells := make([][]string, len(nums))
	for j := range nums {
		vals := make([]float64, len(nums))
		for i := range nums {
			vals[i] = csvframe.Correlation(nums[i], nums[j])
		}
		cells[j] = csvframe.FormatFloats(vals)
	}
	rows := make([][]string, len(nums))
	for i := range nums {
		row := []string{names[i]}
		for j := range nums {
			row = append(row, cells[j][i])
		}
		rows[i] = row
	}
	return "🔗 Correlation Matrix:\n\n" + csvframe.LabeledTable(append([]string{""}, names...), rows)
}

// groupReport finds a "by <column>" or "group <column>" word pair and
// aggregates by that column: sizes for count/sum queries, numeric means
// for mean/average queries, counts and means otherwise. The column
// match is case sensitive.
func groupReport(f *csvframe.Frame, query string) string {
	q := strings.ToLower(query)
	words := strings.Fields(query)
	for i, w := range words {
		lw := strings.ToLower(w)
		if (lw != "by" && lw != "group") || i+1 >= len(words) {
			continue
		}
		col := f.Column(words[i+1])
		if col == nil {
			continue
		}

		var body string
		switch {
		case containsAny(q, "count", "sum"):
			keys, groups := f.GroupBy(col)
			rows := make([][]string, len(keys))
			for k := range keys {
				rows[k] = []string{keys[k], strconv.Itoa(len(groups[k]))}
			}
			body = col.Name + "\n" + csvframe.LabeledTable(nil, rows)
		case containsAny(q, "mean", "average"):
			nums := f.NumericColumns()
			if len(nums) == 0 {
				return "❌ No numeric columns found for averaging."
			}
			body = groupMeans(f, col, nums, false)
		default:
			nums := f.NumericColumns()
			if len(nums) == 0 {
				return "❌ No numeric columns found for averaging."
			}
			body = groupMeans(f, col, nums, true)
		}
		return fmt.Sprintf("📊 Grouped Analysis by '%s':\n\n%s", col.Name, body)
	}
	return "❌ Could not identify grouping column. Please specify 'group by [column_name]'."
}

// groupMeans renders per-group means of the numeric columns, and with
// withCounts also the per-group non-missing counts, means rounded to
// two decimals.
func groupMeans(f *csvframe.Frame, col *csvframe.Column, nums []*csvframe.Column, withCounts bool) string {
	keys, groups := f.GroupBy(col)

	header := []string{col.Name}
	var columns [][]string
	for _, c := range nums {
		means := make([]float64, len(groups))
		counts := make([]string, len(groups))
		for k, rows := range groups {
			var sum float64
			n := 0
			for _, r := range rows {
				if !c.Nulls[r] {
					sum += c.Nums[r]
					n++
				}
			}
			if n == 0 {
				means[k] = math.NaN()
			} else {
				means[k] = sum / float64(n)
			}
			counts[k] = strconv.Itoa(n)
		}
		if withCounts {
			for k := range means {
				if !math.IsNaN(means[k]) {
					means[k] = math.Round(means[k]*100) / 100
				}
			}
			header = append(header, c.Name+"_count", c.Name+"_mean")
			columns = append(columns, counts, csvframe.FormatFloats(means))
		} else {
			header = append(header, c.Name)
			columns = append(columns, csvframe.FormatFloats(means))
		}
	}

	rows := make([][]string, len(keys))
	for k := range keys {
		row := []string{keys[k]}
		for _, cells := range columns {
			row = append(row, cells[k])
		}
		rows[k] = row
	}
	return csvframe.LabeledTable(header, rows)
}

// topReport renders the top N rows by the first column named in the
// query, sorted when that column is numeric; without a named column the
// first numeric column is used, and without any numeric column a plain
// head.
func topReport(f *csvframe.Frame, query string) string {
	q := strings.ToLower(query)
	n := 10
	if m := digitsRE.FindString(query); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			n = v
		}
	}
	for _, c := range f.Columns() {
		if !strings.Contains(q, strings.ToLower(c.Name)) {
			continue
		}
		sub := f.Head(n)
		if c.IsNumeric() {
			sub = f.NLargest(n, c)
		}
		return fmt.Sprintf("🏆 Top %d values by '%s':\n\n%s", n, c.Name, sub.TableString())
	}
	if nums := f.NumericColumns(); len(nums) > 0 {
		return fmt.Sprintf("🏆 Top %d values by '%s':\n\n%s", n, nums[0].Name, f.NLargest(n, nums[0]).TableString())
	}
	return fmt.Sprintf("🏆 Top %d rows:\n\n%s", n, f.Head(n).TableString())
}

func overviewReport(f *csvframe.Frame) string {
	return fmt.Sprintf(`📊 Data Overview:

**Dataset Shape**: %d rows × %d columns
**Columns**: %s
**Data Types**: %s
**Missing Values**: %d total

**Sample Data**:
%s

💡 **Try asking for:**
- "Show me the first 10 rows"
- "What are the column names and data types?"
- "Calculate summary statistics"
- "Find missing values"
- "Show correlations between numeric columns"
- "Group by [column] and calculate averages"
- "Show top 5 values by [column]"
`, f.NumRows(), f.NumCols(), csvframe.FormatList(f.ColumnNames()), f.DtypesString(), f.TotalNulls(), f.Head(5).TableString())
}
