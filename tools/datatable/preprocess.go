package datatable

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/datatable/internal/csvframe"
)

// PreprocessRequest is the input of the CSV preprocessing tool.
type PreprocessRequest struct {
	CSVContent string `json:"csv_content" yaml:"csv_content" jsonschema:"title=CSV Content,description=Raw CSV content as a string."`
}

// PreprocessTool cleans CSV data for analysis: date named columns are
// parsed as dates, text columns that hold numbers become numeric, and
// the result is re-emitted fully quoted with normalized missing cells.
type PreprocessTool struct {
	tool
}

var _ tools.Tool[PreprocessRequest, Report] = (*PreprocessTool)(nil)

// newPreprocess creates the CSV preprocessing tool.
func newPreprocess() (*PreprocessTool, error) {
	sc, err := schema.New(reflect.TypeOf(PreprocessRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &PreprocessTool{
		tool: tool{
			name:        PreprocessToolName,
			description: "Preprocess CSV data for better analysis. Use this to clean and prepare data before analysis.",
			funcParams:  sc.Parameters,
		},
	}, nil
}

// Run normalizes the CSV content and reports the converted shape along
// with the first 1000 characters of the output.
func (t *PreprocessTool) Run(_ context.Context, req *PreprocessRequest) (*Report, error) {
	f, err := csvframe.Parse(req.CSVContent)
	if err != nil {
		return nil, errors.WithMessage(err, "Error preprocessing data")
	}
	for _, c := range f.Columns() {
		if strings.Contains(strings.ToLower(c.Name), "date") {
			if c.Kind == csvframe.KindObject {
				c.ConvertTime()
			}
		} else {
			c.ConvertNumeric()
		}
	}

	out := f.CSVString()
	shown := out
	suffix := ""
	if runes := []rune(out); len(runes) > 1000 {
		shown = string(runes[:1000])
		suffix = "..."
	}
	result := fmt.Sprintf("✅ Data preprocessing completed!\n\n**Original columns**: %s\n**Data shape**: %d rows × %d columns\n**Data types**: %s\n\n**Preprocessed data**:\n```csv\n%s%s\n```",
		csvframe.FormatList(f.ColumnNames()), f.NumRows(), f.NumCols(), f.DtypesString(), shown, suffix)
	return &Report{Result: result}, nil
}

// Call implements the tools.ITool interface.
func (t *PreprocessTool) Call(ctx context.Context, input string) (string, error) {
	var req PreprocessRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
