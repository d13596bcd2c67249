package datatable

import (
	"context"
	"os"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
)

// StatusRequest is the input of the status tool. The tool takes no
// arguments.
type StatusRequest struct{}

// StatusTool reports whether data analysis is configured.
type StatusTool struct {
	tool
}

var _ tools.Tool[StatusRequest, Report] = (*StatusTool)(nil)

// newStatus creates the data analysis status tool.
func newStatus() (*StatusTool, error) {
	sc, err := schema.New(reflect.TypeOf(StatusRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &StatusTool{
		tool: tool{
			name:        StatusToolName,
			description: "Check the status of data analysis capabilities and API key availability. Use this to verify if data analysis is properly configured.",
			funcParams:  sc.Parameters,
		},
	}, nil
}

// Run reports the OpenAI key presence. The key enables the agent that
// drives the analysis, not the analysis itself.
func (t *StatusTool) Run(_ context.Context, _ *StatusRequest) (*Report, error) {
	var b strings.Builder
	b.WriteString("📊 Data Analysis Status:\n\n")
	if os.Getenv("OPENAI_API_KEY") != "" {
		b.WriteString("✅ OpenAI API key: Configured\n")
		b.WriteString("\n🎉 Data analysis is ready to use!")
	} else {
		b.WriteString("❌ OpenAI API key: Not configured\n")
		b.WriteString("\n⚠️ Please configure OpenAI API key to enable data analysis.")
	}
	return &Report{Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *StatusTool) Call(ctx context.Context, input string) (string, error) {
	var req StatusRequest
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
