package callbacks_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/callbacks"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
)

type testAssistant struct{ name string }

func (a *testAssistant) Name() string        { return a.name }
func (a *testAssistant) Description() string { return "desc" }
func (a *testAssistant) Run(ctx context.Context, chatID, message string) (string, error) {
	return "", nil
}

type testTool struct{ name string }

func (t *testTool) Name() string                   { return t.name }
func (t *testTool) Description() string            { return "desc" }
func (t *testTool) Parameters() *jsonschema.Schema { return nil }
func (t *testTool) Call(ctx context.Context, input string) (string, error) {
	return "", nil
}

func TestFanout(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cb := callbacks.NewFanout(
		assistants.NewLogHandler(&buf1),
		assistants.NewLogHandler(&buf2),
	)

	ast := &testAssistant{name: "test-assistant"}
	tool := &testTool{name: "test-tool"}

	ctx := context.Background()
	cb.OnAssistantStart(ctx, ast, "test input")
	cb.OnAssistantEnd(ctx, ast, "test input", &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "test output",
			},
		},
	})
	cb.OnAssistantError(ctx, ast, "test input", errors.New("test error"))
	cb.OnToolStart(ctx, tool, "test input")
	cb.OnToolEnd(ctx, tool, "test input", "test output")
	cb.OnToolError(ctx, tool, "test input", errors.New("test error"))

	for _, res := range []string{buf1.String(), buf2.String()} {
		assert.Contains(t, res, "Assistant Start: test-assistant")
		assert.Contains(t, res, "Input: test input")
		assert.Contains(t, res, "Assistant End: test-assistant")
		assert.Contains(t, res, "Assistant Error: test-assistant: test error")
		assert.Contains(t, res, "Tool Start: test-tool")
		assert.Contains(t, res, "Tool End: test-tool")
		assert.Contains(t, res, "Output: test output")
		assert.Contains(t, res, "Tool Error: test-tool: test error")
	}
}

func TestFanout_Add(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewFanout()
	cb.Add(assistants.NewLogHandler(&buf))

	cb.OnAssistantStart(context.Background(), &testAssistant{name: "a"}, "in")
	assert.Contains(t, buf.String(), "Assistant Start: a")
}
