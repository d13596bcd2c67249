package callbacks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct{ name string }

func (a *fakeAssistant) Name() string        { return a.name }
func (a *fakeAssistant) Description() string { return "desc" }
func (a *fakeAssistant) Run(ctx context.Context, chatID, message string) (string, error) {
	return "", nil
}

type fakeTool struct{ name string }

func (t *fakeTool) Name() string                  { return t.name }
func (t *fakeTool) Description() string           { return "desc" }
func (t *fakeTool) Parameters() *jsonschema.Schema { return nil }
func (t *fakeTool) Call(ctx context.Context, input string) (string, error) {
	return "", nil
}

func newTestChatContext() (context.Context, chatmodel.ChatContext) {
	chatCtx := chatmodel.NewChatContext("chatid")
	ctx := chatmodel.WithChatContext(context.Background(), chatCtx)
	return ctx, chatCtx
}

func freezeTime(t *testing.T) {
	t.Helper()
	oldTimeFn := TimeNowFn
	TimeNowFn = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { TimeNowFn = oldTimeFn })
}

func TestScratchpad_Run(t *testing.T) {
	freezeTime(t)

	var buf bytes.Buffer
	sp := NewScratchpad(&buf, ModeVerbose)
	ctx, cctx := newTestChatContext()

	ast := &fakeAssistant{name: "A1"}
	tool := &fakeTool{name: "T1"}

	sp.OnAssistantStart(ctx, ast, "what is the price of AAPL?")
	sp.OnToolStart(ctx, tool, `{"symbol":"AAPL"}`)
	sp.OnToolEnd(ctx, tool, `{"symbol":"AAPL"}`, "233.12")
	sp.OnToolStart(ctx, tool, `{"symbol":"FAIL"}`)
	sp.OnToolError(ctx, tool, `{"symbol":"FAIL"}`, errors.New("terr"))

	// Nothing is written until the run ends.
	assert.Empty(t, buf.String())

	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content: "Answer 1",
			GenerationInfo: map[string]any{
				"InputTokens":  3,
				"OutputTokens": 5,
				"TotalTokens":  8,
			},
		}},
	}
	sp.OnAssistantEnd(ctx, ast, "what is the price of AAPL?", resp)

	out := buf.String()
	assert.Contains(t, out, "*** Run Started ***")
	assert.Contains(t, out, "A1 Input: what is the price of AAPL?")
	assert.Contains(t, out, "T1 *** Tool Start ***")
	assert.Contains(t, out, `T1 Input: {"symbol":"AAPL"}`)
	assert.Contains(t, out, "T1 Output: 233.12")
	assert.Contains(t, out, "T1 *** Tool End ***")
	assert.Contains(t, out, "T1 *** Tool Error *** terr")
	assert.Contains(t, out, "A1 Output:")
	assert.Contains(t, out, "Answer 1")
	assert.Contains(t, out, "Assistant calls: 1, Failed: 0")
	assert.Contains(t, out, "Tool calls: 2, Succeeded: 1, Failed: 1")
	assert.Contains(t, out, "Response bytes: 8, Input tokens: 3, Output tokens: 5, Total tokens: 8")
	assert.Contains(t, out, "*** Run Ended. Duration: 0s ***")

	// The run is removed after the flush.
	_, ok := sp.runs[cctx.GetChatID()]
	assert.False(t, ok)

	// Events after the flush are dropped.
	sp.OnToolStart(ctx, tool, "tinput")
	sp.OnAssistantEnd(ctx, ast, "input", resp)
	assert.Equal(t, out, buf.String())
}

func TestScratchpad_Error(t *testing.T) {
	freezeTime(t)

	var buf bytes.Buffer
	sp := NewScratchpad(&buf, ModeDefault)
	ctx, cctx := newTestChatContext()
	ast := &fakeAssistant{name: "A1"}

	sp.OnAssistantStart(ctx, ast, "input")
	sp.OnAssistantError(ctx, ast, "input", errors.New("fail"))

	out := buf.String()
	assert.Contains(t, out, "A1 *** Error *** fail")
	assert.Contains(t, out, "Assistant calls: 1, Failed: 1")
	assert.Contains(t, out, "*** Run Ended. Duration: 0s ***")

	_, ok := sp.runs[cctx.GetChatID()]
	assert.False(t, ok)
}

func TestScratchpad_NoChatContext(t *testing.T) {
	var buf bytes.Buffer
	sp := NewScratchpad(&buf, ModeVerbose)
	ctx := context.Background()
	ast := &fakeAssistant{name: "A1"}
	tool := &fakeTool{name: "T1"}

	sp.OnAssistantStart(ctx, ast, "input")
	sp.OnToolStart(ctx, tool, "tinput")
	sp.OnToolEnd(ctx, tool, "tinput", "toutput")
	sp.OnToolError(ctx, tool, "tinput", errors.New("terr"))
	sp.OnAssistantError(ctx, ast, "input", errors.New("fail"))
	sp.OnAssistantEnd(ctx, ast, "input", &llms.ContentResponse{})

	assert.Empty(t, buf.String())
	assert.Empty(t, sp.runs)

	assert.Nil(t, sp.getRun(ctx))
}

func Test_run_print_format(t *testing.T) {
	freezeTime(t)

	_, chatCtx := newTestChatContext()
	r := &run{chatCtx: chatCtx}

	r.print("hello", "again")
	lines := strings.Split(r.w.String(), "\n")
	require.NotEmpty(t, lines[0])
	assert.Equal(t, "2024-01-01 12:00:00 "+chatCtx.GetChatID()+"."+chatCtx.RunID()+" hello again", lines[0])
}
