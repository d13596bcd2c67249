package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/llms/openai/internal/openaiclient"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockQuery struct {
	Symbol string `json:"symbol" jsonschema:"title=Symbol,description=Ticker symbol to look up."`
}

func newFakeServer(t *testing.T, gotBody *[]byte, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		*gotBody = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateContentText(t *testing.T) {
	var gotBody []byte
	srv := newFakeServer(t, &gotBody, `{
		"id": "chatcmpl-123",
		"object": "chat.completion",
		"created": 1728933352,
		"model": "gpt-4o",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "The capital of France is Paris."}, "finish_reason": "stop"}
		],
		"usage": {"prompt_tokens": 19, "completion_tokens": 8, "total_tokens": 27}
	}`)

	llm, err := New(WithToken("test-key"), WithModel("gpt-4o"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, llm.GetProviderType())

	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a helpful assistant."),
		llms.MessageFromTextParts(llms.RoleHuman, "What is the capital of France?"),
	}
	resp, err := llm.GenerateContent(context.Background(), msgs,
		llms.WithMaxTokens(1024),
		llms.WithTemperature(0.2),
	)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "The capital of France is Paris.", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)

	in, out, total := llmutils.CountTokens(resp)
	assert.Equal(t, int64(19), in)
	assert.Equal(t, int64(8), out)
	assert.Equal(t, int64(27), total)

	var req struct {
		Model               string           `json:"model"`
		Messages            []map[string]any `json:"messages"`
		Temperature         float64          `json:"temperature"`
		MaxCompletionTokens int              `json:"max_completion_tokens"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 0.2, req.Temperature)
	assert.Equal(t, 1024, req.MaxCompletionTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "You are a helpful assistant."}, req.Messages[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "What is the capital of France?"}, req.Messages[1])
}

func TestGenerateContentWithTools(t *testing.T) {
	var gotBody []byte
	srv := newFakeServer(t, &gotBody, `{
		"id": "chatcmpl-456",
		"object": "chat.completion",
		"created": 1728933352,
		"model": "gpt-4o",
		"choices": [
			{
				"index": 0,
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [
						{"id": "call_1", "type": "function", "function": {"name": "get_stock_price", "arguments": "{\"symbol\":\"AAPL\"}"}}
					]
				},
				"finish_reason": "tool_calls"
			}
		],
		"usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
	}`)

	llm, err := New(WithToken("test-key"), WithModel("gpt-4o"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	sc, err := schema.New(reflect.TypeOf(stockQuery{}))
	require.NoError(t, err)

	toolList := []llms.Tool{
		{
			Type: string(openaiclient.ToolTypeFunction),
			Function: &llms.FunctionDefinition{
				Name:        "get_stock_price",
				Description: "Get the current price for a ticker symbol.",
				Parameters:  sc.Parameters,
			},
		},
	}

	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the price of AAPL?"),
	}
	resp, err := llm.GenerateContent(context.Background(), msgs, llms.WithTools(toolList))
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)

	c1 := resp.Choices[0]
	assert.Equal(t, "tool_calls", c1.StopReason)
	require.Len(t, c1.ToolCalls, 1)
	assert.Equal(t, "call_1", c1.ToolCalls[0].ID)
	assert.Equal(t, "function", c1.ToolCalls[0].Type)
	assert.Equal(t, "get_stock_price", c1.ToolCalls[0].FunctionCall.Name)
	assert.JSONEq(t, `{"symbol":"AAPL"}`, c1.ToolCalls[0].FunctionCall.Arguments)
	require.NotNil(t, c1.FuncCall)
	assert.Equal(t, "get_stock_price", c1.FuncCall.Name)

	var req struct {
		Tools []struct {
			Type     string `json:"type"`
			Function struct {
				Name        string          `json:"name"`
				Description string          `json:"description"`
				Parameters  json.RawMessage `json:"parameters"`
			} `json:"function"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "function", req.Tools[0].Type)
	assert.Equal(t, "get_stock_price", req.Tools[0].Function.Name)
	assert.JSONEq(t, llmutils.ToJSON(sc.Parameters), string(req.Tools[0].Function.Parameters))
}

func TestGenerateContentToolRound(t *testing.T) {
	var gotBody []byte
	srv := newFakeServer(t, &gotBody, `{
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "AAPL is trading at 233.12 USD."}, "finish_reason": "stop"}
		],
		"usage": {"prompt_tokens": 60, "completion_tokens": 11, "total_tokens": 71}
	}`)

	llm, err := New(WithToken("test-key"), WithModel("gpt-4o"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "What is the price of AAPL?"),
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:   "call_1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "get_stock_price",
				Arguments: `{"symbol":"AAPL"}`,
			},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: "call_1",
			Name:       "get_stock_price",
			Content:    "AAPL: 233.12 USD",
		}),
	}
	resp, err := llm.GenerateContent(context.Background(), msgs)
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "AAPL is trading at 233.12 USD.", resp.Choices[0].Content)

	var req struct {
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	require.Len(t, req.Messages, 3)
	assert.JSONEq(t, `{"role":"user","content":"What is the price of AAPL?"}`, string(req.Messages[0]))
	assert.JSONEq(t, `{"role":"assistant","tool_calls":[{"id":"call_1","type":"function","function":{"name":"get_stock_price","arguments":"{\"symbol\":\"AAPL\"}"}}]}`, string(req.Messages[1]))
	assert.JSONEq(t, `{"role":"tool","content":"AAPL: 233.12 USD","tool_call_id":"call_1"}`, string(req.Messages[2]))
}

func TestGenerateContentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests"}}`))
	}))
	defer srv.Close()

	llm, err := New(WithToken("test-key"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	}
	_, err = llm.GenerateContent(context.Background(), msgs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API returned unexpected status code: 429")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestGenerateContentUnsupportedRole(t *testing.T) {
	llm, err := New(WithToken("test-key"))
	require.NoError(t, err)

	msgs := []llms.Message{
		{Role: llms.Role("unknown"), Parts: []llms.ContentPart{llms.TextPart("hi")}},
	}
	_, err = llm.GenerateContent(context.Background(), msgs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role unknown not supported")
}

func TestCreateResponse(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"status": "completed",
			"model": "gpt-4o",
			"output": [
				{"type": "message", "id": "msg_1", "status": "completed", "role": "assistant",
				 "content": [{"type": "output_text", "text": "A slow blues in E with muted horns.", "annotations": []}]}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	llm, err := New(WithToken("test-key"), WithModel("gpt-4o"), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	resp, err := llm.CreateResponse(context.Background(), &responses.ResponseNewParams{
		Instructions: param.NewOpt("Rewrite the request into a detailed music prompt."),
		Input:        responses.ResponseNewParamsInputUnion{OfString: param.NewOpt("slow blues")},
	})
	require.NoError(t, err)
	assert.Equal(t, "A slow blues in E with muted horns.", resp.OutputText())

	var req struct {
		Model           string `json:"model"`
		Instructions    string `json:"instructions"`
		Input           string `json:"input"`
		MaxOutputTokens int    `json:"max_output_tokens"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, "Rewrite the request into a detailed music prompt.", req.Instructions)
	assert.Equal(t, "slow blues", req.Input)
	assert.Equal(t, openaiclient.DefaultMaxTokens, req.MaxOutputTokens)
}

func TestNewMissingToken(t *testing.T) {
	t.Setenv(tokenEnvVarName, "")
	_, err := New()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingToken)
}
