package llms_test

import (
	"testing"

	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func TestTextParts(t *testing.T) {
	t.Parallel()
	type args struct {
		role  llms.Role
		parts []string
	}
	tests := []struct {
		name string
		args args
		want llms.Message
	}{
		{
			"basics",
			args{
				llms.RoleHuman,
				[]string{"a", "b", "c"},
			},
			llms.MessageFromTextParts(llms.RoleHuman, "a", "b", "c"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mc := llms.MessageFromTextParts(tt.args.role, tt.args.parts...)
			assert.Equal(t, tt.want, mc)
		})
	}
}

func Test_Message_JSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		msg     llms.Message
		js      string
		content string
	}{
		{
			"text",
			llms.MessageFromTextParts(llms.RoleHuman, "a", "b", "c"),
			`{"role":"human","parts":[{"text":"a","type":"text"},{"text":"b","type":"text"},{"text":"c","type":"text"}]}`,
			`a
b
c
`,
		},
		{
			"single_text",
			llms.MessageFromTextParts(llms.RoleSystem, "You are a financial research assistant."),
			`{"role":"system","text":"You are a financial research assistant."}`,
			`You are a financial research assistant.
`,
		},
		{
			"tool_call",
			llms.MessageFromParts(llms.RoleAI, llms.ToolCall{ID: "123", Type: "function", FunctionCall: &llms.FunctionCall{Name: "calculator", Arguments: `{"operation":"add","a":1,"b":2}`}}),
			`{"role":"ai","parts":[{"type":"tool_call","tool_call":{"function":{"name":"calculator","arguments":"{\"operation\":\"add\",\"a\":1,\"b\":2}"},"id":"123","type":"function"}}]}`,
			`Tool Call: {"type":"tool_call","tool_call":{"function":{"name":"calculator","arguments":"{\"operation\":\"add\",\"a\":1,\"b\":2}"},"id":"123","type":"function"}}
`,
		},
		{
			"tool_response",
			llms.MessageFromParts(llms.RoleAI, llms.ToolCallResponse{ToolCallID: "123", Name: "calculator", Content: "3"}),
			`{"role":"ai","parts":[{"type":"tool_response","tool_response":{"tool_call_id":"123","name":"calculator","content":"3"}}]}`,
			`Response: {"type":"tool_response","tool_response":{"tool_call_id":"123","name":"calculator","content":"3"}}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			js := llmutils.ToJSON(tt.msg)
			assert.Equal(t, tt.js, js)
			content := tt.msg.GetContent()
			assert.Equal(t, tt.content, content)
		})
	}
}

func Test_MessageHelpers(t *testing.T) {
	t.Parallel()

	call := llms.ToolCall{
		ID:   "call_1",
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      "get_stock_price",
			Arguments: `{"symbol":"AAPL"}`,
		},
	}
	msg := llms.MessageFromToolCalls(llms.RoleAI, call)
	assert.Equal(t, llms.RoleAI, msg.Role)
	assert.Len(t, msg.Parts, 1)
	got, ok := msg.Parts[0].(llms.ToolCall)
	assert.True(t, ok)
	assert.Equal(t, "call_1", got.ID)
	assert.Equal(t, "get_stock_price", got.FunctionCall.Name)

	resp := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
		ToolCallID: "call_1",
		Name:       "get_stock_price",
		Content:    "AAPL: 233.12 USD",
	})
	assert.Equal(t, llms.RoleTool, resp.Role)
	assert.Len(t, resp.Parts, 1)
}

func Test_ProviderCapabilities(t *testing.T) {
	t.Parallel()

	assert.True(t, llms.ProviderOpenAI.Supports(llms.CapabilityFunctionCalling))
	assert.True(t, llms.ProviderOpenAI.Supports(llms.CapabilityJSONSchemaStrict))
	assert.True(t, llms.ProviderAnthropic.Supports(llms.CapabilityMultiToolCalling))
	assert.False(t, llms.ProviderAnthropic.Supports(llms.CapabilityJSONSchemaStrict))
	assert.False(t, llms.ProviderType("UNKNOWN").Supports(llms.CapabilityText))
}
