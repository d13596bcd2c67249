package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
)

// ChatRequest is a request to complete a chat completion.
type ChatRequest struct {
	Model               string                 `json:"model"`
	Messages            []*ChatMessage         `json:"messages"`
	Temperature         float64                `json:"temperature,omitempty"`
	TopP                float64                `json:"top_p,omitempty"`
	MaxCompletionTokens int                    `json:"max_completion_tokens,omitempty"`
	N                   int                    `json:"n,omitempty"`
	StopWords           []string               `json:"stop,omitempty"`
	FrequencyPenalty    float64                `json:"frequency_penalty,omitempty"`
	PresencePenalty     float64                `json:"presence_penalty,omitempty"`
	Seed                int                    `json:"seed,omitempty"`
	Tools               []Tool                 `json:"tools,omitempty"`
	ToolChoice          any                    `json:"tool_choice,omitempty"`
	ResponseFormat      *schema.ResponseFormat `json:"response_format,omitempty"`
}

// Tool is a tool to use in a chat request.
type Tool struct {
	Type     ToolType           `json:"type"`
	Function FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition is a definition of a function that can be called by the model.
type FunctionDefinition struct {
	// Name is the name of the function.
	Name string `json:"name"`
	// Description is a description of the function.
	Description string `json:"description,omitempty"`
	// Parameters is a list of parameters for the function.
	Parameters *jsonschema.Schema `json:"parameters,omitempty"`
	// Strict is a flag to indicate strict schema adherence for structured output.
	Strict bool `json:"strict,omitempty"`
}

// ToolCall is a call to a tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     ToolType     `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is a function to be called in a tool call.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatMessage is a message in a chat request.
type ChatMessage struct {
	// The role of the author of this message. One of system, user, assistant, or tool.
	Role string

	// The content of the message.
	// This field is mutually exclusive with MultiContent.
	Content string

	// MultiContent is a list of content parts to use in the message.
	MultiContent []llms.ContentPart

	// The name of the author of this message.
	Name string

	// ToolCalls is a list of tools that were called in the message.
	ToolCalls []ToolCall

	// ToolCallID is the ID of the tool call this message is for.
	// Only present in tool messages.
	ToolCallID string
}

type chatMessagePayload struct {
	Role       string     `json:"role"`
	Content    any        `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// MarshalJSON implements json.Marshaler for ChatMessage.
// A single text part is flattened to a plain string content,
// a multi-part message is sent as a content array.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	p := chatMessagePayload{
		Role:       m.Role,
		Name:       m.Name,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
	}
	switch {
	case len(m.MultiContent) == 1:
		if tp, ok := m.MultiContent[0].(llms.TextContent); ok {
			p.Content = tp.Text
		} else {
			p.Content = m.MultiContent
		}
	case len(m.MultiContent) > 1:
		p.Content = m.MultiContent
	case m.Content != "":
		p.Content = m.Content
	}
	return json.Marshal(p)
}

// ChatResponseMessage is a message returned in a chat completion choice.
type ChatResponseMessage struct {
	Role             string             `json:"role"`
	Content          string             `json:"content"`
	ReasoningContent string             `json:"reasoning_content,omitempty"`
	FunctionCall     *llms.FunctionCall `json:"function_call,omitempty"`
	ToolCalls        []ToolCall         `json:"tool_calls,omitempty"`
}

// ChatCompletionChoice is a choice in a chat response.
type ChatCompletionChoice struct {
	Index        int                 `json:"index"`
	Message      ChatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

// ChatUsage is the token accounting of a chat response.
type ChatUsage struct {
	CompletionTokens int `json:"completion_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	TotalTokens      int `json:"total_tokens"`

	CompletionTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

// ChatCompletionResponse is a response to a chat request.
type ChatCompletionResponse struct {
	ID      string                  `json:"id,omitempty"`
	Created int64                   `json:"created,omitempty"`
	Choices []*ChatCompletionChoice `json:"choices,omitempty"`
	Model   string                  `json:"model,omitempty"`
	Object  string                  `json:"object,omitempty"`
	Usage   ChatUsage               `json:"usage,omitempty"`
}

func (c *Client) createChat(ctx context.Context, payload *ChatRequest) (*ChatCompletionResponse, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	u := c.buildURL("/chat/completions")
	logger.ContextKV(ctx, xlog.DEBUG, "url", u, "model", payload.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	c.setHeaders(req)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	if r.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("API returned unexpected status code: %d", r.StatusCode)
		var errResp errorMessage
		if err := json.NewDecoder(r.Body).Decode(&errResp); err != nil {
			return nil, errors.New(msg)
		}
		return nil, errors.Errorf("%s: %s", msg, errResp.Error.Message)
	}

	var response ChatCompletionResponse
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &response, nil
}
