package chatmodel

import (
	"encoding/json"

	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/invopop/jsonschema"
)

// InputRequest is the plain-text input of an agent run.
type InputRequest struct {
	Input string `json:"input" jsonschema:"title=Input,description=The message sent by the user to the assistant."`
}

func NewInputRequest(input string) *InputRequest {
	return &InputRequest{Input: input}
}

func (r *InputRequest) ParseInput(raw string) error {
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(raw)), r); err != nil {
		return ErrFailedUnmarshalInput
	}
	return nil
}

func (r *InputRequest) GetContent() string {
	return r.Input
}

func (InputRequest) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Title = "Input Request"
}

// ChatRequest is one turn of an assistant conversation, as submitted to the
// API. An empty ChatID starts a new conversation.
type ChatRequest struct {
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the assistant answer back to the caller.
type ChatResponse struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// OutputResult is the plain-text result of an agent run.
type OutputResult struct {
	Content string `json:"content" jsonschema:"title=Response Content,description=The content returned by agent or tool."`
}

func NewOutputResult(content string) *OutputResult {
	return &OutputResult{Content: content}
}

func (r *OutputResult) GetContent() string {
	return r.Content
}

func (OutputResult) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Title = "Output Result"
}
