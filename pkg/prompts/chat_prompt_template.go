package prompts

import (
	"strings"

	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/aidekit/aidekit/pkg/llmutils"
)

var (
	_ FormatPrompter   = ChatPromptTemplate{}
	_ llms.PromptValue = ChatPromptValue{}
)

// ChatPromptValue is a prompt value holding a list of chat messages.
type ChatPromptValue []llms.Message

// String renders the messages in the transcript form.
func (v ChatPromptValue) String() string {
	var buf strings.Builder
	llmutils.PrintMessages(&buf, v)
	return buf.String()
}

// Messages returns the message slice.
func (v ChatPromptValue) Messages() []llms.Message {
	return v
}

// ChatPromptTemplate is a prompt template for chat messages.
type ChatPromptTemplate struct {
	// Messages is the list of messages to be formatted.
	Messages []MessageFormatter
}

// NewChatPromptTemplate creates a new chat prompt template from a list of message formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{
		Messages: messages,
	}
}

// FormatPrompt formats the messages with the given values and returns them as a chat prompt value.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formattedMessages, err := p.FormatMessages(values)
	if err != nil {
		return nil, err
	}
	return ChatPromptValue(formattedMessages), nil
}

// FormatMessages formats the messages with the given values.
func (p ChatPromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	messages := make([]llms.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		curMessages, err := m.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		messages = append(messages, curMessages...)
	}
	return messages, nil
}

// GetInputVariables returns the input variables all the messages in the template expect.
func (p ChatPromptTemplate) GetInputVariables() []string {
	variables := make(map[string]bool)
	for _, m := range p.Messages {
		for _, v := range m.GetInputVariables() {
			variables[v] = true
		}
	}
	inputVariables := make([]string, 0, len(variables))
	for v := range variables {
		inputVariables = append(inputVariables, v)
	}
	return inputVariables
}
