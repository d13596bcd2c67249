package prompts

import (
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/cockroachdb/errors"
)

var (
	_ MessageFormatter = SystemMessagePromptTemplate{}
	_ MessageFormatter = HumanMessagePromptTemplate{}
	_ MessageFormatter = AIMessagePromptTemplate{}
	_ MessageFormatter = MessagesPlaceholder{}
)

// SystemMessagePromptTemplate is a message formatter that returns a system message.
type SystemMessagePromptTemplate struct {
	Prompt PromptTemplate
}

// NewSystemMessagePromptTemplate creates a new system message prompt template.
func NewSystemMessagePromptTemplate(template string, inputVariables []string) SystemMessagePromptTemplate {
	return SystemMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// FormatMessages formats the message with the given values.
func (p SystemMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(llms.RoleSystem, text)}, nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p SystemMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.InputVariables
}

// HumanMessagePromptTemplate is a message formatter that returns a human message.
type HumanMessagePromptTemplate struct {
	Prompt PromptTemplate
}

// NewHumanMessagePromptTemplate creates a new human message prompt template.
func NewHumanMessagePromptTemplate(template string, inputVariables []string) HumanMessagePromptTemplate {
	return HumanMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// FormatMessages formats the message with the given values.
func (p HumanMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, text)}, nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p HumanMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.InputVariables
}

// AIMessagePromptTemplate is a message formatter that returns an AI message.
type AIMessagePromptTemplate struct {
	Prompt PromptTemplate
}

// NewAIMessagePromptTemplate creates a new AI message prompt template.
func NewAIMessagePromptTemplate(template string, inputVariables []string) AIMessagePromptTemplate {
	return AIMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// FormatMessages formats the message with the given values.
func (p AIMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(llms.RoleAI, text)}, nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p AIMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.InputVariables
}

// MessagesPlaceholder is a message formatter that returns the list of messages
// stored in the values under the variable name, for example a chat history.
type MessagesPlaceholder struct {
	VariableName string
}

// FormatMessages returns the messages stored in the values under the variable name.
func (p MessagesPlaceholder) FormatMessages(values map[string]any) ([]llms.Message, error) {
	value, ok := values[p.VariableName]
	if !ok {
		return nil, errors.WithMessagef(ErrNeedChatMessageList, "variable: %s", p.VariableName)
	}
	messages, ok := value.([]llms.Message)
	if !ok {
		return nil, errors.WithMessagef(ErrNeedChatMessageList, "variable: %s", p.VariableName)
	}
	return messages, nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p MessagesPlaceholder) GetInputVariables() []string {
	return []string{p.VariableName}
}
