package prompts

import (
	"github.com/aidekit/aidekit/pkg/llms"
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidPartialVariableType is returned when a partial variable is not a string or a function.
	ErrInvalidPartialVariableType = errors.New("invalid partial variable type")
	// ErrNeedChatMessageList is returned when the value of a message placeholder is not a list of messages.
	ErrNeedChatMessageList = errors.New("placeholder value must be a list of messages")
)

// Formatter is an interface for formatting a map of values into a string.
type Formatter interface {
	Format(values map[string]any) (string, error)
}

// MessageFormatter is an interface for formatting a map of values into a list
// of messages.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// FormatPrompter is an interface for formatting a map of values into a prompt.
type FormatPrompter interface {
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	GetInputVariables() []string
}

// resolvePartialValues resolves partial values, which can be strings or
// functions that return strings, into a single values map.
func resolvePartialValues(partialValues map[string]any, values map[string]any) (map[string]any, error) {
	resolvedValues := make(map[string]any, len(partialValues)+len(values))
	for variable, value := range partialValues {
		switch value := value.(type) {
		case string:
			resolvedValues[variable] = value
		case func() string:
			resolvedValues[variable] = value()
		default:
			return nil, errors.WithMessagef(ErrInvalidPartialVariableType, "variable: %s", variable)
		}
	}
	for variable, value := range values {
		resolvedValues[variable] = value
	}
	return resolvedValues, nil
}
