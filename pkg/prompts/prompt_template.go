package prompts

import (
	"github.com/aidekit/aidekit/pkg/llms"
)

var (
	_ Formatter      = PromptTemplate{}
	_ FormatPrompter = PromptTemplate{}
)

// PromptTemplate contains common fields for all prompt templates.
type PromptTemplate struct {
	// Template is the prompt template.
	Template string

	// InputVariables is a list of variable names the prompt template expects.
	InputVariables []string

	// TemplateFormat is the format of the prompt template.
	TemplateFormat TemplateFormat

	// PartialVariables represents a map of variable names to values or functions
	// that return values. If the value is a function, it is called when the
	// prompt template is rendered.
	PartialVariables map[string]any
}

// NewPromptTemplate returns a new prompt template in the Go template format.
func NewPromptTemplate(template string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       template,
		InputVariables: inputVars,
		TemplateFormat: TemplateFormatGoTemplate,
	}
}

// Format formats the prompt template and returns a string value.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	resolvedValues, err := resolvePartialValues(p.PartialVariables, values)
	if err != nil {
		return "", err
	}
	return RenderTemplate(p.Template, p.TemplateFormat, resolvedValues)
}

// FormatPrompt formats the prompt template and returns a string prompt value.
func (p PromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formattedPrompt, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(formattedPrompt), nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p PromptTemplate) GetInputVariables() []string {
	return p.InputVariables
}
