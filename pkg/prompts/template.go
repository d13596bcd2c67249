package prompts

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/nikolalohinski/gonja"
)

// ErrInvalidTemplateFormat is returned when the template format is not supported.
var ErrInvalidTemplateFormat = errors.New("invalid template format")

// TemplateFormat is the format of the template.
type TemplateFormat string

const (
	// TemplateFormatGoTemplate is the format for Go templates.
	TemplateFormatGoTemplate TemplateFormat = "go-template"
	// TemplateFormatJinja2 is the format for Jinja2 templates.
	TemplateFormatJinja2 TemplateFormat = "jinja2"
)

// interpolator is a function that interpolates the given template with the given values.
type interpolator func(template string, values map[string]any) (string, error)

var formatterMapping = map[TemplateFormat]interpolator{
	TemplateFormatGoTemplate: interpolateGoTemplate,
	TemplateFormatJinja2:     interpolateJinja2,
}

// RenderTemplate renders the template with the given values.
func RenderTemplate(tmpl string, format TemplateFormat, values map[string]any) (string, error) {
	formatter, ok := formatterMapping[format]
	if !ok {
		return "", errors.WithMessagef(ErrInvalidTemplateFormat, "got: %s", format)
	}
	return formatter(tmpl, values)
}

// CheckValidTemplate checks that the format is supported and that the template
// renders with dummy values for all declared input variables.
func CheckValidTemplate(tmpl string, format TemplateFormat, inputVariables []string) error {
	_, ok := formatterMapping[format]
	if !ok {
		return errors.WithMessagef(ErrInvalidTemplateFormat, "got: %s", format)
	}

	dummyInputs := make(map[string]any, len(inputVariables))
	for _, v := range inputVariables {
		dummyInputs[v] = "foo"
	}

	_, err := RenderTemplate(tmpl, format, dummyInputs)
	return err
}

// interpolateGoTemplate renders the template with text/template and the sprig
// function set. Referencing a missing variable is an error.
func interpolateGoTemplate(tmpl string, values map[string]any) (string, error) {
	parsedTmpl, err := template.New("template").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(tmpl)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}
	var sb bytes.Buffer
	if err = parsedTmpl.Execute(&sb, values); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}
	return sb.String(), nil
}

func interpolateJinja2(tmpl string, values map[string]any) (string, error) {
	tpl, err := gonja.FromString(tmpl)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}
	ret, err := tpl.Execute(values)
	if err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}
	return ret, nil
}
