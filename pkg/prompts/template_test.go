package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	out, err := RenderTemplate("Price of {{.symbol}}: {{.price}}", TemplateFormatGoTemplate, map[string]any{
		"symbol": "AAPL",
		"price":  233.12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Price of AAPL: 233.12", out)

	// Sprig functions are available for Go templates.
	out, err = RenderTemplate("{{.symbol | lower}}", TemplateFormatGoTemplate, map[string]any{
		"symbol": "AAPL",
	})
	require.NoError(t, err)
	assert.Equal(t, "aapl", out)

	_, err = RenderTemplate("{{.symbol}}", "f-string", map[string]any{
		"symbol": "AAPL",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplateFormat)
}

func TestRenderTemplateJinja2(t *testing.T) {
	t.Parallel()

	out, err := RenderTemplate("Price of {{ symbol }}: {{ price }}", TemplateFormatJinja2, map[string]any{
		"symbol": "AAPL",
		"price":  "233.12",
	})
	require.NoError(t, err)
	assert.Equal(t, "Price of AAPL: 233.12", out)

	_, err = RenderTemplate("{% invalid", TemplateFormatJinja2, map[string]any{})
	require.Error(t, err)
}

func TestCheckValidTemplate(t *testing.T) {
	t.Parallel()

	err := CheckValidTemplate("Quote for {{.symbol}}", TemplateFormatGoTemplate, []string{"symbol"})
	require.NoError(t, err)

	err = CheckValidTemplate("Quote for {{.symbol}}", "f-string", []string{"symbol"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplateFormat)

	// Declared variables must cover the template.
	err = CheckValidTemplate("Quote for {{.symbol}}", TemplateFormatGoTemplate, nil)
	require.Error(t, err)
}
