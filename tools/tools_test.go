package tools_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Text string `json:"text" jsonschema:"title=Text,description=The text to echo back."`
}

type echoTool struct {
	name string
}

var _ tools.ITool = (*echoTool)(nil)

func newEchoTool(name string) *echoTool {
	return &echoTool{name: name}
}

func (t *echoTool) Name() string {
	return t.name
}

func (t *echoTool) Description() string {
	return "Echoes the input back."
}

func (t *echoTool) Parameters() *jsonschema.Schema {
	sc, _ := schema.New(reflect.TypeOf(echoInput{}))
	return sc.Parameters
}

func (t *echoTool) Call(_ context.Context, input string) (string, error) {
	return input, nil
}

func TestGetDescriptions(t *testing.T) {
	t.Parallel()

	res := tools.GetDescriptions(newEchoTool("calculator"), newEchoTool("get_stock_price"))
	exp := "\n```json\n" +
		"{\n\t\"Tools\": [\n" +
		"\t\t{\n\t\t\t\"Name\": \"calculator\",\n\t\t\t\"Description\": \"Echoes the input back.\"\n\t\t},\n" +
		"\t\t{\n\t\t\t\"Name\": \"get_stock_price\",\n\t\t\t\"Description\": \"Echoes the input back.\"\n\t\t}\n" +
		"\t]\n}\n" +
		"```\n"
	assert.Equal(t, exp, res)
}

func TestToolParameters(t *testing.T) {
	t.Parallel()

	p := newEchoTool("echo").Parameters()
	require.NotNil(t, p)
	assert.Equal(t, "object", p.Type)

	prop, ok := p.Properties.Get("text")
	require.True(t, ok)
	assert.Equal(t, "string", prop.Type)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := tools.NewRegistry()
	calc := newEchoTool("calculator")
	price := newEchoTool("get_stock_price")
	require.NoError(t, reg.Register(calc, price))

	// Duplicate names are rejected, case-insensitive.
	err := reg.Register(newEchoTool("Calculator"))
	require.EqualError(t, err, "tool already registered: Calculator")

	got, ok := reg.Get("CALCULATOR")
	require.True(t, ok)
	assert.Same(t, tools.ITool(calc), got)

	_, ok = reg.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"calculator", "get_stock_price"}, reg.Names())
	assert.Len(t, reg.List(), 2)
}

func TestRegistryEmpty(t *testing.T) {
	t.Parallel()

	reg := tools.NewRegistry()
	assert.Empty(t, reg.Names())
	assert.Empty(t, reg.List())

	_, ok := reg.Get("calculator")
	assert.False(t, ok)
}
