// Package mathtool provides a calculator tool with basic arithmetic over two
// operands.
package mathtool

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

const ToolName = "calculator"

// Operation names accepted by the calculator.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// CalcRequest is the tool input.
type CalcRequest struct {
	Operation string  `json:"operation" jsonschema:"title=Operation,description=The arithmetic operation to perform.,enum=add,enum=subtract,enum=multiply,enum=divide"`
	A         float64 `json:"a" jsonschema:"title=A,description=The first operand."`
	B         float64 `json:"b" jsonschema:"title=B,description=The second operand."`
}

// CalcResult is the tool output.
type CalcResult struct {
	Operation string    `json:"operation"`
	Inputs    []float64 `json:"inputs"`
	Result    float64   `json:"result"`
}

var _ chatmodel.ContentProvider = (*CalcResult)(nil)

func (r *CalcResult) GetContent() string {
	return r.String()
}

func (r *CalcResult) String() string {
	if len(r.Inputs) != 2 {
		return formatNumber(r.Result)
	}
	return fmt.Sprintf("%s %s %s = %s",
		formatNumber(r.Inputs[0]),
		opSymbol(r.Operation),
		formatNumber(r.Inputs[1]),
		formatNumber(r.Result))
}

func opSymbol(operation string) string {
	switch operation {
	case "addition":
		return "+"
	case "subtraction":
		return "-"
	case "multiplication":
		return "*"
	case "division":
		return "/"
	}
	return "?"
}

// formatNumber renders the float without an exponent or trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tool performs basic arithmetic for the agent.
type Tool struct {
	name        string
	description string
	funcParams  *jsonschema.Schema
}

var _ tools.Tool[CalcRequest, CalcResult] = (*Tool)(nil)

// New creates the calculator tool.
func New() (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(CalcRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &Tool{
		name:        ToolName,
		description: "Performs basic arithmetic with two operands: add, subtract, multiply or divide.",
		funcParams:  sc.Parameters,
	}, nil
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() *jsonschema.Schema {
	return t.funcParams
}

// Run executes the requested operation.
func (t *Tool) Run(_ context.Context, req *CalcRequest) (*CalcResult, error) {
	var result float64
	var operation string
	switch req.Operation {
	case OpAdd:
		result = req.A + req.B
		operation = "addition"
	case OpSubtract:
		result = req.A - req.B
		operation = "subtraction"
	case OpMultiply:
		result = req.A * req.B
		operation = "multiplication"
	case OpDivide:
		if req.B == 0 {
			return nil, errors.New("Cannot divide by zero")
		}
		result = req.A / req.B
		operation = "division"
	default:
		return nil, errors.Errorf("unknown operation: %s", req.Operation)
	}
	return &CalcResult{
		Operation: operation,
		Inputs:    []float64{req.A, req.B},
		Result:    result,
	}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req CalcRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
