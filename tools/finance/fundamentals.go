package finance

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/finance/internal/yahooclient"
)

// FundamentalsTool reports valuation, performance and dividend metrics
// for a stock symbol. Missing metrics render as N/A.
type FundamentalsTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[StockRequest, Report] = (*FundamentalsTool)(nil)

// newFundamentals creates the fundamentals tool.
func newFundamentals(client *yahooclient.Client) (*FundamentalsTool, error) {
	sc, err := schema.New(reflect.TypeOf(StockRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &FundamentalsTool{
		tool: tool{
			name:        FundamentalsToolName,
			description: "Get fundamental financial data for a stock. Use this when users ask about financial ratios, earnings, revenue, or fundamental analysis.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run fetches the quote and formats the fundamentals block.
func (t *FundamentalsTool) Run(ctx context.Context, req *StockRequest) (*Report, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errors.New("invalid request: empty symbol")
	}

	q, err := t.client.QuoteOne(ctx, symbol)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error retrieving fundamentals for %s", req.Symbol)
	}
	if q == nil {
		q = &yahooclient.Quote{}
	}

	name := q.LongName
	if name == "" {
		name = symbol
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n**Fundamental Analysis for %s (%s)**\n\n", name, symbol)
	b.WriteString("**Valuation Metrics:**\n")
	fmt.Fprintf(&b, "- **P/E Ratio**: %s\n", fmtFloatPtr(q.TrailingPE))
	fmt.Fprintf(&b, "- **Forward P/E**: %s\n", fmtFloatPtr(q.ForwardPE))
	fmt.Fprintf(&b, "- **PEG Ratio**: %s\n", fmtFloatPtr(q.PegRatio))
	fmt.Fprintf(&b, "- **Price to Book**: %s\n", fmtFloatPtr(q.PriceToBook))
	fmt.Fprintf(&b, "- **Enterprise Value**: %s\n", fmtIntPtr(q.EnterpriseValue))
	b.WriteString("\n**Financial Performance:**\n")
	fmt.Fprintf(&b, "- **Revenue**: %s\n", fmtIntPtr(q.TotalRevenue))
	fmt.Fprintf(&b, "- **Profit Margin**: %s\n", fmtFloatPtr(q.ProfitMargins))
	fmt.Fprintf(&b, "- **Operating Margin**: %s\n", fmtFloatPtr(q.OperatingMargins))
	fmt.Fprintf(&b, "- **Return on Equity**: %s\n", fmtFloatPtr(q.ReturnOnEquity))
	fmt.Fprintf(&b, "- **Return on Assets**: %s\n", fmtFloatPtr(q.ReturnOnAssets))
	b.WriteString("\n**Dividend Information:**\n")
	fmt.Fprintf(&b, "- **Dividend Yield**: %s\n", fmtFloatPtr(q.DividendYield))
	fmt.Fprintf(&b, "- **Dividend Rate**: %s\n", fmtFloatPtr(q.DividendRate))
	fmt.Fprintf(&b, "- **Payout Ratio**: %s\n", fmtFloatPtr(q.PayoutRatio))

	return &Report{Symbol: symbol, Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *FundamentalsTool) Call(ctx context.Context, input string) (string, error) {
	var req StockRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
