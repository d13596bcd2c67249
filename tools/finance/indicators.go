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

// IndicatorsRequest is the input of the economic indicators tool.
// The tool takes no arguments.
type IndicatorsRequest struct{}

// economicIndicators are reported in this order.
var economicIndicators = []struct {
	symbol string
	name   string
}{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "NASDAQ"},
	{"^VIX", "Volatility Index"},
	{"GC=F", "Gold Futures"},
	{"CL=F", "Crude Oil Futures"},
	{"DX-Y.NYB", "US Dollar Index"},
}

// EconomicIndicatorsTool reports major indices, futures and the dollar
// index with their daily change.
type EconomicIndicatorsTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[IndicatorsRequest, Report] = (*EconomicIndicatorsTool)(nil)

// newEconomicIndicators creates the economic indicators tool.
func newEconomicIndicators(client *yahooclient.Client) (*EconomicIndicatorsTool, error) {
	sc, err := schema.New(reflect.TypeOf(IndicatorsRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &EconomicIndicatorsTool{
		tool: tool{
			name:        EconomicIndicatorsToolName,
			description: "Get key economic indicators and market data. Use this when users ask about economic data, market indicators, or macroeconomic trends.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run fetches each indicator quote. Indicators that cannot be fetched
// produce an error line, unknown ones are skipped.
func (t *EconomicIndicatorsTool) Run(ctx context.Context, _ *IndicatorsRequest) (*Report, error) {
	var b strings.Builder
	b.WriteString("**Key Economic Indicators**\n\n")

	for _, ind := range economicIndicators {
		q, err := t.client.QuoteOne(ctx, ind.symbol)
		if err != nil {
			fmt.Fprintf(&b, "❌ **%s**: Error retrieving data\n", ind.name)
			continue
		}
		if q == nil || q.RegularMarketPrice == 0 {
			continue
		}

		var change float64
		if q.RegularMarketChangePercent != nil {
			change = *q.RegularMarketChangePercent
		}
		arrow := "➡️"
		if change > 0 {
			arrow = "📈"
		} else if change < 0 {
			arrow = "📉"
		}
		fmt.Fprintf(&b, "%s **%s**: $%s (%+.2f%%)\n", arrow, ind.name, commaFloat(q.RegularMarketPrice, 2), change)
	}

	return &Report{Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *EconomicIndicatorsTool) Call(ctx context.Context, input string) (string, error) {
	var req IndicatorsRequest
	if input != "" {
		if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
			return "", chatmodel.ErrFailedUnmarshalInput
		}
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
