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

// StockPriceTool reports the current price of a stock symbol.
type StockPriceTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[StockRequest, Report] = (*StockPriceTool)(nil)

// newStockPrice creates the stock price tool.
func newStockPrice(client *yahooclient.Client) (*StockPriceTool, error) {
	sc, err := schema.New(reflect.TypeOf(StockRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &StockPriceTool{
		tool: tool{
			name:        StockPriceToolName,
			description: "Get current stock price for a given symbol. Use this when users ask about stock prices, share prices, or current market value.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run fetches the quote and formats the price block.
func (t *StockPriceTool) Run(ctx context.Context, req *StockRequest) (*Report, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errors.New("invalid request: empty symbol")
	}

	q, err := t.client.QuoteOne(ctx, symbol)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error retrieving stock price for %s", req.Symbol)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return &Report{
			Symbol: symbol,
			Result: fmt.Sprintf("Could not retrieve stock price for %s. Please check the symbol and try again.", symbol),
		}, nil
	}

	currency := q.Currency
	if currency == "" {
		currency = "USD"
	}
	name := q.LongName
	if name == "" {
		name = symbol
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n**Stock Price for %s (%s)**\n", name, symbol)
	fmt.Fprintf(&b, "- **Current Price**: %s %s\n", fmtFloat(q.RegularMarketPrice), currency)
	fmt.Fprintf(&b, "- **Previous Close**: %s %s\n", fmtFloatPtr(q.RegularMarketPreviousClose), currency)
	fmt.Fprintf(&b, "- **Market Cap**: %s %s\n", fmtIntPtr(q.MarketCap), currency)
	fmt.Fprintf(&b, "- **Volume**: %s\n", fmtIntPtr(q.RegularMarketVolume))
	fmt.Fprintf(&b, "- **52 Week High**: %s %s\n", fmtFloatPtr(q.FiftyTwoWeekHigh), currency)
	fmt.Fprintf(&b, "- **52 Week Low**: %s %s\n", fmtFloatPtr(q.FiftyTwoWeekLow), currency)

	return &Report{Symbol: symbol, Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *StockPriceTool) Call(ctx context.Context, input string) (string, error) {
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
