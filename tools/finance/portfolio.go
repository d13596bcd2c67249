package finance

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/finance/internal/yahooclient"
)

// PortfolioRequest is the input of the portfolio valuation tool.
type PortfolioRequest struct {
	Holdings string `json:"holdings" yaml:"holdings" jsonschema:"title=Holdings,description=Comma-separated symbol:shares pairs describing the portfolio; for example AAPL:100 followed by GOOGL:50."`
}

// PortfolioTool values a portfolio of stock holdings at current prices.
type PortfolioTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[PortfolioRequest, Report] = (*PortfolioTool)(nil)

// newPortfolio creates the portfolio valuation tool.
func newPortfolio(client *yahooclient.Client) (*PortfolioTool, error) {
	sc, err := schema.New(reflect.TypeOf(PortfolioRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &PortfolioTool{
		tool: tool{
			name:        PortfolioToolName,
			description: "Calculate the current value of a portfolio. Use this when users want to calculate portfolio value, track investments, or analyze holdings.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// holding is one parsed symbol:shares position.
type holding struct {
	symbol string
	shares int
}

// parseHoldings parses "AAPL:100,GOOGL:50" style input. Parts without
// a colon are skipped, repeated symbols keep the last share count.
func parseHoldings(s string) ([]holding, error) {
	var res []holding
	index := map[string]int{}
	for _, part := range strings.Split(s, ",") {
		symbol, shares, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		count, err := strconv.Atoi(strings.TrimSpace(shares))
		if err != nil {
			return nil, errors.Errorf("invalid share count for %s", symbol)
		}
		if at, exists := index[symbol]; exists {
			res[at].shares = count
			continue
		}
		index[symbol] = len(res)
		res = append(res, holding{symbol: symbol, shares: count})
	}
	return res, nil
}

// Run values each holding at its current market price.
func (t *PortfolioTool) Run(ctx context.Context, req *PortfolioRequest) (*Report, error) {
	holdings, err := parseHoldings(req.Holdings)
	if err != nil {
		return nil, errors.WithMessage(err, "Error calculating portfolio value")
	}

	var total float64
	var details []string
	for _, h := range holdings {
		q, err := t.client.QuoteOne(ctx, h.symbol)
		if err != nil {
			details = append(details, fmt.Sprintf("- **%s**: Error retrieving data - %s", h.symbol, err.Error()))
			continue
		}
		var price float64
		if q != nil {
			price = q.RegularMarketPrice
		}
		value := price * float64(h.shares)
		total += value
		details = append(details, fmt.Sprintf("- **%s**: %d shares @ $%.2f = $%.2f", h.symbol, h.shares, price, value))
	}

	result := fmt.Sprintf("\n**Portfolio Analysis**\n\n**Holdings:**\n%s\n\n**Total Portfolio Value: $%.2f**\n",
		strings.Join(details, "\n"), total)
	return &Report{Result: result}, nil
}

// Call implements the tools.ITool interface.
func (t *PortfolioTool) Call(ctx context.Context, input string) (string, error) {
	var req PortfolioRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
