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

// CryptoRequest is the input of the crypto price tool.
type CryptoRequest struct {
	Symbol string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=The cryptocurrency symbol such as BTC or ETH. The -USD suffix is added automatically."`
}

// CryptoPriceTool reports the current price of a cryptocurrency.
// Symbols are quoted against USD.
type CryptoPriceTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[CryptoRequest, Report] = (*CryptoPriceTool)(nil)

// newCryptoPrice creates the crypto price tool.
func newCryptoPrice(client *yahooclient.Client) (*CryptoPriceTool, error) {
	sc, err := schema.New(reflect.TypeOf(CryptoRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &CryptoPriceTool{
		tool: tool{
			name:        CryptoPriceToolName,
			description: "Get current cryptocurrency price. Use this when users ask about crypto prices, Bitcoin, Ethereum, or other digital currencies.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run fetches the USD quote and formats the crypto price block.
func (t *CryptoPriceTool) Run(ctx context.Context, req *CryptoRequest) (*Report, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errors.New("invalid request: empty symbol")
	}
	if !strings.HasSuffix(symbol, "-USD") {
		symbol += "-USD"
	}
	display := strings.TrimSuffix(symbol, "-USD")

	q, err := t.client.QuoteOne(ctx, symbol)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error retrieving crypto price for %s", symbol)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return &Report{
			Symbol: symbol,
			Result: fmt.Sprintf("Could not retrieve price for %s. Please check the symbol.", display),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n**Cryptocurrency Price: %s**\n\n", display)
	fmt.Fprintf(&b, "- **Current Price**: $%s USD\n", commaFloat(q.RegularMarketPrice, 2))
	fmt.Fprintf(&b, "- **24h Change**: %s%%\n", fmtFloatPtr(q.RegularMarketChangePercent))
	fmt.Fprintf(&b, "- **24h Volume**: %s\n", fmtIntPtr(q.RegularMarketVolume))
	fmt.Fprintf(&b, "- **Market Cap**: $%s USD\n", commaIntPtr(q.MarketCap))
	fmt.Fprintf(&b, "- **Circulating Supply**: %s\n", commaFloatPtr(q.CirculatingSupply, 0))

	return &Report{Symbol: symbol, Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *CryptoPriceTool) Call(ctx context.Context, input string) (string, error) {
	var req CryptoRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
