package finance

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/finance/internal/yahooclient"
)

// Toolkit bundles the finance tools over a shared market data client.
type Toolkit struct {
	StockPrice         *StockPriceTool
	Fundamentals       *FundamentalsTool
	Recommendations    *RecommendationsTool
	MarketNews         *MarketNewsTool
	Portfolio          *PortfolioTool
	CryptoPrice        *CryptoPriceTool
	EconomicIndicators *EconomicIndicatorsTool
}

type options struct {
	quoteBaseURL string
	newsBaseURL  string
	httpClient   *http.Client
}

// Option configures the toolkit.
type Option func(*options)

// WithQuoteBaseURL overrides the market data API base URL.
func WithQuoteBaseURL(baseURL string) Option {
	return func(o *options) {
		o.quoteBaseURL = baseURL
	}
}

// WithNewsBaseURL overrides the news search API base URL.
func WithNewsBaseURL(baseURL string) Option {
	return func(o *options) {
		o.newsBaseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used by all tools.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New creates the finance toolkit.
func New(opts ...Option) (*Toolkit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []yahooclient.Option{}
	if o.quoteBaseURL != "" {
		clientOpts = append(clientOpts, yahooclient.WithBaseURL(o.quoteBaseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, yahooclient.WithHTTPClient(o.httpClient))
	}
	client := yahooclient.New(clientOpts...)

	k := &Toolkit{}
	var err error
	if k.StockPrice, err = newStockPrice(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create stock price tool")
	}
	if k.Fundamentals, err = newFundamentals(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create fundamentals tool")
	}
	if k.Recommendations, err = newRecommendations(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create recommendations tool")
	}
	if k.MarketNews, err = newMarketNews(o.newsBaseURL, o.httpClient); err != nil {
		return nil, errors.WithMessage(err, "failed to create market news tool")
	}
	if k.Portfolio, err = newPortfolio(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create portfolio tool")
	}
	if k.CryptoPrice, err = newCryptoPrice(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create crypto price tool")
	}
	if k.EconomicIndicators, err = newEconomicIndicators(client); err != nil {
		return nil, errors.WithMessage(err, "failed to create economic indicators tool")
	}
	return k, nil
}

// Tools returns the toolkit tools in registration order.
func (k *Toolkit) Tools() []tools.ITool {
	return []tools.ITool{
		k.StockPrice,
		k.Fundamentals,
		k.Recommendations,
		k.MarketNews,
		k.Portfolio,
		k.CryptoPrice,
		k.EconomicIndicators,
	}
}
