// Package finance provides market data tools backed by the Yahoo Finance
// quote APIs: stock prices, fundamentals, analyst recommendations, crypto
// prices, portfolio valuation, economic indicators and market news.
package finance

import (
	"github.com/invopop/jsonschema"
)

// Tool names, as exposed to the agent.
const (
	StockPriceToolName         = "get_stock_price"
	FundamentalsToolName       = "get_stock_fundamentals"
	RecommendationsToolName    = "get_analyst_recommendations"
	MarketNewsToolName         = "get_market_news"
	PortfolioToolName          = "calculate_portfolio_value"
	CryptoPriceToolName        = "get_crypto_price"
	EconomicIndicatorsToolName = "get_economic_indicators"
)

// StockRequest is the input of the symbol-based tools.
type StockRequest struct {
	Symbol string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=The stock ticker symbol such as AAPL or TSLA."`
}

// Report is the formatted output of a finance tool.
type Report struct {
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Result string `json:"result" yaml:"result"`
}

// GetContent implements the chatmodel.ContentProvider interface.
func (r *Report) GetContent() string {
	return r.Result
}

// tool carries the descriptor shared by all finance tools.
type tool struct {
	name        string
	description string
	funcParams  *jsonschema.Schema
}

// Name returns the name of the tool.
func (t *tool) Name() string {
	return t.name
}

// Description returns the description of the tool.
func (t *tool) Description() string {
	return t.description
}

// Parameters returns the JSON schema of the tool input.
func (t *tool) Parameters() *jsonschema.Schema {
	return t.funcParams
}
