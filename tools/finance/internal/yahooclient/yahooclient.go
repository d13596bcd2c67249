// Package yahooclient is a minimal client for the Yahoo Finance quote APIs.
package yahooclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "yahooclient")

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests without a browser-like agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Yahoo Finance quote APIs.
type Client struct {
	baseURL    string
	httpClient Doer
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New returns a new Yahoo Finance client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	return c
}

// Quote is a single result from the v7 quote endpoint.
// Optional fields are pointers so that missing values can render as N/A.
type Quote struct {
	Symbol                     string   `json:"symbol"`
	LongName                   string   `json:"longName"`
	Currency                   string   `json:"currency"`
	RegularMarketPrice         float64  `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	MarketCap                  *int64   `json:"marketCap"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
	TrailingPE                 *float64 `json:"trailingPE"`
	ForwardPE                  *float64 `json:"forwardPE"`
	PegRatio                   *float64 `json:"pegRatio"`
	PriceToBook                *float64 `json:"priceToBook"`
	EnterpriseValue            *int64   `json:"enterpriseValue"`
	TotalRevenue               *int64   `json:"totalRevenue"`
	ProfitMargins              *float64 `json:"profitMargins"`
	OperatingMargins           *float64 `json:"operatingMargins"`
	ReturnOnEquity             *float64 `json:"returnOnEquity"`
	ReturnOnAssets             *float64 `json:"returnOnAssets"`
	DividendYield              *float64 `json:"dividendYield"`
	DividendRate               *float64 `json:"dividendRate"`
	PayoutRatio                *float64 `json:"payoutRatio"`
	CirculatingSupply          *float64 `json:"circulatingSupply"`
}

type responseError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []Quote        `json:"result"`
		Error  *responseError `json:"error"`
	} `json:"quoteResponse"`
}

// Quote fetches quotes for the given symbols in a single call.
// Unknown symbols are absent from the result.
func (c *Client) Quote(ctx context.Context, symbols ...string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, errors.New("no symbols provided")
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		c.baseURL, url.QueryEscape(strings.Join(symbols, ",")))
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	var response quoteResponse
	if err := c.get(ctx, u, &response); err != nil {
		return nil, err
	}
	if respErr := response.QuoteResponse.Error; respErr != nil {
		return nil, errors.Errorf("API returned error: %s: %s", respErr.Code, respErr.Description)
	}
	return response.QuoteResponse.Result, nil
}

// QuoteOne fetches the quote of a single symbol.
// It returns nil without an error when the symbol is unknown.
func (c *Client) QuoteOne(ctx context.Context, symbol string) (*Quote, error) {
	quotes, err := c.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if strings.EqualFold(quotes[i].Symbol, symbol) {
			return &quotes[i], nil
		}
	}
	if len(quotes) > 0 {
		return &quotes[0], nil
	}
	return nil, nil
}

// Grade is one analyst rating change from the upgrade/downgrade history.
type Grade struct {
	EpochGradeDate int64  `json:"epochGradeDate"`
	Firm           string `json:"firm"`
	ToGrade        string `json:"toGrade"`
	FromGrade      string `json:"fromGrade"`
	Action         string `json:"action"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			UpgradeDowngradeHistory struct {
				History []Grade `json:"history"`
			} `json:"upgradeDowngradeHistory"`
		} `json:"result"`
		Error *responseError `json:"error"`
	} `json:"quoteSummary"`
}

// GradeHistory fetches the analyst upgrade and downgrade history of a
// symbol, in the order returned by the API.
func (c *Client) GradeHistory(ctx context.Context, symbol string) ([]Grade, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=upgradeDowngradeHistory",
		c.baseURL, url.PathEscape(symbol))
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	var response quoteSummaryResponse
	if err := c.get(ctx, u, &response); err != nil {
		return nil, err
	}
	if respErr := response.QuoteSummary.Error; respErr != nil {
		return nil, errors.Errorf("API returned error: %s: %s", respErr.Code, respErr.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, nil
	}
	return response.QuoteSummary.Result[0].UpgradeDowngradeHistory.History, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	r, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	if r.StatusCode != http.StatusOK {
		return errors.Errorf("API returned unexpected status code: %d", r.StatusCode)
	}
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
