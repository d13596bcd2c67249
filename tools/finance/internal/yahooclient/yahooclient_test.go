package yahooclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Quote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "AAPL,MSFT", r.URL.Query().Get("symbols"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"quoteResponse": {
				"result": [
					{
						"symbol": "AAPL",
						"longName": "Apple Inc.",
						"currency": "USD",
						"regularMarketPrice": 233.12,
						"regularMarketPreviousClose": 231.5,
						"marketCap": 3500000000000
					},
					{
						"symbol": "MSFT",
						"regularMarketPrice": 428.9
					}
				],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	quotes, err := client.Quote(context.Background(), "AAPL", "MSFT")
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "Apple Inc.", quotes[0].LongName)
	assert.Equal(t, 233.12, quotes[0].RegularMarketPrice)
	require.NotNil(t, quotes[0].RegularMarketPreviousClose)
	assert.Equal(t, 231.5, *quotes[0].RegularMarketPreviousClose)
	require.NotNil(t, quotes[0].MarketCap)
	assert.Equal(t, int64(3500000000000), *quotes[0].MarketCap)

	// fields absent from the payload stay nil
	assert.Nil(t, quotes[1].MarketCap)
	assert.Nil(t, quotes[1].RegularMarketVolume)
}

func Test_QuoteOne(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbols") == "UNKNOWN" {
			_, _ = w.Write([]byte(`{"quoteResponse": {"result": [], "error": null}}`))
			return
		}
		_, _ = w.Write([]byte(`{"quoteResponse": {"result": [{"symbol": "BTC-USD", "regularMarketPrice": 43250.75}], "error": null}}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))

	q, err := client.QuoteOne(context.Background(), "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 43250.75, q.RegularMarketPrice)

	q, err = client.QuoteOne(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, q)
}

func Test_Quote_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))

	_, err := client.Quote(context.Background(), "AAPL")
	assert.EqualError(t, err, "API returned unexpected status code: 429")

	_, err = client.Quote(context.Background())
	assert.EqualError(t, err, "no symbols provided")
}

func Test_GradeHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/MSFT", r.URL.Path)
		assert.Equal(t, "upgradeDowngradeHistory", r.URL.Query().Get("modules"))

		_, _ = w.Write([]byte(`{
			"quoteSummary": {
				"result": [
					{
						"upgradeDowngradeHistory": {
							"history": [
								{"epochGradeDate": 1736937000, "firm": "Morgan Stanley", "toGrade": "Overweight", "fromGrade": "Equal-Weight", "action": "up"},
								{"epochGradeDate": 1736332200, "firm": "UBS", "toGrade": "Buy", "fromGrade": "Buy", "action": "main"}
							]
						}
					}
				],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	history, err := client.GradeHistory(context.Background(), "MSFT")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Morgan Stanley", history[0].Firm)
	assert.Equal(t, "Overweight", history[0].ToGrade)
	assert.Equal(t, "up", history[0].Action)
	assert.Equal(t, int64(1736937000), history[0].EpochGradeDate)
}

func Test_GradeHistory_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary": {"result": null, "error": {"code": "Not Found", "description": "Quote not found for ticker symbol: NOPE"}}}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	_, err := client.GradeHistory(context.Background(), "NOPE")
	assert.EqualError(t, err, "API returned error: Not Found: Quote not found for ticker symbol: NOPE")
}
