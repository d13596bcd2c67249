package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/finance"
)

// SymbolRequest is the body of the symbol-based finance routes.
type SymbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// MarketNewsRequest is the body of the market news route. An empty
// query reports on the overall stock market.
type MarketNewsRequest struct {
	Query string `json:"query"`
}

// PortfolioRequest is the body of the portfolio valuation route.
type PortfolioRequest struct {
	Holdings string `json:"holdings" binding:"required"`
}

// FinanceResponse wraps a finance report with the response timestamp.
type FinanceResponse struct {
	Symbol    string `json:"symbol,omitempty"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

func financeResponse(c *gin.Context, res *finance.Report, err error) {
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, FinanceResponse{
		Symbol:    res.Symbol,
		Result:    res.Result,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleStockPrice(c *gin.Context) {
	var req SymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.StockPrice.Run(c.Request.Context(), &finance.StockRequest{Symbol: req.Symbol})
	financeResponse(c, res, err)
}

func (s *Server) handleFundamentals(c *gin.Context) {
	var req SymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.Fundamentals.Run(c.Request.Context(), &finance.StockRequest{Symbol: req.Symbol})
	financeResponse(c, res, err)
}

func (s *Server) handleCryptoPrice(c *gin.Context) {
	var req SymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.CryptoPrice.Run(c.Request.Context(), &finance.CryptoRequest{Symbol: req.Symbol})
	financeResponse(c, res, err)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	var req SymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.Recommendations.Run(c.Request.Context(), &finance.StockRequest{Symbol: req.Symbol})
	financeResponse(c, res, err)
}

func (s *Server) handleMarketNews(c *gin.Context) {
	var req MarketNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.MarketNews.Run(c.Request.Context(), &finance.MarketNewsRequest{Query: req.Query})
	financeResponse(c, res, err)
}

func (s *Server) handlePortfolioValue(c *gin.Context) {
	var req PortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.finance.Portfolio.Run(c.Request.Context(), &finance.PortfolioRequest{Holdings: req.Holdings})
	financeResponse(c, res, err)
}

// handleEconomicIndicators takes no request body.
func (s *Server) handleEconomicIndicators(c *gin.Context) {
	res, err := s.finance.EconomicIndicators.Run(c.Request.Context(), &finance.IndicatorsRequest{})
	financeResponse(c, res, err)
}
