package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/newsfeed"
)

// NewsSearchRequest is the body of the news search route.
type NewsSearchRequest struct {
	Topic      string `json:"topic" binding:"required"`
	MaxResults int    `json:"max_results"`
}

// CompanyNewsRequest is the body of the company news route.
type CompanyNewsRequest struct {
	Company string `json:"company" binding:"required"`
}

// NewsSummaryRequest is the body of the news summary route.
type NewsSummaryRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// NewsResponse wraps a news report with the response timestamp. The
// canned category routes report no topic.
type NewsResponse struct {
	Topic     string `json:"topic,omitempty"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

func newsResponse(c *gin.Context, res *newsfeed.Report, err error) {
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, NewsResponse{
		Topic:     res.Topic,
		Result:    res.Result,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleNewsSearch(c *gin.Context) {
	var req NewsSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.news.SearchNews.Run(c.Request.Context(), &newsfeed.SearchRequest{
		Topic:      req.Topic,
		MaxResults: req.MaxResults,
	})
	newsResponse(c, res, err)
}

// handleNewsCategory serves a canned category route. The category is
// implied by the route path and no request body is read.
func (s *Server) handleNewsCategory(t *newsfeed.CategoryNewsTool) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := t.Run(c.Request.Context(), &newsfeed.CategoryRequest{})
		newsResponse(c, res, err)
	}
}

func (s *Server) handleCompanyNews(c *gin.Context) {
	var req CompanyNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.news.CompanyNews.Run(c.Request.Context(), &newsfeed.CompanyRequest{Company: req.Company})
	newsResponse(c, res, err)
}

func (s *Server) handleNewsSummary(c *gin.Context) {
	var req NewsSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.news.NewsSummary.Run(c.Request.Context(), &newsfeed.SummaryRequest{Topic: req.Topic})
	newsResponse(c, res, err)
}
