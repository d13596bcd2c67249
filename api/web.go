package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/webpage"
)

// WebScrapeRequest is the body of the website scraping route.
type WebScrapeRequest struct {
	URL    string `json:"url" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
}

// WebSearchRequest is the body of the web search route.
type WebSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// WebResponse wraps a web report with the response timestamp. Result
// is a string for the title, page-text and search branches, and a
// string list for the headings and links branches.
type WebResponse struct {
	URL       string `json:"url,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	Query     string `json:"query,omitempty"`
	Result    any    `json:"result"`
	Timestamp string `json:"timestamp"`
}

func webResponse(c *gin.Context, res *webpage.Report, err error) {
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, WebResponse{
		URL:       res.URL,
		Prompt:    res.Prompt,
		Query:     res.Query,
		Result:    res.Result,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleWebScrape(c *gin.Context) {
	var req WebScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.web.Scrape.Run(c.Request.Context(), &webpage.ScrapeRequest{
		URL:    req.URL,
		Prompt: req.Prompt,
	})
	webResponse(c, res, err)
}

func (s *Server) handleWebSearch(c *gin.Context) {
	var req WebSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.web.SearchWeb.Run(c.Request.Context(), &webpage.SearchRequest{Query: req.Query})
	webResponse(c, res, err)
}
