package api

import (
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/datatable"
)

// DataAnalyzeRequest is the body of the data analysis route. The API
// key falls back to the OPENAI_API_KEY environment variable.
type DataAnalyzeRequest struct {
	DataContent  string `json:"data_content" binding:"required"`
	UserQuery    string `json:"user_query" binding:"required"`
	OpenAIAPIKey string `json:"openai_api_key"`
}

// DataPreprocessRequest is the body of the CSV preprocessing route.
type DataPreprocessRequest struct {
	CSVContent string `json:"csv_content" binding:"required"`
}

// DataResponse wraps a data analysis report with the response
// timestamp. The analysis route echoes a preview of the submitted
// data.
type DataResponse struct {
	DataContent string `json:"data_content,omitempty"`
	Query       string `json:"query,omitempty"`
	Result      string `json:"result"`
	Timestamp   string `json:"timestamp"`
}

func dataResponse(c *gin.Context, res *datatable.Report, err error) {
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{
		Query:     res.Query,
		Result:    res.Result,
		Timestamp: timestamp(),
	})
}

// handleDataAnalyze requires an OpenAI API key up front, matching the
// configuration surface of the hosted analysis backends even though
// the built-in analysis runs locally.
func (s *Server) handleDataAnalyze(c *gin.Context) {
	var req DataAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	openaiKey := values.StringsCoalesce(req.OpenAIAPIKey, os.Getenv("OPENAI_API_KEY"))
	if openaiKey == "" {
		badRequest(c, errors.New("OpenAI API key is required for data analysis"))
		return
	}

	res, err := s.data.Analyze.Run(c.Request.Context(), &datatable.AnalyzeRequest{
		DataContent:  req.DataContent,
		UserQuery:    req.UserQuery,
		OpenAIAPIKey: openaiKey,
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{
		DataContent: slices.StringUpto(req.DataContent, 100) + "...",
		Query:       res.Query,
		Result:      res.Result,
		Timestamp:   timestamp(),
	})
}

func (s *Server) handleDataPreprocess(c *gin.Context) {
	var req DataPreprocessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.data.Preprocess.Run(c.Request.Context(), &datatable.PreprocessRequest{CSVContent: req.CSVContent})
	dataResponse(c, res, err)
}

// handleDataStatus takes no request body.
func (s *Server) handleDataStatus(c *gin.Context) {
	res, err := s.data.Status.Run(c.Request.Context(), &datatable.StatusRequest{})
	dataResponse(c, res, err)
}
