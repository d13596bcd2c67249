// Package api exposes the tools over a REST surface: one route per
// tool operation, the agent chat endpoint and a health check. Every
// route binds a JSON body, runs the tool and wraps the report with a
// timestamp; any failure is reported as HTTP 400 with a detail text.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/assistants"
	"github.com/aidekit/aidekit/pkg/metricskey"
	"github.com/aidekit/aidekit/tools/datatable"
	"github.com/aidekit/aidekit/tools/finance"
	"github.com/aidekit/aidekit/tools/mathtool"
	"github.com/aidekit/aidekit/tools/musicgen"
	"github.com/aidekit/aidekit/tools/newsfeed"
	"github.com/aidekit/aidekit/tools/webpage"
)

var logger = xlog.NewPackageLogger("github.com/aidekit/aidekit", "api")

// Version reported by the health endpoint.
const Version = "1.0.0"

// serviceNames lists the capabilities reported by the health endpoint.
var serviceNames = []string{"math", "finance", "news", "music", "data_analysis", "web_scraping"}

// Config carries the server dependencies. Nil toolkits are replaced
// with default instances. A nil Assistant leaves the agent chat route
// unconfigured; it responds with an error until an assistant is wired.
type Config struct {
	Calculator *mathtool.Tool
	Finance    *finance.Toolkit
	News       *newsfeed.Toolkit
	Music      *musicgen.Toolkit
	Data       *datatable.Toolkit
	Web        *webpage.Toolkit
	Assistant  assistants.IAssistant

	// AllowedOrigins restricts cross origin requests. Empty allows
	// all origins.
	AllowedOrigins []string
}

// Server routes REST requests to the tools.
type Server struct {
	router    *gin.Engine
	calc      *mathtool.Tool
	finance   *finance.Toolkit
	news      *newsfeed.Toolkit
	music     *musicgen.Toolkit
	data      *datatable.Toolkit
	web       *webpage.Toolkit
	assistant assistants.IAssistant
}

// New creates the API server.
func New(cfg Config) (*Server, error) {
	var err error
	if cfg.Calculator == nil {
		if cfg.Calculator, err = mathtool.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create calculator tool")
		}
	}
	if cfg.Finance == nil {
		if cfg.Finance, err = finance.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create finance toolkit")
		}
	}
	if cfg.News == nil {
		if cfg.News, err = newsfeed.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create news toolkit")
		}
	}
	if cfg.Music == nil {
		if cfg.Music, err = musicgen.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create music toolkit")
		}
	}
	if cfg.Data == nil {
		if cfg.Data, err = datatable.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create data toolkit")
		}
	}
	if cfg.Web == nil {
		if cfg.Web, err = webpage.New(); err != nil {
			return nil, errors.WithMessage(err, "failed to create web toolkit")
		}
	}

	s := &Server{
		calc:      cfg.Calculator,
		finance:   cfg.Finance,
		news:      cfg.News,
		music:     cfg.Music,
		data:      cfg.Data,
		web:       cfg.Web,
		assistant: cfg.Assistant,
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	s.router = router
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	root := s.router.Group("/api")
	root.GET("/health", s.handleHealth)

	math := root.Group("/math")
	math.POST("/add", s.handleMath(mathtool.OpAdd))
	math.POST("/subtract", s.handleMath(mathtool.OpSubtract))
	math.POST("/multiply", s.handleMath(mathtool.OpMultiply))
	math.POST("/divide", s.handleMath(mathtool.OpDivide))

	fin := root.Group("/finance")
	fin.POST("/stock-price", s.handleStockPrice)
	fin.POST("/stock-fundamentals", s.handleFundamentals)
	fin.POST("/crypto-price", s.handleCryptoPrice)
	fin.POST("/analyst-recommendations", s.handleRecommendations)
	fin.POST("/market-news", s.handleMarketNews)
	fin.POST("/portfolio-value", s.handlePortfolioValue)
	fin.POST("/economic-indicators", s.handleEconomicIndicators)

	news := root.Group("/news")
	news.POST("/search", s.handleNewsSearch)
	news.POST("/breaking", s.handleNewsCategory(s.news.BreakingNews))
	news.POST("/tech", s.handleNewsCategory(s.news.TechNews))
	news.POST("/business", s.handleNewsCategory(s.news.BusinessNews))
	news.POST("/sports", s.handleNewsCategory(s.news.SportsNews))
	news.POST("/science", s.handleNewsCategory(s.news.ScienceNews))
	news.POST("/company", s.handleCompanyNews)
	news.POST("/summary", s.handleNewsSummary)

	music := root.Group("/music")
	music.POST("/generate", s.handleMusicGenerate)
	music.POST("/status", s.handleMusicStatus)

	data := root.Group("/data")
	data.POST("/analyze", s.handleDataAnalyze)
	data.POST("/preprocess", s.handleDataPreprocess)
	data.POST("/status", s.handleDataStatus)

	web := root.Group("/web")
	web.POST("/scrape", s.handleWebScrape)
	web.POST("/search", s.handleWebSearch)

	agent := root.Group("/agent")
	agent.POST("/chat", s.handleAgentChat)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// badRequest reports a binding or tool error as HTTP 400.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
}

// timestamp is the response timestamp of the tool routes.
func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// requestLogger counts every request and traces it with its route,
// status and duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := values.StringsCoalesce(c.FullPath(), c.Request.URL.Path)
		status := c.Writer.Status()
		metricskey.StatsAPIRequests.IncrCounter(1, route, strconv.Itoa(status))
		logger.ContextKV(c.Request.Context(), xlog.DEBUG,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"elapsed", time.Since(started).String(),
		)
	}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Version   string   `json:"version"`
	Services  []string `json:"services"`
}

// handleHealth reports a static healthy payload. Upstream providers
// are not probed; a missing API key surfaces on the tool routes.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: timestamp(),
		Version:   Version,
		Services:  serviceNames,
	})
}
