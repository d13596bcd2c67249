package api

import (
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/musicgen"
)

// MusicGenerateRequest is the body of the music generation route. The
// API keys fall back to the OPENAI_API_KEY and MODELSLAB_API_KEY
// environment variables.
type MusicGenerateRequest struct {
	Prompt          string `json:"prompt" binding:"required"`
	OpenAIAPIKey    string `json:"openai_api_key"`
	ModelsLabAPIKey string `json:"models_lab_api_key"`
}

// MusicResponse wraps a music report with the response timestamp.
type MusicResponse struct {
	Prompt    string `json:"prompt,omitempty"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

func musicResponse(c *gin.Context, res *musicgen.Report, err error) {
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, MusicResponse{
		Prompt:    res.Prompt,
		Result:    res.Result,
		Timestamp: timestamp(),
	})
}

// handleMusicGenerate requires both API keys up front so a half
// configured server reports the setup problem instead of a partial
// generation attempt.
func (s *Server) handleMusicGenerate(c *gin.Context) {
	var req MusicGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	openaiKey := values.StringsCoalesce(req.OpenAIAPIKey, os.Getenv("OPENAI_API_KEY"))
	modelsLabKey := values.StringsCoalesce(req.ModelsLabAPIKey, os.Getenv("MODELSLAB_API_KEY"))
	if openaiKey == "" || modelsLabKey == "" {
		badRequest(c, errors.New("Both OpenAI and ModelsLab API keys are required for music generation"))
		return
	}

	res, err := s.music.Generate.Run(c.Request.Context(), &musicgen.GenerateRequest{
		Prompt:          req.Prompt,
		OpenAIAPIKey:    openaiKey,
		ModelsLabAPIKey: modelsLabKey,
	})
	musicResponse(c, res, err)
}

// handleMusicStatus takes no request body.
func (s *Server) handleMusicStatus(c *gin.Context) {
	res, err := s.music.Status.Run(c.Request.Context(), &musicgen.StatusRequest{})
	musicResponse(c, res, err)
}
