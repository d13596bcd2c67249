package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidekit/aidekit/tools/mathtool"
)

// MathRequest is the body of the math routes. Pointers keep zero
// operands distinguishable from missing ones under the required tag.
type MathRequest struct {
	A *float64 `json:"a" binding:"required"`
	B *float64 `json:"b" binding:"required"`
}

// handleMath serves a math route. The operation is implied by the
// route path; the response is the calculator result as is.
func (s *Server) handleMath(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MathRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := s.calc.Run(c.Request.Context(), &mathtool.CalcRequest{
			Operation: operation,
			A:         *req.A,
			B:         *req.B,
		})
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
