package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/symptomai/symptomai-be/internal/api/middleware"
	"github.com/symptomai/symptomai-be/internal/engine"
)

// AnalyzeHandler exposes the symptom matching engine over HTTP
type AnalyzeHandler struct {
	engine *engine.Engine
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(eng *engine.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{engine: eng}
}

// AnalyzeRequest represents the analysis request body
type AnalyzeRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

// AnalyzeResponse wraps the engine result with request metadata
type AnalyzeResponse struct {
	engine.Result
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Analyze handles symptom analysis requests
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symptoms field is required"})
		return
	}

	// The engine never fails on user input: guidance and no-match paths
	// come back as ordinary results.
	result := h.engine.Analyze(req.Symptoms)

	c.JSON(http.StatusOK, AnalyzeResponse{
		Result:    result,
		UserID:    middleware.GetUserID(c),
		Timestamp: time.Now().UTC(),
	})
}
