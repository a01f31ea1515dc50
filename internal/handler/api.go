package handler

import (
	"errors"
	"net/http"

	"sentiment-service/internal/middleware"
	"sentiment-service/internal/models"
	"sentiment-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the health check.
const Version = "1.0.0"

// Handler serves the prediction and explanation API.
type Handler struct {
	analyzer *service.Analyzer
	logger   *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(analyzer *service.Analyzer, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// RegisterRoutes registers the inference routes and the health check.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/predict", h.Predict)
		api.POST("/explain", h.Explain)
		api.POST("/analyze", h.Analyze)
		api.GET("/model/info", h.ModelInfo)
	}

	r.GET("/health", h.HealthCheck)
}

// Predict classifies a single text.
func (h *Handler) Predict(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyzer.Predict(req.Text)
	if err != nil {
		h.respondError(c, "Failed to predict", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Explain returns the ranked token contributions for a text.
func (h *Handler) Explain(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	explanation, err := h.analyzer.Explain(req.Text, req.TopN)
	if err != nil {
		h.respondError(c, "Failed to explain", err)
		return
	}

	c.JSON(http.StatusOK, explanation)
}

// Analyze runs prediction and explanation together.
func (h *Handler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.analyzer.Analyze(middleware.GetRequestID(c), req.Text, req.TopN)
	if err != nil {
		h.respondError(c, "Failed to analyze", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ModelInfo describes the served artifacts.
func (h *Handler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyzer.ModelInfo())
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	info := h.analyzer.ModelInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "sentiment-service",
		"version":       Version,
		"model_version": info.Version,
	})
}

// respondError maps analyzer errors onto HTTP statuses. Input errors are the
// caller's fault; an unsupported model cannot be explained at all.
func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyInput), errors.Is(err, models.ErrInvalidTopN):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnsupportedModel):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
