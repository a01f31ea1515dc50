package handler

import (
	"net/http"
	"strings"

	"sentiment-service/internal/dataset"
	"sentiment-service/internal/models"
	"sentiment-service/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatasetHandler handles labeled dataset administration.
type DatasetHandler struct {
	repo   repository.DatasetRepository
	logger *zap.Logger
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(repo repository.DatasetRepository, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes mounts the dataset routes behind auth.
func (h *DatasetHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	datasets := r.Group("/api/v1/datasets", auth)
	{
		datasets.POST("/entries", h.CreateEntry)
		datasets.GET("/entries", h.GetEntries)
		datasets.GET("/stats", h.GetStats)
		datasets.GET("/export", h.ExportCSV)
	}
}

// CreateEntry stores one manually labeled text.
// POST /api/v1/datasets/entries
func (h *DatasetHandler) CreateEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrEmptyInput.Error()})
		return
	}
	label, err := models.ParseLabel(req.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}
	entry := &models.DatasetEntry{
		Text:        req.Text,
		Label:       string(label),
		Source:      source,
		SourceLabel: req.Label,
	}

	if _, err := h.repo.SaveEntries(c.Request.Context(), []*models.DatasetEntry{entry}); err != nil {
		h.logger.Error("Failed to save dataset entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dataset entry"})
		return
	}

	h.logger.Info("Dataset entry added",
		zap.Int64("id", entry.ID),
		zap.String("label", entry.Label),
		zap.String("username", c.GetString("username")))
	c.JSON(http.StatusCreated, entry)
}

// GetEntries returns stored entries, optionally filtered by label.
// GET /api/v1/datasets/entries?label=suicidal
func (h *DatasetHandler) GetEntries(c *gin.Context) {
	var (
		entries []*models.DatasetEntry
		err     error
	)
	if raw := c.Query("label"); raw != "" {
		label, perr := models.ParseLabel(raw)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		entries, err = h.repo.GetEntriesByLabel(c.Request.Context(), string(label))
	} else {
		entries, err = h.repo.GetAllEntries(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to get dataset entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dataset entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetStats returns per-label counts.
// GET /api/v1/datasets/stats
func (h *DatasetHandler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get dataset stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dataset stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCSV streams the stored dataset as text,label CSV.
// GET /api/v1/datasets/export
func (h *DatasetHandler) ExportCSV(c *gin.Context) {
	entries, err := h.repo.GetAllEntries(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export dataset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=dataset.csv")

	if err := dataset.WriteCSV(c.Writer, entries); err != nil {
		h.logger.Error("Failed to write CSV", zap.Error(err))
	}
}
