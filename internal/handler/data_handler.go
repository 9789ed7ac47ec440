package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/pkg/response"
)

// DataHandler handles whole-store reads
type DataHandler struct {
	service *service.DataService
}

// NewDataHandler creates a new data handler
func NewDataHandler(service *service.DataService) *DataHandler {
	return &DataHandler{service: service}
}

// Health handles GET /health
func (h *DataHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "LLM benchmarks API is running",
	})
}

// GetAllData handles GET /api/getAllData
func (h *DataHandler) GetAllData(c *gin.Context) {
	data, err := h.service.GetAllData(c.Request.Context())
	if err != nil {
		fail(c, "Failed to load data", err)
		return
	}
	response.Success(c, data)
}

// CheckFiles handles GET /api/checkFiles
func (h *DataHandler) CheckFiles(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		fail(c, "Failed to read store status", err)
		return
	}
	response.Success(c, status)
}

// Backup handles POST /api/backup
func (h *DataHandler) Backup(c *gin.Context) {
	path, err := h.service.Backup(c.Request.Context())
	if err != nil {
		fail(c, "Failed to back up store", err)
		return
	}
	response.Success(c, gin.H{"location": path})
}
