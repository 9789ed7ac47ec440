package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/pkg/response"
)

// AdminHandler handles store mutations
type AdminHandler struct {
	results    *service.ResultService
	benchmarks *service.BenchmarkService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(results *service.ResultService, benchmarks *service.BenchmarkService) *AdminHandler {
	return &AdminHandler{results: results, benchmarks: benchmarks}
}

// SaveBenchmarkData handles POST /api/saveBenchmarkData
func (h *AdminHandler) SaveBenchmarkData(c *gin.Context) {
	var req models.SaveResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	result, err := h.results.SaveResult(c.Request.Context(), req)
	if err != nil {
		fail(c, "Failed to save result", err)
		return
	}
	response.Created(c, result)
}

// DeleteModelData handles POST /api/deleteModelData
func (h *AdminHandler) DeleteModelData(c *gin.Context) {
	var req models.DeleteModelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	removed, err := h.results.DeleteModels(c.Request.Context(), req.ModelNames)
	if err != nil {
		fail(c, "Failed to delete models", err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// AddBenchmark handles POST /api/addBenchmark
func (h *AdminHandler) AddBenchmark(c *gin.Context) {
	var req models.BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	b, err := h.benchmarks.AddBenchmark(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "Failed to add benchmark", err)
		return
	}
	response.Created(c, b)
}

// DeleteBenchmark handles POST /api/deleteBenchmark
func (h *AdminHandler) DeleteBenchmark(c *gin.Context) {
	var req models.BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err)
		return
	}

	b, err := h.benchmarks.DeleteBenchmark(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "Failed to delete benchmark", err)
		return
	}
	response.Success(c, b)
}
