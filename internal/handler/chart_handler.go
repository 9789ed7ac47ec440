package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/internal/models"
	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/pkg/response"
)

// ChartHandler handles trend charts and model rankings
type ChartHandler struct {
	dashboard *service.DashboardService
	models    *service.ModelService
}

// NewChartHandler creates a new chart handler
func NewChartHandler(dashboard *service.DashboardService, models *service.ModelService) *ChartHandler {
	return &ChartHandler{dashboard: dashboard, models: models}
}

// GetCharts handles GET /api/charts
func (h *ChartHandler) GetCharts(c *gin.Context) {
	var filter models.ChartFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	dashboard, err := h.dashboard.Charts(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to build charts", err)
		return
	}
	response.Success(c, dashboard)
}

// GetChart handles GET /api/charts/:benchmarkId
func (h *ChartHandler) GetChart(c *gin.Context) {
	var filter models.ChartFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	chart, err := h.dashboard.Chart(c.Request.Context(), c.Param("benchmarkId"), filter)
	if err != nil {
		fail(c, "Failed to build chart", err)
		return
	}
	response.Success(c, chart)
}

// GetRankings handles GET /api/models/rankings
func (h *ChartHandler) GetRankings(c *gin.Context) {
	var filter models.RankingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	rankings, err := h.models.Rankings(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to rank models", err)
		return
	}
	response.Success(c, rankings)
}
