package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/internal/cache"
	"github.com/jengzang/llm-benchmarks-backend/internal/config"
	"github.com/jengzang/llm-benchmarks-backend/internal/handler"
	"github.com/jengzang/llm-benchmarks-backend/internal/middleware"
	"github.com/jengzang/llm-benchmarks-backend/internal/repository"
	"github.com/jengzang/llm-benchmarks-backend/internal/service"
	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

// Services bundles everything the handlers call into
type Services struct {
	Data       *service.DataService
	Results    *service.ResultService
	Benchmarks *service.BenchmarkService
	Dashboard  *service.DashboardService
	Models     *service.ModelService
}

// NewServices wires the services over one store
func NewServices(cfg *config.Config, store repository.Store, c cache.Cache, m *metrics.Manager) Services {
	data := service.NewDataService(store, c, cfg.Cache.TTL, m)
	return Services{
		Data:       data,
		Results:    service.NewResultService(store, data),
		Benchmarks: service.NewBenchmarkService(store, data),
		Dashboard: service.NewDashboardService(store, service.DashboardSettings{
			Benchmark:        cfg.TrendOptions(),
			Average:          cfg.AverageOptions(),
			AverageNormalize: cfg.Trend.AverageNormalize,
		}, m),
		Models: service.NewModelService(store),
	}
}

// SetupRouter builds the HTTP routes
func SetupRouter(cfg *config.Config, svc Services, m *metrics.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics(m))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	dataHandler := handler.NewDataHandler(svc.Data)
	chartHandler := handler.NewChartHandler(svc.Dashboard, svc.Models)
	adminHandler := handler.NewAdminHandler(svc.Results, svc.Benchmarks)

	r.GET("/health", dataHandler.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	{
		api.GET("/getAllData", dataHandler.GetAllData)
		api.GET("/checkFiles", dataHandler.CheckFiles)

		api.GET("/charts", chartHandler.GetCharts)
		api.GET("/charts/:benchmarkId", chartHandler.GetChart)
		api.GET("/models/rankings", chartHandler.GetRankings)

		if cfg.Admin.Enabled {
			admin := api.Group("", middleware.AdminAuth(cfg.Admin.JWTSecret))
			{
				admin.POST("/saveBenchmarkData", adminHandler.SaveBenchmarkData)
				admin.POST("/deleteModelData", adminHandler.DeleteModelData)
				admin.POST("/addBenchmark", adminHandler.AddBenchmark)
				admin.POST("/deleteBenchmark", adminHandler.DeleteBenchmark)
				admin.POST("/backup", dataHandler.Backup)
			}
		}
	}

	return r
}
