package models

// SaveResultRequest is the body of POST /api/saveBenchmarkData
type SaveResultRequest struct {
	ModelName   string   `json:"modelName" binding:"required"`
	BenchmarkID string   `json:"benchmarkId" binding:"required"`
	Score       *float64 `json:"score" binding:"required"`
	Date        string   `json:"date"` // Defaults to the current month
	OpenClosed  Category `json:"openClosed" binding:"required"`
}

// DeleteModelsRequest is the body of POST /api/deleteModelData
type DeleteModelsRequest struct {
	ModelNames []string `json:"modelNames" binding:"required"`
}

// BenchmarkRequest is the body of POST /api/addBenchmark and /api/deleteBenchmark
type BenchmarkRequest struct {
	Name string `json:"name" binding:"required"`
}

// ChartFilter represents query overrides for chart endpoints
type ChartFilter struct {
	Window int    `form:"window"` // Trailing window size
	Months int    `form:"months"` // Months to project
	Clamp  string `form:"clamp"`  // none, unit, range
}

// RankingFilter represents query parameters for model rankings
type RankingFilter struct {
	Sort string `form:"sort"` // averageScore, mostRecent, alphabetical
}

// ModelRanking is one row of the model ranking list
type ModelRanking struct {
	Name         string   `json:"name"`
	OpenClosed   Category `json:"openClosed,omitempty"`
	AverageScore float64  `json:"averageScore"`
	MostRecent   string   `json:"mostRecent"`
	ResultCount  int      `json:"resultCount"`
}
