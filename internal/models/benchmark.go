package models

// Category is the openness classification of a model
type Category string

// Category constants
const (
	CategoryOpen   Category = "Open"
	CategoryClosed Category = "Closed"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c == CategoryOpen || c == CategoryClosed
}

// Model represents a registered language model
type Model struct {
	ID         int64    `json:"id,omitempty" db:"id"`
	Name       string   `json:"name" db:"name"`
	Params     *float64 `json:"params" db:"params"` // Billions of parameters, unknown for most closed models
	Author     *string  `json:"author" db:"author"`
	OpenClosed Category `json:"openClosed" db:"open_closed"`
}

// Benchmark represents a benchmark suite scores are reported against
type Benchmark struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Result represents one reported score
type Result struct {
	ID          int64   `json:"id,omitempty" db:"id"`
	Date        string  `json:"date" db:"date"` // YYYY-MM
	ModelName   string  `json:"modelName" db:"model_name"`
	BenchmarkID string  `json:"benchmarkId" db:"benchmark_id"`
	Score       float64 `json:"score" db:"score"`
}

// Observation is a result joined with its model's category
type Observation struct {
	Date        string   `json:"date" db:"date"` // YYYY-MM
	ModelName   string   `json:"name" db:"model_name"`
	BenchmarkID string   `json:"benchmarkId" db:"benchmark_id"`
	Score       float64  `json:"score" db:"score"`
	Category    Category `json:"openClosed" db:"open_closed"`
}

// AllData is the full store snapshot served to the dashboard
type AllData struct {
	Models     []Model     `json:"models"`
	Benchmarks []Benchmark `json:"benchmarks"`
	Results    []Result    `json:"results"`
}

// StoreStatus summarises the contents of the backing store
type StoreStatus struct {
	Driver         string `json:"driver"`
	ModelCount     int64  `json:"modelCount"`
	BenchmarkCount int64  `json:"benchmarkCount"`
	ResultCount    int64  `json:"resultCount"`
}
