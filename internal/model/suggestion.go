package model

// Suggestion is the scoring engine's output for one criterion.
type Suggestion struct {
	CriterionID   string        `json:"criterion_id"`
	Category      Category      `json:"category"`
	Score         float64       `json:"score"`
	Confidence    float64       `json:"confidence"`
	Reasoning     string        `json:"reasoning"`
	BenchmarkData BenchmarkData `json:"benchmark_data"`
	RiskFactors   []string      `json:"risk_factors"`
	Opportunities []string      `json:"opportunities"`
	Adjustments   []Adjustment  `json:"adjustments,omitempty"`
}

// BenchmarkData places a suggestion in context against comparable deals.
// The figures are illustrative, not authoritative.
type BenchmarkData struct {
	PortfolioAverage float64 `json:"portfolio_average"`
	IndustryMedian   float64 `json:"industry_median"`
	TopQuartile      float64 `json:"top_quartile"`
	SampleSize       int     `json:"sample_size"`
	DataSource       string  `json:"data_source"`
}

// Adjustment records one scoring rule that fired.
type Adjustment struct {
	Rule  string  `json:"rule"`
	Delta float64 `json:"delta"`
}

// SectorBenchmark is the static reference data for one sector.
type SectorBenchmark struct {
	Sector      string               `json:"sector" yaml:"sector"`
	Financial   FinancialBenchmark   `json:"financial" yaml:"financial"`
	Operational OperationalBenchmark `json:"operational" yaml:"operational"`
	Strategic   StrategicBenchmark   `json:"strategic" yaml:"strategic"`
	Risk        RiskBenchmark        `json:"risk" yaml:"risk"`
}

// AverageScore returns the benchmark average for a category.
func (b SectorBenchmark) AverageScore(c Category) float64 {
	switch c {
	case CategoryFinancial:
		return b.Financial.AverageScore
	case CategoryOperational:
		return b.Operational.AverageScore
	case CategoryStrategic:
		return b.Strategic.AverageScore
	case CategoryRisk:
		return b.Risk.AverageScore
	}
	return 0
}

// FinancialBenchmark holds sector return expectations.
type FinancialBenchmark struct {
	AverageScore    float64  `json:"average_score" yaml:"average_score"`
	AverageIRR      float64  `json:"average_irr" yaml:"average_irr"`
	AverageMultiple float64  `json:"average_multiple" yaml:"average_multiple"`
	SuccessFactors  []string `json:"success_factors" yaml:"success_factors"`
	CommonRisks     []string `json:"common_risks" yaml:"common_risks"`
}

// OperationalBenchmark holds sector operating indicators.
type OperationalBenchmark struct {
	AverageScore  float64  `json:"average_score" yaml:"average_score"`
	KeyIndicators []string `json:"key_indicators" yaml:"key_indicators"`
	CommonRisks   []string `json:"common_risks" yaml:"common_risks"`
}

// StrategicBenchmark holds sector strategic themes.
type StrategicBenchmark struct {
	AverageScore   float64  `json:"average_score" yaml:"average_score"`
	SuccessFactors []string `json:"success_factors" yaml:"success_factors"`
	CommonRisks    []string `json:"common_risks" yaml:"common_risks"`
}

// RiskBenchmark holds sector risk expectations.
type RiskBenchmark struct {
	AverageScore  float64  `json:"average_score" yaml:"average_score"`
	AverageRisk   float64  `json:"average_risk" yaml:"average_risk"`
	KeyIndicators []string `json:"key_indicators" yaml:"key_indicators"`
	CommonRisks   []string `json:"common_risks" yaml:"common_risks"`
}
