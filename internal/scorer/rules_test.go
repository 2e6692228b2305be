package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/deal-engine/internal/benchmark"
	"github.com/sells-group/deal-engine/internal/model"
)

func techBenchmark(t *testing.T) model.SectorBenchmark {
	t.Helper()
	b, known := benchmark.Default().Lookup("Technology")
	assert.True(t, known)
	return b
}

func TestApplyRulesFirstMatchWinsPerGroup(t *testing.T) {
	in := RuleInput{Opportunity: model.Opportunity{ExpectedIRR: ptrFloat64(40)}, Benchmark: techBenchmark(t)}
	delta, applied := applyRules(financialRules(), in)

	// 40/24.5 matches both > 1.2 and > 1.1, only the first applies.
	assert.InDelta(t, 1.5, delta, 1e-9)
	assert.Equal(t, []model.Adjustment{{Rule: "irr_well_above_sector", Delta: 1.5}}, applied)
}

func TestFinancialIRRBands(t *testing.T) {
	bench := techBenchmark(t)
	tests := []struct {
		irr  float64
		want float64
	}{
		{30, 1.5},   // 1.224
		{27.5, 1.0}, // 1.122
		{24.5, 0},   // 1.0
		{21, -1.0},  // 0.857
		{15, -1.5},  // 0.612
	}
	for _, tt := range tests {
		in := RuleInput{Opportunity: model.Opportunity{ExpectedIRR: ptrFloat64(tt.irr)}, Benchmark: bench}
		delta, _ := applyRules(financialRules()[:1], in)
		assert.InDelta(t, tt.want, delta, 1e-9, "irr %.1f", tt.irr)
	}
}

func TestFinancialMultipleBands(t *testing.T) {
	bench := techBenchmark(t)
	tests := []struct {
		multiple float64
		want     float64
	}{
		{4.0, 1.0},
		{3.6, 0.5},
		{3.2, 0},
		{2.8, -0.5},
		{2.0, -1.0},
	}
	for _, tt := range tests {
		in := RuleInput{Opportunity: model.Opportunity{ExpectedMultiple: ptrFloat64(tt.multiple)}, Benchmark: bench}
		delta, _ := applyRules(financialRules()[1:2], in)
		assert.InDelta(t, tt.want, delta, 1e-9, "multiple %.1f", tt.multiple)
	}
}

func TestDealSizeRulesByCategory(t *testing.T) {
	tests := []struct {
		price     float64
		financial float64
		risk      float64
	}{
		{2_000_000, -0.3, -0.8},
		{8_000_000, -0.3, 0},
		{50_000_000, 0, 0.3},
		{100_000_000, 0, 0.3},
		{150_000_000, 0.5, -0.5},
		{300_000_000, 0.5, -0.5},
	}
	for _, tt := range tests {
		in := RuleInput{Opportunity: model.Opportunity{AskPrice: tt.price}}
		fin, _ := applyRules(financialRules()[2:], in)
		risk, _ := applyRules(riskRules()[2:], in)
		assert.InDelta(t, tt.financial, fin, 1e-9, "financial %.0f", tt.price)
		assert.InDelta(t, tt.risk, risk, 1e-9, "risk %.0f", tt.price)
	}
}

func TestExpectedRiskBands(t *testing.T) {
	tests := []struct {
		risk float64
		want float64
	}{
		{0.05, 1.5},
		{0.12, 1.0},
		{0.18, 0},
		{0.22, -1.0},
		{0.30, -1.5},
	}
	for _, tt := range tests {
		in := RuleInput{Opportunity: model.Opportunity{ExpectedRisk: ptrFloat64(tt.risk)}}
		delta, _ := applyRules(riskRules()[:1], in)
		assert.InDelta(t, tt.want, delta, 1e-9, "risk %.2f", tt.risk)
	}
}

func TestGeographyRules(t *testing.T) {
	tests := []struct {
		geo         string
		operational float64
		risk        float64
	}{
		{"North America", 0.3, 0.5},
		{"USA", 0.3, 0.5},
		{"Western Europe", 0.2, 0.5},
		{"Southeast Asia", 0.1, 0},
		{"Emerging Markets", -0.5, -1.0},
		{"Emerging Asia", -0.5, -1.0},
		{"Latin America", -0.5, -1.0},
		{"", 0, 0},
	}
	for _, tt := range tests {
		in := RuleInput{Opportunity: model.Opportunity{Geography: tt.geo}}
		ops, _ := applyRules(operationalRules()[1:2], in)
		risk, _ := applyRules(riskRules()[1:2], in)
		assert.InDelta(t, tt.operational, ops, 1e-9, "operational %q", tt.geo)
		assert.InDelta(t, tt.risk, risk, 1e-9, "risk %q", tt.geo)
	}
}

func TestVintageAndAssetTypeRules(t *testing.T) {
	tests := []struct {
		name  string
		age   int
		asset string
		want  float64
	}{
		{"new direct", 0, "direct", 0.8},
		{"mid fund", 3, "fund", -0.2},
		{"old co-invest", 6, "co-investment", -0.5},
		{"unknown vintage", -1, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := RuleInput{Opportunity: model.Opportunity{AssetType: tt.asset}, VintageAge: tt.age}
			groups := []RuleGroup{operationalRules()[0], operationalRules()[2]}
			delta, _ := applyRules(groups, in)
			assert.InDelta(t, tt.want, delta, 1e-9)
		})
	}
}

func TestStrategicTechnologyRequiresAIConfidence(t *testing.T) {
	in := RuleInput{Opportunity: model.Opportunity{Sector: "Technology"}}
	delta, applied := applyRules(strategicRules()[:1], in)
	assert.Zero(t, delta)
	assert.Empty(t, applied)

	in.Opportunity.AIConfidence = ptrFloat64(0.6)
	delta, _ = applyRules(strategicRules()[:1], in)
	assert.InDelta(t, -0.8, delta, 1e-9)

	in.Opportunity.AIConfidence = ptrFloat64(0.75)
	delta, _ = applyRules(strategicRules()[:1], in)
	assert.Zero(t, delta)
}
