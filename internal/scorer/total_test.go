package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/deal-engine/internal/model"
)

func TestWeightedTotal(t *testing.T) {
	tmpl := model.ScreeningTemplate{Criteria: []model.Criterion{
		{ID: "a", Category: model.CategoryFinancial, MinValue: 0, MaxValue: 10, Weight: 3},
		{ID: "b", Category: model.CategoryRisk, MinValue: 0, MaxValue: 5, Weight: 1},
	}}

	tests := []struct {
		name string
		sugg map[string]model.Suggestion
		want float64
	}{
		{"empty", map[string]model.Suggestion{}, 0},
		{"perfect", map[string]model.Suggestion{"a": {Score: 10}, "b": {Score: 5}}, 100},
		// (0.8*3 + 0.4*1) / 4 = 0.7
		{"weighted", map[string]model.Suggestion{"a": {Score: 8}, "b": {Score: 2}}, 70},
		{"missing criterion skipped", map[string]model.Suggestion{"a": {Score: 5}}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedTotal(tt.sugg, tmpl), 0.01)
		})
	}
}

func TestWeightedTotalZeroWeights(t *testing.T) {
	tmpl := model.ScreeningTemplate{Criteria: []model.Criterion{
		{ID: "a", MinValue: 0, MaxValue: 10},
		{ID: "b", MinValue: 0, MaxValue: 10},
	}}
	got := WeightedTotal(map[string]model.Suggestion{"a": {Score: 10}, "b": {Score: 0}}, tmpl)
	assert.InDelta(t, 50, got, 0.01)
}

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		total float64
		want  model.Recommendation
	}{
		{95, model.RecommendationHighlyRecommended},
		{80, model.RecommendationHighlyRecommended},
		{79.9, model.RecommendationRecommended},
		{65, model.RecommendationRecommended},
		{50, model.RecommendationNeutral},
		{49.99, model.RecommendationNotRecommended},
		{0, model.RecommendationNotRecommended},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendationFor(tt.total), "total %.2f", tt.total)
	}
}

func TestScreeningResultFrom(t *testing.T) {
	tmpl := testTemplate()
	sugg := map[string]model.Suggestion{
		"fin":  {Score: 9, Reasoning: "strong returns"},
		"risk": {Score: 7, Reasoning: "manageable"},
	}
	res := ScreeningResultFrom(sugg, tmpl)

	assert.InDelta(t, 80, res.TotalScore, 0.01)
	assert.Equal(t, model.RecommendationHighlyRecommended, res.Recommendation)
	if assert.Len(t, res.CriteriaScores, 2) {
		assert.Equal(t, "fin", res.CriteriaScores[0].CriterionID)
		assert.Equal(t, "risk", res.CriteriaScores[1].CriterionID)
		assert.Equal(t, "strong returns", res.CriteriaScores[0].Notes)
	}
}
