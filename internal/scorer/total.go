package scorer

import (
	"github.com/sells-group/deal-engine/internal/model"
)

// Recommendation thresholds on the 0-100 screening total.
const (
	highlyRecommendedMin = 80
	recommendedMin       = 65
	neutralMin           = 50
)

// WeightedTotal normalises each suggestion to its criterion range and returns
// the weight-averaged total on a 0-100 scale. Criteria without a suggestion
// are skipped. A template whose weights are all zero is averaged evenly.
func WeightedTotal(suggestions map[string]model.Suggestion, tmpl model.ScreeningTemplate) float64 {
	var sum, weightSum float64
	var evenSum float64
	var n int

	for _, c := range tmpl.Criteria {
		s, ok := suggestions[c.ID]
		if !ok || c.MaxValue <= c.MinValue {
			continue
		}
		norm := clamp((s.Score-c.MinValue)/(c.MaxValue-c.MinValue), 0, 1)
		sum += norm * c.Weight
		weightSum += c.Weight
		evenSum += norm
		n++
	}

	switch {
	case weightSum > 0:
		return round2(sum / weightSum * 100)
	case n > 0:
		return round2(evenSum / float64(n) * 100)
	}
	return 0
}

// RecommendationFor maps a 0-100 total to a recommendation bucket.
func RecommendationFor(total float64) model.Recommendation {
	switch {
	case total >= highlyRecommendedMin:
		return model.RecommendationHighlyRecommended
	case total >= recommendedMin:
		return model.RecommendationRecommended
	case total >= neutralMin:
		return model.RecommendationNeutral
	}
	return model.RecommendationNotRecommended
}

// ScreeningResultFrom assembles a screening result from batch suggestions in
// template order.
func ScreeningResultFrom(suggestions map[string]model.Suggestion, tmpl model.ScreeningTemplate) model.ScreeningResult {
	total := WeightedTotal(suggestions, tmpl)
	res := model.ScreeningResult{
		TotalScore:     total,
		Recommendation: RecommendationFor(total),
	}
	for _, c := range tmpl.Criteria {
		s, ok := suggestions[c.ID]
		if !ok {
			continue
		}
		res.CriteriaScores = append(res.CriteriaScores, model.CriterionScore{
			CriterionID: c.ID,
			Name:        c.Name,
			Category:    string(c.Category),
			Score:       s.Score,
			MaxScore:    c.MaxValue,
			Notes:       s.Reasoning,
		})
	}
	return res
}
