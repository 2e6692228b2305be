package scorer

import (
	"math"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
)

// Deal size thresholds in USD.
const (
	subScaleDeal = 5_000_000
	smallDeal    = 10_000_000
	sweetSpotLow = 25_000_000
	largeDeal    = 100_000_000
	megaDeal     = 200_000_000
)

// strongPatterns is the similar-deal count above which a pattern is strong.
const strongPatterns = 2

// RuleInput is what a scoring rule sees.
type RuleInput struct {
	Opportunity model.Opportunity
	Benchmark   model.SectorBenchmark
	// VintageAge is the current year minus the vintage year; -1 when the
	// vintage is unknown.
	VintageAge int
}

// Rule adds Delta to the base score when When matches.
type Rule struct {
	Name  string
	When  func(in RuleInput) bool
	Delta float64
}

// RuleGroup is an ordered set of mutually exclusive rules. Only the first
// matching rule in a group applies; group deltas are summed.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

// RuleSet maps each category to its rule groups.
type RuleSet map[model.Category][]RuleGroup

// DefaultRules returns the built-in adjustment tables.
func DefaultRules() RuleSet {
	return RuleSet{
		model.CategoryFinancial:   financialRules(),
		model.CategoryOperational: operationalRules(),
		model.CategoryStrategic:   strategicRules(),
		model.CategoryRisk:        riskRules(),
	}
}

// applyRules evaluates the groups in order and returns the summed delta and
// the rules that fired.
func applyRules(groups []RuleGroup, in RuleInput) (float64, []model.Adjustment) {
	var total float64
	var applied []model.Adjustment
	for _, g := range groups {
		for _, r := range g.Rules {
			if r.When(in) {
				total += r.Delta
				applied = append(applied, model.Adjustment{Rule: r.Name, Delta: r.Delta})
				break
			}
		}
	}
	return total, applied
}

func financialRules() []RuleGroup {
	return []RuleGroup{
		{Name: "irr_vs_sector", Rules: []Rule{
			{Name: "irr_well_above_sector", When: irrRatio(func(r float64) bool { return r > 1.2 }), Delta: 1.5},
			{Name: "irr_above_sector", When: irrRatio(func(r float64) bool { return r > 1.1 }), Delta: 1.0},
			{Name: "irr_well_below_sector", When: irrRatio(func(r float64) bool { return r < 0.8 }), Delta: -1.5},
			{Name: "irr_below_sector", When: irrRatio(func(r float64) bool { return r < 0.9 }), Delta: -1.0},
		}},
		{Name: "multiple_vs_sector", Rules: []Rule{
			{Name: "multiple_well_above_sector", When: multipleRatio(func(r float64) bool { return r > 1.2 }), Delta: 1.0},
			{Name: "multiple_above_sector", When: multipleRatio(func(r float64) bool { return r > 1.1 }), Delta: 0.5},
			{Name: "multiple_well_below_sector", When: multipleRatio(func(r float64) bool { return r < 0.8 }), Delta: -1.0},
			{Name: "multiple_below_sector", When: multipleRatio(func(r float64) bool { return r < 0.9 }), Delta: -0.5},
		}},
		{Name: "deal_size", Rules: []Rule{
			{Name: "scale_advantage", When: askPrice(func(p float64) bool { return p > largeDeal }), Delta: 0.5},
			{Name: "sub_scale_returns", When: askPrice(func(p float64) bool { return p < smallDeal }), Delta: -0.3},
		}},
	}
}

func operationalRules() []RuleGroup {
	return []RuleGroup{
		{Name: "vintage", Rules: []Rule{
			{Name: "recent_vintage", When: func(in RuleInput) bool { return in.VintageAge >= 0 && in.VintageAge <= 1 }, Delta: 0.5},
			{Name: "aged_vintage", When: func(in RuleInput) bool { return in.VintageAge >= 5 }, Delta: -0.5},
		}},
		{Name: "geography", Rules: []Rule{
			{Name: "emerging_market_operations", When: inRegion(model.RegionEmerging), Delta: -0.5},
			{Name: "north_america_operations", When: inRegion(model.RegionNorthAmerica), Delta: 0.3},
			{Name: "europe_operations", When: inRegion(model.RegionEurope), Delta: 0.2},
			{Name: "asia_operations", When: inRegion(model.RegionAsia), Delta: 0.1},
		}},
		{Name: "asset_type", Rules: []Rule{
			{Name: "direct_control", When: assetType("direct"), Delta: 0.3},
			{Name: "fund_structure", When: assetType("fund"), Delta: -0.2},
		}},
	}
}

func strategicRules() []RuleGroup {
	return []RuleGroup{
		{Name: "sector_thesis", Rules: []Rule{
			{Name: "technology_high_ai_conviction", When: func(in RuleInput) bool {
				return sectorIs(in, "technology") && in.Opportunity.AIConfidence != nil && *in.Opportunity.AIConfidence > 0.85
			}, Delta: 1.0},
			{Name: "technology_low_ai_conviction", When: func(in RuleInput) bool {
				return sectorIs(in, "technology") && in.Opportunity.AIConfidence != nil && *in.Opportunity.AIConfidence < 0.70
			}, Delta: -0.8},
			{Name: "healthcare_structural_tailwinds", When: func(in RuleInput) bool { return sectorIs(in, "healthcare") }, Delta: 0.5},
			{Name: "energy_transition_positioning", When: func(in RuleInput) bool { return sectorIs(in, "energy") }, Delta: 0.3},
		}},
		{Name: "deal_patterns", Rules: []Rule{
			{Name: "strong_deal_pattern", When: func(in RuleInput) bool { return len(in.Opportunity.SimilarDeals) > strongPatterns }, Delta: 0.8},
			{Name: "no_deal_pattern", When: func(in RuleInput) bool { return len(in.Opportunity.SimilarDeals) == 0 }, Delta: -0.5},
		}},
	}
}

func riskRules() []RuleGroup {
	return []RuleGroup{
		{Name: "expected_risk", Rules: []Rule{
			{Name: "very_low_expected_risk", When: expectedRisk(func(r float64) bool { return r < 0.10 }), Delta: 1.5},
			{Name: "low_expected_risk", When: expectedRisk(func(r float64) bool { return r < 0.15 }), Delta: 1.0},
			{Name: "very_high_expected_risk", When: expectedRisk(func(r float64) bool { return r > 0.25 }), Delta: -1.5},
			{Name: "high_expected_risk", When: expectedRisk(func(r float64) bool { return r > 0.20 }), Delta: -1.0},
		}},
		{Name: "geography", Rules: []Rule{
			{Name: "emerging_market_risk", When: inRegion(model.RegionEmerging), Delta: -1.0},
			{Name: "developed_market_stability", When: func(in RuleInput) bool {
				return inRegion(model.RegionNorthAmerica)(in) || inRegion(model.RegionEurope)(in)
			}, Delta: 0.5},
		}},
		{Name: "deal_size", Rules: []Rule{
			{Name: "size_sweet_spot", When: askPrice(func(p float64) bool { return p >= sweetSpotLow && p <= largeDeal }), Delta: 0.3},
			{Name: "execution_risk_large_deal", When: askPrice(func(p float64) bool { return p > largeDeal }), Delta: -0.5},
			{Name: "sub_scale_fragility", When: askPrice(func(p float64) bool { return p > 0 && p < subScaleDeal }), Delta: -0.8},
		}},
	}
}

func irrRatio(pred func(float64) bool) func(RuleInput) bool {
	return func(in RuleInput) bool {
		r, ok := ratio(in.Opportunity.ExpectedIRR, in.Benchmark.Financial.AverageIRR)
		return ok && pred(r)
	}
}

func multipleRatio(pred func(float64) bool) func(RuleInput) bool {
	return func(in RuleInput) bool {
		r, ok := ratio(in.Opportunity.ExpectedMultiple, in.Benchmark.Financial.AverageMultiple)
		return ok && pred(r)
	}
}

func expectedRisk(pred func(float64) bool) func(RuleInput) bool {
	return func(in RuleInput) bool {
		return in.Opportunity.ExpectedRisk != nil && pred(*in.Opportunity.ExpectedRisk)
	}
}

func askPrice(pred func(float64) bool) func(RuleInput) bool {
	return func(in RuleInput) bool {
		return in.Opportunity.AskPrice > 0 && pred(in.Opportunity.AskPrice)
	}
}

func assetType(kind string) func(RuleInput) bool {
	return func(in RuleInput) bool {
		return strings.Contains(strings.ToLower(in.Opportunity.AssetType), kind)
	}
}

func sectorIs(in RuleInput, sector string) bool {
	return strings.EqualFold(strings.TrimSpace(in.Opportunity.Sector), sector)
}

// ratio returns value/avg when both are usable.
func ratio(value *float64, avg float64) (float64, bool) {
	if value == nil || avg <= 0 || math.IsNaN(*value) {
		return 0, false
	}
	return *value / avg, true
}

func inRegion(want model.Region) func(RuleInput) bool {
	return func(in RuleInput) bool {
		return in.Opportunity.Region() == want
	}
}
