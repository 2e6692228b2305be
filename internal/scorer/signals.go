package scorer

import (
	"fmt"

	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/numfmt"
)

// riskFactors combines opportunity-specific triggers with the category's
// canned sector risks, deduplicated and capped at limit.
func riskFactors(in RuleInput, cat model.Category, limit int) []string {
	opp := in.Opportunity
	var triggered []string

	if opp.Region() == model.RegionEmerging {
		triggered = append(triggered, "Emerging-market currency, political and repatriation risk")
	}
	switch {
	case opp.AskPrice > megaDeal:
		triggered = append(triggered, fmt.Sprintf("Execution complexity at a %s deal size", numfmt.Money(opp.AskPrice)))
	case opp.AskPrice > 0 && opp.AskPrice < smallDeal:
		triggered = append(triggered, fmt.Sprintf("Sub-scale %s deal size limits operating leverage", numfmt.Money(opp.AskPrice)))
	}
	if len(opp.SimilarDeals) == 0 {
		triggered = append(triggered, "No comparable transactions to validate the thesis")
	}
	if opp.ExpectedRisk != nil && *opp.ExpectedRisk > 0.20 {
		triggered = append(triggered, fmt.Sprintf("Projected risk of %s exceeds sector tolerance", numfmt.Fraction(*opp.ExpectedRisk)))
	}

	return capUnique(limit, triggered, cannedRisks(in.Benchmark, cat))
}

// opportunities combines opportunity-specific upside with the category's
// canned success factors, deduplicated and capped at limit.
func opportunities(in RuleInput, cat model.Category, limit int) []string {
	opp := in.Opportunity
	var triggered []string

	if n := len(opp.SimilarDeals); n > strongPatterns {
		triggered = append(triggered, fmt.Sprintf("Pattern match with %d comparable transactions", n))
	}
	if r, ok := ratio(opp.ExpectedIRR, in.Benchmark.Financial.AverageIRR); ok && r > 1.1 {
		triggered = append(triggered, fmt.Sprintf("Return profile of %s outperforms the sector", numfmt.Percent(*opp.ExpectedIRR)))
	}
	if opp.AskPrice >= sweetSpotLow && opp.AskPrice <= largeDeal {
		triggered = append(triggered, "Middle-market deal size with broad exit optionality")
	}
	switch opp.Region() {
	case model.RegionNorthAmerica, model.RegionEurope:
		triggered = append(triggered, fmt.Sprintf("Deep exit markets in %s", opp.Region().Label()))
	}

	return capUnique(limit, triggered, cannedUpside(in.Benchmark, cat))
}

func cannedRisks(b model.SectorBenchmark, cat model.Category) []string {
	switch cat {
	case model.CategoryFinancial:
		return b.Financial.CommonRisks
	case model.CategoryOperational:
		return b.Operational.CommonRisks
	case model.CategoryStrategic:
		return b.Strategic.CommonRisks
	case model.CategoryRisk:
		return b.Risk.CommonRisks
	}
	return nil
}

func cannedUpside(b model.SectorBenchmark, cat model.Category) []string {
	switch cat {
	case model.CategoryFinancial:
		return b.Financial.SuccessFactors
	case model.CategoryOperational:
		return b.Operational.KeyIndicators
	case model.CategoryStrategic:
		return b.Strategic.SuccessFactors
	case model.CategoryRisk:
		return b.Risk.KeyIndicators
	}
	return nil
}

// capUnique concatenates lists in order, skipping duplicates, up to limit.
func capUnique(limit int, lists ...[]string) []string {
	limit = max(limit, 0)
	out := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, item := range list {
			if len(out) >= limit {
				return out
			}
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
