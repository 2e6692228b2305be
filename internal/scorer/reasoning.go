package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/numfmt"
)

// buildReasoning writes the category narrative. Every branch produces text.
func buildReasoning(in RuleInput, criterion model.Criterion, knownSector bool, score, base float64, applied []model.Adjustment) string {
	var parts []string

	switch criterion.Category {
	case model.CategoryFinancial:
		parts = financialReasoning(in)
	case model.CategoryOperational:
		parts = operationalReasoning(in)
	case model.CategoryStrategic:
		parts = strategicReasoning(in)
	case model.CategoryRisk:
		parts = riskReasoning(in)
	}

	if !knownSector {
		parts = append(parts, fmt.Sprintf("No dedicated benchmark exists for the %s sector, so %s figures were used and confidence is reduced.",
			sectorName(in.Opportunity.Sector), in.Benchmark.Sector))
	}

	summary := fmt.Sprintf("Suggested %s score of %.2f against a %s benchmark of %.2f",
		criterionLabel(criterion), score, in.Benchmark.Sector, base)
	if len(applied) > 0 {
		names := make([]string, len(applied))
		for i, a := range applied {
			names[i] = fmt.Sprintf("%s %s", strings.ReplaceAll(a.Rule, "_", " "), numfmt.Signed(a.Delta))
		}
		summary += fmt.Sprintf(" (adjustments: %s).", strings.Join(names, ", "))
	} else {
		summary += " with no adjustments applied."
	}
	parts = append(parts, summary)

	return strings.Join(parts, " ")
}

func financialReasoning(in RuleInput) []string {
	opp, fin := in.Opportunity, in.Benchmark.Financial
	var parts []string

	if opp.ExpectedIRR != nil {
		parts = append(parts, fmt.Sprintf("Expected IRR of %s is %s sector average of %s.",
			numfmt.Percent(*opp.ExpectedIRR), comparison(*opp.ExpectedIRR, fin.AverageIRR), numfmt.Percent(fin.AverageIRR)))
	} else {
		parts = append(parts, fmt.Sprintf("No IRR projection was provided; the %s sector averages %s.",
			in.Benchmark.Sector, numfmt.Percent(fin.AverageIRR)))
	}

	if opp.ExpectedMultiple != nil {
		parts = append(parts, fmt.Sprintf("Expected multiple of %s is %s sector average of %s.",
			numfmt.Multiple(*opp.ExpectedMultiple), comparison(*opp.ExpectedMultiple, fin.AverageMultiple), numfmt.Multiple(fin.AverageMultiple)))
	}

	switch {
	case opp.AskPrice > largeDeal:
		parts = append(parts, fmt.Sprintf("An ask price of %s brings scale advantages in financing and operations.", numfmt.Money(opp.AskPrice)))
	case opp.AskPrice > 0 && opp.AskPrice < smallDeal:
		parts = append(parts, fmt.Sprintf("An ask price of %s limits return leverage at this size.", numfmt.Money(opp.AskPrice)))
	case opp.AskPrice > 0:
		parts = append(parts, fmt.Sprintf("The ask price of %s is within the typical range for the sector.", numfmt.Money(opp.AskPrice)))
	}
	return parts
}

func operationalReasoning(in RuleInput) []string {
	opp, ops := in.Opportunity, in.Benchmark.Operational
	var parts []string

	switch {
	case in.VintageAge < 0:
		parts = append(parts, "The vintage year is unknown, so operating maturity could not be assessed.")
	case in.VintageAge <= 1:
		parts = append(parts, fmt.Sprintf("The %d vintage is recent, pointing to a current operating playbook.", opp.Vintage))
	case in.VintageAge >= 5:
		parts = append(parts, fmt.Sprintf("The %d vintage is %d years old, raising questions about operating momentum.", opp.Vintage, in.VintageAge))
	default:
		parts = append(parts, fmt.Sprintf("The %d vintage is %d years old, in line with a typical hold period.", opp.Vintage, in.VintageAge))
	}

	parts = append(parts, fmt.Sprintf("Operations in %s and a %s asset structure shape execution capacity.",
		opp.Region().Label(), assetLabel(opp.AssetType)))

	if len(ops.KeyIndicators) > 0 {
		parts = append(parts, fmt.Sprintf("Key %s operating indicators to validate: %s.",
			in.Benchmark.Sector, strings.Join(lowerFirst(ops.KeyIndicators, 2), " and ")))
	}
	return parts
}

func strategicReasoning(in RuleInput) []string {
	opp, strat := in.Opportunity, in.Benchmark.Strategic
	var parts []string

	switch {
	case sectorIs(in, "technology") && opp.AIConfidence != nil:
		parts = append(parts, fmt.Sprintf("Model conviction in the technology thesis is %s.", numfmt.Fraction(*opp.AIConfidence)))
	case sectorIs(in, "healthcare"):
		parts = append(parts, "Healthcare benefits from demographic and care-setting tailwinds.")
	case sectorIs(in, "energy"):
		parts = append(parts, "Energy positioning benefits from transition-driven capital flows.")
	default:
		parts = append(parts, fmt.Sprintf("Strategic fit is assessed against %s sector themes.", in.Benchmark.Sector))
	}

	switch n := len(opp.SimilarDeals); {
	case n > strongPatterns:
		parts = append(parts, fmt.Sprintf("%d similar deals establish a strong pattern for this thesis.", n))
	case n == 0:
		parts = append(parts, "No similar deals were found to corroborate the thesis.")
	default:
		parts = append(parts, fmt.Sprintf("%d similar deal(s) offer limited pattern evidence.", n))
	}

	if len(strat.SuccessFactors) > 0 {
		parts = append(parts, fmt.Sprintf("Sector success factors include %s.", strings.Join(lowerFirst(strat.SuccessFactors, 2), " and ")))
	}
	return parts
}

func riskReasoning(in RuleInput) []string {
	opp, risk := in.Opportunity, in.Benchmark.Risk
	var parts []string

	if opp.ExpectedRisk != nil {
		parts = append(parts, fmt.Sprintf("Expected risk of %s is %s sector average of %s.",
			numfmt.Fraction(*opp.ExpectedRisk), comparison(*opp.ExpectedRisk, risk.AverageRisk), numfmt.Fraction(risk.AverageRisk)))
	} else {
		parts = append(parts, fmt.Sprintf("No risk estimate was provided; the %s sector averages %s.",
			in.Benchmark.Sector, numfmt.Fraction(risk.AverageRisk)))
	}

	switch opp.Region() {
	case model.RegionEmerging:
		parts = append(parts, "Emerging-market exposure adds currency and political risk.")
	case model.RegionNorthAmerica, model.RegionEurope:
		parts = append(parts, fmt.Sprintf("%s jurisdiction offers regulatory stability.", opp.Region().Label()))
	}

	switch {
	case opp.AskPrice > largeDeal:
		parts = append(parts, fmt.Sprintf("At %s, execution risk rises with deal complexity.", numfmt.Money(opp.AskPrice)))
	case opp.AskPrice >= sweetSpotLow:
		parts = append(parts, fmt.Sprintf("At %s, the deal sits in the middle-market sweet spot.", numfmt.Money(opp.AskPrice)))
	case opp.AskPrice > 0 && opp.AskPrice < subScaleDeal:
		parts = append(parts, fmt.Sprintf("At %s, the business may lack resilience to shocks.", numfmt.Money(opp.AskPrice)))
	}
	return parts
}

// comparison phrases value against avg; within 5% reads as in line.
func comparison(value, avg float64) string {
	if avg <= 0 {
		return "compared with a"
	}
	switch r := value / avg; {
	case r > 1.05:
		return "above the"
	case r < 0.95:
		return "below the"
	}
	return "in line with the"
}

func criterionLabel(c model.Criterion) string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.Category)
}

func sectorName(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}

func assetLabel(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return strings.ToLower(s)
}

// lowerFirst returns up to n items with their first letter lowercased.
func lowerFirst(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	for i, it := range items {
		if it == "" {
			continue
		}
		out[i] = strings.ToLower(it[:1]) + it[1:]
	}
	return out
}
