package document

import (
	"fmt"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/numfmt"
)

type level string

const (
	levelLow    level = "Low"
	levelMedium level = "Medium"
	levelHigh   level = "High"
)

func (l level) weight() int {
	switch l {
	case levelHigh:
		return 3
	case levelMedium:
		return 2
	}
	return 1
}

type riskItem struct {
	name       string
	likelihood level
	impact     level
	detail     string
	mitigation string
	indicator  string
}

// rating combines likelihood and impact: 6+ is High, 3+ is Medium.
func (r riskItem) rating() level {
	switch p := r.likelihood.weight() * r.impact.weight(); {
	case p >= 6:
		return levelHigh
	case p >= 3:
		return levelMedium
	}
	return levelLow
}

// assessRisks derives the fixed risk register from the opportunity and its
// screening. Order is stable.
func assessRisks(in Input) []riskItem {
	opp := in.Opportunity
	score := in.Screening.TotalScore

	market := riskItem{
		name:       "Market and Competitive",
		likelihood: levelLow,
		impact:     levelMedium,
		detail:     fmt.Sprintf("screening score of %.1f/100 indicates the competitive position", score),
		mitigation: "Commission an independent commercial study before signing",
		indicator:  "Revenue growth and market share versus plan",
	}
	switch {
	case score < 50:
		market.likelihood = levelHigh
	case score < 70:
		market.likelihood = levelMedium
	}

	execution := riskItem{
		name:       "Execution and Integration",
		likelihood: levelLow,
		impact:     levelMedium,
		detail:     fmt.Sprintf("a %s transaction sets the integration burden", numfmt.Money(opp.AskPrice)),
		mitigation: "Appoint an integration lead and a 100-day plan before close",
		indicator:  "Milestone completion against the 100-day plan",
	}
	switch {
	case opp.AskPrice > 200_000_000:
		execution.likelihood, execution.impact = levelHigh, levelHigh
	case opp.AskPrice > 100_000_000:
		execution.likelihood, execution.impact = levelMedium, levelHigh
	}

	financial := riskItem{
		name:       "Financial Underperformance",
		likelihood: levelMedium,
		impact:     levelHigh,
		detail:     "no downside projection was provided",
		mitigation: "Structure earn-outs or deferred consideration against the base case",
		indicator:  "EBITDA and cash conversion versus budget",
	}
	if opp.ExpectedRisk != nil {
		r := *opp.ExpectedRisk
		financial.detail = fmt.Sprintf("projected risk of %s", numfmt.Fraction(r))
		switch {
		case r > 0.20:
			financial.likelihood = levelHigh
		case r > 0.12:
			financial.likelihood = levelMedium
		default:
			financial.likelihood = levelLow
		}
	}

	valuation := riskItem{
		name:       "Valuation",
		likelihood: levelMedium,
		impact:     levelMedium,
		detail:     "returns are not underwritten",
		mitigation: "Anchor the offer on downside-case cash flows",
		indicator:  "Entry multiple versus comparable transactions",
	}
	if opp.ExpectedIRR != nil {
		valuation.detail = fmt.Sprintf("projected IRR of %s", numfmt.Percent(*opp.ExpectedIRR))
		if *opp.ExpectedIRR < 15 {
			valuation.likelihood = levelHigh
		} else {
			valuation.likelihood = levelLow
		}
	}

	geo := riskItem{
		name:       "Geographic and Currency",
		likelihood: levelLow,
		impact:     levelLow,
		detail:     fmt.Sprintf("operations in %s", orDefault(opp.Geography, "an unspecified geography")),
		mitigation: "Hedge currency exposure and secure repatriation rights",
		indicator:  "FX movements and local regulatory changes",
	}
	switch opp.Region() {
	case model.RegionEmerging:
		geo.likelihood, geo.impact = levelHigh, levelHigh
	case model.RegionAsia:
		geo.likelihood, geo.impact = levelMedium, levelMedium
	}

	management := riskItem{
		name:       "Management and Key Person",
		likelihood: levelLow,
		impact:     levelMedium,
		detail:     "reliance on the incumbent team",
		mitigation: "Put management equity and retention packages in place at close",
		indicator:  "Senior team retention and hiring against plan",
	}
	if strings.Contains(strings.ToLower(opp.AssetType), "direct") {
		management.likelihood = levelMedium
		management.detail = "direct control concentrates execution on the incumbent team"
	}

	precedent := riskItem{
		name:       "Precedent and Data Quality",
		likelihood: levelLow,
		impact:     levelLow,
		detail:     fmt.Sprintf("%d comparable transactions", len(opp.SimilarDeals)),
		mitigation: "Source additional comparables from advisors",
		indicator:  "Coverage of comparable transaction data",
	}
	if len(opp.SimilarDeals) == 0 {
		precedent.likelihood, precedent.impact = levelMedium, levelMedium
		precedent.detail = "no comparable transactions to validate the thesis"
	}

	return []riskItem{market, execution, financial, valuation, geo, management, precedent}
}
