package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/numfmt"
)

const notProvided = "Not provided"

// table renders a pipe table. Cells are stripped of pipes and newlines.
func table(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			c = strings.NewReplacer("|", "/", "\n", " ").Replace(c)
			b.WriteString(" " + c + " |")
		}
		b.WriteString("\n")
	}
	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	return b.String()
}

func numbered(items []string) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return b.String()
}

func optPercent(v *float64) string {
	if v == nil {
		return notProvided
	}
	return numfmt.Percent(*v)
}

func optMultiple(v *float64) string {
	if v == nil {
		return notProvided
	}
	return numfmt.Multiple(*v)
}

func optFraction(v *float64) string {
	if v == nil {
		return notProvided
	}
	return numfmt.Fraction(*v)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func vintageText(v int) string {
	if v <= 0 {
		return "unknown"
	}
	return strconv.Itoa(v)
}

func recommendationLabel(r model.Recommendation) string {
	if r == "" {
		return "Pending"
	}
	return r.Label()
}

// executiveSummary opens every document type.
func executiveSummary(in Input) string {
	opp := in.Opportunity
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s %s opportunity in %s (vintage %s) with an ask price of %s. ",
		opp.DisplayName(),
		orDefault(opp.Sector, "unclassified"),
		strings.ToLower(orDefault(opp.AssetType, "private equity")),
		orDefault(opp.Geography, "an unspecified geography"),
		vintageText(opp.Vintage),
		numfmt.Money(opp.AskPrice))
	fmt.Fprintf(&b, "Screening produced a total score of %.1f/100 and a recommendation of **%s**.",
		in.Screening.TotalScore, recommendationLabel(in.Screening.Recommendation))
	if opp.ExpectedIRR != nil && opp.ExpectedMultiple != nil {
		fmt.Fprintf(&b, " The sponsor projects a %s IRR and a %s multiple.",
			numfmt.Percent(*opp.ExpectedIRR), numfmt.Multiple(*opp.ExpectedMultiple))
	}
	return b.String()
}

// dealOverview is a two-column attribute table.
func dealOverview(in Input) string {
	opp := in.Opportunity
	askPrice := notProvided
	if opp.AskPrice > 0 {
		askPrice = numfmt.MoneyExact(opp.AskPrice)
	}
	return table([]string{"Attribute", "Value"}, [][]string{
		{"Sector", orDefault(opp.Sector, notProvided)},
		{"Asset Type", orDefault(opp.AssetType, notProvided)},
		{"Geography", orDefault(opp.Geography, notProvided)},
		{"Vintage", vintageText(opp.Vintage)},
		{"Ask Price", askPrice},
		{"Expected IRR", optPercent(opp.ExpectedIRR)},
		{"Expected Multiple", optMultiple(opp.ExpectedMultiple)},
		{"Expected Risk", optFraction(opp.ExpectedRisk)},
		{"Comparable Deals", strconv.Itoa(len(opp.SimilarDeals))},
	})
}

// investmentThesis argues the case from returns, comparables and screening.
func investmentThesis(in Input) string {
	opp := in.Opportunity
	var sentences []string
	sentences = append(sentences, fmt.Sprintf("%s offers exposure to %s through a %s position in %s.",
		opp.DisplayName(), orDefault(opp.Sector, "its sector"),
		strings.ToLower(orDefault(opp.AssetType, "private")), orDefault(opp.Geography, "its home market")))

	switch {
	case opp.ExpectedIRR != nil && *opp.ExpectedIRR >= 25:
		sentences = append(sentences, fmt.Sprintf("A projected %s IRR places the deal in the top tier of expected returns.", numfmt.Percent(*opp.ExpectedIRR)))
	case opp.ExpectedIRR != nil && *opp.ExpectedIRR >= 15:
		sentences = append(sentences, fmt.Sprintf("A projected %s IRR clears the fund hurdle with moderate headroom.", numfmt.Percent(*opp.ExpectedIRR)))
	case opp.ExpectedIRR != nil:
		sentences = append(sentences, fmt.Sprintf("A projected %s IRR is below the fund hurdle, so the thesis rests on strategic value.", numfmt.Percent(*opp.ExpectedIRR)))
	default:
		sentences = append(sentences, "Return projections are outstanding and must be obtained before committee.")
	}

	switch n := len(opp.SimilarDeals); {
	case n > 2:
		names := make([]string, 0, 3)
		for _, d := range opp.SimilarDeals[:3] {
			names = append(names, d.Name)
		}
		sentences = append(sentences, fmt.Sprintf("%d comparable transactions, including %s, support the pattern.", n, strings.Join(names, ", ")))
	case n > 0:
		sentences = append(sentences, fmt.Sprintf("%d comparable transaction(s) provide a partial reference point.", n))
	default:
		sentences = append(sentences, "No comparable transactions were identified, so the thesis is unvalidated by precedent.")
	}

	if opp.AIConfidence != nil {
		sentences = append(sentences, fmt.Sprintf("Model conviction in the opportunity is %s.", numfmt.Fraction(*opp.AIConfidence)))
	}
	sentences = append(sentences, fmt.Sprintf("Screening rates the deal %s at %.1f/100.",
		recommendationLabel(in.Screening.Recommendation), in.Screening.TotalScore))
	return strings.Join(sentences, " ")
}

// screeningResults lists each criterion score.
func screeningResults(in Input) string {
	var b strings.Builder
	if len(in.Screening.CriteriaScores) == 0 {
		b.WriteString("No criterion-level scores were recorded.\n\n")
	} else {
		rows := make([][]string, 0, len(in.Screening.CriteriaScores))
		for _, cs := range in.Screening.CriteriaScores {
			score := fmt.Sprintf("%.2f", cs.Score)
			if cs.MaxScore > 0 {
				score = fmt.Sprintf("%.2f / %.2f", cs.Score, cs.MaxScore)
			}
			rows = append(rows, []string{orDefault(cs.Name, cs.CriterionID), orDefault(cs.Category, "-"), score})
		}
		b.WriteString(table([]string{"Criterion", "Category", "Score"}, rows))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total score: **%.1f/100** (%s).", in.Screening.TotalScore, recommendationLabel(in.Screening.Recommendation))
	return b.String()
}

// riskFactorList renders the assessed risks above Low as bullets.
func riskFactorList(in Input) string {
	var items []string
	for _, r := range assessRisks(in) {
		if r.rating() == levelLow {
			continue
		}
		items = append(items, fmt.Sprintf("**%s** (%s likelihood, %s impact): %s", r.name, r.likelihood, r.impact, r.detail))
	}
	if len(items) == 0 {
		return "No material risks were flagged beyond standard transaction risk."
	}
	return bullets(items)
}

func recommendationText(in Input) string {
	name := in.Opportunity.DisplayName()
	switch in.Screening.Recommendation {
	case model.RecommendationHighlyRecommended:
		return fmt.Sprintf("Proceed with %s on a priority basis. The deal screens in the top band and warrants an accelerated path to a term sheet.", name)
	case model.RecommendationRecommended:
		return fmt.Sprintf("Proceed with %s subject to confirmatory diligence on the flagged risks.", name)
	case model.RecommendationNeutral:
		return fmt.Sprintf("Hold %s pending additional information. The deal does not yet clear the investment bar.", name)
	case model.RecommendationNotRecommended:
		return fmt.Sprintf("Decline %s. The screening score does not support further investment of deal-team time.", name)
	}
	return fmt.Sprintf("No screening verdict is available for %s; a recommendation requires a completed screening.", name)
}

// nextSteps prefers the workflow's tasks and falls back to verdict defaults.
func nextSteps(in Input) string {
	if in.Workflow != nil && len(in.Workflow.Tasks) > 0 {
		items := make([]string, 0, len(in.Workflow.Tasks))
		for _, t := range in.Workflow.Tasks {
			item := t.Name
			if owner := orDefault(t.Owner, in.Workflow.Owner); owner != "" {
				item += " (" + owner + ")"
			}
			if t.DueInDays > 0 {
				item += fmt.Sprintf(", due in %d days", t.DueInDays)
			}
			if t.Status != "" {
				item += " [" + t.Status + "]"
			}
			items = append(items, item)
		}
		return numbered(items)
	}

	switch in.Screening.Recommendation {
	case model.RecommendationHighlyRecommended, model.RecommendationRecommended:
		return numbered([]string{
			"Issue a non-binding indication of interest",
			"Open the data room and launch confirmatory due diligence",
			"Schedule the investment committee review",
		})
	case model.RecommendationNeutral:
		return numbered([]string{
			"Request updated projections and management materials",
			"Re-screen once the missing data is received",
		})
	}
	return numbered([]string{
		"Communicate the decision to the sponsor",
		"Archive the deal file with screening notes",
	})
}

func memoHeader(in Input) string {
	from := "Deal Team"
	stage := "Screening"
	if in.Workflow != nil {
		if in.Workflow.Owner != "" {
			from = in.Workflow.Owner
		}
		if in.Workflow.Stage != "" {
			stage = in.Workflow.Stage
		}
	}
	var b strings.Builder
	b.WriteString("**To:** Investment Committee\n\n")
	fmt.Fprintf(&b, "**From:** %s\n\n", from)
	fmt.Fprintf(&b, "**Re:** %s (%s)\n\n", in.Opportunity.DisplayName(), orDefault(in.Opportunity.ID, "no reference"))
	fmt.Fprintf(&b, "**Stage:** %s", stage)
	return b.String()
}

// financialAnalysis sizes the value creation case.
func financialAnalysis(in Input) string {
	opp := in.Opportunity
	rows := [][]string{
		{"Ask Price", numfmt.Money(opp.AskPrice)},
		{"Expected IRR", optPercent(opp.ExpectedIRR)},
		{"Expected Multiple", optMultiple(opp.ExpectedMultiple)},
	}
	if opp.ExpectedMultiple != nil && opp.AskPrice > 0 {
		exit := opp.AskPrice * *opp.ExpectedMultiple
		rows = append(rows,
			[]string{"Implied Exit Value", numfmt.Money(exit)},
			[]string{"Implied Value Creation", numfmt.Money(exit - opp.AskPrice)})
	}
	var b strings.Builder
	b.WriteString(table([]string{"Metric", "Value"}, rows))
	b.WriteString("\n")
	if opp.ExpectedIRR == nil || opp.ExpectedMultiple == nil {
		b.WriteString("Return projections are incomplete; the committee should treat the figures above as provisional.")
	} else {
		fmt.Fprintf(&b, "The base case returns %s of invested capital at a %s IRR.",
			numfmt.Multiple(*opp.ExpectedMultiple), numfmt.Percent(*opp.ExpectedIRR))
	}
	return b.String()
}

func approvalRequest(in Input) string {
	switch in.Screening.Recommendation {
	case model.RecommendationHighlyRecommended, model.RecommendationRecommended:
		return fmt.Sprintf("The deal team requests approval to submit a non-binding offer of up to %s and to commit the diligence budget.",
			numfmt.Money(in.Opportunity.AskPrice))
	case model.RecommendationNeutral:
		return "The deal team requests approval for a limited information request before a go/no-go decision."
	}
	return "No approval is requested. The memo is submitted for the record."
}

// diligenceScope returns "Full-scope" for large deals and "Focused" otherwise.
func diligenceScope(opp model.Opportunity) string {
	if opp.AskPrice > 100_000_000 {
		return "Full-scope"
	}
	return "Focused"
}

func diligenceWeeks(in Input) int {
	weeks := 6
	switch {
	case in.Opportunity.AskPrice > 100_000_000:
		weeks = 10
	case in.Opportunity.AskPrice > 25_000_000:
		weeks = 8
	}
	if in.Mode == model.ModeAutonomous {
		weeks -= 2
	}
	return weeks
}

func diligenceOverview(in Input) string {
	opp := in.Opportunity
	return fmt.Sprintf("%s diligence of %s over %d weeks. The plan covers %d workstreams and targets the risks flagged during screening (score %.1f/100).",
		diligenceScope(opp), opp.DisplayName(), diligenceWeeks(in), len(workstreams(opp)), in.Screening.TotalScore)
}

type workstream struct {
	name  string
	lead  string
	items []string
}

func workstreams(opp model.Opportunity) []workstream {
	ws := []workstream{
		{"Financial", "Finance", []string{"Quality of earnings review", "Working capital and debt-like items", "Validation of the return projections"}},
		{"Commercial", "Deal Team", []string{"Market sizing and competitive position", "Customer concentration and churn", "Pipeline and pricing power"}},
		{"Legal", "Counsel", []string{"Corporate structure and cap table", "Material contracts and change of control", "Litigation and compliance history"}},
		{"Operational", "Operating Partners", []string{"Management assessment", "Cost structure and scalability", "Systems and reporting"}},
	}
	switch strings.ToLower(opp.Sector) {
	case "technology":
		ws = append(ws, workstream{"Technology", "Technical Advisors", []string{"Architecture and technical debt", "Security posture", "IP ownership"}})
	case "healthcare":
		ws = append(ws, workstream{"Regulatory and Clinical", "Regulatory Counsel", []string{"Reimbursement exposure", "Licensing and accreditation", "Clinical quality record"}})
	case "energy":
		ws = append(ws, workstream{"Environmental", "Environmental Consultants", []string{"Site liabilities", "Permitting status", "Transition risk exposure"}})
	}
	if opp.Region() == model.RegionEmerging {
		ws = append(ws, workstream{"Geopolitical and FX", "Risk", []string{"Currency hedging options", "Capital repatriation", "Political stability"}})
	}
	return ws
}

func diligenceWorkstreams(in Input) string {
	var b strings.Builder
	for _, w := range workstreams(in.Opportunity) {
		fmt.Fprintf(&b, "### %s Due Diligence\n\n", w.name)
		b.WriteString(bullets(w.items))
		fmt.Fprintf(&b, "\nLead: %s\n\n", w.lead)
	}
	return b.String()
}

func diligenceTimeline(in Input) string {
	total := diligenceWeeks(in)
	kickoff := 1
	review := 2
	core := total - kickoff - review
	return table([]string{"Phase", "Weeks", "Milestone"}, [][]string{
		{"Kickoff", strconv.Itoa(kickoff), "Data room access and request list issued"},
		{"Core Diligence", strconv.Itoa(core), "Workstream findings drafted"},
		{"Review and Decision", strconv.Itoa(review), "Investment committee decision"},
	}) + fmt.Sprintf("\nTotal duration: %d weeks.", total)
}

func diligenceTeam(in Input) string {
	seen := make(map[string]bool)
	var items []string
	if in.Workflow != nil {
		if in.Workflow.Owner != "" {
			seen[in.Workflow.Owner] = true
			items = append(items, in.Workflow.Owner+" (deal lead)")
		}
		for _, t := range in.Workflow.Tasks {
			if t.Owner != "" && !seen[t.Owner] {
				seen[t.Owner] = true
				items = append(items, t.Owner)
			}
		}
	}
	for _, w := range workstreams(in.Opportunity) {
		if !seen[w.lead] {
			seen[w.lead] = true
			items = append(items, w.lead)
		}
	}
	return bullets(items)
}

// keyQuestions targets the weakest criteria and any missing projections.
func keyQuestions(in Input) string {
	opp := in.Opportunity
	var qs []string
	if opp.ExpectedIRR == nil {
		qs = append(qs, "What IRR does the sponsor underwrite, and on what assumptions?")
	}
	if opp.ExpectedMultiple == nil {
		qs = append(qs, "What exit multiple supports the base case?")
	}
	if opp.ExpectedRisk == nil {
		qs = append(qs, "What downside scenario has been modelled?")
	}
	for _, cs := range in.Screening.CriteriaScores {
		if cs.MaxScore > 0 && cs.Score/cs.MaxScore < 0.6 {
			qs = append(qs, fmt.Sprintf("What would move the %s score (%.2f) into an acceptable range?", orDefault(cs.Name, cs.CriterionID), cs.Score))
		}
	}
	if len(opp.SimilarDeals) == 0 {
		qs = append(qs, "Which precedent transactions best approximate this deal?")
	}
	if len(qs) == 0 {
		qs = append(qs, "Do the confirmatory findings support the screening case without adjustment?")
	}
	return numbered(qs)
}

func riskSummary(in Input) string {
	risks := assessRisks(in)
	counts := map[level]int{}
	for _, r := range risks {
		counts[r.rating()]++
	}
	overall := overallRating(in, counts)
	return fmt.Sprintf("Overall risk rating: **%s**. %d risks assessed: %d high, %d medium, %d low. Expected risk is %s against a screening score of %.1f/100.",
		overall, len(risks), counts[levelHigh], counts[levelMedium], counts[levelLow],
		optFraction(in.Opportunity.ExpectedRisk), in.Screening.TotalScore)
}

func overallRating(in Input, counts map[level]int) level {
	switch {
	case counts[levelHigh] >= 2 || in.Screening.TotalScore < 50:
		return levelHigh
	case counts[levelHigh] == 1 || counts[levelMedium] >= 3:
		return levelMedium
	}
	return levelLow
}

func riskHeatMap(in Input) string {
	rows := [][]string{}
	for _, r := range assessRisks(in) {
		rows = append(rows, []string{r.name, string(r.likelihood), string(r.impact), string(r.rating())})
	}
	return table([]string{"Risk", "Likelihood", "Impact", "Rating"}, rows)
}

func mitigationStrategies(in Input) string {
	var items []string
	for _, r := range assessRisks(in) {
		if r.rating() == levelLow {
			continue
		}
		items = append(items, fmt.Sprintf("**%s**: %s", r.name, r.mitigation))
	}
	if len(items) == 0 {
		return "Standard transaction protections (representations, warranties and escrow) are sufficient."
	}
	return bullets(items)
}

func monitoringPlan(in Input) string {
	var items []string
	for _, r := range assessRisks(in) {
		items = append(items, fmt.Sprintf("%s: %s", r.name, r.indicator))
	}
	cadence := "Quarterly"
	if in.Mode == model.ModeAutonomous {
		cadence = "Continuous automated"
	}
	return bullets(items) + fmt.Sprintf("\n%s review of key risk indicators against the thresholds above.", cadence)
}

func riskConclusion(in Input) string {
	counts := map[level]int{}
	for _, r := range assessRisks(in) {
		counts[r.rating()]++
	}
	switch overallRating(in, counts) {
	case levelHigh:
		return "The risk profile is elevated. Proceeding requires explicit committee sign-off on the high-rated risks and their mitigations."
	case levelMedium:
		return "The risk profile is manageable provided the mitigations above are reflected in the transaction documents."
	}
	return "The risk profile is within tolerance for the fund."
}
