package document

import (
	"github.com/sells-group/deal-engine/internal/model"
)

func automation(autonomous, assisted, traditional float64) map[model.Mode]float64 {
	return map[model.Mode]float64{
		model.ModeAutonomous:  autonomous,
		model.ModeAssisted:    assisted,
		model.ModeTraditional: traditional,
	}
}

func titled(prefix string) func(Input) string {
	return func(in Input) string {
		return prefix + ": " + in.Opportunity.DisplayName()
	}
}

func investmentSummaryBuilder() Builder {
	return Builder{
		Type:  model.DocumentInvestmentSummary,
		Title: titled("Investment Summary"),
		Sections: []SectionBuilder{
			{Title: "Executive Summary", Build: executiveSummary},
			{Title: "Deal Overview", Build: dealOverview},
			{Title: "Investment Thesis", Build: investmentThesis, Assisted: true},
			{Title: "Screening Results", Build: screeningResults},
			{Title: "AI-Enhanced Risk Factors", Build: riskFactorList, Assisted: true},
			{Title: "Recommendation", Build: recommendationText},
			{Title: "Next Steps", Build: nextSteps},
		},
		Automation: automation(0.90, 0.70, 0.35),
		ReviewRequired: func(in Input, quality float64) bool {
			return !(in.Mode == model.ModeAutonomous && quality >= 0.85)
		},
	}
}

func committeeMemoBuilder() Builder {
	return Builder{
		Type:  model.DocumentCommitteeMemo,
		Title: titled("Investment Committee Memo"),
		Sections: []SectionBuilder{
			{Title: "Memo Header", Build: memoHeader},
			{Title: "Executive Summary", Build: executiveSummary},
			{Title: "Transaction Overview", Build: dealOverview},
			{Title: "Investment Thesis", Build: investmentThesis, Assisted: true},
			{Title: "Financial Analysis", Build: financialAnalysis},
			{Title: "Screening Results", Build: screeningResults},
			{Title: "AI-Enhanced Risk Factors", Build: riskFactorList, Assisted: true},
			{Title: "Recommendation", Build: recommendationText},
			{Title: "Approval Requested", Build: approvalRequest},
			{Title: "Next Steps", Build: nextSteps},
		},
		Automation: automation(0.85, 0.65, 0.30),
		// Committee memos are always reviewed.
		ReviewRequired: func(Input, float64) bool { return true },
	}
}

func dueDiligencePlanBuilder() Builder {
	return Builder{
		Type:  model.DocumentDueDiligencePlan,
		Title: titled("Due Diligence Plan"),
		Sections: []SectionBuilder{
			{Title: "Executive Summary", Build: diligenceOverview},
			{Title: "Workstreams", Build: diligenceWorkstreams},
			{Title: "Timeline", Build: diligenceTimeline},
			{Title: "Team and Resources", Build: diligenceTeam},
			{Title: "Key Diligence Questions", Build: keyQuestions},
			{Title: "AI-Enhanced Risk Factors", Build: riskFactorList, Assisted: true},
			{Title: "Next Steps", Build: nextSteps},
		},
		Automation: automation(0.80, 0.60, 0.25),
		ReviewRequired: func(in Input, _ float64) bool {
			return !(in.Mode == model.ModeAutonomous && in.Opportunity.AskPrice <= 100_000_000)
		},
	}
}

func riskAssessmentBuilder() Builder {
	return Builder{
		Type:  model.DocumentRiskAssessment,
		Title: titled("Risk Assessment"),
		Sections: []SectionBuilder{
			{Title: "Executive Summary", Build: riskSummary},
			{Title: "Risk Heat Map", Build: riskHeatMap},
			{Title: "AI-Enhanced Risk Factors", Build: riskFactorList, Assisted: true},
			{Title: "Mitigation Strategies", Build: mitigationStrategies},
			{Title: "Monitoring Plan", Build: monitoringPlan},
			{Title: "Conclusion", Build: riskConclusion},
		},
		Automation: automation(0.95, 0.75, 0.40),
		ReviewRequired: func(in Input, _ float64) bool {
			return !(in.Mode == model.ModeAutonomous && in.Screening.TotalScore >= 70)
		},
	}
}
