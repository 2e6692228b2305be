package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/model"
	"github.com/sells-group/deal-engine/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Generate screening score suggestions for an opportunity",
	Long: `Scores an opportunity against every criterion of a screening template
(or a single criterion with --criterion) and prints the suggestions with
the weighted screening total and recommendation.

Output formats:
  table  aligned text (default)
  csv    one row per criterion
  xlsx   workbook with Suggestions and Summary sheets (requires --output)`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("deal", "", "opportunity record (YAML or JSON)")
	f.String("template", "", "screening template record (YAML or JSON)")
	f.String("criterion", "", "score only this criterion ID")
	f.String("format", "table", "output format: table, csv or xlsx")
	f.String("output", "", "output file path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("deal")
	_ = scoreCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(scoreCmd)
}

// scoreRow is one printed suggestion.
type scoreRow struct {
	Criterion  model.Criterion
	Suggestion model.Suggestion
}

// scoreReport is everything the score command prints.
type scoreReport struct {
	Opportunity model.Opportunity
	Template    model.ScreeningTemplate
	Rows        []scoreRow
	Result      model.ScreeningResult
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dealPath, _ := cmd.Flags().GetString("deal")
	tmplPath, _ := cmd.Flags().GetString("template")
	criterionID, _ := cmd.Flags().GetString("criterion")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "table" && format != "csv" && format != "xlsx" {
		return eris.Errorf("score: --format must be table, csv or xlsx (got %q)", format)
	}
	if format == "xlsx" && outputPath == "" {
		return eris.New("score: --format xlsx requires --output")
	}

	log := zap.L().With(zap.String("command", "score"))

	opp, err := loadOpportunity(dealPath)
	if err != nil {
		return err
	}
	tmpl, err := loadTemplate(tmplPath)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	var suggestions map[string]model.Suggestion
	if criterionID != "" {
		c, ok := tmpl.Criterion(criterionID)
		if !ok {
			return eris.Errorf("score: criterion %q not in template %s", criterionID, tmpl.ID)
		}
		s, err := svc.engine.GenerateSuggestion(opp, c, tmpl)
		if err != nil {
			return eris.Wrapf(err, "score: criterion %s", criterionID)
		}
		suggestions = map[string]model.Suggestion{c.ID: *s}
	} else {
		suggestions, err = svc.engine.GenerateBatchSuggestions(ctx, opp, tmpl)
		if err != nil {
			return eris.Wrap(err, "score: batch")
		}
	}

	report := buildScoreReport(opp, tmpl, suggestions)
	log.Info("scoring complete",
		zap.String("opportunity_id", opp.ID),
		zap.Int("criteria", len(report.Rows)),
		zap.Float64("total_score", report.Result.TotalScore),
		zap.String("recommendation", string(report.Result.Recommendation)),
	)

	if format == "xlsx" {
		return writeScoreXLSX(outputPath, report)
	}

	w, done, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer done()

	if format == "csv" {
		return writeScoreCSV(w, report)
	}
	return writeScoreTable(w, report)
}

// buildScoreReport orders suggestions by template order.
func buildScoreReport(opp model.Opportunity, tmpl model.ScreeningTemplate, suggestions map[string]model.Suggestion) scoreReport {
	r := scoreReport{
		Opportunity: opp,
		Template:    tmpl,
		Result:      scorer.ScreeningResultFrom(suggestions, tmpl),
	}
	for _, c := range tmpl.Criteria {
		if s, ok := suggestions[c.ID]; ok {
			r.Rows = append(r.Rows, scoreRow{Criterion: c, Suggestion: s})
		}
	}
	return r
}

var scoreHeader = []string{"criterion_id", "name", "category", "score", "min", "max", "confidence", "portfolio_avg", "industry_median", "top_quartile", "risk_factors", "opportunities"}

func (r scoreRow) fields() []string {
	s := r.Suggestion
	return []string{
		r.Criterion.ID,
		r.Criterion.Name,
		string(r.Criterion.Category),
		fmt.Sprintf("%.2f", s.Score),
		fmt.Sprintf("%.2f", r.Criterion.MinValue),
		fmt.Sprintf("%.2f", r.Criterion.MaxValue),
		fmt.Sprintf("%.2f", s.Confidence),
		fmt.Sprintf("%.2f", s.BenchmarkData.PortfolioAverage),
		fmt.Sprintf("%.2f", s.BenchmarkData.IndustryMedian),
		fmt.Sprintf("%.2f", s.BenchmarkData.TopQuartile),
		strings.Join(s.RiskFactors, "; "),
		strings.Join(s.Opportunities, "; "),
	}
}

func writeScoreCSV(w io.Writer, r scoreReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(scoreHeader); err != nil {
		return eris.Wrap(err, "score: write CSV header")
	}
	for _, row := range r.Rows {
		if err := cw.Write(row.fields()); err != nil {
			return eris.Wrap(err, "score: write CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "score: flush CSV")
}

func writeScoreTable(w io.Writer, r scoreReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Opportunity: %s (%s)\n", r.Opportunity.DisplayName(), orDash(r.Opportunity.Sector))
	fmt.Fprintf(&b, "Template:    %s\n\n", orDash(r.Template.Name))
	fmt.Fprintf(&b, "%-16s %-30s %-12s %7s %11s %5s\n", "Criterion", "Name", "Category", "Score", "Range", "Conf")
	fmt.Fprintln(&b, strings.Repeat("-", 86))
	for _, row := range r.Rows {
		name := row.Criterion.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(&b, "%-16s %-30s %-12s %7.2f %5.1f-%-5.1f %5.2f\n",
			row.Criterion.ID, name, row.Criterion.Category,
			row.Suggestion.Score, row.Criterion.MinValue, row.Criterion.MaxValue, row.Suggestion.Confidence)
	}

	for _, row := range r.Rows {
		fmt.Fprintf(&b, "\n[%s] %s\n", row.Criterion.ID, row.Suggestion.Reasoning)
		for _, rf := range row.Suggestion.RiskFactors {
			fmt.Fprintf(&b, "  risk: %s\n", rf)
		}
		for _, op := range row.Suggestion.Opportunities {
			fmt.Fprintf(&b, "  upside: %s\n", op)
		}
	}

	fmt.Fprintf(&b, "\n--- Summary ---\n")
	fmt.Fprintf(&b, "Total score:    %.2f / 100\n", r.Result.TotalScore)
	fmt.Fprintf(&b, "Recommendation: %s\n", r.Result.Recommendation.Label())

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "score: write table")
	}
	return nil
}

func writeScoreXLSX(path string, r scoreReport) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Suggestions")
	if err != nil {
		return eris.Wrap(err, "score: add suggestions sheet")
	}
	addStringRow(sheet, scoreHeader)
	for _, row := range r.Rows {
		addStringRow(sheet, row.fields())
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "score: add summary sheet")
	}
	addStringRow(summary, []string{"opportunity", r.Opportunity.DisplayName()})
	addStringRow(summary, []string{"template", r.Template.Name})
	addStringRow(summary, []string{"total_score", fmt.Sprintf("%.2f", r.Result.TotalScore)})
	addStringRow(summary, []string{"recommendation", string(r.Result.Recommendation)})

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "score: save %s", path)
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
