package main

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/deal-engine/internal/model"
)

func testReport(t *testing.T) scoreReport {
	t.Helper()
	svc, err := newServices(testConfig())
	require.NoError(t, err)

	tmpl := testScreeningTemplate()
	suggestions, err := svc.engine.GenerateBatchSuggestions(t.Context(), testOpportunity(), tmpl)
	require.NoError(t, err)
	return buildScoreReport(testOpportunity(), tmpl, suggestions)
}

func TestBuildScoreReportTemplateOrder(t *testing.T) {
	r := testReport(t)

	require.Len(t, r.Rows, 4)
	for i, id := range []string{"fin", "ops", "strat", "risk"} {
		assert.Equal(t, id, r.Rows[i].Criterion.ID)
		assert.Equal(t, id, r.Rows[i].Suggestion.CriterionID)
	}
	assert.GreaterOrEqual(t, r.Result.TotalScore, 0.0)
	assert.LessOrEqual(t, r.Result.TotalScore, 100.0)
	assert.Len(t, r.Result.CriteriaScores, 4)
}

func TestBuildScoreReportPartial(t *testing.T) {
	tmpl := testScreeningTemplate()
	r := buildScoreReport(testOpportunity(), tmpl, map[string]model.Suggestion{
		"risk": {CriterionID: "risk", Score: 5},
	})
	require.Len(t, r.Rows, 1)
	assert.Equal(t, "risk", r.Rows[0].Criterion.ID)
	assert.InDelta(t, 50, r.Result.TotalScore, 1e-9)
}

func TestWriteScoreCSV(t *testing.T) {
	r := testReport(t)

	var buf bytes.Buffer
	require.NoError(t, writeScoreCSV(&buf, r))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, scoreHeader, records[0])
	assert.Equal(t, "fin", records[1][0])
	assert.Equal(t, "Financial Returns", records[1][1])
	assert.Equal(t, "financial", records[1][2])
}

func TestWriteScoreTable(t *testing.T) {
	r := testReport(t)

	var buf bytes.Buffer
	require.NoError(t, writeScoreTable(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Opportunity: CloudCo (Technology)")
	assert.Contains(t, out, "Template:    Growth Equity")
	assert.Contains(t, out, "[fin] ")
	assert.Contains(t, out, "--- Summary ---")
	assert.Contains(t, out, "Recommendation: "+r.Result.Recommendation.Label())
}

func TestWriteScoreXLSX(t *testing.T) {
	r := testReport(t)
	path := filepath.Join(t.TempDir(), "scores.xlsx")

	require.NoError(t, writeScoreXLSX(path, r))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Suggestions"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 5)
	assert.Equal(t, "criterion_id", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "risk", sheet.Rows[4].Cells[0].String())

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "recommendation", summary.Rows[3].Cells[0].String())
	assert.Equal(t, string(r.Result.Recommendation), summary.Rows[3].Cells[1].String())
}

func TestWriteTemplateTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTemplateTable(&buf, nil))
	assert.Equal(t, "No templates.\n", buf.String())
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "Energy", orDash("Energy"))
}
