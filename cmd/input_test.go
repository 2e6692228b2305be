package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/deal-engine/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func createCriteriaXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, r := range rows {
		addStringRow(sheet, r)
	}
	path := filepath.Join(t.TempDir(), "growth.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadOpportunityYAML(t *testing.T) {
	path := writeFile(t, "deal.yaml", `
id: opp-7
name: GridWorks
sector: Energy
asset_type: Direct
geography: Europe
vintage: 2023
ask_price: 42000000
expected_irr: 18.5
similar_deals:
  - name: VoltCo
`)

	opp, err := loadOpportunity(path)
	require.NoError(t, err)
	assert.Equal(t, "GridWorks", opp.Name)
	assert.InDelta(t, 42_000_000, opp.AskPrice, 0.1)
	require.NotNil(t, opp.ExpectedIRR)
	assert.InDelta(t, 18.5, *opp.ExpectedIRR, 1e-9)
	assert.Nil(t, opp.ExpectedMultiple)
	assert.Len(t, opp.SimilarDeals, 1)
}

func TestLoadOpportunityJSON(t *testing.T) {
	path := writeFile(t, "deal.json", `{"id":"opp-8","sector":"Healthcare","ask_price":5000000,"expected_risk":0.22}`)

	opp, err := loadOpportunity(path)
	require.NoError(t, err)
	assert.Equal(t, "opp-8", opp.ID)
	require.NotNil(t, opp.ExpectedRisk)
	assert.InDelta(t, 0.22, *opp.ExpectedRisk, 1e-9)
}

func TestLoadOpportunityErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{"empty path", func(t *testing.T) string { return "" }, "path is required"},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }, "input: read"},
		{"bad yaml", func(t *testing.T) string { return writeFile(t, "bad.yaml", "id: [unclosed") }, "input: parse"},
		{"anonymous", func(t *testing.T) string { return writeFile(t, "anon.yaml", "sector: Energy\n") }, "needs an id or name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadOpportunity(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTemplateYAML(t *testing.T) {
	path := writeFile(t, "tmpl.yaml", `
id: growth
name: Growth Equity
criteria:
  - {id: fin, name: Returns, category: financial, min_value: 0, max_value: 10, weight: 2}
  - {id: risk, name: Risk, category: risk, min_value: 1, max_value: 5, weight: 1}
`)

	tmpl, err := loadTemplate(path)
	require.NoError(t, err)
	require.Len(t, tmpl.Criteria, 2)
	assert.Equal(t, model.CategoryRisk, tmpl.Criteria[1].Category)
	assert.InDelta(t, 5, tmpl.Criteria[1].MaxValue, 1e-9)

	_, err = loadTemplate(writeFile(t, "empty.yaml", "id: x\n"))
	assert.ErrorContains(t, err, "template has no criteria")
}

func TestLoadTemplateXLSX(t *testing.T) {
	path := createCriteriaXLSX(t, "Growth Equity", [][]string{
		{"Weight", "ID", "Name", "Category", "Min_Value", "Max_Value"},
		{"2", "fin", "Returns", "Financial", "0", "10"},
		{"", "", "", "", "", ""},
		{"1", "ops", "Operations", "operational", "0", "10"},
	})

	tmpl, err := loadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "growth", tmpl.ID)
	assert.Equal(t, "Growth Equity", tmpl.Name)
	require.Len(t, tmpl.Criteria, 2)
	assert.Equal(t, model.Criterion{ID: "fin", Name: "Returns", Category: model.CategoryFinancial, MinValue: 0, MaxValue: 10, Weight: 2}, tmpl.Criteria[0])
	assert.Equal(t, "ops", tmpl.Criteria[1].ID)
}

func TestLoadTemplateXLSXErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		path := createCriteriaXLSX(t, "T", [][]string{{"id", "name", "category"}})
		_, err := loadTemplate(path)
		assert.ErrorContains(t, err, `missing column "min_value"`)
	})

	t.Run("bad number", func(t *testing.T) {
		path := createCriteriaXLSX(t, "T", [][]string{
			{"id", "name", "category", "min_value", "max_value", "weight"},
			{"fin", "Returns", "financial", "low", "10", "x"},
		})
		_, err := loadTemplate(path)
		assert.ErrorContains(t, err, "row 2: invalid min_value, weight")
	})
}

func TestLoadWorkflowOptional(t *testing.T) {
	wf, err := loadWorkflow("")
	require.NoError(t, err)
	assert.Nil(t, wf)

	path := writeFile(t, "wf.yaml", `
stage: diligence
owner: J. Rivera
tasks:
  - {name: Customer calls, owner: A. Chen, due_in_days: 7, status: open}
`)
	wf, err = loadWorkflow(path)
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Equal(t, "J. Rivera", wf.Owner)
	assert.Equal(t, 7, wf.Tasks[0].DueInDays)
}

func TestLoadStructural(t *testing.T) {
	path := writeFile(t, "doc.yaml", `
title: Quarterly Update
sections:
  - title: Highlights
    content: |
      - Revenue up
      - Margins stable
`)
	doc, err := loadStructural(path)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Update", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0].Content, "- Margins stable")

	_, err = loadStructural(writeFile(t, "blank.yaml", "id: x\n"))
	assert.ErrorContains(t, err, "no title or sections")
}
