package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriterionValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Criterion
		wantErr string
	}{
		{"valid", Criterion{ID: "irr", Category: CategoryFinancial, MinValue: 0, MaxValue: 10, Weight: 1}, ""},
		{"missing id", Criterion{Category: CategoryFinancial, MinValue: 0, MaxValue: 10}, "id is required"},
		{"unknown category", Criterion{ID: "x", Category: "esg", MinValue: 0, MaxValue: 10}, "unknown category"},
		{"equal bounds", Criterion{ID: "x", Category: CategoryRisk, MinValue: 5, MaxValue: 5}, "must be below"},
		{"inverted bounds", Criterion{ID: "x", Category: CategoryRisk, MinValue: 10, MaxValue: 0}, "must be below"},
		{"negative weight", Criterion{ID: "x", Category: CategoryRisk, MinValue: 0, MaxValue: 10, Weight: -1}, "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Autonomous ")
	require.NoError(t, err)
	assert.Equal(t, ModeAutonomous, m)

	_, err = ParseMode("hybrid")
	assert.Error(t, err)
}

func TestParseDocumentType(t *testing.T) {
	dt, err := ParseDocumentType("committee-memo")
	require.NoError(t, err)
	assert.Equal(t, DocumentCommitteeMemo, dt)

	_, err = ParseDocumentType("pitch_deck")
	assert.Error(t, err)
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseExportFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseExportFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "Unsupported format")
}

func TestTemplateCriterion(t *testing.T) {
	tmpl := ScreeningTemplate{Criteria: []Criterion{{ID: "a"}, {ID: "b"}}}
	c, ok := tmpl.Criterion("b")
	assert.True(t, ok)
	assert.Equal(t, "b", c.ID)

	_, ok = tmpl.Criterion("z")
	assert.False(t, ok)
}

func TestGeneratedDocumentStructural(t *testing.T) {
	doc := GeneratedDocument{
		ID:            "doc-1",
		OpportunityID: "opp-1",
		Type:          DocumentRiskAssessment,
		Title:         "Risk Assessment",
		Sections:      []Section{{Title: "Summary", Content: "one two three"}},
		Content:       "## Summary\n\none two three",
		GeneratedBy:   GeneratedByAI,
	}
	s := doc.Structural()
	assert.Equal(t, "doc-1", s.ID)
	assert.Equal(t, "Risk Assessment", s.Title)
	assert.Equal(t, "risk_assessment", s.Metadata["document_type"])
	assert.Equal(t, 5, s.WordCount)

	s.Sections[0].Title = "changed"
	assert.Equal(t, "Summary", doc.Sections[0].Title, "structural copy must not alias the document")
}

func TestRecommendationLabel(t *testing.T) {
	assert.Equal(t, "Highly Recommended", RecommendationHighlyRecommended.Label())
	assert.Equal(t, "watch list", Recommendation("watch_list").Label())
}
