package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-engine/internal/model"
)

func templateIDs(ts []Template) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}

func TestTemplatesFilterAndSort(t *testing.T) {
	r := NewTemplateRegistry()

	tests := []struct {
		name     string
		format   model.ExportFormat
		industry string
		want     []string
	}{
		{"pdf any industry", model.FormatPDF, "", []string{"pdf-ic-board-pack", "pdf-lp-quarterly", "pdf-healthcare-diligence"}},
		{"pdf healthcare includes general", model.FormatPDF, "Healthcare", []string{"pdf-ic-board-pack", "pdf-healthcare-diligence"}},
		{"html technology", model.FormatHTML, "technology", []string{"html-deal-room", "html-technology-brief"}},
		{"markdown unknown industry", model.FormatMarkdown, "mining", []string{"markdown-deal-wiki"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, templateIDs(r.Templates(tt.format, tt.industry)))
		})
	}

	all := r.Templates("", "")
	require.Len(t, all, 9)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Rating, all[i].Rating)
	}
}

func TestTemplatesTieBreakByID(t *testing.T) {
	r := newTemplateRegistry([]Template{
		{ID: "b", Format: model.FormatHTML, Industry: GeneralIndustry, Rating: 4},
		{ID: "a", Format: model.FormatHTML, Industry: GeneralIndustry, Rating: 4},
		{ID: "c", Format: model.FormatHTML, Industry: GeneralIndustry, Rating: 5},
	})
	assert.Equal(t, []string{"c", "a", "b"}, templateIDs(r.Templates(model.FormatHTML, "")))
}

func TestTemplateLookupAndOptions(t *testing.T) {
	r := NewTemplateRegistry()

	tmpl, ok := r.Template("docx-technology-workbook")
	require.True(t, ok)
	opts := tmpl.Options()
	assert.Equal(t, "Calibri", opts.Typography.FontFamily)
	assert.True(t, opts.Structure.IncludeTableOfContents)
	assert.True(t, opts.Export.AllowEditing)

	_, ok = r.Template("nope")
	assert.False(t, ok)
}
