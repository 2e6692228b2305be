package export

import (
	"sort"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
)

// GeneralIndustry matches every industry filter.
const GeneralIndustry = "general"

// Template is a curated export preset.
type Template struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Format      model.ExportFormat `json:"format" yaml:"format"`
	Industry    string             `json:"industry" yaml:"industry"`
	Overrides   Overrides          `json:"overrides" yaml:"overrides"`
	UsageCount  int                `json:"usage_count" yaml:"usage_count"`
	Rating      float64            `json:"rating" yaml:"rating"`
}

// Options returns the template's fully populated options.
func (t Template) Options() Options {
	return DefaultOptions(t.Format).Merge(&t.Overrides)
}

// TemplateRegistry is an immutable set of templates, safe for concurrent
// reads.
type TemplateRegistry struct {
	templates []Template
	byID      map[string]int
}

// NewTemplateRegistry builds the curated template list.
func NewTemplateRegistry() *TemplateRegistry {
	return newTemplateRegistry(curatedTemplates())
}

func newTemplateRegistry(list []Template) *TemplateRegistry {
	r := &TemplateRegistry{
		templates: list,
		byID:      make(map[string]int, len(list)),
	}
	for i, t := range list {
		r.byID[t.ID] = i
	}
	return r
}

// Templates returns templates for format (empty for any) whose industry
// matches industry or is general (empty for any), sorted by rating
// descending then ID.
func (r *TemplateRegistry) Templates(format model.ExportFormat, industry string) []Template {
	industry = strings.TrimSpace(industry)
	var out []Template
	for _, t := range r.templates {
		if format != "" && t.Format != format {
			continue
		}
		if industry != "" && !strings.EqualFold(t.Industry, industry) && !strings.EqualFold(t.Industry, GeneralIndustry) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Template returns the template with the given ID.
func (r *TemplateRegistry) Template(id string) (Template, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Template{}, false
	}
	return r.templates[i], true
}

func ptr[T any](v T) *T { return &v }

func curatedTemplates() []Template {
	boardStructure := Structure{
		IncludeCoverPage:        true,
		IncludeTableOfContents:  true,
		IncludeExecutiveSummary: true,
		PageNumbers:             true,
		Headers:                 true,
		Footers:                 true,
	}
	return []Template{
		{
			ID:          "pdf-ic-board-pack",
			Name:        "Investment Committee Board Pack",
			Description: "Print-ready committee pack with cover, contents and confidentiality marking.",
			Format:      model.FormatPDF,
			Industry:    GeneralIndustry,
			Overrides: Overrides{
				Structure: &boardStructure,
				Compliance: &Compliance{
					Industry:     GeneralIndustry,
					Confidential: true,
					Disclaimer:   defaultDisclaimer,
					Watermark:    "CONFIDENTIAL",
				},
			},
			UsageCount: 1240,
			Rating:     4.9,
		},
		{
			ID:          "pdf-lp-quarterly",
			Name:        "LP Quarterly Update",
			Description: "Landscape investor update with two-column layout.",
			Format:      model.FormatPDF,
			Industry:    "financial services",
			Overrides: Overrides{
				Layout: &Layout{PageSize: "A4", Orientation: "landscape", Margins: Margins{Top: 0.75, Bottom: 0.75, Left: 0.75, Right: 0.75}, Columns: 2},
				Compliance: &Compliance{
					Industry:     "financial services",
					Confidential: true,
					Disclaimer:   "Prepared for limited partners. Past performance is not indicative of future results.",
				},
			},
			UsageCount: 860,
			Rating:     4.7,
		},
		{
			ID:          "pdf-healthcare-diligence",
			Name:        "Healthcare Diligence Report",
			Description: "Diligence report with regulatory disclosure language.",
			Format:      model.FormatPDF,
			Industry:    "healthcare",
			Overrides: Overrides{
				Compliance: &Compliance{
					Industry:     "healthcare",
					Confidential: true,
					Disclaimer:   "Contains no protected health information. Regulatory findings require counsel review.",
				},
			},
			UsageCount: 410,
			Rating:     4.6,
		},
		{
			ID:          "docx-committee-redline",
			Name:        "Committee Memo Redline",
			Description: "Editable memo with track changes for committee review.",
			Format:      model.FormatDOCX,
			Industry:    GeneralIndustry,
			Overrides: Overrides{
				Export: &ExportPolicy{Quality: "standard", AllowEditing: true, EmbedFonts: true},
			},
			UsageCount: 980,
			Rating:     4.8,
		},
		{
			ID:          "docx-technology-workbook",
			Name:        "Technology Diligence Workbook",
			Description: "Editable workbook with contents for technical diligence teams.",
			Format:      model.FormatDOCX,
			Industry:    "technology",
			Overrides: Overrides{
				Typography: &Typography{FontFamily: "Calibri", HeadingFont: "Calibri", FontSize: 10.5, LineHeight: 1.15},
				Structure:  ptr(boardStructure),
			},
			UsageCount: 530,
			Rating:     4.5,
		},
		{
			ID:          "html-deal-room",
			Name:        "Deal Room Page",
			Description: "Responsive page for the virtual deal room.",
			Format:      model.FormatHTML,
			Industry:    GeneralIndustry,
			UsageCount:  720,
			Rating:      4.6,
		},
		{
			ID:          "html-technology-brief",
			Name:        "Technology Investment Brief",
			Description: "Screen-first brief without cover for technology deals.",
			Format:      model.FormatHTML,
			Industry:    "technology",
			Overrides: Overrides{
				Typography: &Typography{FontFamily: "Inter", HeadingFont: "Inter", FontSize: 11, LineHeight: 1.5},
			},
			UsageCount: 390,
			Rating:     4.4,
		},
		{
			ID:          "markdown-deal-wiki",
			Name:        "Deal Wiki Page",
			Description: "Plain markdown for the internal wiki.",
			Format:      model.FormatMarkdown,
			Industry:    GeneralIndustry,
			UsageCount:  650,
			Rating:      4.3,
		},
		{
			ID:          "markdown-energy-notes",
			Name:        "Energy Transition Notes",
			Description: "Working notes for energy transition deals.",
			Format:      model.FormatMarkdown,
			Industry:    "energy",
			Overrides: Overrides{
				Compliance: &Compliance{Industry: "energy", Disclaimer: "Transition assumptions reflect the current policy scenario."},
			},
			UsageCount: 140,
			Rating:     4.1,
		},
	}
}
