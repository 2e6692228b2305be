// Package export renders structural documents into format-tailored
// artifacts with size, page and quality metadata.
package export

import (
	"github.com/sells-group/deal-engine/internal/model"
)

// Typography controls fonts and spacing.
type Typography struct {
	FontFamily  string  `json:"font_family" yaml:"font_family"`
	HeadingFont string  `json:"heading_font" yaml:"heading_font"`
	FontSize    float64 `json:"font_size" yaml:"font_size"`
	LineHeight  float64 `json:"line_height" yaml:"line_height"`
}

// Margins are in inches.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// Layout controls page geometry.
type Layout struct {
	PageSize    string  `json:"page_size" yaml:"page_size"`
	Orientation string  `json:"orientation" yaml:"orientation"`
	Margins     Margins `json:"margins" yaml:"margins"`
	Columns     int     `json:"columns" yaml:"columns"`
}

// Structure toggles document scaffolding.
type Structure struct {
	IncludeCoverPage        bool `json:"include_cover_page" yaml:"include_cover_page"`
	IncludeTableOfContents  bool `json:"include_table_of_contents" yaml:"include_table_of_contents"`
	IncludeExecutiveSummary bool `json:"include_executive_summary" yaml:"include_executive_summary"`
	PageNumbers             bool `json:"page_numbers" yaml:"page_numbers"`
	Headers                 bool `json:"headers" yaml:"headers"`
	Footers                 bool `json:"footers" yaml:"footers"`
}

// Compliance carries industry and disclosure settings.
type Compliance struct {
	Industry     string `json:"industry" yaml:"industry"`
	Confidential bool   `json:"confidential" yaml:"confidential"`
	Disclaimer   string `json:"disclaimer" yaml:"disclaimer"`
	Watermark    string `json:"watermark" yaml:"watermark"`
}

// ExportPolicy controls output fidelity and editability.
type ExportPolicy struct {
	Quality      string `json:"quality" yaml:"quality"`
	Compression  bool   `json:"compression" yaml:"compression"`
	EmbedFonts   bool   `json:"embed_fonts" yaml:"embed_fonts"`
	AllowEditing bool   `json:"allow_editing" yaml:"allow_editing"`
}

// Options is the fully populated option set a renderer receives.
type Options struct {
	Typography Typography   `json:"typography" yaml:"typography"`
	Layout     Layout       `json:"layout" yaml:"layout"`
	Structure  Structure    `json:"structure" yaml:"structure"`
	Compliance Compliance   `json:"compliance" yaml:"compliance"`
	Export     ExportPolicy `json:"export" yaml:"export"`
}

// Overrides replace whole option sections. Nil sections keep the default.
type Overrides struct {
	Typography *Typography   `json:"typography,omitempty" yaml:"typography,omitempty"`
	Layout     *Layout       `json:"layout,omitempty" yaml:"layout,omitempty"`
	Structure  *Structure    `json:"structure,omitempty" yaml:"structure,omitempty"`
	Compliance *Compliance   `json:"compliance,omitempty" yaml:"compliance,omitempty"`
	Export     *ExportPolicy `json:"export,omitempty" yaml:"export,omitempty"`
}

const defaultDisclaimer = "For internal investment committee use only. Figures are estimates and have not been audited."

func baseOptions() Options {
	return Options{
		Typography: Typography{
			FontFamily:  "Georgia",
			HeadingFont: "Helvetica",
			FontSize:    11,
			LineHeight:  1.4,
		},
		Layout: Layout{
			PageSize:    "Letter",
			Orientation: "portrait",
			Margins:     Margins{Top: 1, Bottom: 1, Left: 1, Right: 1},
			Columns:     1,
		},
		Structure: Structure{
			IncludeCoverPage:        true,
			IncludeTableOfContents:  true,
			IncludeExecutiveSummary: true,
			PageNumbers:             true,
			Headers:                 true,
			Footers:                 true,
		},
		Compliance: Compliance{
			Industry:     "general",
			Confidential: true,
			Disclaimer:   defaultDisclaimer,
		},
		Export: ExportPolicy{
			Quality:     "standard",
			Compression: true,
			EmbedFonts:  true,
		},
	}
}

// DefaultOptions returns the shared base options adjusted for format.
func DefaultOptions(format model.ExportFormat) Options {
	o := baseOptions()
	switch format {
	case model.FormatPDF:
		o.Export.Quality = "print"
		o.Structure.PageNumbers = true
	case model.FormatDOCX:
		o.Export.AllowEditing = true
		o.Structure.IncludeTableOfContents = false
	case model.FormatHTML:
		o.Structure.PageNumbers = false
		o.Export.Quality = "screen"
	case model.FormatMarkdown:
		o.Structure.PageNumbers = false
		o.Structure.Headers = false
		o.Structure.Footers = false
		o.Structure.IncludeCoverPage = false
	}
	return o
}

// Merge returns o with each non-nil override section replacing its
// counterpart.
func (o Options) Merge(ov *Overrides) Options {
	if ov == nil {
		return o
	}
	if ov.Typography != nil {
		o.Typography = *ov.Typography
	}
	if ov.Layout != nil {
		o.Layout = *ov.Layout
	}
	if ov.Structure != nil {
		o.Structure = *ov.Structure
	}
	if ov.Compliance != nil {
		o.Compliance = *ov.Compliance
	}
	if ov.Export != nil {
		o.Export = *ov.Export
	}
	return o
}
