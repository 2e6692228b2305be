package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ErrUnsupportedFormat is returned for any export format without a renderer.
var ErrUnsupportedFormat = eris.New("Unsupported format")

// Mode is the evaluation mode a document is generated under.
type Mode string

const (
	ModeTraditional Mode = "traditional"
	ModeAssisted    Mode = "assisted"
	ModeAutonomous  Mode = "autonomous"
)

// Modes lists modes in increasing order of automation.
var Modes = []Mode{ModeTraditional, ModeAssisted, ModeAutonomous}

// Valid reports whether m is one of the three known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeTraditional, ModeAssisted, ModeAutonomous:
		return true
	}
	return false
}

// ParseMode validates a free-form mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", eris.Errorf("model: unknown mode %q (want traditional, assisted or autonomous)", s)
	}
	return m, nil
}

// DocumentType identifies which document the assembler composes.
type DocumentType string

const (
	DocumentInvestmentSummary DocumentType = "investment_summary"
	DocumentCommitteeMemo     DocumentType = "committee_memo"
	DocumentDueDiligencePlan  DocumentType = "due_diligence_plan"
	DocumentRiskAssessment    DocumentType = "risk_assessment"
)

// DocumentTypes lists all document types.
var DocumentTypes = []DocumentType{
	DocumentInvestmentSummary,
	DocumentCommitteeMemo,
	DocumentDueDiligencePlan,
	DocumentRiskAssessment,
}

// ParseDocumentType validates a document type string. Hyphens are accepted
// in place of underscores.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range DocumentTypes {
		if t == known {
			return t, nil
		}
	}
	return "", eris.Errorf("model: unknown document type %q", s)
}

// GeneratedBy records whether a document came from a fixed template or
// AI-assisted composition.
type GeneratedBy string

const (
	GeneratedByTemplate GeneratedBy = "template"
	GeneratedByAI       GeneratedBy = "ai"
)

// Section is one titled block of a document.
type Section struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// GeneratedDocument is an assembled deal document. It is never mutated after
// construction; edits produce a new document.
type GeneratedDocument struct {
	ID             string       `json:"id"`
	OpportunityID  string       `json:"opportunity_id,omitempty"`
	Type           DocumentType `json:"type"`
	Title          string       `json:"title"`
	Sections       []Section    `json:"sections"`
	Content        string       `json:"content"`
	Format         ExportFormat `json:"format"`
	GeneratedBy    GeneratedBy  `json:"generated_by"`
	ReviewRequired bool         `json:"review_required"`
	DownloadURL    string       `json:"download_url"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Structural converts the document into the format-agnostic export input.
func (d GeneratedDocument) Structural() StructuralDocument {
	sections := make([]Section, len(d.Sections))
	copy(sections, d.Sections)
	return StructuralDocument{
		ID:       d.ID,
		Title:    d.Title,
		Sections: sections,
		Metadata: map[string]string{
			"document_type":  string(d.Type),
			"opportunity_id": d.OpportunityID,
			"generated_by":   string(d.GeneratedBy),
		},
		WordCount: len(strings.Fields(d.Content)),
	}
}

// StructuralDocument is the format-agnostic input to the format optimizer.
type StructuralDocument struct {
	ID        string            `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string            `json:"title" yaml:"title"`
	Sections  []Section         `json:"sections" yaml:"sections"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	WordCount int               `json:"word_count,omitempty" yaml:"word_count,omitempty"`
}

// ExportFormat is a target rendering format.
type ExportFormat string

const (
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
	FormatHTML     ExportFormat = "html"
	FormatMarkdown ExportFormat = "markdown"
)

// ExportFormats lists the supported formats.
var ExportFormats = []ExportFormat{FormatPDF, FormatDOCX, FormatHTML, FormatMarkdown}

// ParseExportFormat validates a format string. "md" is accepted for Markdown.
func ParseExportFormat(s string) (ExportFormat, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "md" {
		v = string(FormatMarkdown)
	}
	for _, f := range ExportFormats {
		if ExportFormat(v) == f {
			return f, nil
		}
	}
	return "", eris.Wrapf(ErrUnsupportedFormat, "model: format %q", s)
}
