package export

import (
	"strings"
	"time"

	"github.com/sells-group/deal-engine/internal/model"
)

// Optimization names reported in result metadata.
const (
	optPDFLayout         = "pdf_layout"
	optPDFMetadata       = "pdf_metadata"
	optPDFTypography     = "pdf_typography"
	optPDFNavigation     = "pdf_page_break_navigation"
	optDOCXStyles        = "docx_style_definitions"
	optDOCXComments      = "docx_review_comments"
	optDOCXTables        = "docx_table_formatting"
	optHTMLAccessibility = "html_accessibility"
	optHTMLResponsive    = "html_responsive_layout"
	optHTMLInteractive   = "html_interactive_navigation"
	optHTMLSEO           = "html_seo_metadata"
	optMDFrontMatter     = "markdown_front_matter"
	optMDAnchorTOC       = "markdown_anchor_toc"
	optMDWhitespace      = "markdown_whitespace_normalization"
	optTableOfContents   = "table_of_contents"
	optExecutiveSummary  = "executive_summary"
	optCoverPage         = "cover_page"
)

const (
	tocTitle              = "Table of Contents"
	executiveSummaryTitle = "Executive Summary"
	summaryWordLimit      = 60
)

// RenderInput is everything a renderer needs. Sections are already prepared
// (executive summary inserted when requested).
type RenderInput struct {
	Document  model.StructuralDocument
	Sections  []model.Section
	Options   Options
	Generated time.Time
}

// Renderer turns a prepared document into format content and reports the
// optimizations it applied.
type Renderer func(in RenderInput) (content string, applied []string)

// DefaultRenderers returns the renderer for each supported format.
func DefaultRenderers() map[model.ExportFormat]Renderer {
	return map[model.ExportFormat]Renderer{
		model.FormatPDF:      renderPDF,
		model.FormatDOCX:     renderDOCX,
		model.FormatHTML:     renderHTML,
		model.FormatMarkdown: renderMarkdown,
	}
}

// prepareSections copies the document sections and, when the options ask for
// an executive summary the document lacks, prepends one built from the first
// paragraph.
func prepareSections(doc model.StructuralDocument, opts Options) ([]model.Section, bool) {
	sections := make([]model.Section, 0, len(doc.Sections)+1)
	if !opts.Structure.IncludeExecutiveSummary || hasSection(doc.Sections, executiveSummaryTitle) {
		return append(sections, doc.Sections...), false
	}
	summary := firstParagraph(doc.Sections)
	if summary == "" {
		return append(sections, doc.Sections...), false
	}
	sections = append(sections, model.Section{Title: executiveSummaryTitle, Content: summary})
	return append(sections, doc.Sections...), true
}

func hasSection(sections []model.Section, title string) bool {
	for _, s := range sections {
		if strings.EqualFold(strings.TrimSpace(s.Title), title) {
			return true
		}
	}
	return false
}

func firstParagraph(sections []model.Section) string {
	for _, s := range sections {
		for _, b := range parseBlocks(s.Content) {
			if b.kind != blockParagraph {
				continue
			}
			text := b.text.markdown()
			words := strings.Fields(text)
			if len(words) > summaryWordLimit {
				return strings.Join(words[:summaryWordLimit], " ") + " ..."
			}
			return text
		}
	}
	return ""
}

func documentTitle(doc model.StructuralDocument) string {
	if strings.TrimSpace(doc.Title) == "" {
		return "Untitled Document"
	}
	return doc.Title
}
