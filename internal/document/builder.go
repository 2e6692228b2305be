package document

import (
	"fmt"
	"strings"

	"github.com/sells-group/deal-engine/internal/model"
)

// analystPlaceholder stands in for mode-conditional sections in
// traditional mode.
const analystPlaceholder = "[To be completed by analyst]"

// Input is what every section builder receives.
type Input struct {
	Opportunity model.Opportunity
	Screening   model.ScreeningResult
	Workflow    *model.Workflow
	Mode        model.Mode
}

// SectionBuilder renders one titled section. Build must be deterministic.
type SectionBuilder struct {
	Title string
	Build func(in Input) string
	// Assisted marks sections that only machine-assisted modes fill in.
	Assisted bool
}

// render produces the section, substituting the analyst placeholder for
// assisted sections in traditional mode.
func (sb SectionBuilder) render(in Input) model.Section {
	if sb.Assisted && in.Mode == model.ModeTraditional {
		return model.Section{Title: sb.Title, Content: analystPlaceholder}
	}
	return model.Section{Title: sb.Title, Content: strings.TrimSpace(sb.Build(in))}
}

// Builder composes one document type.
type Builder struct {
	Type     model.DocumentType
	Title    func(in Input) string
	Sections []SectionBuilder
	// Automation is the share of content produced without human authorship,
	// per mode.
	Automation map[model.Mode]float64
	// ReviewRequired decides review given the input and computed quality.
	ReviewRequired func(in Input, quality float64) bool
}

// Registry maps document types to builders.
type Registry struct {
	builders map[model.DocumentType]Builder
	order    []model.DocumentType
}

// NewRegistry returns a registry holding the four standard document types.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[model.DocumentType]Builder)}
	r.Register(investmentSummaryBuilder())
	r.Register(committeeMemoBuilder())
	r.Register(dueDiligencePlanBuilder())
	r.Register(riskAssessmentBuilder())
	return r
}

// Register adds or replaces a builder.
func (r *Registry) Register(b Builder) {
	if _, exists := r.builders[b.Type]; !exists {
		r.order = append(r.order, b.Type)
	}
	r.builders[b.Type] = b
}

// Get returns the builder for a document type.
func (r *Registry) Get(t model.DocumentType) (Builder, bool) {
	b, ok := r.builders[t]
	return b, ok
}

// Types returns registered document types in registration order.
func (r *Registry) Types() []model.DocumentType {
	out := make([]model.DocumentType, len(r.order))
	copy(out, r.order)
	return out
}

// joinSections renders the document body as markdown-like text.
func joinSections(title string, sections []model.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Title, s.Content)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
