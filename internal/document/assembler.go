// Package document assembles deal documents from an opportunity and its
// screening result.
package document

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/deal-engine/internal/model"
)

// DownloadPrefix is prepended to document IDs to form download URLs.
const DownloadPrefix = "/api/documents/download/"

// Request carries the inputs for one document.
type Request struct {
	Opportunity model.Opportunity     `json:"opportunity"`
	Screening   model.ScreeningResult `json:"screening_result"`
	Workflow    *model.Workflow       `json:"workflow,omitempty"`
	Mode        model.Mode            `json:"mode"`
}

// Result is an assembled document with its generation metadata.
type Result struct {
	Document        model.GeneratedDocument `json:"document"`
	GenerationTime  time.Duration           `json:"generation_time"`
	AutomationLevel float64                 `json:"automation_level"`
	QualityScore    float64                 `json:"quality_score"`
	ReviewRequired  bool                    `json:"review_required"`
}

// Assembler composes documents from registered builders.
type Assembler struct {
	registry *Registry
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithClock overrides the clock used for CreatedAt and generation time.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator overrides document ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(a *Assembler) { a.newID = fn }
}

// WithRegistry replaces the builder registry.
func WithRegistry(r *Registry) Option {
	return func(a *Assembler) { a.registry = r }
}

// NewAssembler creates an Assembler. A zero timeout disables the deadline.
func NewAssembler(timeout time.Duration, opts ...Option) *Assembler {
	a := &Assembler{
		registry: NewRegistry(),
		timeout:  timeout,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate assembles a document of the given type.
func (a *Assembler) Generate(ctx context.Context, docType model.DocumentType, req Request) (*Result, error) {
	if !req.Mode.Valid() {
		return nil, eris.Errorf("document: invalid mode %q", req.Mode)
	}
	b, ok := a.registry.Get(docType)
	if !ok {
		return nil, eris.Errorf("document: unknown document type %q", docType)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := a.now()
	in := Input(req)

	sections := make([]model.Section, 0, len(b.Sections))
	for _, sb := range b.Sections {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrapf(err, "document: generate %s", docType)
		}
		sections = append(sections, sb.render(in))
	}

	quality := QualityScore(req.Screening.TotalScore, req.Mode)
	review := b.ReviewRequired(in, quality)
	title := b.Title(in)

	generatedBy := model.GeneratedByAI
	if req.Mode == model.ModeTraditional {
		generatedBy = model.GeneratedByTemplate
	}

	id := a.newID()
	doc := model.GeneratedDocument{
		ID:             id,
		OpportunityID:  req.Opportunity.ID,
		Type:           docType,
		Title:          title,
		Sections:       sections,
		Content:        joinSections(title, sections),
		Format:         model.FormatMarkdown,
		GeneratedBy:    generatedBy,
		ReviewRequired: review,
		DownloadURL:    DownloadPrefix + id,
		CreatedAt:      start,
	}

	res := &Result{
		Document:        doc,
		GenerationTime:  a.now().Sub(start),
		AutomationLevel: b.Automation[req.Mode],
		QualityScore:    quality,
		ReviewRequired:  review,
	}

	zap.L().Info("document: generated",
		zap.String("type", string(docType)),
		zap.String("document_id", id),
		zap.String("opportunity_id", req.Opportunity.ID),
		zap.String("mode", string(req.Mode)),
		zap.Int("sections", len(sections)),
		zap.Float64("quality", quality),
		zap.Bool("review_required", review),
	)
	return res, nil
}

// GenerateInvestmentSummary assembles an investment summary.
func (a *Assembler) GenerateInvestmentSummary(ctx context.Context, req Request) (*Result, error) {
	return a.Generate(ctx, model.DocumentInvestmentSummary, req)
}

// GenerateCommitteeMemo assembles an investment committee memo.
func (a *Assembler) GenerateCommitteeMemo(ctx context.Context, req Request) (*Result, error) {
	return a.Generate(ctx, model.DocumentCommitteeMemo, req)
}

// GenerateDueDiligencePlan assembles a due diligence plan.
func (a *Assembler) GenerateDueDiligencePlan(ctx context.Context, req Request) (*Result, error) {
	return a.Generate(ctx, model.DocumentDueDiligencePlan, req)
}

// GenerateRiskAssessment assembles a risk assessment.
func (a *Assembler) GenerateRiskAssessment(ctx context.Context, req Request) (*Result, error) {
	return a.Generate(ctx, model.DocumentRiskAssessment, req)
}

func modeBonus(m model.Mode) float64 {
	switch m {
	case model.ModeAutonomous:
		return 0.10
	case model.ModeAssisted:
		return 0.05
	}
	return 0
}

// QualityScore is 0.70 plus up to 0.20 from the screening total plus a mode
// bonus, clamped to [0.50, 0.95].
func QualityScore(totalScore float64, mode model.Mode) float64 {
	q := 0.70 + totalScore/100*0.20 + modeBonus(mode)
	q = math.Max(0.50, math.Min(0.95, q))
	return math.Round(q*1000) / 1000
}
