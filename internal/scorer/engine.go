package scorer

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/deal-engine/internal/benchmark"
	"github.com/sells-group/deal-engine/internal/model"
)

// Engine generates score suggestions for deal screening criteria. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	table *benchmark.Table
	rules RuleSet
	cfg   Config
	now   func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to age vintages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRules replaces the adjustment tables.
func WithRules(rules RuleSet) Option {
	return func(e *Engine) { e.rules = rules }
}

// NewEngine creates an Engine over the given benchmark table. A nil table
// uses the embedded default.
func NewEngine(table *benchmark.Table, cfg Config, opts ...Option) *Engine {
	if table == nil {
		table = benchmark.Default()
	}
	e := &Engine{
		table: table,
		rules: DefaultRules(),
		cfg:   cfg,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateSuggestion scores one criterion for an opportunity. Missing data
// lowers confidence instead of failing; only an invalid criterion errors.
func (e *Engine) GenerateSuggestion(opp model.Opportunity, criterion model.Criterion, tmpl model.ScreeningTemplate) (*model.Suggestion, error) {
	if err := criterion.Validate(); err != nil {
		return nil, eris.Wrap(err, "scorer: invalid criterion")
	}

	bench, known := e.table.Lookup(opp.Sector)
	if !known {
		zap.L().Debug("scorer: unknown sector, using fallback benchmark",
			zap.String("sector", opp.Sector),
			zap.String("fallback", e.table.Fallback()),
		)
	}

	in := RuleInput{
		Opportunity: opp,
		Benchmark:   bench,
		VintageAge:  vintageAge(opp.Vintage, e.now()),
	}

	base := bench.AverageScore(criterion.Category)
	delta, applied := applyRules(e.rules[criterion.Category], in)
	score := clamp(round2(base+delta), criterion.MinValue, criterion.MaxValue)

	s := &model.Suggestion{
		CriterionID:   criterion.ID,
		Category:      criterion.Category,
		Score:         score,
		Confidence:    computeConfidence(opp, known, score, base),
		Reasoning:     buildReasoning(in, criterion, known, score, base, applied),
		BenchmarkData: benchmarkData(opp.ID, criterion.ID, base),
		RiskFactors:   riskFactors(in, criterion.Category, e.cfg.MaxRiskFactors),
		Opportunities: opportunities(in, criterion.Category, e.cfg.MaxOpportunities),
		Adjustments:   applied,
	}

	zap.L().Debug("scorer: suggestion generated",
		zap.String("template_id", tmpl.ID),
		zap.String("opportunity_id", opp.ID),
		zap.String("criterion_id", criterion.ID),
		zap.Float64("base", base),
		zap.Float64("delta", delta),
		zap.Float64("score", s.Score),
		zap.Float64("confidence", s.Confidence),
	)

	return s, nil
}

// GenerateBatchSuggestions scores every template criterion independently
// and returns the suggestions keyed by criterion ID.
func (e *Engine) GenerateBatchSuggestions(ctx context.Context, opp model.Opportunity, tmpl model.ScreeningTemplate) (map[string]model.Suggestion, error) {
	seen := make(map[string]bool, len(tmpl.Criteria))
	for _, c := range tmpl.Criteria {
		if seen[c.ID] {
			return nil, eris.Errorf("scorer: duplicate criterion %q in template %s", c.ID, tmpl.ID)
		}
		seen[c.ID] = true
	}

	results := make([]*model.Suggestion, len(tmpl.Criteria))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.cfg.BatchConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, c := range tmpl.Criteria {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "scorer: batch cancelled")
			}
			s, err := e.GenerateSuggestion(opp, c, tmpl)
			if err != nil {
				return eris.Wrapf(err, "scorer: criterion %s", c.ID)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]model.Suggestion, len(results))
	for _, s := range results {
		out[s.CriterionID] = *s
	}

	zap.L().Info("scorer: batch scoring complete",
		zap.String("opportunity_id", opp.ID),
		zap.String("template_id", tmpl.ID),
		zap.Int("criteria_scored", len(out)),
	)

	return out, nil
}

// vintageAge returns years since the vintage, or -1 when unknown.
func vintageAge(vintage int, now time.Time) int {
	if vintage <= 0 {
		return -1
	}
	return now.Year() - vintage
}

// computeConfidence starts at 0.70 and moves with data completeness, sector
// familiarity, deal patterns and distance from the benchmark.
func computeConfidence(opp model.Opportunity, knownSector bool, score, benchmarkAvg float64) float64 {
	c := 0.70

	present := 0
	for _, ok := range []bool{
		opp.ExpectedIRR != nil,
		opp.ExpectedMultiple != nil,
		opp.ExpectedRisk != nil,
		opp.AIConfidence != nil,
		len(opp.SimilarDeals) > 0,
	} {
		if ok {
			present++
		}
	}
	c += 0.20 * float64(present) / 5

	if knownSector {
		c += 0.10
	} else {
		c -= 0.15
	}

	switch n := len(opp.SimilarDeals); {
	case n > strongPatterns:
		c += 0.15
	case n == 0:
		c -= 0.10
	}

	switch dev := math.Abs(score - benchmarkAvg); {
	case dev > 2.0:
		c -= 0.10
	case dev < 0.5:
		c += 0.05
	}

	return round2(clamp(c, 0.50, 0.95))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
