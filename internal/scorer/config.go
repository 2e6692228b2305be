// Package scorer implements the deal-evaluation scoring engine: per-criterion
// score suggestions with confidence, reasoning and benchmark context.
package scorer

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Config tunes the scoring engine.
type Config struct {
	// BatchConcurrency bounds concurrent criteria in a batch run.
	BatchConcurrency int
	MaxRiskFactors   int
	MaxOpportunities int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchConcurrency: 4,
		MaxRiskFactors:   3,
		MaxOpportunities: 3,
	}
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	if c.BatchConcurrency < 1 {
		errs = append(errs, "batch_concurrency must be >= 1")
	}
	if c.MaxRiskFactors < 0 || c.MaxRiskFactors > 3 {
		errs = append(errs, "max_risk_factors must be between 0 and 3")
	}
	if c.MaxOpportunities < 0 || c.MaxOpportunities > 3 {
		errs = append(errs, "max_opportunities must be between 0 and 3")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
