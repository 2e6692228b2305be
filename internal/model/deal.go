package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Category is the evaluation dimension of a screening criterion.
type Category string

const (
	CategoryFinancial   Category = "financial"
	CategoryOperational Category = "operational"
	CategoryStrategic   Category = "strategic"
	CategoryRisk        Category = "risk"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryFinancial, CategoryOperational, CategoryStrategic, CategoryRisk}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinancial, CategoryOperational, CategoryStrategic, CategoryRisk:
		return true
	}
	return false
}

// Opportunity is a deal under evaluation. Optional numeric fields are nil
// when the data is unavailable.
type Opportunity struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	Sector           string        `json:"sector" yaml:"sector"`
	AssetType        string        `json:"asset_type" yaml:"asset_type"`
	Geography        string        `json:"geography" yaml:"geography"`
	Vintage          int           `json:"vintage" yaml:"vintage"`
	AskPrice         float64       `json:"ask_price" yaml:"ask_price"`
	ExpectedIRR      *float64      `json:"expected_irr,omitempty" yaml:"expected_irr,omitempty"`
	ExpectedMultiple *float64      `json:"expected_multiple,omitempty" yaml:"expected_multiple,omitempty"`
	ExpectedRisk     *float64      `json:"expected_risk,omitempty" yaml:"expected_risk,omitempty"`
	AIConfidence     *float64      `json:"ai_confidence,omitempty" yaml:"ai_confidence,omitempty"`
	SimilarDeals     []SimilarDeal `json:"similar_deals,omitempty" yaml:"similar_deals,omitempty"`
}

// DisplayName returns the opportunity name, falling back to its ID.
func (o Opportunity) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	if o.ID != "" {
		return o.ID
	}
	return "Unnamed Opportunity"
}

// SimilarDeal is a historical transaction matched to an opportunity.
type SimilarDeal struct {
	Name       string  `json:"name" yaml:"name"`
	Sector     string  `json:"sector,omitempty" yaml:"sector,omitempty"`
	Similarity float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	Outcome    string  `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// Criterion is a weighted, bounded evaluation dimension.
type Criterion struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	MinValue float64  `json:"min_value" yaml:"min_value"`
	MaxValue float64  `json:"max_value" yaml:"max_value"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

// Validate checks the criterion bounds and category.
func (c Criterion) Validate() error {
	if c.ID == "" {
		return eris.New("model: criterion id is required")
	}
	if !c.Category.Valid() {
		return eris.Errorf("model: criterion %s has unknown category %q", c.ID, c.Category)
	}
	if c.MinValue >= c.MaxValue {
		return eris.Errorf("model: criterion %s min_value %.2f must be below max_value %.2f", c.ID, c.MinValue, c.MaxValue)
	}
	if c.Weight < 0 {
		return eris.Errorf("model: criterion %s weight must be >= 0", c.ID)
	}
	return nil
}

// ScreeningTemplate groups the criteria a deal is screened against.
type ScreeningTemplate struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Criteria []Criterion `json:"criteria" yaml:"criteria"`
}

// Criterion returns the template criterion with the given ID.
func (t ScreeningTemplate) Criterion(id string) (Criterion, bool) {
	for _, c := range t.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// Recommendation is the screening verdict bucket.
type Recommendation string

const (
	RecommendationHighlyRecommended Recommendation = "highly_recommended"
	RecommendationRecommended       Recommendation = "recommended"
	RecommendationNeutral           Recommendation = "neutral"
	RecommendationNotRecommended    Recommendation = "not_recommended"
)

// Label returns a human-readable form of the recommendation.
func (r Recommendation) Label() string {
	switch r {
	case RecommendationHighlyRecommended:
		return "Highly Recommended"
	case RecommendationRecommended:
		return "Recommended"
	case RecommendationNeutral:
		return "Neutral"
	case RecommendationNotRecommended:
		return "Not Recommended"
	}
	return strings.ReplaceAll(string(r), "_", " ")
}

// CriterionScore is one scored line of a screening result.
type CriterionScore struct {
	CriterionID string  `json:"criterion_id" yaml:"criterion_id"`
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Score       float64 `json:"score" yaml:"score"`
	MaxScore    float64 `json:"max_score,omitempty" yaml:"max_score,omitempty"`
	Notes       string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ScreeningResult is the outcome of a prior screening pass.
type ScreeningResult struct {
	TotalScore     float64          `json:"total_score" yaml:"total_score"`
	CriteriaScores []CriterionScore `json:"criteria_scores" yaml:"criteria_scores"`
	Recommendation Recommendation   `json:"recommendation" yaml:"recommendation"`
}

// Workflow tracks the post-screening tasks for an opportunity.
type Workflow struct {
	Stage string         `json:"stage" yaml:"stage"`
	Owner string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	Tasks []WorkflowTask `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// WorkflowTask is a single item in a post-screening workflow.
type WorkflowTask struct {
	Name      string `json:"name" yaml:"name"`
	Owner     string `json:"owner,omitempty" yaml:"owner,omitempty"`
	DueInDays int    `json:"due_in_days,omitempty" yaml:"due_in_days,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}
