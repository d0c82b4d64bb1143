package model

import "time"

// Severity is shared by risk factors and covenant risk levels.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type RiskCategory string

const (
	RiskCategoryCovenant  RiskCategory = "covenant"
	RiskCategoryReporting RiskCategory = "reporting"
	RiskCategoryDocument  RiskCategory = "document"
	RiskCategoryMarket    RiskCategory = "market"
)

// RiskFactor is a derived threat record. A loan's set is regenerated as a whole
// on every risk-analysis pass and never patched individually.
type RiskFactor struct {
	ID             string       `json:"id" yaml:"id"`
	LoanID         string       `json:"loan_id" yaml:"loan_id"`
	Category       RiskCategory `json:"category" yaml:"category"`
	Severity       Severity     `json:"severity" yaml:"severity"`
	Title          string       `json:"title" yaml:"title"`
	Description    string       `json:"description" yaml:"description"`
	Impact         string       `json:"impact" yaml:"impact"`
	Recommendation string       `json:"recommendation" yaml:"recommendation"`
	Score          int          `json:"score" yaml:"score"`
	CreatedAt      time.Time    `json:"created_at" yaml:"-"`
}
