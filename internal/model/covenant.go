package model

import "time"

type CovenantType string

const (
	CovenantTypeFinancial   CovenantType = "financial"
	CovenantTypeOperational CovenantType = "operational"
	CovenantTypeNegative    CovenantType = "negative"
	CovenantTypeAffirmative CovenantType = "affirmative"
)

// CovenantStatus is a plain tagged value. Any status may move to any other;
// the engines only read it.
type CovenantStatus string

const (
	CovenantStatusPending   CovenantStatus = "pending"
	CovenantStatusCompliant CovenantStatus = "compliant"
	CovenantStatusAtRisk    CovenantStatus = "at_risk"
	CovenantStatusBreached  CovenantStatus = "breached"
)

// Covenant is a contractual condition attached to a loan.
type Covenant struct {
	ID           string         `json:"id" yaml:"id"`
	LoanID       string         `json:"loan_id" yaml:"loan_id"`
	Type         CovenantType   `json:"type" yaml:"type"`
	Name         string         `json:"name" yaml:"name"`
	Description  string         `json:"description" yaml:"description"`
	Threshold    *string        `json:"threshold" yaml:"threshold"`
	CurrentValue *string        `json:"current_value" yaml:"current_value"`
	Status       CovenantStatus `json:"status" yaml:"status"`
	RiskLevel    Severity       `json:"risk_level" yaml:"risk_level"`
	DueDate      *string        `json:"due_date" yaml:"due_date"`
	Explanation  string         `json:"explanation" yaml:"explanation"`
	CreatedAt    time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time      `json:"updated_at" yaml:"-"`
}

// CovenantUpdate is a partial update. Nil fields are left untouched.
type CovenantUpdate struct {
	Type         *CovenantType   `json:"type" validate:"omitempty,oneof=financial operational negative affirmative"`
	Name         *string         `json:"name" validate:"omitempty,min=1"`
	Description  *string         `json:"description"`
	Threshold    *string         `json:"threshold"`
	CurrentValue *string         `json:"current_value"`
	Status       *CovenantStatus `json:"status" validate:"omitempty,oneof=pending compliant at_risk breached"`
	RiskLevel    *Severity       `json:"risk_level" validate:"omitempty,oneof=low medium high critical"`
	DueDate      *string         `json:"due_date"`
	Explanation  *string         `json:"explanation"`
}

// Apply copies the non-nil fields of u onto c.
func (u CovenantUpdate) Apply(c *Covenant) {
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Threshold != nil {
		c.Threshold = u.Threshold
	}
	if u.CurrentValue != nil {
		c.CurrentValue = u.CurrentValue
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.RiskLevel != nil {
		c.RiskLevel = *u.RiskLevel
	}
	if u.DueDate != nil {
		c.DueDate = u.DueDate
	}
	if u.Explanation != nil {
		c.Explanation = *u.Explanation
	}
}

// CovenantCreate is the client payload for a new covenant.
type CovenantCreate struct {
	LoanID       string         `json:"loan_id" validate:"required"`
	Type         CovenantType   `json:"type" validate:"required,oneof=financial operational negative affirmative"`
	Name         string         `json:"name" validate:"required"`
	Description  string         `json:"description"`
	Threshold    *string        `json:"threshold"`
	CurrentValue *string        `json:"current_value"`
	Status       CovenantStatus `json:"status" validate:"omitempty,oneof=pending compliant at_risk breached"`
	RiskLevel    Severity       `json:"risk_level" validate:"omitempty,oneof=low medium high critical"`
	DueDate      *string        `json:"due_date"`
	Explanation  string         `json:"explanation"`
}
