package model

import "time"

type ObligationType string

const (
	ObligationTypeFinancialReport       ObligationType = "financial_report"
	ObligationTypeComplianceCertificate ObligationType = "compliance_certificate"
	ObligationTypeAuditReport           ObligationType = "audit_report"
	ObligationTypeNotice                ObligationType = "notice"
)

type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
	FrequencyOneTime   Frequency = "one_time"
)

type ObligationStatus string

const (
	ObligationStatusPending   ObligationStatus = "pending"
	ObligationStatusSubmitted ObligationStatus = "submitted"
	ObligationStatusOverdue   ObligationStatus = "overdue"
)

// Obligation is a scheduled deliverable owed by the borrower.
// DueDate is free text because agreements use values like "As needed".
type Obligation struct {
	ID            string           `json:"id" yaml:"id"`
	LoanID        string           `json:"loan_id" yaml:"loan_id"`
	Type          ObligationType   `json:"type" yaml:"type"`
	Name          string           `json:"name" yaml:"name"`
	Description   string           `json:"description" yaml:"description"`
	Frequency     Frequency        `json:"frequency" yaml:"frequency"`
	DueDate       string           `json:"due_date" yaml:"due_date"`
	Status        ObligationStatus `json:"status" yaml:"status"`
	SubmittedDate *string          `json:"submitted_date" yaml:"submitted_date"`
	CreatedAt     time.Time        `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time        `json:"updated_at" yaml:"-"`
}

// ObligationUpdate is a partial update. Nil fields are left untouched.
type ObligationUpdate struct {
	Type          *ObligationType   `json:"type" validate:"omitempty,oneof=financial_report compliance_certificate audit_report notice"`
	Name          *string           `json:"name" validate:"omitempty,min=1"`
	Description   *string           `json:"description"`
	Frequency     *Frequency        `json:"frequency" validate:"omitempty,oneof=monthly quarterly annually one_time"`
	DueDate       *string           `json:"due_date"`
	Status        *ObligationStatus `json:"status" validate:"omitempty,oneof=pending submitted overdue"`
	SubmittedDate *string           `json:"submitted_date"`
}

// Apply copies the non-nil fields of u onto o.
func (u ObligationUpdate) Apply(o *Obligation) {
	if u.Type != nil {
		o.Type = *u.Type
	}
	if u.Name != nil {
		o.Name = *u.Name
	}
	if u.Description != nil {
		o.Description = *u.Description
	}
	if u.Frequency != nil {
		o.Frequency = *u.Frequency
	}
	if u.DueDate != nil {
		o.DueDate = *u.DueDate
	}
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.SubmittedDate != nil {
		o.SubmittedDate = u.SubmittedDate
	}
}

// ObligationCreate is the client payload for a new obligation.
type ObligationCreate struct {
	LoanID      string           `json:"loan_id" validate:"required"`
	Type        ObligationType   `json:"type" validate:"required,oneof=financial_report compliance_certificate audit_report notice"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Frequency   Frequency        `json:"frequency" validate:"required,oneof=monthly quarterly annually one_time"`
	DueDate     string           `json:"due_date" validate:"required"`
	Status      ObligationStatus `json:"status" validate:"omitempty,oneof=pending submitted overdue"`
}
