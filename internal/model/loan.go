package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle tag of a facility.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusClosed    LoanStatus = "closed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// HealthTier classifies a health score into three bands.
type HealthTier string

const (
	HealthTierHealthy  HealthTier = "healthy"
	HealthTierWarning  HealthTier = "warning"
	HealthTierCritical HealthTier = "critical"
)

// Loan is a tracked loan facility.
// HealthScore and HealthTier are derived values; only the health engine writes them.
type Loan struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Borrower         string          `json:"borrower" yaml:"borrower"`
	FacilityAmount   decimal.Decimal `json:"facility_amount" yaml:"-"`
	Currency         string          `json:"currency" yaml:"currency"`
	Margin           string          `json:"margin" yaml:"margin"`
	MaturityDate     string          `json:"maturity_date" yaml:"maturity_date"`
	AgentBank        string          `json:"agent_bank" yaml:"agent_bank"`
	SyndicateMembers []string        `json:"syndicate_members" yaml:"syndicate_members"`
	LoanType         string          `json:"loan_type" yaml:"loan_type"`
	Status           LoanStatus      `json:"status" yaml:"status"`
	HealthScore      int             `json:"health_score" yaml:"-"`
	HealthTier       HealthTier      `json:"health_status" yaml:"-"`
	CreatedAt        time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time       `json:"updated_at" yaml:"-"`
}

// LoanUpdate is a partial update. Nil fields are left untouched.
type LoanUpdate struct {
	Name             *string          `json:"name" validate:"omitempty,min=1"`
	Borrower         *string          `json:"borrower" validate:"omitempty,min=1"`
	FacilityAmount   *decimal.Decimal `json:"facility_amount" validate:"omitempty,positive_decimal"`
	Currency         *string          `json:"currency" validate:"omitempty,len=3"`
	Margin           *string          `json:"margin"`
	MaturityDate     *string          `json:"maturity_date"`
	AgentBank        *string          `json:"agent_bank"`
	SyndicateMembers []string         `json:"syndicate_members"`
	LoanType         *string          `json:"loan_type"`
	Status           *LoanStatus      `json:"status" validate:"omitempty,oneof=active closed defaulted"`
}

// Apply copies the non-nil fields of u onto l.
func (u LoanUpdate) Apply(l *Loan) {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Borrower != nil {
		l.Borrower = *u.Borrower
	}
	if u.FacilityAmount != nil {
		l.FacilityAmount = *u.FacilityAmount
	}
	if u.Currency != nil {
		l.Currency = *u.Currency
	}
	if u.Margin != nil {
		l.Margin = *u.Margin
	}
	if u.MaturityDate != nil {
		l.MaturityDate = *u.MaturityDate
	}
	if u.AgentBank != nil {
		l.AgentBank = *u.AgentBank
	}
	if u.SyndicateMembers != nil {
		l.SyndicateMembers = append([]string(nil), u.SyndicateMembers...)
	}
	if u.LoanType != nil {
		l.LoanType = *u.LoanType
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
}

// LoanCreate is the client payload for a new facility. Status and health are
// assigned by the server.
type LoanCreate struct {
	Name             string          `json:"name" validate:"required"`
	Borrower         string          `json:"borrower" validate:"required"`
	FacilityAmount   decimal.Decimal `json:"facility_amount" validate:"positive_decimal"`
	Currency         string          `json:"currency" validate:"omitempty,len=3"`
	Margin           string          `json:"margin"`
	MaturityDate     string          `json:"maturity_date"`
	AgentBank        string          `json:"agent_bank"`
	SyndicateMembers []string        `json:"syndicate_members"`
	LoanType         string          `json:"loan_type"`
}
