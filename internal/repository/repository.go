// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
package repository

import (
	"context"
	"errors"
	"time"

	"loanops/internal/model"
)

// ErrNotFound is returned by FindByID lookups when no record has the given id.
var ErrNotFound = errors.New("record not found")

// LoanRepository persists loan facilities. Health fields are written only
// through UpdateHealth.
type LoanRepository interface {
	Create(ctx context.Context, l *model.Loan) error
	FindByID(ctx context.Context, id string) (*model.Loan, error)
	// List returns loans newest first. An empty status matches every loan.
	List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error)
	// Update writes the client-editable fields of l.
	Update(ctx context.Context, l *model.Loan) error
	UpdateHealth(ctx context.Context, id string, score int, tier model.HealthTier, at time.Time) error
	// Delete removes a loan by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// CovenantRepository lists in creation order.
type CovenantRepository interface {
	Create(ctx context.Context, c *model.Covenant) error
	FindByID(ctx context.Context, id string) (*model.Covenant, error)
	ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error)
	Update(ctx context.Context, c *model.Covenant) error
	DeleteByLoan(ctx context.Context, loanID string) error
}

// ObligationRepository lists in creation order.
type ObligationRepository interface {
	Create(ctx context.Context, o *model.Obligation) error
	FindByID(ctx context.Context, id string) (*model.Obligation, error)
	ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error)
	Update(ctx context.Context, o *model.Obligation) error
	DeleteByLoan(ctx context.Context, loanID string) error
}

// RiskRepository has no update: a loan's set is replaced with DeleteByLoan
// followed by Create.
type RiskRepository interface {
	Create(ctx context.Context, r *model.RiskFactor) error
	ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error)
	DeleteByLoan(ctx context.Context, loanID string) error
}

// AuditRepository is append-only. ListByLoan returns newest first.
type AuditRepository interface {
	Append(ctx context.Context, e *model.AuditEvent) error
	ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error)
	DeleteByLoan(ctx context.Context, loanID string) error
}

// ComparisonRepository stores version comparisons, newest first.
type ComparisonRepository interface {
	Create(ctx context.Context, c *model.VersionComparison) error
	ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error)
	DeleteByLoan(ctx context.Context, loanID string) error
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Loans       LoanRepository
	Covenants   CovenantRepository
	Obligations ObligationRepository
	Risks       RiskRepository
	Audit       AuditRepository
	Documents   DocumentRepository
	Comparisons ComparisonRepository
}

// UnitOfWork runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
