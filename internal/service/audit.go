package service

import (
	"context"

	"loanops/internal/audit"
	"loanops/internal/model"
)

// AuditService exposes a loan's audit trail.
type AuditService interface {
	// ListByLoan returns events newest first.
	ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error)
}

type auditService struct {
	rec *audit.Recorder
}

func NewAuditService(rec *audit.Recorder) AuditService {
	return &auditService{rec: rec}
}

func (s *auditService) ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	return s.rec.List(ctx, loanID)
}
