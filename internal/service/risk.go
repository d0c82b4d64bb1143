package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"loanops/internal/audit"
	"loanops/internal/health"
	"loanops/internal/model"
	"loanops/internal/repository"
)

// RiskAnalysis summarizes one risk-analysis pass.
type RiskAnalysis struct {
	RisksIdentified int
	Health          health.Result
}

// RiskService defines the use cases for risk factors.
type RiskService interface {
	ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error)
	// Analyze regenerates the loan's risk factors and rescores it.
	Analyze(ctx context.Context, loanID string) (*RiskAnalysis, error)
	// RefreshActive runs Analyze for every active loan and returns how many succeeded.
	RefreshActive(ctx context.Context) (int, error)
}

type riskService struct {
	repos repository.Repos
	coord *Coordinator
	log   logrus.FieldLogger
}

func NewRiskService(repos repository.Repos, coord *Coordinator, log logrus.FieldLogger) RiskService {
	return &riskService{repos: repos, coord: coord, log: log}
}

func (s *riskService) ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error) {
	return s.repos.Risks.ListByLoan(ctx, loanID)
}

func (s *riskService) Analyze(ctx context.Context, loanID string) (*RiskAnalysis, error) {
	return s.analyze(ctx, loanID, TriggerRiskAnalysis, "Risk Analysis Complete")
}

func (s *riskService) analyze(ctx context.Context, loanID, trigger, title string) (*RiskAnalysis, error) {
	out, err := s.coord.Apply(ctx, Pass{
		LoanID:  loanID,
		Trigger: trigger,
		Derive:  true,
		Events: func(o Outcome) []audit.Entry {
			return []audit.Entry{{
				LoanID:      loanID,
				Type:        model.AuditEventAnalysisComplete,
				Title:       title,
				Description: fmt.Sprintf("Identified %d risk factors", len(o.Risks)),
				Metadata: map[string]any{
					"health_score":  o.Health.Score,
					"health_status": string(o.Health.Tier),
				},
			}}
		},
	})
	if err != nil {
		return nil, err
	}
	return &RiskAnalysis{RisksIdentified: len(out.Risks), Health: out.Health}, nil
}

func (s *riskService) RefreshActive(ctx context.Context) (int, error) {
	loans, err := s.repos.Loans.List(ctx, model.LoanStatusActive)
	if err != nil {
		return 0, fmt.Errorf("list active loans: %w", err)
	}
	var (
		n    int
		errs []error
	)
	for _, l := range loans {
		if _, err := s.analyze(ctx, l.ID, TriggerScheduledRefresh, "Scheduled Risk Refresh"); err != nil {
			// Deleted between listing and refresh.
			if errors.Is(err, ErrLoanNotFound) {
				continue
			}
			s.log.WithFields(logrus.Fields{
				"component": "risk",
				"event":     "risk_refresh_failed",
				"loan_id":   l.ID,
			}).WithError(err).Error("risk refresh failed")
			errs = append(errs, fmt.Errorf("loan %s: %w", l.ID, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
