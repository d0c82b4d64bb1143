package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"loanops/internal/cache"
	"loanops/internal/model"
	"loanops/internal/repository"
)

// DashboardMetrics are the aggregate counts shown for a loan.
type DashboardMetrics struct {
	TotalCovenants      int                            `json:"total_covenants"`
	CompliantCovenants  int                            `json:"compliant_covenants"`
	AtRiskCovenants     int                            `json:"at_risk_covenants"`
	BreachedCovenants   int                            `json:"breached_covenants"`
	PendingObligations  int                            `json:"pending_obligations"`
	OverdueObligations  int                            `json:"overdue_obligations"`
	CriticalRisks       int                            `json:"critical_risks"`
	HighRisks           int                            `json:"high_risks"`
	TotalDocuments      int                            `json:"total_documents"`
	CovenantsByStatus   map[model.CovenantStatus]int   `json:"covenants_by_status"`
	ObligationsByStatus map[model.ObligationStatus]int `json:"obligations_by_status"`
	RisksBySeverity     map[model.Severity]int         `json:"risks_by_severity"`
}

// Dashboard is the aggregate view of one loan.
type Dashboard struct {
	Loan        model.Loan         `json:"loan"`
	Metrics     DashboardMetrics   `json:"metrics"`
	Covenants   []model.Covenant   `json:"covenants"`
	Obligations []model.Obligation `json:"obligations"`
	RiskFactors []model.RiskFactor `json:"risk_factors"`
}

// DashboardService builds loan dashboards, served from cache when possible.
type DashboardService interface {
	Get(ctx context.Context, loanID string) (*Dashboard, error)
}

type dashboardService struct {
	repos repository.Repos
	cache *cache.DashboardCache
	log   logrus.FieldLogger
}

// NewDashboardService constructs a DashboardService. dc may be nil.
func NewDashboardService(repos repository.Repos, dc *cache.DashboardCache, log logrus.FieldLogger) DashboardService {
	return &dashboardService{repos: repos, cache: dc, log: log}
}

func (s *dashboardService) Get(ctx context.Context, loanID string) (*Dashboard, error) {
	if loanID == "" {
		return nil, ErrIDRequired
	}
	log := s.log.WithFields(logrus.Fields{"component": "dashboard_cache", "loan_id": loanID})

	var cached Dashboard
	hit, err := s.cache.Get(ctx, loanID, &cached)
	if err != nil {
		log.WithField("event", "cache_read_failed").WithError(err).Warn("dashboard cache read failed")
	}
	if hit {
		return &cached, nil
	}

	d, err := s.build(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, loanID, d); err != nil {
		log.WithField("event", "cache_write_failed").WithError(err).Warn("dashboard cache write failed")
	}
	return d, nil
}

func (s *dashboardService) build(ctx context.Context, loanID string) (*Dashboard, error) {
	l, err := s.repos.Loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, loanLookupErr(err)
	}
	covenants, err := s.repos.Covenants.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("list covenants: %w", err)
	}
	obligations, err := s.repos.Obligations.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	risks, err := s.repos.Risks.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("list risks: %w", err)
	}
	docs, err := s.repos.Documents.CountByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	return &Dashboard{
		Loan:        *l,
		Metrics:     summarize(covenants, obligations, risks, docs),
		Covenants:   covenants,
		Obligations: obligations,
		RiskFactors: risks,
	}, nil
}

func summarize(covenants []model.Covenant, obligations []model.Obligation, risks []model.RiskFactor, docs int) DashboardMetrics {
	m := DashboardMetrics{
		TotalCovenants:      len(covenants),
		TotalDocuments:      docs,
		CovenantsByStatus:   map[model.CovenantStatus]int{},
		ObligationsByStatus: map[model.ObligationStatus]int{},
		RisksBySeverity:     map[model.Severity]int{},
	}
	for _, c := range covenants {
		m.CovenantsByStatus[c.Status]++
	}
	for _, o := range obligations {
		m.ObligationsByStatus[o.Status]++
	}
	for _, r := range risks {
		m.RisksBySeverity[r.Severity]++
	}
	m.CompliantCovenants = m.CovenantsByStatus[model.CovenantStatusCompliant]
	m.AtRiskCovenants = m.CovenantsByStatus[model.CovenantStatusAtRisk]
	m.BreachedCovenants = m.CovenantsByStatus[model.CovenantStatusBreached]
	m.PendingObligations = m.ObligationsByStatus[model.ObligationStatusPending]
	m.OverdueObligations = m.ObligationsByStatus[model.ObligationStatusOverdue]
	m.CriticalRisks = m.RisksBySeverity[model.SeverityCritical]
	m.HighRisks = m.RisksBySeverity[model.SeverityHigh]
	return m
}
