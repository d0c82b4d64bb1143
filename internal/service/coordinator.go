package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loanops/internal/audit"
	"loanops/internal/cache"
	"loanops/internal/health"
	"loanops/internal/model"
	"loanops/internal/repository"
	"loanops/internal/risk"
)

// Pass describes one coordinated change to a loan aggregate.
type Pass struct {
	LoanID  string
	Trigger string
	// Derive regenerates the loan's risk-factor set before scoring.
	Derive bool
	// Mutate runs inside the transaction, after the loan is known to exist.
	Mutate func(r repository.Repos) error
	// Events is called after commit; its entries are recorded best-effort.
	Events func(o Outcome) []audit.Entry
}

// Outcome is the state of the aggregate at the end of a pass.
type Outcome struct {
	Health health.Result
	Risks  []model.RiskFactor
}

// Coordinator keeps a loan's risk set and health score consistent with its
// covenants and obligations. Every step of a pass runs in one transaction.
type Coordinator struct {
	uow     repository.UnitOfWork
	audit   *audit.Recorder
	cache   *cache.DashboardCache
	metrics *Metrics
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewCoordinator(uow repository.UnitOfWork, rec *audit.Recorder, dc *cache.DashboardCache, m *Metrics, log logrus.FieldLogger) *Coordinator {
	return &Coordinator{
		uow:     uow,
		audit:   rec,
		cache:   dc,
		metrics: m,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Apply runs p: mutate, optionally re-derive risks, rescore, persist the score,
// then invalidate the dashboard and record the audit entries.
func (c *Coordinator) Apply(ctx context.Context, p Pass) (Outcome, error) {
	var out Outcome
	err := c.uow.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Loans.FindByID(ctx, p.LoanID); err != nil {
			return loanLookupErr(err)
		}
		if p.Mutate != nil {
			if err := p.Mutate(r); err != nil {
				return err
			}
		}

		covenants, err := r.Covenants.ListByLoan(ctx, p.LoanID)
		if err != nil {
			return fmt.Errorf("list covenants: %w", err)
		}
		obligations, err := r.Obligations.ListByLoan(ctx, p.LoanID)
		if err != nil {
			return fmt.Errorf("list obligations: %w", err)
		}

		if p.Derive {
			if err := c.replaceRisks(ctx, r, p.LoanID, covenants, obligations); err != nil {
				return err
			}
		}

		risks, err := r.Risks.ListByLoan(ctx, p.LoanID)
		if err != nil {
			return fmt.Errorf("list risks: %w", err)
		}

		out.Health = health.Score(covenants, obligations, risks)
		out.Risks = risks
		if err := r.Loans.UpdateHealth(ctx, p.LoanID, out.Health.Score, out.Health.Tier, c.now()); err != nil {
			return fmt.Errorf("update health: %w", err)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	c.metrics.recomputed(p.Trigger)
	invalidateDashboard(ctx, c.cache, c.log, p.LoanID)
	if p.Events != nil {
		for _, e := range p.Events(out) {
			c.audit.Record(ctx, e)
		}
	}
	return out, nil
}

func (c *Coordinator) replaceRisks(ctx context.Context, r repository.Repos, loanID string, covenants []model.Covenant, obligations []model.Obligation) error {
	derived := risk.Derive(loanID, covenants, obligations)
	if err := r.Risks.DeleteByLoan(ctx, loanID); err != nil {
		return fmt.Errorf("clear risks: %w", err)
	}
	now := c.now()
	for i := range derived {
		derived[i].ID = uuid.New().String()
		derived[i].CreatedAt = now
		if err := r.Risks.Create(ctx, &derived[i]); err != nil {
			return fmt.Errorf("create risk: %w", err)
		}
	}
	return nil
}

func invalidateDashboard(ctx context.Context, dc *cache.DashboardCache, log logrus.FieldLogger, loanID string) {
	if err := dc.Invalidate(ctx, loanID); err != nil {
		log.WithFields(logrus.Fields{
			"component": "dashboard_cache",
			"event":     "cache_invalidate_failed",
			"loan_id":   loanID,
		}).WithError(err).Warn("failed to invalidate dashboard cache")
	}
}

func loanLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLoanNotFound
	}
	return fmt.Errorf("find loan: %w", err)
}
