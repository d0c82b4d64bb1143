package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"loanops/internal/demo"
	"loanops/internal/health"
	"loanops/internal/repository"
	"loanops/internal/storage"
)

// DemoResult summarizes a demo load.
type DemoResult struct {
	LoanID           string
	CovenantsCount   int
	ObligationsCount int
	RiskFactorsCount int
	Health           health.Result
}

// DemoService seeds the fixed demo loan.
type DemoService interface {
	// Load replaces any previous demo loan with a fresh copy of the fixture
	// and scores it.
	Load(ctx context.Context) (*DemoResult, error)
}

type demoService struct {
	uow   repository.UnitOfWork
	store storage.Storage
	coord *Coordinator
	log   logrus.FieldLogger
}

// NewDemoService constructs a DemoService. store may be nil when object storage is disabled.
func NewDemoService(uow repository.UnitOfWork, store storage.Storage, coord *Coordinator, log logrus.FieldLogger) DemoService {
	return &demoService{uow: uow, store: store, coord: coord, log: log}
}

func (s *demoService) Load(ctx context.Context) (*DemoResult, error) {
	f, err := demo.Load(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	// The previous copy is only removed if the new one can be written.
	var stale []string
	err = s.uow.WithinTx(ctx, func(r repository.Repos) error {
		_, err := r.Loans.FindByID(ctx, f.Loan.ID)
		switch {
		case err == nil:
			if stale, err = deleteLoanTree(ctx, r, f.Loan.ID); err != nil {
				return fmt.Errorf("clear demo loan: %w", err)
			}
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("find demo loan: %w", err)
		}

		if err := r.Loans.Create(ctx, &f.Loan); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		for i := range f.Covenants {
			if err := r.Covenants.Create(ctx, &f.Covenants[i]); err != nil {
				return fmt.Errorf("create covenant: %w", err)
			}
		}
		for i := range f.Obligations {
			if err := r.Obligations.Create(ctx, &f.Obligations[i]); err != nil {
				return fmt.Errorf("create obligation: %w", err)
			}
		}
		for i := range f.RiskFactors {
			if err := r.Risks.Create(ctx, &f.RiskFactors[i]); err != nil {
				return fmt.Errorf("create risk: %w", err)
			}
		}
		for i := range f.AuditEvents {
			if err := r.Audit.Append(ctx, &f.AuditEvents[i]); err != nil {
				return fmt.Errorf("append audit event: %w", err)
			}
		}
		for i := range f.Documents {
			if err := r.Documents.Create(ctx, &f.Documents[i]); err != nil {
				return fmt.Errorf("create document: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	removeObjects(ctx, s.store, s.log, f.Loan.ID, stale)

	out, err := s.coord.Apply(ctx, Pass{LoanID: f.Loan.ID, Trigger: TriggerDemoLoad})
	if err != nil {
		return nil, err
	}
	return &DemoResult{
		LoanID:           f.Loan.ID,
		CovenantsCount:   len(f.Covenants),
		ObligationsCount: len(f.Obligations),
		RiskFactorsCount: len(out.Risks),
		Health:           out.Health,
	}, nil
}
