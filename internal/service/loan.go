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
	"loanops/internal/model"
	"loanops/internal/repository"
	"loanops/internal/storage"
)

// LoanService defines the use cases for loan facilities.
type LoanService interface {
	// List returns loans newest first; an empty status matches all.
	List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error)
	Get(ctx context.Context, id string) (*model.Loan, error)
	// Create stores a new active loan with a perfect health score.
	Create(ctx context.Context, in model.LoanCreate) (*model.Loan, error)
	// Update applies client-editable fields. Health is never written here.
	Update(ctx context.Context, id string, u model.LoanUpdate) (*model.Loan, error)
	// Delete removes the loan and every record scoped to it in one transaction.
	// Stored document bodies are removed after commit.
	Delete(ctx context.Context, id string) error
}

type loanService struct {
	repos repository.Repos
	uow   repository.UnitOfWork
	store storage.Storage
	audit *audit.Recorder
	cache *cache.DashboardCache
	log   logrus.FieldLogger
}

// NewLoanService constructs a LoanService. store may be nil when object storage is disabled.
func NewLoanService(repos repository.Repos, uow repository.UnitOfWork, store storage.Storage, rec *audit.Recorder, dc *cache.DashboardCache, log logrus.FieldLogger) LoanService {
	return &loanService{repos: repos, uow: uow, store: store, audit: rec, cache: dc, log: log}
}

func (s *loanService) List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error) {
	return s.repos.Loans.List(ctx, status)
}

func (s *loanService) Get(ctx context.Context, id string) (*model.Loan, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	l, err := s.repos.Loans.FindByID(ctx, id)
	if err != nil {
		return nil, loanLookupErr(err)
	}
	return l, nil
}

func (s *loanService) Create(ctx context.Context, in model.LoanCreate) (*model.Loan, error) {
	now := time.Now().UTC()
	l := &model.Loan{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Borrower:         in.Borrower,
		FacilityAmount:   in.FacilityAmount,
		Currency:         in.Currency,
		Margin:           in.Margin,
		MaturityDate:     in.MaturityDate,
		AgentBank:        in.AgentBank,
		SyndicateMembers: in.SyndicateMembers,
		LoanType:         in.LoanType,
		Status:           model.LoanStatusActive,
		HealthScore:      100,
		HealthTier:       model.HealthTierHealthy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if l.Currency == "" {
		l.Currency = "USD"
	}
	if l.SyndicateMembers == nil {
		l.SyndicateMembers = []string{}
	}

	if err := s.repos.Loans.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		LoanID:      l.ID,
		Type:        model.AuditEventLoanCreated,
		Title:       "Loan Created",
		Description: fmt.Sprintf("New loan '%s' created for %s", l.Name, l.Borrower),
	})
	return l, nil
}

func (s *loanService) Update(ctx context.Context, id string, u model.LoanUpdate) (*model.Loan, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	var (
		updated   *model.Loan
		oldStatus model.LoanStatus
	)
	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		l, err := r.Loans.FindByID(ctx, id)
		if err != nil {
			return loanLookupErr(err)
		}
		oldStatus = l.Status
		u.Apply(l)
		l.UpdatedAt = time.Now().UTC()
		if err := r.Loans.Update(ctx, l); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := audit.Entry{
		LoanID:      id,
		Type:        model.AuditEventLoanUpdated,
		Title:       "Loan Updated",
		Description: fmt.Sprintf("Loan '%s' details updated", updated.Name),
	}
	if updated.Status != oldStatus {
		entry.Type = model.AuditEventStatusChange
		entry.Title = "Loan Status Changed"
		entry.Description = fmt.Sprintf("Status changed from %s to %s", oldStatus, updated.Status)
	}
	s.audit.Record(ctx, entry)
	invalidateDashboard(ctx, s.cache, s.log, id)
	return updated, nil
}

func (s *loanService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	var paths []string
	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Loans.FindByID(ctx, id); err != nil {
			return loanLookupErr(err)
		}
		var err error
		paths, err = deleteLoanTree(ctx, r, id)
		return err
	})
	if err != nil {
		return err
	}

	removeObjects(ctx, s.store, s.log, id, paths)
	invalidateDashboard(ctx, s.cache, s.log, id)
	s.log.WithFields(logrus.Fields{
		"component": "loan",
		"event":     "loan_deleted",
		"loan_id":   id,
		"documents": len(paths),
	}).Info("loan deleted")
	return nil
}

// deleteLoanTree removes the loan and every record scoped to it using r, and
// returns the storage paths of its documents.
func deleteLoanTree(ctx context.Context, r repository.Repos, id string) ([]string, error) {
	docs, err := r.Documents.ListByLoan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var paths []string
	for _, d := range docs {
		if d.StoragePath != "" {
			paths = append(paths, d.StoragePath)
		}
	}

	steps := []struct {
		name string
		fn   func(ctx context.Context, loanID string) error
	}{
		{"comparisons", r.Comparisons.DeleteByLoan},
		{"risks", r.Risks.DeleteByLoan},
		{"covenants", r.Covenants.DeleteByLoan},
		{"obligations", r.Obligations.DeleteByLoan},
		{"documents", r.Documents.DeleteByLoan},
		{"audit events", r.Audit.DeleteByLoan},
	}
	for _, st := range steps {
		if err := st.fn(ctx, id); err != nil {
			return nil, fmt.Errorf("delete %s: %w", st.name, err)
		}
	}
	if err := r.Loans.Delete(ctx, id); err != nil {
		return nil, err
	}
	return paths, nil
}

// removeObjects removes stored document bodies of a deleted loan. The records
// are already gone, so failures are logged and not returned.
func removeObjects(ctx context.Context, store storage.Storage, log logrus.FieldLogger, loanID string, paths []string) {
	if store == nil {
		return
	}
	var errs []error
	for _, p := range paths {
		if err := store.Delete(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	if len(errs) > 0 {
		log.WithFields(logrus.Fields{
			"component": "loan",
			"event":     "cascade_cleanup_failed",
			"loan_id":   loanID,
			"failed":    len(errs),
		}).WithError(errors.Join(errs...)).Error("failed to remove stored documents of deleted loan")
	}
}
