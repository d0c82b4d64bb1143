package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loanops/internal/audit"
	"loanops/internal/model"
	"loanops/internal/repository"
)

// ObligationService defines the use cases for reporting obligations.
// Every mutation rescores the loan.
type ObligationService interface {
	ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error)
	Create(ctx context.Context, in model.ObligationCreate) (*model.Obligation, error)
	Update(ctx context.Context, id string, u model.ObligationUpdate) (*model.Obligation, error)
}

type obligationService struct {
	repos repository.Repos
	coord *Coordinator
}

func NewObligationService(repos repository.Repos, coord *Coordinator) ObligationService {
	return &obligationService{repos: repos, coord: coord}
}

func (s *obligationService) ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error) {
	return s.repos.Obligations.ListByLoan(ctx, loanID)
}

func (s *obligationService) Create(ctx context.Context, in model.ObligationCreate) (*model.Obligation, error) {
	now := time.Now().UTC()
	o := &model.Obligation{
		ID:          uuid.New().String(),
		LoanID:      in.LoanID,
		Type:        in.Type,
		Name:        in.Name,
		Description: in.Description,
		Frequency:   in.Frequency,
		DueDate:     in.DueDate,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if o.Status == "" {
		o.Status = model.ObligationStatusPending
	}

	_, err := s.coord.Apply(ctx, Pass{
		LoanID:  in.LoanID,
		Trigger: TriggerObligationCreated,
		Mutate: func(r repository.Repos) error {
			return r.Obligations.Create(ctx, o)
		},
		Events: func(Outcome) []audit.Entry {
			return []audit.Entry{{
				LoanID:      o.LoanID,
				Type:        model.AuditEventObligationAdded,
				Title:       "Obligation Added: " + o.Name,
				Description: fmt.Sprintf("New %s obligation due %s", o.Type, o.DueDate),
			}}
		},
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *obligationService) Update(ctx context.Context, id string, u model.ObligationUpdate) (*model.Obligation, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.repos.Obligations.FindByID(ctx, id)
	if err != nil {
		return nil, obligationLookupErr(err)
	}

	var updated *model.Obligation
	_, err = s.coord.Apply(ctx, Pass{
		LoanID:  current.LoanID,
		Trigger: TriggerObligationUpdated,
		Mutate: func(r repository.Repos) error {
			o, err := r.Obligations.FindByID(ctx, id)
			if err != nil {
				return obligationLookupErr(err)
			}
			u.Apply(o)
			o.UpdatedAt = time.Now().UTC()
			if err := r.Obligations.Update(ctx, o); err != nil {
				return fmt.Errorf("update obligation: %w", err)
			}
			updated = o
			return nil
		},
		Events: func(Outcome) []audit.Entry {
			status := "updated"
			if u.Status != nil {
				status = string(*u.Status)
			}
			return []audit.Entry{{
				LoanID:      updated.LoanID,
				Type:        model.AuditEventStatusChange,
				Title:       "Obligation Updated: " + updated.Name,
				Description: "Status changed to " + status,
			}}
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func obligationLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrObligationNotFound
	}
	return fmt.Errorf("find obligation: %w", err)
}
