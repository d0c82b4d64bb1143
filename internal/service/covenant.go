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

// CovenantService defines the use cases for covenants. Every mutation rescores the loan.
type CovenantService interface {
	ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error)
	Create(ctx context.Context, in model.CovenantCreate) (*model.Covenant, error)
	Update(ctx context.Context, id string, u model.CovenantUpdate) (*model.Covenant, error)
}

type covenantService struct {
	repos repository.Repos
	coord *Coordinator
}

func NewCovenantService(repos repository.Repos, coord *Coordinator) CovenantService {
	return &covenantService{repos: repos, coord: coord}
}

func (s *covenantService) ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error) {
	return s.repos.Covenants.ListByLoan(ctx, loanID)
}

func (s *covenantService) Create(ctx context.Context, in model.CovenantCreate) (*model.Covenant, error) {
	now := time.Now().UTC()
	c := &model.Covenant{
		ID:           uuid.New().String(),
		LoanID:       in.LoanID,
		Type:         in.Type,
		Name:         in.Name,
		Description:  in.Description,
		Threshold:    in.Threshold,
		CurrentValue: in.CurrentValue,
		Status:       in.Status,
		RiskLevel:    in.RiskLevel,
		DueDate:      in.DueDate,
		Explanation:  in.Explanation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if c.Status == "" {
		c.Status = model.CovenantStatusPending
	}
	if c.RiskLevel == "" {
		c.RiskLevel = model.SeverityMedium
	}

	_, err := s.coord.Apply(ctx, Pass{
		LoanID:  in.LoanID,
		Trigger: TriggerCovenantCreated,
		Mutate: func(r repository.Repos) error {
			return r.Covenants.Create(ctx, c)
		},
		Events: func(Outcome) []audit.Entry {
			return []audit.Entry{{
				LoanID:      c.LoanID,
				Type:        model.AuditEventCovenantAdded,
				Title:       "Covenant Added: " + c.Name,
				Description: fmt.Sprintf("New %s covenant added: %s", c.Type, c.Description),
			}}
		},
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *covenantService) Update(ctx context.Context, id string, u model.CovenantUpdate) (*model.Covenant, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.repos.Covenants.FindByID(ctx, id)
	if err != nil {
		return nil, covenantLookupErr(err)
	}

	var updated *model.Covenant
	_, err = s.coord.Apply(ctx, Pass{
		LoanID:  current.LoanID,
		Trigger: TriggerCovenantUpdated,
		Mutate: func(r repository.Repos) error {
			c, err := r.Covenants.FindByID(ctx, id)
			if err != nil {
				return covenantLookupErr(err)
			}
			u.Apply(c)
			c.UpdatedAt = time.Now().UTC()
			if err := r.Covenants.Update(ctx, c); err != nil {
				return fmt.Errorf("update covenant: %w", err)
			}
			updated = c
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
				Title:       "Covenant Updated: " + updated.Name,
				Description: "Status changed to " + status,
			}}
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func covenantLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCovenantNotFound
	}
	return fmt.Errorf("find covenant: %w", err)
}
