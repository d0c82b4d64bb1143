package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"loanops/internal/model"
	"loanops/internal/repository"
)

var _ repository.LoanRepository = (*MockLoanRepository)(nil)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, l *model.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id string) (*model.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, l *model.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateHealth(ctx context.Context, id string, score int, tier model.HealthTier, at time.Time) error {
	args := m.Called(ctx, id, score, tier, at)
	return args.Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
