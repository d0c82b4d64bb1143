package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanops/internal/model"
	"loanops/internal/service"
)

var _ service.LoanService = (*MockLoanService)(nil)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Loan), args.Error(1)
}

func (m *MockLoanService) Get(ctx context.Context, id string) (*model.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) Create(ctx context.Context, in model.LoanCreate) (*model.Loan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) Update(ctx context.Context, id string, u model.LoanUpdate) (*model.Loan, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
