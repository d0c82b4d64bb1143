package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanops/internal/model"
	"loanops/internal/service"
)

var (
	_ service.CovenantService   = (*MockCovenantService)(nil)
	_ service.ObligationService = (*MockObligationService)(nil)
	_ service.RiskService       = (*MockRiskService)(nil)
)

type MockCovenantService struct {
	mock.Mock
}

func (m *MockCovenantService) ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Covenant), args.Error(1)
}

func (m *MockCovenantService) Create(ctx context.Context, in model.CovenantCreate) (*model.Covenant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Covenant), args.Error(1)
}

func (m *MockCovenantService) Update(ctx context.Context, id string, u model.CovenantUpdate) (*model.Covenant, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Covenant), args.Error(1)
}

type MockObligationService struct {
	mock.Mock
}

func (m *MockObligationService) ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Obligation), args.Error(1)
}

func (m *MockObligationService) Create(ctx context.Context, in model.ObligationCreate) (*model.Obligation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Obligation), args.Error(1)
}

func (m *MockObligationService) Update(ctx context.Context, id string, u model.ObligationUpdate) (*model.Obligation, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Obligation), args.Error(1)
}

type MockRiskService struct {
	mock.Mock
}

func (m *MockRiskService) ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RiskFactor), args.Error(1)
}

func (m *MockRiskService) Analyze(ctx context.Context, loanID string) (*service.RiskAnalysis, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RiskAnalysis), args.Error(1)
}

func (m *MockRiskService) RefreshActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
