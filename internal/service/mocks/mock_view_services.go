package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanops/internal/model"
	"loanops/internal/service"
)

var (
	_ service.ComparisonService = (*MockComparisonService)(nil)
	_ service.AuditService      = (*MockAuditService)(nil)
	_ service.DashboardService  = (*MockDashboardService)(nil)
	_ service.DemoService       = (*MockDemoService)(nil)
)

type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Compare(ctx context.Context, loanID, doc1ID, doc2ID string) (*service.ComparisonResult, error) {
	args := m.Called(ctx, loanID, doc1ID, doc2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ComparisonResult), args.Error(1)
}

func (m *MockComparisonService) ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VersionComparison), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Get(ctx context.Context, loanID string) (*service.Dashboard, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

type MockDemoService struct {
	mock.Mock
}

func (m *MockDemoService) Load(ctx context.Context) (*service.DemoResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DemoResult), args.Error(1)
}
