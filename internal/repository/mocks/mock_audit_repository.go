package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanops/internal/model"
	"loanops/internal/repository"
)

var _ repository.AuditRepository = (*MockAuditRepository)(nil)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *model.AuditEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

func (m *MockAuditRepository) DeleteByLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
