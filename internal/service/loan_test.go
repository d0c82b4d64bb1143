package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loanops/internal/model"
	"loanops/internal/storage"
	storeMocks "loanops/internal/storage/mocks"
)

func TestLoanService_Create(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, model.LoanCreate{
		Name:           "Acme Facility",
		Borrower:       "Acme",
		FacilityAmount: decimal.RequireFromString("250000000.50"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "USD", l.Currency)
	assert.Equal(t, model.LoanStatusActive, l.Status)
	assert.Equal(t, 100, l.HealthScore)
	assert.Equal(t, model.HealthTierHealthy, l.HealthTier)
	assert.NotNil(t, l.SyndicateMembers)

	got, err := e.loans.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, l.FacilityAmount.Equal(got.FacilityAmount))

	events, err := e.audit.ListByLoan(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.AuditEventLoanCreated, events[0].EventType)
	assert.Equal(t, "New loan 'Acme Facility' created for Acme", events[0].Description)
}

func TestLoanService_Get(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.loans.Get(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.loans.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestLoanService_ListByStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.newLoan(t, "A")
	b := e.newLoan(t, "B")

	closed := model.LoanStatusClosed
	_, err := e.loans.Update(ctx, a.ID, model.LoanUpdate{Status: &closed})
	require.NoError(t, err)

	all, err := e.loans.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := e.loans.List(ctx, model.LoanStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)
}

func TestLoanService_Update(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.newLoan(t, "Update")
	e.addCovenant(t, l.ID, "Leverage", model.CovenantStatusBreached)

	name := "Renamed"
	got, err := e.loans.Update(ctx, l.ID, model.LoanUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 75, got.HealthScore, "health is preserved across updates")

	defaulted := model.LoanStatusDefaulted
	_, err = e.loans.Update(ctx, l.ID, model.LoanUpdate{Status: &defaulted})
	require.NoError(t, err)

	events, err := e.audit.ListByLoan(ctx, l.ID)
	require.NoError(t, err)
	var sawUpdate, sawStatus bool
	for _, ev := range events {
		switch ev.EventType {
		case model.AuditEventLoanUpdated:
			sawUpdate = true
		case model.AuditEventStatusChange:
			sawStatus = true
			assert.Equal(t, "Status changed from active to defaulted", ev.Description)
		}
	}
	assert.True(t, sawUpdate)
	assert.True(t, sawStatus)

	_, err = e.loans.Update(ctx, "missing", model.LoanUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestLoanService_DeleteCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.newLoan(t, "Doomed")
	other := e.newLoan(t, "Survivor")

	e.addCovenant(t, l.ID, "ICR", model.CovenantStatusAtRisk)
	e.addObligation(t, l.ID, "Certificate", model.ObligationStatusOverdue)
	_, err := e.risks.Analyze(ctx, l.ID)
	require.NoError(t, err)
	d1, err := e.documents.Upload(ctx, l.ID, strings.NewReader("1. Interest Rate\nSOFR + 2%"), "v1.txt", "text/plain", -1)
	require.NoError(t, err)
	d2, err := e.documents.Upload(ctx, l.ID, strings.NewReader("1. Interest Rate\nSOFR + 3%"), "v2.txt", "text/plain", -1)
	require.NoError(t, err)
	_, err = e.comparisons.Compare(ctx, l.ID, d1.ID, d2.ID)
	require.NoError(t, err)
	e.addCovenant(t, other.ID, "Kept", model.CovenantStatusPending)

	require.NoError(t, e.loans.Delete(ctx, l.ID))

	_, err = e.loans.Get(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLoanNotFound)

	covs, _ := e.covenants.ListByLoan(ctx, l.ID)
	obls, _ := e.obligations.ListByLoan(ctx, l.ID)
	risks, _ := e.risks.ListByLoan(ctx, l.ID)
	docs, _ := e.documents.ListByLoan(ctx, l.ID)
	comps, _ := e.comparisons.ListByLoan(ctx, l.ID)
	events, _ := e.audit.ListByLoan(ctx, l.ID)
	assert.Empty(t, covs)
	assert.Empty(t, obls)
	assert.Empty(t, risks)
	assert.Empty(t, docs)
	assert.Empty(t, comps)
	assert.Empty(t, events)

	kept, err := e.covenants.ListByLoan(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, e.loans.Delete(ctx, l.ID), ErrLoanNotFound)
}

func TestLoanService_DeleteLogsObjectCleanupFailure(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, key string, _ io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			return storage.ObjectInfo{Key: key, Size: 5}
		}, nil)
	mStore.On("Delete", ctx, mock.Anything).Return(errors.New("bucket unavailable"))

	e := newEnv(t, withObjects(mStore))
	l := e.newLoan(t, "Stored")
	_, err := e.documents.Upload(ctx, l.ID, strings.NewReader("hello"), "a.txt", "text/plain", 5)
	require.NoError(t, err)

	require.NoError(t, e.loans.Delete(ctx, l.ID))

	_, err = e.loans.Get(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLoanNotFound)
	assert.True(t, e.hasLogEvent("cascade_cleanup_failed"))
	mStore.AssertCalled(t, "Delete", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "loans/"+l.ID+"/documents/") && strings.HasSuffix(key, ".txt")
	}))
}
