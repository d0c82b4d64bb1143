package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanops/internal/cache"
	"loanops/internal/demo"
	"loanops/internal/model"
)

func TestDashboardService_Get(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.demo.Load(ctx)
	require.NoError(t, err)

	d, err := e.dashboard.Get(ctx, demo.LoanID)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp Senior Secured Credit Facility", d.Loan.Name)
	m := d.Metrics
	assert.Equal(t, 5, m.TotalCovenants)
	assert.Equal(t, 4, m.CompliantCovenants)
	assert.Equal(t, 1, m.AtRiskCovenants)
	assert.Equal(t, 0, m.BreachedCovenants)
	assert.Equal(t, 3, m.PendingObligations)
	assert.Equal(t, 0, m.OverdueObligations)
	assert.Equal(t, 0, m.CriticalRisks)
	assert.Equal(t, 1, m.HighRisks)
	assert.Equal(t, 2, m.TotalDocuments)
	assert.Equal(t, 1, m.ObligationsByStatus[model.ObligationStatusSubmitted])
	assert.Equal(t, 2, m.RisksBySeverity[model.SeverityMedium])
	assert.Len(t, d.Covenants, 5)
	assert.Len(t, d.Obligations, 4)
	assert.Len(t, d.RiskFactors, 3)

	_, err = e.dashboard.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestDashboardService_ServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEnv(t, withCache(cache.NewDashboardCache(rdb, time.Minute)))
	ctx := context.Background()
	l := e.newLoan(t, "Cached")

	first, err := e.dashboard.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Metrics.TotalCovenants)

	// A write that bypasses the services is not seen until the entry expires.
	require.NoError(t, e.repos.Covenants.Create(ctx, &model.Covenant{ID: "c1", LoanID: l.ID, Status: model.CovenantStatusPending}))
	cached, err := e.dashboard.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cached.Metrics.TotalCovenants)
	assert.True(t, first.Loan.FacilityAmount.Equal(cached.Loan.FacilityAmount))

	mr.FastForward(2 * time.Minute)
	fresh, err := e.dashboard.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Metrics.TotalCovenants)
}

func TestDashboardService_CacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEnv(t, withCache(cache.NewDashboardCache(rdb, time.Minute)))
	ctx := context.Background()
	l := e.newLoan(t, "NoRedis")
	mr.Close()

	d, err := e.dashboard.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, d.Loan.ID)
	assert.True(t, e.hasLogEvent("cache_read_failed"))
}
