package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanops/internal/demo"
	"loanops/internal/model"
	"loanops/internal/repository"
)

type failingDocuments struct{ repository.DocumentRepository }

func (failingDocuments) Create(ctx context.Context, doc *model.Document) error {
	return errors.New("disk full")
}

// brokenDocsUoW runs transactions whose document inserts fail.
type brokenDocsUoW struct{ inner repository.UnitOfWork }

func (u brokenDocsUoW) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	return u.inner.WithinTx(ctx, func(r repository.Repos) error {
		r.Documents = failingDocuments{r.Documents}
		return fn(r)
	})
}

func TestDemoService_Load(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.demo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, demo.LoanID, res.LoanID)
	assert.Equal(t, 5, res.CovenantsCount)
	assert.Equal(t, 4, res.ObligationsCount)
	assert.Equal(t, 3, res.RiskFactorsCount)
	// One at-risk covenant, one high and two medium risks.
	assert.Equal(t, 70, res.Health.Score)
	assert.Equal(t, model.HealthTierWarning, res.Health.Tier)

	score, tier := e.health(t, demo.LoanID)
	assert.Equal(t, 70, score)
	assert.Equal(t, model.HealthTierWarning, tier)

	events, err := e.audit.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "audit-005", events[0].ID)
	assert.Equal(t, "John Smith", events[len(events)-1].Actor)

	docs, err := e.documents.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, docs[1].Version)
}

func TestDemoService_LoadTwiceReplaces(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.demo.Load(ctx)
	require.NoError(t, err)
	e.addCovenant(t, demo.LoanID, "Added Later", model.CovenantStatusBreached)

	_, err = e.demo.Load(ctx)
	require.NoError(t, err)

	covs, err := e.covenants.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	assert.Len(t, covs, 5)

	events, err := e.audit.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	assert.Len(t, events, 5)

	loans, err := e.loans.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func TestDemoService_FailedReloadKeepsPreviousCopy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.demo.Load(ctx)
	require.NoError(t, err)
	e.addCovenant(t, demo.LoanID, "Added Later", model.CovenantStatusBreached)

	broken := NewDemoService(brokenDocsUoW{e.store}, nil, e.coord, e.log)
	_, err = broken.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = e.loans.Get(ctx, demo.LoanID)
	require.NoError(t, err)
	covs, err := e.covenants.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	assert.Len(t, covs, 6)
	docs, err := e.documents.ListByLoan(ctx, demo.LoanID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
