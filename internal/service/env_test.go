package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"loanops/internal/audit"
	"loanops/internal/cache"
	"loanops/internal/extraction"
	"loanops/internal/model"
	"loanops/internal/repository"
	"loanops/internal/repository/memory"
	"loanops/internal/storage"
)

type fakeExtractor struct {
	result extraction.Result
	calls  int
	text   string
}

func (f *fakeExtractor) Extract(ctx context.Context, text, loanID string) extraction.Result {
	f.calls++
	f.text = text
	return f.result
}

// env wires every service over one in-memory store.
type env struct {
	store   *memory.Store
	repos   repository.Repos
	log     *logrus.Logger
	hook    *test.Hook
	metrics *Metrics
	coord   *Coordinator

	loans       LoanService
	covenants   CovenantService
	obligations ObligationService
	risks       RiskService
	documents   DocumentService
	comparisons ComparisonService
	audit       AuditService
	dashboard   DashboardService
	demo        DemoService
	extractor   *fakeExtractor
}

type envOption func(*envConfig)

type envConfig struct {
	objects storage.Storage
	cache   *cache.DashboardCache
	audit   repository.AuditRepository
}

func withObjects(s storage.Storage) envOption { return func(c *envConfig) { c.objects = s } }

func withCache(dc *cache.DashboardCache) envOption { return func(c *envConfig) { c.cache = dc } }

func withAuditRepo(r repository.AuditRepository) envOption { return func(c *envConfig) { c.audit = r } }

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	log, hook := test.NewNullLogger()
	store := memory.NewStore()
	repos := store.Repos()
	auditRepo := repos.Audit
	if cfg.audit != nil {
		auditRepo = cfg.audit
	}

	rec := audit.NewRecorder(auditRepo, log)
	metrics := NewMetrics(prometheus.NewRegistry())
	coord := NewCoordinator(store, rec, cfg.cache, metrics, log)
	ex := &fakeExtractor{result: extraction.Neutral()}

	e := &env{
		store:     store,
		repos:     repos,
		log:       log,
		hook:      hook,
		metrics:   metrics,
		coord:     coord,
		extractor: ex,
	}
	e.loans = NewLoanService(repos, store, cfg.objects, rec, cfg.cache, log)
	e.covenants = NewCovenantService(repos, coord)
	e.obligations = NewObligationService(repos, coord)
	e.risks = NewRiskService(repos, coord, log)
	e.documents = NewDocumentService(repos, store, cfg.objects, ex, coord, rec, cfg.cache, log)
	e.comparisons = NewComparisonService(repos, cfg.objects, rec, log)
	e.audit = NewAuditService(rec)
	e.dashboard = NewDashboardService(repos, cfg.cache, log)
	e.demo = NewDemoService(store, cfg.objects, coord, log)
	return e
}

func (e *env) newLoan(t *testing.T, name string) *model.Loan {
	t.Helper()
	l, err := e.loans.Create(context.Background(), model.LoanCreate{
		Name:           name,
		Borrower:       name + " Borrower",
		FacilityAmount: decimal.NewFromInt(1000000),
	})
	require.NoError(t, err)
	return l
}

func (e *env) addCovenant(t *testing.T, loanID, name string, status model.CovenantStatus) *model.Covenant {
	t.Helper()
	c, err := e.covenants.Create(context.Background(), model.CovenantCreate{
		LoanID: loanID,
		Type:   model.CovenantTypeFinancial,
		Name:   name,
		Status: status,
	})
	require.NoError(t, err)
	return c
}

func (e *env) addObligation(t *testing.T, loanID, name string, status model.ObligationStatus) *model.Obligation {
	t.Helper()
	o, err := e.obligations.Create(context.Background(), model.ObligationCreate{
		LoanID:    loanID,
		Type:      model.ObligationTypeFinancialReport,
		Name:      name,
		Frequency: model.FrequencyQuarterly,
		DueDate:   "2025-02-14",
		Status:    status,
	})
	require.NoError(t, err)
	return o
}

func (e *env) health(t *testing.T, loanID string) (int, model.HealthTier) {
	t.Helper()
	l, err := e.repos.Loans.FindByID(context.Background(), loanID)
	require.NoError(t, err)
	return l.HealthScore, l.HealthTier
}

func (e *env) hasLogEvent(event string) bool {
	for _, entry := range e.hook.AllEntries() {
		if entry.Data["event"] == event {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
