package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanops/internal/model"
	"loanops/internal/repository"
)

func TestCovenantPostgres_ListByLoan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "loan_id", "type", "name", "description", "threshold", "current_value", "status",
		"risk_level", "due_date", "explanation", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("c1", "loan-1", "financial", "Leverage", "", "< 4.0x", "3.8x", "at_risk", "high", nil, "", time.Now(), time.Now()).
		AddRow("c2", "loan-1", "negative", "Negative Pledge", "", nil, nil, "compliant", "low", nil, "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM covenants WHERE loan_id = (.+) ORDER BY seq").WithArgs("loan-1").WillReturnRows(rows)

	covs, err := NewCovenantPostgres(db).ListByLoan(context.Background(), "loan-1")
	require.NoError(t, err)
	require.Len(t, covs, 2)
	assert.Equal(t, model.CovenantStatusAtRisk, covs[0].Status)
	assert.Equal(t, "3.8x", *covs[0].CurrentValue)
	assert.Nil(t, covs[1].Threshold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCovenantPostgres_UpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE covenants SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCovenantPostgres(db).Update(context.Background(), &model.Covenant{ID: "gone"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestObligationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	o := &model.Obligation{
		ID:        "o1",
		LoanID:    "loan-1",
		Type:      model.ObligationTypeFinancialReport,
		Name:      "Q3 Financials",
		Frequency: model.FrequencyQuarterly,
		DueDate:   "2026-11-15",
		Status:    model.ObligationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	mock.ExpectExec("INSERT INTO obligations").
		WithArgs("o1", "loan-1", "financial_report", "Q3 Financials", "", "quarterly", "2026-11-15", "pending", nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewObligationPostgres(db).Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_AppendAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs("e1", "loan-1", "loan_created", "Loan Created", "", "System", now, `{"source":"api"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Append(ctx, &model.AuditEvent{
		ID: "e1", LoanID: "loan-1", EventType: model.AuditEventLoanCreated, Title: "Loan Created",
		Actor: model.SystemActor, Timestamp: now, Metadata: map[string]any{"source": "api"},
	}))

	rows := sqlmock.NewRows([]string{"id", "loan_id", "event_type", "title", "description", "actor", "timestamp", "metadata"}).
		AddRow("e2", "loan-1", "risk_detected", "Risk", "", "System", now, nil).
		AddRow("e1", "loan-1", "loan_created", "Loan Created", "", "System", now.Add(-time.Minute), []byte(`{"source":"api"}`))
	mock.ExpectQuery("SELECT (.+) FROM audit_events WHERE loan_id = (.+) ORDER BY timestamp DESC").
		WithArgs("loan-1").WillReturnRows(rows)

	events, err := repo.ListByLoan(ctx, "loan-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].Metadata)
	assert.Equal(t, "api", events[1].Metadata["source"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComparisonPostgres_CreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewComparisonPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO version_comparisons").
		WithArgs("vc1", "loan-1", "d1", "d2", "[]", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(ctx, &model.VersionComparison{ID: "vc1", LoanID: "loan-1", Doc1ID: "d1", Doc2ID: "d2", ComparedAt: now}))

	rows := sqlmock.NewRows([]string{"id", "loan_id", "doc1_id", "doc2_id", "differences", "compared_at"}).
		AddRow("vc1", "loan-1", "d1", "d2", []byte(`[{"field":"margin","old_value":"2%","new_value":"3%","significance":"high","explanation":"x"}]`), now)
	mock.ExpectQuery("SELECT (.+) FROM version_comparisons").WithArgs("loan-1").WillReturnRows(rows)

	list, err := repo.ListByLoan(ctx, "loan-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Differences, 1)
	assert.Equal(t, model.SeverityHigh, list[0].Differences[0].Significance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskPostgres_ListByLoan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "loan_id", "category", "severity", "title", "description", "impact", "recommendation", "score", "created_at"}).
		AddRow("r1", "loan-1", "covenant", "critical", "X Breached", "", "", "", 90, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM risk_factors").WithArgs("loan-1").WillReturnRows(rows)

	risks, err := NewRiskPostgres(db).ListByLoan(context.Background(), "loan-1")
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, model.SeverityCritical, risks[0].Severity)
	assert.Equal(t, 90, risks[0].Score)
}
