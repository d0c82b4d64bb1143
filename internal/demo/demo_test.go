package demo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanops/internal/model"
)

func TestLoad(t *testing.T) {
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

	f, err := Load(now)
	require.NoError(t, err)

	assert.Equal(t, LoanID, f.Loan.ID)
	assert.Equal(t, "Acme Corp Senior Secured Credit Facility", f.Loan.Name)
	assert.True(t, decimal.NewFromInt(250000000).Equal(f.Loan.FacilityAmount))
	assert.Equal(t, model.LoanStatusActive, f.Loan.Status)
	assert.Len(t, f.Loan.SyndicateMembers, 4)

	assert.Len(t, f.Covenants, 5)
	assert.Len(t, f.Obligations, 4)
	assert.Len(t, f.RiskFactors, 3)
	assert.Len(t, f.AuditEvents, 5)
	assert.Len(t, f.Documents, 2)

	icr := f.Covenants[1]
	assert.Equal(t, "cov-002", icr.ID)
	assert.Equal(t, LoanID, icr.LoanID)
	assert.Equal(t, model.CovenantStatusAtRisk, icr.Status)
	assert.Equal(t, model.SeverityHigh, icr.RiskLevel)
	require.NotNil(t, icr.Threshold)
	assert.Equal(t, "≥ 3.0x", *icr.Threshold)
	assert.Nil(t, f.Covenants[2].DueDate)

	assert.Equal(t, "As needed", f.Obligations[3].DueDate)
	assert.Equal(t, model.ObligationStatusSubmitted, f.Obligations[3].Status)

	assert.Equal(t, 70, f.RiskFactors[0].Score)
	assert.Equal(t, model.SeverityMedium, f.RiskFactors[2].Severity)

	first := f.AuditEvents[0]
	assert.Equal(t, "John Smith", first.Actor)
	assert.Equal(t, model.AuditEventDocumentUpload, first.EventType)
	assert.Equal(t, now.Add(-30*24*time.Hour), first.Timestamp)
	assert.Equal(t, now.Add(-24*time.Hour), f.AuditEvents[4].Timestamp)

	doc := f.Documents[1]
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, int64(2567890), doc.Size)
	assert.Equal(t, "application/pdf", doc.ContentType)
	require.NotNil(t, doc.ContentPreview)
	assert.Equal(t, "AMENDED AND RESTATED CREDIT AGREEMENT...", *doc.ContentPreview)
	assert.Equal(t, now.Add(-15*24*time.Hour), doc.UploadedAt)
}

func TestParse_Errors(t *testing.T) {
	_, err := parse([]byte("loan: [unclosed"), time.Now())
	assert.Error(t, err)

	_, err = parse([]byte("loan:\n  id: x\n  facility_amount: lots\n"), time.Now())
	assert.ErrorContains(t, err, "demo facility_amount")
}
