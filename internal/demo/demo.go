// Package demo holds the synthetic loan used for interactive exploration and
// acceptance tests.
package demo

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"loanops/internal/model"
)

// LoanID is the fixed id of the demo loan.
const LoanID = "demo-loan-001"

//go:embed fixture.yaml
var fixtureYAML []byte

// Fixture is one loan with all of its child records.
type Fixture struct {
	Loan        model.Loan
	Covenants   []model.Covenant
	Obligations []model.Obligation
	RiskFactors []model.RiskFactor
	AuditEvents []model.AuditEvent
	Documents   []model.Document
}

type rawLoan struct {
	model.Loan     `yaml:",inline"`
	FacilityAmount string `yaml:"facility_amount"`
}

type rawEvent struct {
	model.AuditEvent `yaml:",inline"`
	DaysAgo          int `yaml:"days_ago"`
}

type rawDocument struct {
	model.Document `yaml:",inline"`
	DaysAgo        int `yaml:"days_ago"`
}

type rawFixture struct {
	Loan        rawLoan            `yaml:"loan"`
	Covenants   []model.Covenant   `yaml:"covenants"`
	Obligations []model.Obligation `yaml:"obligations"`
	RiskFactors []model.RiskFactor `yaml:"risk_factors"`
	AuditEvents []rawEvent         `yaml:"audit_events"`
	Documents   []rawDocument      `yaml:"documents"`
}

// Load parses the embedded fixture. Creation times are set to now; audit events
// and documents are backdated by their configured number of days.
func Load(now time.Time) (*Fixture, error) {
	return parse(fixtureYAML, now)
}

func parse(data []byte, now time.Time) (*Fixture, error) {
	var raw rawFixture
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode demo fixture: %w", err)
	}
	amount, err := decimal.NewFromString(raw.Loan.FacilityAmount)
	if err != nil {
		return nil, fmt.Errorf("demo facility_amount: %w", err)
	}

	f := &Fixture{Loan: raw.Loan.Loan}
	f.Loan.FacilityAmount = amount
	f.Loan.CreatedAt = now
	f.Loan.UpdatedAt = now
	id := f.Loan.ID

	for _, c := range raw.Covenants {
		c.LoanID, c.CreatedAt, c.UpdatedAt = id, now, now
		f.Covenants = append(f.Covenants, c)
	}
	for _, o := range raw.Obligations {
		o.LoanID, o.CreatedAt, o.UpdatedAt = id, now, now
		f.Obligations = append(f.Obligations, o)
	}
	for _, r := range raw.RiskFactors {
		r.LoanID, r.CreatedAt = id, now
		f.RiskFactors = append(f.RiskFactors, r)
	}
	for _, e := range raw.AuditEvents {
		ev := e.AuditEvent
		ev.LoanID = id
		ev.Timestamp = daysBefore(now, e.DaysAgo)
		f.AuditEvents = append(f.AuditEvents, ev)
	}
	for _, d := range raw.Documents {
		doc := d.Document
		doc.LoanID = id
		doc.UploadedAt = daysBefore(now, d.DaysAgo)
		f.Documents = append(f.Documents, doc)
	}
	return f, nil
}

func daysBefore(t time.Time, days int) time.Time {
	return t.Add(-time.Duration(days) * 24 * time.Hour)
}
