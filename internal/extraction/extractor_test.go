package extraction

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	resp   string
	err    error
	system string
	user   string
	hasDL  bool
	wait   bool
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	_, f.hasDL = ctx.Deadline()
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.resp, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const goodResponse = `Here is the analysis:
{
  "borrower": "Acme Corp",
  "facility_amount": 50000000,
  "currency": "USD",
  "margin": "SOFR + 2.75%",
  "covenants": [
    {"type": "financial", "name": "Leverage Ratio", "threshold": "< 4.0x", "risk_level": "high", "explanation": "Debt over EBITDA"},
    {"description": "Maintain insurance"}
  ],
  "key_terms": {"interest_rate": "floating"}
}
Let me know if you need more.`

func TestExtractor_Extract(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		completer     Completer
		wantBorrower  *string
		wantCovenants int
	}{
		{
			name:          "parses json embedded in prose",
			completer:     &fakeCompleter{resp: goodResponse},
			wantBorrower:  strPtr("Acme Corp"),
			wantCovenants: 2,
		},
		{
			name:          "unparsable output falls back to neutral",
			completer:     &fakeCompleter{resp: "I could not read this document."},
			wantCovenants: 0,
		},
		{
			name:          "malformed json falls back to neutral",
			completer:     &fakeCompleter{resp: `{"borrower": "Acme", "covenants": [}`},
			wantCovenants: 0,
		},
		{
			name:          "amount as text keeps the rest",
			completer:     &fakeCompleter{resp: `{"borrower": "Acme", "facility_amount": "USD 50,000,000", "covenants": [{"name": "Leverage"}]}`},
			wantBorrower:  strPtr("Acme"),
			wantCovenants: 1,
		},
		{
			name:          "numeric threshold keeps the rest",
			completer:     &fakeCompleter{resp: `{"borrower": "Acme", "covenants": [{"name": "Leverage", "threshold": 4.0}, {"name": "ICR"}]}`},
			wantBorrower:  strPtr("Acme"),
			wantCovenants: 2,
		},
		{
			name:          "call error falls back to neutral",
			completer:     &fakeCompleter{err: errors.New("503 upstream")},
			wantCovenants: 0,
		},
		{
			name:          "missing credential falls back to neutral",
			completer:     nil,
			wantCovenants: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.completer, quietLogger(), time.Second)

			res := e.Extract(ctx, "LOAN AGREEMENT", "loan-1")

			assert.Equal(t, tt.wantBorrower, res.Borrower)
			assert.Len(t, res.Covenants, tt.wantCovenants)
			assert.NotNil(t, res.Covenants)
			assert.NotNil(t, res.KeyTerms)
		})
	}
}

func TestExtractor_NeutralResultHasNoOptionalFields(t *testing.T) {
	e := NewExtractor(&fakeCompleter{resp: "not json"}, quietLogger(), time.Second)

	res := e.Extract(context.Background(), "text", "loan-1")

	assert.Nil(t, res.Borrower)
	assert.Nil(t, res.FacilityAmount)
	assert.Nil(t, res.Currency)
	assert.Nil(t, res.Margin)
	assert.Nil(t, res.MaturityDate)
	assert.Nil(t, res.AgentBank)
	assert.Nil(t, res.LoanType)
	assert.Empty(t, res.Covenants)
	assert.Empty(t, res.KeyTerms)
}

func TestExtractor_LogsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := NewExtractor(&fakeCompleter{err: errors.New("boom")}, log, time.Second)

	e.Extract(context.Background(), "text", "loan-1")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "loan-1", hook.LastEntry().Data["loan_id"])
}

func TestExtractor_TruncatesInput(t *testing.T) {
	fc := &fakeCompleter{resp: "{}"}
	e := NewExtractor(fc, quietLogger(), time.Second)

	e.Extract(context.Background(), strings.Repeat("é", MaxInputChars+500), "loan-1")

	body := strings.TrimPrefix(fc.user, userPrefix)
	assert.Equal(t, MaxInputChars, len([]rune(body)))
	assert.True(t, strings.HasPrefix(fc.user, userPrefix))
	assert.Contains(t, fc.system, `"covenants"`)
}

func TestExtractor_TimeoutIsUnavailable(t *testing.T) {
	fc := &fakeCompleter{wait: true}
	e := NewExtractor(fc, quietLogger(), 20*time.Millisecond)

	res := e.Extract(context.Background(), "text", "loan-1")

	assert.True(t, fc.hasDL)
	assert.Empty(t, res.Covenants)
}

func TestExtractor_IgnoresCallerCancellation(t *testing.T) {
	fc := &fakeCompleter{resp: goodResponse}
	e := NewExtractor(fc, quietLogger(), time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Extract(ctx, "text", "loan-1")

	assert.Len(t, res.Covenants, 2)
}

func TestParse(t *testing.T) {
	res, err := Parse(goodResponse)
	require.NoError(t, err)

	require.NotNil(t, res.FacilityAmount)
	assert.True(t, res.FacilityAmount.Equal(decimal.NewFromInt(50000000)))
	assert.Equal(t, "USD", *res.Currency)
	assert.Nil(t, res.MaturityDate)
	assert.Equal(t, "floating", res.KeyTerms["interest_rate"])

	_, err = Parse("no braces here")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = Parse("} backwards {")
	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestParse_OffTypeFields(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantAmount    string
		wantBorrower  *string
		wantThreshold *string
		wantName      string
	}{
		{
			name:         "amount with currency and separators",
			raw:          `{"borrower": "Acme", "facility_amount": "USD 50,000,000", "covenants": [{"name": "Leverage"}]}`,
			wantAmount:   "50000000",
			wantBorrower: strPtr("Acme"),
			wantName:     "Leverage",
		},
		{
			name:         "unreadable amount is dropped alone",
			raw:          `{"borrower": "Acme", "facility_amount": "fifty million", "covenants": [{"name": "Leverage"}]}`,
			wantBorrower: strPtr("Acme"),
			wantName:     "Leverage",
		},
		{
			name:          "numeric threshold and name become text",
			raw:           `{"borrower": "Acme", "facility_amount": 1250000.50, "covenants": [{"name": 7, "threshold": 4.0}]}`,
			wantAmount:    "1250000.5",
			wantBorrower:  strPtr("Acme"),
			wantThreshold: strPtr("4.0"),
			wantName:      "7",
		},
		{
			name:     "object borrower is dropped alone",
			raw:      `{"borrower": {"name": "Acme"}, "covenants": [{"name": "Leverage"}, "not a covenant"]}`,
			wantName: "Leverage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.raw)
			require.NoError(t, err)

			if tt.wantAmount == "" {
				assert.Nil(t, res.FacilityAmount)
			} else {
				require.NotNil(t, res.FacilityAmount)
				assert.Equal(t, tt.wantAmount, res.FacilityAmount.String())
			}
			assert.Equal(t, tt.wantBorrower, res.Borrower)
			require.Len(t, res.Covenants, 1)
			assert.Equal(t, tt.wantName, res.Covenants[0].Name)
			assert.Equal(t, tt.wantThreshold, res.Covenants[0].Threshold)
		})
	}
}

func TestParse_TrailingDataFails(t *testing.T) {
	_, err := Parse(`{"borrower": "A"} and also {"borrower": "B"}`)
	assert.Error(t, err)
}

func TestParse_MissingListsAreEmpty(t *testing.T) {
	res, err := Parse(`{"borrower": "X"}`)
	require.NoError(t, err)

	assert.NotNil(t, res.Covenants)
	assert.NotNil(t, res.KeyTerms)
}

func TestCovenantDraft_ToCovenant(t *testing.T) {
	res, err := Parse(goodResponse)
	require.NoError(t, err)

	first := res.Covenants[0].ToCovenant("loan-1")
	assert.Equal(t, "loan-1", first.LoanID)
	assert.Equal(t, "Leverage Ratio", first.Name)
	assert.EqualValues(t, "high", first.RiskLevel)
	assert.EqualValues(t, "pending", first.Status)
	assert.Equal(t, "< 4.0x", *first.Threshold)

	second := res.Covenants[1].ToCovenant("loan-1")
	assert.Equal(t, "Extracted Covenant", second.Name)
	assert.EqualValues(t, "financial", second.Type)
	assert.EqualValues(t, "medium", second.RiskLevel)
	assert.EqualValues(t, "pending", second.Status)
	assert.Equal(t, "Maintain insurance", second.Description)

	odd := CovenantDraft{Name: "X", Type: "weird", RiskLevel: "extreme", Status: "unknown"}.ToCovenant("loan-1")
	assert.EqualValues(t, "financial", odd.Type)
	assert.EqualValues(t, "medium", odd.RiskLevel)
	assert.EqualValues(t, "pending", odd.Status)
}

func TestResult_TermsRoundTrip(t *testing.T) {
	res, err := Parse(goodResponse)
	require.NoError(t, err)

	terms := res.Terms()
	assert.Equal(t, "Acme Corp", terms["borrower"])

	back := FromTerms(terms)
	assert.Equal(t, "Acme Corp", *back.Borrower)
	assert.Len(t, back.Covenants, 2)

	assert.Empty(t, FromTerms(nil).Covenants)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}

func strPtr(s string) *string { return &s }
