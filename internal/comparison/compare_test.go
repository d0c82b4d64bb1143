package comparison

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanops/internal/model"
)

const agreementV1 = `CREDIT AGREEMENT dated as of June 15, 2023
between Acme Corp and the Lenders.
1. Definitions
Terms used herein have the meanings below.
2. Interest Rate
The Applicable Margin is 2.50% per annum.
SECTION 7 Fees
A commitment fee of $250,000 is payable.
Article IV Notices
Notices shall be delivered in writing.`

const agreementV2 = `CREDIT AGREEMENT dated as of June 15, 2023
between Acme Corp and the Lenders.
1. Definitions
Terms used herein have the meanings below.
2. Interest Rate
The Applicable Margin is 2.75% per annum.
SECTION 7 Fees
A commitment fee of $300,000 is payable.
3. Financial Covenants
The Borrower shall maintain a Leverage Ratio below 4.0x.`

func TestSplitSections(t *testing.T) {
	order, secs := splitSections(agreementV1)

	assert.Equal(t, []string{"Preamble", "1. Definitions", "2. Interest Rate", "SECTION 7 Fees", "Article IV Notices"}, order)
	assert.Equal(t, "The Applicable Margin is 2.50% per annum.", secs["2. Interest Rate"])
	assert.True(t, strings.HasPrefix(secs["Preamble"], "CREDIT AGREEMENT"))
}

func TestSplitSections_HeadingRules(t *testing.T) {
	order, _ := splitSections("intro\n1. lowercase start\nbody\nsection 3 Security\nmore\nARTICLE ix Misc\nend")

	// "1. lowercase start" is not a heading: numbered headings need a capital.
	assert.Equal(t, []string{"Preamble", "section 3 Security", "ARTICLE ix Misc"}, order)
}

func TestCompareSections(t *testing.T) {
	diffs := CompareSections(agreementV1, agreementV2)

	byField := map[string]model.Difference{}
	for _, d := range diffs {
		byField[d.Field] = d
	}
	require.Len(t, diffs, 4)

	interest := byField["2. Interest Rate"]
	assert.Equal(t, model.ChangeModified, interest.Change)
	assert.Equal(t, model.SeverityCritical, interest.Significance, "section name mentions interest rate")
	assert.Equal(t, "Percentage value changed in this section", interest.Explanation)

	fees := byField["SECTION 7 Fees"]
	assert.Equal(t, model.SeverityHigh, fees.Significance)
	assert.Equal(t, "Dollar amount modified in this section", fees.Explanation)

	notices := byField["Article IV Notices"]
	assert.Equal(t, model.ChangeRemoved, notices.Change)
	assert.Equal(t, model.SeverityMedium, notices.Significance)
	assert.Empty(t, notices.NewValue)

	covs := byField["3. Financial Covenants"]
	assert.Equal(t, model.ChangeAdded, covs.Change)
	assert.Equal(t, model.SeverityCritical, covs.Significance)
	assert.Equal(t, `New section "3. Financial Covenants" added to the document`, covs.Explanation)

	// old sections first, then additions
	assert.Equal(t, "3. Financial Covenants", diffs[len(diffs)-1].Field)
}

func TestCompareSections_Identical(t *testing.T) {
	diffs := CompareSections(agreementV1, agreementV1)
	assert.NotNil(t, diffs)
	assert.Empty(t, diffs)
}

func TestExplainChange(t *testing.T) {
	tests := []struct {
		before, after, want string
	}{
		{"short", strings.Repeat("x", 20), "Significant expansion of content in this section"},
		{strings.Repeat("x", 20), "short", "Significant reduction of content in this section"},
		{"rate is 5%", "rate is 6%", "Percentage value changed in this section"},
		{"pay $1,000", "pay $2,000", "Dollar amount modified in this section"},
		{"alpha beta", "gamma delt", "Content modified with similar length"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, explainChange(tt.before, tt.after), tt.before)
	}
}

func TestSignificance(t *testing.T) {
	assert.Equal(t, model.SeverityCritical, Significance("Misc", "an Event of Default occurs", ""))
	assert.Equal(t, model.SeverityHigh, Significance("Guarantee", "", ""))
	assert.Equal(t, model.SeverityMedium, Significance("Misc", "", "prior written consent"))
	assert.Equal(t, model.SeverityLow, Significance("Misc", "boilerplate", ""))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", MaxValueChars+10)
	got := truncate(long)
	assert.Equal(t, MaxValueChars+3, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", truncate("short"))
}
