package comparison

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"loanops/internal/extraction"
	"loanops/internal/model"
)

type termField struct {
	name         string
	label        string
	significance model.Severity
	get          func(extraction.Result) *string
}

var termFields = []termField{
	{"borrower", "Borrower", model.SeverityMedium, func(r extraction.Result) *string { return r.Borrower }},
	{"currency", "Currency", model.SeverityHigh, func(r extraction.Result) *string { return r.Currency }},
	{"margin", "Pricing margin", model.SeverityHigh, func(r extraction.Result) *string { return r.Margin }},
	{"maturity_date", "Maturity date", model.SeverityCritical, func(r extraction.Result) *string { return r.MaturityDate }},
	{"agent_bank", "Agent bank", model.SeverityMedium, func(r extraction.Result) *string { return r.AgentBank }},
	{"loan_type", "Loan type", model.SeverityMedium, func(r extraction.Result) *string { return r.LoanType }},
}

// CompareTerms diffs the extracted terms of two documents: scalar terms,
// facility amount, and covenant thresholds matched by covenant name.
// Missing terms on both sides produce nothing.
func CompareTerms(oldTerms, newTerms map[string]any) []model.Difference {
	before := extraction.FromTerms(oldTerms)
	after := extraction.FromTerms(newTerms)

	diffs := make([]model.Difference, 0)
	if d, ok := compareAmount(before.FacilityAmount, after.FacilityAmount); ok {
		diffs = append(diffs, d)
	}
	for _, f := range termFields {
		if d, ok := compareScalar(f.name, f.label, f.significance, deref(f.get(before)), deref(f.get(after))); ok {
			diffs = append(diffs, d)
		}
	}
	return append(diffs, compareCovenants(before.Covenants, after.Covenants)...)
}

func compareScalar(field, label string, sig model.Severity, before, after string) (model.Difference, bool) {
	if before == after {
		return model.Difference{}, false
	}
	d := model.Difference{
		Field:        field,
		OldValue:     truncate(before),
		NewValue:     truncate(after),
		Significance: sig,
	}
	switch {
	case before == "":
		d.Change = model.ChangeAdded
		d.Explanation = fmt.Sprintf("%s set to %s", label, after)
	case after == "":
		d.Change = model.ChangeRemoved
		d.Explanation = fmt.Sprintf("%s no longer stated", label)
	default:
		d.Change = model.ChangeModified
		d.Explanation = fmt.Sprintf("%s changed from %s to %s", label, before, after)
	}
	return d, true
}

func compareAmount(before, after *decimal.Decimal) (model.Difference, bool) {
	switch {
	case before == nil && after == nil:
		return model.Difference{}, false
	case before == nil:
		return compareScalar("facility_amount", "Facility amount", model.SeverityCritical, "", after.String())
	case after == nil:
		return compareScalar("facility_amount", "Facility amount", model.SeverityCritical, before.String(), "")
	case before.Equal(*after):
		return model.Difference{}, false
	}

	d := model.Difference{
		Field:        "facility_amount",
		Change:       model.ChangeModified,
		OldValue:     before.String(),
		NewValue:     after.String(),
		Significance: model.SeverityCritical,
	}
	if before.IsZero() {
		d.Explanation = fmt.Sprintf("Facility amount changed from %s to %s", before.String(), after.String())
		return d, true
	}
	pct := after.Sub(*before).Div(*before).Mul(decimal.NewFromInt(100))
	direction := "increased"
	if pct.IsNegative() {
		direction = "decreased"
	}
	d.Explanation = fmt.Sprintf("Facility amount %s by %s%%", direction, pct.Abs().StringFixed(2))
	return d, true
}

func compareCovenants(before, after []extraction.CovenantDraft) []model.Difference {
	oldBy := indexCovenants(before)
	newBy := indexCovenants(after)

	keys := make([]string, 0, len(oldBy)+len(newBy))
	for k := range oldBy {
		keys = append(keys, k)
	}
	for k := range newBy {
		if _, ok := oldBy[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	diffs := make([]model.Difference, 0)
	for _, k := range keys {
		o, hadOld := oldBy[k]
		n, hasNew := newBy[k]
		switch {
		case !hadOld:
			diffs = append(diffs, model.Difference{
				Field:        "covenant:" + n.Name,
				Change:       model.ChangeAdded,
				NewValue:     truncate(deref(n.Threshold)),
				Significance: model.SeverityCritical,
				Explanation:  fmt.Sprintf("New covenant %s introduced", n.Name),
			})
		case !hasNew:
			diffs = append(diffs, model.Difference{
				Field:        "covenant:" + o.Name,
				Change:       model.ChangeRemoved,
				OldValue:     truncate(deref(o.Threshold)),
				Significance: model.SeverityCritical,
				Explanation:  fmt.Sprintf("Covenant %s removed", o.Name),
			})
		case deref(o.Threshold) != deref(n.Threshold):
			diffs = append(diffs, model.Difference{
				Field:        "covenant:" + n.Name,
				Change:       model.ChangeModified,
				OldValue:     truncate(deref(o.Threshold)),
				NewValue:     truncate(deref(n.Threshold)),
				Significance: model.SeverityCritical,
				Explanation:  fmt.Sprintf("Threshold for %s changed from %s to %s", n.Name, deref(o.Threshold), deref(n.Threshold)),
			})
		}
	}
	return diffs
}

// indexCovenants keys drafts by lower-cased name; unnamed drafts are skipped.
func indexCovenants(drafts []extraction.CovenantDraft) map[string]extraction.CovenantDraft {
	out := make(map[string]extraction.CovenantDraft, len(drafts))
	for _, d := range drafts {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" {
			continue
		}
		out[key] = d
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
