// Package risk synthesizes a loan's risk-factor set from its covenant and
// obligation state. The output replaces the loan's previous set entirely.
package risk

import (
	"fmt"

	"loanops/internal/model"
)

const (
	breachedScore = 90
	atRiskScore   = 70
	overdueScore  = 75
)

// Derive returns the risk factors implied by the given covenants and obligations.
// Covenants are evaluated first in input order, then obligations in input order.
// Returned records carry LoanID but no ID or CreatedAt; the caller stamps those
// when persisting.
func Derive(loanID string, covenants []model.Covenant, obligations []model.Obligation) []model.RiskFactor {
	out := make([]model.RiskFactor, 0)
	for _, c := range covenants {
		if rf, ok := fromCovenant(loanID, c); ok {
			out = append(out, rf)
		}
	}
	for _, o := range obligations {
		if rf, ok := fromObligation(loanID, o); ok {
			out = append(out, rf)
		}
	}
	return out
}

func fromCovenant(loanID string, c model.Covenant) (model.RiskFactor, bool) {
	switch c.Status {
	case model.CovenantStatusBreached:
		return model.RiskFactor{
			LoanID:         loanID,
			Category:       model.RiskCategoryCovenant,
			Severity:       model.SeverityCritical,
			Title:          fmt.Sprintf("%s Breached", c.Name),
			Description:    fmt.Sprintf("Covenant %s is in breach status", c.Name),
			Impact:         "May trigger cross-default provisions and loan acceleration",
			Recommendation: "Immediate stakeholder communication and remediation plan required",
			Score:          breachedScore,
		}, true
	case model.CovenantStatusAtRisk:
		return model.RiskFactor{
			LoanID:         loanID,
			Category:       model.RiskCategoryCovenant,
			Severity:       model.SeverityHigh,
			Title:          fmt.Sprintf("%s At Risk", c.Name),
			Description:    fmt.Sprintf("Covenant %s is approaching breach threshold", c.Name),
			Impact:         "Potential breach could trigger default provisions",
			Recommendation: "Monitor closely and prepare mitigation strategy",
			Score:          atRiskScore,
		}, true
	default:
		return model.RiskFactor{}, false
	}
}

func fromObligation(loanID string, o model.Obligation) (model.RiskFactor, bool) {
	if o.Status != model.ObligationStatusOverdue {
		return model.RiskFactor{}, false
	}
	return model.RiskFactor{
		LoanID:         loanID,
		Category:       model.RiskCategoryReporting,
		Severity:       model.SeverityHigh,
		Title:          fmt.Sprintf("Overdue: %s", o.Name),
		Description:    fmt.Sprintf("Required %s is past due date", o.Type),
		Impact:         "Technical default may be triggered",
		Recommendation: "Submit required documentation immediately",
		Score:          overdueScore,
	}, true
}
