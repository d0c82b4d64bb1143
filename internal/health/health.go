// Package health converts a loan's covenant, obligation and risk-factor sets
// into a 0-100 health score and a tier.
package health

import "loanops/internal/model"

const (
	maxScore = 100
	minScore = 0

	healthyFloor = 80
	warningFloor = 50
)

// Result is the outcome of a scoring pass.
type Result struct {
	Score int              `json:"score"`
	Tier  model.HealthTier `json:"tier"`
}

// Score starts at 100 and subtracts a fixed penalty per covenant, obligation and
// risk factor, then clamps to [0,100]. It is a pure sum, so input order is irrelevant.
func Score(covenants []model.Covenant, obligations []model.Obligation, risks []model.RiskFactor) Result {
	score := maxScore
	for _, c := range covenants {
		score -= covenantPenalty(c.Status)
	}
	for _, o := range obligations {
		score -= obligationPenalty(o.Status)
	}
	for _, r := range risks {
		score -= riskPenalty(r.Severity)
	}
	score = clamp(score)
	return Result{Score: score, Tier: TierFor(score)}
}

// TierFor maps a score to its tier: >=80 healthy, 50..79 warning, <50 critical.
func TierFor(score int) model.HealthTier {
	switch {
	case score >= healthyFloor:
		return model.HealthTierHealthy
	case score >= warningFloor:
		return model.HealthTierWarning
	default:
		return model.HealthTierCritical
	}
}

func covenantPenalty(s model.CovenantStatus) int {
	switch s {
	case model.CovenantStatusBreached:
		return 25
	case model.CovenantStatusAtRisk:
		return 10
	default:
		return 0
	}
}

func obligationPenalty(s model.ObligationStatus) int {
	if s == model.ObligationStatusOverdue {
		return 15
	}
	return 0
}

func riskPenalty(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 20
	case model.SeverityHigh:
		return 10
	case model.SeverityMedium:
		return 5
	default:
		return 0
	}
}

func clamp(score int) int {
	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}
