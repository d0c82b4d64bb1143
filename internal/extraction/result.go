package extraction

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"loanops/internal/model"
)

// Result is the structured output of a document analysis.
// Optional fields stay nil when the document did not yield them.
type Result struct {
	Borrower       *string          `json:"borrower,omitempty"`
	FacilityAmount *decimal.Decimal `json:"facility_amount,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	Margin         *string          `json:"margin,omitempty"`
	MaturityDate   *string          `json:"maturity_date,omitempty"`
	AgentBank      *string          `json:"agent_bank,omitempty"`
	LoanType       *string          `json:"loan_type,omitempty"`
	Covenants      []CovenantDraft  `json:"covenants"`
	KeyTerms       map[string]any   `json:"key_terms"`
}

// CovenantDraft is a covenant as described by the extraction capability,
// before defaults are applied.
type CovenantDraft struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Threshold   *string `json:"threshold,omitempty"`
	RiskLevel   string  `json:"risk_level"`
	Status      string  `json:"status"`
	Explanation string  `json:"explanation"`
	DueDate     *string `json:"due_date,omitempty"`
}

// Neutral is the result used whenever extraction is unavailable.
func Neutral() Result {
	return Result{
		Covenants: []CovenantDraft{},
		KeyTerms:  map[string]any{},
	}
}

// Terms renders r as a generic mapping suitable for Document.ExtractedTerms.
func (r Result) Terms() map[string]any {
	b, err := json.Marshal(r)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// FromTerms decodes a stored extracted-terms mapping back into a Result.
// A nil or undecodable mapping yields the neutral result.
func FromTerms(terms map[string]any) Result {
	if terms == nil {
		return Neutral()
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return Neutral()
	}
	obj, err := decodeObject(b)
	if err != nil {
		return Neutral()
	}
	return fromObject(obj)
}

// ToCovenant converts a draft into a covenant for loanID, applying defaults:
// type financial, name "Extracted Covenant", risk level medium, status pending.
// Values outside the known enumerations fall back to the same defaults.
func (d CovenantDraft) ToCovenant(loanID string) model.Covenant {
	c := model.Covenant{
		LoanID:      loanID,
		Type:        model.CovenantTypeFinancial,
		Name:        "Extracted Covenant",
		Description: d.Description,
		Threshold:   d.Threshold,
		Status:      model.CovenantStatusPending,
		RiskLevel:   model.SeverityMedium,
		DueDate:     d.DueDate,
		Explanation: d.Explanation,
	}
	if d.Name != "" {
		c.Name = d.Name
	}
	switch t := model.CovenantType(d.Type); t {
	case model.CovenantTypeFinancial, model.CovenantTypeOperational, model.CovenantTypeNegative, model.CovenantTypeAffirmative:
		c.Type = t
	}
	switch s := model.Severity(d.RiskLevel); s {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
		c.RiskLevel = s
	}
	switch s := model.CovenantStatus(d.Status); s {
	case model.CovenantStatusPending, model.CovenantStatusCompliant, model.CovenantStatusAtRisk, model.CovenantStatusBreached:
		c.Status = s
	}
	return c
}
