// Package extraction turns raw loan document text into structured terms and
// covenant drafts through an external natural-language capability.
// Extraction is best-effort: every failure degrades to the neutral result.
package extraction

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single call to the capability.
const DefaultTimeout = 30 * time.Second

const systemInstruction = `You are an expert loan document analyst. Extract key information from loan documents.
Return your analysis as a JSON object with the following structure:
{
    "borrower": "company name",
    "facility_amount": number,
    "currency": "USD/EUR/GBP",
    "margin": "percentage or description",
    "maturity_date": "YYYY-MM-DD",
    "agent_bank": "bank name",
    "loan_type": "term_loan/revolving_credit/bridge_loan",
    "covenants": [
        {
            "type": "financial/operational/negative/affirmative",
            "name": "covenant name",
            "description": "detailed description",
            "threshold": "specific threshold value",
            "risk_level": "low/medium/high",
            "explanation": "plain English explanation of what this means"
        }
    ],
    "key_terms": {
        "interest_rate": "description",
        "payment_frequency": "description",
        "prepayment_terms": "description"
    }
}`

const userPrefix = "Please analyze this loan document and extract all key terms, covenants, and obligations:\n\n"

// Extractor orchestrates one extraction call.
type Extractor struct {
	completer Completer
	log       logrus.FieldLogger
	timeout   time.Duration
}

// NewExtractor returns an Extractor. A nil completer means no credential is
// configured and every call returns the neutral result.
func NewExtractor(c Completer, log logrus.FieldLogger, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{completer: c, log: log, timeout: timeout}
}

// Extract never fails. The call is detached from the caller's cancellation so a
// started analysis runs to completion or to its own timeout.
func (e *Extractor) Extract(ctx context.Context, text, loanID string) Result {
	log := e.log.WithField("loan_id", loanID)
	if e.completer == nil {
		log.Warn("extraction credential not configured, using neutral result")
		return Neutral()
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(callCtx, systemInstruction, userPrefix+Truncate(text, MaxInputChars))
	if err != nil {
		log.WithError(err).Error("extraction call failed, using neutral result")
		return Neutral()
	}

	res, err := Parse(raw)
	if err != nil {
		log.WithError(err).Warn("could not parse extraction response, using neutral result")
		return Neutral()
	}
	return res
}
