package model

import "time"

// AuditEventType tags what kind of state change an event describes.
type AuditEventType string

const (
	AuditEventLoanCreated        AuditEventType = "loan_created"
	AuditEventLoanUpdated        AuditEventType = "loan_updated"
	AuditEventDocumentUpload     AuditEventType = "document_upload"
	AuditEventDocumentDeleted    AuditEventType = "document_deleted"
	AuditEventCovenantAdded      AuditEventType = "covenant_added"
	AuditEventCovenantExtracted  AuditEventType = "covenant_extracted"
	AuditEventObligationAdded    AuditEventType = "obligation_added"
	AuditEventStatusChange       AuditEventType = "status_change"
	AuditEventRiskDetected       AuditEventType = "risk_detected"
	AuditEventAnalysisComplete   AuditEventType = "analysis_complete"
	AuditEventComparisonComplete AuditEventType = "comparison_complete"
)

// SystemActor is the actor recorded when no user is attached to a change.
const SystemActor = "System"

// AuditEvent is an immutable record of a state change.
type AuditEvent struct {
	ID          string         `json:"id" yaml:"id"`
	LoanID      string         `json:"loan_id" yaml:"loan_id"`
	EventType   AuditEventType `json:"event_type" yaml:"event_type"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Actor       string         `json:"user" yaml:"user"`
	Timestamp   time.Time      `json:"timestamp" yaml:"-"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata"`
}
