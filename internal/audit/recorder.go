// Package audit appends immutable audit events. Recording is best-effort:
// a failed write is logged and never returned to the mutation that caused it.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// Entry describes a state change to record. Empty Actor means the system.
type Entry struct {
	LoanID      string
	Type        model.AuditEventType
	Title       string
	Description string
	Actor       string
	Metadata    map[string]any
}

type Recorder struct {
	repo repository.AuditRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewRecorder(repo repository.AuditRepository, log logrus.FieldLogger) *Recorder {
	return &Recorder{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends e and returns the stored event, or nil when the write failed.
func (r *Recorder) Record(ctx context.Context, e Entry) *model.AuditEvent {
	ev := &model.AuditEvent{
		ID:          uuid.New().String(),
		LoanID:      e.LoanID,
		EventType:   e.Type,
		Title:       e.Title,
		Description: e.Description,
		Actor:       e.Actor,
		Timestamp:   r.now(),
		Metadata:    e.Metadata,
	}
	if ev.Actor == "" {
		ev.Actor = model.SystemActor
	}

	if err := r.repo.Append(ctx, ev); err != nil {
		r.log.WithFields(logrus.Fields{
			"component":  "audit",
			"event":      "audit_write_failed",
			"loan_id":    e.LoanID,
			"event_type": e.Type,
		}).WithError(err).Error("failed to record audit event")
		return nil
	}
	return ev
}

// List returns a loan's events, newest first.
func (r *Recorder) List(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	return r.repo.ListByLoan(ctx, loanID)
}
