package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db DBTX
}

func NewAuditPostgres(db DBTX) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

func (r *AuditPostgres) Append(ctx context.Context, e *model.AuditEvent) error {
	const q = `
		INSERT INTO audit_events (id, loan_id, event_type, title, description, actor, timestamp, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	meta, err := jsonArg(e.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		e.ID,
		e.LoanID,
		e.EventType,
		e.Title,
		e.Description,
		e.Actor,
		e.Timestamp,
		meta,
	)
	return err
}

func (r *AuditPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.AuditEvent, error) {
	const q = `
		SELECT id, loan_id, event_type, title, description, actor, timestamp, metadata
		FROM audit_events
		WHERE loan_id = $1
		ORDER BY timestamp DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEvent, 0)
	for rows.Next() {
		var (
			e    model.AuditEvent
			meta []byte
		)
		if err := rows.Scan(
			&e.ID,
			&e.LoanID,
			&e.EventType,
			&e.Title,
			&e.Description,
			&e.Actor,
			&e.Timestamp,
			&meta,
		); err != nil {
			return nil, err
		}
		if err := scanJSON(meta, &e.Metadata); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AuditPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM audit_events WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
