package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// ObligationPostgres is a PostgreSQL implementation of repository.ObligationRepository.
type ObligationPostgres struct {
	db DBTX
}

func NewObligationPostgres(db DBTX) *ObligationPostgres {
	return &ObligationPostgres{db: db}
}

var _ repository.ObligationRepository = (*ObligationPostgres)(nil)

const obligationColumns = `id, loan_id, type, name, description, frequency, due_date, status, submitted_date,
	created_at, updated_at`

func scanObligation(s rowScanner) (*model.Obligation, error) {
	var o model.Obligation
	if err := s.Scan(
		&o.ID,
		&o.LoanID,
		&o.Type,
		&o.Name,
		&o.Description,
		&o.Frequency,
		&o.DueDate,
		&o.Status,
		&o.SubmittedDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ObligationPostgres) Create(ctx context.Context, o *model.Obligation) error {
	const q = `
		INSERT INTO obligations (id, loan_id, type, name, description, frequency, due_date, status,
			submitted_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.LoanID,
		o.Type,
		o.Name,
		o.Description,
		o.Frequency,
		o.DueDate,
		o.Status,
		o.SubmittedDate,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *ObligationPostgres) FindByID(ctx context.Context, id string) (*model.Obligation, error) {
	q := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1`
	o, err := scanObligation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *ObligationPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.Obligation, error) {
	q := `SELECT ` + obligationColumns + ` FROM obligations WHERE loan_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Obligation, 0)
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ObligationPostgres) Update(ctx context.Context, o *model.Obligation) error {
	const q = `
		UPDATE obligations SET type = $2, name = $3, description = $4, frequency = $5, due_date = $6,
			status = $7, submitted_date = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.Type,
		o.Name,
		o.Description,
		o.Frequency,
		o.DueDate,
		o.Status,
		o.SubmittedDate,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ObligationPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM obligations WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
