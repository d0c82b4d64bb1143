package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// CovenantPostgres is a PostgreSQL implementation of repository.CovenantRepository.
type CovenantPostgres struct {
	db DBTX
}

func NewCovenantPostgres(db DBTX) *CovenantPostgres {
	return &CovenantPostgres{db: db}
}

var _ repository.CovenantRepository = (*CovenantPostgres)(nil)

const covenantColumns = `id, loan_id, type, name, description, threshold, current_value, status, risk_level,
	due_date, explanation, created_at, updated_at`

func scanCovenant(s rowScanner) (*model.Covenant, error) {
	var c model.Covenant
	if err := s.Scan(
		&c.ID,
		&c.LoanID,
		&c.Type,
		&c.Name,
		&c.Description,
		&c.Threshold,
		&c.CurrentValue,
		&c.Status,
		&c.RiskLevel,
		&c.DueDate,
		&c.Explanation,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CovenantPostgres) Create(ctx context.Context, c *model.Covenant) error {
	const q = `
		INSERT INTO covenants (id, loan_id, type, name, description, threshold, current_value, status,
			risk_level, due_date, explanation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.LoanID,
		c.Type,
		c.Name,
		c.Description,
		c.Threshold,
		c.CurrentValue,
		c.Status,
		c.RiskLevel,
		c.DueDate,
		c.Explanation,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CovenantPostgres) FindByID(ctx context.Context, id string) (*model.Covenant, error) {
	q := `SELECT ` + covenantColumns + ` FROM covenants WHERE id = $1`
	c, err := scanCovenant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *CovenantPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.Covenant, error) {
	q := `SELECT ` + covenantColumns + ` FROM covenants WHERE loan_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Covenant, 0)
	for rows.Next() {
		c, err := scanCovenant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CovenantPostgres) Update(ctx context.Context, c *model.Covenant) error {
	const q = `
		UPDATE covenants SET type = $2, name = $3, description = $4, threshold = $5, current_value = $6,
			status = $7, risk_level = $8, due_date = $9, explanation = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.Type,
		c.Name,
		c.Description,
		c.Threshold,
		c.CurrentValue,
		c.Status,
		c.RiskLevel,
		c.DueDate,
		c.Explanation,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CovenantPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM covenants WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
