package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// RiskPostgres is a PostgreSQL implementation of repository.RiskRepository.
type RiskPostgres struct {
	db DBTX
}

func NewRiskPostgres(db DBTX) *RiskPostgres {
	return &RiskPostgres{db: db}
}

var _ repository.RiskRepository = (*RiskPostgres)(nil)

func (r *RiskPostgres) Create(ctx context.Context, rf *model.RiskFactor) error {
	const q = `
		INSERT INTO risk_factors (id, loan_id, category, severity, title, description, impact,
			recommendation, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, q,
		rf.ID,
		rf.LoanID,
		rf.Category,
		rf.Severity,
		rf.Title,
		rf.Description,
		rf.Impact,
		rf.Recommendation,
		rf.Score,
		rf.CreatedAt,
	)
	return err
}

// ListByLoan returns risks in insertion order, which for a derived set is
// covenants first, then obligations.
func (r *RiskPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.RiskFactor, error) {
	const q = `
		SELECT id, loan_id, category, severity, title, description, impact, recommendation, score, created_at
		FROM risk_factors
		WHERE loan_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.RiskFactor, 0)
	for rows.Next() {
		var rf model.RiskFactor
		if err := rows.Scan(
			&rf.ID,
			&rf.LoanID,
			&rf.Category,
			&rf.Severity,
			&rf.Title,
			&rf.Description,
			&rf.Impact,
			&rf.Recommendation,
			&rf.Score,
			&rf.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RiskPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM risk_factors WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
