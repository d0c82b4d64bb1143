package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// ComparisonPostgres is a PostgreSQL implementation of repository.ComparisonRepository.
type ComparisonPostgres struct {
	db DBTX
}

func NewComparisonPostgres(db DBTX) *ComparisonPostgres {
	return &ComparisonPostgres{db: db}
}

var _ repository.ComparisonRepository = (*ComparisonPostgres)(nil)

func (r *ComparisonPostgres) Create(ctx context.Context, c *model.VersionComparison) error {
	const q = `
		INSERT INTO version_comparisons (id, loan_id, doc1_id, doc2_id, differences, compared_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	diffs := c.Differences
	if diffs == nil {
		diffs = []model.Difference{}
	}
	arg, err := jsonArg(diffs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, c.ID, c.LoanID, c.Doc1ID, c.Doc2ID, arg, c.ComparedAt)
	return err
}

func (r *ComparisonPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error) {
	const q = `
		SELECT id, loan_id, doc1_id, doc2_id, differences, compared_at
		FROM version_comparisons
		WHERE loan_id = $1
		ORDER BY compared_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.VersionComparison, 0)
	for rows.Next() {
		var (
			c     model.VersionComparison
			diffs []byte
		)
		if err := rows.Scan(&c.ID, &c.LoanID, &c.Doc1ID, &c.Doc2ID, &diffs, &c.ComparedAt); err != nil {
			return nil, err
		}
		c.Differences = []model.Difference{}
		if err := scanJSON(diffs, &c.Differences); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ComparisonPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM version_comparisons WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
