package postgres

import (
	"context"
	"time"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// LoanPostgres is a PostgreSQL implementation of repository.LoanRepository.
type LoanPostgres struct {
	db DBTX
}

func NewLoanPostgres(db DBTX) *LoanPostgres {
	return &LoanPostgres{db: db}
}

var _ repository.LoanRepository = (*LoanPostgres)(nil)

const loanColumns = `id, name, borrower, facility_amount, currency, margin, maturity_date, agent_bank,
	syndicate_members, loan_type, status, health_score, health_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(s rowScanner) (*model.Loan, error) {
	var (
		l         model.Loan
		syndicate []byte
	)
	if err := s.Scan(
		&l.ID,
		&l.Name,
		&l.Borrower,
		&l.FacilityAmount,
		&l.Currency,
		&l.Margin,
		&l.MaturityDate,
		&l.AgentBank,
		&syndicate,
		&l.LoanType,
		&l.Status,
		&l.HealthScore,
		&l.HealthTier,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.SyndicateMembers = []string{}
	if err := scanJSON(syndicate, &l.SyndicateMembers); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanPostgres) Create(ctx context.Context, l *model.Loan) error {
	const q = `
		INSERT INTO loans (id, name, borrower, facility_amount, currency, margin, maturity_date, agent_bank,
			syndicate_members, loan_type, status, health_score, health_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	members := l.SyndicateMembers
	if members == nil {
		members = []string{}
	}
	syndicate, err := jsonArg(members)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		l.ID,
		l.Name,
		l.Borrower,
		l.FacilityAmount,
		l.Currency,
		l.Margin,
		l.MaturityDate,
		l.AgentBank,
		syndicate,
		l.LoanType,
		l.Status,
		l.HealthScore,
		l.HealthTier,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *LoanPostgres) FindByID(ctx context.Context, id string) (*model.Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	l, err := scanLoan(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *LoanPostgres) List(ctx context.Context, status model.LoanStatus) ([]model.Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LoanPostgres) Update(ctx context.Context, l *model.Loan) error {
	const q = `
		UPDATE loans SET name = $2, borrower = $3, facility_amount = $4, currency = $5, margin = $6,
			maturity_date = $7, agent_bank = $8, syndicate_members = $9, loan_type = $10, status = $11,
			updated_at = $12
		WHERE id = $1
	`
	members := l.SyndicateMembers
	if members == nil {
		members = []string{}
	}
	syndicate, err := jsonArg(members)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q,
		l.ID,
		l.Name,
		l.Borrower,
		l.FacilityAmount,
		l.Currency,
		l.Margin,
		l.MaturityDate,
		l.AgentBank,
		syndicate,
		l.LoanType,
		l.Status,
		l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LoanPostgres) UpdateHealth(ctx context.Context, id string, score int, tier model.HealthTier, at time.Time) error {
	const q = `UPDATE loans SET health_score = $2, health_status = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, score, tier, at)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a loan row. Children are removed by the caller in the same transaction.
func (r *LoanPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM loans WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
