package postgres

import (
	"context"

	"loanops/internal/model"
	"loanops/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db DBTX
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db DBTX) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, loan_id, filename, content_type, size, version, storage_path, content_preview,
	extracted_terms, uploaded_at`

func scanDocument(s rowScanner) (*model.Document, error) {
	var (
		d     model.Document
		terms []byte
	)
	if err := s.Scan(
		&d.ID,
		&d.LoanID,
		&d.Filename,
		&d.ContentType,
		&d.Size,
		&d.Version,
		&d.StoragePath,
		&d.ContentPreview,
		&terms,
		&d.UploadedAt,
	); err != nil {
		return nil, err
	}
	if err := scanJSON(terms, &d.ExtractedTerms); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row. A concurrent upload that computed the same
// version fails on the (loan_id, version) unique constraint.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) error {
	const q = `
		INSERT INTO documents (id, loan_id, filename, content_type, size, version, storage_path,
			content_preview, extracted_terms, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	terms, err := jsonArg(doc.ExtractedTerms)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		doc.ID,
		doc.LoanID,
		doc.Filename,
		doc.ContentType,
		doc.Size,
		doc.Version,
		doc.StoragePath,
		doc.ContentPreview,
		terms,
		doc.UploadedAt,
	)
	return err
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (r *DocumentPostgres) ListByLoan(ctx context.Context, loanID string) ([]model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE loan_id = $1 ORDER BY version`
	rows, err := r.db.QueryContext(ctx, q, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DocumentPostgres) CountByLoan(ctx context.Context, loanID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE loan_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, q, loanID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *DocumentPostgres) MaxVersionByLoan(ctx context.Context, loanID string) (int, error) {
	const q = `SELECT COALESCE(MAX(version), 0) FROM documents WHERE loan_id = $1`
	var v int
	if err := r.db.QueryRowContext(ctx, q, loanID).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func (r *DocumentPostgres) UpdateExtractedTerms(ctx context.Context, id string, terms map[string]any) error {
	const q = `UPDATE documents SET extracted_terms = $2 WHERE id = $1`
	arg, err := jsonArg(terms)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, id, arg)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *DocumentPostgres) DeleteByLoan(ctx context.Context, loanID string) error {
	const q = `DELETE FROM documents WHERE loan_id = $1`
	_, err := r.db.ExecContext(ctx, q, loanID)
	return err
}
