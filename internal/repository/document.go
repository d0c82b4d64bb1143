package repository

import (
	"context"

	"loanops/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record. Version must already be assigned;
	// (loan_id, version) is unique.
	Create(ctx context.Context, doc *model.Document) error

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByLoan returns a loan's documents ordered by version.
	ListByLoan(ctx context.Context, loanID string) ([]model.Document, error)

	// CountByLoan returns how many documents a loan has.
	CountByLoan(ctx context.Context, loanID string) (int, error)

	// MaxVersionByLoan returns the highest version a loan has used, or 0 when it has none.
	MaxVersionByLoan(ctx context.Context, loanID string) (int, error)

	// UpdateExtractedTerms replaces the extracted terms of a document.
	UpdateExtractedTerms(ctx context.Context, id string, terms map[string]any) error

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// DeleteByLoan removes every document record of a loan.
	DeleteByLoan(ctx context.Context, loanID string) error
}
