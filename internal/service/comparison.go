package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loanops/internal/audit"
	"loanops/internal/comparison"
	"loanops/internal/model"
	"loanops/internal/repository"
	"loanops/internal/storage"
)

// ComparisonResult is a stored comparison with the two documents it covers.
type ComparisonResult struct {
	Comparison model.VersionComparison
	Doc1       model.Document
	Doc2       model.Document
}

// ComparisonService defines the use cases for document version comparisons.
type ComparisonService interface {
	// Compare diffs doc1 (older) against doc2 (newer). Both must belong to loanID.
	Compare(ctx context.Context, loanID, doc1ID, doc2ID string) (*ComparisonResult, error)
	ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error)
}

type comparisonService struct {
	repos repository.Repos
	store storage.Storage
	audit *audit.Recorder
	log   logrus.FieldLogger
}

// NewComparisonService constructs a ComparisonService. Without store, documents
// are compared by their content previews.
func NewComparisonService(repos repository.Repos, store storage.Storage, rec *audit.Recorder, log logrus.FieldLogger) ComparisonService {
	return &comparisonService{repos: repos, store: store, audit: rec, log: log}
}

func (s *comparisonService) ListByLoan(ctx context.Context, loanID string) ([]model.VersionComparison, error) {
	return s.repos.Comparisons.ListByLoan(ctx, loanID)
}

func (s *comparisonService) Compare(ctx context.Context, loanID, doc1ID, doc2ID string) (*ComparisonResult, error) {
	if loanID == "" || doc1ID == "" || doc2ID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.repos.Loans.FindByID(ctx, loanID); err != nil {
		return nil, loanLookupErr(err)
	}
	d1, err := s.loanDocument(ctx, loanID, doc1ID)
	if err != nil {
		return nil, err
	}
	d2, err := s.loanDocument(ctx, loanID, doc2ID)
	if err != nil {
		return nil, err
	}

	vc := model.VersionComparison{
		ID:          uuid.New().String(),
		LoanID:      loanID,
		Doc1ID:      d1.ID,
		Doc2ID:      d2.ID,
		Differences: comparison.Compare(
			documentText(ctx, s.store, s.log, d1),
			documentText(ctx, s.store, s.log, d2),
			d1.ExtractedTerms, d2.ExtractedTerms,
		),
		ComparedAt:  time.Now().UTC(),
	}
	if err := s.repos.Comparisons.Create(ctx, &vc); err != nil {
		return nil, fmt.Errorf("create comparison: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		LoanID:      loanID,
		Type:        model.AuditEventComparisonComplete,
		Title:       "Version Comparison Complete",
		Description: fmt.Sprintf("Compared %s with %s: %d differences found", d1.Filename, d2.Filename, len(vc.Differences)),
		Metadata:    map[string]any{"comparison_id": vc.ID},
	})
	return &ComparisonResult{Comparison: vc, Doc1: *d1, Doc2: *d2}, nil
}

// loanDocument treats a document of another loan as absent.
func (s *comparisonService) loanDocument(ctx context.Context, loanID, id string) (*model.Document, error) {
	d, err := s.repos.Documents.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && d.LoanID != loanID) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return d, nil
}
