package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loanops/internal/audit"
	"loanops/internal/cache"
	"loanops/internal/extraction"
	"loanops/internal/model"
	"loanops/internal/repository"
	"loanops/internal/storage"
)

const (
	// PreviewBytes is how much of an upload is kept as its content preview.
	PreviewBytes = 500

	defaultContentType = "application/octet-stream"
	downloadExpiry     = 15 * time.Minute
	// Enough bytes for MaxInputChars runes of any UTF-8 text.
	maxAnalysisBytes = extraction.MaxInputChars * 4
)

// Extractor turns document text into structured terms. It never fails.
type Extractor interface {
	Extract(ctx context.Context, text, loanID string) extraction.Result
}

// Analysis is the outcome of analyzing one document.
type Analysis struct {
	Message          string           `json:"message"`
	ExtractedTerms   map[string]any   `json:"extracted_terms"`
	CovenantsCreated int              `json:"covenants_created"`
	Covenants        []model.Covenant `json:"-"`
}

// DocumentService defines the use cases for loan documents.
type DocumentService interface {
	ListByLoan(ctx context.Context, loanID string) ([]model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)

	// Upload stores the body in object storage, then records a new version for the loan.
	// The stored object is removed again if the record cannot be saved.
	Upload(ctx context.Context, loanID string, r io.Reader, filename, contentType string, size int64) (*model.Document, error)

	// Analyze runs extraction over the document, stores the extracted terms and
	// creates covenants from the drafts.
	Analyze(ctx context.Context, id string) (*Analysis, error)

	// DownloadURL returns a presigned URL for the stored body.
	DownloadURL(ctx context.Context, id string) (string, error)

	// Delete removes a document from storage, then deletes its record.
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	repos     repository.Repos
	uow       repository.UnitOfWork
	store     storage.Storage
	extractor Extractor
	coord     *Coordinator
	audit     *audit.Recorder
	cache     *cache.DashboardCache
	log       logrus.FieldLogger
}

// NewDocumentService constructs a DocumentService. store may be nil, in which
// case only content previews are kept.
func NewDocumentService(repos repository.Repos, uow repository.UnitOfWork, store storage.Storage, ex Extractor, coord *Coordinator, rec *audit.Recorder, dc *cache.DashboardCache, log logrus.FieldLogger) DocumentService {
	return &documentService{
		repos:     repos,
		uow:       uow,
		store:     store,
		extractor: ex,
		coord:     coord,
		audit:     rec,
		cache:     dc,
		log:       log,
	}
}

func (s *documentService) ListByLoan(ctx context.Context, loanID string) ([]model.Document, error) {
	return s.repos.Documents.ListByLoan(ctx, loanID)
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repos.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, documentLookupErr(err)
	}
	return doc, nil
}

func (s *documentService) Upload(ctx context.Context, loanID string, r io.Reader, filename, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	if _, err := s.repos.Loans.FindByID(ctx, loanID); err != nil {
		return nil, loanLookupErr(err)
	}

	head := make([]byte, PreviewBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	preview := strings.ToValidUTF8(string(head), "")
	body := io.MultiReader(bytes.NewReader(head), r)

	doc := &model.Document{
		ID:             uuid.New().String(),
		LoanID:         loanID,
		Filename:       filename,
		ContentType:    contentType,
		Size:           size,
		ContentPreview: &preview,
	}

	if s.store != nil {
		key := storage.DocumentKey(loanID, doc.ID, filepath.Ext(filename))
		info, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
			Size:        size,
			ContentType: contentType,
			Metadata: map[string]string{
				"original-filename": filename,
				"loan-id":           loanID,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		doc.StoragePath = info.Key
		doc.Size = info.Size
	} else if size < 0 {
		counted, err := io.Copy(io.Discard, body)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		doc.Size = counted
	}

	err = s.uow.WithinTx(ctx, func(r repository.Repos) error {
		if _, err := r.Loans.FindByID(ctx, loanID); err != nil {
			return loanLookupErr(err)
		}
		// Deleted versions are never reused.
		latest, err := r.Documents.MaxVersionByLoan(ctx, loanID)
		if err != nil {
			return fmt.Errorf("latest document version: %w", err)
		}
		doc.Version = latest + 1
		doc.UploadedAt = time.Now().UTC()
		return r.Documents.Create(ctx, doc)
	})
	if err != nil {
		if doc.StoragePath != "" {
			if delErr := s.store.Delete(ctx, doc.StoragePath); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		LoanID:      loanID,
		Type:        model.AuditEventDocumentUpload,
		Title:       "Document Uploaded: " + filename,
		Description: fmt.Sprintf("Version %d uploaded (%d bytes)", doc.Version, doc.Size),
		Metadata:    map[string]any{"document_id": doc.ID, "version": doc.Version},
	})
	invalidateDashboard(ctx, s.cache, s.log, loanID)
	return doc, nil
}

func (s *documentService) Analyze(ctx context.Context, id string) (*Analysis, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	text := documentText(ctx, s.store, s.log, doc)
	if strings.TrimSpace(text) == "" {
		return &Analysis{Message: "No content to analyze", ExtractedTerms: map[string]any{}}, nil
	}

	result := s.extractor.Extract(ctx, text, doc.LoanID)
	terms := result.Terms()

	now := time.Now().UTC()
	created := make([]model.Covenant, 0, len(result.Covenants))
	for _, d := range result.Covenants {
		c := d.ToCovenant(doc.LoanID)
		c.ID = uuid.New().String()
		c.CreatedAt = now
		c.UpdatedAt = now
		created = append(created, c)
	}

	_, err = s.coord.Apply(ctx, Pass{
		LoanID:  doc.LoanID,
		Trigger: TriggerDocumentAnalysis,
		Mutate: func(r repository.Repos) error {
			if err := r.Documents.UpdateExtractedTerms(ctx, doc.ID, terms); err != nil {
				return documentLookupErr(err)
			}
			for i := range created {
				if err := r.Covenants.Create(ctx, &created[i]); err != nil {
					return fmt.Errorf("create covenant: %w", err)
				}
			}
			return nil
		},
		Events: func(Outcome) []audit.Entry {
			var entries []audit.Entry
			if len(created) > 0 {
				entries = append(entries, audit.Entry{
					LoanID:      doc.LoanID,
					Type:        model.AuditEventCovenantExtracted,
					Title:       fmt.Sprintf("%d Covenants Identified", len(created)),
					Description: fmt.Sprintf("AI analysis extracted %d covenants from %s", len(created), doc.Filename),
				})
			}
			return append(entries, audit.Entry{
				LoanID:      doc.LoanID,
				Type:        model.AuditEventAnalysisComplete,
				Title:       "AI Analysis Complete",
				Description: fmt.Sprintf("Extracted %d covenants from %s", len(created), doc.Filename),
				Metadata:    map[string]any{"document_id": doc.ID},
			})
		},
	})
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Message:          "Analysis complete",
		ExtractedTerms:   terms,
		CovenantsCreated: len(created),
		Covenants:        created,
	}, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.store == nil || doc.StoragePath == "" {
		return "", ErrStorageDisabled
	}
	return s.store.PresignGet(ctx, doc.StoragePath, doc.Filename, downloadExpiry)
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Storage first; if this fails the record is kept so the object is not orphaned.
	if s.store != nil && doc.StoragePath != "" {
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.repos.Documents.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		LoanID:      doc.LoanID,
		Type:        model.AuditEventDocumentDeleted,
		Title:       "Document Deleted: " + doc.Filename,
		Description: fmt.Sprintf("Version %d removed", doc.Version),
		Metadata:    map[string]any{"document_id": doc.ID},
	})
	invalidateDashboard(ctx, s.cache, s.log, doc.LoanID)
	return nil
}

func documentLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrDocumentNotFound
	}
	return fmt.Errorf("find document: %w", err)
}

// documentText returns the stored body when it can be read, else the preview.
func documentText(ctx context.Context, store storage.Storage, log logrus.FieldLogger, doc *model.Document) string {
	if store != nil && doc.StoragePath != "" {
		text, err := readBody(ctx, store, doc.StoragePath)
		if err == nil {
			return text
		}
		log.WithFields(logrus.Fields{
			"component":   "document",
			"event":       "document_read_failed",
			"document_id": doc.ID,
		}).WithError(err).Warn("falling back to content preview")
	}
	if doc.ContentPreview != nil {
		return *doc.ContentPreview
	}
	return ""
}

func readBody(ctx context.Context, store storage.Storage, key string) (string, error) {
	rc, _, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxAnalysisBytes))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), ""), nil
}
