package model

import "time"

// Document is an uploaded loan document. Version is assigned per loan:
// the first upload is 1 and each later upload is the prior count plus one.
type Document struct {
	ID             string         `json:"id" yaml:"id"`
	LoanID         string         `json:"loan_id" yaml:"loan_id"`
	Filename       string         `json:"filename" yaml:"filename"`
	ContentType    string         `json:"file_type" yaml:"file_type"`
	Size           int64          `json:"file_size" yaml:"file_size"`
	Version        int            `json:"version" yaml:"version"`
	StoragePath    string         `json:"-" yaml:"-"`
	ContentPreview *string        `json:"content_preview" yaml:"content_preview"`
	ExtractedTerms map[string]any `json:"extracted_terms" yaml:"-"`
	UploadedAt     time.Time      `json:"upload_date" yaml:"-"`
}

// Change kinds for a Difference.
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "removed"
	ChangeModified = "modified"
)

// Difference is one field-level change between two document versions.
type Difference struct {
	Field        string   `json:"field"`
	Change       string   `json:"change_type"`
	OldValue     string   `json:"old_value"`
	NewValue     string   `json:"new_value"`
	Significance Severity `json:"significance"`
	Explanation  string   `json:"explanation"`
}

// VersionComparison records the differences between two documents of the same loan.
type VersionComparison struct {
	ID          string       `json:"id"`
	LoanID      string       `json:"loan_id"`
	Doc1ID      string       `json:"doc1_id"`
	Doc2ID      string       `json:"doc2_id"`
	Differences []Difference `json:"differences"`
	ComparedAt  time.Time    `json:"comparison_date"`
}
