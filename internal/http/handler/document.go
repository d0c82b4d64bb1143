package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loanops/internal/service"
)

// ListDocuments
//
// @Summary  List documents of a loan
// @Tags     documents
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.Document
// @Router   /api/loans/{id}/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"documents": docs})
	}
}

// UploadDocument stores a new version for the loan (multipart/form-data, field name: file).
//
// @Summary  Upload a document version
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    id   path     string true "loan id"
// @Param    file formData file   true "document"
// @Success  201 {object} map[string]any
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/loans/{id}/documents/upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), c.Params("id"), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"document": doc,
			"message":  "Document uploaded successfully",
		})
	}
}

// AnalyzeDocument extracts terms and covenants from a stored document.
//
// @Summary  Analyze a document
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} service.Analysis
// @Failure  404 {object} errorPayload
// @Router   /api/documents/{id}/analyze [post]
func AnalyzeDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Analyze(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadDocument returns a short-lived URL for the stored body.
//
// @Summary  Presigned download URL
// @Tags     documents
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} map[string]string
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.DownloadURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// DeleteDocument
//
// @Summary  Delete a document version
// @Tags     documents
// @Param    id path string true "document id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type compareRequest struct {
	LoanID string `json:"loan_id" validate:"required"`
	Doc1ID string `json:"doc1_id" validate:"required"`
	Doc2ID string `json:"doc2_id" validate:"required"`
}

type comparedDocument struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Version  int    `json:"version"`
}

// CompareVersions diffs two documents of the same loan and stores the result.
//
// @Summary  Compare two document versions
// @Tags     comparisons
// @Accept   json
// @Produce  json
// @Param    body body compareRequest true "documents to compare"
// @Success  200 {object} map[string]any
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /api/compare-versions [post]
func CompareVersions(svc service.ComparisonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in compareRequest
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
		res, err := svc.Compare(c.UserContext(), in.LoanID, in.Doc1ID, in.Doc2ID)
		if err != nil {
			if errors.Is(err, service.ErrDocumentNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "One or both documents not found")
			}
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"comparison_id": res.Comparison.ID,
			"differences":   res.Comparison.Differences,
			"doc1":          comparedDocument{ID: res.Doc1.ID, Filename: res.Doc1.Filename, Version: res.Doc1.Version},
			"doc2":          comparedDocument{ID: res.Doc2.ID, Filename: res.Doc2.Filename, Version: res.Doc2.Version},
		})
	}
}

// ListComparisons
//
// @Summary  List stored comparisons of a loan
// @Tags     comparisons
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.VersionComparison
// @Router   /api/loans/{id}/comparisons [get]
func ListComparisons(svc service.ComparisonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"comparisons": items})
	}
}
