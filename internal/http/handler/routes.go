package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"loanops/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Loans       service.LoanService
	Covenants   service.CovenantService
	Obligations service.ObligationService
	Documents   service.DocumentService
	Risks       service.RiskService
	Comparisons service.ComparisonService
	Audit       service.AuditService
	Dashboard   service.DashboardService
	Demo        service.DemoService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when the in-memory store is used.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/", Banner())

	api.Get("/loans", ListLoans(s.Loans))
	api.Post("/loans", CreateLoan(s.Loans))
	api.Get("/loans/:id", GetLoan(s.Loans))
	api.Put("/loans/:id", UpdateLoan(s.Loans))
	api.Delete("/loans/:id", DeleteLoan(s.Loans))

	api.Post("/demo/load", LoadDemo(s.Demo))

	api.Get("/loans/:id/covenants", ListCovenants(s.Covenants))
	api.Post("/covenants", CreateCovenant(s.Covenants))
	api.Put("/covenants/:id", UpdateCovenant(s.Covenants))

	api.Get("/loans/:id/obligations", ListObligations(s.Obligations))
	api.Post("/obligations", CreateObligation(s.Obligations))
	api.Put("/obligations/:id", UpdateObligation(s.Obligations))

	api.Get("/loans/:id/documents", ListDocuments(s.Documents))
	api.Post("/loans/:id/documents/upload", UploadDocument(s.Documents))
	api.Post("/documents/:id/analyze", AnalyzeDocument(s.Documents))
	api.Get("/documents/:id/download", DownloadDocument(s.Documents))
	api.Delete("/documents/:id", DeleteDocument(s.Documents))

	api.Get("/loans/:id/risks", ListRisks(s.Risks))
	api.Post("/loans/:id/analyze-risks", AnalyzeRisks(s.Risks))

	api.Post("/compare-versions", CompareVersions(s.Comparisons))
	api.Get("/loans/:id/comparisons", ListComparisons(s.Comparisons))

	api.Get("/loans/:id/audit", ListAuditEvents(s.Audit))
	api.Get("/loans/:id/dashboard", GetDashboard(s.Dashboard))
}
