package handler

import (
	"github.com/gofiber/fiber/v2"

	"loanops/internal/service"
)

// ListAuditEvents returns the audit trail of a loan, newest first.
//
// @Summary  Audit trail
// @Tags     audit
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.AuditEvent
// @Router   /api/loans/{id}/audit [get]
func ListAuditEvents(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		events, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"events": events})
	}
}

// GetDashboard
//
// @Summary  Loan dashboard
// @Tags     dashboard
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} service.Dashboard
// @Failure  404 {object} errorPayload
// @Router   /api/loans/{id}/dashboard [get]
func GetDashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}
