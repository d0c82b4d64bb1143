package handler

import (
	"github.com/gofiber/fiber/v2"

	"loanops/internal/model"
	"loanops/internal/service"
)

// ListCovenants
//
// @Summary  List covenants of a loan
// @Tags     covenants
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.Covenant
// @Router   /api/loans/{id}/covenants [get]
func ListCovenants(svc service.CovenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"covenants": items})
	}
}

// CreateCovenant
//
// @Summary  Add a covenant
// @Tags     covenants
// @Accept   json
// @Produce  json
// @Param    body body model.CovenantCreate true "covenant"
// @Success  201 {object} model.Covenant
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /api/covenants [post]
func CreateCovenant(svc service.CovenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.CovenantCreate
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
		cv, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cv)
	}
}

// UpdateCovenant
//
// @Summary  Update a covenant
// @Tags     covenants
// @Accept   json
// @Produce  json
// @Param    id   path string               true "covenant id"
// @Param    body body model.CovenantUpdate true "fields to change"
// @Success  200 {object} model.Covenant
// @Failure  404 {object} errorPayload
// @Router   /api/covenants/{id} [put]
func UpdateCovenant(svc service.CovenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u model.CovenantUpdate
		if ok, err := bindJSON(c, &u); !ok {
			return err
		}
		cv, err := svc.Update(c.UserContext(), c.Params("id"), u)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cv)
	}
}

// ListObligations
//
// @Summary  List obligations of a loan
// @Tags     obligations
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.Obligation
// @Router   /api/loans/{id}/obligations [get]
func ListObligations(svc service.ObligationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"obligations": items})
	}
}

// CreateObligation
//
// @Summary  Add an obligation
// @Tags     obligations
// @Accept   json
// @Produce  json
// @Param    body body model.ObligationCreate true "obligation"
// @Success  201 {object} model.Obligation
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /api/obligations [post]
func CreateObligation(svc service.ObligationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.ObligationCreate
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
		o, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// UpdateObligation
//
// @Summary  Update an obligation
// @Tags     obligations
// @Accept   json
// @Produce  json
// @Param    id   path string                 true "obligation id"
// @Param    body body model.ObligationUpdate true "fields to change"
// @Success  200 {object} model.Obligation
// @Failure  404 {object} errorPayload
// @Router   /api/obligations/{id} [put]
func UpdateObligation(svc service.ObligationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u model.ObligationUpdate
		if ok, err := bindJSON(c, &u); !ok {
			return err
		}
		o, err := svc.Update(c.UserContext(), c.Params("id"), u)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// ListRisks
//
// @Summary  List risk factors of a loan
// @Tags     risks
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string][]model.RiskFactor
// @Router   /api/loans/{id}/risks [get]
func ListRisks(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByLoan(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"risk_factors": items})
	}
}

// AnalyzeRisks regenerates the risk factors of a loan and rescores it.
//
// @Summary  Run risk analysis
// @Tags     risks
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} map[string]any
// @Failure  404 {object} errorPayload
// @Router   /api/loans/{id}/analyze-risks [post]
func AnalyzeRisks(svc service.RiskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Analyze(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":            "Risk analysis complete",
			"risks_identified":   res.RisksIdentified,
			"loan_health_score":  res.Health.Score,
			"loan_health_status": res.Health.Tier,
		})
	}
}
