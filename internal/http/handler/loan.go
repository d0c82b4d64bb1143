package handler

import (
	"github.com/gofiber/fiber/v2"

	"loanops/internal/model"
	"loanops/internal/service"
)

// ListLoans returns all loans, optionally filtered by ?status=.
//
// @Summary  List loans
// @Tags     loans
// @Produce  json
// @Param    status query string false "active, closed or defaulted"
// @Success  200 {object} map[string][]model.Loan
// @Failure  400 {object} errorPayload
// @Router   /api/loans [get]
func ListLoans(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := model.LoanStatus(c.Query("status"))
		switch status {
		case "", model.LoanStatusActive, model.LoanStatusClosed, model.LoanStatusDefaulted:
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status filter")
		}

		loans, err := svc.List(c.UserContext(), status)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"loans": loans})
	}
}

// CreateLoan
//
// @Summary  Create a loan
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    body body model.LoanCreate true "loan"
// @Success  201 {object} model.Loan
// @Failure  422 {object} errorPayload
// @Router   /api/loans [post]
func CreateLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.LoanCreate
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
		l, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// GetLoan
//
// @Summary  Get a loan
// @Tags     loans
// @Produce  json
// @Param    id path string true "loan id"
// @Success  200 {object} model.Loan
// @Failure  404 {object} errorPayload
// @Router   /api/loans/{id} [get]
func GetLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

// UpdateLoan applies a partial update. Health fields in the body are ignored.
//
// @Summary  Update a loan
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    id   path string           true "loan id"
// @Param    body body model.LoanUpdate true "fields to change"
// @Success  200 {object} model.Loan
// @Failure  404 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /api/loans/{id} [put]
func UpdateLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u model.LoanUpdate
		if ok, err := bindJSON(c, &u); !ok {
			return err
		}
		l, err := svc.Update(c.UserContext(), c.Params("id"), u)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

// DeleteLoan removes the loan with everything recorded against it.
//
// @Summary  Delete a loan
// @Tags     loans
// @Param    id path string true "loan id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /api/loans/{id} [delete]
func DeleteLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LoadDemo
//
// @Summary  Load the demo loan
// @Tags     demo
// @Produce  json
// @Success  200 {object} map[string]any
// @Router   /api/demo/load [post]
func LoadDemo(svc service.DemoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Load(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":            "Demo data loaded successfully",
			"loan_id":            res.LoanID,
			"covenants_count":    res.CovenantsCount,
			"obligations_count":  res.ObligationsCount,
			"risk_factors_count": res.RiskFactorsCount,
		})
	}
}
