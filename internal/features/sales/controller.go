package sales

import (
	"go-placement/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

type SalesController struct {
	Service SalesService
}

func NewSalesController(service SalesService) *SalesController {
	return &SalesController{Service: service}
}

func respondError(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	payload := fiber.Map{"error": de.Message, "code": de.Code}
	if de.Details != nil {
		payload["details"] = de.Details
	}
	return c.Status(de.HTTPStatus).JSON(payload)
}

// CreateRep godoc
func (ctrl *SalesController) CreateRep(c *fiber.Ctx) error {
	var in CreateRepInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rep, err := ctrl.Service.CreateRep(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Sales rep created",
		"data":    rep,
	})
}

// ListReps godoc
func (ctrl *SalesController) ListReps(c *fiber.Ctx) error {
	reps, err := ctrl.Service.ListReps(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": reps, "total": len(reps)})
}

// GetRep godoc
func (ctrl *SalesController) GetRep(c *fiber.Ctx) error {
	rep, err := ctrl.Service.GetRep(c.Context(), c.Params("salesId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": rep})
}
