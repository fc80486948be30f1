package manager

import (
	"fmt"
	"strconv"

	"go-placement/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

type ManagerController struct {
	Service ManagerService
}

func NewManagerController(service ManagerService) *ManagerController {
	return &ManagerController{Service: service}
}

func respondError(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message, "code": de.Code})
}

// ListQueue godoc
func (ctrl *ManagerController) ListQueue(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	tickets, total, err := ctrl.Service.ListQueue(c.Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":  tickets,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ExportQueue godoc
func (ctrl *ManagerController) ExportQueue(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportQueue(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
