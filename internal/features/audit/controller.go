package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// GetRecordHistory godoc
func (ctrl *AuditController) GetRecordHistory(c *fiber.Ctx) error {
	module := c.Query("module")
	recordID := c.Query("record_id")
	if module == "" || recordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "module and record_id are required",
		})
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	logs, err := ctrl.Service.GetRecordHistory(c.UserContext(), module, recordID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load audit history",
		})
	}

	return c.JSON(fiber.Map{"data": logs})
}
