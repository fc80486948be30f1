package ticket

import (
	"time"

	"go-placement/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

type TicketController struct {
	TicketService     TicketService
	EscalationService EscalationService
}

func NewTicketController(
	ticketService TicketService,
	escalationService EscalationService,
) *TicketController {
	return &TicketController{
		TicketService:     ticketService,
		EscalationService: escalationService,
	}
}

func respondError(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	payload := fiber.Map{"error": de.Message, "code": de.Code}
	if de.Details != nil {
		payload["details"] = de.Details
	}
	return c.Status(de.HTTPStatus).JSON(payload)
}

// CreateTicket godoc
func (ctrl *TicketController) CreateTicket(c *fiber.Ctx) error {
	var in CreateTicketInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	t, err := ctrl.TicketService.CreateTicket(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Ticket created successfully",
		"ticketId": t.TicketID,
		"ticket":   t,
	})
}

// ListTickets godoc
func (ctrl *TicketController) ListTickets(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		// fall back to the authenticated user
		if id, ok := c.Locals("userID").(string); ok {
			userID = id
		}
	}
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	tickets, err := ctrl.TicketService.ListUserTickets(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":  tickets,
		"total": len(tickets),
	})
}

// GetTicket godoc
func (ctrl *TicketController) GetTicket(c *fiber.Ctx) error {
	t, err := ctrl.TicketService.GetTicket(c.Context(), c.Params("ticketId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": t})
}

// CloseTicket godoc
func (ctrl *TicketController) CloseTicket(c *fiber.Ctx) error {
	var body struct {
		SecretCode string `json:"secretCode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	t, err := ctrl.TicketService.CloseTicket(c.Context(), c.Params("ticketId"), body.SecretCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Ticket closed successfully",
		"ticket":  t,
	})
}

// AppendMessage godoc
func (ctrl *TicketController) AppendMessage(c *fiber.Ctx) error {
	var body struct {
		Sender     string     `json:"sender"`
		SenderRole SenderRole `json:"sender_role"`
		Message    string     `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if body.SenderRole == "" {
		body.SenderRole = SenderRoleUser
	}

	t, err := ctrl.TicketService.AppendMessage(c.Context(), c.Params("ticketId"), body.Sender, body.SenderRole, body.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Message added",
		"ticket":  t,
	})
}

// DeleteTicket godoc
func (ctrl *TicketController) DeleteTicket(c *fiber.Ctx) error {
	if err := ctrl.TicketService.DeleteTicket(c.Context(), c.Params("ticketId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted"})
}

// AssignTicket godoc
func (ctrl *TicketController) AssignTicket(c *fiber.Ctx) error {
	var body struct {
		TicketID string `json:"ticketId"`
	}
	if err := c.BodyParser(&body); err != nil || body.TicketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ticketId is required",
		})
	}

	t, err := ctrl.TicketService.Reassign(c.Context(), body.TicketID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Ticket assigned",
		"ticket":  t,
	})
}

// SetEvaluation godoc
func (ctrl *TicketController) SetEvaluation(c *fiber.Ctx) error {
	var body struct {
		TicketID   string `json:"ticketId"`
		Evaluation bool   `json:"evaluation"`
	}
	if err := c.BodyParser(&body); err != nil || body.TicketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ticketId is required",
		})
	}

	t, err := ctrl.TicketService.SetEvaluation(c.Context(), body.TicketID, body.Evaluation)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Evaluation updated",
		"ticket":  t,
	})
}

// ResolveTicket godoc
func (ctrl *TicketController) ResolveTicket(c *fiber.Ctx) error {
	var body struct {
		TicketID   string `json:"ticketId"`
		SecretCode string `json:"secretCode"`
	}
	if err := c.BodyParser(&body); err != nil || body.TicketID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "ticketId is required",
		})
	}

	t, err := ctrl.TicketService.ResolveByAdmin(c.Context(), body.TicketID, body.SecretCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Ticket resolved",
		"ticket":  t,
	})
}

// RunEscalation godoc
func (ctrl *TicketController) RunEscalation(c *fiber.Ctx) error {
	result, err := ctrl.EscalationService.RunEscalationPass(c.Context(), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Escalation pass complete",
		"result":  result,
	})
}
