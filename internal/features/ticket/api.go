package ticket

import (
	"go-placement/internal/common/api"
	"go-placement/internal/config"
	"go-placement/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TicketApi struct {
	controller *TicketController
	config     *config.Config
}

func NewTicketApi(controller *TicketController, config *config.Config) api.Route {
	return &TicketApi{
		controller: controller,
		config:     config,
	}
}

func (h *TicketApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	// Submitter-facing surface
	support := app.Group("/api/support/tickets", auth)
	support.Post("/", h.controller.CreateTicket)
	support.Get("/", h.controller.ListTickets)
	support.Get("/:ticketId", h.controller.GetTicket)
	support.Patch("/:ticketId/close", h.controller.CloseTicket)
	support.Post("/:ticketId/messages", h.controller.AppendMessage)
	support.Delete("/:ticketId", middleware.RequireRole("admin"), h.controller.DeleteTicket)

	// Internal sales/admin surface
	sales := app.Group("/api/sales/tickets", auth, middleware.RequireRole("admin", "sales"))
	sales.Post("/assign", h.controller.AssignTicket)
	sales.Patch("/evaluation", h.controller.SetEvaluation)
	sales.Patch("/resolve", h.controller.ResolveTicket)
	sales.Post("/escalate", h.controller.RunEscalation)
}
