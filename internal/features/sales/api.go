package sales

import (
	"go-placement/internal/common/api"
	"go-placement/internal/config"
	"go-placement/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SalesApi struct {
	controller *SalesController
	config     *config.Config
}

func NewSalesApi(controller *SalesController, config *config.Config) api.Route {
	return &SalesApi{
		controller: controller,
		config:     config,
	}
}

func (h *SalesApi) Setup(app *fiber.App) {
	group := app.Group("/api/sales/reps",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole("admin", "manager"))

	group.Post("/", h.controller.CreateRep)
	group.Get("/", h.controller.ListReps)
	group.Get("/:salesId", h.controller.GetRep)
}
