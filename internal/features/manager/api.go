package manager

import (
	"go-placement/internal/common/api"
	"go-placement/internal/config"
	"go-placement/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ManagerApi struct {
	controller *ManagerController
	config     *config.Config
}

func NewManagerApi(controller *ManagerController, config *config.Config) api.Route {
	return &ManagerApi{
		controller: controller,
		config:     config,
	}
}

func (h *ManagerApi) Setup(app *fiber.App) {
	group := app.Group("/api/manager/tickets",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole("admin", "manager"))

	group.Get("/", h.controller.ListQueue)
	group.Get("/export", h.controller.ExportQueue)
}
