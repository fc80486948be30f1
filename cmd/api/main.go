package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-placement/internal/common/api"
	"go-placement/internal/config"
	"go-placement/internal/database"
	"go-placement/internal/features/audit"
	"go-placement/internal/features/email"
	"go-placement/internal/features/manager"
	"go-placement/internal/features/notification"
	"go-placement/internal/features/sales"
	"go-placement/internal/features/system"
	"go-placement/internal/features/ticket"
	"go-placement/internal/logger"
	"go-placement/internal/middleware"
	"go-placement/internal/scheduler"
	"go-placement/pkg/apperrors"
	"go-placement/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if de, ok := err.(*apperrors.DomainError); ok {
				return c.Status(de.HTTPStatus).JSON(fiber.Map{
					"error": de.Message,
					"code":  de.Code,
				})
			}
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartScheduler wires the escalation scheduler into the app lifecycle.
func StartScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, ticketRepo ticket.TicketRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := ticketRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure ticket indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,
			database.NewRedis,

			// Initialize Repository
			ticket.NewTicketRepository,
			ticket.NewManagerTicketRepository,
			sales.NewSalesRepository,
			audit.NewAuditRepository,
			email.NewEmailRepository,
			notification.NewNotificationRepository,

			// Initialize Service
			audit.NewAuditService,
			email.NewEmailService,
			notification.NewHub,
			notification.NewNotificationService,
			sales.NewWorkloadPolicy,
			sales.NewSalesService,
			ticket.NewTicketNotifier,
			ticket.NewAssignmentService,
			ticket.NewTicketService,
			ticket.NewEscalationService,
			manager.NewManagerService,
			scheduler.NewScheduler,

			// Initialize Controller
			ticket.NewTicketController,
			sales.NewSalesController,
			manager.NewManagerController,
			notification.NewNotificationController,
			audit.NewAuditController,

			// Initialize Api Routes
			AsRoute(ticket.NewTicketApi),
			AsRoute(sales.NewSalesApi),
			AsRoute(manager.NewManagerApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewHealthApi),
		),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			StartServer,
			StartScheduler,
		),
	)

	app.Run()
}
