package system

import (
	"time"

	"go-placement/internal/common/api"
	"go-placement/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthApi struct {
	mongodb *database.MongodbDB
	redis   *database.Redis
}

func NewHealthApi(mongodb *database.MongodbDB, redis *database.Redis) api.Route {
	return &HealthApi{
		mongodb: mongodb,
		redis:   redis,
	}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", h.health)
}

func (h *HealthApi) health(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	mongoStatus := "ok"
	if err := h.mongodb.DB.Client().Ping(c.Context(), readpref.Primary()); err != nil {
		mongoStatus = "unreachable"
		healthy = false
	}
	checks["mongodb"] = mongoStatus

	redisStatus := "ok"
	if err := h.redis.Ping(c.Context()); err != nil {
		// Redis is advisory (scheduler lock); degraded, not down
		redisStatus = "unreachable"
	}
	checks["redis"] = redisStatus

	status := fiber.StatusOK
	state := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
