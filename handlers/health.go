package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/utils/cache"
	"github.com/sahilchouksey/study-planner/utils/response"
)

// HandleCheckHealth reports whether the database is reachable. Redis is
// optional, so a Redis failure degrades the status instead of failing it.
func HandleCheckHealth(store database.Storage, redisCache *cache.RedisCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable", "SERVICE_UNAVAILABLE")
		}

		status, redisStatus := "ok", "disabled"
		if redisCache != nil {
			redisStatus = "ok"
			if err := redisCache.Ping(c.UserContext()); err != nil {
				status, redisStatus = "degraded", "unavailable"
			}
		}
		return c.JSON(fiber.Map{"status": status, "database": "ok", "redis": redisStatus})
	}
}
