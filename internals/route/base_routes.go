// file: internals/route/base_routes.go

package routes

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/helpers/docstore"
)

// health check key; never written
const healthCheckKey = "__health__"

func BaseRoutes(app *fiber.App, docs docstore.Store) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Para Sempre API 💕")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		storeStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		var doc map[string]any
		if _, err := docs.Get(ctx, "health", healthCheckKey, &doc); err != nil {
			storeStatus = "Document store error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		uptime := time.Since(startTime).Seconds()

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"docstore":       storeStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(uptime),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
