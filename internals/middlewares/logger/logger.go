// file: internals/middlewares/logger/logger.go

package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"parasempre_backend/internals/configs"
)

// LoggerMiddleware writes one access-log line per request
func LoggerMiddleware() fiber.Handler {
	tz := configs.AppTimezone
	if tz == "" {
		tz = "America/Sao_Paulo"
	}
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   tz,
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency} - ${locals:reqid}\n",
	})
}
