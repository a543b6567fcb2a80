// file: internals/middlewares/rate_limiter_middleware.go

package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "parasempre_backend/internals/helpers"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: every regular endpoint
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(120, 1*time.Minute, "❌ Muitas requisições. Tente novamente em instantes.")
}

// Creating pages and charges (stricter)
func CreateRateLimiter() fiber.Handler {
	return ipLimiter(10, 1*time.Minute, "❌ Muitas tentativas. Aguarde um minuto.")
}

// Edit-session login: protects the 8-char edit code from brute force
func EditSessionRateLimiter() fiber.Handler {
	return ipLimiter(5, 5*time.Minute, "❌ Muitas tentativas de acesso. Tente novamente em alguns minutos.")
}
