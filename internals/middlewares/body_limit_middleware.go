// file: internals/middlewares/body_limit_middleware.go

package middlewares

import (
	"github.com/gofiber/fiber/v2"

	helper "parasempre_backend/internals/helpers"
)

// MaxBodySize rejects requests whose body exceeds n bytes with 413.
// The app-wide BodyLimit stays sized for photo uploads.
func MaxBodySize(n int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > n || len(c.Body()) > n {
			return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "❌ Corpo da requisição muito grande.")
		}
		return c.Next()
	}
}
