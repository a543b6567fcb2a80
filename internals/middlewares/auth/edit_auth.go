// file: internals/middlewares/auth/edit_auth.go

package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/configs"
	helper "parasempre_backend/internals/helpers"
	helperAuth "parasempre_backend/internals/helpers/auth"
)

const LocEditSlug = "edit_slug"

// RequireEditToken accepts only an edit token issued for the :slug in the path.
func RequireEditToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}
		raw = strings.Trim(raw, "\"'")

		secret := configs.JWTSecret
		if secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims, err := helperAuth.ParseEditToken(secret, raw)
		if err != nil {
			log.Println("[ERROR] edit token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
		}

		slug := strings.TrimSpace(c.Params("slug"))
		if slug == "" || slug != claims.Slug {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden - Token is not valid for this page")
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(LocEditSlug, claims.Slug)
		return c.Next()
	}
}
