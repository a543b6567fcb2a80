// file: internals/helpers/token.go

package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Raw edit token kept in Locals by the edit-auth middleware.
const LocRawToken = "raw_token"

const EditTokenCookie = "edit_token"

// GetRawAccessToken returns the edit token from:
// 1) Locals("raw_token") set by middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "edit_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies(EditTokenCookie))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
