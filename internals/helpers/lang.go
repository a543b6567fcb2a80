// file: internals/helpers/lang.go

package helper

import (
	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/constants"
)

// RequestLang: ?lang= wins over Accept-Language; default pt-BR.
func RequestLang(c *fiber.Ctx) string {
	if v := c.Query("lang"); v != "" {
		return constants.ResolveLang(v)
	}
	return constants.ResolveLang(c.Get(fiber.HeaderAcceptLanguage))
}
