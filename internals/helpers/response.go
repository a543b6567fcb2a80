// file: internals/helpers/response.go

package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate is shared by every controller; validator caches struct metadata.
var Validate = validator.New()

// ValidationError renders validator.ValidationErrors as a 422 field map.
func ValidationError(c *fiber.Ctx, message string, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = append(fields[fieldErr.Field()], fieldErr.Tag())
	}
	return JsonValidationError(c, message, fields)
}
