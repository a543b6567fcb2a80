// file: internals/helpers/dbtime/time_helper.go

package dbtime

import (
	"strings"
	"time"

	"parasempre_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
)

const (
	LocRequestLoc    = "request_loc" // *time.Location
	HeaderTimezone   = "X-Timezone"
	QueryTimezone    = "tz"
	fallbackTimezone = "America/Sao_Paulo"
)

// GetRequestLocation resolves the visitor timezone:
// 1) c.Locals("request_loc") if already resolved
// 2) ?tz= query or X-Timezone header (IANA name, e.g. "America/Sao_Paulo")
// 3) APP_TIMEZONE
// 4) time.UTC
func GetRequestLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return appLocation()
	}

	if v := c.Locals(LocRequestLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}

	for _, s := range []string{c.Query(QueryTimezone), c.Get(HeaderTimezone)} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if loc, err := time.LoadLocation(s); err == nil {
			c.Locals(LocRequestLoc, loc)
			return loc
		}
	}

	loc := appLocation()
	c.Locals(LocRequestLoc, loc)
	return loc
}

func appLocation() *time.Location {
	name := strings.TrimSpace(configs.AppTimezone)
	if name == "" {
		name = fallbackTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// NowIn returns "now" in the visitor's timezone.
func NowIn(c *fiber.Ctx) time.Time {
	return time.Now().In(GetRequestLocation(c))
}
