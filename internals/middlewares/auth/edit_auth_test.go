package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parasempre_backend/internals/configs"
	helper "parasempre_backend/internals/helpers"
	helperAuth "parasempre_backend/internals/helpers/auth"
)

func newEditApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Put("/api/u/pages/:slug", RequireEditToken(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocEditSlug).(string))
	})
	return app
}

func TestRequireEditToken(t *testing.T) {
	configs.JWTSecret = "mw-secret"
	app := newEditApp()
	now := time.Now()

	valid, _, err := helperAuth.IssueEditToken("mw-secret", "ana__beto_abc123", "code", time.Hour, now)
	require.NoError(t, err)
	expired, _, err := helperAuth.IssueEditToken("mw-secret", "ana__beto_abc123", "code", time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)
	forged, _, err := helperAuth.IssueEditToken("other-secret", "ana__beto_abc123", "code", time.Hour, now)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{"bearer", "/api/u/pages/ana__beto_abc123", "Bearer " + valid, "", fiber.StatusOK},
		{"cookie", "/api/u/pages/ana__beto_abc123", "", valid, fiber.StatusOK},
		{"missing", "/api/u/pages/ana__beto_abc123", "", "", fiber.StatusUnauthorized},
		{"expired", "/api/u/pages/ana__beto_abc123", "Bearer " + expired, "", fiber.StatusUnauthorized},
		{"wrong secret", "/api/u/pages/ana__beto_abc123", "Bearer " + forged, "", fiber.StatusUnauthorized},
		{"other page", "/api/u/pages/someone_else", "Bearer " + valid, "", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPut, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", helper.EditTokenCookie+"="+tt.cookie)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireEditToken_MissingSecret(t *testing.T) {
	configs.JWTSecret = ""
	t.Cleanup(func() { configs.JWTSecret = "mw-secret" })

	req := httptest.NewRequest(fiber.MethodPut, "/api/u/pages/x", nil)
	req.Header.Set("Authorization", "Bearer abc")
	resp, err := newEditApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
