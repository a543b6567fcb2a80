package routes

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parasempre_backend/internals/features/pages/drafts"
	pageService "parasempre_backend/internals/features/pages/service"
	paymentService "parasempre_backend/internals/features/payment/charges/service"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/docstore"
	helperOSS "parasempre_backend/internals/helpers/oss"
)

func newTestApp() *fiber.App {
	docs := docstore.NewMemoryStore()
	flow := paymentService.NewFlow(nil, paymentService.NewCouponBook("DEVTEST"), paymentService.FlowConfig{SimulatedDelay: time.Millisecond})
	pages := pageService.NewManager(docs, helperOSS.NewMemoryBlobService("https://cdn.test"), flow, true, "https://parasempre.app")

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	SetupRoutes(app, Deps{
		Docs:     docs,
		Pages:    pages,
		Sessions: pageService.NewEditSessions(docs, "secret", nil),
		Drafts:   drafts.NewDocStore(docs, time.Hour),
		Payments: flow,
	})
	return app
}

func TestSetupRoutes_Mounted(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{fiber.MethodGet, "/health", fiber.StatusOK},
		{fiber.MethodGet, "/api/public/plans", fiber.StatusOK},
		{fiber.MethodGet, "/api/public/plans/premium", fiber.StatusOK},
		{fiber.MethodGet, "/api/public/duration?start_date=2020-01-01", fiber.StatusOK},
		{fiber.MethodGet, "/api/public/pages/missing", fiber.StatusNotFound},
		{fiber.MethodGet, "/shared/missing", fiber.StatusNotFound},
		{fiber.MethodGet, "/api/public/payments/unknown", fiber.StatusNotFound},
		{fiber.MethodPut, "/api/u/pages/missing", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
