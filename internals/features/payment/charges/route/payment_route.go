// file: internals/features/payment/charges/route/payment_route.go

package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "parasempre_backend/internals/features/payment/charges/controller"
	svc "parasempre_backend/internals/features/payment/charges/service"
	"parasempre_backend/internals/middlewares"
)

// AllPaymentRoutes mounts the checkout endpoints under the public group.
func AllPaymentRoutes(public fiber.Router, flow *svc.Flow, midtransServerKey string) {
	ctrl := paymentController.NewPaymentController(flow, midtransServerKey)

	// webhook first so "/payments/:id" never captures it
	public.Post("/payments/midtrans/webhook", ctrl.MidtransWebhook)

	public.Post("/payments", middlewares.CreateRateLimiter(), ctrl.Start)
	public.Get("/payments/:id", ctrl.Get)
	public.Post("/payments/:id/retry", middlewares.CreateRateLimiter(), ctrl.Retry)
	public.Post("/coupons/validate", ctrl.ValidateCoupon)
}
