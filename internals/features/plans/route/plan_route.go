// file: internals/features/plans/route/plan_route.go

package route

import (
	"github.com/gofiber/fiber/v2"

	planController "parasempre_backend/internals/features/plans/controller"
)

func AllPlanRoutes(api fiber.Router) {
	ctrl := planController.NewPlanController()

	api.Get("/plans", ctrl.List)
	api.Get("/plans/:id", ctrl.Get)
}
