// file: internals/features/plans/controller/plan_controller.go

package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/features/pages/theme"
	"parasempre_backend/internals/features/plans/model"
	helper "parasempre_backend/internals/helpers"
)

type PlanController struct{}

func NewPlanController() *PlanController {
	return &PlanController{}
}

// GET /api/public/plans
func (ctrl *PlanController) List(c *fiber.Ctx) error {
	c.Set("Cache-Control", "public, max-age=300")
	return helper.JsonOK(c, "ok", fiber.Map{
		"plans":  model.All(),
		"themes": theme.Catalog(),
	})
}

// GET /api/public/plans/:id
func (ctrl *PlanController) Get(c *fiber.Ctx) error {
	p, ok := model.Find(strings.TrimSpace(c.Params("id")))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Plano não encontrado")
	}
	return helper.JsonOK(c, "ok", p)
}
