// file: internals/features/pages/controller/draft_controller.go

package controller

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/features/pages/drafts"
	helper "parasempre_backend/internals/helpers"
)

// draft ids are generated by the client; long enough to be unguessable
var reDraftID = regexp.MustCompile(`^[A-Za-z0-9_-]{16,64}$`)

// GET /api/public/drafts/:id
func (ctrl *PageController) GetDraft(c *fiber.Ctx) error {
	id := c.Params("id")
	if !reDraftID.MatchString(id) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid draft id")
	}
	d, err := ctrl.Drafts.Get(c.UserContext(), id)
	if errors.Is(err, drafts.ErrDraftNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "draft not found")
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonOK(c, "ok", d)
}

// PUT /api/public/drafts/:id
func (ctrl *PageController) SaveDraft(c *fiber.Ctx) error {
	id := c.Params("id")
	if !reDraftID.MatchString(id) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid draft id")
	}
	var d drafts.Draft
	if err := c.BodyParser(&d); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(d); err != nil {
		return helper.ValidationError(c, "invalid draft", err)
	}
	if err := ctrl.Drafts.Set(c.UserContext(), id, d); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "draft saved", fiber.Map{"id": id})
}

// DELETE /api/public/drafts/:id
func (ctrl *PageController) ClearDraft(c *fiber.Ctx) error {
	id := c.Params("id")
	if !reDraftID.MatchString(id) {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid draft id")
	}
	if err := ctrl.Drafts.Clear(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "draft cleared", fiber.Map{"id": id})
}
