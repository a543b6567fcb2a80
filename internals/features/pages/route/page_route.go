// file: internals/features/pages/route/page_route.go

package route

import (
	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/features/pages/controller"
	"parasempre_backend/internals/features/pages/drafts"
	"parasempre_backend/internals/features/pages/service"
	"parasempre_backend/internals/middlewares"
	editAuth "parasempre_backend/internals/middlewares/auth"
)

// DraftBodyLimit caps an anonymous draft save. A full draft is a few KB.
const DraftBodyLimit = 16 << 10

// AllPagePublicRoutes mounts the anonymous page API under /api/public.
func AllPagePublicRoutes(public fiber.Router, pages *service.Manager, sessions *service.EditSessions, draftStore drafts.Store) {
	ctrl := controller.NewPageController(pages, sessions, draftStore)

	public.Get("/duration", ctrl.Duration)

	p := public.Group("/pages")
	p.Post("/", middlewares.CreateRateLimiter(), ctrl.Create)
	p.Get("/:slug", ctrl.Get)
	p.Get("/:slug/qr", ctrl.QRCode)
	p.Post("/:slug/edit-session", middlewares.EditSessionRateLimiter(), ctrl.OpenEditSession)

	d := public.Group("/drafts")
	d.Get("/:id", ctrl.GetDraft)
	d.Put("/:id", middlewares.MaxBodySize(DraftBodyLimit), ctrl.SaveDraft)
	d.Delete("/:id", ctrl.ClearDraft)
}

// AllPageOwnerRoutes mounts the edit-token API under /api/u.
func AllPageOwnerRoutes(user fiber.Router, pages *service.Manager, sessions *service.EditSessions, draftStore drafts.Store) {
	ctrl := controller.NewPageController(pages, sessions, draftStore)

	requireEdit := editAuth.RequireEditToken()
	user.Put("/pages/:slug", requireEdit, ctrl.Update)
	user.Post("/pages/:slug/images", requireEdit, middlewares.CreateRateLimiter(), ctrl.AttachImages)
}

// AllPageViewRoutes serves the rendered page. All three prefixes are kept
// so links shared by older versions keep working.
func AllPageViewRoutes(app fiber.Router, pages *service.Manager, sessions *service.EditSessions, draftStore drafts.Store) {
	ctrl := controller.NewPageController(pages, sessions, draftStore)

	for _, prefix := range []string{"/shared", "/page", "/para_sempre"} {
		app.Get(prefix+"/:slug", ctrl.View)
	}
}
