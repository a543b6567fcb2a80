// file: internals/route/index.go

package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/features/pages/drafts"
	pageRoute "parasempre_backend/internals/features/pages/route"
	pageService "parasempre_backend/internals/features/pages/service"
	paymentRoute "parasempre_backend/internals/features/payment/charges/route"
	paymentService "parasempre_backend/internals/features/payment/charges/service"
	planRoute "parasempre_backend/internals/features/plans/route"
	"parasempre_backend/internals/helpers/docstore"
)

var startTime time.Time

// Deps are the long-lived services built in main.
type Deps struct {
	Docs              docstore.Store
	Pages             *pageService.Manager
	Sessions          *pageService.EditSessions
	Drafts            drafts.Store
	Payments          *paymentService.Flow
	MidtransServerKey string
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, d.Docs)

	// ===================== GROUPS =====================

	// PUBLIC → no login
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// OWNER → page-scoped edit token, checked per route
	log.Println("[INFO] Setting up OWNER (edit token) group...")
	owner := app.Group("/api/u")

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Plan routes...")
	planRoute.AllPlanRoutes(public)

	log.Println("[INFO] Mounting Payment routes...")
	paymentRoute.AllPaymentRoutes(public, d.Payments, d.MidtransServerKey)

	log.Println("[INFO] Mounting Page routes...")
	pageRoute.AllPagePublicRoutes(public, d.Pages, d.Sessions, d.Drafts)
	pageRoute.AllPageOwnerRoutes(owner, d.Pages, d.Sessions, d.Drafts)
	pageRoute.AllPageViewRoutes(app, d.Pages, d.Sessions, d.Drafts)
}
