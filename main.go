// file: main.go

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/configs"
	database "parasempre_backend/internals/databases"
	"parasempre_backend/internals/features/pages/drafts"
	pageService "parasempre_backend/internals/features/pages/service"
	paymentService "parasempre_backend/internals/features/payment/charges/service"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/docstore"
	helperOSS "parasempre_backend/internals/helpers/oss"
	middlewares "parasempre_backend/internals/middlewares"
	routes "parasempre_backend/internals/route"
)

// multipart create/update with up to 15 photos
const bodyLimit = 100 << 20

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               bodyLimit,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app)

	// 🗄 document store
	var docs docstore.Store
	switch configs.DocstoreDriver {
	case "memory":
		log.Println("⚠️ DOCSTORE_DRIVER=memory, pages are lost on restart")
		docs = docstore.NewMemoryStore()
	default:
		database.ConnectDB()
		database.Migrate()
		database.TunePool()
		database.WarmUpQueries()
		docs = docstore.NewGormStore(database.DB)
	}

	// 🖼 photo storage
	blobs, err := helperOSS.NewBlobServiceFromEnv(configs.BlobDriver, "parasempre")
	if err != nil {
		log.Fatalf("❌ blob storage: %v", err)
	}

	// 💳 payments (simulated-only when no Midtrans key)
	var charges paymentService.ChargeService
	if configs.MidtransServerKey != "" {
		charges = paymentService.NewMidtransChargeService(configs.MidtransServerKey, configs.MidtransUseProd, configs.MidtransRupiahPerReal)
	}
	flow := paymentService.NewFlow(charges, paymentService.NewCouponBook(configs.PaymentTestCoupon), paymentService.FlowConfig{
		SimulatedDelay: configs.PaymentSimulatedDelay,
		AttemptTTL:     configs.PaymentAttemptTTL,
	})
	sweeper, err := paymentService.StartSweeper(flow, configs.GetEnv("PAYMENT_SWEEP_SCHEDULE", paymentService.DefaultSweepSchedule))
	if err != nil {
		log.Fatalf("❌ payment sweeper: %v", err)
	}

	draftStore := drafts.NewDocStore(docs, configs.DraftTTL)
	purger, err := drafts.StartPurger(draftStore, configs.GetEnv("DRAFT_PURGE_SCHEDULE", drafts.DefaultPurgeSchedule))
	if err != nil {
		log.Fatalf("❌ draft purger: %v", err)
	}

	pages := pageService.NewManager(docs, blobs, flow, configs.PaymentRequired, configs.AppOrigin)
	sessions := pageService.NewEditSessions(docs, configs.JWTSecret, pageService.NewGoogleVerifier(configs.GoogleClientID))

	routes.SetupRoutes(app, routes.Deps{
		Docs:              docs,
		Pages:             pages,
		Sessions:          sessions,
		Drafts:            draftStore,
		Payments:          flow,
		MidtransServerKey: configs.MidtransServerKey,
	})

	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-sweeper.Stop().Done()
	<-purger.Stop().Done()
	database.Close()
	log.Println("👋 bye")
}
