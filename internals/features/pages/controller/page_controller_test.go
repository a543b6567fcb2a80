package controller_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parasempre_backend/internals/configs"
	"parasempre_backend/internals/features/pages/drafts"
	pageRoute "parasempre_backend/internals/features/pages/route"
	"parasempre_backend/internals/features/pages/service"
	paymentService "parasempre_backend/internals/features/payment/charges/service"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/docstore"
	helperOSS "parasempre_backend/internals/helpers/oss"
)

const testSecret = "page-controller-secret"

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      map[string]any      `json:"data"`
}

func newPageApp(t *testing.T) (*fiber.App, *helperOSS.MemoryBlobService) {
	t.Helper()
	return newPageAppWithPayments(t, nil)
}

// newPageAppWithPayments requires payment when gate is non-nil.
func newPageAppWithPayments(t *testing.T, gate service.PaymentGate) (*fiber.App, *helperOSS.MemoryBlobService) {
	t.Helper()
	configs.JWTSecret = testSecret

	docs := docstore.NewMemoryStore()
	blobs := helperOSS.NewMemoryBlobService("https://cdn.test")
	pages := service.NewManager(docs, blobs, gate, gate != nil, "https://parasempre.app")
	sessions := service.NewEditSessions(docs, testSecret, nil)
	draftStore := drafts.NewMemoryStore(time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	pageRoute.AllPagePublicRoutes(app.Group("/api/public"), pages, sessions, draftStore)
	pageRoute.AllPageOwnerRoutes(app.Group("/api/u"), pages, sessions, draftStore)
	pageRoute.AllPageViewRoutes(app, pages, sessions, draftStore)
	return app, blobs
}

func send(t *testing.T, app *fiber.App, method, path, contentType string, body io.Reader, headers ...string) (int, []byte, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept-Language", "en")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw, resp.Header.Get("Content-Type")
}

func sendJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, envelope) {
	t.Helper()
	status, raw, _ := send(t, app, method, path, "application/json", strings.NewReader(body), headers...)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return status, env
}

func createPage(t *testing.T, app *fiber.App) (slug, editCode string) {
	t.Helper()
	status, env := sendJSON(t, app, fiber.MethodPost, "/api/public/pages",
		`{"couple_name":"Ana e Beto","message":"Te amo","start_date":"2020-02-14","start_time":"19:30","background_color":"sunset","plan":"premium","lang":"pt"}`)
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	record := env.Data["record"].(map[string]any)
	slug = record["slug"].(string)
	editCode, _ = env.Data["edit_code"].(string)
	return slug, editCode
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCreateAndGetPage(t *testing.T) {
	app, _ := newPageApp(t)
	slug, code := createPage(t, app)

	assert.True(t, strings.HasPrefix(slug, "ana__beto_"), slug)
	assert.Len(t, code, 8)

	status, env := sendJSON(t, app, fiber.MethodGet, "/api/public/pages/"+slug, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ana e Beto", env.Data["couple_name"])
	assert.NotEmpty(t, env.Data["duration"])
	links := env.Data["links"].(map[string]any)
	assert.Equal(t, "https://parasempre.app/shared/"+slug, links["shared"])

	status, env = sendJSON(t, app, fiber.MethodGet, "/api/public/pages/nobody-here", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)
}

func TestCreatePage_Validation(t *testing.T) {
	app, _ := newPageApp(t)

	status, env := sendJSON(t, app, fiber.MethodPost, "/api/public/pages",
		`{"couple_name":"","start_date":"2020-02-14","plan":"basic"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "coupleName")
}

func TestCreatePage_MultipartWithPhoto(t *testing.T) {
	app, blobs := newPageApp(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"couple_name": "Ana e Beto",
		"start_date":  "2021-05-01",
		"plan":        "basic",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("images", "us.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	status, raw, _ := send(t, app, fiber.MethodPost, "/api/public/pages", w.FormDataContentType(), &body)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env))
	images := env.Data["images"].(map[string]any)
	assert.Len(t, images["attached"], 1)
	assert.Len(t, blobs.Keys(), 1)
}

func TestCreatePage_UnpaidRejectedBeforeUploads(t *testing.T) {
	flow := paymentService.NewFlow(nil, paymentService.NewCouponBook("DEVTEST"), paymentService.FlowConfig{SimulatedDelay: time.Hour})
	app, blobs := newPageAppWithPayments(t, flow)

	attempt, err := flow.Start(context.Background(), "basic", "DEVTEST", "")
	require.NoError(t, err)

	for _, paymentID := range []string{"", "unknown", attempt.ID} {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		for k, v := range map[string]string{
			"couple_name": "Ana e Beto",
			"start_date":  "2021-05-01",
			"plan":        "basic",
			"payment_id":  paymentID,
		} {
			require.NoError(t, w.WriteField(k, v))
		}
		part, err := w.CreateFormFile("images", "us.png")
		require.NoError(t, err)
		_, err = part.Write(pngBytes(t))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		status, raw, _ := send(t, app, fiber.MethodPost, "/api/public/pages", w.FormDataContentType(), &body)
		assert.Equal(t, fiber.StatusPaymentRequired, status, "payment %q: %s", paymentID, raw)
	}
	assert.Empty(t, blobs.Keys())
}

func TestEditSessionAndUpdate(t *testing.T) {
	app, _ := newPageApp(t)
	slug, code := createPage(t, app)
	other, _ := createPage(t, app)

	status, _ := sendJSON(t, app, fiber.MethodPost, "/api/public/pages/"+slug+"/edit-session", `{"edit_code":"WRONG000"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env := sendJSON(t, app, fiber.MethodPost, "/api/public/pages/"+slug+"/edit-session", `{"edit_code":"`+code+`"}`)
	require.Equal(t, fiber.StatusOK, status)
	token := env.Data["token"].(string)
	require.NotEmpty(t, token)

	// no token
	status, _ = sendJSON(t, app, fiber.MethodPut, "/api/u/pages/"+slug, `{"message":"Para sempre"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// token of another page
	status, _ = sendJSON(t, app, fiber.MethodPut, "/api/u/pages/"+other, `{"message":"Para sempre"}`,
		"Authorization", "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = sendJSON(t, app, fiber.MethodPut, "/api/u/pages/"+slug, `{"message":"Para sempre"}`,
		"Authorization", "Bearer "+token)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	record := env.Data["record"].(map[string]any)
	assert.Equal(t, "Para sempre", record["message"])
	assert.Equal(t, "Ana e Beto", record["coupleName"])
}

func TestAttachImages_RequiresToken(t *testing.T) {
	app, _ := newPageApp(t)
	slug, _ := createPage(t, app)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images", "a.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	status, _, _ := send(t, app, fiber.MethodPost, "/api/u/pages/"+slug+"/images", w.FormDataContentType(), &body)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestViewPage(t *testing.T) {
	app, _ := newPageApp(t)
	slug, _ := createPage(t, app)

	for _, prefix := range []string{"/shared/", "/page/", "/para_sempre/"} {
		status, raw, ct := send(t, app, fiber.MethodGet, prefix+slug, "", nil)
		require.Equal(t, fiber.StatusOK, status, prefix)
		assert.Contains(t, ct, "text/html")
		html := string(raw)
		assert.Contains(t, html, "Ana e Beto")
		assert.Contains(t, html, "linear-gradient(")
		assert.NotContains(t, html, "ZgotmplZ")
	}

	status, _, ct := send(t, app, fiber.MethodGet, "/shared/nobody-here", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, ct, "text/html")
}

func TestQRCode(t *testing.T) {
	app, _ := newPageApp(t)
	slug, _ := createPage(t, app)

	status, raw, ct := send(t, app, fiber.MethodGet, "/api/public/pages/"+slug+"/qr?size=200", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "image/png", ct)

	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)

	// clamped to the minimum
	_, raw, _ = send(t, app, fiber.MethodGet, "/api/public/pages/"+slug+"/qr?size=10", "", nil)
	cfg, err = png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Width)

	status, _, _ = send(t, app, fiber.MethodGet, "/api/public/pages/nobody-here/qr", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDurationPreview(t *testing.T) {
	app, _ := newPageApp(t)

	status, env := sendJSON(t, app, fiber.MethodGet, "/api/public/duration?start_date=2020-01-01&start_time=08:00&lang=en", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, env.Data["valid"])
	assert.Contains(t, env.Data["text"], "years")

	status, env = sendJSON(t, app, fiber.MethodGet, "/api/public/duration?start_date=not-a-date", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, env.Data["valid"])
}

func TestDrafts(t *testing.T) {
	app, _ := newPageApp(t)
	id := "draft_0123456789abcdef"

	status, _ := sendJSON(t, app, fiber.MethodGet, "/api/public/drafts/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = sendJSON(t, app, fiber.MethodPut, "/api/public/drafts/"+id, `{"coupleName":"Ana","plan":"basic"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, env := sendJSON(t, app, fiber.MethodGet, "/api/public/drafts/"+id, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ana", env.Data["coupleName"])

	status, _ = sendJSON(t, app, fiber.MethodDelete, "/api/public/drafts/"+id, "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = sendJSON(t, app, fiber.MethodGet, "/api/public/drafts/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = sendJSON(t, app, fiber.MethodGet, "/api/public/drafts/short", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDrafts_RejectsOversized(t *testing.T) {
	app, _ := newPageApp(t)
	id := "draft_0123456789abcdef"

	// within the body limit but over the message limit
	status, env := sendJSON(t, app, fiber.MethodPut, "/api/public/drafts/"+id,
		`{"message":"`+strings.Repeat("a", 5001)+`"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)

	status, _, _ = send(t, app, fiber.MethodPut, "/api/public/drafts/"+id, "application/json",
		strings.NewReader(`{"message":"`+strings.Repeat("a", pageRoute.DraftBodyLimit)+`"}`))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)

	status, _ = sendJSON(t, app, fiber.MethodGet, "/api/public/drafts/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
