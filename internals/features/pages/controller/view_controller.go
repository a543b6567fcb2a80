// file: internals/features/pages/controller/view_controller.go

package controller

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"

	"parasempre_backend/internals/constants"
	dto "parasempre_backend/internals/features/pages/dto"
	"parasempre_backend/internals/features/pages/duration"
	"parasempre_backend/internals/features/pages/service"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/dbtime"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	qrDefaultSize = 512
	qrMinSize     = 128
	qrMaxSize     = 1024
)

type pageView struct {
	Lang       string
	Page       dto.PageResponse
	Images     []string
	OGImage    string
	Background template.CSS
	TextColor  template.CSS
	EmbedURL   string
}

type notFoundView struct {
	Lang    string
	Message string
}

// GET /shared/:slug, /page/:slug, /para_sempre/:slug
func (ctrl *PageController) View(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	rec, err := ctrl.Pages.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		log.Printf("[VIEW] %s: %v", c.Params("slug"), err)
		return ctrl.renderNotFound(c, fiber.StatusServiceUnavailable, lang, constants.Message(lang, service.MessageKey(err)))
	}
	if rec == nil {
		return ctrl.renderNotFound(c, fiber.StatusNotFound, lang, constants.Message(lang, constants.MsgPageNotFound))
	}

	viewLang := rec.Lang
	if c.Query("lang") != "" {
		viewLang = lang
	}
	page := dto.FromRecord(*rec, ctrl.Pages.LinksFor(rec.Slug), viewLang, dbtime.NowIn(c))

	v := pageView{
		Lang:       viewLang,
		Page:       page,
		Images:     rec.ImageURLs(),
		Background: template.CSS(page.Background),
		TextColor:  template.CSS(page.TextColor),
		EmbedURL:   youtubeEmbedURL(rec.YoutubeURL),
	}
	if len(v.Images) > 0 {
		v.OGImage = v.Images[0]
	}
	return ctrl.render(c, fiber.StatusOK, "page.html", v)
}

func (ctrl *PageController) renderNotFound(c *fiber.Ctx, status int, lang, msg string) error {
	return ctrl.render(c, status, "not_found.html", notFoundView{Lang: lang, Message: msg})
}

func (ctrl *PageController) render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[VIEW] render %s: %v", name, err)
		return fiber.NewError(fiber.StatusInternalServerError, "render failed")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// GET /api/public/pages/:slug/qr
func (ctrl *PageController) QRCode(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	rec, err := ctrl.Pages.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	if rec == nil {
		return helper.JsonError(c, fiber.StatusNotFound, constants.Message(lang, constants.MsgPageNotFound))
	}

	size := c.QueryInt("size", qrDefaultSize)
	if size < qrMinSize {
		size = qrMinSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	png, err := qrcode.Encode(ctrl.Pages.LinksFor(rec.Slug).Canonical, qrcode.Medium, size)
	if err != nil {
		log.Printf("[QR] %s: %v", rec.Slug, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "qr failed")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	if c.QueryBool("download") {
		c.Attachment(rec.Slug + ".png")
	}
	return c.Send(png)
}

// GET /api/public/duration?start_date=YYYY-MM-DD&start_time=HH:MM&lang=
func (ctrl *PageController) Duration(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	now := dbtime.NowIn(c)
	startDate, startTime := c.Query("start_date"), c.Query("start_time")

	b, ok := duration.Compute(startDate, startTime, now)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonOK(c, "ok", dto.DurationResponse{
		Text:    duration.Calculate(startDate, startTime, lang, now),
		Elapsed: b,
		Valid:   ok,
	})
}

// youtubeEmbedURL turns watch/short links into the embeddable form.
func youtubeEmbedURL(raw string) string {
	if raw == "" || !service.IsYoutubeURL(raw) {
		return ""
	}
	id := ""
	switch {
	case strings.Contains(raw, "youtu.be/"):
		id = raw[strings.Index(raw, "youtu.be/")+len("youtu.be/"):]
	case strings.Contains(raw, "v="):
		id = raw[strings.Index(raw, "v=")+2:]
	case strings.Contains(raw, "/shorts/"):
		id = raw[strings.Index(raw, "/shorts/")+len("/shorts/"):]
	case strings.Contains(raw, "/embed/"):
		id = raw[strings.Index(raw, "/embed/")+len("/embed/"):]
	}
	if i := strings.IndexAny(id, "?&#/"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
