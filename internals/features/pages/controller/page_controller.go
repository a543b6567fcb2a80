// file: internals/features/pages/controller/page_controller.go

package controller

import (
	"errors"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parasempre_backend/internals/constants"
	"parasempre_backend/internals/features/pages/drafts"
	dto "parasempre_backend/internals/features/pages/dto"
	"parasempre_backend/internals/features/pages/imagepipe"
	"parasempre_backend/internals/features/pages/service"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/dbtime"
	helperOSS "parasempre_backend/internals/helpers/oss"
)

// per-file ceiling before the pipeline shrinks it
const maxUploadBytes = 15 << 20

type PageController struct {
	Pages    *service.Manager
	Sessions *service.EditSessions
	Drafts   drafts.Store
}

func NewPageController(pages *service.Manager, sessions *service.EditSessions, draftStore drafts.Store) *PageController {
	return &PageController{Pages: pages, Sessions: sessions, Drafts: draftStore}
}

/* =======================================================================
   Create (phase 1 + optional phase 2 in the same request)
======================================================================= */

// POST /api/public/pages
func (ctrl *PageController) Create(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)

	var req dto.CreatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, "invalid input", err)
	}
	if strings.TrimSpace(req.Lang) == "" {
		req.Lang = lang
	}
	// unpaid requests are turned away before any photo is decoded
	if err := ctrl.Pages.CheckPayment(req.PaymentID, req.Plan); err != nil {
		return ctrl.serviceError(c, lang, err)
	}

	files, readFailures, err := readUploads(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	res, err := ctrl.Pages.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	out := dto.CreatePageResponse{CreateResult: res}

	if req.DraftID != "" && ctrl.Drafts != nil {
		if err := ctrl.Drafts.Clear(c.UserContext(), req.DraftID); err != nil {
			log.Printf("[PAGES] clear draft %s: %v", req.DraftID, err)
		}
	}

	if len(files) > 0 || len(readFailures) > 0 {
		indexed := make([]service.IndexedFile, 0, len(files))
		for _, f := range files {
			indexed = append(indexed, service.IndexedFile{Index: f.index, File: f.file})
		}
		attach := ctrl.attach(c, res.Record.Slug, indexed)
		attach.Failed = append(readFailures, attach.Failed...)
		out.Images = &attach
		out.Record = attach.Record
	}

	return helper.JsonCreated(c, constants.Message(res.Record.Lang, constants.MsgPageCreated), out)
}

// POST /api/u/pages/:slug/images (edit token)
// Optional "indexes" field pins each file to a slot, for retrying failed ones.
func (ctrl *PageController) AttachImages(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	slug := c.Params("slug")

	files, readFailures, err := readUploads(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid multipart form")
	}
	if len(files) == 0 && len(readFailures) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "No files uploaded")
	}

	indexes := parseIndexes(c)
	indexed := make([]service.IndexedFile, 0, len(files))
	for _, f := range files {
		idx := f.index
		if f.index < len(indexes) {
			idx = indexes[f.index]
		}
		indexed = append(indexed, service.IndexedFile{Index: idx, File: f.file})
	}

	res, err := ctrl.Pages.AttachImages(c.UserContext(), slug, indexed)
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	res.Failed = append(readFailures, res.Failed...)
	return helper.JsonOK(c, constants.Message(lang, constants.MsgImagesAttached), res)
}

func (ctrl *PageController) attach(c *fiber.Ctx, slug string, files []service.IndexedFile) service.AttachResult {
	res, err := ctrl.Pages.AttachImages(c.UserContext(), slug, files)
	if err == nil {
		return res
	}
	// the page is saved; report every photo as failed so the client retries them
	log.Printf("[PAGES] attach after create %s: %v", slug, err)
	out := service.AttachResult{Record: res.Record}
	for _, f := range files {
		out.Failed = append(out.Failed, service.UploadFailure{Index: f.Index, Name: f.File.Name, Error: err.Error()})
	}
	if out.Record.Slug == "" {
		if rec, gerr := ctrl.Pages.GetBySlug(c.UserContext(), slug); gerr == nil && rec != nil {
			out.Record = *rec
		}
	}
	return out
}

/* =======================================================================
   Read
======================================================================= */

// GET /api/public/pages/:slug
func (ctrl *PageController) Get(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	rec, err := ctrl.Pages.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	if rec == nil {
		return helper.JsonError(c, fiber.StatusNotFound, constants.Message(lang, constants.MsgPageNotFound))
	}
	viewLang := rec.Lang
	if c.Query("lang") != "" {
		viewLang = lang
	}
	return helper.JsonOK(c, "ok", dto.FromRecord(*rec, ctrl.Pages.LinksFor(rec.Slug), viewLang, dbtime.NowIn(c)))
}

/* =======================================================================
   Edit
======================================================================= */

// POST /api/public/pages/:slug/edit-session
func (ctrl *PageController) OpenEditSession(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)

	var req dto.EditSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rec, err := ctrl.Pages.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	if rec == nil {
		return helper.JsonError(c, fiber.StatusNotFound, constants.Message(lang, constants.MsgPageNotFound))
	}

	s, err := ctrl.Sessions.Open(c.UserContext(), rec.Slug, req.EditCode, req.GoogleIDToken)
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     helper.EditTokenCookie,
		Value:    s.Token,
		Path:     "/api/u/pages/" + rec.Slug,
		Expires:  s.ExpiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return helper.JsonOK(c, "ok", fiber.Map{
		"slug":       rec.Slug,
		"token":      s.Token,
		"expires_at": s.ExpiresAt,
		"via":        s.Via,
	})
}

// PUT /api/u/pages/:slug (edit token). JSON, or multipart with new photos.
func (ctrl *PageController) Update(c *fiber.Ctx) error {
	lang := helper.RequestLang(c)
	slug := c.Params("slug")

	var in service.UpdateInput
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid multipart form")
		}
		in = updateFromForm(form)

		files, readFailures, err := readUploads(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid multipart form")
		}
		for _, f := range files {
			in.NewFiles = append(in.NewFiles, f.file)
		}
		res, err := ctrl.Pages.Update(c.UserContext(), slug, in)
		if err != nil {
			return ctrl.serviceError(c, lang, err)
		}
		res.Failed = append(readFailures, res.Failed...)
		return helper.JsonUpdated(c, constants.Message(lang, constants.MsgPageUpdated), res)
	}

	var req dto.UpdatePageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	res, err := ctrl.Pages.Update(c.UserContext(), slug, req.ToInput())
	if err != nil {
		return ctrl.serviceError(c, lang, err)
	}
	return helper.JsonUpdated(c, constants.Message(lang, constants.MsgPageUpdated), res)
}

/* =======================================================================
   Helpers
======================================================================= */

func (ctrl *PageController) serviceError(c *fiber.Ctx, lang string, err error) error {
	msg := constants.Message(lang, service.MessageKey(err))

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return helper.JsonValidationError(c, msg, map[string][]string{ve.Field: {ve.Key}})
	case errors.Is(err, service.ErrPageNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, msg)
	case errors.Is(err, service.ErrPaymentRequired):
		return helper.JsonError(c, fiber.StatusPaymentRequired, msg)
	case errors.Is(err, service.ErrEditDenied):
		return helper.JsonError(c, fiber.StatusUnauthorized, msg)
	default:
		log.Printf("[PAGES] %s %s: %v", c.Method(), c.Path(), err)
		return helper.JsonError(c, fiber.StatusInternalServerError, msg)
	}
}

type upload struct {
	index int
	file  imagepipe.File
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// readUploads returns the photos of a multipart request; index is the position in the form.
func readUploads(c *fiber.Ctx) ([]upload, []service.UploadFailure, error) {
	if !isMultipart(c) {
		return nil, nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	fhs, _ := helperOSS.CollectUploadFiles(form, nil)

	var (
		out      []upload
		failures []service.UploadFailure
	)
	for i, fh := range fhs {
		data, ct, err := helperOSS.ReadFormFile(fh, maxUploadBytes)
		if err != nil {
			failures = append(failures, service.UploadFailure{Index: i, Name: fh.Filename, Error: err.Error()})
			continue
		}
		out = append(out, upload{index: i, file: imagepipe.File{Name: fh.Filename, ContentType: ct, Data: data}})
	}
	return out, failures, nil
}

func parseIndexes(c *fiber.Ctx) []int {
	raw := c.FormValue("indexes")
	if raw == "" {
		return nil
	}
	var out []int
	for _, p := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func formValue(form *multipart.Form, key string) *string {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

// updateFromForm reads scalar fields present in the form. A present but empty
// retained_images field means "drop every stored photo".
func updateFromForm(form *multipart.Form) service.UpdateInput {
	in := service.UpdateInput{
		CoupleName:      formValue(form, "couple_name"),
		Message:         formValue(form, "message"),
		StartDate:       formValue(form, "start_date"),
		StartTime:       formValue(form, "start_time"),
		YoutubeURL:      formValue(form, "youtube_url"),
		TextColor:       formValue(form, "text_color"),
		BackgroundColor: formValue(form, "background_color"),
		Lang:            formValue(form, "lang"),
	}
	for _, key := range []string{"retained_images[]", "retained_images"} {
		vs, ok := form.Value[key]
		if !ok {
			continue
		}
		if in.RetainedImages == nil {
			in.RetainedImages = []string{}
		}
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				in.RetainedImages = append(in.RetainedImages, v)
			}
		}
	}
	return in
}
