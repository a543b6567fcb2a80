// file: internals/features/pages/service/page_service.go

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parasempre_backend/internals/constants"
	"parasempre_backend/internals/features/pages/imagepipe"
	"parasempre_backend/internals/features/pages/model"
	chargeModel "parasempre_backend/internals/features/payment/charges/model"
	planModel "parasempre_backend/internals/features/plans/model"
	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/docstore"
	helperOSS "parasempre_backend/internals/helpers/oss"
)

const (
	slugAttempts = 5
	editCodeLen  = 8
)

// PaymentGate is the part of the payment flow that pays for a page.
type PaymentGate interface {
	Verify(id, planID string) error
	Consume(id, planID string) (chargeModel.PaymentAttempt, error)
	Release(id string)
}

// Manager creates, reads and edits page records.
type Manager struct {
	Docs     docstore.Store
	Blobs    helperOSS.BlobService
	Payments PaymentGate
	// RequirePayment=false lets pages be created without a payment (dev)
	RequirePayment bool
	Origin         string

	now         func() time.Time
	newSlug     func(coupleName string) string
	newEditCode func() string
	newBatch    func() string
}

func NewManager(docs docstore.Store, blobs helperOSS.BlobService, payments PaymentGate, requirePayment bool, origin string) *Manager {
	return &Manager{
		Docs:           docs,
		Blobs:          blobs,
		Payments:       payments,
		RequirePayment: requirePayment,
		Origin:         strings.TrimRight(origin, "/"),
		now:            time.Now,
		newSlug:        func(name string) string { return helper.PageSlug(name) },
		newEditCode:    func() string { return strings.ToUpper(helper.RandomToken(editCodeLen)) },
		newBatch:       func() string { return helper.RandomToken(6) },
	}
}

/* ===================== public links ===================== */

type Links struct {
	Shared    string `json:"shared"`
	Page      string `json:"page"`
	Canonical string `json:"canonical"`
}

func (m *Manager) LinksFor(slug string) Links {
	return Links{
		Shared:    m.Origin + "/shared/" + slug,
		Page:      m.Origin + "/page/" + slug,
		Canonical: m.Origin + "/para_sempre/" + slug,
	}
}

/* ===================== create (phase 1) ===================== */

type CreateInput struct {
	Fields
	Plan       string
	PaymentID  string
	OwnerEmail string
}

type CreateResult struct {
	Record       model.PageRecord `json:"record"`
	EditCode     string           `json:"edit_code,omitempty"`
	Links        Links            `json:"links"`
	ShareMessage string           `json:"share_message"`
}

// CheckPayment reports ErrPaymentRequired when paymentID cannot pay for
// planID. Nothing is consumed; Create still settles the payment.
func (m *Manager) CheckPayment(paymentID, planID string) error {
	if !m.RequirePayment {
		return nil
	}
	plan, ok := planModel.Find(planID)
	if !ok {
		return invalid("plan", constants.MsgUnknownPlan)
	}
	if m.Payments == nil || paymentID == "" {
		return ErrPaymentRequired
	}
	if err := m.Payments.Verify(paymentID, plan.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentRequired, err)
	}
	return nil
}

// Create writes the record with no images and returns its slug right away.
// Photos are attached afterwards with AttachImages.
func (m *Manager) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	plan, ok := planModel.Find(in.Plan)
	if !ok {
		return CreateResult{}, invalid("plan", constants.MsgUnknownPlan)
	}
	if err := validateFields(&in.Fields, plan); err != nil {
		return CreateResult{}, err
	}

	ownerEmail := strings.ToLower(strings.TrimSpace(in.OwnerEmail))
	if m.RequirePayment {
		if m.Payments == nil || in.PaymentID == "" {
			return CreateResult{}, ErrPaymentRequired
		}
		attempt, err := m.Payments.Consume(in.PaymentID, plan.ID)
		if err != nil {
			return CreateResult{}, fmt.Errorf("%w: %v", ErrPaymentRequired, err)
		}
		if ownerEmail == "" {
			ownerEmail = strings.ToLower(attempt.PayerEmail)
		}
	}

	now := m.now().UTC()
	rec := model.PageRecord{
		CoupleName:      in.CoupleName,
		Message:         in.Message,
		StartDate:       in.StartDate,
		StartTime:       in.StartTime,
		Images:          []model.PageImage{},
		YoutubeURL:      in.YoutubeURL,
		TextColor:       in.TextColor,
		BackgroundColor: in.BackgroundColor,
		Plan:            plan.ID,
		Lang:            in.Lang,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var err error
	for i := 0; i < slugAttempts; i++ {
		rec.Slug = m.newSlug(in.CoupleName)
		err = m.Docs.Create(ctx, model.CollectionPages, rec.Slug, rec)
		if !errors.Is(err, docstore.ErrAlreadyExists) {
			break
		}
		log.Printf("[PAGES] slug collision %s, retrying", rec.Slug)
	}
	if err != nil {
		if m.RequirePayment {
			m.Payments.Release(in.PaymentID)
		}
		log.Printf("[PAGES] create failed: %v", err)
		return CreateResult{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	res := CreateResult{
		Record:       rec,
		Links:        m.LinksFor(rec.Slug),
		ShareMessage: constants.ShareMessage(rec.Lang, rec.CoupleName, m.LinksFor(rec.Slug).Canonical),
	}

	// the page exists from here on; a missing owner doc only costs the edit code
	code := m.newEditCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err == nil {
		err = m.Docs.Set(ctx, model.CollectionOwners, rec.Slug, model.PageOwner{
			EditCodeHash: string(hash),
			Email:        ownerEmail,
		})
	}
	if err != nil {
		log.Printf("[PAGES] owner doc for %s not saved: %v", rec.Slug, err)
	} else {
		res.EditCode = code
	}

	log.Printf("[PAGES] created %s plan=%s", rec.Slug, rec.Plan)
	return res, nil
}

/* ===================== read ===================== */

// GetBySlug looks the slug up directly, then through the legacy slug map.
// (nil, nil) means no page.
func (m *Manager) GetBySlug(ctx context.Context, slug string) (*model.PageRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	var rec model.PageRecord
	found, err := m.Docs.Get(ctx, model.CollectionPages, slug, &rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if found {
		rec.SortImages()
		return &rec, nil
	}

	var entry model.SlugMapEntry
	found, err = m.Docs.Get(ctx, model.CollectionSlugMap, slug, &entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if !found || entry.ID == "" || entry.ID == slug {
		return nil, nil
	}

	found, err = m.Docs.Get(ctx, model.CollectionPages, entry.ID, &rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if !found {
		return nil, nil
	}
	rec.SortImages()
	return &rec, nil
}

func (m *Manager) mustGet(ctx context.Context, slug string) (*model.PageRecord, error) {
	rec, err := m.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrPageNotFound
	}
	return rec, nil
}

func (m *Manager) save(ctx context.Context, rec *model.PageRecord) error {
	rec.UpdatedAt = m.now().UTC()
	if err := m.Docs.Set(ctx, model.CollectionPages, rec.Slug, rec); err != nil {
		log.Printf("[PAGES] save %s failed: %v", rec.Slug, err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

/* ===================== attach images (phase 2) ===================== */

// IndexedFile is a photo destined for a fixed slot of the carousel.
type IndexedFile struct {
	Index int
	File  imagepipe.File
}

type UploadFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type AttachResult struct {
	Record   model.PageRecord  `json:"record"`
	Attached []model.PageImage `json:"attached"`
	Failed   []UploadFailure   `json:"failed,omitempty"`
}

// AttachImages uploads photos to pages/{slug}/photo_{batch}_{index} and merges
// them by index. Every call writes new objects, so a stored URL is never
// overwritten; re-sending an index swaps that slot and deletes the old object.
// Callers retry only the failed indexes.
func (m *Manager) AttachImages(ctx context.Context, slug string, files []IndexedFile) (AttachResult, error) {
	rec, err := m.mustGet(ctx, slug)
	if err != nil {
		return AttachResult{}, err
	}
	plan, _ := planModel.Find(rec.Plan)

	var res AttachResult
	var jobs []uploadJob
	for _, f := range files {
		if f.Index < 0 || f.Index >= plan.PhotoLimit {
			res.Failed = append(res.Failed, UploadFailure{Index: f.Index, Name: f.File.Name, Error: "over plan photo limit"})
			continue
		}
		jobs = append(jobs, uploadJob{index: f.Index, file: f.File})
	}

	batch := m.newBatch()
	done := m.uploadAll(ctx, jobs, func(j uploadJob, ext string) string {
		return fmt.Sprintf("pages/%s/photo_%s_%d%s", rec.Slug, batch, j.index, ext)
	})

	bySlot := make(map[int]string, len(rec.Images))
	for _, img := range rec.Images {
		bySlot[img.Index] = img.URL
	}
	var replaced []string
	for _, d := range done {
		if d.err != nil {
			res.Failed = append(res.Failed, UploadFailure{Index: d.job.index, Name: d.job.file.Name, Error: d.err.Error()})
			continue
		}
		if old, ok := bySlot[d.job.index]; ok && old != d.url {
			replaced = append(replaced, old)
		}
		bySlot[d.job.index] = d.url
		res.Attached = append(res.Attached, model.PageImage{URL: d.url, Index: d.job.index})
	}
	replaced = difference(replaced, slotURLs(bySlot))

	if len(res.Attached) > 0 {
		rec.Images = rec.Images[:0]
		for idx, u := range bySlot {
			rec.Images = append(rec.Images, model.PageImage{URL: u, Index: idx})
		}
		rec.SortImages()
		if err := m.save(ctx, rec); err != nil {
			return res, err
		}
		m.deleteBestEffort(ctx, replaced)
	}

	res.Record = *rec
	if len(res.Failed) > 0 {
		log.Printf("[PAGES] attach %s: %d ok, %d failed", rec.Slug, len(res.Attached), len(res.Failed))
	}
	return res, nil
}

/* ===================== update (edit flow) ===================== */

// UpdateInput: nil scalar = unchanged; nil RetainedImages = keep every stored image.
type UpdateInput struct {
	CoupleName      *string
	Message         *string
	StartDate       *string
	StartTime       *string
	YoutubeURL      *string
	TextColor       *string
	BackgroundColor *string
	Lang            *string

	RetainedImages []string
	NewFiles       []imagepipe.File
}

type UpdateResult struct {
	Record   model.PageRecord `json:"record"`
	Uploaded int              `json:"uploaded"`
	Removed  []string         `json:"removed,omitempty"`
	Skipped  int              `json:"skipped,omitempty"`
	Failed   []UploadFailure  `json:"failed,omitempty"`
}

func (m *Manager) Update(ctx context.Context, slug string, in UpdateInput) (UpdateResult, error) {
	rec, err := m.mustGet(ctx, slug)
	if err != nil {
		return UpdateResult{}, err
	}
	plan, _ := planModel.Find(rec.Plan)

	f := Fields{
		CoupleName:      pick(in.CoupleName, rec.CoupleName),
		Message:         pick(in.Message, rec.Message),
		StartDate:       pick(in.StartDate, rec.StartDate),
		StartTime:       pick(in.StartTime, rec.StartTime),
		YoutubeURL:      pick(in.YoutubeURL, rec.YoutubeURL),
		TextColor:       pick(in.TextColor, rec.TextColor),
		BackgroundColor: pick(in.BackgroundColor, rec.BackgroundColor),
		Lang:            pick(in.Lang, rec.Lang),
	}
	if err := validateFields(&f, plan); err != nil {
		return UpdateResult{}, err
	}
	rec.CoupleName, rec.Message = f.CoupleName, f.Message
	rec.StartDate, rec.StartTime = f.StartDate, f.StartTime
	rec.YoutubeURL, rec.TextColor, rec.BackgroundColor, rec.Lang = f.YoutubeURL, f.TextColor, f.BackgroundColor, f.Lang

	stored := rec.ImageURLs()
	retained := stored
	if in.RetainedImages != nil {
		retained = keepKnown(in.RetainedImages, stored)
	}

	// nothing to upload and nothing removed: scalars only, no blob traffic
	if len(in.NewFiles) == 0 && sameSet(retained, stored) {
		if err := m.save(ctx, rec); err != nil {
			return UpdateResult{}, err
		}
		return UpdateResult{Record: *rec}, nil
	}

	var res UpdateResult
	budget := plan.PhotoLimit - len(retained)
	if budget < 0 {
		budget = 0
	}
	newFiles := in.NewFiles
	if len(newFiles) > budget {
		res.Skipped = len(newFiles) - budget
		newFiles = newFiles[:budget]
	}

	jobs := make([]uploadJob, len(newFiles))
	for i, nf := range newFiles {
		jobs[i] = uploadJob{index: i, file: nf}
	}
	batch := m.newBatch()
	done := m.uploadAll(ctx, jobs, func(j uploadJob, ext string) string {
		return fmt.Sprintf("pages/%s/photo_%s_%d%s", rec.Slug, batch, j.index, ext)
	})

	merged := append([]string(nil), retained...)
	for _, d := range done {
		if d.err != nil {
			res.Failed = append(res.Failed, UploadFailure{Index: d.job.index, Name: d.job.file.Name, Error: d.err.Error()})
			continue
		}
		merged = append(merged, d.url)
		res.Uploaded++
	}
	merged = dedupe(merged)
	if len(merged) > plan.PhotoLimit {
		merged = merged[:plan.PhotoLimit]
	}

	res.Removed = difference(stored, merged)
	rec.SetImageURLs(merged)
	if err := m.save(ctx, rec); err != nil {
		return UpdateResult{}, err
	}
	// deletes only after the record no longer points at the objects
	m.deleteBestEffort(ctx, res.Removed)

	res.Record = *rec
	return res, nil
}

func (m *Manager) deleteBestEffort(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := m.Blobs.Delete(ctx, u); err != nil {
			log.Printf("[PAGES] delete blob %s: %v", u, err)
		}
	}
}

/* ===================== small set helpers ===================== */

func slotURLs(bySlot map[int]string) []string {
	out := make([]string, 0, len(bySlot))
	for _, u := range bySlot {
		out = append(out, u)
	}
	return out
}

func pick(v *string, cur string) string {
	if v == nil {
		return cur
	}
	return *v
}

// keepKnown keeps the client's order but drops URLs the record never had.
func keepKnown(want, stored []string) []string {
	known := make(map[string]bool, len(stored))
	for _, u := range stored {
		known[u] = true
	}
	out := make([]string, 0, len(want))
	for _, u := range dedupe(want) {
		if known[u] {
			out = append(out, u)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}

// difference returns the elements of a missing from b.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	var out []string
	for _, s := range a {
		if !in[s] {
			out = append(out, s)
		}
	}
	return out
}
