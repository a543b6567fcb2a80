// file: internals/features/pages/dto/page_dto.go

package dto

import (
	"time"

	"parasempre_backend/internals/features/pages/duration"
	"parasempre_backend/internals/features/pages/model"
	"parasempre_backend/internals/features/pages/service"
	"parasempre_backend/internals/features/pages/theme"
)

/* ===================== requests ===================== */

// CreatePageRequest comes as JSON or as multipart fields next to the photos.
type CreatePageRequest struct {
	CoupleName      string `json:"couple_name" form:"couple_name" validate:"max=120"`
	Message         string `json:"message" form:"message" validate:"max=5000"`
	StartDate       string `json:"start_date" form:"start_date"`
	StartTime       string `json:"start_time" form:"start_time"`
	YoutubeURL      string `json:"youtube_url" form:"youtube_url" validate:"omitempty,url"`
	TextColor       string `json:"text_color" form:"text_color"`
	BackgroundColor string `json:"background_color" form:"background_color"`
	Plan            string `json:"plan" form:"plan" validate:"max=32"`
	Lang            string `json:"lang" form:"lang"`
	PaymentID       string `json:"payment_id" form:"payment_id"`
	Email           string `json:"email" form:"email" validate:"omitempty,email"`
	DraftID         string `json:"draft_id" form:"draft_id"`
}

func (r CreatePageRequest) ToInput() service.CreateInput {
	return service.CreateInput{
		Fields: service.Fields{
			CoupleName:      r.CoupleName,
			Message:         r.Message,
			StartDate:       r.StartDate,
			StartTime:       r.StartTime,
			YoutubeURL:      r.YoutubeURL,
			TextColor:       r.TextColor,
			BackgroundColor: r.BackgroundColor,
			Lang:            r.Lang,
		},
		Plan:       r.Plan,
		PaymentID:  r.PaymentID,
		OwnerEmail: r.Email,
	}
}

// UpdatePageRequest: absent fields stay as they are.
type UpdatePageRequest struct {
	CoupleName      *string  `json:"couple_name"`
	Message         *string  `json:"message"`
	StartDate       *string  `json:"start_date"`
	StartTime       *string  `json:"start_time"`
	YoutubeURL      *string  `json:"youtube_url"`
	TextColor       *string  `json:"text_color"`
	BackgroundColor *string  `json:"background_color"`
	Lang            *string  `json:"lang"`
	RetainedImages  []string `json:"retained_images"`
}

func (r UpdatePageRequest) ToInput() service.UpdateInput {
	return service.UpdateInput{
		CoupleName:      r.CoupleName,
		Message:         r.Message,
		StartDate:       r.StartDate,
		StartTime:       r.StartTime,
		YoutubeURL:      r.YoutubeURL,
		TextColor:       r.TextColor,
		BackgroundColor: r.BackgroundColor,
		Lang:            r.Lang,
		RetainedImages:  r.RetainedImages,
	}
}

type EditSessionRequest struct {
	EditCode      string `json:"edit_code"`
	GoogleIDToken string `json:"google_id_token"`
}

/* ===================== responses ===================== */

type CreatePageResponse struct {
	service.CreateResult
	Images *service.AttachResult `json:"images,omitempty"`
}

// PageResponse is the public view of a page.
type PageResponse struct {
	Slug            string             `json:"slug"`
	CoupleName      string             `json:"couple_name"`
	Message         string             `json:"message"`
	StartDate       string             `json:"start_date"`
	StartTime       string             `json:"start_time,omitempty"`
	Images          []model.PageImage  `json:"images"`
	YoutubeURL      string             `json:"youtube_url,omitempty"`
	TextColor       string             `json:"text_color"`
	BackgroundColor string             `json:"background_color"`
	Background      string             `json:"background"`
	Plan            string             `json:"plan"`
	Lang            string             `json:"lang"`
	Duration        string             `json:"duration"`
	Elapsed         duration.Breakdown `json:"elapsed"`
	Links           service.Links      `json:"links"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func FromRecord(rec model.PageRecord, links service.Links, lang string, now time.Time) PageResponse {
	if lang == "" {
		lang = rec.Lang
	}
	th, err := theme.ParseTheme(rec.BackgroundColor)
	if err != nil {
		th = theme.NamedTheme{ID: theme.DefaultThemeID}
	}
	elapsed, _ := duration.Compute(rec.StartDate, rec.StartTime, now)

	images := rec.Images
	if images == nil {
		images = []model.PageImage{}
	}
	return PageResponse{
		Slug:            rec.Slug,
		CoupleName:      rec.CoupleName,
		Message:         rec.Message,
		StartDate:       rec.StartDate,
		StartTime:       rec.StartTime,
		Images:          images,
		YoutubeURL:      rec.YoutubeURL,
		TextColor:       rec.TextColor,
		BackgroundColor: rec.BackgroundColor,
		Background:      theme.Resolve(th),
		Plan:            rec.Plan,
		Lang:            lang,
		Duration:        duration.Calculate(rec.StartDate, rec.StartTime, lang, now),
		Elapsed:         elapsed,
		Links:           links,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

type DurationResponse struct {
	Text    string             `json:"text"`
	Elapsed duration.Breakdown `json:"elapsed"`
	Valid   bool               `json:"valid"`
}
