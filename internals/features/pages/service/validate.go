// file: internals/features/pages/service/validate.go

package service

import (
	"net/url"
	"strings"
	"time"

	"parasempre_backend/internals/constants"
	"parasempre_backend/internals/features/pages/theme"
	planModel "parasempre_backend/internals/features/plans/model"
	"parasempre_backend/internals/helpers/dbtime"
)

const (
	DefaultTextColor = "#ffffff"
	maxCoupleName    = 120
	maxMessage       = 5000
)

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Fields is the editable content of a page after trimming.
type Fields struct {
	CoupleName      string
	Message         string
	StartDate       string
	StartTime       string
	YoutubeURL      string
	TextColor       string
	BackgroundColor string
	Lang            string
}

func (f *Fields) normalize() {
	f.CoupleName = strings.TrimSpace(f.CoupleName)
	f.Message = strings.TrimSpace(f.Message)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.YoutubeURL = strings.TrimSpace(f.YoutubeURL)
	f.TextColor = strings.ToLower(strings.TrimSpace(f.TextColor))
	f.BackgroundColor = strings.TrimSpace(f.BackgroundColor)
	if f.TextColor == "" {
		f.TextColor = DefaultTextColor
	}
	f.Lang = constants.ResolveLang(f.Lang)
}

func validateFields(f *Fields, plan planModel.Plan) error {
	f.normalize()

	if f.CoupleName == "" || len([]rune(f.CoupleName)) > maxCoupleName {
		return invalid("coupleName", constants.MsgCoupleNameRequired)
	}
	if len([]rune(f.Message)) > maxMessage {
		f.Message = string([]rune(f.Message)[:maxMessage])
	}
	if _, err := dbtime.ParseDate(f.StartDate, time.UTC); err != nil {
		return invalid("startDate", constants.MsgInvalidStartDate)
	}
	if f.StartTime != "" {
		tod, err := dbtime.Parse(f.StartTime)
		if err != nil {
			return invalid("startTime", constants.MsgInvalidStartTime)
		}
		f.StartTime = tod.Format("15:04")
		if tod.Second() != 0 {
			f.StartTime = tod.String()
		}
	}
	if f.YoutubeURL != "" {
		if !plan.AllowsMusic {
			return invalid("youtubeUrl", constants.MsgMusicNotAllowed)
		}
		if !IsYoutubeURL(f.YoutubeURL) {
			return invalid("youtubeUrl", constants.MsgInvalidVideoURL)
		}
	}
	if !theme.IsHexColor(f.TextColor) {
		return invalid("textColor", constants.MsgInvalidColor)
	}
	th, err := theme.ParseTheme(f.BackgroundColor)
	if err != nil {
		return invalid("backgroundColor", constants.MsgInvalidTheme)
	}
	f.BackgroundColor = th.Raw()
	return nil
}

func IsYoutubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	return youtubeHosts[strings.ToLower(u.Hostname())]
}
