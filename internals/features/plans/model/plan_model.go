// file: internals/features/plans/model/plan_model.go

package model

import "strings"

const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
	PlanForever = "forever"
)

type MusicSuggestion struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	YoutubeURL string `json:"youtube_url"`
}

// Plan prices are in centavos.
type Plan struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	PhotoLimit       int               `json:"photo_limit"`
	AllowsMusic      bool              `json:"allows_music"`
	OriginalPrice    int64             `json:"original_price"`
	DiscountedPrice  int64             `json:"discounted_price"`
	MusicSuggestions []MusicSuggestion `json:"music_suggestions,omitempty"`
}

var suggestions = []MusicSuggestion{
	{Title: "Perfect", Artist: "Ed Sheeran", YoutubeURL: "https://www.youtube.com/watch?v=2Vv-BfVoq4g"},
	{Title: "Evidências", Artist: "Chitãozinho & Xororó", YoutubeURL: "https://www.youtube.com/watch?v=ePjtnSPFWK8"},
	{Title: "All of Me", Artist: "John Legend", YoutubeURL: "https://www.youtube.com/watch?v=450p7goxZqg"},
}

var catalog = []Plan{
	{
		ID:              PlanBasic,
		Title:           "Básico",
		PhotoLimit:      3,
		AllowsMusic:     false,
		OriginalPrice:   2990,
		DiscountedPrice: 1990,
	},
	{
		ID:               PlanPremium,
		Title:            "Premium",
		PhotoLimit:       7,
		AllowsMusic:      true,
		OriginalPrice:    4990,
		DiscountedPrice:  2990,
		MusicSuggestions: suggestions,
	},
	{
		ID:               PlanForever,
		Title:            "Para Sempre",
		PhotoLimit:       15,
		AllowsMusic:      true,
		OriginalPrice:    7990,
		DiscountedPrice:  4990,
		MusicSuggestions: suggestions,
	},
}

// All returns a copy of the catalog in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id string) (Plan, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
