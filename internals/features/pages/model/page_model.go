// file: internals/features/pages/model/page_model.go

package model

import (
	"sort"
	"time"
)

// Document-store collections.
const (
	CollectionPages   = "pages"
	CollectionSlugMap = "slug_map"
	CollectionOwners  = "page_owners"
	CollectionDrafts  = "drafts"
)

type PageImage struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
}

// PageRecord field names are the stored document shape; do not rename.
type PageRecord struct {
	Slug            string      `json:"slug"`
	CoupleName      string      `json:"coupleName"`
	Message         string      `json:"message"`
	StartDate       string      `json:"startDate"`
	StartTime       string      `json:"startTime,omitempty"`
	Images          []PageImage `json:"images"`
	YoutubeURL      string      `json:"youtubeUrl,omitempty"`
	TextColor       string      `json:"textColor"`
	BackgroundColor string      `json:"backgroundColor"`
	Plan            string      `json:"plan"`
	Lang            string      `json:"lang"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ImageURLs returns the URLs ordered by index.
func (p *PageRecord) ImageURLs() []string {
	p.SortImages()
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.URL)
	}
	return out
}

func (p *PageRecord) SortImages() {
	sort.SliceStable(p.Images, func(i, j int) bool { return p.Images[i].Index < p.Images[j].Index })
}

// SetImageURLs replaces the images, indexing them in order.
func (p *PageRecord) SetImageURLs(urls []string) {
	p.Images = make([]PageImage, 0, len(urls))
	for i, u := range urls {
		p.Images = append(p.Images, PageImage{URL: u, Index: i})
	}
}

// SlugMapEntry maps a legacy slug to the current page key.
type SlugMapEntry struct {
	ID string `json:"id"`
}

// PageOwner holds what is needed to open an edit session.
type PageOwner struct {
	EditCodeHash string `json:"editCodeHash"`
	Email        string `json:"email,omitempty"`
}
