// file: internals/features/pages/theme/theme.go

// Package theme models a page background as either a catalog gradient or a raw hex color.
package theme

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var ErrInvalidTheme = errors.New("invalid theme")

// Theme is NamedTheme or CustomColor.
type Theme interface {
	// Raw is the value persisted in backgroundColor.
	Raw() string
	isTheme()
}

type NamedTheme struct{ ID string }

type CustomColor struct{ Hex string }

func (t NamedTheme) Raw() string  { return t.ID }
func (c CustomColor) Raw() string { return c.Hex }
func (NamedTheme) isTheme()       {}
func (CustomColor) isTheme()      {}

const DefaultThemeID = "romantic"

var gradients = map[string]string{
	"romantic": "linear-gradient(135deg, #ff758c 0%, #ff7eb3 100%)",
	"sunset":   "linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
	"ocean":    "linear-gradient(135deg, #2e3192 0%, #1bffff 100%)",
	"lavender": "linear-gradient(135deg, #a18cd1 0%, #fbc2eb 100%)",
	"forest":   "linear-gradient(135deg, #134e5e 0%, #71b280 100%)",
	"night":    "linear-gradient(135deg, #0f2027 0%, #203a43 50%, #2c5364 100%)",
	"gold":     "linear-gradient(135deg, #f7971e 0%, #ffd200 100%)",
	"classic":  "linear-gradient(135deg, #000000 0%, #434343 100%)",
}

var reHex = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6})$`)

// IsHexColor accepts #rgb and #rrggbb, any case.
func IsHexColor(s string) bool {
	return reHex.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// ParseTheme reads a persisted backgroundColor. Empty means the default theme.
func ParseTheme(raw string) (Theme, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NamedTheme{ID: DefaultThemeID}, nil
	}
	if strings.HasPrefix(raw, "#") {
		if !IsHexColor(raw) {
			return nil, ErrInvalidTheme
		}
		return CustomColor{Hex: strings.ToLower(raw)}, nil
	}
	id := strings.ToLower(raw)
	if _, ok := gradients[id]; !ok {
		return nil, ErrInvalidTheme
	}
	return NamedTheme{ID: id}, nil
}

// Resolve returns the CSS background value.
func Resolve(t Theme) string {
	switch v := t.(type) {
	case NamedTheme:
		if g, ok := gradients[v.ID]; ok {
			return g
		}
		return gradients[DefaultThemeID]
	case CustomColor:
		return v.Hex
	default:
		return gradients[DefaultThemeID]
	}
}

// Catalog lists the named theme ids, sorted.
func Catalog() []string {
	out := make([]string, 0, len(gradients))
	for id := range gradients {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
