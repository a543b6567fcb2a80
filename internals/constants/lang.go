// file: internals/constants/lang.go

package constants

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangPT = "pt-BR"
	LangEN = "en"
	LangES = "es"

	DefaultLang = LangPT
)

var (
	supportedLangs = []string{LangPT, LangEN, LangES}
	langMatcher    = language.NewMatcher([]language.Tag{
		language.BrazilianPortuguese,
		language.English,
		language.Spanish,
	})
)

// ResolveLang maps a tag or an Accept-Language header ("en-US,en;q=0.9")
// to one of the supported languages. Anything unknown falls back to pt-BR.
func ResolveLang(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return supportedLangs[idx]
}
