// file: internals/helpers/slug.go

package helper

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	SlugSuffixLen   = 6
	SlugDefaultWord = "amor"
	slugAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeName strips diacritics (é → e), lowercases and collapses every
// non-[a-z0-9] run into a single space.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) { // mark nonspacing
			continue
		}
		buf = append(buf, r)
	}

	s = reNonAlnum.ReplaceAllString(string(buf), " ")
	return strings.TrimSpace(s)
}

// PageSlug builds "first__last_xxxxxx" from the couple name(s):
// first and last normalized words plus a random [a-z0-9]{6} suffix.
// "Ana Clara", "Beto" → "ana__beto_k3j9x0".
func PageSlug(names ...string) string {
	words := strings.Fields(NormalizeName(strings.Join(names, " ")))

	first, last := SlugDefaultWord, SlugDefaultWord
	if len(words) > 0 {
		first = words[0]
		last = words[len(words)-1]
	}
	return first + "__" + last + "_" + RandomToken(SlugSuffixLen)
}

// RandomToken returns n random chars from [a-z0-9].
func RandomToken(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = slugAlphabet[i%len(slugAlphabet)]
			continue
		}
		out[i] = slugAlphabet[idx.Int64()]
	}
	return string(out)
}
