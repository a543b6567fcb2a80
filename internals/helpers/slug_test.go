package helper

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+__[a-z0-9]+_[a-z0-9]{6}$`)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "joao maria", NormalizeName("  João & María "))
	assert.Equal(t, "ana clara beto", NormalizeName("Ana-Clara...Beto"))
	assert.Equal(t, "", NormalizeName("❤️ !!"))
}

func TestPageSlug_Shape(t *testing.T) {
	inputs := [][]string{
		{"Ana Clara", "Beto"},
		{"João e Maria"},
		{"Zoë"},
		{""},
		{"💕💕"},
		{"  Ünïcödé   Çöüplé  ", "Nº 1"},
	}
	for _, in := range inputs {
		s := PageSlug(in...)
		assert.Regexp(t, slugPattern, s, "input %v", in)
	}
}

func TestPageSlug_FirstAndLastWords(t *testing.T) {
	s := PageSlug("Ana Clara", "Beto")
	assert.Equal(t, "ana__beto_", s[:len("ana__beto_")])

	s = PageSlug("Zoë")
	assert.Equal(t, "zoe__zoe_", s[:len("zoe__zoe_")])

	s = PageSlug("")
	assert.Equal(t, "amor__amor_", s[:len("amor__amor_")])
}

func TestRandomToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok := RandomToken(6)
		assert.Regexp(t, `^[a-z0-9]{6}$`, tok)
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 45)
}
