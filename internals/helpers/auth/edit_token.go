// file: internals/helpers/auth/edit_token.go

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	ScopePageEdit = "page_edit"
	EditTokenTTL  = 2 * time.Hour
)

var (
	ErrMissingSecret = errors.New("missing JWT secret")
	ErrInvalidToken  = errors.New("invalid edit token")
)

// EditClaims authorises edits of a single page.
type EditClaims struct {
	Slug  string `json:"slug"`
	Scope string `json:"scope"`
	Via   string `json:"via,omitempty"` // "code" | "google"
	jwt.RegisteredClaims
}

func IssueEditToken(secret, slug, via string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = EditTokenTTL
	}
	exp := now.Add(ttl)
	claims := EditClaims{
		Slug:  slug,
		Scope: ScopePageEdit,
		Via:   via,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   slug,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign edit token: %w", err)
	}
	return signed, exp, nil
}

// ParseEditToken verifies signature, algorithm, expiry and scope.
func ParseEditToken(secret, raw string) (*EditClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	claims := &EditClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Scope != ScopePageEdit || claims.Slug == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
