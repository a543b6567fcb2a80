// file: internals/features/pages/service/edit_session.go

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/crypto/bcrypt"

	"parasempre_backend/internals/features/pages/model"
	helperAuth "parasempre_backend/internals/helpers/auth"
	"parasempre_backend/internals/helpers/docstore"
)

// GoogleVerifier returns the verified email of a Google ID token.
type GoogleVerifier interface {
	VerifiedEmail(ctx context.Context, idToken string) (string, error)
}

type googleIDTokenVerifier struct {
	clientID string
}

// NewGoogleVerifier checks tokens against GOOGLE_CLIENT_ID. Nil when unset.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return &googleIDTokenVerifier{clientID: clientID}
}

func (g *googleIDTokenVerifier) VerifiedEmail(_ context.Context, idToken string) (string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return "", err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", err
	}
	if claimSet.Email == "" {
		return "", errors.New("id token has no email")
	}
	return strings.ToLower(claimSet.Email), nil
}

// EditSessions trades an edit code or a Google login for a page-scoped token.
type EditSessions struct {
	Docs   docstore.Store
	Secret string
	TTL    time.Duration
	Google GoogleVerifier

	now func() time.Time
}

func NewEditSessions(docs docstore.Store, secret string, google GoogleVerifier) *EditSessions {
	return &EditSessions{Docs: docs, Secret: secret, TTL: helperAuth.EditTokenTTL, Google: google, now: time.Now}
}

type EditSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Via       string    `json:"via"`
}

func (s *EditSessions) Open(ctx context.Context, slug, editCode, googleIDToken string) (EditSession, error) {
	var owner model.PageOwner
	found, err := s.Docs.Get(ctx, model.CollectionOwners, slug, &owner)
	if err != nil {
		return EditSession{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if !found {
		return EditSession{}, ErrEditDenied
	}

	var via string
	switch {
	case strings.TrimSpace(editCode) != "":
		code := strings.ToUpper(strings.TrimSpace(editCode))
		if bcrypt.CompareHashAndPassword([]byte(owner.EditCodeHash), []byte(code)) != nil {
			return EditSession{}, ErrEditDenied
		}
		via = "code"
	case strings.TrimSpace(googleIDToken) != "":
		if s.Google == nil || owner.Email == "" {
			return EditSession{}, ErrEditDenied
		}
		email, err := s.Google.VerifiedEmail(ctx, googleIDToken)
		if err != nil || !strings.EqualFold(email, owner.Email) {
			return EditSession{}, ErrEditDenied
		}
		via = "google"
	default:
		return EditSession{}, ErrEditDenied
	}

	token, exp, err := helperAuth.IssueEditToken(s.Secret, slug, via, s.TTL, s.now())
	if err != nil {
		return EditSession{}, err
	}
	return EditSession{Token: token, ExpiresAt: exp, Via: via}, nil
}
