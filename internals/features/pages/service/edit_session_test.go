package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helperAuth "parasempre_backend/internals/helpers/auth"
)

type fakeGoogle struct {
	email string
	err   error
}

func (f fakeGoogle) VerifiedEmail(context.Context, string) (string, error) {
	return f.email, f.err
}

const testSecret = "test-secret"

func TestEditSessions_Code(t *testing.T) {
	m, docs, _ := newTestManager(t)
	ctx := context.Background()

	in := validInput()
	in.OwnerEmail = "ana@example.com"
	res, err := m.Create(ctx, in)
	require.NoError(t, err)

	sessions := NewEditSessions(docs, testSecret, nil)

	s, err := sessions.Open(ctx, res.Record.Slug, " "+res.EditCode+" ", "")
	require.NoError(t, err)
	assert.Equal(t, "code", s.Via)

	claims, err := helperAuth.ParseEditToken(testSecret, s.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Record.Slug, claims.Slug)

	_, err = sessions.Open(ctx, res.Record.Slug, "WRONG123", "")
	assert.ErrorIs(t, err, ErrEditDenied)

	_, err = sessions.Open(ctx, res.Record.Slug, "", "")
	assert.ErrorIs(t, err, ErrEditDenied)

	_, err = sessions.Open(ctx, "unknown", res.EditCode, "")
	assert.ErrorIs(t, err, ErrEditDenied)

	// google not configured
	_, err = sessions.Open(ctx, res.Record.Slug, "", "id-token")
	assert.ErrorIs(t, err, ErrEditDenied)
}

func TestEditSessions_Google(t *testing.T) {
	m, docs, _ := newTestManager(t)
	ctx := context.Background()

	in := validInput()
	in.OwnerEmail = "Ana@Example.com"
	res, err := m.Create(ctx, in)
	require.NoError(t, err)

	ok := NewEditSessions(docs, testSecret, fakeGoogle{email: "ana@example.com"})
	s, err := ok.Open(ctx, res.Record.Slug, "", "id-token")
	require.NoError(t, err)
	assert.Equal(t, "google", s.Via)

	other := NewEditSessions(docs, testSecret, fakeGoogle{email: "bia@example.com"})
	_, err = other.Open(ctx, res.Record.Slug, "", "id-token")
	assert.ErrorIs(t, err, ErrEditDenied)

	broken := NewEditSessions(docs, testSecret, fakeGoogle{err: errors.New("expired")})
	_, err = broken.Open(ctx, res.Record.Slug, "", "id-token")
	assert.ErrorIs(t, err, ErrEditDenied)
}

func TestNewGoogleVerifier_NilWithoutClientID(t *testing.T) {
	assert.Nil(t, NewGoogleVerifier(""))
	assert.NotNil(t, NewGoogleVerifier("client.apps.googleusercontent.com"))
}
