package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

type mockIssuer struct {
	issueFn func(subject string, ttl time.Duration) (string, time.Time, error)
}

func (m mockIssuer) IssueAdmin(_ context.Context, subject string, ttl time.Duration) (string, time.Time, error) {
	return m.issueFn(subject, ttl)
}

var expiry = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newIssuer() mockIssuer {
	return mockIssuer{issueFn: func(subject string, ttl time.Duration) (string, time.Time, error) {
		return "signed." + subject, expiry, nil
	}}
}

func TestLoginSuccess(t *testing.T) {
	svc := NewService(newIssuer(), Config{Username: "operator", Password: "s3cret"}, zerolog.Nop())

	session, err := svc.Login(context.Background(), Credentials{Username: "operator", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "operator", session.Subject)
	assert.Equal(t, "signed.operator", session.Token)
	assert.Equal(t, expiry, session.ExpiresAt)
}

func TestLoginRejectsMismatch(t *testing.T) {
	svc := NewService(newIssuer(), Config{Username: "operator", Password: "s3cret"}, zerolog.Nop())

	for _, creds := range []Credentials{
		{Username: "operator", Password: "wrong"},
		{Username: "other", Password: "s3cret"},
		{},
	} {
		_, err := svc.Login(context.Background(), creds)
		perr := platformerrors.GetPlatformError(err)
		require.NotNil(t, perr)
		assert.Equal(t, platformerrors.ErrorTypeUnauthorized, perr.Type)
		assert.Equal(t, "Invalid username or password", perr.Message)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	svc := NewService(newIssuer(), Config{}, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Username: "", Password: ""})
	perr := platformerrors.GetPlatformError(err)
	require.NotNil(t, perr)
	assert.Equal(t, platformerrors.ErrorTypeConfiguration, perr.Type)
	assert.Equal(t, "admin_credentials_not_configured", perr.Reason)
}

func TestLoginIssuerFailure(t *testing.T) {
	issuer := mockIssuer{issueFn: func(string, time.Duration) (string, time.Time, error) {
		return "", time.Time{}, errors.New("no secret")
	}}
	svc := NewService(issuer, Config{Username: "a", Password: "b"}, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}

func TestDefaultTTL(t *testing.T) {
	var gotTTL time.Duration
	issuer := mockIssuer{issueFn: func(_ string, ttl time.Duration) (string, time.Time, error) {
		gotTTL = ttl
		return "t", expiry, nil
	}}
	svc := NewService(issuer, Config{Username: "a", Password: "b"}, zerolog.Nop())

	_, err := svc.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, gotTTL)
}
