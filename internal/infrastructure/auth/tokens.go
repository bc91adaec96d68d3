// Package auth signs and verifies the admin and replay access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/domain/masterclass"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const (
	audienceAdmin  = "masterclass-admin"
	audienceAccess = "masterclass-replay"
)

var errSecretMissing = errors.New("token secret not configured")

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type accessClaims struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
	FirmName string `json:"firm"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens. Admin and access tokens use separate secrets and audiences.
type Issuer struct {
	issuer       string
	adminSecret  []byte
	accessSecret []byte
	now          func() time.Time
}

// NewIssuer builds an issuer. Empty secrets disable the matching token kind.
func NewIssuer(issuer, adminSecret, accessSecret string) *Issuer {
	return &Issuer{
		issuer:       issuer,
		adminSecret:  []byte(adminSecret),
		accessSecret: []byte(accessSecret),
		now:          time.Now,
	}
}

func (i *Issuer) IssueAdmin(ctx context.Context, subject string, ttl time.Duration) (string, time.Time, error) {
	if len(i.adminSecret) == 0 {
		return "", time.Time{}, platformerrors.NewConfigurationError(ctx, platformerrors.LayerInfrastructure,
			"admin_token_secret_missing", "Admin token secret not configured", "auth-issue-admin-config-001")
	}
	now := i.now().UTC()
	expiresAt := now.Add(ttl)
	claims := adminClaims{
		Role:             admin.Role,
		RegisteredClaims: i.registered(subject, audienceAdmin, now, expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.adminSecret)
	if err != nil {
		return "", time.Time{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"failed to sign admin token", err, "auth-issue-admin-001")
	}
	return signed, expiresAt, nil
}

// VerifyAdmin checks an HS256 admin token.
func (i *Issuer) VerifyAdmin(ctx context.Context, raw string) (*admin.Principal, error) {
	var claims adminClaims
	if err := i.parse(raw, &claims, i.adminSecret, audienceAdmin); err != nil {
		return nil, unauthorized(ctx, "Invalid or expired admin token", err, "auth-verify-admin-001")
	}
	if claims.Role != admin.Role {
		return nil, unauthorized(ctx, "Admin role required", nil, "auth-verify-admin-002")
	}
	return &admin.Principal{Subject: claims.Subject, Role: claims.Role, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (i *Issuer) IssueAccess(ctx context.Context, grant masterclass.Grant, ttl time.Duration) (string, time.Time, error) {
	if len(i.accessSecret) == 0 {
		return "", time.Time{}, platformerrors.NewConfigurationError(ctx, platformerrors.LayerInfrastructure,
			"access_token_secret_missing", "Access token secret not configured", "auth-issue-access-config-001")
	}
	now := i.now().UTC()
	expiresAt := now.Add(ttl)
	claims := accessClaims{
		Email:            grant.Email,
		FullName:         grant.FullName,
		FirmName:         grant.FirmName,
		RegisteredClaims: i.registered(grant.Email, audienceAccess, now, expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
	if err != nil {
		return "", time.Time{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal,
			"failed to sign access token", err, "auth-issue-access-001")
	}
	return signed, expiresAt, nil
}

func (i *Issuer) VerifyAccess(ctx context.Context, raw string) (*masterclass.Grant, error) {
	var claims accessClaims
	if err := i.parse(raw, &claims, i.accessSecret, audienceAccess); err != nil {
		return nil, unauthorized(ctx, "Invalid or expired access token", err, "auth-verify-access-001")
	}
	return &masterclass.Grant{
		Email:     claims.Email,
		FullName:  claims.FullName,
		FirmName:  claims.FirmName,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (i *Issuer) registered(subject, audience string, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        idgen.NewRowID(),
	}
}

func (i *Issuer) parse(raw string, claims jwt.Claims, secret []byte, audience string) error {
	if len(secret) == 0 {
		return errSecretMissing
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func unauthorized(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUnauthorized, message, err, code)
}
