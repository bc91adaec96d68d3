package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
)

// ExternalConfig describes the identity provider whose RS256 tokens are accepted for admins.
// Issuer and Audience are enforced when set.
type ExternalConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// AdminVerifier accepts HS256 tokens from the login endpoint and, when a JWKS URL is
// configured, RS256 tokens from an external identity provider carrying the admin role.
type AdminVerifier struct {
	issuer   *Issuer
	external ExternalConfig
	jwks     *keyfunc.JWKS
	keyFunc  jwt.Keyfunc
	log      zerolog.Logger
}

// NewAdminVerifier fetches the JWKS when external.JWKSURL is set.
func NewAdminVerifier(ctx context.Context, issuer *Issuer, external ExternalConfig, log zerolog.Logger) (*AdminVerifier, error) {
	v := &AdminVerifier{
		issuer:   issuer,
		external: external,
		log:      log.With().Str("component", "admin-verifier").Logger(),
	}
	if external.JWKSURL == "" {
		return v, nil
	}
	if external.Issuer == "" || external.Audience == "" {
		v.log.Warn().Msg("external admin tokens are accepted without issuer or audience checks")
	}
	jwks, err := keyfunc.Get(external.JWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	v.jwks = jwks
	v.keyFunc = jwks.Keyfunc
	return v, nil
}

// Verify returns the admin principal for raw.
func (v *AdminVerifier) Verify(ctx context.Context, raw string) (*admin.Principal, error) {
	alg, err := signingAlg(raw)
	if err != nil {
		return nil, unauthorized(ctx, "Invalid admin token", err, "auth-verify-admin-003")
	}
	if alg == jwt.SigningMethodRS256.Alg() && v.keyFunc != nil {
		return v.verifyExternal(ctx, raw)
	}
	return v.issuer.VerifyAdmin(ctx, raw)
}

func (v *AdminVerifier) verifyExternal(ctx context.Context, raw string) (*admin.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired()}
	if v.external.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.external.Issuer))
	}
	if v.external.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.external.Audience))
	}
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, jwt.MapClaims{}, v.keyFunc)
	if err != nil {
		return nil, unauthorized(ctx, "Invalid admin token", err, "auth-verify-external-001")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, unauthorized(ctx, "Invalid admin token", errors.New("invalid claims"), "auth-verify-external-002")
	}
	if !hasAdminRole(claims) {
		return nil, unauthorized(ctx, "Admin role required", nil, "auth-verify-external-003")
	}

	subject, _ := claims.GetSubject()
	if name, ok := claims["preferred_username"].(string); ok && name != "" {
		subject = name
	}
	principal := &admin.Principal{Subject: subject, Role: admin.Role}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		principal.ExpiresAt = exp.Time
	}
	return principal, nil
}

// Close stops the JWKS refresh goroutine.
func (v *AdminVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func signingAlg(raw string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return "", err
	}
	return token.Method.Alg(), nil
}

func hasAdminRole(claims jwt.MapClaims) bool {
	if role, ok := claims["role"].(string); ok && role == admin.Role {
		return true
	}
	if roles, ok := claims["roles"].([]any); ok && containsRole(roles) {
		return true
	}
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := realm["roles"].([]any); ok && containsRole(roles) {
			return true
		}
	}
	return false
}

func containsRole(roles []any) bool {
	return slices.ContainsFunc(roles, func(r any) bool {
		s, ok := r.(string)
		return ok && s == admin.Role
	})
}
