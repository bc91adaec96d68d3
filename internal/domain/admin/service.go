package admin

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// TokenIssuer signs admin tokens.
type TokenIssuer interface {
	IssueAdmin(ctx context.Context, subject string, ttl time.Duration) (string, time.Time, error)
}

// Service handles admin login.
type Service interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
}

// Config holds the operator credentials.
type Config struct {
	Username string
	Password string
	TokenTTL time.Duration
}

// DefaultService implements the Service interface.
type DefaultService struct {
	tokens TokenIssuer
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a new admin service.
func NewService(tokens TokenIssuer, cfg Config, log zerolog.Logger) *DefaultService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &DefaultService{
		tokens: tokens,
		cfg:    cfg,
		log:    log.With().Str("component", "admin-service").Logger(),
	}
}

func (s *DefaultService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if s.cfg.Username == "" || s.cfg.Password == "" || s.tokens == nil {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerDomain,
			"admin_credentials_not_configured", "Admin login is not configured", "admin-login-config-001")
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		s.log.Warn().Msg("admin login rejected")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"Invalid username or password", nil, "admin-login-unauthorized-001")
	}

	token, expiresAt, err := s.tokens.IssueAdmin(ctx, s.cfg.Username, s.cfg.TokenTTL)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to issue admin token")
	}

	s.log.Info().Time("expires_at", expiresAt).Msg("admin logged in")
	return &Session{Subject: s.cfg.Username, Token: token, ExpiresAt: expiresAt}, nil
}
