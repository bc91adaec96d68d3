package masterclass

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
	"github.com/aifirstlegal/masterclass-server/pkg/telemetry"
)

const (
	directAccessEmail = "direct-access@temp.com"
	socialAccessEmail = "social-user@temp.com"

	jobLeadWebhook   = "masterclass.lead_webhook"
	jobAccessWebhook = "masterclass.access_webhook"
)

var autoGrantSources = []string{"fb", "training"}

// Service registers visitors and manages their access grants.
type Service interface {
	Register(ctx context.Context, reg Registration) (*Grant, error)
	GrantFromParams(ctx context.Context, params Params) (*Grant, error)
	VerifyAccess(ctx context.Context, token string) (*Grant, error)
	Schema() *jsonschema.Schema
}

// Config controls validation and grant lifetime.
type Config struct {
	AccessTTL      time.Duration
	BlockedDomains []string
	// LeadSkipSources are sources whose registrations are not mirrored to the lead webhook.
	LeadSkipSources []string
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo       Repository
	tokens     TokenIssuer
	webhooks   WebhookSender
	dispatcher Dispatcher
	validate   *validator.Validate
	cfg        Config
	sanitizer  *telemetry.Sanitizer
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new masterclass service.
func NewService(repo Repository, tokens TokenIssuer, webhooks WebhookSender, dispatcher Dispatcher, cfg Config, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *DefaultService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 48 * time.Hour
	}
	if cfg.LeadSkipSources == nil {
		cfg.LeadSkipSources = []string{"fb"}
	}
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelHashed, "")
	}
	validate, err := newValidator(cfg.BlockedDomains)
	if err != nil {
		// Only reachable with a malformed rule tag.
		panic(err)
	}
	return &DefaultService{
		repo:       repo,
		tokens:     tokens,
		webhooks:   webhooks,
		dispatcher: dispatcher,
		validate:   validate,
		cfg:        cfg,
		sanitizer:  sanitizer,
		log:        log.With().Str("component", "masterclass-service").Logger(),
		now:        time.Now,
	}
}

func (s *DefaultService) Register(ctx context.Context, reg Registration) (*Grant, error) {
	reg = trimRegistration(reg)
	if err := s.validate.Struct(reg); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Please correct the highlighted fields", err, "masterclass-register-validation-001").
			WithDetails(toFieldErrors(err))
	}

	now := s.now().UTC()
	registrationPayload := map[string]any{
		"fullName":     reg.FullName,
		"email":        reg.Email,
		"phone":        reg.Phone,
		"firmName":     reg.FirmName,
		"practiceArea": reg.PracticeArea,
		"timestamp":    now.Format(time.RFC3339),
	}
	if err := s.webhooks.Send(ctx, lead.TargetRegistration, registrationPayload); err != nil {
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConfiguration) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				"Registration could not be submitted, please try again", err, "masterclass-register-webhook-001")
		}
		s.log.Warn().Msg("registration webhook not configured, skipping")
	}

	if !s.skipLead(reg.Source) {
		leadPayload := map[string]any{
			"full_name":     reg.FullName,
			"email":         reg.Email,
			"phone":         reg.Phone,
			"practice_area": reg.PracticeArea,
			"firm_name":     reg.FirmName,
			"source":        AccessSourceForm,
		}
		s.dispatch(jobLeadWebhook, func(ctx context.Context) error {
			return s.webhooks.Send(ctx, lead.TargetLead, leadPayload)
		})
	}

	grant := Grant{Email: reg.Email, FullName: reg.FullName, FirmName: reg.FirmName}
	if err := s.issue(ctx, &grant); err != nil {
		return nil, err
	}

	if s.repo != nil {
		record := &Record{
			ID:              idgen.NewRowID(),
			FullName:        reg.FullName,
			Email:           reg.Email,
			Phone:           reg.Phone,
			FirmName:        reg.FirmName,
			PracticeArea:    reg.PracticeArea,
			Source:          reg.Source,
			AccessExpiresAt: grant.ExpiresAt,
			CreatedAt:       now,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			s.log.Error().Err(err).Str("email", s.sanitizer.SanitizeEmail(reg.Email)).Msg("failed to store registration")
		}
	}

	s.notifyAccess(grant, AccessSourceForm)
	s.log.Info().Str("email", s.sanitizer.SanitizeEmail(reg.Email)).Time("expires_at", grant.ExpiresAt).Msg("masterclass access granted")
	return &grant, nil
}

func (s *DefaultService) GrantFromParams(ctx context.Context, params Params) (*Grant, error) {
	var grant Grant
	source := strings.ToLower(strings.TrimSpace(params.Source))
	switch {
	case strings.TrimSpace(params.Email) != "":
		grant = Grant{Email: strings.TrimSpace(params.Email)}
	case params.Access:
		grant = Grant{Email: directAccessEmail, FullName: "Direct Access User", FirmName: "Workshop Access"}
	case containsFold(autoGrantSources, source):
		grant = Grant{Email: socialAccessEmail, FullName: "Workshop Attendee", FirmName: "Law Firm"}
	default:
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"Registration is required to access the replay", nil, "masterclass-grant-forbidden-001")
	}

	if err := s.issue(ctx, &grant); err != nil {
		return nil, err
	}
	s.notifyAccess(grant, AccessSourceURL)
	return &grant, nil
}

func (s *DefaultService) VerifyAccess(ctx context.Context, token string) (*Grant, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"Access token is required", nil, "masterclass-verify-unauthorized-001")
	}
	grant, err := s.tokens.VerifyAccess(ctx, token)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"Access has expired, please register again", err, "masterclass-verify-unauthorized-002")
	}
	return grant, nil
}

// Schema describes the registration form for clients that render it dynamically.
func (s *DefaultService) Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	schema := r.Reflect(&Registration{})
	schema.Title = "Masterclass registration"
	return schema
}

func (s *DefaultService) issue(ctx context.Context, grant *Grant) error {
	token, expiresAt, err := s.tokens.IssueAccess(ctx, *grant, s.cfg.AccessTTL)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to issue access token")
	}
	grant.Token = token
	grant.ExpiresAt = expiresAt
	return nil
}

func (s *DefaultService) notifyAccess(grant Grant, source string) {
	payload := map[string]any{
		"email":         grant.Email,
		"fullName":      grant.FullName,
		"firmName":      grant.FirmName,
		"accessGranted": s.now().UTC().Format(time.RFC3339),
		"source":        source,
	}
	s.dispatch(jobAccessWebhook, func(ctx context.Context) error {
		return s.webhooks.Send(ctx, lead.TargetAccess, payload)
	})
}

func (s *DefaultService) skipLead(source string) bool {
	return containsFold(s.cfg.LeadSkipSources, strings.TrimSpace(source))
}

func (s *DefaultService) dispatch(name string, job func(ctx context.Context) error) {
	if s.dispatcher == nil {
		return
	}
	if !s.dispatcher.Dispatch(name, job) {
		s.log.Warn().Str("job", name).Msg("side effect dropped")
	}
}

func trimRegistration(reg Registration) Registration {
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.FirmName = strings.TrimSpace(reg.FirmName)
	reg.PracticeArea = strings.TrimSpace(reg.PracticeArea)
	reg.Source = strings.TrimSpace(reg.Source)
	return reg
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
