package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
	"github.com/aifirstlegal/masterclass-server/pkg/telemetry"
)

// Service forwards leads and maintains profiles.
type Service interface {
	// Forward relays a JSON object to the lead webhook byte for byte and returns the upstream body.
	Forward(ctx context.Context, payload json.RawMessage) ([]byte, error)
	// Send posts payload to the webhook configured for target.
	Send(ctx context.Context, target Target, payload any) error
	NotifyContact(ctx context.Context, payload ContactPayload) error
	UpsertProfile(ctx context.Context, profile Profile) (*Profile, error)
}

// Config maps webhook targets to URLs.
type Config struct {
	URLs map[Target]string
}

// DefaultService implements the Service interface.
type DefaultService struct {
	poster      Poster
	profiles    ProfileRepository
	submissions SubmissionRepository
	cfg         Config
	sanitizer   *telemetry.Sanitizer
	log         zerolog.Logger
	now         func() time.Time
}

// NewService creates a new lead service. submissions may be nil.
func NewService(poster Poster, profiles ProfileRepository, submissions SubmissionRepository, cfg Config, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *DefaultService {
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelHashed, "")
	}
	return &DefaultService{
		poster:      poster,
		profiles:    profiles,
		submissions: submissions,
		cfg:         cfg,
		sanitizer:   sanitizer,
		log:         log.With().Str("component", "lead-service").Logger(),
		now:         time.Now,
	}
}

func (s *DefaultService) url(target Target) string {
	return strings.TrimSpace(s.cfg.URLs[target])
}

// IsJSONObject reports whether raw is a single well-formed JSON object.
func IsJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

func (s *DefaultService) Forward(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	if !IsJSONObject(payload) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Form data must be a JSON object", nil, "lead-forward-validation-001")
	}
	url := s.url(TargetLead)
	if url == "" {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerDomain,
			"lead_webhook_not_configured", "Lead webhook URL not configured", "lead-forward-config-001")
	}

	// Raw bytes go out untouched; a decoded map would reorder keys and round numbers.
	delivery, err := s.poster.PostJSON(ctx, url, []byte(payload))
	s.record(ctx, TargetLead, payload, delivery, err)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"Failed to submit form data", err, "lead-forward-upstream-001")
	}
	if delivery == nil || len(strings.TrimSpace(string(delivery.Body))) == 0 {
		return []byte(`{"success":true}`), nil
	}
	return delivery.Body, nil
}

func (s *DefaultService) Send(ctx context.Context, target Target, payload any) error {
	url := s.url(target)
	if url == "" {
		return platformerrors.NewConfigurationError(ctx, platformerrors.LayerDomain,
			fmt.Sprintf("%s_webhook_not_configured", target), fmt.Sprintf("%s webhook URL not configured", target), "lead-send-config-001")
	}

	delivery, err := s.poster.PostJSON(ctx, url, payload)
	s.record(ctx, target, payload, delivery, err)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("%s webhook delivery failed", target), err, "lead-send-upstream-001")
	}
	return nil
}

func (s *DefaultService) NotifyContact(ctx context.Context, payload ContactPayload) error {
	s.log.Info().
		Str("email", s.sanitizer.SanitizeEmail(payload.Email)).
		Str("source", payload.Source).
		Str("trigger", payload.Trigger).
		Msg("sending contact notification")
	return s.Send(ctx, TargetLead, payload)
}

func (s *DefaultService) UpsertProfile(ctx context.Context, profile Profile) (*Profile, error) {
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"email is required to store a profile", nil, "lead-profile-validation-001")
	}
	now := s.now().UTC()
	if profile.ID == "" {
		profile.ID = idgen.NewRowID()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := s.profiles.UpsertByEmail(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *DefaultService) record(ctx context.Context, target Target, payload any, delivery *Delivery, sendErr error) {
	if s.submissions == nil {
		return
	}
	sub := &Submission{
		ID:        idgen.NewRowID(),
		Target:    target,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if delivery != nil {
		sub.StatusCode = delivery.StatusCode
	}
	if sendErr != nil {
		sub.Error = sendErr.Error()
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		s.log.Warn().Err(err).Str("target", string(target)).Msg("failed to record form submission")
	}
}
