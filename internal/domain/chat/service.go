package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Service answers chat messages.
type Service interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
}

// Config controls prompt assembly.
type Config struct {
	// StoreConfigured is false when no database was configured.
	StoreConfigured bool
	KnowledgeLimit  int
}

// DefaultService implements the Service interface.
type DefaultService struct {
	completer    Completer
	instructions InstructionSource
	knowledge    KnowledgeSource
	recorder     Recorder
	cfg          Config
	log          zerolog.Logger
	now          func() time.Time
}

// NewService creates a new chat service.
func NewService(completer Completer, instructions InstructionSource, knowledge KnowledgeSource, recorder Recorder, cfg Config, log zerolog.Logger) *DefaultService {
	if cfg.KnowledgeLimit <= 0 {
		cfg.KnowledgeLimit = 5
	}
	return &DefaultService{
		completer:    completer,
		instructions: instructions,
		knowledge:    knowledge,
		recorder:     recorder,
		cfg:          cfg,
		log:          log.With().Str("component", "chat-service").Logger(),
		now:          time.Now,
	}
}

func (s *DefaultService) Complete(ctx context.Context, req Request) (*Reply, error) {
	if req.Message == "" || req.SessionID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Message and sessionId are required", nil, "chat-complete-validation-001")
	}
	if !s.cfg.StoreConfigured {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerDomain,
			"database_not_configured", "Server configuration error", "chat-complete-config-001")
	}
	if s.completer == nil || !s.completer.Configured() {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerDomain,
			ReasonCompletionKeyMissing, "OpenRouter API key not configured", "chat-complete-config-002")
	}

	prompt := s.SystemPrompt(ctx)
	s.log.Debug().Int("system_prompt_length", len(prompt)).Str("session_id", req.SessionID).Msg("requesting completion")

	start := s.now()
	result, err := s.completer.Complete(ctx, CompletionRequest{SystemPrompt: prompt, UserMessage: req.Message})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"Failed to process chat request", err, "chat-complete-upstream-001")
	}
	elapsed := s.now().Sub(start).Milliseconds()

	reply := &Reply{
		Response:       result.Content,
		ResponseTimeMs: elapsed,
		TokensUsed:     result.TokensUsed,
	}

	if s.recorder != nil {
		entry := &chatlog.Entry{
			SessionID:      req.SessionID,
			UserMessage:    req.Message,
			AIResponse:     result.Content,
			ResponseTimeMs: elapsed,
			TokensUsed:     result.TokensUsed,
			UserEmail:      req.UserEmail,
		}
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to save chat analytics")
		}
	}

	return reply, nil
}

// SystemPrompt assembles instructions and knowledge content. Lookup failures fall back silently.
func (s *DefaultService) SystemPrompt(ctx context.Context) string {
	prompt := DefaultSystemPrompt

	if s.instructions != nil {
		texts, err := s.instructions.ActiveTexts(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to fetch chatbot instructions")
		} else if len(texts) > 0 {
			prompt = strings.Join(texts, "\n")
		}
	}

	if s.knowledge != nil {
		contents, err := s.knowledge.ActiveContents(ctx, s.cfg.KnowledgeLimit)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to fetch knowledge base")
		} else if len(contents) > 0 {
			prompt += knowledgeHeader + strings.Join(contents, "\n\n")
		}
	}

	return prompt
}
