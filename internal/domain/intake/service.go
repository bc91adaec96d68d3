package intake

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
	"github.com/aifirstlegal/masterclass-server/pkg/telemetry"
)

const (
	sourceWeb = "web"

	jobTrackQuestion = "question.increment"
	jobNotifyTurn    = "lead.notify_turn"
	jobFlushWebhook  = "lead.flush_webhook"
	jobFlushProfile  = "lead.flush_profile"
)

// Service drives the widget conversation.
type Service interface {
	StartSession(ctx context.Context, in StartInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	SendMessage(ctx context.Context, id string, in SendInput) (*TurnResult, error)
	Content() *Content
}

// Config holds the flow thresholds.
type Config struct {
	SourceMarkers []string
	TriggerTurns  int
	NotifyTurn    int
}

// DefaultService implements the Service interface.
type DefaultService struct {
	store      SessionStore
	completer  Completer
	tracker    QuestionTracker
	leads      LeadSink
	dispatcher Dispatcher
	content    *Content
	cfg        Config
	sanitizer  *telemetry.Sanitizer
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new intake service.
func NewService(
	store SessionStore,
	completer Completer,
	tracker QuestionTracker,
	leads LeadSink,
	dispatcher Dispatcher,
	content *Content,
	cfg Config,
	sanitizer *telemetry.Sanitizer,
	log zerolog.Logger,
) *DefaultService {
	if cfg.TriggerTurns <= 0 {
		cfg.TriggerTurns = 3
	}
	if cfg.NotifyTurn <= 0 {
		cfg.NotifyTurn = 5
	}
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelHashed, "")
	}
	return &DefaultService{
		store:      store,
		completer:  completer,
		tracker:    tracker,
		leads:      leads,
		dispatcher: dispatcher,
		content:    content,
		cfg:        cfg,
		sanitizer:  sanitizer,
		log:        log.With().Str("component", "intake-service").Logger(),
		now:        time.Now,
	}
}

func (s *DefaultService) Content() *Content {
	return s.content
}

func (s *DefaultService) StartSession(ctx context.Context, in StartInput) (*Session, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	source := strings.ToLower(strings.TrimSpace(in.Source))
	marked := s.isMarked(source)

	if idgen.IsSessionID(in.SessionID) {
		unlock, err := s.store.Lock(ctx, in.SessionID)
		if err != nil {
			return nil, err
		}
		defer unlock()

		existing, err := s.store.Get(ctx, in.SessionID)
		if err == nil {
			if s.resume(existing, source, marked, in.UserEmail) {
				existing.UpdatedAt = s.now().UTC()
				if err := s.store.Save(ctx, existing); err != nil {
					return nil, err
				}
			}
			return existing, nil
		}
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, err
		}
	}

	// Unknown ids are never adopted; the server always issues a fresh one.
	now := s.now().UTC()
	session := &Session{
		ID:        idgen.NewSessionID(),
		Source:    source,
		Marked:    marked,
		UserEmail: strings.TrimSpace(in.UserEmail),
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.appendMessage(session, RoleAssistant, KindGreeting, s.content.Greeting)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info().Str("session_id", session.ID).Str("source", source).Bool("marked", marked).Msg("intake session started")
	return session, nil
}

// resume applies values first seen on a reload. A marked session stays marked.
func (s *DefaultService) resume(session *Session, source string, marked bool, userEmail string) bool {
	changed := false
	if marked && !session.Marked {
		session.Marked = true
		session.Source = source
		changed = true
	}
	if email := strings.TrimSpace(userEmail); email != "" && session.UserEmail == "" {
		session.UserEmail = email
		changed = true
	}
	return changed
}

func (s *DefaultService) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *DefaultService) SendMessage(ctx context.Context, id string, in SendInput) (*TurnResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Message content is required", nil, "intake-send-validation-001")
	}

	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start := len(session.Transcript)
	result := &TurnResult{}

	s.trackQuestion(in.Content)

	if session.Collecting() {
		s.appendMessage(session, RoleUser, KindCollectionAnswer, in.Content)
		s.collect(session, in.Content, result)
	} else {
		s.appendMessage(session, RoleUser, KindQuestion, in.Content)
		session.UserTurns++
		s.answer(ctx, session, in, result)
		s.notifyOnTurn(session, result)
	}

	session.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	result.Messages = slices.Clone(session.Transcript[start:])
	result.Session = session
	result.ShowCallToAction = !session.Collecting() && s.content.ShowCallToAction(session.UserTurns)
	return result, nil
}

// collect stores an answer for the current step and moves to the next missing one.
func (s *DefaultService) collect(session *Session, answer string, result *TurnResult) {
	step := session.Current
	if !session.Contact.Set(step, answer) {
		s.log.Warn().Str("session_id", session.ID).Str("step", string(step)).Msg("field already set, keeping stored value")
	}

	next := nextMissing(session.Contact, step)
	if next != StepComplete {
		session.Current = next
		s.appendMessage(session, RoleAssistant, KindCollectionPrompt, s.content.Prompts[next])
		return
	}

	session.Current = StepComplete
	session.State = StateComplete
	s.appendMessage(session, RoleAssistant, KindCollectionDone, s.content.Completion)
	result.CollectionCompleted = true

	s.log.Info().
		Str("session_id", session.ID).
		Str("email", s.sanitizer.SanitizeEmail(session.Contact.Email)).
		Msg("contact collection complete")

	if session.Contact.Complete() && !session.Flushed {
		session.Flushed = true
		s.flush(session)
	} else if !session.Contact.Complete() {
		s.log.Error().Str("session_id", session.ID).Interface("missing", session.Contact.Missing()).Msg("collection ended with missing fields")
	}
}

// nextMissing returns the first unset step after current, or StepComplete.
func nextMissing(contact ContactInfo, current Step) Step {
	from := min(current.index()+1, len(FlowOrder))
	for _, step := range FlowOrder[from:] {
		if contact.Get(step) == "" {
			return step
		}
	}
	return StepComplete
}

// answer produces the assistant reply and evaluates the collection trigger.
func (s *DefaultService) answer(ctx context.Context, session *Session, in SendInput, result *TurnResult) {
	if in.Starter {
		if reply, ok := s.content.StarterAnswer(in.Content); ok {
			s.appendMessage(session, RoleAssistant, KindStarterAnswer, reply)
			s.maybeStartCollection(session, result)
			return
		}
	}

	reply, err := s.completer.Complete(ctx, chat.Request{
		Message:   in.Content,
		SessionID: session.ID,
		UserEmail: session.ContactEmail(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("session_id", session.ID).Msg("completion failed, sending fallback")
		s.appendMessage(session, RoleAssistant, KindFallback, s.content.Fallback)
		result.CompletionFailed = true
		return
	}

	s.appendMessage(session, RoleAssistant, KindReply, reply.Response)
	s.maybeStartCollection(session, result)
}

func (s *DefaultService) maybeStartCollection(session *Session, result *TurnResult) {
	if !session.Marked || session.Collecting() || session.UserTurns < s.cfg.TriggerTurns {
		return
	}
	missing := session.Contact.Missing()
	if len(missing) == 0 {
		return
	}

	session.State = StateAwaitingAnswer
	session.Current = missing[0]
	s.appendMessage(session, RoleAssistant, KindCollectionPrompt, s.content.Prompts[missing[0]])
	result.CollectionStarted = true
	s.log.Info().Str("session_id", session.ID).Str("step", string(missing[0])).Msg("contact collection started")
}

func (s *DefaultService) notifyOnTurn(session *Session, result *TurnResult) {
	if session.Notified || session.UserTurns != s.cfg.NotifyTurn {
		return
	}
	session.Notified = true
	result.Notified = true

	payload := s.contactPayload(session)
	payload.Email = session.ContactEmail()
	payload.Trigger = lead.TriggerTurnThreshold

	s.dispatch(jobNotifyTurn, func(ctx context.Context) error {
		return s.leads.NotifyContact(ctx, payload)
	})
}

func (s *DefaultService) flush(session *Session) {
	payload := s.contactPayload(session)
	profile := lead.Profile{
		Email:        session.Contact.Email,
		FullName:     session.Contact.FullName,
		Phone:        session.Contact.Phone,
		LawFirmName:  session.Contact.LawFirmName,
		PracticeType: session.Contact.PracticeType,
		Source:       payload.Source,
	}

	s.dispatch(jobFlushWebhook, func(ctx context.Context) error {
		return s.leads.NotifyContact(ctx, payload)
	})
	s.dispatch(jobFlushProfile, func(ctx context.Context) error {
		_, err := s.leads.UpsertProfile(ctx, profile)
		return err
	})
}

func (s *DefaultService) contactPayload(session *Session) lead.ContactPayload {
	return lead.ContactPayload{
		FullName:     session.Contact.FullName,
		Email:        session.Contact.Email,
		Phone:        session.Contact.Phone,
		LawFirmName:  session.Contact.LawFirmName,
		PracticeType: session.Contact.PracticeType,
		Source:       s.sourceLabel(session),
	}
}

func (s *DefaultService) sourceLabel(session *Session) string {
	if session.Marked && session.Source != "" {
		return session.Source
	}
	return sourceWeb
}

func (s *DefaultService) trackQuestion(text string) {
	if s.tracker == nil {
		return
	}
	s.dispatch(jobTrackQuestion, func(ctx context.Context) error {
		return s.tracker.Increment(ctx, text)
	})
}

func (s *DefaultService) dispatch(name string, job func(ctx context.Context) error) {
	if s.dispatcher == nil {
		return
	}
	if !s.dispatcher.Dispatch(name, job) {
		s.log.Warn().Str("job", name).Msg("side effect dropped")
	}
}

func (s *DefaultService) isMarked(source string) bool {
	return source != "" && slices.Contains(s.cfg.SourceMarkers, source)
}

func (s *DefaultService) appendMessage(session *Session, role Role, kind MessageKind, content string) {
	session.Transcript = append(session.Transcript, Message{
		ID:        idgen.NewMessageID(),
		Role:      role,
		Content:   content,
		Kind:      kind,
		Timestamp: s.now().UTC(),
	})
}
