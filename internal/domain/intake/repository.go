package intake

import (
	"context"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
)

// SessionStore persists sessions and serializes turns per session.
type SessionStore interface {
	// Get returns a NOT_FOUND platform error for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	// Lock blocks until the session lock is held.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

// Completer answers free-form questions.
type Completer interface {
	Complete(ctx context.Context, req chat.Request) (*chat.Reply, error)
}

// QuestionTracker counts question frequency.
type QuestionTracker interface {
	Increment(ctx context.Context, text string) error
}

// LeadSink receives collected contact details.
type LeadSink interface {
	NotifyContact(ctx context.Context, payload lead.ContactPayload) error
	UpsertProfile(ctx context.Context, profile lead.Profile) (*lead.Profile, error)
}

// Dispatcher runs fire-and-forget jobs outside the request.
type Dispatcher interface {
	Dispatch(name string, job func(ctx context.Context) error) bool
}
