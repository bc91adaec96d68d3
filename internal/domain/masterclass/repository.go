package masterclass

import (
	"context"
	"time"

	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
)

// Repository stores registrations.
type Repository interface {
	Create(ctx context.Context, record *Record) error
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	IssueAccess(ctx context.Context, grant Grant, ttl time.Duration) (string, time.Time, error)
	VerifyAccess(ctx context.Context, token string) (*Grant, error)
}

// WebhookSender posts payloads to configured webhooks.
type WebhookSender interface {
	Send(ctx context.Context, target lead.Target, payload any) error
}

// Dispatcher runs fire-and-forget jobs outside the request.
type Dispatcher interface {
	Dispatch(name string, job func(ctx context.Context) error) bool
}
