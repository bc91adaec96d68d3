package chatlog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for chat-log persistence and aggregation.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error

	// Search matches query case-insensitively against user message, reply and email.
	// An empty query returns the newest entries.
	Search(ctx context.Context, query string, limit int) ([]*Entry, error)

	CountAll(ctx context.Context) (int64, error)
	// CountUniqueUsers counts distinct user emails, falling back to session id for empty emails.
	CountUniqueUsers(ctx context.Context) (int64, error)
	CountUniqueSessions(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	AverageResponseTime(ctx context.Context) (decimal.Decimal, error)

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
