package question

import (
	"context"
	"time"
)

// Repository defines the interface for question counters.
type Repository interface {
	// Increment inserts the text with frequency 1 or bumps the existing counter, atomically.
	Increment(ctx context.Context, text string, at time.Time) error
	// Top returns the most frequent questions.
	Top(ctx context.Context, limit int) ([]*PopularQuestion, error)
}
