package question

import (
	"context"
	"time"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Service tracks question frequency. Text is matched exactly; no normalization is applied.
type Service interface {
	Increment(ctx context.Context, text string) error
	Popular(ctx context.Context, limit int) ([]*PopularQuestion, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new question service.
func NewService(repo Repository) *DefaultService {
	return &DefaultService{repo: repo, now: time.Now}
}

func (s *DefaultService) Increment(ctx context.Context, text string) error {
	if text == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Question is required", nil, "question-increment-validation-001")
	}
	return s.repo.Increment(ctx, text, s.now().UTC())
}

func (s *DefaultService) Popular(ctx context.Context, limit int) ([]*PopularQuestion, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.Top(ctx, limit)
}
