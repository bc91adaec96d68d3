package instruction

import (
	"context"
	"strings"
	"time"

	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Service defines instruction management for the admin views and prompt assembly.
type Service interface {
	List(ctx context.Context) ([]*Instruction, error)
	Create(ctx context.Context, params CreateParams) (*Instruction, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Instruction, error)
	// Toggle flips the active flag and returns the updated instruction.
	Toggle(ctx context.Context, id string) (*Instruction, error)
	Delete(ctx context.Context, id string) error
	// ActiveTexts returns the text of active instructions in priority order.
	ActiveTexts(ctx context.Context) ([]string, error)
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new instruction service.
func NewService(repo Repository) *DefaultService {
	return &DefaultService{repo: repo, now: time.Now}
}

func (s *DefaultService) List(ctx context.Context) ([]*Instruction, error) {
	return s.repo.List(ctx)
}

func (s *DefaultService) Create(ctx context.Context, params CreateParams) (*Instruction, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"instruction_text is required", nil, "instruction-create-validation-001")
	}

	active := true
	if params.IsActive != nil {
		active = *params.IsActive
	}

	now := s.now().UTC()
	inst := &Instruction{
		ID:        idgen.NewRowID(),
		Text:      text,
		Priority:  params.Priority,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *DefaultService) Update(ctx context.Context, id string, params UpdateParams) (*Instruction, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Text != nil {
		text := strings.TrimSpace(*params.Text)
		if text == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"instruction_text cannot be empty", nil, "instruction-update-validation-001")
		}
		inst.Text = text
	}
	if params.Priority != nil {
		inst.Priority = *params.Priority
	}
	if params.IsActive != nil {
		inst.IsActive = *params.IsActive
	}
	inst.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *DefaultService) Toggle(ctx context.Context, id string) (*Instruction, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inst.IsActive = !inst.IsActive
	inst.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *DefaultService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *DefaultService) ActiveTexts(ctx context.Context) ([]string, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Text)
	}
	return texts, nil
}
