package instruction

import "context"

// Repository defines the interface for instruction persistence.
type Repository interface {
	// List returns every instruction ordered by priority ascending.
	List(ctx context.Context) ([]*Instruction, error)

	// ListActive returns active instructions ordered by priority ascending.
	ListActive(ctx context.Context) ([]*Instruction, error)

	FindByID(ctx context.Context, id string) (*Instruction, error)
	Create(ctx context.Context, instruction *Instruction) error
	Update(ctx context.Context, instruction *Instruction) error
	Delete(ctx context.Context, id string) error
}
