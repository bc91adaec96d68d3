// Package instruction manages the operator-authored rules prepended to every completion prompt.
package instruction

import "time"

// Instruction is a single system-prompt rule. Active rules are joined in priority order.
type Instruction struct {
	ID        string    `json:"id"`
	Text      string    `json:"instruction_text"`
	Priority  int       `json:"priority"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams contains parameters for creating an instruction.
type CreateParams struct {
	Text     string
	Priority int
	IsActive *bool
}

// UpdateParams contains the mutable fields of an instruction.
type UpdateParams struct {
	Text     *string
	Priority *int
	IsActive *bool
}
