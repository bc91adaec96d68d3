package requests

// CreateInstructionRequest adds a system-prompt rule.
type CreateInstructionRequest struct {
	InstructionText string `json:"instruction_text"`
	Priority        int    `json:"priority"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

// UpdateInstructionRequest patches a rule. Omitted fields are left unchanged.
type UpdateInstructionRequest struct {
	InstructionText *string `json:"instruction_text,omitempty"`
	Priority        *int    `json:"priority,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// ChatLogQuery filters the chat-log views.
type ChatLogQuery struct {
	Query string `form:"q"`
	Group string `form:"group"`
}
