package requests

// ChatRequest is the completion endpoint body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserEmail string `json:"userEmail,omitempty"`
}

// StartSessionRequest opens or resumes an intake session.
type StartSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Source    string `json:"source,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// SendMessageRequest is one widget turn. Starter is set when a suggested question was clicked.
type SendMessageRequest struct {
	Content string `json:"content"`
	Starter bool   `json:"starter,omitempty"`
}

// IncrementQuestionRequest tracks one asked question.
type IncrementQuestionRequest struct {
	Question string `json:"question"`
}
