// Package chat answers widget messages through the completion API using the admin-managed
// instructions and knowledge base as the system prompt.
package chat

// DefaultSystemPrompt is used when no active instruction exists.
const DefaultSystemPrompt = "You are Ava, an AI assistant trained on the AI-First Masterclass for lawyers."

// ReasonCompletionKeyMissing is reported when no completion API key is configured.
const ReasonCompletionKeyMissing = "completion_api_key_missing"

const knowledgeHeader = "\n\nRelevant knowledge base content:\n"

// Request is one visitor message.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UserEmail string `json:"userEmail,omitempty"`
}

// Reply is the assistant answer.
type Reply struct {
	Response       string `json:"response"`
	ResponseTimeMs int64  `json:"responseTime"`
	TokensUsed     int    `json:"-"`
}

// CompletionRequest is what the completion gateway receives.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
}

// CompletionResult is the first choice of a completion.
type CompletionResult struct {
	Content    string
	TokensUsed int
}
