package chat

import (
	"context"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
)

// Completer calls the chat-completions upstream.
type Completer interface {
	// Configured reports whether an API key is available.
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// InstructionSource returns active instruction texts ordered by priority.
type InstructionSource interface {
	ActiveTexts(ctx context.Context) ([]string, error)
}

// KnowledgeSource returns the content of active documents.
type KnowledgeSource interface {
	ActiveContents(ctx context.Context, limit int) ([]string, error)
}

// Recorder stores analytics rows.
type Recorder interface {
	Record(ctx context.Context, entry *chatlog.Entry) error
}
