package responses

import (
	"time"

	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
)

// SessionResponse is the widget view of an intake session.
type SessionResponse struct {
	SessionID   string           `json:"session_id"`
	State       intake.State     `json:"state"`
	CurrentStep intake.Step      `json:"current_step,omitempty"`
	UserTurns   int              `json:"user_turns"`
	Messages    []intake.Message `json:"messages"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BuildSessionResponse creates the widget view from a session.
func BuildSessionResponse(session *intake.Session) *SessionResponse {
	messages := session.Transcript
	if messages == nil {
		messages = []intake.Message{}
	}
	return &SessionResponse{
		SessionID:   session.ID,
		State:       session.State,
		CurrentStep: session.Current,
		UserTurns:   session.UserTurns,
		Messages:    messages,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

// TurnResponse carries the messages produced by one turn.
type TurnResponse struct {
	SessionID        string           `json:"session_id"`
	State            intake.State     `json:"state"`
	CurrentStep      intake.Step      `json:"current_step,omitempty"`
	UserTurns        int              `json:"user_turns"`
	Messages         []intake.Message `json:"messages"`
	ShowCallToAction bool             `json:"show_call_to_action"`
}

// BuildTurnResponse creates the turn view from a result.
func BuildTurnResponse(result *intake.TurnResult) *TurnResponse {
	resp := &TurnResponse{
		Messages:         result.Messages,
		ShowCallToAction: result.ShowCallToAction,
	}
	if resp.Messages == nil {
		resp.Messages = []intake.Message{}
	}
	if s := result.Session; s != nil {
		resp.SessionID = s.ID
		resp.State = s.State
		resp.CurrentStep = s.Current
		resp.UserTurns = s.UserTurns
	}
	return resp
}

// DocumentResponse wraps a stored knowledge document.
type DocumentResponse struct {
	Success  bool                `json:"success"`
	Document *knowledge.Document `json:"document"`
}

// ListResponse is a generic collection envelope.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// BuildListResponse never serializes a nil slice.
func BuildListResponse[T any](items []T) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Data: items, Total: len(items)}
}

// ChatLogsResponse holds either the flat entries or the per-email groups.
type ChatLogsResponse struct {
	Entries []*chatlog.Entry    `json:"entries,omitempty"`
	Groups  []chatlog.UserGroup `json:"groups,omitempty"`
	Total   int                 `json:"total"`
}

// AdminSessionResponse reports the validity of the caller's admin token.
type AdminSessionResponse struct {
	Valid     bool      `json:"valid"`
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
