// Package chatlog stores completion transcripts and derives the admin analytics from them.
package chatlog

import (
	"time"

	"github.com/aifirstlegal/masterclass-server/internal/domain/question"
)

// AnonymousEmail is recorded when a chat carries no user email.
const AnonymousEmail = "anonymous@example.com"

// MaxSearchResults caps chat-log searches.
const MaxSearchResults = 500

// Entry is one user message and the assistant reply it produced.
type Entry struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	UserMessage    string    `json:"user_message"`
	AIResponse     string    `json:"ai_response"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	TokensUsed     int       `json:"tokens_used"`
	UserEmail      string    `json:"user_email"`
	CreatedAt      time.Time `json:"timestamp"`
}

// UserGroup collects the entries of one user email.
type UserGroup struct {
	Email   string   `json:"email"`
	Entries []*Entry `json:"entries"`
}

// Dashboard aggregates the figures shown on the admin analytics view.
type Dashboard struct {
	TotalChats        int64                       `json:"total_chats"`
	UniqueChatUsers   int64                       `json:"unique_chat_users"`
	AvgResponseTimeMs int64                       `json:"avg_response_time_ms"`
	UniqueSessions    int64                       `json:"unique_sessions"`
	TodayChats        int64                       `json:"today_chats"`
	PopularQuestions  []*question.PopularQuestion `json:"popular_questions"`
}
