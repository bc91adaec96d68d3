// Package question counts how often each exact chat question is asked.
package question

import "time"

// DefaultCategory is assigned to newly tracked questions.
const DefaultCategory = "general"

// PopularQuestion is the aggregate counter for one exact question text.
type PopularQuestion struct {
	ID        string    `json:"id"`
	Text      string    `json:"question_text"`
	Frequency int       `json:"frequency"`
	Category  string    `json:"category"`
	LastAsked time.Time `json:"last_asked"`
	CreatedAt time.Time `json:"created_at"`
}
