// Package lead forwards contact data to the CRM webhooks and keeps the profiles table in sync.
package lead

import "time"

// Target names a configured outbound webhook.
type Target string

const (
	TargetLead         Target = "lead"
	TargetRegistration Target = "registration"
	TargetAccess       Target = "access"
)

// Trigger labels for contact notifications.
const (
	TriggerTurnThreshold = "5_questions_completed"
)

// ContactPayload is the body sent to the lead webhook for chat-collected contacts.
type ContactPayload struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LawFirmName  string `json:"law_firm_name"`
	PracticeType string `json:"practice_type"`
	Source       string `json:"source"`
	Trigger      string `json:"trigger,omitempty"`
}

// Profile is a contact record keyed by email.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	LawFirmName  string    `json:"law_firm_name"`
	PracticeType string    `json:"practice_type"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Submission is an audit row for one outbound webhook call.
type Submission struct {
	ID         string
	Target     Target
	Payload    any
	StatusCode int
	Error      string
	CreatedAt  time.Time
}

// Delivery is what the webhook endpoint answered.
type Delivery struct {
	StatusCode int
	Body       []byte
}
