// Package intake runs the chat widget conversation: it relays questions to the completion
// service and, for marked traffic, collects the visitor's contact details one field at a time.
package intake

import "time"

// Step is a position in the contact collection sequence.
type Step string

const (
	StepFullName     Step = "full_name"
	StepEmail        Step = "email"
	StepPhone        Step = "phone"
	StepLawFirmName  Step = "law_firm_name"
	StepPracticeType Step = "practice_type"
	StepComplete     Step = "complete"
)

// FlowOrder is the fixed, forward-only collection order.
var FlowOrder = []Step{StepFullName, StepEmail, StepPhone, StepLawFirmName, StepPracticeType}

func (s Step) index() int {
	for i, step := range FlowOrder {
		if step == s {
			return i
		}
	}
	if s == StepComplete {
		return len(FlowOrder)
	}
	return -1
}

// State is the collection state of a session.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingAnswer State = "awaiting_answer"
	StateComplete       State = "complete"
)

// Role of a transcript message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind tells the widget how an assistant message was produced.
type MessageKind string

const (
	KindGreeting         MessageKind = "greeting"
	KindQuestion         MessageKind = "question"
	KindReply            MessageKind = "reply"
	KindStarterAnswer    MessageKind = "starter_answer"
	KindCollectionPrompt MessageKind = "collection_prompt"
	KindCollectionAnswer MessageKind = "collection_answer"
	KindCollectionDone   MessageKind = "collection_complete"
	KindFallback         MessageKind = "fallback"
)

// Message is one transcript entry.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
}

// ContactInfo holds the fields gathered so far. Empty means unknown.
type ContactInfo struct {
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	LawFirmName  string `json:"law_firm_name,omitempty"`
	PracticeType string `json:"practice_type,omitempty"`
}

func (c *ContactInfo) field(step Step) *string {
	switch step {
	case StepFullName:
		return &c.FullName
	case StepEmail:
		return &c.Email
	case StepPhone:
		return &c.Phone
	case StepLawFirmName:
		return &c.LawFirmName
	case StepPracticeType:
		return &c.PracticeType
	}
	return nil
}

// Get returns the value stored for step.
func (c ContactInfo) Get(step Step) string {
	if f := c.field(step); f != nil {
		return *f
	}
	return ""
}

// Set stores value for step unless the field already holds a value.
func (c *ContactInfo) Set(step Step, value string) bool {
	f := c.field(step)
	if f == nil || *f != "" {
		return false
	}
	*f = value
	return true
}

// Missing returns the unset fields in flow order.
func (c ContactInfo) Missing() []Step {
	var out []Step
	for _, step := range FlowOrder {
		if c.Get(step) == "" {
			out = append(out, step)
		}
	}
	return out
}

// Complete reports whether all five fields are set.
func (c ContactInfo) Complete() bool {
	return len(c.Missing()) == 0
}

// Session is the durable per-visitor conversation record.
type Session struct {
	ID         string      `json:"id"`
	Source     string      `json:"source,omitempty"`
	Marked     bool        `json:"marked"`
	UserEmail  string      `json:"user_email,omitempty"`
	State      State       `json:"state"`
	Current    Step        `json:"current_step,omitempty"`
	Contact    ContactInfo `json:"contact"`
	UserTurns  int         `json:"user_turns"`
	Flushed    bool        `json:"flushed"`
	Notified   bool        `json:"notified"`
	Transcript []Message   `json:"transcript"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Collecting reports whether the next user message answers a collection prompt.
func (s *Session) Collecting() bool {
	return s.State == StateAwaitingAnswer
}

// ContactEmail is the collected email, falling back to the email the widget was opened with.
func (s *Session) ContactEmail() string {
	if s.Contact.Email != "" {
		return s.Contact.Email
	}
	return s.UserEmail
}

// StartInput opens or resumes a session.
type StartInput struct {
	SessionID string
	Source    string
	UserEmail string
}

// SendInput is one user turn. Starter marks a click on a suggested question.
type SendInput struct {
	Content string
	Starter bool
}

// TurnResult carries the messages appended during a turn.
type TurnResult struct {
	Messages            []Message `json:"messages"`
	Session             *Session  `json:"session"`
	ShowCallToAction    bool      `json:"show_call_to_action"`
	CollectionStarted   bool      `json:"-"`
	CollectionCompleted bool      `json:"-"`
	Notified            bool      `json:"-"`
	CompletionFailed    bool      `json:"-"`
}
