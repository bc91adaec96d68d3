package entities

import "time"

// TableName specifies the table name for ChatbotInstruction.
func (ChatbotInstruction) TableName() string {
	return "chatbot_instructions"
}

// ChatbotInstruction is a system prompt fragment managed by the admin.
type ChatbotInstruction struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	InstructionText string `gorm:"type:text;not null"`
	Priority        int    `gorm:"not null;default:0"`
	IsActive        bool   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for KnowledgeDocument.
func (KnowledgeDocument) TableName() string {
	return "knowledge_base"
}

// KnowledgeDocument is an uploaded reference document.
type KnowledgeDocument struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Filename     string    `gorm:"size:512;not null"`
	Content      string    `gorm:"type:text;not null"`
	FileType     string    `gorm:"size:255;not null"`
	FileSize     int64     `gorm:"not null;default:0"`
	DetectedType string    `gorm:"size:255"`
	StorageKey   string    `gorm:"size:1024"`
	Status       string    `gorm:"size:16;not null;default:active"`
	UploadDate   time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

// TableName specifies the table name for PopularQuestion.
func (PopularQuestion) TableName() string {
	return "popular_questions"
}

// PopularQuestion counts how often an exact question text was asked.
type PopularQuestion struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	QuestionText string    `gorm:"type:text;uniqueIndex;not null"`
	Frequency    int       `gorm:"not null;default:1"`
	Category     string    `gorm:"size:64;not null;default:general"`
	LastAsked    time.Time `gorm:"not null"`
	CreatedAt    time.Time
}
