package entities

import "time"

// TableName specifies the table name for ChatAnalytics.
func (ChatAnalytics) TableName() string {
	return "chat_analytics"
}

// ChatAnalytics is one answered chat message.
type ChatAnalytics struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	SessionID      string `gorm:"size:128;index;not null"`
	UserMessage    string `gorm:"type:text;not null"`
	AIResponse     string `gorm:"column:ai_response;type:text;not null"`
	ResponseTimeMs int64  `gorm:"not null;default:0"`
	TokensUsed     *int
	UserEmail      string    `gorm:"size:320;index;not null"`
	CreatedAt      time.Time `gorm:"index"`
}
