package entities

import (
	"time"

	"gorm.io/datatypes"
)

// TableName specifies the table name for Profile.
func (Profile) TableName() string {
	return "profiles"
}

// Profile is a visitor contact record keyed by email.
type Profile struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Email        string `gorm:"size:320;uniqueIndex;not null"`
	FullName     string `gorm:"size:255"`
	Phone        string `gorm:"size:64"`
	LawFirmName  string `gorm:"size:255"`
	PracticeType string `gorm:"size:255"`
	Source       string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for MasterclassRegistration.
func (MasterclassRegistration) TableName() string {
	return "masterclass_registrations"
}

// MasterclassRegistration is a replay access form submission.
type MasterclassRegistration struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	FullName        string    `gorm:"size:255;not null"`
	Email           string    `gorm:"size:320;index;not null"`
	Phone           string    `gorm:"size:64;not null"`
	FirmName        string    `gorm:"size:255;not null"`
	PracticeArea    string    `gorm:"size:64;not null"`
	Source          string    `gorm:"size:64"`
	AccessExpiresAt time.Time `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName specifies the table name for FormSubmission.
func (FormSubmission) TableName() string {
	return "form_submissions"
}

// FormSubmission records one outbound webhook delivery.
type FormSubmission struct {
	ID         string         `gorm:"primaryKey;type:uuid"`
	Target     string         `gorm:"size:32;not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	StatusCode int            `gorm:"not null;default:0"`
	Error      string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"index"`
}

// TableName specifies the table name for AdminAuditLog.
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}

// AdminAuditLog records an admin mutation.
type AdminAuditLog struct {
	ID           string         `gorm:"primaryKey;type:uuid"`
	AdminSubject string         `gorm:"size:255;not null"`
	Action       string         `gorm:"size:64;not null"`
	ResourceType string         `gorm:"size:64;not null"`
	ResourceID   string         `gorm:"size:128"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	StatusCode   int            `gorm:"not null;default:0"`
	IPAddress    string         `gorm:"size:64"`
	UserAgent    string         `gorm:"type:text"`
	ErrorMessage string         `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"index"`
}
