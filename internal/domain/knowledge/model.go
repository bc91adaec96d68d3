// Package knowledge manages the documents injected into the completion prompt as reference text.
package knowledge

import "time"

// Status of a knowledge document. Only active documents feed the prompt.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Document is an uploaded knowledge-base entry.
type Document struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Content      string    `json:"content"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	DetectedType string    `json:"detected_type,omitempty"`
	StorageKey   string    `json:"storage_key,omitempty"`
	Status       Status    `json:"status"`
	UploadDate   time.Time `json:"upload_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UploadParams mirrors the document upload request body.
type UploadParams struct {
	Filename string
	Content  string
	FileType string
	FileSize int64
}

// FileParams describes a raw file received from the admin upload form.
type FileParams struct {
	Filename     string
	DeclaredType string
	Data         []byte
}
