package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// PIILevel defines how contact details are rendered in logs and spans.
type PIILevel string

const (
	// PIILevelNone redacts all visitor content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces emails and phone numbers with salted hashes
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull performs no sanitization
	PIILevelFull PIILevel = "full"
)

// ParsePIILevel maps a config string to a PIILevel, defaulting to hashed.
func ParsePIILevel(value string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(value))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

// Sanitizer strips visitor contact details before they reach telemetry.
type Sanitizer struct {
	level PIILevel
	salt  string

	emailPattern *regexp.Regexp
	phonePattern *regexp.Regexp
}

// NewSanitizer creates a sanitizer. salt is mixed into every hash.
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:        level,
		salt:         salt,
		emailPattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern: regexp.MustCompile(`\+?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	}
}

// SanitizeText sanitizes free text such as a chat message.
func (s *Sanitizer) SanitizeText(input string) string {
	if input == "" {
		return ""
	}
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

// SanitizeEmail renders a single email address.
func (s *Sanitizer) SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return email
	default:
		return fmt.Sprintf("[EMAIL:%s]", s.hash(strings.ToLower(email)))
	}
}

// SanitizeFields sanitizes every value of a field map.
func (s *Sanitizer) SanitizeFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}

	result := make(map[string]string, len(fields))
	for k, v := range fields {
		result[k] = s.SanitizeText(v)
	}
	return result
}

func (s *Sanitizer) hashPII(input string) string {
	result := s.emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(strings.ToLower(match)))
	})
	return s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
}

// hash returns the first 8 hex chars of a salted SHA-256.
func (s *Sanitizer) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}
