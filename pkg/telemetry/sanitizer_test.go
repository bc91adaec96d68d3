package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePIILevel(t *testing.T) {
	assert.Equal(t, PIILevelNone, ParsePIILevel("NONE"))
	assert.Equal(t, PIILevelFull, ParsePIILevel(" full "))
	assert.Equal(t, PIILevelHashed, ParsePIILevel("hashed"))
	assert.Equal(t, PIILevelHashed, ParsePIILevel("bogus"))
}

func TestSanitizeText_None(t *testing.T) {
	s := NewSanitizer(PIILevelNone, "salt")
	assert.Equal(t, "[REDACTED]", s.SanitizeText("My email is jane@firm.com"))
	assert.Equal(t, "", s.SanitizeText(""))
}

func TestSanitizeText_Full(t *testing.T) {
	s := NewSanitizer(PIILevelFull, "salt")
	input := "My email is jane@firm.com"
	assert.Equal(t, input, s.SanitizeText(input))
}

func TestSanitizeText_HashedEmail(t *testing.T) {
	s := NewSanitizer(PIILevelHashed, "salt")
	result := s.SanitizeText("Reach me at jane.doe@firm.com today")

	assert.NotContains(t, result, "jane.doe@firm.com")
	assert.Contains(t, result, "[EMAIL:")
	assert.Contains(t, result, "today")
}

func TestSanitizeText_HashedPhone(t *testing.T) {
	s := NewSanitizer(PIILevelHashed, "salt")

	tests := []struct {
		name  string
		input string
	}{
		{"dashes", "Call 555-123-4567"},
		{"dots", "Call 555.123.4567"},
		{"spaces", "Call 555 123 4567"},
		{"parens", "Call (555) 123-4567"},
		{"no separator", "Call 5551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.SanitizeText(tt.input)
			assert.NotContains(t, result, "4567")
			assert.Contains(t, result, "[PHONE:")
			assert.Contains(t, result, "Call")
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	hashed := NewSanitizer(PIILevelHashed, "salt")
	a := hashed.SanitizeEmail("Jane@Firm.com")
	b := hashed.SanitizeEmail("jane@firm.com")
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "jane")

	other := NewSanitizer(PIILevelHashed, "pepper")
	assert.NotEqual(t, a, other.SanitizeEmail("jane@firm.com"))

	assert.Equal(t, "", hashed.SanitizeEmail(""))
	assert.Equal(t, "jane@firm.com", NewSanitizer(PIILevelFull, "").SanitizeEmail("jane@firm.com"))
}

func TestSanitizeFields(t *testing.T) {
	s := NewSanitizer(PIILevelNone, "salt")
	out := s.SanitizeFields(map[string]string{"email": "jane@firm.com", "name": "Jane"})
	assert.Equal(t, "[REDACTED]", out["email"])
	assert.Equal(t, "[REDACTED]", out["name"])
	assert.Nil(t, s.SanitizeFields(nil))
}
