package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c, err := DefaultContent()
	require.NoError(t, err)

	assert.Contains(t, c.Greeting, "I'm Ava")
	assert.Len(t, c.Starters, 3)
	assert.Equal(t, "By the way, I'd love to personalize our conversation. What's your name?", c.Prompts[StepFullName])
	assert.Equal(t, "Great! And what's the best email to reach you at?", c.Prompts[StepEmail])
	assert.Equal(t, "Perfect. Mind sharing your phone number?", c.Prompts[StepPhone])
	assert.Equal(t, "What's the name of your law firm?", c.Prompts[StepLawFirmName])
	assert.Equal(t, "What is your practice type?", c.Prompts[StepPracticeType])
	assert.Equal(t, "Perfect! Thanks for that. Now, what would you like to know about the masterclass?", c.Completion)
	assert.Equal(t, "Sorry, I encountered an error. Please try again.", c.Fallback)

	answer, ok := c.StarterAnswer(c.Starters[1].Question)
	require.True(t, ok)
	assert.Contains(t, answer, "11-stage blueprint")

	_, ok = c.StarterAnswer("what is the 11-stage intake blueprint that converts leads to retainers?")
	assert.False(t, ok)
}

func TestShowCallToAction(t *testing.T) {
	c := &Content{CallToAction: CallToAction{Every: 2}}
	assert.False(t, c.ShowCallToAction(0))
	assert.False(t, c.ShowCallToAction(1))
	assert.True(t, c.ShowCallToAction(2))
	assert.True(t, c.ShowCallToAction(4))

	off := &Content{}
	assert.False(t, off.ShowCallToAction(2))
}

func TestLoadContentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	data := []byte(`greeting: "Hello"
prompts:
  full_name: "Name?"
  email: "Email?"
  phone: "Phone?"
  law_firm_name: "Firm?"
  practice_type: "Practice?"
completion: "Thanks"
fallback: "Oops"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := LoadContent(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello", c.Greeting)
	assert.Equal(t, "Firm?", c.Prompts[StepLawFirmName])
	assert.Empty(t, c.Starters)
}

func TestParseContentRequiresPrompts(t *testing.T) {
	_, err := ParseContent([]byte(`greeting: "Hi"
prompts:
  full_name: "Name?"
completion: "Thanks"
fallback: "Oops"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestLoadContentMissingFile(t *testing.T) {
	_, err := LoadContent(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
