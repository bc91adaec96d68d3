package intake

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Starter is a suggested question with a canned answer.
type Starter struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"-"`
}

// CallToAction is shown every Every user turns.
type CallToAction struct {
	Label string `yaml:"label" json:"label"`
	Every int    `yaml:"every" json:"every"`
}

// Content is the widget copy: greeting, starters and collection prompts.
type Content struct {
	Greeting     string          `yaml:"greeting" json:"greeting"`
	StarterIntro string          `yaml:"starter_intro" json:"starter_intro"`
	Starters     []Starter       `yaml:"starters" json:"starters"`
	Prompts      map[Step]string `yaml:"prompts" json:"-"`
	Completion   string          `yaml:"completion" json:"-"`
	Fallback     string          `yaml:"fallback" json:"-"`
	CallToAction CallToAction    `yaml:"call_to_action" json:"call_to_action"`
}

// DefaultContent returns the built-in widget copy.
func DefaultContent() (*Content, error) {
	return ParseContent(defaultContent)
}

// LoadContent reads the copy from path, or the built-in copy when path is empty.
func LoadContent(path string) (*Content, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chat content %s: %w", path, err)
	}
	return ParseContent(data)
}

// ParseContent decodes and validates YAML widget copy.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode chat content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every collection step has a prompt.
func (c *Content) Validate() error {
	if strings.TrimSpace(c.Greeting) == "" {
		return fmt.Errorf("chat content: greeting is required")
	}
	for _, step := range FlowOrder {
		if strings.TrimSpace(c.Prompts[step]) == "" {
			return fmt.Errorf("chat content: prompt for %s is required", step)
		}
	}
	if strings.TrimSpace(c.Completion) == "" {
		return fmt.Errorf("chat content: completion message is required")
	}
	if strings.TrimSpace(c.Fallback) == "" {
		return fmt.Errorf("chat content: fallback message is required")
	}
	return nil
}

// StarterAnswer returns the canned answer for an exact starter question.
func (c *Content) StarterAnswer(question string) (string, bool) {
	for _, s := range c.Starters {
		if s.Question == question {
			return s.Answer, true
		}
	}
	return "", false
}

// ShowCallToAction reports whether the call to action follows the given turn count.
func (c *Content) ShowCallToAction(turns int) bool {
	return c.CallToAction.Every > 0 && turns > 0 && turns%c.CallToAction.Every == 0
}
