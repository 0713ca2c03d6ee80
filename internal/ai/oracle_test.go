package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRelevancePrompt(t *testing.T) {
	prompt := BuildRelevancePrompt(
		[]string{"Go", "Telegram"},
		"Bot development", "Build a bot", "от 5000 руб.",
	)

	assert.Contains(t, prompt, "Go, Telegram")
	assert.Contains(t, prompt, "Title: Bot development")
	assert.Contains(t, prompt, "Budget: от 5000 руб.")
	// the scorer parses these exact prefixes out of the response
	assert.Contains(t, prompt, "Relevance: [score]")
	assert.Contains(t, prompt, "Reason: [explanation]")
}

func TestBuildSkillsPrompt(t *testing.T) {
	prompt := BuildSkillsPrompt("telegram bot development")

	assert.Contains(t, prompt, `"telegram bot development"`)
	assert.Contains(t, prompt, "3-5 key skills")
}
