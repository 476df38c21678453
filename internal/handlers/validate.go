package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for API inputs.
const (
	minPromptLen = 3
	maxPromptLen = 2_000
)

// validatePrompt checks the user prompt and returns the first error found.
func validatePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "userPrompt is required."
	}
	if utf8.RuneCountInString(prompt) < minPromptLen {
		return "userPrompt is too short (min 3 characters)."
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "userPrompt is too long (max 2,000 characters)."
	}
	return ""
}
