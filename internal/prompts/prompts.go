// Package prompts contains the embedded system prompts used to draft
// messages
package prompts

import (
	_ "embed"
	"strings"
)

//go:embed email-system.md
var emailSystem string

//go:embed chat-system.md
var chatSystem string

// EmailSystem returns the system prompt for drafting a formal email
func EmailSystem() string {
	return strings.TrimSpace(emailSystem)
}

// ChatSystem returns the system prompt for drafting a Webex message
func ChatSystem() string {
	return strings.TrimSpace(chatSystem)
}
