// Package content builds prompts for, and parses responses from, the text
// generator used to draft emails and chat-space messages.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Backland-Labs/courier/internal/llm"
	"github.com/Backland-Labs/courier/internal/logger"
	"github.com/Backland-Labs/courier/internal/prompts"
)

// Mode selects which artifact is generated
type Mode string

const (
	ModeEmail Mode = "email"
	ModeChat  Mode = "chat"
)

// ErrGeneration matches any *GenerationError via errors.Is
var ErrGeneration = errors.New("content generation failed")

// GenerationError reports a failed or unusable generation
type GenerationError struct {
	Mode Mode
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Mode, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrGeneration
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// EmailContent is a parsed email draft
type EmailContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator drafts emails and chat messages. Each call makes exactly one
// request to the underlying TextGenerator.
type Generator struct {
	llm llm.TextGenerator
}

// NewGenerator creates a Generator
func NewGenerator(gen llm.TextGenerator) *Generator {
	return &Generator{llm: gen}
}

// Email drafts a formal email from message, signed by sender
func (g *Generator) Email(ctx context.Context, message, sender string) (EmailContent, error) {
	raw, err := g.generate(ctx, ModeEmail, prompts.EmailSystem(), emailUserPrompt(message, sender))
	if err != nil {
		return EmailContent{}, err
	}
	return ParseEmail(raw), nil
}

// Chat drafts a chat-space message addressed to the given mention emails.
// The response is returned verbatim.
func (g *Generator) Chat(ctx context.Context, message, sender string, mentions []string) (string, error) {
	return g.generate(ctx, ModeChat, prompts.ChatSystem(), chatUserPrompt(message, sender, mentions))
}

func (g *Generator) generate(ctx context.Context, mode Mode, system, user string) (string, error) {
	log := logger.WithField("mode", string(mode))
	log.Debug("Requesting generated content")

	raw, err := g.llm.Generate(ctx, system, user)
	if err != nil {
		log.WithError(err).Warn("Text generation failed")
		return "", &GenerationError{Mode: mode, Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return "", &GenerationError{Mode: mode, Err: errors.New("empty response")}
	}
	return raw, nil
}

// ParseEmail splits a generated response into subject and body. It never
// fails: non-empty input always yields a non-empty subject and body.
func ParseEmail(raw string) EmailContent {
	trimmed := strings.TrimSpace(raw)

	var subject, body string
	if before, after, found := strings.Cut(raw, separator); found {
		subject = stripSubjectLabel(before)
		body = strings.TrimSpace(after)
	} else {
		lines := strings.Split(trimmed, "\n")
		subject = stripSubjectLabel(lines[0])
		if len(lines) > 1 {
			body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}

	if subject == "" {
		subject = placeholderSubject
	}
	if body == "" {
		body = trimmed
	}
	return EmailContent{Subject: subject, Body: body}
}

func stripSubjectLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(subjectLabel) && strings.EqualFold(s[:len(subjectLabel)], subjectLabel) {
		s = s[len(subjectLabel):]
	}
	return strings.TrimSpace(s)
}

// MentionNames renders mention emails as display names for a prompt
func MentionNames(mentions []string) string {
	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		local, _, _ := strings.Cut(m, "@")
		if local = strings.TrimSpace(local); local != "" {
			names = append(names, local)
		}
	}
	if len(names) == 0 {
		return "the team"
	}
	return strings.Join(names, ", ")
}
