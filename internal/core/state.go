// Package core holds the run state threaded through every workflow stage.
package core

import (
	"fmt"
	"time"
)

// Status is the lifecycle position of a run
type Status string

// Status constants
const (
	StatusPending             Status = "pending"
	StatusInProgress          Status = "in_progress"
	StatusAwaitingEmailReview Status = "awaiting_email_review"
	StatusAwaitingChatReview  Status = "awaiting_webex_review"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
	StatusFailed              Status = "failed"

	// StatusDryRun marks a preview that generated content without delivery
	StatusDryRun Status = "dry_run"
)

// DefaultSenderName signs messages when no sender is supplied
const DefaultSenderName = "Team Member"

var statusRank = map[Status]int{
	StatusPending:             0,
	StatusInProgress:          1,
	StatusAwaitingEmailReview: 2,
	StatusAwaitingChatReview:  3,
	StatusCompleted:           4,
	StatusCancelled:           4,
	StatusFailed:              4,
	StatusDryRun:              4,
}

// IsValid returns true for known status values
func (s Status) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminal returns true when no further stage can run
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusFailed, StatusDryRun:
		return true
	}
	return false
}

// IsAwaitingReview returns true at either review gate
func (s Status) IsAwaitingReview() bool {
	return s == StatusAwaitingEmailReview || s == StatusAwaitingChatReview
}

// CanTransitionTo reports whether moving from s to next keeps the status
// monotonic. Re-entering the same non-terminal status is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// EmailState is the email half of a run
type EmailState struct {
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	Approved        bool   `json:"approved"`
	Rejected        bool   `json:"rejected"`
	Sent            bool   `json:"sent"`
	Error           string `json:"error,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Decided returns true once the email gate has been resolved
func (e EmailState) Decided() bool {
	return e.Approved || e.Rejected
}

// ChatState is the chat-space half of a run
type ChatState struct {
	Message         string `json:"message"`
	Approved        bool   `json:"approved"`
	Rejected        bool   `json:"rejected"`
	Posted          bool   `json:"posted"`
	Error           string `json:"error,omitempty"`
	MessageID       string `json:"message_id,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Decided returns true once the chat gate has been resolved
func (c ChatState) Decided() bool {
	return c.Approved || c.Rejected
}

// RunState is one execution of the two-stage communication workflow
type RunState struct {
	RunID           string   `json:"run_id"`
	OriginalMessage string   `json:"original_message"`
	SenderName      string   `json:"sender_name"`
	EmailRecipients []string `json:"email_recipients"`
	ChatRoomID      string   `json:"chat_room_id"`
	ChatMentions    []string `json:"chat_mentions"`

	Status Status     `json:"status"`
	Email  EmailState `json:"email"`
	Chat   ChatState  `json:"chat"`

	// Errors is append-only for the lifetime of the run
	Errors []string `json:"errors"`

	RequiresHumanReview bool `json:"requires_human_review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRunState creates a pending run. With review disabled both gates are
// pre-approved so the workflow never suspends.
func NewRunState(runID, message, sender string, recipients []string, room string, mentions []string, humanReview bool) RunState {
	if sender == "" {
		sender = DefaultSenderName
	}
	now := time.Now().UTC()
	s := RunState{
		RunID:               runID,
		OriginalMessage:     message,
		SenderName:          sender,
		EmailRecipients:     append([]string{}, recipients...),
		ChatRoomID:          room,
		ChatMentions:        append([]string{}, mentions...),
		Status:              StatusPending,
		Errors:              []string{},
		RequiresHumanReview: humanReview,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if !humanReview {
		s.Email.Approved = true
		s.Chat.Approved = true
	}
	return s
}

// Clone returns a deep copy of s
func (s RunState) Clone() RunState {
	c := s
	c.EmailRecipients = append([]string{}, s.EmailRecipients...)
	c.ChatMentions = append([]string{}, s.ChatMentions...)
	c.Errors = append([]string{}, s.Errors...)
	return c
}

// WithError returns a copy of s with msg appended to Errors
func (s RunState) WithError(msg string) RunState {
	c := s.Clone()
	c.Errors = append(c.Errors, msg)
	return c
}

// Validate checks structural invariants of the state
func (s RunState) Validate() error {
	if s.RunID == "" {
		return fmt.Errorf("run_id cannot be empty")
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", s.Status)
	}
	if s.Email.Approved && s.Email.Rejected {
		return fmt.Errorf("email cannot be both approved and rejected")
	}
	if s.Chat.Approved && s.Chat.Rejected {
		return fmt.Errorf("chat cannot be both approved and rejected")
	}
	if s.RequiresHumanReview && s.Chat.Approved && !s.Email.Approved {
		return fmt.Errorf("chat cannot be approved before email")
	}
	return nil
}

// IsTerminal returns true if the run has finished
func (s RunState) IsTerminal() bool {
	return s.Status.IsTerminal()
}
