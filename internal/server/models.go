package server

import (
	"errors"
	"strings"

	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// Validation errors
var (
	ErrEmptyMessage = errors.New("message is required")
)

// StartRunRequest is the body of POST /runs
type StartRunRequest struct {
	Message         string   `json:"message"`
	SenderName      string   `json:"sender_name,omitempty"`
	EmailRecipients []string `json:"email_recipients,omitempty"`
	ChatRoomID      string   `json:"chat_room_id,omitempty"`
	ChatMentions    []string `json:"chat_mentions,omitempty"`
	HumanReview     *bool    `json:"human_review,omitempty"`
}

// Validate checks the request has a message
func (r *StartRunRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ToWorkflow converts the request. Review is on unless explicitly disabled.
func (r *StartRunRequest) ToWorkflow() workflow.StartRequest {
	review := true
	if r.HumanReview != nil {
		review = *r.HumanReview
	}
	return workflow.StartRequest{
		Message:         r.Message,
		SenderName:      r.SenderName,
		EmailRecipients: r.EmailRecipients,
		ChatRoomID:      r.ChatRoomID,
		ChatMentions:    r.ChatMentions,
		HumanReview:     review,
	}
}

// ApproveEmailRequest is the optional body of POST /runs/{id}/email/approve
type ApproveEmailRequest struct {
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
}

// ApproveChatRequest is the optional body of POST /runs/{id}/chat/approve
type ApproveChatRequest struct {
	Message *string `json:"message,omitempty"`
}

// RejectRequest is the optional body of either reject endpoint
type RejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// FailedRunResponse carries the state of a run that failed with an error
type FailedRunResponse struct {
	Error string        `json:"error"`
	State core.RunState `json:"state"`
}

// RunListResponse is the body of GET /runs
type RunListResponse struct {
	Runs  []core.RunState `json:"runs"`
	Count int             `json:"count"`
}
