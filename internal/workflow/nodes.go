package workflow

import (
	"context"
	"errors"

	"github.com/Backland-Labs/courier/internal/content"
	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/delivery"
	"github.com/Backland-Labs/courier/internal/logger"
)

// Node names a stage of the workflow graph
type Node string

const (
	NodeGenerateEmail   Node = "generate_email"
	NodeEmailReview     Node = "email_review"
	NodeSendEmail       Node = "send_email"
	NodeGenerateChat    Node = "generate_chat"
	NodeChatReview      Node = "chat_review"
	NodePostToChat      Node = "post_to_chat"
	NodeHandleRejection Node = "handle_rejection"

	// NodeEnd marks a run with no further stages
	NodeEnd Node = "end"
)

// Gate names used in lifecycle events
const (
	GateEmail = "email"
	GateChat  = "chat"
)

// Route is the outcome of a review gate
type Route int

const (
	RouteAwaiting Route = iota
	RouteApproved
	RouteRejected
)

func (r Route) String() string {
	switch r {
	case RouteApproved:
		return "approved"
	case RouteRejected:
		return "rejected"
	default:
		return "awaiting"
	}
}

// routeEmail checks rejection first so a rejected gate always wins
func routeEmail(s core.RunState) Route {
	switch {
	case s.Email.Rejected:
		return RouteRejected
	case s.Email.Approved:
		return RouteApproved
	default:
		return RouteAwaiting
	}
}

func routeChat(s core.RunState) Route {
	switch {
	case s.Chat.Rejected:
		return RouteRejected
	case s.Chat.Approved:
		return RouteApproved
	default:
		return RouteAwaiting
	}
}

// stepResult is what a single stage produces
type stepResult struct {
	state     core.RunState
	next      Node
	suspended bool
	err       error
}

// step runs one node against a copy of s
func (e *Engine) step(ctx context.Context, s core.RunState, node Node) stepResult {
	switch node {
	case NodeGenerateEmail:
		return e.generateEmail(ctx, s)
	case NodeEmailReview:
		return e.reviewGate(s, NodeEmailReview, core.StatusAwaitingEmailReview, routeEmail(s), s.Email.Decided(), NodeSendEmail)
	case NodeSendEmail:
		return e.sendEmail(ctx, s)
	case NodeGenerateChat:
		return e.generateChat(ctx, s)
	case NodeChatReview:
		return e.reviewGate(s, NodeChatReview, core.StatusAwaitingChatReview, routeChat(s), s.Chat.Decided(), NodePostToChat)
	case NodePostToChat:
		return e.postToChat(ctx, s)
	case NodeHandleRejection:
		return e.handleRejection(s)
	default:
		return stepResult{state: s, next: NodeEnd}
	}
}

func (e *Engine) generateEmail(ctx context.Context, s core.RunState) stepResult {
	email, err := e.content.Email(ctx, s.OriginalMessage, s.SenderName)
	if err != nil {
		return e.failGeneration(s, "Email generation: ", err)
	}

	next := s.Clone()
	next.Email.Subject = email.Subject
	next.Email.Body = email.Body
	e.advance(&next, core.StatusInProgress)
	return stepResult{state: next, next: NodeEmailReview}
}

// reviewGate passes through when a decision exists, otherwise marks the
// run as awaiting review and suspends. An approved run keeps its awaiting
// status through delivery until the next gate or a terminal status
// replaces it; the approval flags record the decision.
func (e *Engine) reviewGate(s core.RunState, node Node, awaiting core.Status, route Route, decided bool, onApprove Node) stepResult {
	next := s.Clone()
	if !decided {
		e.advance(&next, awaiting)
	}

	switch route {
	case RouteApproved:
		return stepResult{state: next, next: onApprove}
	case RouteRejected:
		return stepResult{state: next, next: NodeHandleRejection}
	default:
		return stepResult{state: next, next: node, suspended: true}
	}
}

func (e *Engine) sendEmail(ctx context.Context, s core.RunState) stepResult {
	// Adapters honour ctx themselves, so their result is the only truth
	// about whether the mail went out.
	result := <-delivery.SendAsync(ctx, e.email, s.EmailRecipients, s.Email.Subject, s.Email.Body)

	next := s.Clone()
	next.Email.Sent = result.Success
	if result.Success {
		next.Email.Error = ""
	} else {
		next.Email.Error = result.Message
		next.Errors = append(next.Errors, "Email: "+result.Message)
	}
	return stepResult{state: next, next: NodeGenerateChat}
}

func (e *Engine) generateChat(ctx context.Context, s core.RunState) stepResult {
	msg, err := e.content.Chat(ctx, s.OriginalMessage, s.SenderName, s.ChatMentions)
	if err != nil {
		return e.failGeneration(s, "Webex generation: ", err)
	}

	next := s.Clone()
	next.Chat.Message = msg
	return stepResult{state: next, next: NodeChatReview}
}

func (e *Engine) postToChat(ctx context.Context, s core.RunState) stepResult {
	result := <-delivery.PostAsync(ctx, e.chat, s.ChatRoomID, s.Chat.Message, s.Chat.Message, s.ChatMentions)

	next := s.Clone()
	next.Chat.Posted = result.Success
	next.Chat.MessageID = result.MessageID
	if result.Success {
		next.Chat.Error = ""
	} else {
		next.Chat.Error = result.Message
		next.Errors = append(next.Errors, "Webex: "+result.Message)
	}

	if next.Email.Sent || next.Chat.Posted {
		e.advance(&next, core.StatusCompleted)
	} else {
		e.advance(&next, core.StatusFailed)
	}
	return stepResult{state: next, next: NodeEnd}
}

func (e *Engine) handleRejection(s core.RunState) stepResult {
	next := s.Clone()
	next.Chat.Posted = false
	e.advance(&next, core.StatusCancelled)
	return stepResult{state: next, next: NodeEnd}
}

func (e *Engine) failGeneration(s core.RunState, prefix string, err error) stepResult {
	cause := err
	var genErr *content.GenerationError
	if errors.As(err, &genErr) && genErr.Err != nil {
		cause = genErr.Err
	}

	next := s.WithError(prefix + cause.Error())
	e.advance(&next, core.StatusFailed)
	return stepResult{state: next, next: NodeEnd, err: err}
}

// advance moves s to status unless that would move backwards
func (e *Engine) advance(s *core.RunState, status core.Status) {
	if s.Status == status {
		return
	}
	if !s.Status.CanTransitionTo(status) {
		logger.WithFields(map[string]interface{}{
			"run_id": s.RunID,
			"from":   string(s.Status),
			"to":     string(status),
		}).Warn("Refusing backward status transition")
		return
	}
	s.Status = status
}
