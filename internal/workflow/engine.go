// Package workflow implements the approval-gated, resumable two-stage
// communication workflow: draft an email, gate it, deliver it, then draft,
// gate and deliver a chat message. A suspended run is nothing more than its
// latest checkpoint; resuming re-enters the graph at the suspended node.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Backland-Labs/courier/internal/checkpoint"
	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/events"
	"github.com/Backland-Labs/courier/internal/logger"
)

// Destinations are the delivery targets of a run
type Destinations struct {
	EmailRecipients []string
	ChatRoomID      string
	ChatMentions    []string
}

// DestinationsFromSettings returns the configured default destinations
func DestinationsFromSettings(s *config.Settings) Destinations {
	return Destinations{
		EmailRecipients: s.Email.To,
		ChatRoomID:      s.Webex.RoomID,
		ChatMentions:    s.Webex.MentionEmails,
	}
}

// StartRequest describes a new run. Empty destination fields fall back to
// the engine defaults.
type StartRequest struct {
	Message         string
	SenderName      string
	EmailRecipients []string
	ChatRoomID      string
	ChatMentions    []string
	HumanReview     bool
}

// EmailEdit optionally replaces the drafted subject and body on approval
type EmailEdit struct {
	Subject *string
	Body    *string
}

// Engine orchestrates runs
type Engine struct {
	content  ContentGenerator
	email    EmailSender
	chat     ChatPoster
	defaults Destinations

	store   checkpoint.Store
	locks   *checkpoint.KeyedMutex
	emitter events.Emitter
	newID   func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithStore sets the checkpoint store
func WithStore(store checkpoint.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithEmitter sets the lifecycle event emitter
func WithEmitter(emitter events.Emitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// WithIDGenerator sets the run id generator
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates a workflow engine. Without options it keeps checkpoints
// in memory and emits no events.
func NewEngine(gen ContentGenerator, email EmailSender, chat ChatPoster, defaults Destinations, opts ...Option) *Engine {
	e := &Engine{
		content:  gen,
		email:    email,
		chat:     chat,
		defaults: defaults,
		store:    checkpoint.NewMemoryStore(),
		locks:    checkpoint.NewKeyedMutex(),
		emitter:  events.NewNoOpEmitter(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a run and drives it until the first suspension or a
// terminal status. With review disabled the run always finishes here.
func (e *Engine) Start(ctx context.Context, req StartRequest) (core.RunState, error) {
	state, err := e.newRun(req)
	if err != nil {
		return core.RunState{}, err
	}

	unlock := e.locks.Lock(state.RunID)
	defer unlock()

	if err := e.save(ctx, state, NodeGenerateEmail); err != nil {
		return core.RunState{}, err
	}

	logger.WithRun(state.RunID).WithField("human_review", state.RequiresHumanReview).Info("Run started")
	e.emitter.RunStarted(state.RunID, state.RequiresHumanReview)

	return e.drive(ctx, state, NodeGenerateEmail)
}

// Preview drafts both artifacts without delivering anything. The returned
// state has status dry_run and is not checkpointed.
func (e *Engine) Preview(ctx context.Context, req StartRequest) (core.RunState, error) {
	state, err := e.newRun(req)
	if err != nil {
		return core.RunState{}, err
	}

	log := logger.WithRun(state.RunID)
	log.Info("Preview started")

	res := e.generateEmail(ctx, state)
	if res.err != nil {
		return res.state, res.err
	}
	res = e.generateChat(ctx, res.state)
	if res.err != nil {
		return res.state, res.err
	}

	preview := res.state
	preview.Status = core.StatusDryRun
	preview.UpdatedAt = time.Now().UTC()
	return preview, nil
}

// ApproveEmail resolves the email gate as approved, applying any edits first
func (e *Engine) ApproveEmail(ctx context.Context, runID string, edit EmailEdit) (core.RunState, error) {
	return e.resume(ctx, runID, NodeEmailReview, RouteApproved, func(s *core.RunState) {
		if edit.Subject != nil {
			s.Email.Subject = *edit.Subject
		}
		if edit.Body != nil {
			s.Email.Body = *edit.Body
		}
		s.Email.Approved = true
		s.Email.Rejected = false
	})
}

// RejectEmail resolves the email gate as rejected, cancelling the run
func (e *Engine) RejectEmail(ctx context.Context, runID, reason string) (core.RunState, error) {
	return e.resume(ctx, runID, NodeEmailReview, RouteRejected, func(s *core.RunState) {
		s.Email.Rejected = true
		s.Email.Approved = false
		s.Email.RejectionReason = reason
	})
}

// ApproveChat resolves the chat gate as approved, optionally replacing the
// drafted message
func (e *Engine) ApproveChat(ctx context.Context, runID string, edited *string) (core.RunState, error) {
	return e.resume(ctx, runID, NodeChatReview, RouteApproved, func(s *core.RunState) {
		if edited != nil {
			s.Chat.Message = *edited
		}
		s.Chat.Approved = true
		s.Chat.Rejected = false
	})
}

// RejectChat resolves the chat gate as rejected, cancelling the run. An
// already sent email stays sent.
func (e *Engine) RejectChat(ctx context.Context, runID, reason string) (core.RunState, error) {
	return e.resume(ctx, runID, NodeChatReview, RouteRejected, func(s *core.RunState) {
		s.Chat.Rejected = true
		s.Chat.Approved = false
		s.Chat.RejectionReason = reason
	})
}

// GetState returns the latest state of a run without modifying it
func (e *Engine) GetState(ctx context.Context, runID string) (core.RunState, error) {
	cp, err := e.load(ctx, runID)
	if err != nil {
		return core.RunState{}, err
	}
	return cp.State, nil
}

// ListRuns returns every known run, newest first
func (e *Engine) ListRuns(ctx context.Context) ([]core.RunState, error) {
	cps, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs := make([]core.RunState, 0, len(cps))
	for _, cp := range cps {
		runs = append(runs, cp.State)
	}
	return runs, nil
}

// Discard forgets a run. A suspended run can no longer be resumed.
func (e *Engine) Discard(ctx context.Context, runID string) error {
	unlock := e.locks.Lock(runID)
	defer unlock()

	if err := e.store.Delete(ctx, runID); err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return fmt.Errorf("failed to discard run: %w", err)
	}
	logger.WithRun(runID).Info("Run discarded")
	return nil
}

func (e *Engine) newRun(req StartRequest) (core.RunState, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return core.RunState{}, ErrEmptyMessage
	}

	dest := e.resolve(req)
	var missing []string
	if len(dest.EmailRecipients) == 0 {
		missing = append(missing, "EMAIL_TO")
	}
	if dest.ChatRoomID == "" {
		missing = append(missing, "WEBEX_ROOM_ID")
	}
	if len(missing) > 0 {
		return core.RunState{}, &config.ConfigurationError{Missing: missing}
	}

	sender := strings.TrimSpace(req.SenderName)
	return core.NewRunState(e.newID(), message, sender, dest.EmailRecipients, dest.ChatRoomID, dest.ChatMentions, req.HumanReview), nil
}

func (e *Engine) resolve(req StartRequest) Destinations {
	dest := e.defaults
	if len(req.EmailRecipients) > 0 {
		dest.EmailRecipients = req.EmailRecipients
	}
	if req.ChatRoomID != "" {
		dest.ChatRoomID = req.ChatRoomID
	}
	if len(req.ChatMentions) > 0 {
		dest.ChatMentions = req.ChatMentions
	}
	return dest
}

// resume applies a gate decision and re-enters the graph at the gate
func (e *Engine) resume(ctx context.Context, runID string, gate Node, route Route, apply func(*core.RunState)) (core.RunState, error) {
	unlock := e.locks.Lock(runID)
	defer unlock()

	cp, err := e.load(ctx, runID)
	if err != nil {
		return core.RunState{}, err
	}
	if cp.State.IsTerminal() {
		return cp.State, fmt.Errorf("%w: %s is %s", ErrRunTerminal, runID, cp.State.Status)
	}
	if Node(cp.Node) != gate {
		return cp.State, fmt.Errorf("%w: %s is at %s", ErrGateNotPending, runID, cp.Node)
	}

	state := cp.State.Clone()
	apply(&state)

	gateName := GateEmail
	if gate == NodeChatReview {
		gateName = GateChat
	}
	logger.WithRun(runID).WithFields(map[string]interface{}{
		"gate":     gateName,
		"decision": route.String(),
	}).Info("Review decision received")
	e.emitter.RunResumed(runID, gateName, route.String())

	return e.drive(ctx, state, gate)
}

// drive runs stages from node until the run suspends or ends, saving a
// checkpoint after every stage. The caller holds the run lock.
func (e *Engine) drive(ctx context.Context, state core.RunState, node Node) (core.RunState, error) {
	log := logger.WithRun(state.RunID)

	for node != NodeEnd {
		started := time.Now()
		res := e.step(ctx, state, node)
		res.state.UpdatedAt = time.Now().UTC()

		log.WithFields(map[string]interface{}{
			"node":        string(node),
			"next":        string(res.next),
			"status":      string(res.state.Status),
			"duration_ms": time.Since(started).Milliseconds(),
		}).Debug("Stage finished")

		if err := e.save(ctx, res.state, res.next); err != nil {
			return res.state, err
		}
		state, node = res.state, res.next

		if res.err != nil {
			log.WithError(res.err).Error("Run failed")
			e.emitter.RunFailed(state.RunID, res.err)
			return state, fmt.Errorf("run %s: %w", state.RunID, res.err)
		}
		if res.suspended {
			gate := GateEmail
			if node == NodeChatReview {
				gate = GateChat
			}
			log.WithField("gate", gate).Info("Run awaiting review")
			e.emitter.RunSuspended(state.RunID, gate)
			return state, nil
		}
	}

	log.WithFields(map[string]interface{}{
		"status":      string(state.Status),
		"email_sent":  state.Email.Sent,
		"chat_posted": state.Chat.Posted,
	}).Info("Run finished")
	e.emitter.RunFinished(state.RunID, state.Status)
	return state, nil
}

func (e *Engine) load(ctx context.Context, runID string) (checkpoint.Checkpoint, error) {
	cp, err := e.store.Get(ctx, runID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return checkpoint.Checkpoint{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return checkpoint.Checkpoint{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return cp, nil
}

// save persists the checkpoint even when ctx is cancelled: a stage that
// already ran must be recorded or the run is left between nodes.
func (e *Engine) save(ctx context.Context, state core.RunState, next Node) error {
	ctx = context.WithoutCancel(ctx)
	cp := checkpoint.Checkpoint{
		RunID:     state.RunID,
		Node:      string(next),
		State:     state,
		UpdatedAt: state.UpdatedAt,
	}
	if err := e.store.Put(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
