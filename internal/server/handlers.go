package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/logger"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// Common constants for handlers
const (
	contentTypeJSON = "application/json"
	errorFieldName  = "error"
	maxBodyBytes    = 1 << 20
)

// healthHandler responds to health check requests
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "courier-server",
		"timestamp": time.Now().Format(time.RFC3339),
		"metrics":   s.metrics.Snapshot(),
	})
}

// runsHandler lists runs on GET and starts one on POST
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRuns(w, r)
	case http.MethodPost:
		s.startRun(w, r)
	default:
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// runHandler returns a run on GET and discards it on DELETE
func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		state, err := s.engine.GetState(r.Context(), runID)
		if err != nil {
			s.respondWithRunError(w, err, nil)
			return
		}
		s.respondWithJSON(w, http.StatusOK, state)
	case http.MethodDelete:
		if err := s.engine.Discard(r.Context(), runID); err != nil {
			s.respondWithRunError(w, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.engine.ListRuns(r.Context())
	if err != nil {
		s.respondWithRunError(w, err, nil)
		return
	}
	s.respondWithJSON(w, http.StatusOK, RunListResponse{Runs: runs, Count: len(runs)})
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var payload StartRunRequest
	if err := decodeBody(r, &payload, true); err != nil {
		logger.Infof("Invalid JSON payload in startRun: %v", err)
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.engine.Start(r.Context(), payload.ToWorkflow())
	if err != nil {
		s.respondWithRunError(w, err, &state)
		return
	}

	s.metrics.RunStarted()
	logger.WithRun(state.RunID).WithField("status", string(state.Status)).Info("Run started via API")
	s.respondWithJSON(w, http.StatusCreated, state)
}

func (s *Server) approveEmailHandler(w http.ResponseWriter, r *http.Request) {
	var payload ApproveEmailRequest
	s.decide(w, r, &payload, func(runID string) (core.RunState, error) {
		return s.engine.ApproveEmail(r.Context(), runID, workflow.EmailEdit{Subject: payload.Subject, Body: payload.Body})
	})
}

func (s *Server) rejectEmailHandler(w http.ResponseWriter, r *http.Request) {
	var payload RejectRequest
	s.decide(w, r, &payload, func(runID string) (core.RunState, error) {
		return s.engine.RejectEmail(r.Context(), runID, payload.Reason)
	})
}

func (s *Server) approveChatHandler(w http.ResponseWriter, r *http.Request) {
	var payload ApproveChatRequest
	s.decide(w, r, &payload, func(runID string) (core.RunState, error) {
		return s.engine.ApproveChat(r.Context(), runID, payload.Message)
	})
}

func (s *Server) rejectChatHandler(w http.ResponseWriter, r *http.Request) {
	var payload RejectRequest
	s.decide(w, r, &payload, func(runID string) (core.RunState, error) {
		return s.engine.RejectChat(r.Context(), runID, payload.Reason)
	})
}

// decide handles a gate decision: POST only, optional JSON body
func (s *Server) decide(w http.ResponseWriter, r *http.Request, payload interface{}, apply func(runID string) (core.RunState, error)) {
	if r.Method != http.MethodPost {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := decodeBody(r, payload, false); err != nil {
		logger.Infof("Invalid JSON payload in decision: %v", err)
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	state, err := apply(r.PathValue("id"))
	if err != nil {
		s.respondWithRunError(w, err, &state)
		return
	}

	s.metrics.Decision()
	s.respondWithJSON(w, http.StatusOK, state)
}

// respondWithRunError maps an engine error. When the run reached a failed
// state the body also carries that state.
func (s *Server) respondWithRunError(w http.ResponseWriter, err error, state *core.RunState) {
	s.metrics.Error()
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
	}

	if state != nil && state.RunID != "" && state.Status == core.StatusFailed {
		s.respondWithJSON(w, code, FailedRunResponse{Error: err.Error(), State: *state})
		return
	}
	s.respondWithError(w, code, err.Error())
}

// decodeBody reads a JSON body into v. An empty body is accepted unless
// required is set.
func decodeBody(r *http.Request, v interface{}, required bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && !required {
			return nil
		}
		return err
	}
	return nil
}
