package server

import (
	"errors"
	"net/http"

	"github.com/Backland-Labs/courier/internal/config"
	"github.com/Backland-Labs/courier/internal/content"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// statusForError maps engine errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, workflow.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrRunTerminal), errors.Is(err, workflow.ErrGateNotPending):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrEmptyMessage), errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, content.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
