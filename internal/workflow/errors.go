package workflow

import "errors"

var (
	// ErrRunNotFound is returned when no checkpoint exists for a run id
	ErrRunNotFound = errors.New("run not found")

	// ErrRunTerminal is returned when resuming a run that already finished
	ErrRunTerminal = errors.New("run already finished")

	// ErrGateNotPending is returned when the run is not suspended at the gate
	// the decision targets
	ErrGateNotPending = errors.New("review gate is not pending")

	// ErrEmptyMessage is returned when a run is started without a message
	ErrEmptyMessage = errors.New("message cannot be empty")
)
