package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Backland-Labs/courier/internal/core"
)

func TestEmitterImplementations(t *testing.T) {
	var _ Emitter = NewNoOpEmitter()
	var _ Emitter = NewMockEmitter()
	var _ Emitter = NewClient("http://localhost")
}

func TestMockEmitterRecordsCalls(t *testing.T) {
	m := NewMockEmitter()
	m.RunStarted("run-1", true)
	m.RunSuspended("run-1", "email")
	m.RunResumed("run-1", "email", "approved")
	m.RunFinished("run-1", core.StatusCompleted)
	m.RunFailed("run-2", errors.New("llm down"))

	assert.Equal(t, []string{TypeRunStarted, TypeRunSuspended, TypeRunResumed, TypeRunFinished, TypeRunError}, m.Methods())

	resumed := m.FindCallsByMethod(TypeRunResumed)
	require.Len(t, resumed, 1)
	assert.Equal(t, "email", resumed[0].Gate)
	assert.Equal(t, "approved", resumed[0].Decision)

	finished := m.FindCallsByMethod(TypeRunFinished)
	require.Len(t, finished, 1)
	assert.Equal(t, core.StatusCompleted, finished[0].Status)

	failed := m.FindCallsByMethod(TypeRunError)
	require.Len(t, failed, 1)
	assert.EqualError(t, failed[0].Error, "llm down")
}

func TestNoOpEmitterDoesNotPanic(t *testing.T) {
	n := NewNoOpEmitter()
	assert.NotPanics(t, func() {
		n.RunStarted("r", false)
		n.RunSuspended("r", "chat")
		n.RunResumed("r", "chat", "rejected")
		n.RunFinished("r", core.StatusCancelled)
		n.RunFailed("r", nil)
	})
}
